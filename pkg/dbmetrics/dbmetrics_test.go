package dbmetrics

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperationName(t *testing.T) {
	tests := map[string]string{
		"SELECT id FROM bookings":            "select",
		"  insert into bookings (id) values": "insert",
		"UPDATE\n bookings SET status = $1":  "update",
		"delete":                             "delete",
	}

	for query, want := range tests {
		assert.Equal(t, want, operationName(query), query)
	}
}

type marker struct {
	DBExecutor
}

func (marker) Commit() error   { return nil }
func (marker) Rollback() error { return nil }

func TestExecutorInContext(t *testing.T) {
	var db DBExecutor = &sql.DB{}
	ctx := context.Background()

	assert.False(t, IsInTransaction(ctx))
	assert.Same(t, db, GetExecutor(ctx, db))

	tx := marker{}
	txCtx := WithTx(ctx, tx)

	assert.True(t, IsInTransaction(txCtx))
	assert.Equal(t, TxExecutor(tx), GetExecutor(txCtx, db))
}
