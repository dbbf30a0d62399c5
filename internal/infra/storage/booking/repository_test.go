package booking

import (
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestWrapWriteError(t *testing.T) {
	err := wrapWriteError("Update", &pq.Error{Code: pqExclusionViolation, Constraint: "bookings_resource_no_overlap"})
	assert.ErrorIs(t, err, ErrSlotConflict)
	assert.Contains(t, err.Error(), "bookings_resource_no_overlap")

	serialization := &pq.Error{Code: "40001"}
	err = wrapWriteError("Update", serialization)
	assert.ErrorIs(t, err, ErrExecQuery)

	var pqErr *pq.Error
	assert.True(t, errors.As(err, &pqErr), "pq error must stay in the chain")
	assert.Equal(t, pq.ErrorCode("40001"), pqErr.Code)
}

func TestInactiveStatuses(t *testing.T) {
	assert.Equal(t, []string{"cancelled"}, inactiveStatuses())
}

func TestDeleteByRangeQuery_TakesWholeGroups(t *testing.T) {
	from := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	query, args, err := deleteByRangeQuery(from, to)
	assert.NoError(t, err)

	assert.Contains(t, query, "DELETE FROM bookings WHERE")
	assert.Contains(t, query, "start_at >= $1 AND start_at < $2")
	assert.Contains(t, query, "combo_link_id IN (SELECT combo_link_id FROM bookings WHERE")
	assert.Contains(t, query, "start_at >= $3 AND start_at < $4")
	assert.Contains(t, query, "combo_link_id IS NOT NULL")
	assert.NotContains(t, query, "?")
	assert.Equal(t, []interface{}{from, to, from, to}, args)
}
