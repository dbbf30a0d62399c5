package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/sethvargo/go-retry"

	"github.com/Endo1018/salon-reservation-sub000/pkg/dbmetrics"
)

var (
	// ErrConflict возвращается, когда сериализуемая транзакция так и не прошла
	// после всех повторов
	ErrConflict = errors.New("txmanager: serialization conflict")

	// ErrTransaction возвращается при ошибках начала/фиксации транзакции
	ErrTransaction = errors.New("txmanager: transaction error")

	// ErrConstraint возвращается, когда фиксация нарушила отложенное ограничение
	// на пересечение интервалов (EXCLUDE)
	ErrConstraint = errors.New("txmanager: exclusion constraint violated at commit")
)

const (
	defaultMaxRetries = 3
	defaultBackoff    = 20 * time.Millisecond

	// pqSerializationFailure SQLSTATE serialization_failure
	pqSerializationFailure = "40001"
	// pqDeadlockDetected SQLSTATE deadlock_detected
	pqDeadlockDetected = "40P01"
	// pqExclusionViolation SQLSTATE exclusion_violation
	pqExclusionViolation = "23P01"
)

// TxBeginner интерфейс для начала транзакций
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

// TransactionManager управляет транзакциями PostgreSQL.
// Транзакция передаётся в репозитории через контекст (dbmetrics.WithTx).
type TransactionManager struct {
	db         TxBeginner
	maxRetries uint64
	backoff    time.Duration
}

// NewTransactionManager создает новый менеджер транзакций
func NewTransactionManager(db TxBeginner) *TransactionManager {
	return &TransactionManager{
		db:         db,
		maxRetries: defaultMaxRetries,
		backoff:    defaultBackoff,
	}
}

// Do выполняет fn в транзакции с уровнем изоляции по умолчанию
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{}, fn)
}

// DoReadOnly выполняет fn в транзакции только для чтения
func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{ReadOnly: true}, fn)
}

// DoSerializable выполняет fn в SERIALIZABLE транзакции.
// При serialization_failure / deadlock транзакция повторяется целиком
// с экспоненциальной паузой; fn должна быть идемпотентной относительно БД.
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	opts := &sql.TxOptions{Isolation: sql.LevelSerializable}

	backoff := retry.WithMaxRetries(m.maxRetries, retry.NewExponential(m.backoff))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := m.run(ctx, opts, fn)
		if isRetryable(err) {
			return retry.RetryableError(err)
		}
		return err
	})

	if isRetryable(err) {
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}

func (m *TransactionManager) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) (err error) {
	// Вложенный вызов переиспользует уже открытую транзакцию
	if dbmetrics.IsInTransaction(ctx) {
		return fn(ctx)
	}

	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: begin: %w", ErrTransaction, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(dbmetrics.WithTx(ctx, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		if isRetryable(err) {
			return err
		}
		if isExclusionViolation(err) {
			return fmt.Errorf("%w: commit: %w", ErrConstraint, err)
		}
		return fmt.Errorf("%w: commit: %w", ErrTransaction, err)
	}

	return nil
}

// isRetryable проверяет, что ошибка вызвана конфликтом сериализации
func isRetryable(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqSerializationFailure || pqErr.Code == pqDeadlockDetected
	}
	return false
}

// isExclusionViolation проверяет, что ошибка вызвана EXCLUDE ограничением
func isExclusionViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqExclusionViolation
}
