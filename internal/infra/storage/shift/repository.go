package shift

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/Endo1018/salon-reservation-sub000/internal/domain"
	"github.com/Endo1018/salon-reservation-sub000/pkg/dbmetrics"
	"github.com/Endo1018/salon-reservation-sub000/pkg/psqlbuilder"
)

// Repository репозиторий смен сотрудников.
// Даты хранятся как DATE и возвращаются полуночью в часовом поясе салона.
type Repository struct {
	db       DBExecutor
	location *time.Location
}

// NewRepository создает новый экземпляр репозитория смен
func NewRepository(db DBExecutor, location *time.Location) *Repository {
	if location == nil {
		location = time.UTC
	}
	return &Repository{db: db, location: location}
}

// Upsert создает или заменяет смену сотрудника на дату
func (r *Repository) Upsert(ctx context.Context, shift *domain.Shift) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("staff_shifts").
		Columns("staff_id", "shift_date", "status").
		Values(shift.StaffID, shift.Date.In(r.location).Format(domain.DateFormat), shift.Status).
		Suffix("ON CONFLICT (staff_id, shift_date) DO UPDATE SET status = EXCLUDED.status, updated_at = NOW()").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Upsert - execute insert: %w", ErrExecQuery, err)
	}

	return nil
}

// ListByDate получает все смены на дату
func (r *Repository) ListByDate(ctx context.Context, date time.Time) ([]*domain.Shift, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("staff_id", "shift_date", "status").
		From("staff_shifts").
		Where(squirrel.Expr("shift_date = ?::date", date.In(r.location).Format(domain.DateFormat))).
		OrderBy("staff_id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByDate - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	shifts := make([]*domain.Shift, 0)
	for rows.Next() {
		var s domain.Shift
		var d time.Time
		if err := rows.Scan(&s.StaffID, &d, &s.Status); err != nil {
			return nil, fmt.Errorf("%w: ListByDate - scan row: %v", ErrScanRow, err)
		}
		s.Date = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, r.location)
		shifts = append(shifts, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByDate - rows error: %w", ErrScanRow, err)
	}

	return shifts, nil
}
