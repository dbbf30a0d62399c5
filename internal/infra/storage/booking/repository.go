package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/Endo1018/salon-reservation-sub000/internal/domain"
	"github.com/Endo1018/salon-reservation-sub000/pkg/dbmetrics"
	"github.com/Endo1018/salon-reservation-sub000/pkg/psqlbuilder"
)

// pqExclusionViolation SQLSTATE exclusion_violation (EXCLUDE USING gist)
const pqExclusionViolation = "23P01"

var bookingColumns = []string{
	"id",
	"resource_id",
	"category",
	"staff_id",
	"start_at",
	"end_at",
	"status",
	"combo_link_id",
	"is_primary_leg",
	"service_id",
	"client_name",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование.
// Если в контексте передана активная транзакция (через dbmetrics.WithTx), использует её.
// Пересечение с другим активным бронированием ресурса или сотрудника
// отклоняется ограничением БД и возвращается как ErrSlotConflict.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	if err := r.BulkCreate(ctx, []*domain.Booking{booking}); err != nil {
		return nil, err
	}
	return booking, nil
}

// BulkCreate вставляет бронирования одним запросом (используется импортом)
func (r *Repository) BulkCreate(ctx context.Context, bookings []*domain.Booking) error {
	if len(bookings) == 0 {
		return nil
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Insert("bookings").
		Columns(
			"id",
			"resource_id",
			"category",
			"staff_id",
			"start_at",
			"end_at",
			"status",
			"combo_link_id",
			"is_primary_leg",
			"service_id",
			"client_name",
		)
	for _, b := range bookings {
		builder = builder.Values(
			b.ID,
			b.ResourceID,
			b.Category,
			b.StaffID,
			b.StartAt,
			b.EndAt,
			b.Status,
			b.ComboLinkID,
			b.IsPrimaryLeg,
			b.ServiceID,
			b.ClientName,
		)
	}

	query, args, err := builder.Suffix("RETURNING created_at, updated_at").ToSql()
	if err != nil {
		return fmt.Errorf("%w: BulkCreate - build insert query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return wrapWriteError("BulkCreate", err)
	}
	defer rows.Close()

	// RETURNING сохраняет порядок VALUES
	i := 0
	for rows.Next() {
		var createdAt, updatedAt sql.NullTime
		if err := rows.Scan(&createdAt, &updatedAt); err != nil {
			return fmt.Errorf("%w: BulkCreate - scan timestamps: %v", ErrScanRow, err)
		}
		if i < len(bookings) {
			bookings[i].CreatedAt = createdAt.Time
			bookings[i].UpdatedAt = updatedAt.Time
		}
		i++
	}
	if err := rows.Err(); err != nil {
		return wrapWriteError("BulkCreate", err)
	}

	return nil
}

// Update перезаписывает изменяемые поля бронирования
func (r *Repository) Update(ctx context.Context, booking *domain.Booking) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("resource_id", booking.ResourceID).
		Set("category", booking.Category).
		Set("staff_id", booking.StaffID).
		Set("start_at", booking.StartAt).
		Set("end_at", booking.EndAt).
		Set("status", booking.Status).
		Set("combo_link_id", booking.ComboLinkID).
		Set("is_primary_leg", booking.IsPrimaryLeg).
		Set("service_id", booking.ServiceID).
		Set("client_name", booking.ClientName).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": booking.ID}).
		Suffix("RETURNING updated_at").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	var updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrBookingNotFound
	}
	if err != nil {
		return wrapWriteError("Update", err)
	}

	booking.UpdatedAt = updatedAt.Time
	return nil
}

// UpdateStatus меняет статус нескольких бронирований (каскад по группе)
func (r *Repository) UpdateStatus(ctx context.Context, ids []string, status domain.BookingStatus) error {
	if len(ids) == 0 {
		return nil
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": ids}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return wrapWriteError("UpdateStatus", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// Delete физически удаляет бронирование (лишний этап при превращении комбо в одиночную услугу)
func (r *Repository) Delete(ctx context.Context, id string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return wrapWriteError("Delete", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// DeleteByRange административная очистка: удаляет все бронирования,
// начинающиеся в [from, to), вместе с остальными этапами их комбо-групп.
// Возвращает количество удалённых строк.
func (r *Repository) DeleteByRange(ctx context.Context, from, to time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := deleteByRangeQuery(from, to)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByRange - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, wrapWriteError("DeleteByRange", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByRange - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

// deleteByRangeQuery строит DELETE по диапазону начала; этап, выходящий за to,
// удаляется вместе с группой, чтобы не оставлять неполное комбо
func deleteByRangeQuery(from, to time.Time) (string, []interface{}, error) {
	inRange := squirrel.And{
		squirrel.GtOrEq{"start_at": from},
		squirrel.Lt{"start_at": to},
	}

	groups, groupArgs, err := squirrel.Select("combo_link_id").
		From("bookings").
		Where(inRange).
		Where(squirrel.NotEq{"combo_link_id": nil}).
		ToSql()
	if err != nil {
		return "", nil, err
	}

	return psqlbuilder.Delete("bookings").
		Where(squirrel.Or{
			inRange,
			squirrel.Expr("combo_link_id IN ("+groups+")", groupArgs...),
		}).
		ToSql()
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id})
	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %w", ErrScanRow, err)
	}

	return booking, nil
}

// GetByComboLink получает все этапы группы (включая отменённые), упорядоченные по началу
func (r *Repository) GetByComboLink(ctx context.Context, linkID string) ([]*domain.Booking, error) {
	builder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"combo_link_id": linkID}).
		OrderBy("start_at ASC", "id ASC")
	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	return r.query(ctx, "GetByComboLink", builder)
}

// ListOverlapping возвращает активные бронирования ресурса или сотрудника,
// пересекающие [filter.Start, filter.End). Overflow-записи никогда не конфликтуют
// по ресурсу. Внутри транзакции строки блокируются (FOR UPDATE).
func (r *Repository) ListOverlapping(ctx context.Context, filter domain.OverlapFilter) ([]*domain.Booking, error) {
	builder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.NotEq{"status": inactiveStatuses()}).
		Where(squirrel.Lt{"start_at": filter.End}).
		Where(squirrel.Gt{"end_at": filter.Start}).
		OrderBy("start_at ASC")

	if filter.ResourceID != nil {
		builder = builder.
			Where(squirrel.Eq{"resource_id": *filter.ResourceID}).
			Where(squirrel.NotEq{"resource_id": domain.OverflowResourceID})
	}
	if filter.StaffID != nil {
		builder = builder.Where(squirrel.Eq{"staff_id": *filter.StaffID})
	}
	if len(filter.ExcludeIDs) > 0 {
		builder = builder.Where(squirrel.NotEq{"id": filter.ExcludeIDs})
	}
	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	return r.query(ctx, "ListOverlapping", builder)
}

// List получает бронирования с фильтрацией по периоду, статусу и времени создания
func (r *Repository) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	builder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		OrderBy("start_at ASC", "resource_id ASC")

	if filter.From != nil {
		builder = builder.Where(squirrel.GtOrEq{"start_at": *filter.From})
	}
	if filter.To != nil {
		builder = builder.Where(squirrel.Lt{"start_at": *filter.To})
	}
	if filter.CreatedBefore != nil {
		builder = builder.Where(squirrel.Lt{"created_at": *filter.CreatedBefore})
	}

	// Фильтрация по статусу
	if filter.Status != nil {
		builder = builder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		builder = builder.Where(squirrel.NotEq{"status": inactiveStatuses()})
	}

	return r.query(ctx, "List", builder)
}

func (r *Repository) query(ctx context.Context, op string, builder squirrel.SelectBuilder) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %w", ErrScanRow, op, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %w", ErrScanRow, op, err)
	}

	return bookings, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.ResourceID,
		&booking.Category,
		&booking.StaffID,
		&booking.StartAt,
		&booking.EndAt,
		&booking.Status,
		&booking.ComboLinkID,
		&booking.IsPrimaryLeg,
		&booking.ServiceID,
		&booking.ClientName,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

func inactiveStatuses() []string {
	out := make([]string, len(domain.InactiveStatuses))
	for i, s := range domain.InactiveStatuses {
		out[i] = string(s)
	}
	return out
}

// wrapWriteError отделяет нарушение ограничения пересечения от прочих ошибок.
// Цепочка *pq.Error сохраняется, чтобы менеджер транзакций мог распознать
// serialization_failure и повторить транзакцию.
func wrapWriteError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqExclusionViolation {
		return fmt.Errorf("%w: %s: %s", ErrSlotConflict, op, pqErr.Constraint)
	}
	return fmt.Errorf("%w: %s: %w", ErrExecQuery, op, err)
}
