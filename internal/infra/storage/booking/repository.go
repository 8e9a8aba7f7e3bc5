package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/GardenBookingService/internal/domain"
	"github.com/m04kA/GardenBookingService/pkg/psqlbuilder"
	"github.com/m04kA/GardenBookingService/pkg/txmanager"
)

const (
	pqUniqueViolation      = "23505"
	pqSerializationFailure = "40001"
)

// ErrSerialization concurrent transaction touched the same day; safe to retry
var ErrSerialization = errors.New("booking.repository: serialization failure")

var bookingColumns = []string{
	"id",
	"reference",
	"service_key",
	"booking_date",
	"start_slot",
	"status",
	"slots_required",
	"buffer_slots",
	"full_day",
	"service_name",
	"price_pence",
	"price_note",
	"distance_miles",
	"customer_name",
	"customer_email",
	"customer_phone",
	"postcode",
	"address",
	"notes",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository bookings table
type Repository struct {
	db DBExecutor
}

// NewRepository creates a bookings repository
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create inserts a booking and fills ID and timestamps.
// Uses the transaction from ctx if there is one.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"reference",
			"service_key",
			"booking_date",
			"start_slot",
			"status",
			"slots_required",
			"buffer_slots",
			"full_day",
			"service_name",
			"price_pence",
			"price_note",
			"distance_miles",
			"customer_name",
			"customer_email",
			"customer_phone",
			"postcode",
			"address",
			"notes",
		).
		Values(
			booking.Reference,
			booking.ServiceKey,
			booking.BookingDate,
			booking.StartSlot,
			booking.Status,
			booking.SlotsRequired,
			booking.BufferSlots,
			booking.FullDay,
			booking.ServiceName,
			booking.PricePence,
			booking.PriceNote,
			booking.DistanceMiles,
			booking.CustomerName,
			booking.CustomerEmail,
			booking.CustomerPhone,
			booking.Postcode,
			booking.Address,
			booking.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if pgCode(err) == pqUniqueViolation {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateReference, booking.Reference)
		}
		return nil, r.execError("Create - execute insert", err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByReference loads a booking by its public reference.
// Inside a transaction the row is locked FOR UPDATE.
func (r *Repository) GetByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"reference": reference})

	if txmanager.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByReference - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByReference - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// LockDay takes a transaction-scoped advisory lock on the booking date,
// so concurrent submissions for the same day run one after another.
// An empty day has no rows for FOR UPDATE to lock. No-op outside a transaction.
func (r *Repository) LockDay(ctx context.Context, date time.Time) error {
	if !txmanager.IsInTransaction(ctx) {
		return nil
	}
	executor := txmanager.GetExecutor(ctx, r.db)

	key := int64(date.Year()*10000 + int(date.Month())*100 + date.Day())
	if _, err := executor.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", key); err != nil {
		return r.execError("LockDay - advisory lock", err)
	}
	return nil
}

// ListByDay loads bookings in [StartDate, EndDate] ordered by date and start slot.
// Inactive bookings are skipped unless IncludeInactive or an explicit Status is set.
// Inside a transaction a single-day query locks the rows FOR UPDATE.
func (r *Repository) ListByDay(ctx context.Context, filter domain.DayBookingsFilter) ([]*domain.Booking, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.GtOrEq{"booking_date": filter.StartDate}).
		Where(squirrel.LtOrEq{"booking_date": filter.EndDate})

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		inactive := make([]string, len(domain.InactiveStatuses))
		for i, s := range domain.InactiveStatuses {
			inactive[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": inactive})
	}

	selectBuilder = selectBuilder.OrderBy("booking_date ASC", "start_slot ASC")

	if txmanager.IsInTransaction(ctx) && domain.IsSameDay(filter.StartDate, filter.EndDate) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByDay - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, r.execError("ListByDay - execute query", err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// Cancel moves a booking into a cancelled status with a reason
func (r *Repository) Cancel(ctx context.Context, id int64, status domain.BookingStatus, reason *string) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", status).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "Cancel", query, args)
}

// UpdateStatus sets a booking status
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "UpdateStatus", query, args)
}

// CompleteBefore marks confirmed bookings dated before the given day as completed.
// Returns the number of bookings closed out.
func (r *Repository) CompleteBefore(ctx context.Context, before time.Time) (int64, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCompleted).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"status": []string{string(domain.StatusConfirmed), string(domain.StatusPending)}}).
		Where(squirrel.Lt{"booking_date": before}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CompleteBefore - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, r.execError("CompleteBefore - execute update", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: CompleteBefore - get rows affected: %v", ErrExecQuery, err)
	}

	return n, nil
}

func (r *Repository) execAffectingOne(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return r.execError(op+" - execute update", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

func (r *Repository) execError(op string, err error) error {
	if pgCode(err) == pqSerializationFailure {
		return fmt.Errorf("%w: %s: %v", ErrSerialization, op, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrExecQuery, op, err)
}

func pgCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.Reference,
		&booking.ServiceKey,
		&booking.BookingDate,
		&booking.StartSlot,
		&booking.Status,
		&booking.SlotsRequired,
		&booking.BufferSlots,
		&booking.FullDay,
		&booking.ServiceName,
		&booking.PricePence,
		&booking.PriceNote,
		&booking.DistanceMiles,
		&booking.CustomerName,
		&booking.CustomerEmail,
		&booking.CustomerPhone,
		&booking.Postcode,
		&booking.Address,
		&booking.Notes,
		&booking.CancellationReason,
		&booking.CancelledAt,
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

func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}
