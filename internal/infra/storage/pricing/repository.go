package pricing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/GardenBookingService/internal/domain"
	"github.com/m04kA/GardenBookingService/pkg/psqlbuilder"
	"github.com/m04kA/GardenBookingService/pkg/txmanager"
)

// DBExecutor *sql.DB or the transaction carried in the context
type DBExecutor = txmanager.DBExecutor

// Repository pricing_overrides table, one row per service key
type Repository struct {
	db DBExecutor
}

// NewRepository creates a pricing overrides repository
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Get override of a single service
func (r *Repository) Get(ctx context.Context, serviceKey string) (*domain.PricingOverride, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"service_key",
		"minimum_call_out_pence",
		"updated_by",
		"created_at",
		"updated_at",
	).
		From("pricing_overrides").
		Where(squirrel.Eq{"service_key": serviceKey}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	override, err := scanOverride(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOverrideNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan override: %v", ErrScanRow, err)
	}

	return override, nil
}

// List all overrides, ordered by service key
func (r *Repository) List(ctx context.Context) ([]domain.PricingOverride, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"service_key",
		"minimum_call_out_pence",
		"updated_by",
		"created_at",
		"updated_at",
	).
		From("pricing_overrides").
		OrderBy("service_key ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	overrides := make([]domain.PricingOverride, 0)
	for rows.Next() {
		o, err := scanOverride(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		overrides = append(overrides, *o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return overrides, nil
}

// Upsert creates or replaces the override of a service
func (r *Repository) Upsert(ctx context.Context, override *domain.PricingOverride) (*domain.PricingOverride, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("pricing_overrides").
		Columns(
			"service_key",
			"minimum_call_out_pence",
			"updated_by",
		).
		Values(
			override.ServiceKey,
			override.MinimumCallOutPence,
			override.UpdatedBy,
		).
		Suffix("ON CONFLICT (service_key) DO UPDATE SET " +
			"minimum_call_out_pence = EXCLUDED.minimum_call_out_pence, " +
			"updated_by = EXCLUDED.updated_by, " +
			"updated_at = NOW() " +
			"RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	override.CreatedAt = createdAt.Time
	override.UpdatedAt = updatedAt.Time

	return override, nil
}

// Delete removes the override; the static price table applies again
func (r *Repository) Delete(ctx context.Context, serviceKey string) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("pricing_overrides").
		Where(squirrel.Eq{"service_key": serviceKey}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrOverrideNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOverride(row rowScanner) (*domain.PricingOverride, error) {
	var o domain.PricingOverride
	var createdAt, updatedAt sql.NullTime

	if err := row.Scan(
		&o.ServiceKey,
		&o.MinimumCallOutPence,
		&o.UpdatedBy,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	o.CreatedAt = createdAt.Time
	o.UpdatedAt = updatedAt.Time

	return &o, nil
}
