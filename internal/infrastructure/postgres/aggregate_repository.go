package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/vacutrack/vacutrack-api/internal/domain/entity"
	"github.com/vacutrack/vacutrack-api/internal/domain/repository"
)

var _ repository.AggregateRepository = (*AggregateRepo)(nil)

// AggregateRepo implementación de AggregateRepository sobre PostgreSQL
// (usable con pool o tx).
type AggregateRepo struct {
	q Querier
}

// NewAggregateRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAggregateRepository(q Querier) *AggregateRepo {
	return &AggregateRepo{q: q}
}

// Get obtiene el agregado de un propietario para una vacuna; nil si no hay fila.
func (r *AggregateRepo) Get(ctx context.Context, owner entity.Owner, vaccineID string) (*entity.AggregateStock, error) {
	query := `
		SELECT owner_level, owner_id, vaccine_id, quantity, updated_at
		FROM aggregate_stock
		WHERE owner_level = $1 AND owner_id = $2 AND vaccine_id = $3`
	var a entity.AggregateStock
	err := r.q.QueryRow(ctx, query, owner.Level, owner.ID, vaccineID).Scan(
		&a.Owner.Level, &a.Owner.ID, &a.VaccineID, &a.Quantity, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get aggregate: %w", err)
	}
	return &a, nil
}

// ListByOwner lista los agregados de un propietario, una fila por vacuna.
func (r *AggregateRepo) ListByOwner(ctx context.Context, owner entity.Owner) ([]*entity.AggregateStock, error) {
	query := `
		SELECT owner_level, owner_id, vaccine_id, quantity, updated_at
		FROM aggregate_stock
		WHERE owner_level = $1 AND owner_id = $2
		ORDER BY vaccine_id`
	rows, err := r.q.Query(ctx, query, owner.Level, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("list aggregates: %w", err)
	}
	defer rows.Close()

	var list []*entity.AggregateStock
	for rows.Next() {
		var a entity.AggregateStock
		if err := rows.Scan(&a.Owner.Level, &a.Owner.ID, &a.VaccineID, &a.Quantity, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan aggregate: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

// Recompute recalcula el agregado como Σ lotes VALID del propietario para la
// vacuna y hace upsert. Llamar siempre en la misma transacción que mutó los
// lotes, para que el invariante agregado == Σ lotes se sostenga en todo
// momento visible.
func (r *AggregateRepo) Recompute(ctx context.Context, owner entity.Owner, vaccineID string) error {
	query := `
		INSERT INTO aggregate_stock (owner_level, owner_id, vaccine_id, quantity, updated_at)
		SELECT $1, $2, $3, COALESCE(SUM(quantity), 0), now()
		FROM stock_lots
		WHERE owner_level = $1 AND owner_id = $2 AND vaccine_id = $3 AND status = 'VALID'
		ON CONFLICT (owner_level, owner_id, vaccine_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(ctx, query, owner.Level, owner.ID, vaccineID)
	if err != nil {
		return fmt.Errorf("recompute aggregate: %w", err)
	}
	return nil
}
