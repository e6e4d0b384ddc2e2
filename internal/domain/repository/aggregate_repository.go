package repository

import (
	"context"

	"github.com/vacutrack/vacutrack-api/internal/domain/entity"
)

// AggregateRepository define el puerto para el stock agregado por
// propietario y vacuna (caché desnormalizada de los lotes VALID).
type AggregateRepository interface {
	Get(ctx context.Context, owner entity.Owner, vaccineID string) (*entity.AggregateStock, error)
	ListByOwner(ctx context.Context, owner entity.Owner) ([]*entity.AggregateStock, error)

	// Recompute recalcula el agregado como Σ lotes VALID y hace upsert.
	// Debe llamarse en la misma transacción que mutó los lotes.
	Recompute(ctx context.Context, owner entity.Owner, vaccineID string) error
}
