package stock

import (
	"context"

	"github.com/vacutrack/vacutrack-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad entre lotes y agregados.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		lotRepo repository.LotRepository,
		aggRepo repository.AggregateRepository,
	) error) error
}
