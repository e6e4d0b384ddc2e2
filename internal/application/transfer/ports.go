package transfer

import (
	"context"

	"github.com/vacutrack/vacutrack-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. La reserva de lotes y la creación de la
// transferencia deben ser atómicas: o pasan ambas o ninguna.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		lotRepo repository.LotRepository,
		aggRepo repository.AggregateRepository,
		transferRepo repository.TransferRepository,
	) error) error
}
