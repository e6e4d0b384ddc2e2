package cascade

import (
	"context"

	"github.com/vacutrack/vacutrack-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. La eliminación en cascada es todo-o-nada:
// si cualquier paso falla, la transacción completa se revierte y ningún
// registro queda borrado.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		cascadeRepo repository.CascadeRepository,
		lotRepo repository.LotRepository,
		aggRepo repository.AggregateRepository,
		adminRepo repository.AdminTreeRepository,
	) error) error
}
