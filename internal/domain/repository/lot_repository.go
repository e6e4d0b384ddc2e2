package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vacutrack/vacutrack-api/internal/domain/entity"
)

// LotRepository define el puerto de persistencia para lotes de vacunas.
// Los métodos ForUpdate bloquean la fila (SELECT FOR UPDATE); usarlos solo
// dentro de una transacción.
type LotRepository interface {
	GetByID(ctx context.Context, id string) (*entity.StockLot, error)
	GetForUpdate(ctx context.Context, id string) (*entity.StockLot, error)

	// ListValidFEFO devuelve los lotes VALID con cantidad > 0 del propietario
	// para una vacuna, ordenados por expiración ascendente y, a igual
	// expiración, por fecha de creación (el registro más viejo primero).
	// Este orden es la base de toda asignación automática.
	ListValidFEFO(ctx context.Context, owner entity.Owner, vaccineID string) ([]*entity.StockLot, error)

	// ListValidFEFOForUpdate es ListValidFEFO con bloqueo de filas, para la
	// reserva de una propuesta de transferencia.
	ListValidFEFOForUpdate(ctx context.Context, owner entity.Owner, vaccineID string) ([]*entity.StockLot, error)

	Create(ctx context.Context, lot *entity.StockLot) error
	UpdateQuantity(ctx context.Context, id string, quantity decimal.Decimal) error

	// FindForCredit busca (con bloqueo) un lote del propietario con la misma
	// vacuna y expiración, para abonar cantidad sin mezclar expiraciones.
	FindForCredit(ctx context.Context, owner entity.Owner, vaccineID string, expiration time.Time) (*entity.StockLot, error)

	// MarkExpired pasa a EXPIRED todo lote VALID con expiración anterior a now
	// y devuelve los lotes afectados. Idempotente.
	MarkExpired(ctx context.Context, now time.Time) ([]*entity.StockLot, error)
}
