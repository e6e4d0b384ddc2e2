package repository

import (
	"context"
	"time"

	"github.com/vacutrack/vacutrack-api/internal/domain/entity"
)

// TransferDirection filtra el listado de transferencias de un propietario.
type TransferDirection string

const (
	DirectionIncoming TransferDirection = "incoming"
	DirectionOutgoing TransferDirection = "outgoing"
)

// TransferRepository define el puerto de persistencia para transferencias
// pendientes y sus líneas de reserva.
type TransferRepository interface {
	// Create persiste la transferencia junto con sus líneas de reserva.
	Create(ctx context.Context, transfer *entity.PendingStockTransfer) error

	GetByID(ctx context.Context, id string) (*entity.PendingStockTransfer, error)

	// GetForUpdate bloquea la fila de la transferencia para resolverla
	// (confirmar/rechazar/cancelar) sin carreras entre resoluciones.
	GetForUpdate(ctx context.Context, id string) (*entity.PendingStockTransfer, error)

	SetStatus(ctx context.Context, id, status string, resolvedAt time.Time) error

	// ListByOwner lista transferencias donde el propietario es origen
	// (outgoing) o destino (incoming); status vacío = todas.
	ListByOwner(ctx context.Context, owner entity.Owner, direction TransferDirection, status string) ([]*entity.PendingStockTransfer, error)
}
