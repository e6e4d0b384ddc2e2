package repository

import (
	"context"

	"github.com/vacutrack/vacutrack-api/internal/domain/entity"
)

// CascadeRepository define el puerto de borrado masivo para el ejecutor de
// cascadas. Cada método devuelve cuántas filas eliminó, para que el ejecutor
// pueda devolver el impacto realizado y compararlo con el preview.
// Todos los métodos deben ejecutarse dentro de la transacción del ejecutor.
type CascadeRepository interface {
	// ListPendingTransfersTouching devuelve, con bloqueo, las transferencias
	// PENDING donde alguno de los propietarios es origen o destino.
	ListPendingTransfersTouching(ctx context.Context, owners []entity.Owner) ([]*entity.PendingStockTransfer, error)

	DeleteReservationsByChildren(ctx context.Context, childIDs []string) (int, error)
	// DeleteReservationsByLotOwners borra reservas que apartan dosis de lotes
	// de los propietarios dados; cubre a niños de fuera del subárbol cuyas
	// reservas apuntan a lotes que están por borrarse.
	DeleteReservationsByLotOwners(ctx context.Context, owners []entity.Owner) (int, error)
	DeleteVaccinationsByChildren(ctx context.Context, childIDs []string) (entity.VaccinationCounts, error)
	DeleteVisitRecords(ctx context.Context, healthCenterIDs []string) (int, error)
	DeleteChildren(ctx context.Context, healthCenterIDs []string) (int, error)
	DeleteTransfers(ctx context.Context, transferIDs []string) (int, error)
	DeleteLots(ctx context.Context, owners []entity.Owner) (int, error)
	DeleteAggregates(ctx context.Context, owners []entity.Owner) (int, error)
	DeleteUsers(ctx context.Context, owners []entity.Owner) (int, error)

	DeleteHealthCenters(ctx context.Context, ids []string) (int, error)
	DeleteDistricts(ctx context.Context, ids []string) (int, error)
	DeleteCommunes(ctx context.Context, ids []string) (int, error)
	DeleteRegion(ctx context.Context, id string) (int, error)

	// Eliminación de una vacuna del esquema.
	DeleteReservationsByVaccine(ctx context.Context, vaccineID string) (int, error)
	DeleteVaccinationsByVaccine(ctx context.Context, vaccineID string) (entity.VaccinationCounts, error)
	ListPendingTransfersByVaccine(ctx context.Context, vaccineID string) ([]*entity.PendingStockTransfer, error)
	DeleteLotsByVaccine(ctx context.Context, vaccineID string) (int, error)
	DeleteAggregatesByVaccine(ctx context.Context, vaccineID string) (int, error)
	DeleteVaccine(ctx context.Context, vaccineID string) (int, error)
}
