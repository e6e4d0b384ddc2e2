package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/vacutrack/vacutrack-api/internal/domain/entity"
)

// ImpactRepository define el puerto de solo lectura para el cálculo de
// impacto en cascada. Ningún método bloquea ni muta: el preview debe poder
// repetirse sin efectos secundarios.
type ImpactRepository interface {
	CountUsers(ctx context.Context, owners []entity.Owner) (int, error)
	CountVisitRecords(ctx context.Context, healthCenterIDs []string) (int, error)
	// CountReservations cuenta reservas de citas de los niños dados o que
	// apartan dosis de lotes de los propietarios dados (sin duplicar).
	CountReservations(ctx context.Context, childIDs []string, lotOwners []entity.Owner) (int, error)
	CountVaccinations(ctx context.Context, childIDs []string) (entity.VaccinationCounts, error)
	CountLots(ctx context.Context, owners []entity.Owner) (int, error)
	CountAggregates(ctx context.Context, owners []entity.Owner) (int, error)

	// CountPendingTransfers cuenta transferencias PENDING donde alguno de los
	// propietarios es origen o destino.
	CountPendingTransfers(ctx context.Context, owners []entity.Owner) (int, error)

	// Por vacuna.
	CountVaccinationsByVaccine(ctx context.Context, vaccineID string) (entity.VaccinationCounts, error)
	CountLotsByVaccine(ctx context.Context, vaccineID string) (int, error)
	CountAggregatesByVaccine(ctx context.Context, vaccineID string) (int, error)
	CountPendingTransfersByVaccine(ctx context.Context, vaccineID string) (int, error)

	// ReservedAgainstLot devuelve la cantidad total reservada sobre un lote
	// por transferencias PENDING y cuántas transferencias la componen.
	ReservedAgainstLot(ctx context.Context, lotID string) (decimal.Decimal, int, error)
	CountReservationsByLot(ctx context.Context, lotID string) (int, error)
}
