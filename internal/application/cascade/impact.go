package cascade

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/vacutrack/vacutrack-api/internal/domain"
	"github.com/vacutrack/vacutrack-api/internal/domain/entity"
	"github.com/vacutrack/vacutrack-api/internal/domain/repository"
)

// ImpactUseCase calcula el impacto de una eliminación candidata sin mutar
// nada: cada registro dependiente que sería destruido o invalidado, con el
// conteo exacto de citas que se cancelarían. Es una familia de funciones
// puras sobre consultas de solo lectura, segura de repetir (por ejemplo
// para re-renderizar un diálogo de confirmación).
type ImpactUseCase struct {
	adminRepo   repository.AdminTreeRepository
	impactRepo  repository.ImpactRepository
	vaccineRepo repository.VaccineRepository
	lotRepo     repository.LotRepository
}

// NewImpactUseCase construye el caso de uso.
func NewImpactUseCase(
	adminRepo repository.AdminTreeRepository,
	impactRepo repository.ImpactRepository,
	vaccineRepo repository.VaccineRepository,
	lotRepo repository.LotRepository,
) *ImpactUseCase {
	return &ImpactUseCase{
		adminRepo:   adminRepo,
		impactRepo:  impactRepo,
		vaccineRepo: vaccineRepo,
		lotRepo:     lotRepo,
	}
}

// PreviewEntity calcula el impacto de eliminar una entidad administrativa.
// El resultado se produce fresco en cada llamada; nunca se cachea, porque
// una escritura concurrente lo dejaría obsoleto entre preview y confirm.
func (uc *ImpactUseCase) PreviewEntity(ctx context.Context, scope entity.Owner, entityType entity.EntityType, id string) (*entity.CascadeImpact, error) {
	if !entityType.Valid() || id == "" {
		return nil, domain.ErrInvalidInput
	}
	exists, err := uc.adminRepo.EntityExists(ctx, entityType, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound
	}
	covered, err := uc.adminRepo.CoversEntity(ctx, scope, entityType, id)
	if err != nil {
		return nil, err
	}
	if !covered {
		return nil, domain.ErrForbidden
	}

	sub, err := uc.adminRepo.Subtree(ctx, entityType, id)
	if err != nil {
		return nil, err
	}

	impact := &entity.CascadeImpact{
		EntityType:    entityType,
		EntityID:      id,
		Communes:      len(sub.CommuneIDs),
		Districts:     len(sub.DistrictIDs),
		HealthCenters: len(sub.HealthCenterIDs),
		Children:      len(sub.ChildIDs),
	}
	if impact.Users, err = uc.impactRepo.CountUsers(ctx, sub.Owners); err != nil {
		return nil, err
	}
	if impact.VisitRecords, err = uc.impactRepo.CountVisitRecords(ctx, subCenters(sub, entityType, id)); err != nil {
		return nil, err
	}
	if impact.Reservations, err = uc.impactRepo.CountReservations(ctx, sub.ChildIDs, sub.Owners); err != nil {
		return nil, err
	}
	if impact.Vaccinations, err = uc.impactRepo.CountVaccinations(ctx, sub.ChildIDs); err != nil {
		return nil, err
	}
	if impact.StockLots, err = uc.impactRepo.CountLots(ctx, sub.Owners); err != nil {
		return nil, err
	}
	if impact.Aggregates, err = uc.impactRepo.CountAggregates(ctx, sub.Owners); err != nil {
		return nil, err
	}
	if impact.Transfers, err = uc.impactRepo.CountPendingTransfers(ctx, sub.Owners); err != nil {
		return nil, err
	}
	impact.Finalize()
	return impact, nil
}

// PreviewVaccine calcula el impacto de retirar una vacuna del esquema:
// cuántas citas vivas se cancelarían y cuánto stock desaparecería.
func (uc *ImpactUseCase) PreviewVaccine(ctx context.Context, scope entity.Owner, vaccineID string) (*entity.VaccineImpact, error) {
	if vaccineID == "" {
		return nil, domain.ErrInvalidInput
	}
	// Retirar una vacuna del esquema es una operación nacional
	if scope.Level != entity.LevelNational {
		return nil, domain.ErrForbidden
	}
	exists, err := uc.vaccineRepo.Exists(ctx, vaccineID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound
	}

	counts, err := uc.impactRepo.CountVaccinationsByVaccine(ctx, vaccineID)
	if err != nil {
		return nil, err
	}
	impact := &entity.VaccineImpact{
		VaccineID:            vaccineID,
		AffectedAppointments: counts.Appointments(),
		CompletedRecords:     counts.Completed,
	}
	impact.WillCancelAppointments = impact.AffectedAppointments > 0
	if impact.StockLots, err = uc.impactRepo.CountLotsByVaccine(ctx, vaccineID); err != nil {
		return nil, err
	}
	if impact.Aggregates, err = uc.impactRepo.CountAggregatesByVaccine(ctx, vaccineID); err != nil {
		return nil, err
	}
	if impact.PendingTransfers, err = uc.impactRepo.CountPendingTransfersByVaccine(ctx, vaccineID); err != nil {
		return nil, err
	}
	return impact, nil
}

// PreviewLotReduction informa qué depende de un lote antes de reducirlo:
// cuánta cantidad tienen reservada transferencias pendientes y cuántas
// reservas de citas lo referencian.
func (uc *ImpactUseCase) PreviewLotReduction(ctx context.Context, scope entity.Owner, lotID string) (*entity.LotReductionImpact, error) {
	if lotID == "" {
		return nil, domain.ErrInvalidInput
	}
	lot, err := uc.lotRepo.GetByID(ctx, lotID)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, domain.ErrNotFound
	}
	covered, err := uc.adminRepo.Covers(ctx, scope, lot.Owner)
	if err != nil {
		return nil, err
	}
	if !covered {
		return nil, domain.ErrForbidden
	}

	reserved, transfers, err := uc.impactRepo.ReservedAgainstLot(ctx, lotID)
	if err != nil {
		return nil, err
	}
	reservations, err := uc.impactRepo.CountReservationsByLot(ctx, lotID)
	if err != nil {
		return nil, err
	}
	if reserved.LessThan(decimal.Zero) {
		reserved = decimal.Zero
	}
	return &entity.LotReductionImpact{
		LotID:                lotID,
		QuantityReserved:     reserved,
		InvalidatedTransfers: transfers,
		Reservations:         reservations,
	}, nil
}

// subCenters devuelve los centros cuyo historial de visitas se vería
// afectado, incluida la raíz cuando ella misma es un centro.
func subCenters(sub *repository.Subtree, entityType entity.EntityType, id string) []string {
	if entityType == entity.EntityHealthCenter {
		return append([]string{id}, sub.HealthCenterIDs...)
	}
	return sub.HealthCenterIDs
}
