package cascade

import (
	"context"

	"github.com/vacutrack/vacutrack-api/internal/domain"
	"github.com/vacutrack/vacutrack-api/internal/domain/entity"
	"github.com/vacutrack/vacutrack-api/internal/domain/repository"
)

// CascadeUseCase ejecuta la eliminación en cascada de una entidad o de una
// vacuna, previa confirmación del operador. Toda la secuencia corre dentro
// de una sola transacción en orden estricto de dependencias (siempre hijos
// antes que padres); si cualquier paso falla, nada queda borrado.
//
// El preview y la ejecución no son atómicos entre sí: el estado puede
// cambiar entre ambos. La ejecución revalida la existencia del objetivo y
// procede sobre el estado actual; si el objetivo ya no existe, falla con
// ErrAlreadyDeleted en lugar de un error duro.
type CascadeUseCase struct {
	txRunner    TxRunner
	adminRepo   repository.AdminTreeRepository
	vaccineRepo repository.VaccineRepository
}

// NewCascadeUseCase construye el caso de uso.
func NewCascadeUseCase(
	txRunner TxRunner,
	adminRepo repository.AdminTreeRepository,
	vaccineRepo repository.VaccineRepository,
) *CascadeUseCase {
	return &CascadeUseCase{
		txRunner:    txRunner,
		adminRepo:   adminRepo,
		vaccineRepo: vaccineRepo,
	}
}

// Execute elimina una entidad administrativa y todo su subárbol, en el
// orden: reservas, registros de vacunación, bitácoras de visita, niños,
// transferencias pendientes, lotes, agregados, usuarios y por último las
// filas de entidad (centros, luego distritos, comunas y la región).
// Devuelve el impacto realizado, con los conteos de lo efectivamente
// borrado, comparable con el preview.
func (uc *CascadeUseCase) Execute(ctx context.Context, scope entity.Owner, entityType entity.EntityType, id string) (*entity.CascadeImpact, error) {
	if !entityType.Valid() || id == "" {
		return nil, domain.ErrInvalidInput
	}
	exists, err := uc.adminRepo.EntityExists(ctx, entityType, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrAlreadyDeleted
	}
	covered, err := uc.adminRepo.CoversEntity(ctx, scope, entityType, id)
	if err != nil {
		return nil, err
	}
	if !covered {
		return nil, domain.ErrForbidden
	}

	impact := &entity.CascadeImpact{EntityType: entityType, EntityID: id}
	err = uc.txRunner.Run(ctx, func(
		cascadeRepo repository.CascadeRepository,
		lotRepo repository.LotRepository,
		aggRepo repository.AggregateRepository,
		adminRepo repository.AdminTreeRepository,
	) error {
		// Revalidar dentro de la transacción: el objetivo pudo desaparecer
		// entre el preview y la confirmación
		exists, err := adminRepo.EntityExists(ctx, entityType, id)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrAlreadyDeleted
		}
		sub, err := adminRepo.Subtree(ctx, entityType, id)
		if err != nil {
			return err
		}
		centers := subCenters(sub, entityType, id)

		// 1. Reservas de citas de los niños afectados
		if impact.Reservations, err = cascadeRepo.DeleteReservationsByChildren(ctx, sub.ChildIDs); err != nil {
			return err
		}
		// 2. Registros de vacunación (programados y completados)
		if impact.Vaccinations, err = cascadeRepo.DeleteVaccinationsByChildren(ctx, sub.ChildIDs); err != nil {
			return err
		}
		// 3. Bitácoras de visita de los centros
		if impact.VisitRecords, err = cascadeRepo.DeleteVisitRecords(ctx, centers); err != nil {
			return err
		}
		// 4. Los niños
		if impact.Children, err = cascadeRepo.DeleteChildren(ctx, centers); err != nil {
			return err
		}
		// 5. Transferencias pendientes que tocan al subárbol
		if impact.Transfers, err = uc.resolveTransfers(ctx, cascadeRepo, lotRepo, aggRepo, sub.Owners); err != nil {
			return err
		}
		// 6. Lotes del subárbol. Antes caen las reservas de niños externos
		// que apuntan a estos lotes, para no dejar referencias colgantes
		extra, err := cascadeRepo.DeleteReservationsByLotOwners(ctx, sub.Owners)
		if err != nil {
			return err
		}
		impact.Reservations += extra
		if impact.StockLots, err = cascadeRepo.DeleteLots(ctx, sub.Owners); err != nil {
			return err
		}
		// 7. Agregados del subárbol
		if impact.Aggregates, err = cascadeRepo.DeleteAggregates(ctx, sub.Owners); err != nil {
			return err
		}
		// 8. Usuarios adscritos
		if impact.Users, err = cascadeRepo.DeleteUsers(ctx, sub.Owners); err != nil {
			return err
		}
		// 9. Las filas de entidad, de hoja a raíz
		return uc.deleteEntityRows(ctx, cascadeRepo, entityType, id, sub, impact)
	})
	if err != nil {
		return nil, err
	}
	impact.Finalize()
	return impact, nil
}

// resolveTransfers elimina las transferencias pendientes que tocan a los
// propietarios borrados. Cuando la entidad eliminada es solo el receptor,
// la cantidad reservada se devuelve primero a los lotes de origen, que
// sobreviven; si es el emisor, sus lotes caen con ella y no hay abono.
func (uc *CascadeUseCase) resolveTransfers(
	ctx context.Context,
	cascadeRepo repository.CascadeRepository,
	lotRepo repository.LotRepository,
	aggRepo repository.AggregateRepository,
	owners []entity.Owner,
) (int, error) {
	transfers, err := cascadeRepo.ListPendingTransfersTouching(ctx, owners)
	if err != nil {
		return 0, err
	}
	if len(transfers) == 0 {
		return 0, nil
	}

	deleted := make(map[entity.Owner]bool, len(owners))
	for _, o := range owners {
		deleted[o] = true
	}

	ids := make([]string, 0, len(transfers))
	for _, t := range transfers {
		ids = append(ids, t.ID)
		if deleted[t.From] {
			continue
		}
		// El origen sobrevive: abonar las reservas de vuelta a sus lotes
		for _, line := range t.Lots {
			lot, err := lotRepo.GetForUpdate(ctx, line.LotID)
			if err != nil {
				return 0, err
			}
			if lot == nil {
				continue
			}
			if err := lotRepo.UpdateQuantity(ctx, lot.ID, lot.Quantity.Add(line.QuantityReserved)); err != nil {
				return 0, err
			}
		}
		if err := aggRepo.Recompute(ctx, t.From, t.VaccineID); err != nil {
			return 0, err
		}
	}
	return cascadeRepo.DeleteTransfers(ctx, ids)
}

// deleteEntityRows borra las filas del árbol administrativo respetando las
// dependencias: centros, distritos, comunas y finalmente la raíz.
func (uc *CascadeUseCase) deleteEntityRows(
	ctx context.Context,
	cascadeRepo repository.CascadeRepository,
	entityType entity.EntityType,
	id string,
	sub *repository.Subtree,
	impact *entity.CascadeImpact,
) error {
	var err error
	if impact.HealthCenters, err = cascadeRepo.DeleteHealthCenters(ctx, sub.HealthCenterIDs); err != nil {
		return err
	}
	if impact.Districts, err = cascadeRepo.DeleteDistricts(ctx, sub.DistrictIDs); err != nil {
		return err
	}
	if impact.Communes, err = cascadeRepo.DeleteCommunes(ctx, sub.CommuneIDs); err != nil {
		return err
	}

	switch entityType {
	case entity.EntityHealthCenter:
		_, err = cascadeRepo.DeleteHealthCenters(ctx, []string{id})
	case entity.EntityDistrict:
		_, err = cascadeRepo.DeleteDistricts(ctx, []string{id})
	case entity.EntityCommune:
		_, err = cascadeRepo.DeleteCommunes(ctx, []string{id})
	case entity.EntityRegion:
		_, err = cascadeRepo.DeleteRegion(ctx, id)
	}
	return err
}

// ExecuteVaccineDeletion retira una vacuna del esquema: cancela sus citas,
// borra sus registros, lotes, agregados y transferencias, y por último la
// vacuna. Operación nacional, todo-o-nada.
func (uc *CascadeUseCase) ExecuteVaccineDeletion(ctx context.Context, scope entity.Owner, vaccineID string) (*entity.VaccineImpact, error) {
	if vaccineID == "" {
		return nil, domain.ErrInvalidInput
	}
	if scope.Level != entity.LevelNational {
		return nil, domain.ErrForbidden
	}
	exists, err := uc.vaccineRepo.Exists(ctx, vaccineID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrAlreadyDeleted
	}

	impact := &entity.VaccineImpact{VaccineID: vaccineID}
	err = uc.txRunner.Run(ctx, func(
		cascadeRepo repository.CascadeRepository,
		lotRepo repository.LotRepository,
		aggRepo repository.AggregateRepository,
		adminRepo repository.AdminTreeRepository,
	) error {
		if _, err := cascadeRepo.DeleteReservationsByVaccine(ctx, vaccineID); err != nil {
			return err
		}
		counts, err := cascadeRepo.DeleteVaccinationsByVaccine(ctx, vaccineID)
		if err != nil {
			return err
		}
		impact.AffectedAppointments = counts.Appointments()
		impact.CompletedRecords = counts.Completed
		impact.WillCancelAppointments = impact.AffectedAppointments > 0

		// Las transferencias de la vacuna caen con sus lotes: no hay abono
		transfers, err := cascadeRepo.ListPendingTransfersByVaccine(ctx, vaccineID)
		if err != nil {
			return err
		}
		ids := make([]string, 0, len(transfers))
		for _, t := range transfers {
			ids = append(ids, t.ID)
		}
		if impact.PendingTransfers, err = cascadeRepo.DeleteTransfers(ctx, ids); err != nil {
			return err
		}
		if impact.StockLots, err = cascadeRepo.DeleteLotsByVaccine(ctx, vaccineID); err != nil {
			return err
		}
		if impact.Aggregates, err = cascadeRepo.DeleteAggregatesByVaccine(ctx, vaccineID); err != nil {
			return err
		}
		rows, err := cascadeRepo.DeleteVaccine(ctx, vaccineID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return domain.ErrAlreadyDeleted
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return impact, nil
}
