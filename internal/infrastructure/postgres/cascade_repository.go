package postgres

import (
	"context"
	"fmt"

	"github.com/vacutrack/vacutrack-api/internal/domain/entity"
	"github.com/vacutrack/vacutrack-api/internal/domain/repository"
)

var _ repository.CascadeRepository = (*CascadeRepo)(nil)

// CascadeRepo implementación de CascadeRepository sobre PostgreSQL.
// Pensado para usarse únicamente dentro de la transacción del ejecutor de
// cascadas: cada método devuelve las filas borradas.
type CascadeRepo struct {
	q Querier
}

// NewCascadeRepository construye el adaptador. Pasar la tx del ejecutor.
func NewCascadeRepository(q Querier) *CascadeRepo {
	return &CascadeRepo{q: q}
}

func (r *CascadeRepo) deleteIn(ctx context.Context, query string, in []string) (int, error) {
	if len(in) == 0 {
		return 0, nil
	}
	tag, err := r.q.Exec(ctx, query, in)
	if err != nil {
		return 0, fmt.Errorf("cascade delete: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (r *CascadeRepo) deleteByOwners(ctx context.Context, table string, owners []entity.Owner) (int, error) {
	if len(owners) == 0 {
		return 0, nil
	}
	levels, ids := ownerArrays(owners)
	query := `DELETE FROM ` + table + ` WHERE ` + ownersMatch
	tag, err := r.q.Exec(ctx, query, levels, ids)
	if err != nil {
		return 0, fmt.Errorf("cascade delete %s: %w", table, err)
	}
	return int(tag.RowsAffected()), nil
}

// ListPendingTransfersTouching devuelve, con bloqueo, las transferencias
// PENDING donde alguno de los propietarios es origen o destino, con sus
// líneas de reserva.
func (r *CascadeRepo) ListPendingTransfersTouching(ctx context.Context, owners []entity.Owner) ([]*entity.PendingStockTransfer, error) {
	if len(owners) == 0 {
		return nil, nil
	}
	levels, ids := ownerArrays(owners)
	query := `
		SELECT ` + transferColumns + `
		FROM pending_stock_transfers
		WHERE status = 'PENDING'
		  AND ((from_level, from_id) IN (SELECT unnest($1::text[]), unnest($2::text[]))
		    OR (to_level, to_id) IN (SELECT unnest($1::text[]), unnest($2::text[])))
		ORDER BY created_at ASC
		FOR UPDATE`
	rows, err := r.q.Query(ctx, query, levels, ids)
	if err != nil {
		return nil, fmt.Errorf("list transfers touching: %w", err)
	}
	defer rows.Close()

	var list []*entity.PendingStockTransfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		list = append(list, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	lines := NewTransferRepository(r.q)
	for _, t := range list {
		if t.Lots, err = lines.lots(ctx, t.ID); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// DeleteReservationsByChildren borra las reservas ligadas a citas de los
// niños dados.
func (r *CascadeRepo) DeleteReservationsByChildren(ctx context.Context, childIDs []string) (int, error) {
	return r.deleteIn(ctx, `
		DELETE FROM reservations
		WHERE vaccination_id IN (
			SELECT id FROM vaccination_records WHERE child_id = ANY($1)
		)`, childIDs)
}

// DeleteReservationsByLotOwners borra reservas que apartan dosis de lotes de
// los propietarios dados. Corre antes de borrar los lotes para que ninguna
// reserva de fuera del subárbol quede apuntando a un lote inexistente.
func (r *CascadeRepo) DeleteReservationsByLotOwners(ctx context.Context, owners []entity.Owner) (int, error) {
	if len(owners) == 0 {
		return 0, nil
	}
	levels, ids := ownerArrays(owners)
	query := `
		DELETE FROM reservations
		WHERE lot_id IN (
			SELECT id FROM stock_lots WHERE ` + ownersMatch + `
		)`
	tag, err := r.q.Exec(ctx, query, levels, ids)
	if err != nil {
		return 0, fmt.Errorf("delete reservations by lot owners: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// DeleteVaccinationsByChildren borra los registros de vacunación de los
// niños dados y devuelve el desglose por estado de lo borrado.
func (r *CascadeRepo) DeleteVaccinationsByChildren(ctx context.Context, childIDs []string) (entity.VaccinationCounts, error) {
	var counts entity.VaccinationCounts
	if len(childIDs) == 0 {
		return counts, nil
	}
	query := `
		WITH borrados AS (
			DELETE FROM vaccination_records WHERE child_id = ANY($1)
			RETURNING status
		)
		SELECT status, COUNT(*) FROM borrados GROUP BY status`
	return r.scanDeletedStatusCounts(ctx, query, childIDs)
}

func (r *CascadeRepo) scanDeletedStatusCounts(ctx context.Context, query string, arg any) (entity.VaccinationCounts, error) {
	var counts entity.VaccinationCounts
	rows, err := r.q.Query(ctx, query, arg)
	if err != nil {
		return counts, fmt.Errorf("delete vaccinations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return counts, fmt.Errorf("scan deleted count: %w", err)
		}
		switch status {
		case entity.VaccinationScheduled:
			counts.Scheduled = n
		case entity.VaccinationDue:
			counts.Due = n
		case entity.VaccinationLate:
			counts.Late = n
		case entity.VaccinationOverdue:
			counts.Overdue = n
		case entity.VaccinationCompleted:
			counts.Completed = n
		}
	}
	return counts, rows.Err()
}

// DeleteVisitRecords borra las bitácoras de visita de los centros dados.
func (r *CascadeRepo) DeleteVisitRecords(ctx context.Context, healthCenterIDs []string) (int, error) {
	return r.deleteIn(ctx, `DELETE FROM visit_records WHERE health_center_id = ANY($1)`, healthCenterIDs)
}

// DeleteChildren borra los niños de los centros dados.
func (r *CascadeRepo) DeleteChildren(ctx context.Context, healthCenterIDs []string) (int, error) {
	return r.deleteIn(ctx, `DELETE FROM children WHERE health_center_id = ANY($1)`, healthCenterIDs)
}

// DeleteTransfers borra transferencias y sus líneas de reserva.
func (r *CascadeRepo) DeleteTransfers(ctx context.Context, transferIDs []string) (int, error) {
	if len(transferIDs) == 0 {
		return 0, nil
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM pending_stock_transfer_lots WHERE transfer_id = ANY($1)`, transferIDs); err != nil {
		return 0, fmt.Errorf("delete transfer lots: %w", err)
	}
	return r.deleteIn(ctx, `DELETE FROM pending_stock_transfers WHERE id = ANY($1)`, transferIDs)
}

// DeleteLots borra los lotes de los propietarios dados.
func (r *CascadeRepo) DeleteLots(ctx context.Context, owners []entity.Owner) (int, error) {
	return r.deleteByOwners(ctx, "stock_lots", owners)
}

// DeleteAggregates borra los agregados de los propietarios dados.
func (r *CascadeRepo) DeleteAggregates(ctx context.Context, owners []entity.Owner) (int, error) {
	return r.deleteByOwners(ctx, "aggregate_stock", owners)
}

// DeleteUsers borra los usuarios adscritos a los propietarios dados.
func (r *CascadeRepo) DeleteUsers(ctx context.Context, owners []entity.Owner) (int, error) {
	return r.deleteByOwners(ctx, "users", owners)
}

// DeleteHealthCenters borra centros de salud por ID.
func (r *CascadeRepo) DeleteHealthCenters(ctx context.Context, ids []string) (int, error) {
	return r.deleteIn(ctx, `DELETE FROM health_centers WHERE id = ANY($1)`, ids)
}

// DeleteDistricts borra distritos por ID.
func (r *CascadeRepo) DeleteDistricts(ctx context.Context, ids []string) (int, error) {
	return r.deleteIn(ctx, `DELETE FROM districts WHERE id = ANY($1)`, ids)
}

// DeleteCommunes borra comunas por ID.
func (r *CascadeRepo) DeleteCommunes(ctx context.Context, ids []string) (int, error) {
	return r.deleteIn(ctx, `DELETE FROM communes WHERE id = ANY($1)`, ids)
}

// DeleteRegion borra la fila de la región.
func (r *CascadeRepo) DeleteRegion(ctx context.Context, id string) (int, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM regions WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete region: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// DeleteReservationsByVaccine borra reservas ligadas a citas de la vacuna o
// que apartan dosis de sus lotes.
func (r *CascadeRepo) DeleteReservationsByVaccine(ctx context.Context, vaccineID string) (int, error) {
	tag, err := r.q.Exec(ctx, `
		DELETE FROM reservations
		WHERE vaccination_id IN (
			SELECT id FROM vaccination_records WHERE vaccine_id = $1
		)
		OR lot_id IN (
			SELECT id FROM stock_lots WHERE vaccine_id = $1
		)`, vaccineID)
	if err != nil {
		return 0, fmt.Errorf("delete reservations by vaccine: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// DeleteVaccinationsByVaccine borra los registros de la vacuna con desglose
// por estado.
func (r *CascadeRepo) DeleteVaccinationsByVaccine(ctx context.Context, vaccineID string) (entity.VaccinationCounts, error) {
	query := `
		WITH borrados AS (
			DELETE FROM vaccination_records WHERE vaccine_id = $1
			RETURNING status
		)
		SELECT status, COUNT(*) FROM borrados GROUP BY status`
	return r.scanDeletedStatusCounts(ctx, query, vaccineID)
}

// ListPendingTransfersByVaccine devuelve, con bloqueo, las transferencias
// PENDING de una vacuna.
func (r *CascadeRepo) ListPendingTransfersByVaccine(ctx context.Context, vaccineID string) ([]*entity.PendingStockTransfer, error) {
	query := `
		SELECT ` + transferColumns + `
		FROM pending_stock_transfers
		WHERE vaccine_id = $1 AND status = 'PENDING'
		ORDER BY created_at ASC
		FOR UPDATE`
	rows, err := r.q.Query(ctx, query, vaccineID)
	if err != nil {
		return nil, fmt.Errorf("list transfers by vaccine: %w", err)
	}
	defer rows.Close()

	var list []*entity.PendingStockTransfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// DeleteLotsByVaccine borra los lotes de una vacuna en todos los niveles.
func (r *CascadeRepo) DeleteLotsByVaccine(ctx context.Context, vaccineID string) (int, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM stock_lots WHERE vaccine_id = $1`, vaccineID)
	if err != nil {
		return 0, fmt.Errorf("delete lots by vaccine: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// DeleteAggregatesByVaccine borra los agregados de una vacuna.
func (r *CascadeRepo) DeleteAggregatesByVaccine(ctx context.Context, vaccineID string) (int, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM aggregate_stock WHERE vaccine_id = $1`, vaccineID)
	if err != nil {
		return 0, fmt.Errorf("delete aggregates by vaccine: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// DeleteVaccine borra la fila de la vacuna.
func (r *CascadeRepo) DeleteVaccine(ctx context.Context, vaccineID string) (int, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM vaccines WHERE id = $1`, vaccineID)
	if err != nil {
		return 0, fmt.Errorf("delete vaccine: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
