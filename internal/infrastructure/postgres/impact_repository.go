package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/vacutrack/vacutrack-api/internal/domain/entity"
	"github.com/vacutrack/vacutrack-api/internal/domain/repository"
)

var _ repository.ImpactRepository = (*ImpactRepo)(nil)

// ImpactRepo implementación de solo lectura de ImpactRepository sobre
// PostgreSQL. Ninguna consulta bloquea ni muta.
type ImpactRepo struct {
	q Querier
}

// NewImpactRepository construye el adaptador. Pasar pool o tx (Querier).
func NewImpactRepository(q Querier) *ImpactRepo {
	return &ImpactRepo{q: q}
}

// ownerArrays separa los pares (nivel, id) en dos arreglos paralelos para
// usarlos con unnest en SQL.
func ownerArrays(owners []entity.Owner) ([]string, []string) {
	levels := make([]string, len(owners))
	ids := make([]string, len(owners))
	for i, o := range owners {
		levels[i] = string(o.Level)
		ids[i] = o.ID
	}
	return levels, ids
}

const ownersMatch = `(owner_level, owner_id) IN (SELECT unnest($1::text[]), unnest($2::text[]))`

// ownersMatch2 es ownersMatch corrido a $2/$3, para consultas cuyo primer
// parámetro ya está tomado.
const ownersMatch2 = `(owner_level, owner_id) IN (SELECT unnest($2::text[]), unnest($3::text[]))`

func (r *ImpactRepo) countByOwners(ctx context.Context, table string, owners []entity.Owner) (int, error) {
	if len(owners) == 0 {
		return 0, nil
	}
	levels, ids := ownerArrays(owners)
	var n int
	query := `SELECT COUNT(*) FROM ` + table + ` WHERE ` + ownersMatch
	if err := r.q.QueryRow(ctx, query, levels, ids).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

func (r *ImpactRepo) countIn(ctx context.Context, query string, in []string) (int, error) {
	if len(in) == 0 {
		return 0, nil
	}
	var n int
	if err := r.q.QueryRow(ctx, query, in).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

// CountUsers cuenta usuarios adscritos a los propietarios dados.
func (r *ImpactRepo) CountUsers(ctx context.Context, owners []entity.Owner) (int, error) {
	return r.countByOwners(ctx, "users", owners)
}

// CountVisitRecords cuenta bitácoras de visita de los centros dados.
func (r *ImpactRepo) CountVisitRecords(ctx context.Context, healthCenterIDs []string) (int, error) {
	return r.countIn(ctx, `SELECT COUNT(*) FROM visit_records WHERE health_center_id = ANY($1)`, healthCenterIDs)
}

// CountReservations cuenta reservas de citas de los niños dados o que
// apartan dosis de lotes de los propietarios dados, sin duplicar.
func (r *ImpactRepo) CountReservations(ctx context.Context, childIDs []string, lotOwners []entity.Owner) (int, error) {
	levels, ids := ownerArrays(lotOwners)
	query := `
		SELECT COUNT(*) FROM reservations res
		WHERE res.vaccination_id IN (
			SELECT id FROM vaccination_records WHERE child_id = ANY($1)
		)
		OR res.lot_id IN (
			SELECT id FROM stock_lots WHERE ` + ownersMatch2 + `
		)`
	var n int
	if err := r.q.QueryRow(ctx, query, childIDs, levels, ids).Scan(&n); err != nil {
		return 0, fmt.Errorf("count reservations: %w", err)
	}
	return n, nil
}

// CountVaccinations desglosa por estado los registros de los niños dados.
func (r *ImpactRepo) CountVaccinations(ctx context.Context, childIDs []string) (entity.VaccinationCounts, error) {
	var counts entity.VaccinationCounts
	if len(childIDs) == 0 {
		return counts, nil
	}
	query := `
		SELECT status, COUNT(*)
		FROM vaccination_records
		WHERE child_id = ANY($1)
		GROUP BY status`
	return r.scanStatusCounts(ctx, query, childIDs)
}

func (r *ImpactRepo) scanStatusCounts(ctx context.Context, query string, arg any) (entity.VaccinationCounts, error) {
	var counts entity.VaccinationCounts
	rows, err := r.q.Query(ctx, query, arg)
	if err != nil {
		return counts, fmt.Errorf("count vaccinations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return counts, fmt.Errorf("scan vaccination count: %w", err)
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

// CountLots cuenta lotes de los propietarios dados.
func (r *ImpactRepo) CountLots(ctx context.Context, owners []entity.Owner) (int, error) {
	return r.countByOwners(ctx, "stock_lots", owners)
}

// CountAggregates cuenta filas de agregado de los propietarios dados.
func (r *ImpactRepo) CountAggregates(ctx context.Context, owners []entity.Owner) (int, error) {
	return r.countByOwners(ctx, "aggregate_stock", owners)
}

// CountPendingTransfers cuenta transferencias PENDING donde alguno de los
// propietarios es origen o destino.
func (r *ImpactRepo) CountPendingTransfers(ctx context.Context, owners []entity.Owner) (int, error) {
	if len(owners) == 0 {
		return 0, nil
	}
	levels, ids := ownerArrays(owners)
	var n int
	query := `
		SELECT COUNT(*) FROM pending_stock_transfers
		WHERE status = 'PENDING'
		  AND ((from_level, from_id) IN (SELECT unnest($1::text[]), unnest($2::text[]))
		    OR (to_level, to_id) IN (SELECT unnest($1::text[]), unnest($2::text[])))`
	if err := r.q.QueryRow(ctx, query, levels, ids).Scan(&n); err != nil {
		return 0, fmt.Errorf("count pending transfers: %w", err)
	}
	return n, nil
}

// CountVaccinationsByVaccine desglosa por estado los registros de una vacuna.
func (r *ImpactRepo) CountVaccinationsByVaccine(ctx context.Context, vaccineID string) (entity.VaccinationCounts, error) {
	query := `
		SELECT status, COUNT(*)
		FROM vaccination_records
		WHERE vaccine_id = $1
		GROUP BY status`
	return r.scanStatusCounts(ctx, query, vaccineID)
}

// CountLotsByVaccine cuenta los lotes de una vacuna en todos los niveles.
func (r *ImpactRepo) CountLotsByVaccine(ctx context.Context, vaccineID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM stock_lots WHERE vaccine_id = $1`, vaccineID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count lots by vaccine: %w", err)
	}
	return n, nil
}

// CountAggregatesByVaccine cuenta filas de agregado de una vacuna.
func (r *ImpactRepo) CountAggregatesByVaccine(ctx context.Context, vaccineID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM aggregate_stock WHERE vaccine_id = $1`, vaccineID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count aggregates by vaccine: %w", err)
	}
	return n, nil
}

// CountPendingTransfersByVaccine cuenta transferencias PENDING de una vacuna.
func (r *ImpactRepo) CountPendingTransfersByVaccine(ctx context.Context, vaccineID string) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM pending_stock_transfers WHERE vaccine_id = $1 AND status = 'PENDING'`
	if err := r.q.QueryRow(ctx, query, vaccineID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count transfers by vaccine: %w", err)
	}
	return n, nil
}

// ReservedAgainstLot devuelve la cantidad reservada sobre un lote por
// transferencias PENDING y cuántas transferencias la componen.
func (r *ImpactRepo) ReservedAgainstLot(ctx context.Context, lotID string) (decimal.Decimal, int, error) {
	var total decimal.Decimal
	var n int
	query := `
		SELECT COALESCE(SUM(l.quantity_reserved), 0), COUNT(DISTINCT t.id)
		FROM pending_stock_transfer_lots l
		JOIN pending_stock_transfers t ON t.id = l.transfer_id
		WHERE l.lot_id = $1 AND t.status = 'PENDING'`
	if err := r.q.QueryRow(ctx, query, lotID).Scan(&total, &n); err != nil {
		return decimal.Zero, 0, fmt.Errorf("reserved against lot: %w", err)
	}
	return total, n, nil
}

// CountReservationsByLot cuenta reservas de citas que apartan dosis del lote.
func (r *ImpactRepo) CountReservationsByLot(ctx context.Context, lotID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM reservations WHERE lot_id = $1`, lotID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count reservations by lot: %w", err)
	}
	return n, nil
}
