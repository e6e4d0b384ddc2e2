package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/vacutrack/vacutrack-api/internal/domain"
	"github.com/vacutrack/vacutrack-api/internal/domain/entity"
	"github.com/vacutrack/vacutrack-api/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

// LotRepo implementación de LotRepository sobre PostgreSQL (usable con pool o tx).
type LotRepo struct {
	q Querier
}

// NewLotRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

const lotColumns = `id, vaccine_id, owner_level, owner_id, quantity, expiration, status, created_at, updated_at`

func scanLot(row pgx.Row) (*entity.StockLot, error) {
	var l entity.StockLot
	err := row.Scan(
		&l.ID, &l.VaccineID, &l.Owner.Level, &l.Owner.ID,
		&l.Quantity, &l.Expiration, &l.Status, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// GetByID obtiene un lote por ID; nil si no existe.
func (r *LotRepo) GetByID(ctx context.Context, id string) (*entity.StockLot, error) {
	query := `SELECT ` + lotColumns + ` FROM stock_lots WHERE id = $1`
	lot, err := scanLot(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lot: %w", err)
	}
	return lot, nil
}

// GetForUpdate obtiene un lote y bloquea la fila (SELECT FOR UPDATE).
func (r *LotRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockLot, error) {
	query := `SELECT ` + lotColumns + ` FROM stock_lots WHERE id = $1 FOR UPDATE`
	lot, err := scanLot(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lot for update: %w", err)
	}
	return lot, nil
}

// ListValidFEFO lista los lotes asignables de un propietario para una vacuna
// en orden FEFO: expiración ascendente y, a igual expiración, el registro
// más viejo primero (desempate determinista).
func (r *LotRepo) ListValidFEFO(ctx context.Context, owner entity.Owner, vaccineID string) ([]*entity.StockLot, error) {
	return r.listFEFO(ctx, owner, vaccineID, false)
}

// ListValidFEFOForUpdate es ListValidFEFO con bloqueo de filas, para la
// reserva de una propuesta de transferencia.
func (r *LotRepo) ListValidFEFOForUpdate(ctx context.Context, owner entity.Owner, vaccineID string) ([]*entity.StockLot, error) {
	return r.listFEFO(ctx, owner, vaccineID, true)
}

func (r *LotRepo) listFEFO(ctx context.Context, owner entity.Owner, vaccineID string, forUpdate bool) ([]*entity.StockLot, error) {
	query := `
		SELECT ` + lotColumns + `
		FROM stock_lots
		WHERE owner_level = $1 AND owner_id = $2 AND vaccine_id = $3
		  AND status = 'VALID' AND quantity > 0
		ORDER BY expiration ASC, created_at ASC, id ASC`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	rows, err := r.q.Query(ctx, query, owner.Level, owner.ID, vaccineID)
	if err != nil {
		return nil, fmt.Errorf("list lots fefo: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockLot
	for rows.Next() {
		lot, err := scanLot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lot: %w", err)
		}
		list = append(list, lot)
	}
	return list, rows.Err()
}

// Create persiste un lote nuevo.
func (r *LotRepo) Create(ctx context.Context, lot *entity.StockLot) error {
	query := `
		INSERT INTO stock_lots (id, vaccine_id, owner_level, owner_id, quantity, expiration, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		lot.ID, lot.VaccineID, lot.Owner.Level, lot.Owner.ID,
		lot.Quantity, lot.Expiration, lot.Status, lot.CreatedAt, lot.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create lot: id %s duplicado: %w", lot.ID, domain.ErrInvalidInput)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("create lot: referencia inválida: %w", domain.ErrInvalidInput)
		}
		return fmt.Errorf("create lot: %w", err)
	}
	return nil
}

// UpdateQuantity fija la cantidad del lote. El caso de uso ya validó que no
// quede negativa; el CHECK de la tabla es la última línea de contención.
func (r *LotRepo) UpdateQuantity(ctx context.Context, id string, quantity decimal.Decimal) error {
	query := `UPDATE stock_lots SET quantity = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, quantity)
	if err != nil {
		return fmt.Errorf("update lot quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update lot quantity: lote %s no existe", id)
	}
	return nil
}

// FindForCredit busca con bloqueo un lote del propietario con la misma
// vacuna y expiración, para abonar sin mezclar expiraciones; nil si no hay.
func (r *LotRepo) FindForCredit(ctx context.Context, owner entity.Owner, vaccineID string, expiration time.Time) (*entity.StockLot, error) {
	query := `
		SELECT ` + lotColumns + `
		FROM stock_lots
		WHERE owner_level = $1 AND owner_id = $2 AND vaccine_id = $3
		  AND expiration = $4 AND status = 'VALID'
		ORDER BY created_at ASC, id ASC
		LIMIT 1
		FOR UPDATE`
	lot, err := scanLot(r.q.QueryRow(ctx, query, owner.Level, owner.ID, vaccineID, expiration))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find lot for credit: %w", err)
	}
	return lot, nil
}

// MarkExpired pasa a EXPIRED los lotes VALID vencidos y devuelve los
// afectados para recalcular agregados. Idempotente: una segunda pasada no
// encuentra nada.
func (r *LotRepo) MarkExpired(ctx context.Context, now time.Time) ([]*entity.StockLot, error) {
	query := `
		UPDATE stock_lots
		SET status = 'EXPIRED', updated_at = now()
		WHERE status = 'VALID' AND expiration < $1
		RETURNING ` + lotColumns
	rows, err := r.q.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("mark expired: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockLot
	for rows.Next() {
		lot, err := scanLot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expired lot: %w", err)
		}
		list = append(list, lot)
	}
	return list, rows.Err()
}
