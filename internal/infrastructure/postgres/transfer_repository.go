package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/vacutrack/vacutrack-api/internal/domain"
	"github.com/vacutrack/vacutrack-api/internal/domain/entity"
	"github.com/vacutrack/vacutrack-api/internal/domain/repository"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo implementación de TransferRepository sobre PostgreSQL
// (usable con pool o tx).
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

const transferColumns = `id, vaccine_id, from_level, from_id, to_level, to_id, total_quantity, status, created_by, created_at, resolved_at`

func scanTransfer(row pgx.Row) (*entity.PendingStockTransfer, error) {
	var t entity.PendingStockTransfer
	var createdBy *string
	err := row.Scan(
		&t.ID, &t.VaccineID, &t.From.Level, &t.From.ID, &t.To.Level, &t.To.ID,
		&t.TotalQuantity, &t.Status, &createdBy, &t.CreatedAt, &t.ResolvedAt,
	)
	if err != nil {
		return nil, err
	}
	if createdBy != nil {
		t.CreatedBy = *createdBy
	}
	return &t, nil
}

// Create persiste la transferencia y sus líneas de reserva en la misma tx.
func (r *TransferRepo) Create(ctx context.Context, transfer *entity.PendingStockTransfer) error {
	query := `
		INSERT INTO pending_stock_transfers
			(id, vaccine_id, from_level, from_id, to_level, to_id, total_quantity, status, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	createdBy := (*string)(nil)
	if transfer.CreatedBy != "" {
		createdBy = &transfer.CreatedBy
	}
	_, err := r.q.Exec(ctx, query,
		transfer.ID, transfer.VaccineID,
		transfer.From.Level, transfer.From.ID, transfer.To.Level, transfer.To.ID,
		transfer.TotalQuantity, transfer.Status, createdBy, transfer.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("create transfer: referencia inválida: %w", domain.ErrInvalidInput)
		}
		return fmt.Errorf("create transfer: %w", err)
	}

	lineQuery := `
		INSERT INTO pending_stock_transfer_lots (transfer_id, lot_id, quantity_reserved, expiration)
		VALUES ($1, $2, $3, $4)`
	for _, line := range transfer.Lots {
		if _, err := r.q.Exec(ctx, lineQuery, transfer.ID, line.LotID, line.QuantityReserved, line.Expiration); err != nil {
			return fmt.Errorf("create transfer lot: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una transferencia con sus líneas; nil si no existe.
func (r *TransferRepo) GetByID(ctx context.Context, id string) (*entity.PendingStockTransfer, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate obtiene la transferencia bloqueando su fila, para serializar
// resoluciones concurrentes (la segunda ve el estado terminal).
func (r *TransferRepo) GetForUpdate(ctx context.Context, id string) (*entity.PendingStockTransfer, error) {
	return r.get(ctx, id, true)
}

func (r *TransferRepo) get(ctx context.Context, id string, forUpdate bool) (*entity.PendingStockTransfer, error) {
	query := `SELECT ` + transferColumns + ` FROM pending_stock_transfers WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	t, err := scanTransfer(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	if t.Lots, err = r.lots(ctx, id); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *TransferRepo) lots(ctx context.Context, transferID string) ([]entity.PendingStockTransferLot, error) {
	query := `
		SELECT transfer_id, lot_id, quantity_reserved, expiration
		FROM pending_stock_transfer_lots
		WHERE transfer_id = $1
		ORDER BY expiration ASC, lot_id ASC`
	rows, err := r.q.Query(ctx, query, transferID)
	if err != nil {
		return nil, fmt.Errorf("list transfer lots: %w", err)
	}
	defer rows.Close()

	var lines []entity.PendingStockTransferLot
	for rows.Next() {
		var l entity.PendingStockTransferLot
		if err := rows.Scan(&l.TransferID, &l.LotID, &l.QuantityReserved, &l.Expiration); err != nil {
			return nil, fmt.Errorf("scan transfer lot: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// SetStatus fija el estado terminal y la fecha de resolución.
func (r *TransferRepo) SetStatus(ctx context.Context, id, status string, resolvedAt time.Time) error {
	query := `UPDATE pending_stock_transfers SET status = $2, resolved_at = $3 WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, status, resolvedAt)
	if err != nil {
		return fmt.Errorf("set transfer status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("set transfer status: transferencia %s no existe", id)
	}
	return nil
}

// ListByOwner lista transferencias del propietario como origen (outgoing) o
// destino (incoming), más recientes primero; status vacío = todas.
func (r *TransferRepo) ListByOwner(ctx context.Context, owner entity.Owner, direction repository.TransferDirection, status string) ([]*entity.PendingStockTransfer, error) {
	side := "to_level = $1 AND to_id = $2"
	if direction == repository.DirectionOutgoing {
		side = "from_level = $1 AND from_id = $2"
	}
	query := `SELECT ` + transferColumns + ` FROM pending_stock_transfers WHERE ` + side
	args := []any{owner.Level, owner.ID}
	if status != "" {
		query += ` AND status = $3`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
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
	for _, t := range list {
		if t.Lots, err = r.lots(ctx, t.ID); err != nil {
			return nil, err
		}
	}
	return list, nil
}
