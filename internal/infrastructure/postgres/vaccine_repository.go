package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/vacutrack/vacutrack-api/internal/domain/entity"
	"github.com/vacutrack/vacutrack-api/internal/domain/repository"
)

var _ repository.VaccineRepository = (*VaccineRepo)(nil)

// VaccineRepo implementación de VaccineRepository sobre PostgreSQL.
type VaccineRepo struct {
	q Querier
}

// NewVaccineRepository construye el adaptador. Pasar pool o tx (Querier).
func NewVaccineRepository(q Querier) *VaccineRepo {
	return &VaccineRepo{q: q}
}

// GetByID obtiene una vacuna por ID; nil si no existe.
func (r *VaccineRepo) GetByID(ctx context.Context, id string) (*entity.Vaccine, error) {
	query := `SELECT id, name, doses, interval_days, created_at FROM vaccines WHERE id = $1`
	var v entity.Vaccine
	err := r.q.QueryRow(ctx, query, id).Scan(&v.ID, &v.Name, &v.Doses, &v.IntervalDays, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get vaccine: %w", err)
	}
	return &v, nil
}

// Exists verifica existencia por ID.
func (r *VaccineRepo) Exists(ctx context.Context, id string) (bool, error) {
	var one int
	err := r.q.QueryRow(ctx, `SELECT 1 FROM vaccines WHERE id = $1`, id).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("vaccine exists: %w", err)
	}
	return true, nil
}

// List devuelve las vacunas del esquema ordenadas por nombre.
func (r *VaccineRepo) List(ctx context.Context) ([]*entity.Vaccine, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, doses, interval_days, created_at FROM vaccines ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list vaccines: %w", err)
	}
	defer rows.Close()

	var list []*entity.Vaccine
	for rows.Next() {
		var v entity.Vaccine
		if err := rows.Scan(&v.ID, &v.Name, &v.Doses, &v.IntervalDays, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan vaccine: %w", err)
		}
		list = append(list, &v)
	}
	return list, rows.Err()
}
