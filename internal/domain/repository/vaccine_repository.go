package repository

import (
	"context"

	"github.com/vacutrack/vacutrack-api/internal/domain/entity"
)

// VaccineRepository define el puerto de lectura para vacunas del esquema.
type VaccineRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Vaccine, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]*entity.Vaccine, error)
}
