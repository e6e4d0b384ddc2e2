package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un lote de vacunas.
const (
	LotStatusValid   = "VALID"
	LotStatusExpired = "EXPIRED" // derivado de expiration < now; nunca se revierte
)

// StockLot representa un lote de una vacuna en manos de un propietario.
// Un lote con cantidad 0 está lógicamente vacío: se excluye de la asignación
// FEFO pero puede conservarse para auditoría.
type StockLot struct {
	ID         string
	VaccineID  string
	Owner      Owner
	Quantity   decimal.Decimal // siempre >= 0
	Expiration time.Time
	Status     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Allocatable indica si el lote participa en la asignación FEFO.
func (l *StockLot) Allocatable() bool {
	return l.Status == LotStatusValid && l.Quantity.GreaterThan(decimal.Zero)
}
