package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AggregateStock es el total desnormalizado por propietario y vacuna.
// Invariante: Quantity == Σ cantidad de los lotes VALID de ese propietario
// para esa vacuna; toda escritura sobre lotes debe recalcularlo en la misma
// transacción.
type AggregateStock struct {
	Owner     Owner
	VaccineID string
	Quantity  decimal.Decimal
	UpdatedAt time.Time
}
