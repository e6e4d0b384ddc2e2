package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una transferencia de stock. PENDING es el único estado no
// terminal: una vez confirmada, rechazada o cancelada no hay más transiciones.
const (
	TransferStatusPending   = "PENDING"
	TransferStatusConfirmed = "CONFIRMED"
	TransferStatusRejected  = "REJECTED"
	TransferStatusCancelled = "CANCELLED"
)

// PendingStockTransfer es un movimiento de stock propuesto entre dos
// propietarios. El emisor la crea reservando cantidad de sus lotes; el
// receptor la confirma o rechaza, y el emisor puede cancelarla mientras
// siga pendiente.
type PendingStockTransfer struct {
	ID            string
	VaccineID     string
	From          Owner
	To            Owner
	TotalQuantity decimal.Decimal
	Status        string
	Lots          []PendingStockTransferLot
	CreatedBy     string
	CreatedAt     time.Time
	ResolvedAt    *time.Time
}

// PendingStockTransferLot registra el lote origen y la cantidad reservada,
// congelados en el momento de la propuesta. La expiración se copia del lote
// para que la confirmación la preserve aunque el lote origen desaparezca.
type PendingStockTransferLot struct {
	TransferID       string
	LotID            string
	QuantityReserved decimal.Decimal
	Expiration       time.Time
}

// CanResolve indica si la transferencia admite una transición de estado.
func (t *PendingStockTransfer) CanResolve() bool {
	return t.Status == TransferStatusPending
}
