package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProposeTransferRequest body para POST /api/transfers.
type ProposeTransferRequest struct {
	VaccineID string          `json:"vaccine_id"`
	From      OwnerRef        `json:"from"`
	To        OwnerRef        `json:"to"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// TransferLotDTO línea de reserva de una transferencia.
type TransferLotDTO struct {
	LotID            string          `json:"lot_id"`
	QuantityReserved decimal.Decimal `json:"quantity_reserved"`
	Expiration       time.Time       `json:"expiration"`
}

// TransferDTO transferencia en respuestas.
type TransferDTO struct {
	ID            string           `json:"id"`
	VaccineID     string           `json:"vaccine_id"`
	From          OwnerRef         `json:"from"`
	To            OwnerRef         `json:"to"`
	TotalQuantity decimal.Decimal  `json:"total_quantity"`
	Status        string           `json:"status"`
	Lots          []TransferLotDTO `json:"lots,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	ResolvedAt    *time.Time       `json:"resolved_at,omitempty"`
}
