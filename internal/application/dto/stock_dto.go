package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustLotRequest body para POST /api/stock/lots/:id/adjust.
// Delta negativo debita; el resultado nunca puede quedar negativo.
type AdjustLotRequest struct {
	Delta decimal.Decimal `json:"delta"`
}

// StockLotDTO lote en respuestas, en orden FEFO dentro de los listados.
type StockLotDTO struct {
	ID         string          `json:"id"`
	VaccineID  string          `json:"vaccine_id"`
	OwnerLevel string          `json:"owner_level"`
	OwnerID    string          `json:"owner_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	Expiration time.Time       `json:"expiration"`
	Status     string          `json:"status"`
}

// AggregateStockDTO total por vacuna de un propietario.
type AggregateStockDTO struct {
	VaccineID string          `json:"vaccine_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// SweepResponse resultado de la barrida de expiración.
type SweepResponse struct {
	Expired int `json:"expired"`
}
