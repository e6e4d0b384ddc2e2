package dto

import "github.com/shopspring/decimal"

// VaccinationCountsDTO desglose por estado de registros de vacunación.
type VaccinationCountsDTO struct {
	Scheduled int `json:"scheduled"`
	Due       int `json:"due"`
	Late      int `json:"late"`
	Overdue   int `json:"overdue"`
	Completed int `json:"completed"`
}

// CascadeImpactDTO resumen de lo que una eliminación destruiría. Se surte
// al operador para que decida antes de confirmar.
type CascadeImpactDTO struct {
	EntityType             string               `json:"entity_type"`
	EntityID               string               `json:"entity_id"`
	Communes               int                  `json:"communes"`
	Districts              int                  `json:"districts"`
	HealthCenters          int                  `json:"health_centers"`
	Children               int                  `json:"children"`
	Users                  int                  `json:"users"`
	VisitRecords           int                  `json:"visit_records"`
	Reservations           int                  `json:"reservations"`
	Vaccinations           VaccinationCountsDTO `json:"vaccinations"`
	StockLots              int                  `json:"stock_lots"`
	Aggregates             int                  `json:"aggregates"`
	Transfers              int                  `json:"pending_transfers"`
	WillCancelAppointments bool                 `json:"will_cancel_appointments"`
	AffectedAppointments   int                  `json:"affected_appointments"`
	Total                  int                  `json:"total"`
}

// VaccineImpactDTO resumen del retiro de una vacuna del esquema.
type VaccineImpactDTO struct {
	VaccineID              string `json:"vaccine_id"`
	AffectedAppointments   int    `json:"affected_appointments"`
	CompletedRecords       int    `json:"completed_records"`
	StockLots              int    `json:"stock_lots"`
	Aggregates             int    `json:"aggregates"`
	PendingTransfers       int    `json:"pending_transfers"`
	WillCancelAppointments bool   `json:"will_cancel_appointments"`
}

// LotReductionImpactDTO dependencias de un lote antes de reducirlo.
type LotReductionImpactDTO struct {
	LotID                string          `json:"lot_id"`
	QuantityReserved     decimal.Decimal `json:"quantity_reserved"`
	InvalidatedTransfers int             `json:"invalidated_transfers"`
	Reservations         int             `json:"reservations"`
}
