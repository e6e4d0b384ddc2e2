package entity

import "github.com/shopspring/decimal"

// VaccinationCounts desglosa registros de vacunación por estado.
type VaccinationCounts struct {
	Scheduled int
	Due       int
	Late      int
	Overdue   int
	Completed int
}

// Appointments devuelve las citas vivas (todo lo no completado).
func (v VaccinationCounts) Appointments() int {
	return v.Scheduled + v.Due + v.Late + v.Overdue
}

// Total suma todos los estados.
func (v VaccinationCounts) Total() int {
	return v.Appointments() + v.Completed
}

// CascadeImpact resume todo lo que una eliminación destruiría o invalidaría.
// Es un value object calculado: nunca se persiste ni se cachea, porque una
// escritura concurrente volvería inseguro actuar sobre un resumen viejo.
type CascadeImpact struct {
	EntityType EntityType
	EntityID   string

	Communes      int
	Districts     int
	HealthCenters int
	Children      int
	Users         int
	VisitRecords  int
	Reservations  int
	Vaccinations  VaccinationCounts
	StockLots     int
	Aggregates    int
	Transfers     int // transferencias pendientes que tocan la entidad o sus lotes

	WillCancelAppointments bool
	AffectedAppointments   int
}

// Finalize deriva los campos de citas a partir de los conteos por estado.
func (c *CascadeImpact) Finalize() {
	c.AffectedAppointments = c.Vaccinations.Appointments()
	c.WillCancelAppointments = c.AffectedAppointments > 0
}

// Total devuelve la cantidad de registros afectados (sin contar la entidad).
func (c *CascadeImpact) Total() int {
	return c.Communes + c.Districts + c.HealthCenters + c.Children + c.Users +
		c.VisitRecords + c.Reservations + c.Vaccinations.Total() +
		c.StockLots + c.Aggregates + c.Transfers
}

// VaccineImpact resume el efecto de eliminar una vacuna del esquema.
type VaccineImpact struct {
	VaccineID              string
	AffectedAppointments   int
	CompletedRecords       int
	StockLots              int
	Aggregates             int
	PendingTransfers       int
	WillCancelAppointments bool
}

// LotReductionImpact resume el efecto de reducir la cantidad de un lote
// por debajo de lo ya reservado por transferencias pendientes.
type LotReductionImpact struct {
	LotID                string
	QuantityReserved     decimal.Decimal
	InvalidatedTransfers int
	Reservations         int
}
