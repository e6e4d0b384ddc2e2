package entity

import "time"

// Child es un niño inscrito en un centro de salud.
type Child struct {
	ID             string
	HealthCenterID string
	FirstName      string
	LastName       string
	BirthDate      time.Time
	CreatedAt      time.Time
}

// Estados de un registro de vacunación (cita/aplicación).
const (
	VaccinationScheduled = "SCHEDULED"
	VaccinationDue       = "DUE"
	VaccinationLate      = "LATE"
	VaccinationOverdue   = "OVERDUE"
	VaccinationCompleted = "COMPLETED"
)

// VaccinationRecord es una dosis programada o aplicada para un niño.
// Los estados no COMPLETED son citas vivas: eliminarlas equivale a
// cancelar la cita, y el cálculo de impacto debe contarlas por separado.
type VaccinationRecord struct {
	ID          string
	ChildID     string
	VaccineID   string
	DoseNumber  int
	Status      string
	ScheduledAt time.Time
	CompletedAt *time.Time
}

// Reservation aparta una dosis para una cita programada.
type Reservation struct {
	ID            string
	VaccinationID string
	LotID         string
	CreatedAt     time.Time
}

// VisitRecord es la bitácora de una visita o consulta en el centro.
type VisitRecord struct {
	ID             string
	ChildID        string
	HealthCenterID string
	Notes          string
	VisitedAt      time.Time
}

// User es un agente/operador adscrito a una entidad administrativa.
type User struct {
	ID        string
	Email     string
	FullName  string
	Role      string
	Owner     Owner // entidad a la que está adscrito
	CreatedAt time.Time
}
