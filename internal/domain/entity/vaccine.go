package entity

import "time"

// Vaccine describe una vacuna del esquema de la campaña.
type Vaccine struct {
	ID           string
	Name         string
	Doses        int // dosis del esquema completo
	IntervalDays int // días entre dosis
	CreatedAt    time.Time
}
