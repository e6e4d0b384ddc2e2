package entity

import "time"

// Árbol administrativo de la campaña, estrictamente anidado:
// Región → Comuna → Distrito → Centro de salud.

// Region es el nivel superior por debajo del nacional.
type Region struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Commune agrupa distritos dentro de una región. No es un nivel de
// propiedad de stock; solo participa en el árbol y en las cascadas.
type Commune struct {
	ID        string
	RegionID  string
	Name      string
	CreatedAt time.Time
}

// District agrupa centros de salud dentro de una comuna.
type District struct {
	ID        string
	CommuneID string
	Name      string
	CreatedAt time.Time
}

// HealthCenter es la hoja del árbol: donde se vacuna y se atiende.
type HealthCenter struct {
	ID         string
	DistrictID string
	Name       string
	Address    string
	CreatedAt  time.Time
}

// EntityType identifica el tipo de entidad objetivo de una eliminación.
type EntityType string

const (
	EntityRegion       EntityType = "REGION"
	EntityCommune      EntityType = "COMMUNE"
	EntityDistrict     EntityType = "DISTRICT"
	EntityHealthCenter EntityType = "HEALTHCENTER"
)

// Valid indica si el tipo es eliminable por cascada.
func (e EntityType) Valid() bool {
	switch e {
	case EntityRegion, EntityCommune, EntityDistrict, EntityHealthCenter:
		return true
	}
	return false
}

// OwnerLevel devuelve el nivel de propiedad de stock asociado al tipo,
// o cadena vacía si el tipo no posee stock (comunas).
func (e EntityType) OwnerLevel() OwnerLevel {
	switch e {
	case EntityRegion:
		return LevelRegional
	case EntityDistrict:
		return LevelDistrict
	case EntityHealthCenter:
		return LevelHealthCenter
	}
	return ""
}
