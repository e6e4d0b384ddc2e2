package entity

// OwnerLevel identifica el nivel administrativo que posee stock.
// El nivel determina a qué tabla concreta apunta el ID del propietario.
type OwnerLevel string

const (
	LevelNational     OwnerLevel = "NATIONAL"
	LevelRegional     OwnerLevel = "REGIONAL"
	LevelDistrict     OwnerLevel = "DISTRICT"
	LevelHealthCenter OwnerLevel = "HEALTHCENTER"
)

// Valid indica si el nivel es uno de los cuatro conocidos.
func (l OwnerLevel) Valid() bool {
	switch l {
	case LevelNational, LevelRegional, LevelDistrict, LevelHealthCenter:
		return true
	}
	return false
}

// NationalID es el ID convencional del propietario nacional: el nivel
// NATIONAL no tiene tabla propia, hay un único poseedor.
const NationalID = "national"

// Owner es el par (nivel, id) que identifica al poseedor de stock.
// Es un value object, no una entidad persistida: se usa como clave foránea
// compuesta en lotes, agregados y transferencias.
type Owner struct {
	Level OwnerLevel
	ID    string
}

// National devuelve el propietario del nivel nacional.
func National() Owner {
	return Owner{Level: LevelNational, ID: NationalID}
}

// Validate verifica nivel conocido e ID no vacío.
func (o Owner) Validate() bool {
	return o.Level.Valid() && o.ID != ""
}

// Equal compara nivel e ID.
func (o Owner) Equal(other Owner) bool {
	return o.Level == other.Level && o.ID == other.ID
}
