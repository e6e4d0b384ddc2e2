package repository

import (
	"context"

	"github.com/vacutrack/vacutrack-api/internal/domain/entity"
)

// AdminTreeRepository define el puerto de lectura sobre el árbol
// administrativo (región → comuna → distrito → centro de salud).
// El núcleo solo lee el árbol; el CRUD de entidades vive fuera.
type AdminTreeRepository interface {
	// OwnerExists verifica que el par (nivel, id) apunte a una entidad real.
	OwnerExists(ctx context.Context, owner entity.Owner) (bool, error)

	// EntityExists verifica existencia por tipo de entidad eliminable.
	EntityExists(ctx context.Context, entityType entity.EntityType, id string) (bool, error)

	// Covers indica si scope cubre a target: son iguales o target está en el
	// subárbol administrativo de scope. NATIONAL cubre todo.
	Covers(ctx context.Context, scope, target entity.Owner) (bool, error)

	// CoversEntity es Covers para objetivos de eliminación, incluidas las
	// comunas, que no son propietarias de stock.
	CoversEntity(ctx context.Context, scope entity.Owner, entityType entity.EntityType, id string) (bool, error)

	// Subtree materializa los IDs del subárbol de la entidad objetivo.
	// Las listas de descendientes excluyen a la entidad raíz; Owners y
	// ChildIDs sí la cubren (sus lotes, usuarios y niños cuentan en el
	// impacto aunque la fila raíz se borre aparte).
	Subtree(ctx context.Context, entityType entity.EntityType, id string) (*Subtree, error)

	// SearchByName busca entidades por nombre normalizado (sin acentos,
	// minúsculas). El caso de uso hace el plegado antes de llamar.
	SearchByName(ctx context.Context, entityType entity.EntityType, folded string, limit int) ([]NamedEntity, error)
}

// Subtree contiene los IDs alcanzables bajo una entidad administrativa.
// CommuneIDs/DistrictIDs/HealthCenterIDs son descendientes estrictos;
// ChildIDs incluye los niños de todos los centros alcanzados (la raíz
// incluida si es un centro) y Owners incluye a la raíz si posee stock
// (las comunas no poseen).
type Subtree struct {
	CommuneIDs      []string
	DistrictIDs     []string
	HealthCenterIDs []string
	ChildIDs        []string
	Owners          []entity.Owner
}

// NamedEntity es el resultado crudo de una búsqueda por nombre.
type NamedEntity struct {
	ID   string
	Name string
	Type entity.EntityType
}
