package admin

import (
	"context"
	"strings"

	"github.com/vacutrack/vacutrack-api/internal/domain"
	"github.com/vacutrack/vacutrack-api/internal/domain/entity"
	"github.com/vacutrack/vacutrack-api/internal/domain/repository"
	"github.com/vacutrack/vacutrack-api/pkg/normalize"
)

const searchLimit = 25

// SearchUseCase busca entidades del árbol administrativo por nombre.
type SearchUseCase struct {
	adminRepo repository.AdminTreeRepository
}

// NewSearchUseCase construye el caso de uso.
func NewSearchUseCase(adminRepo repository.AdminTreeRepository) *SearchUseCase {
	return &SearchUseCase{adminRepo: adminRepo}
}

// SearchEntities busca por nombre dentro de un tipo de entidad, ignorando
// mayúsculas y acentos ("nuble" encuentra "Ñuble"). El alcance del llamante
// no restringe la búsqueda: los nombres del árbol no son datos sensibles y
// un operador necesita resolver destinos de transferencia fuera de su rama.
func (uc *SearchUseCase) SearchEntities(ctx context.Context, entityType entity.EntityType, query string) ([]repository.NamedEntity, error) {
	if !entityType.Valid() {
		return nil, domain.ErrInvalidInput
	}
	folded := normalize.Fold(strings.TrimSpace(query))
	if folded == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.adminRepo.SearchByName(ctx, entityType, folded, searchLimit)
}
