package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/vacutrack/vacutrack-api/internal/domain/entity"
	"github.com/vacutrack/vacutrack-api/internal/domain/repository"
)

var _ repository.AdminTreeRepository = (*AdminTreeRepo)(nil)

// AdminTreeRepo implementación de solo lectura del árbol administrativo
// sobre PostgreSQL (usable con pool o tx).
type AdminTreeRepo struct {
	q Querier
}

// NewAdminTreeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAdminTreeRepository(q Querier) *AdminTreeRepo {
	return &AdminTreeRepo{q: q}
}

// lineage resuelve los ancestros de un propietario dentro del árbol.
type lineage struct {
	regionID   string
	communeID  string
	districtID string
}

func (r *AdminTreeRepo) lineageOf(ctx context.Context, owner entity.Owner) (*lineage, error) {
	var ln lineage
	var err error
	switch owner.Level {
	case entity.LevelRegional:
		ln.regionID = owner.ID
	case entity.LevelDistrict:
		ln.districtID = owner.ID
		err = r.q.QueryRow(ctx, `
			SELECT c.id, c.region_id
			FROM districts d JOIN communes c ON c.id = d.commune_id
			WHERE d.id = $1`, owner.ID).Scan(&ln.communeID, &ln.regionID)
	case entity.LevelHealthCenter:
		err = r.q.QueryRow(ctx, `
			SELECT d.id, c.id, c.region_id
			FROM health_centers hc
			JOIN districts d ON d.id = hc.district_id
			JOIN communes c ON c.id = d.commune_id
			WHERE hc.id = $1`, owner.ID).Scan(&ln.districtID, &ln.communeID, &ln.regionID)
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lineage: %w", err)
	}
	return &ln, nil
}

// OwnerExists verifica que el par (nivel, id) apunte a una entidad real.
func (r *AdminTreeRepo) OwnerExists(ctx context.Context, owner entity.Owner) (bool, error) {
	switch owner.Level {
	case entity.LevelNational:
		return owner.ID == entity.NationalID, nil
	case entity.LevelRegional:
		return r.exists(ctx, `SELECT 1 FROM regions WHERE id = $1`, owner.ID)
	case entity.LevelDistrict:
		return r.exists(ctx, `SELECT 1 FROM districts WHERE id = $1`, owner.ID)
	case entity.LevelHealthCenter:
		return r.exists(ctx, `SELECT 1 FROM health_centers WHERE id = $1`, owner.ID)
	}
	return false, nil
}

// EntityExists verifica existencia por tipo de entidad eliminable.
func (r *AdminTreeRepo) EntityExists(ctx context.Context, entityType entity.EntityType, id string) (bool, error) {
	switch entityType {
	case entity.EntityRegion:
		return r.exists(ctx, `SELECT 1 FROM regions WHERE id = $1`, id)
	case entity.EntityCommune:
		return r.exists(ctx, `SELECT 1 FROM communes WHERE id = $1`, id)
	case entity.EntityDistrict:
		return r.exists(ctx, `SELECT 1 FROM districts WHERE id = $1`, id)
	case entity.EntityHealthCenter:
		return r.exists(ctx, `SELECT 1 FROM health_centers WHERE id = $1`, id)
	}
	return false, nil
}

func (r *AdminTreeRepo) exists(ctx context.Context, query, id string) (bool, error) {
	var one int
	err := r.q.QueryRow(ctx, query, id).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("exists: %w", err)
	}
	return true, nil
}

// Covers indica si scope cubre a target: iguales, o target dentro del
// subárbol administrativo de scope. NATIONAL cubre todo.
func (r *AdminTreeRepo) Covers(ctx context.Context, scope, target entity.Owner) (bool, error) {
	if !scope.Validate() || !target.Validate() {
		return false, nil
	}
	if scope.Level == entity.LevelNational {
		return true, nil
	}
	if scope.Equal(target) {
		return true, nil
	}
	if target.Level == entity.LevelNational {
		return false, nil
	}
	ln, err := r.lineageOf(ctx, target)
	if err != nil {
		return false, err
	}
	if ln == nil {
		return false, nil
	}
	switch scope.Level {
	case entity.LevelRegional:
		return ln.regionID == scope.ID, nil
	case entity.LevelDistrict:
		return ln.districtID == scope.ID, nil
	}
	return false, nil
}

// CoversEntity es Covers para objetivos de eliminación, incluidas las
// comunas, que no son propietarias de stock.
func (r *AdminTreeRepo) CoversEntity(ctx context.Context, scope entity.Owner, entityType entity.EntityType, id string) (bool, error) {
	if entityType == entity.EntityCommune {
		if scope.Level == entity.LevelNational {
			return true, nil
		}
		if scope.Level != entity.LevelRegional {
			return false, nil
		}
		var regionID string
		err := r.q.QueryRow(ctx, `SELECT region_id FROM communes WHERE id = $1`, id).Scan(&regionID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return false, nil
			}
			return false, fmt.Errorf("covers commune: %w", err)
		}
		return regionID == scope.ID, nil
	}
	return r.Covers(ctx, scope, entity.Owner{Level: entityType.OwnerLevel(), ID: id})
}

// Subtree materializa los descendientes de la entidad objetivo. Las listas
// excluyen a la raíz; Owners la incluye cuando posee stock.
func (r *AdminTreeRepo) Subtree(ctx context.Context, entityType entity.EntityType, id string) (*repository.Subtree, error) {
	sub := &repository.Subtree{}
	var err error

	switch entityType {
	case entity.EntityRegion:
		if sub.CommuneIDs, err = r.ids(ctx, `SELECT id FROM communes WHERE region_id = $1 ORDER BY id`, id); err != nil {
			return nil, err
		}
		if sub.DistrictIDs, err = r.idsIn(ctx, `SELECT id FROM districts WHERE commune_id = ANY($1) ORDER BY id`, sub.CommuneIDs); err != nil {
			return nil, err
		}
		if sub.HealthCenterIDs, err = r.idsIn(ctx, `SELECT id FROM health_centers WHERE district_id = ANY($1) ORDER BY id`, sub.DistrictIDs); err != nil {
			return nil, err
		}
		sub.Owners = append(sub.Owners, entity.Owner{Level: entity.LevelRegional, ID: id})
	case entity.EntityCommune:
		if sub.DistrictIDs, err = r.ids(ctx, `SELECT id FROM districts WHERE commune_id = $1 ORDER BY id`, id); err != nil {
			return nil, err
		}
		if sub.HealthCenterIDs, err = r.idsIn(ctx, `SELECT id FROM health_centers WHERE district_id = ANY($1) ORDER BY id`, sub.DistrictIDs); err != nil {
			return nil, err
		}
	case entity.EntityDistrict:
		if sub.HealthCenterIDs, err = r.ids(ctx, `SELECT id FROM health_centers WHERE district_id = $1 ORDER BY id`, id); err != nil {
			return nil, err
		}
		sub.Owners = append(sub.Owners, entity.Owner{Level: entity.LevelDistrict, ID: id})
	case entity.EntityHealthCenter:
		sub.Owners = append(sub.Owners, entity.Owner{Level: entity.LevelHealthCenter, ID: id})
	}

	for _, districtID := range sub.DistrictIDs {
		sub.Owners = append(sub.Owners, entity.Owner{Level: entity.LevelDistrict, ID: districtID})
	}
	for _, centerID := range sub.HealthCenterIDs {
		sub.Owners = append(sub.Owners, entity.Owner{Level: entity.LevelHealthCenter, ID: centerID})
	}

	centers := sub.HealthCenterIDs
	if entityType == entity.EntityHealthCenter {
		centers = append([]string{id}, centers...)
	}
	if sub.ChildIDs, err = r.idsIn(ctx, `SELECT id FROM children WHERE health_center_id = ANY($1) ORDER BY id`, centers); err != nil {
		return nil, err
	}
	return sub, nil
}

func (r *AdminTreeRepo) ids(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("subtree ids: %w", err)
	}
	defer rows.Close()

	var list []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		list = append(list, id)
	}
	return list, rows.Err()
}

func (r *AdminTreeRepo) idsIn(ctx context.Context, query string, in []string) ([]string, error) {
	if len(in) == 0 {
		return nil, nil
	}
	return r.ids(ctx, query, in)
}

// SearchByName busca por nombre plegado (sin acentos, minúsculas). El
// plegado del lado SQL usa translate para las vocales acentuadas y la eñe.
func (r *AdminTreeRepo) SearchByName(ctx context.Context, entityType entity.EntityType, folded string, limit int) ([]repository.NamedEntity, error) {
	table := ""
	switch entityType {
	case entity.EntityRegion:
		table = "regions"
	case entity.EntityCommune:
		table = "communes"
	case entity.EntityDistrict:
		table = "districts"
	case entity.EntityHealthCenter:
		table = "health_centers"
	default:
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT id, name FROM ` + table + `
		WHERE translate(lower(name), 'áéíóúüñ', 'aeiouun') LIKE '%' || $1 || '%'
		ORDER BY name
		LIMIT $2`
	rows, err := r.q.Query(ctx, query, folded, limit)
	if err != nil {
		return nil, fmt.Errorf("search by name: %w", err)
	}
	defer rows.Close()

	var list []repository.NamedEntity
	for rows.Next() {
		e := repository.NamedEntity{Type: entityType}
		if err := rows.Scan(&e.ID, &e.Name); err != nil {
			return nil, fmt.Errorf("scan named entity: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}
