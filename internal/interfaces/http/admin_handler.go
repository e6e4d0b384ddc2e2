package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/vacutrack/vacutrack-api/internal/application/admin"
	"github.com/vacutrack/vacutrack-api/internal/application/dto"
	"github.com/vacutrack/vacutrack-api/internal/domain"
	"github.com/vacutrack/vacutrack-api/internal/domain/entity"
)

// AdminHandler maneja la búsqueda de entidades del árbol administrativo (protegido).
type AdminHandler struct {
	search *admin.SearchUseCase
}

// NewAdminHandler construye el handler.
func NewAdminHandler(search *admin.SearchUseCase) *AdminHandler {
	return &AdminHandler{search: search}
}

// Search godoc
// @Summary      Buscar entidades administrativas por nombre
// @Description  Búsqueda insensible a mayúsculas y acentos ("nuble"
//
//	encuentra "Ñuble").
//
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        type  query  string  true  "region, commune, district o healthcenter"
// @Param        q     query  string  true  "Texto a buscar"
// @Success      200  {array}   map[string]string
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/admin/search [get]
func (h *AdminHandler) Search(c *fiber.Ctx) error {
	entityType := entity.EntityType(strings.ToUpper(c.Query("type")))
	query := c.Query("q")

	results, err := h.search.SearchEntities(c.Context(), entityType, query)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "tipo o texto de búsqueda inválido"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}

	out := make([]fiber.Map, 0, len(results))
	for _, r := range results {
		out = append(out, fiber.Map{"id": r.ID, "name": r.Name, "type": string(r.Type)})
	}
	return c.JSON(fiber.Map{"total": len(out), "results": out})
}
