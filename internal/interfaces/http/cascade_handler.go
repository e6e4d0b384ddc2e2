package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/vacutrack/vacutrack-api/internal/application/cascade"
	"github.com/vacutrack/vacutrack-api/internal/application/dto"
	"github.com/vacutrack/vacutrack-api/internal/domain"
	"github.com/vacutrack/vacutrack-api/internal/domain/entity"
)

// CascadeHandler maneja la vista previa y ejecución de eliminaciones en
// cascada sobre el árbol administrativo y el esquema de vacunas (protegido).
type CascadeHandler struct {
	impact  *cascade.ImpactUseCase
	execute *cascade.CascadeUseCase
}

// NewCascadeHandler construye el handler.
func NewCascadeHandler(impact *cascade.ImpactUseCase, execute *cascade.CascadeUseCase) *CascadeHandler {
	return &CascadeHandler{impact: impact, execute: execute}
}

func entityTypeParam(c *fiber.Ctx) entity.EntityType {
	return entity.EntityType(strings.ToUpper(c.Params("type")))
}

// PreviewEntity godoc
// @Summary      Vista previa del impacto de eliminar una entidad
// @Description  Calcula en fresco todo lo que la eliminación destruiría.
//
//	El resumen no se cachea ni reserva nada: entre la vista previa
//	y la confirmación el estado puede cambiar.
//
// @Tags         cascade
// @Security     Bearer
// @Produce      json
// @Param        type  path  string  true  "region, commune, district o healthcenter"
// @Param        id    path  string  true  "ID de la entidad"
// @Success      200  {object}  dto.CascadeImpactDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/entities/{type}/{id}/impact [get]
func (h *CascadeHandler) PreviewEntity(c *fiber.Ctx) error {
	impact, err := h.impact.PreviewEntity(c.Context(), GetScope(c), entityTypeParam(c), c.Params("id"))
	if err != nil {
		return cascadeError(c, err)
	}
	return c.JSON(toCascadeImpactDTO(impact))
}

// DeleteEntity godoc
// @Summary      Eliminar una entidad y todo su subárbol
// @Description  Borra la entidad, sus descendientes y todos los registros
//
//	dependientes en una sola transacción. Las transferencias pendientes
//	que tocan el subárbol se cancelan; si el origen sobrevive, lo
//	reservado vuelve a sus lotes. Devuelve el impacto realizado.
//
// @Tags         cascade
// @Security     Bearer
// @Produce      json
// @Param        type  path  string  true  "region, commune, district o healthcenter"
// @Param        id    path  string  true  "ID de la entidad"
// @Success      200  {object}  dto.CascadeImpactDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      410  {object}  dto.ErrorResponse
// @Router       /api/admin/entities/{type}/{id} [delete]
func (h *CascadeHandler) DeleteEntity(c *fiber.Ctx) error {
	impact, err := h.execute.Execute(c.Context(), GetScope(c), entityTypeParam(c), c.Params("id"))
	if err != nil {
		return cascadeError(c, err)
	}
	return c.JSON(toCascadeImpactDTO(impact))
}

// PreviewVaccine godoc
// @Summary      Vista previa del retiro de una vacuna del esquema
// @Tags         cascade
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la vacuna"
// @Success      200  {object}  dto.VaccineImpactDTO
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/vaccines/{id}/impact [get]
func (h *CascadeHandler) PreviewVaccine(c *fiber.Ctx) error {
	impact, err := h.impact.PreviewVaccine(c.Context(), GetScope(c), c.Params("id"))
	if err != nil {
		return cascadeError(c, err)
	}
	return c.JSON(toVaccineImpactDTO(impact))
}

// DeleteVaccine godoc
// @Summary      Retirar una vacuna del esquema
// @Description  Elimina la vacuna junto con sus citas, registros, lotes,
//
//	agregados y transferencias pendientes, en una sola transacción.
//	Solo el nivel nacional puede retirarla.
//
// @Tags         cascade
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la vacuna"
// @Success      200  {object}  dto.VaccineImpactDTO
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      410  {object}  dto.ErrorResponse
// @Router       /api/admin/vaccines/{id} [delete]
func (h *CascadeHandler) DeleteVaccine(c *fiber.Ctx) error {
	impact, err := h.execute.ExecuteVaccineDeletion(c.Context(), GetScope(c), c.Params("id"))
	if err != nil {
		return cascadeError(c, err)
	}
	return c.JSON(toVaccineImpactDTO(impact))
}

// PreviewLotReduction godoc
// @Summary      Dependencias de un lote antes de reducirlo
// @Description  Indica cuánto del lote está reservado por transferencias
//
//	pendientes y cuántas reservas de citas lo apuntan.
//
// @Tags         cascade
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del lote"
// @Success      200  {object}  dto.LotReductionImpactDTO
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/lots/{id}/reduction-impact [get]
func (h *CascadeHandler) PreviewLotReduction(c *fiber.Ctx) error {
	impact, err := h.impact.PreviewLotReduction(c.Context(), GetScope(c), c.Params("id"))
	if err != nil {
		return cascadeError(c, err)
	}
	return c.JSON(dto.LotReductionImpactDTO{
		LotID:                impact.LotID,
		QuantityReserved:     impact.QuantityReserved,
		InvalidatedTransfers: impact.InvalidatedTransfers,
		Reservations:         impact.Reservations,
	})
}

func toCascadeImpactDTO(i *entity.CascadeImpact) dto.CascadeImpactDTO {
	return dto.CascadeImpactDTO{
		EntityType:    string(i.EntityType),
		EntityID:      i.EntityID,
		Communes:      i.Communes,
		Districts:     i.Districts,
		HealthCenters: i.HealthCenters,
		Children:      i.Children,
		Users:         i.Users,
		VisitRecords:  i.VisitRecords,
		Reservations:  i.Reservations,
		Vaccinations: dto.VaccinationCountsDTO{
			Scheduled: i.Vaccinations.Scheduled,
			Due:       i.Vaccinations.Due,
			Late:      i.Vaccinations.Late,
			Overdue:   i.Vaccinations.Overdue,
			Completed: i.Vaccinations.Completed,
		},
		StockLots:              i.StockLots,
		Aggregates:             i.Aggregates,
		Transfers:              i.Transfers,
		WillCancelAppointments: i.WillCancelAppointments,
		AffectedAppointments:   i.AffectedAppointments,
		Total:                  i.Total(),
	}
}

func toVaccineImpactDTO(i *entity.VaccineImpact) dto.VaccineImpactDTO {
	return dto.VaccineImpactDTO{
		VaccineID:              i.VaccineID,
		AffectedAppointments:   i.AffectedAppointments,
		CompletedRecords:       i.CompletedRecords,
		StockLots:              i.StockLots,
		Aggregates:             i.Aggregates,
		PendingTransfers:       i.PendingTransfers,
		WillCancelAppointments: i.WillCancelAppointments,
	}
}

func cascadeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "entidad no encontrada"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "fuera del alcance del llamante"})
	case errors.Is(err, domain.ErrAlreadyDeleted):
		return c.Status(fiber.StatusGone).JSON(dto.ErrorResponse{Code: "ALREADY_DELETED", Message: "la entidad ya fue eliminada por otro operador"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
