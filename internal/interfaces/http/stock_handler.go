package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/vacutrack/vacutrack-api/internal/application/dto"
	"github.com/vacutrack/vacutrack-api/internal/application/stock"
	"github.com/vacutrack/vacutrack-api/internal/domain"
	"github.com/vacutrack/vacutrack-api/internal/domain/entity"
)

// StockHandler maneja las peticiones HTTP de lotes y stock agregado (protegido).
type StockHandler struct {
	uc *stock.LotUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *stock.LotUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// ownerFromQuery arma el propietario consultado; sin query params se
// consulta el propio alcance del llamante.
func ownerFromQuery(c *fiber.Ctx) entity.Owner {
	level := c.Query("owner_level")
	id := c.Query("owner_id")
	if level == "" && id == "" {
		return GetScope(c)
	}
	return entity.Owner{Level: entity.OwnerLevel(level), ID: id}
}

// ListStock godoc
// @Summary      Stock agregado por vacuna de un propietario
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        owner_level  query  string  false  "Nivel del propietario (defecto: el del token)"
// @Param        owner_id     query  string  false  "ID del propietario (defecto: el del token)"
// @Success      200  {array}   dto.AggregateStockDTO
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/stock [get]
func (h *StockHandler) ListStock(c *fiber.Ctx) error {
	scope := GetScope(c)
	owner := ownerFromQuery(c)

	aggs, err := h.uc.ListStock(c.Context(), scope, owner)
	if err != nil {
		return stockError(c, err)
	}

	out := make([]dto.AggregateStockDTO, 0, len(aggs))
	for _, a := range aggs {
		out = append(out, dto.AggregateStockDTO{
			VaccineID: a.VaccineID,
			Quantity:  a.Quantity,
			UpdatedAt: a.UpdatedAt,
		})
	}
	return c.JSON(fiber.Map{"total": len(out), "stock": out})
}

// ListLots godoc
// @Summary      Lotes vigentes de una vacuna en orden FEFO
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        vaccine_id   query  string  true   "Vacuna"
// @Param        owner_level  query  string  false  "Nivel del propietario (defecto: el del token)"
// @Param        owner_id     query  string  false  "ID del propietario (defecto: el del token)"
// @Success      200  {array}   dto.StockLotDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/stock/lots [get]
func (h *StockHandler) ListLots(c *fiber.Ctx) error {
	scope := GetScope(c)
	owner := ownerFromQuery(c)
	vaccineID := c.Query("vaccine_id")

	lots, err := h.uc.ListValidLots(c.Context(), scope, owner, vaccineID)
	if err != nil {
		return stockError(c, err)
	}

	out := make([]dto.StockLotDTO, 0, len(lots))
	for _, l := range lots {
		out = append(out, dto.StockLotDTO{
			ID:         l.ID,
			VaccineID:  l.VaccineID,
			OwnerLevel: string(l.Owner.Level),
			OwnerID:    l.Owner.ID,
			Quantity:   l.Quantity,
			Expiration: l.Expiration,
			Status:     l.Status,
		})
	}
	return c.JSON(fiber.Map{"total": len(out), "lots": out})
}

// AdjustLot godoc
// @Summary      Ajustar la cantidad de un lote
// @Description  Delta positivo acredita, negativo debita. La cantidad
//
//	resultante nunca puede quedar negativa.
//
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del lote"
// @Param        body  body  dto.AdjustLotRequest   true  "delta"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/lots/{id}/adjust [post]
func (h *StockHandler) AdjustLot(c *fiber.Ctx) error {
	scope := GetScope(c)
	lotID := c.Params("id")

	var in dto.AdjustLotRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	if err := h.uc.AdjustLot(c.Context(), scope, lotID, in.Delta); err != nil {
		return stockError(c, err)
	}
	return c.JSON(fiber.Map{"message": "lote ajustado"})
}

// RunSweep godoc
// @Summary      Barrer lotes vencidos
// @Description  Marca EXPIRED todo lote con fecha de vencimiento pasada y
//
//	recalcula los agregados afectados. Idempotente.
//
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SweepResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/stock/sweep [post]
func (h *StockHandler) RunSweep(c *fiber.Ctx) error {
	n, err := h.uc.MarkExpired(c.Context(), time.Now().UTC())
	if err != nil {
		return stockError(c, err)
	}
	return c.JSON(dto.SweepResponse{Expired: n})
}

func stockError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "lote no encontrado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "fuera del alcance del llamante"})
	case errors.Is(err, domain.ErrInsufficientQuantity):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_QUANTITY", Message: "el ajuste dejaría la cantidad negativa"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
