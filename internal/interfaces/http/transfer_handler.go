package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/vacutrack/vacutrack-api/internal/application/dto"
	"github.com/vacutrack/vacutrack-api/internal/application/transfer"
	"github.com/vacutrack/vacutrack-api/internal/domain"
	"github.com/vacutrack/vacutrack-api/internal/domain/entity"
	"github.com/vacutrack/vacutrack-api/internal/domain/repository"
)

// TransferHandler maneja las peticiones HTTP de transferencias de stock (protegido).
type TransferHandler struct {
	uc *transfer.TransferUseCase
}

// NewTransferHandler construye el handler.
func NewTransferHandler(uc *transfer.TransferUseCase) *TransferHandler {
	return &TransferHandler{uc: uc}
}

// Propose godoc
// @Summary      Proponer una transferencia de stock
// @Description  Reserva la cantidad de los lotes del origen en orden FEFO
//
//	(vence-primero-sale-primero) y crea la transferencia en PENDING.
//	El débito del origen ocurre aquí, no al confirmar.
//
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProposeTransferRequest  true  "vaccine_id, from, to, quantity"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers [post]
func (h *TransferHandler) Propose(c *fiber.Ctx) error {
	scope := GetScope(c)
	userID := GetUserID(c)

	var in dto.ProposeTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	id, err := h.uc.Propose(c.Context(), scope, transfer.ProposeInput{
		VaccineID: in.VaccineID,
		From:      entity.Owner{Level: entity.OwnerLevel(in.From.Level), ID: in.From.ID},
		To:        entity.Owner{Level: entity.OwnerLevel(in.To.Level), ID: in.To.ID},
		Quantity:  in.Quantity,
		UserID:    userID,
	})
	if err != nil {
		return transferError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id, "status": entity.TransferStatusPending})
}

// Get godoc
// @Summary      Detalle de una transferencia
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la transferencia"
// @Success      200  {object}  dto.TransferDTO
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id} [get]
func (h *TransferHandler) Get(c *fiber.Ctx) error {
	t, err := h.uc.Get(c.Context(), GetScope(c), c.Params("id"))
	if err != nil {
		return transferError(c, err)
	}
	return c.JSON(toTransferDTO(t))
}

// List godoc
// @Summary      Transferencias de un propietario
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        direction    query  string  false  "incoming u outgoing (defecto: outgoing)"
// @Param        status       query  string  false  "PENDING, CONFIRMED, REJECTED o CANCELLED"
// @Param        owner_level  query  string  false  "Nivel del propietario (defecto: el del token)"
// @Param        owner_id     query  string  false  "ID del propietario (defecto: el del token)"
// @Success      200  {array}   dto.TransferDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/transfers [get]
func (h *TransferHandler) List(c *fiber.Ctx) error {
	scope := GetScope(c)
	owner := ownerFromQuery(c)

	direction := repository.TransferDirection(c.Query("direction", string(repository.DirectionOutgoing)))
	status := c.Query("status")

	list, err := h.uc.ListByOwner(c.Context(), scope, owner, direction, status)
	if err != nil {
		return transferError(c, err)
	}

	out := make([]dto.TransferDTO, 0, len(list))
	for _, t := range list {
		out = append(out, toTransferDTO(t))
	}
	return c.JSON(fiber.Map{"total": len(out), "transfers": out})
}

// Confirm godoc
// @Summary      Confirmar una transferencia pendiente
// @Description  Acredita las líneas reservadas al destino conservando la
//
//	fecha de vencimiento de cada línea. Solo el destino confirma.
//
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la transferencia"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/confirm [post]
func (h *TransferHandler) Confirm(c *fiber.Ctx) error {
	if err := h.uc.Confirm(c.Context(), GetScope(c), c.Params("id")); err != nil {
		return transferError(c, err)
	}
	return c.JSON(fiber.Map{"message": "transferencia confirmada"})
}

// Reject godoc
// @Summary      Rechazar una transferencia pendiente
// @Description  Devuelve lo reservado a los lotes del origen. Solo el destino rechaza.
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la transferencia"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/reject [post]
func (h *TransferHandler) Reject(c *fiber.Ctx) error {
	if err := h.uc.Reject(c.Context(), GetScope(c), c.Params("id")); err != nil {
		return transferError(c, err)
	}
	return c.JSON(fiber.Map{"message": "transferencia rechazada"})
}

// Cancel godoc
// @Summary      Cancelar una transferencia pendiente propia
// @Description  Devuelve lo reservado a los lotes del origen. Solo el origen cancela.
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la transferencia"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/cancel [post]
func (h *TransferHandler) Cancel(c *fiber.Ctx) error {
	if err := h.uc.Cancel(c.Context(), GetScope(c), c.Params("id")); err != nil {
		return transferError(c, err)
	}
	return c.JSON(fiber.Map{"message": "transferencia cancelada"})
}

func toTransferDTO(t *entity.PendingStockTransfer) dto.TransferDTO {
	out := dto.TransferDTO{
		ID:            t.ID,
		VaccineID:     t.VaccineID,
		From:          dto.OwnerRef{Level: string(t.From.Level), ID: t.From.ID},
		To:            dto.OwnerRef{Level: string(t.To.Level), ID: t.To.ID},
		TotalQuantity: t.TotalQuantity,
		Status:        t.Status,
		CreatedAt:     t.CreatedAt,
		ResolvedAt:    t.ResolvedAt,
	}
	for _, l := range t.Lots {
		out.Lots = append(out.Lots, dto.TransferLotDTO{
			LotID:            l.LotID,
			QuantityReserved: l.QuantityReserved,
			Expiration:       l.Expiration,
		})
	}
	return out
}

func transferError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrSameOwner):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "SAME_OWNER", Message: "origen y destino no pueden ser el mismo"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "transferencia, vacuna o propietario no encontrado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "fuera del alcance del llamante"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente en el origen"})
	case errors.Is(err, domain.ErrTransferNotPending):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NOT_PENDING", Message: "la transferencia ya fue resuelta"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
