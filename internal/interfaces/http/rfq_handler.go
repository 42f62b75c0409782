package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cotiza-api/internal/application/dto"
	"github.com/jhoicas/Cotiza-api/internal/application/workflow"
)

// RFQHandler maneja las solicitudes de cotización.
type RFQHandler struct {
	uc *workflow.WorkflowUseCase
}

// NewRFQHandler construye el handler.
func NewRFQHandler(uc *workflow.WorkflowUseCase) *RFQHandler {
	return &RFQHandler{uc: uc}
}

// Create godoc
// @Summary      Crear RFQ (solo buyer)
// @Tags         rfqs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRFQRequest  true  "producto, cantidad, mensaje, días de vigencia"
// @Success      200   {object}  dto.RFQResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/rfqs [post]
func (h *RFQHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRFQRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateRFQFromRequest(c.UserContext(), GetUser(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar RFQs visibles
// @Description  admin: todas; buyer: las propias; supplier: abiertas sobre sus productos.
// @Tags         rfqs
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.RFQResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/rfqs [get]
func (h *RFQHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListRFQResponses(c.UserContext(), GetUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener RFQ
// @Tags         rfqs
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la RFQ"
// @Success      200  {object}  dto.RFQResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/rfqs/{id} [get]
func (h *RFQHandler) GetByID(c *fiber.Ctx) error {
	rfq, err := h.uc.GetRFQ(c.UserContext(), GetUser(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToRFQResponse(rfq))
}
