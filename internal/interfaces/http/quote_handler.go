package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cotiza-api/internal/application/dto"
	"github.com/jhoicas/Cotiza-api/internal/application/workflow"
)

// QuoteHandler maneja las cotizaciones.
type QuoteHandler struct {
	uc *workflow.WorkflowUseCase
}

// NewQuoteHandler construye el handler.
func NewQuoteHandler(uc *workflow.WorkflowUseCase) *QuoteHandler {
	return &QuoteHandler{uc: uc}
}

// Submit godoc
// @Summary      Cotizar una RFQ (solo supplier dueño del producto)
// @Description  Solo la primera cotización de una RFQ abierta se acepta; las siguientes reciben INVALID_STATE.
// @Tags         quotes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SubmitQuoteRequest  true  "rfq, precio unitario, plazo"
// @Success      200   {object}  dto.QuoteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/quotes [post]
func (h *QuoteHandler) Submit(c *fiber.Ctx) error {
	var in dto.SubmitQuoteRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.SubmitQuoteFromRequest(c.UserContext(), GetUser(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListByRFQ godoc
// @Summary      Cotizaciones de una RFQ
// @Tags         quotes
// @Security     Bearer
// @Produce      json
// @Param        rfqId  path  string  true  "ID de la RFQ"
// @Success      200    {array}   dto.QuoteResponse
// @Failure      403    {object}  dto.ErrorResponse
// @Failure      404    {object}  dto.ErrorResponse
// @Router       /api/quotes/{rfqId} [get]
func (h *QuoteHandler) ListByRFQ(c *fiber.Ctx) error {
	out, err := h.uc.QuoteResponsesForRFQ(c.UserContext(), GetUser(c), c.Params("rfqId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
