package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	patientapp "github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/application/patient"
	"go.uber.org/zap"
)

// CardPrintService charges for patient card printouts
type CardPrintService interface {
	Print(ctx context.Context, patientID, userID int64) (*patientapp.CardPrintResponse, error)
	Check(ctx context.Context, patientID int64) (*patientapp.PrintCheckResponse, error)
	GetPrice(ctx context.Context) (*patientapp.CardPriceResponse, error)
	UpdatePrice(ctx context.Context, req patientapp.UpdateCardPriceRequest) (*patientapp.CardPriceResponse, error)
}

// CardPrintHandler handles patient card printing endpoints
type CardPrintHandler struct {
	BaseHandler
	prints CardPrintService
}

// NewCardPrintHandler creates a new CardPrintHandler
func NewCardPrintHandler(prints CardPrintService, log *zap.Logger) *CardPrintHandler {
	return &CardPrintHandler{BaseHandler: NewBaseHandler(log), prints: prints}
}

// Print godoc
// @ID           printPatientCard
// @Summary      Print a patient card
// @Description  Records a printout. The first card is free; reprints cost the configured price.
// @Tags         patients
// @Produce      json
// @Param        patientId  path      int  true  "Patient ID"
// @Success      201        {object}  APIResponse[patientapp.CardPrintResponse]
// @Failure      401        {object}  ErrorResponse
// @Failure      404        {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /patients/{patientId}/print [post]
func (h *CardPrintHandler) Print(c *gin.Context) {
	userID, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "patientId")
	if !ok {
		return
	}
	resp, err := h.prints.Print(c.Request.Context(), id, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Check godoc
// @ID           checkPatientCardPrint
// @Summary      Preview a card print
// @Description  Returns the print count and the charge of the next print without recording one
// @Tags         patients
// @Produce      json
// @Param        patientId  path      int  true  "Patient ID"
// @Success      200        {object}  APIResponse[patientapp.PrintCheckResponse]
// @Failure      404        {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /patients/{patientId}/print-check [get]
func (h *CardPrintHandler) Check(c *gin.Context) {
	id, ok := h.pathID(c, "patientId")
	if !ok {
		return
	}
	resp, err := h.prints.Check(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetPrice godoc
// @ID           getPatientCardPrice
// @Summary      Get the card reprint price
// @Tags         patients
// @Produce      json
// @Success      200  {object}  APIResponse[patientapp.CardPriceResponse]
// @Security     BearerAuth
// @Router       /patients/card-price [get]
func (h *CardPrintHandler) GetPrice(c *gin.Context) {
	resp, err := h.prints.GetPrice(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdatePrice godoc
// @ID           updatePatientCardPrice
// @Summary      Set the card reprint price
// @Tags         patients
// @Accept       json
// @Produce      json
// @Param        request  body      patientapp.UpdateCardPriceRequest  true  "New price"
// @Success      200      {object}  APIResponse[patientapp.CardPriceResponse]
// @Failure      400      {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /patients/card-price [put]
func (h *CardPrintHandler) UpdatePrice(c *gin.Context) {
	var req patientapp.UpdateCardPriceRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.prints.UpdatePrice(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
