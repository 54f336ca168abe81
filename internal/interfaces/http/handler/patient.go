package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	patientapp "github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/application/patient"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/shared"
	"go.uber.org/zap"
)

// PatientService is the patient registry as seen by the HTTP layer
type PatientService interface {
	Create(ctx context.Context, req patientapp.CreatePatientRequest, createdBy *int64) (*patientapp.PatientResponse, error)
	GetByPatientID(ctx context.Context, patientID int64) (*patientapp.PatientResponse, error)
	Update(ctx context.Context, patientID int64, req patientapp.UpdatePatientRequest) (*patientapp.PatientResponse, error)
	Delete(ctx context.Context, patientID int64) error
	Search(ctx context.Context, filter shared.Filter) (*shared.Paginated[patientapp.PatientResponse], error)
	List(ctx context.Context, search string) ([]patientapp.PatientResponse, error)
}

// PatientHandler handles patient registration endpoints
type PatientHandler struct {
	BaseHandler
	patients PatientService
}

// NewPatientHandler creates a new PatientHandler
func NewPatientHandler(patients PatientService, log *zap.Logger) *PatientHandler {
	return &PatientHandler{BaseHandler: NewBaseHandler(log), patients: patients}
}

// Create godoc
// @ID           createPatient
// @Summary      Register a patient
// @Description  Allocates the next YYMM patient ID and stores the patient. Honors Idempotency-Key.
// @Tags         patients
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header    string                           false  "Client-chosen key that rejects duplicate submissions"
// @Param        request          body      patientapp.CreatePatientRequest  true   "Patient details"
// @Success      201              {object}  APIResponse[patientapp.PatientResponse]
// @Failure      400              {object}  ErrorResponse
// @Failure      409              {object}  ErrorResponse
// @Failure      507              {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /patients [post]
func (h *PatientHandler) Create(c *gin.Context) {
	var req patientapp.CreatePatientRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.patients.Create(c.Request.Context(), req, h.actor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List godoc
// @ID           listPatients
// @Summary      List patients
// @Description  Returns patients newest first, optionally filtered by name, phone or patient ID
// @Tags         patients
// @Produce      json
// @Param        search  query     string  false  "Name, phone or patient ID fragment"
// @Success      200     {object}  APIResponse[[]patientapp.PatientResponse]
// @Security     BearerAuth
// @Router       /patients [get]
func (h *PatientHandler) List(c *gin.Context) {
	patients, err := h.patients.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, patients)
}

// Search godoc
// @ID           searchPatients
// @Summary      Search patients
// @Description  Paginated search over name, phone, CNIC and patient ID
// @Tags         patients
// @Produce      json
// @Param        page    query     int     false  "Page number"     default(1)
// @Param        limit   query     int     false  "Items per page"  default(20)
// @Param        search  query     string  false  "Search term"
// @Success      200     {object}  APIResponse[[]patientapp.PatientResponse]
// @Failure      400     {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /patients/search [get]
func (h *PatientHandler) Search(c *gin.Context) {
	filter, ok := h.bindList(c)
	if !ok {
		return
	}
	result, err := h.patients.Search(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page(c, result)
}

// Get godoc
// @ID           getPatient
// @Summary      Get a patient
// @Tags         patients
// @Produce      json
// @Param        patientId  path      int  true  "Patient ID (YYMMnnnn)"
// @Success      200        {object}  APIResponse[patientapp.PatientResponse]
// @Failure      404        {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /patients/{patientId} [get]
func (h *PatientHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "patientId")
	if !ok {
		return
	}
	resp, err := h.patients.GetByPatientID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update godoc
// @ID           updatePatient
// @Summary      Update a patient
// @Tags         patients
// @Accept       json
// @Produce      json
// @Param        patientId  path      int                              true  "Patient ID"
// @Param        request    body      patientapp.UpdatePatientRequest  true  "New patient details"
// @Success      200        {object}  APIResponse[patientapp.PatientResponse]
// @Failure      400        {object}  ErrorResponse
// @Failure      404        {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /patients/{patientId} [put]
func (h *PatientHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "patientId")
	if !ok {
		return
	}
	var req patientapp.UpdatePatientRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.patients.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete godoc
// @ID           deletePatient
// @Summary      Delete a patient
// @Description  Fails with ERR_INVALID_STATE while the patient has medical records
// @Tags         patients
// @Param        patientId  path  int  true  "Patient ID"
// @Success      204
// @Failure      404  {object}  ErrorResponse
// @Failure      422  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /patients/{patientId} [delete]
func (h *PatientHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "patientId")
	if !ok {
		return
	}
	if err := h.patients.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// WelfareService manages welfare enrolment
type WelfareService interface {
	Create(ctx context.Context, req patientapp.CreateWelfareRequest) (*patientapp.WelfareResponse, error)
	GetByPatientID(ctx context.Context, patientID int64) (*patientapp.WelfareResponse, error)
	List(ctx context.Context) ([]patientapp.WelfareResponse, error)
	Update(ctx context.Context, patientID int64, req patientapp.WelfareRequest) (*patientapp.WelfareResponse, error)
	Delete(ctx context.Context, patientID int64) error
}

// WelfareHandler handles welfare record endpoints
type WelfareHandler struct {
	BaseHandler
	welfare WelfareService
}

// NewWelfareHandler creates a new WelfareHandler
func NewWelfareHandler(welfare WelfareService, log *zap.Logger) *WelfareHandler {
	return &WelfareHandler{BaseHandler: NewBaseHandler(log), welfare: welfare}
}

// Create godoc
// @ID           createWelfare
// @Summary      Enrol a patient in welfare
// @Tags         welfare
// @Accept       json
// @Produce      json
// @Param        request  body      patientapp.CreateWelfareRequest  true  "Welfare details"
// @Success      201      {object}  APIResponse[patientapp.WelfareResponse]
// @Failure      400      {object}  ErrorResponse
// @Failure      404      {object}  ErrorResponse
// @Failure      409      {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /welfare [post]
func (h *WelfareHandler) Create(c *gin.Context) {
	var req patientapp.CreateWelfareRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.welfare.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List godoc
// @ID           listWelfare
// @Summary      List welfare records
// @Tags         welfare
// @Produce      json
// @Success      200  {object}  APIResponse[[]patientapp.WelfareResponse]
// @Security     BearerAuth
// @Router       /welfare [get]
func (h *WelfareHandler) List(c *gin.Context) {
	list, err := h.welfare.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, list)
}

// Get godoc
// @ID           getWelfare
// @Summary      Get a patient's welfare record
// @Tags         welfare
// @Produce      json
// @Param        patientId  path      int  true  "Patient ID"
// @Success      200        {object}  APIResponse[patientapp.WelfareResponse]
// @Failure      404        {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /welfare/{patientId} [get]
func (h *WelfareHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "patientId")
	if !ok {
		return
	}
	resp, err := h.welfare.GetByPatientID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update godoc
// @ID           updateWelfare
// @Summary      Update a patient's welfare record
// @Tags         welfare
// @Accept       json
// @Produce      json
// @Param        patientId  path      int                        true  "Patient ID"
// @Param        request    body      patientapp.WelfareRequest  true  "Welfare details"
// @Success      200        {object}  APIResponse[patientapp.WelfareResponse]
// @Failure      400        {object}  ErrorResponse
// @Failure      404        {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /welfare/{patientId} [put]
func (h *WelfareHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "patientId")
	if !ok {
		return
	}
	var req patientapp.WelfareRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.welfare.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete godoc
// @ID           deleteWelfare
// @Summary      Remove a patient's welfare record
// @Tags         welfare
// @Param        patientId  path  int  true  "Patient ID"
// @Success      204
// @Failure      404  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /welfare/{patientId} [delete]
func (h *WelfareHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "patientId")
	if !ok {
		return
	}
	if err := h.welfare.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
