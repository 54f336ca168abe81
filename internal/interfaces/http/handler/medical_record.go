package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	recordapp "github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/application/medicalrecord"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/shared"
	"go.uber.org/zap"
)

// MedicalRecordService creates and reads billed visits
type MedicalRecordService interface {
	CreateMedicalRecord(ctx context.Context, req recordapp.CreateRecordRequest, authorUserID *int64) (*recordapp.MedicalRecordResponse, error)
	GetRecordsByPatient(ctx context.Context, patientID int64) (*recordapp.PatientRecordsResponse, error)
	ListPatientsWithVisits(ctx context.Context, filter shared.Filter) (*shared.Paginated[recordapp.PatientRecordsResponse], error)
}

// MedicalRecordHandler handles visit billing endpoints
type MedicalRecordHandler struct {
	BaseHandler
	records MedicalRecordService
}

// NewMedicalRecordHandler creates a new MedicalRecordHandler
func NewMedicalRecordHandler(records MedicalRecordService, log *zap.Logger) *MedicalRecordHandler {
	return &MedicalRecordHandler{BaseHandler: NewBaseHandler(log), records: records}
}

// Create godoc
// @ID           createMedicalRecord
// @Summary      Bill a patient visit
// @Description  Prices the visit items, assigns a receipt number and, for doctor visits, a daily token. Honors Idempotency-Key.
// @Tags         medical-records
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header    string                         false  "Client-chosen key that rejects duplicate submissions"
// @Param        request          body      recordapp.CreateRecordRequest  true   "Visit details"
// @Success      201              {object}  APIResponse[recordapp.MedicalRecordResponse]
// @Failure      400              {object}  ErrorResponse
// @Failure      404              {object}  ErrorResponse
// @Failure      409              {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /medical-records [post]
func (h *MedicalRecordHandler) Create(c *gin.Context) {
	var req recordapp.CreateRecordRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.records.CreateMedicalRecord(c.Request.Context(), req, h.actor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List godoc
// @ID           listPatientVisits
// @Summary      List patients with their visits
// @Tags         medical-records
// @Produce      json
// @Param        page    query     int     false  "Page number"     default(1)
// @Param        limit   query     int     false  "Items per page"  default(20)
// @Param        name    query     string  false  "Patient name fragment"
// @Success      200     {object}  APIResponse[[]recordapp.PatientRecordsResponse]
// @Failure      400     {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /medical-records [get]
func (h *MedicalRecordHandler) List(c *gin.Context) {
	filter, ok := h.bindList(c)
	if !ok {
		return
	}
	result, err := h.records.ListPatientsWithVisits(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page(c, result)
}

// GetByPatient godoc
// @ID           getPatientRecords
// @Summary      Get a patient's medical records
// @Tags         medical-records
// @Produce      json
// @Param        patientId  path      int  true  "Patient ID"
// @Success      200        {object}  APIResponse[recordapp.PatientRecordsResponse]
// @Failure      404        {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /medical-records/{patientId} [get]
func (h *MedicalRecordHandler) GetByPatient(c *gin.Context) {
	id, ok := h.pathID(c, "patientId")
	if !ok {
		return
	}
	resp, err := h.records.GetRecordsByPatient(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
