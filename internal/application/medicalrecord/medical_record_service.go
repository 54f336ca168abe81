package medicalrecord

import (
	"context"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/billing"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/medicalrecord"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/patient"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/sequence"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/shared"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/infrastructure/logger"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// MedicalRecordService bills patient visits and reads visit history
type MedicalRecordService struct {
	recordRepo      medicalrecord.Repository
	patientRepo     patient.Repository
	txScope         TransactionScope
	clock           shared.Clock
	policy          billing.NegativeFeePolicy
	logger          *zap.Logger
	businessMetrics *telemetry.BusinessMetrics
}

// NewMedicalRecordService creates a new MedicalRecordService
func NewMedicalRecordService(
	recordRepo medicalrecord.Repository,
	patientRepo patient.Repository,
	txScope TransactionScope,
	clock shared.Clock,
	policy billing.NegativeFeePolicy,
	log *zap.Logger,
) *MedicalRecordService {
	if log == nil {
		log = zap.NewNop()
	}
	if policy == "" {
		policy = billing.NegativeFeeAllow
	}
	return &MedicalRecordService{
		recordRepo:  recordRepo,
		patientRepo: patientRepo,
		txScope:     txScope,
		clock:       clock,
		policy:      policy,
		logger:      log,
	}
}

// SetBusinessMetrics sets the business metrics collector
func (s *MedicalRecordService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// CreateMedicalRecord allocates a receipt number and, when an item names a doctor,
// that doctor's next token for the day, then stores the priced record.
// Everything happens in one transaction so a failure burns no counter value.
func (s *MedicalRecordService) CreateMedicalRecord(ctx context.Context, req CreateRecordRequest, authorUserID *int64) (*MedicalRecordResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "medical_record", "create")
	defer span.End()

	resp, err := s.createMedicalRecord(ctx, req, authorUserID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrPatientID, req.PatientID, telemetry.SpanAttrReceiptNo, resp.ReceiptNo)
	if resp.TokenNumber != nil {
		telemetry.SetAttributes(span, telemetry.SpanAttrTokenNo, *resp.TokenNumber)
	}
	return resp, nil
}

func (s *MedicalRecordService) createMedicalRecord(ctx context.Context, req CreateRecordRequest, authorUserID *int64) (*MedicalRecordResponse, error) {
	if authorUserID == nil || *authorUserID <= 0 {
		return nil, shared.ErrUnauthorized
	}

	now := s.clock.Now()
	recordDate := now
	if req.RecordDate != nil && !req.RecordDate.IsZero() {
		recordDate = req.RecordDate.In(now.Location())
	}
	items := req.itemInputs()

	var created *medicalrecord.MedicalRecord
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		p, err := repos.PatientRepo().FindByPatientID(ctx, req.PatientID)
		if err != nil {
			return err
		}
		if err := medicalrecord.ValidateItems(items); err != nil {
			return err
		}
		if err := medicalrecord.ValidateRecordDiscount(req.Discount); err != nil {
			return err
		}

		prefix := sequence.ReceiptPrefix(now)
		n, err := repos.Sequences().Allocate(ctx, sequence.ReceiptScope(now))
		if err != nil {
			return err
		}
		draft := medicalrecord.Draft{
			PatientID:  p.ID,
			ReceiptNo:  sequence.FormatReceiptNo(prefix, n),
			Discount:   req.Discount,
			Notes:      req.Notes,
			UserID:     *authorUserID,
			RecordDate: recordDate,
		}

		if doctorID := medicalrecord.BillingDoctor(items); doctorID != nil {
			token, err := repos.Sequences().Allocate(ctx, sequence.TokenScope(*doctorID, now))
			if err != nil {
				return err
			}
			day := sequence.TokenDay(now)
			draft.DoctorID = doctorID
			draft.TokenNumber = &token
			draft.TokenDate = &day
		}

		record := medicalrecord.NewMedicalRecord(draft, items, s.policy, now)
		if err := repos.RecordRepo().Create(ctx, record); err != nil {
			return err
		}
		hydrated, err := repos.RecordRepo().FindByID(ctx, record.ID)
		if err != nil {
			return err
		}
		created = hydrated
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.businessMetrics != nil {
		s.businessMetrics.RecordReceiptIssued(ctx, created.FinalFee)
		if created.TokenNumber != nil {
			s.businessMetrics.RecordTokenIssued(ctx, *created.DoctorID)
		}
	}
	fields := []zap.Field{
		zap.String("receipt_no", created.ReceiptNo),
		zap.Int64("patient_id", req.PatientID),
		zap.String("final_fee", created.FinalFee.StringFixed(2)),
	}
	if created.TokenNumber != nil {
		fields = append(fields, zap.Int64("doctor_id", *created.DoctorID), zap.Int64("token", *created.TokenNumber))
	}
	logger.Ctx(ctx, s.logger).Info("Medical record created", fields...)

	response := ToMedicalRecordResponse(created, now)
	return &response, nil
}

// GetRecordsByPatient returns a patient with all of their records, newest first
func (s *MedicalRecordService) GetRecordsByPatient(ctx context.Context, patientID int64) (*PatientRecordsResponse, error) {
	p, err := s.patientRepo.FindByPatientID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	records, err := s.recordRepo.FindByPatient(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	response := ToPatientRecordsResponse(medicalrecord.PatientVisits{Patient: *p, Records: records}, s.clock.Now())
	return &response, nil
}

// ListPatientsWithVisits pages through patients that have at least one record
func (s *MedicalRecordService) ListPatientsWithVisits(ctx context.Context, filter shared.Filter) (*shared.Paginated[PatientRecordsResponse], error) {
	filter = filter.Normalize()
	visits, total, err := s.recordRepo.ListPatientsWithVisits(ctx, filter)
	if err != nil {
		return nil, err
	}
	today := s.clock.Now()
	items := make([]PatientRecordsResponse, len(visits))
	for i, v := range visits {
		items[i] = ToPatientRecordsResponse(v, today)
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.Limit)
	return &page, nil
}
