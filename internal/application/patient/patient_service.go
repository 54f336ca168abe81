package patient

import (
	"context"
	"errors"
	"time"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/patient"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/shared"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/infrastructure/logger"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Default retry policy for patient ID allocation.
const (
	DefaultIDRetryAttempts = 3
	DefaultIDRetryBackoff  = 20 * time.Millisecond
)

// PatientService handles patient registration and maintenance
type PatientService struct {
	patientRepo     patient.Repository
	txScope         TransactionScope
	clock           shared.Clock
	logger          *zap.Logger
	businessMetrics *telemetry.BusinessMetrics
	retryAttempts   int
	retryBackoff    time.Duration
}

// NewPatientService creates a new PatientService
func NewPatientService(patientRepo patient.Repository, txScope TransactionScope, clock shared.Clock, log *zap.Logger) *PatientService {
	if log == nil {
		log = zap.NewNop()
	}
	return &PatientService{
		patientRepo:   patientRepo,
		txScope:       txScope,
		clock:         clock,
		logger:        log,
		retryAttempts: DefaultIDRetryAttempts,
		retryBackoff:  DefaultIDRetryBackoff,
	}
}

// SetRetryPolicy sets how often allocation is retried after an ID conflict.
// Non-positive values keep the defaults.
func (s *PatientService) SetRetryPolicy(attempts int, backoff time.Duration) {
	if attempts > 0 {
		s.retryAttempts = attempts
	}
	if backoff > 0 {
		s.retryBackoff = backoff
	}
}

// SetBusinessMetrics sets the business metrics collector
func (s *PatientService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// Create registers a patient under the next free ID of the current month. A
// back-dated createdAt only changes the stored timestamp. Allocation and
// insert run serializably and are retried on ID conflicts.
func (s *PatientService) Create(ctx context.Context, req CreatePatientRequest, createdBy *int64) (*PatientResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "patient", "create")
	defer span.End()

	resp, err := s.create(ctx, req, createdBy)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrPatientID, resp.PatientID)
	return resp, nil
}

func (s *PatientService) create(ctx context.Context, req CreatePatientRequest, createdBy *int64) (*PatientResponse, error) {
	details := req.details().Normalize()
	if err := details.Validate(); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	createdAt := now
	if req.CreatedAt != nil && !req.CreatedAt.IsZero() {
		createdAt = req.CreatedAt.In(now.Location())
	}
	idRange := patient.MonthRange(now)

	log := logger.Ctx(ctx, s.logger)
	var created *patient.Patient
	for attempt := 1; ; attempt++ {
		err := s.txScope.ExecuteSerializable(ctx, func(repos TransactionalRepositories) error {
			last, err := repos.PatientRepo().MaxPatientIDInRange(ctx, idRange)
			if err != nil {
				return err
			}
			id, err := patient.NextPatientID(last, idRange)
			if err != nil {
				return err
			}
			p, err := patient.NewPatient(id, details, createdBy, createdAt)
			if err != nil {
				return err
			}
			if err := repos.PatientRepo().Create(ctx, p); err != nil {
				return err
			}
			created = p
			return nil
		})
		if err == nil {
			break
		}
		if !errors.Is(err, shared.ErrIDConflict) {
			return nil, err
		}
		if s.businessMetrics != nil {
			s.businessMetrics.RecordPatientIDConflict(ctx, attempt)
		}
		telemetry.AddEvent(ctx, "patient_id_conflict", telemetry.SpanAttrRetryAttempt, attempt)
		if attempt >= s.retryAttempts {
			log.Warn("Patient ID allocation gave up after conflicts", zap.Int("attempts", attempt))
			return nil, err
		}
		log.Debug("Patient ID conflict, retrying", zap.Int("attempt", attempt))
		if err := sleepContext(ctx, s.retryBackoff*time.Duration(attempt)); err != nil {
			return nil, err
		}
	}

	if s.businessMetrics != nil {
		s.businessMetrics.RecordPatientRegistered(ctx)
	}
	log.Info("Patient registered", zap.Int64("patient_id", created.PatientID))

	response := ToPatientResponse(created, now)
	return &response, nil
}

// GetByPatientID retrieves a patient by business ID
func (s *PatientService) GetByPatientID(ctx context.Context, patientID int64) (*PatientResponse, error) {
	p, err := s.patientRepo.FindByPatientID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	response := ToPatientResponse(p, s.clock.Now())
	return &response, nil
}

// Update replaces a patient's details
func (s *PatientService) Update(ctx context.Context, patientID int64, req UpdatePatientRequest) (*PatientResponse, error) {
	var updated *patient.Patient
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		p, err := repos.PatientRepo().FindByPatientID(ctx, patientID)
		if err != nil {
			return err
		}
		if err := p.Update(req.details(), s.clock.Now()); err != nil {
			return err
		}
		if err := repos.PatientRepo().Save(ctx, p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	response := ToPatientResponse(updated, s.clock.Now())
	return &response, nil
}

// Delete removes a patient. Patients with medical records cannot be deleted.
func (s *PatientService) Delete(ctx context.Context, patientID int64) error {
	if err := s.patientRepo.DeleteByPatientID(ctx, patientID); err != nil {
		return err
	}
	logger.Ctx(ctx, s.logger).Info("Patient deleted", zap.Int64("patient_id", patientID))
	return nil
}

// Search returns a page of patients matching name, CNIC, phone or patient ID
func (s *PatientService) Search(ctx context.Context, filter shared.Filter) (*shared.Paginated[PatientResponse], error) {
	filter = filter.Normalize()
	patients, total, err := s.patientRepo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(ToPatientResponses(patients, s.clock.Now()), total, filter.Page, filter.Limit)
	return &page, nil
}

// List returns every patient matching search
func (s *PatientService) List(ctx context.Context, search string) ([]PatientResponse, error) {
	patients, err := s.patientRepo.ListAll(ctx, search)
	if err != nil {
		return nil, err
	}
	return ToPatientResponses(patients, s.clock.Now()), nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
