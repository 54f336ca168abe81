package patient

import (
	"context"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/patient"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/shared"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// WelfareService manages patients' welfare records
type WelfareService struct {
	welfareRepo patient.WelfareRepository
	txScope     TransactionScope
	clock       shared.Clock
	logger      *zap.Logger
}

// NewWelfareService creates a new WelfareService
func NewWelfareService(welfareRepo patient.WelfareRepository, txScope TransactionScope, clock shared.Clock, log *zap.Logger) *WelfareService {
	if log == nil {
		log = zap.NewNop()
	}
	return &WelfareService{welfareRepo: welfareRepo, txScope: txScope, clock: clock, logger: log}
}

// Create grants a welfare record to an existing patient. A patient has at most one.
func (s *WelfareService) Create(ctx context.Context, req CreateWelfareRequest) (*WelfareResponse, error) {
	now := s.clock.Now()
	var created *patient.WelfareRecord
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := repos.PatientRepo().FindByPatientID(ctx, req.PatientID); err != nil {
			return err
		}
		w, err := patient.NewWelfareRecord(req.PatientID, req.details(), now)
		if err != nil {
			return err
		}
		if err := repos.WelfareRepo().Create(ctx, w); err != nil {
			return err
		}
		created = w
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Ctx(ctx, s.logger).Info("Welfare record created",
		zap.Int64("patient_id", created.PatientID),
		zap.String("category", created.WelfareCategory),
	)
	response := ToWelfareResponse(created, now)
	return &response, nil
}

// GetByPatientID retrieves a patient's welfare record
func (s *WelfareService) GetByPatientID(ctx context.Context, patientID int64) (*WelfareResponse, error) {
	w, err := s.welfareRepo.FindByPatientID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	response := ToWelfareResponse(w, s.clock.Now())
	return &response, nil
}

// List returns every welfare record
func (s *WelfareService) List(ctx context.Context) ([]WelfareResponse, error) {
	records, err := s.welfareRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	today := s.clock.Now()
	out := make([]WelfareResponse, len(records))
	for i := range records {
		out[i] = ToWelfareResponse(&records[i], today)
	}
	return out, nil
}

// Update replaces a welfare record's attributes
func (s *WelfareService) Update(ctx context.Context, patientID int64, req WelfareRequest) (*WelfareResponse, error) {
	now := s.clock.Now()
	var updated *patient.WelfareRecord
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		w, err := repos.WelfareRepo().FindByPatientID(ctx, patientID)
		if err != nil {
			return err
		}
		if err := w.Update(req.details(), now); err != nil {
			return err
		}
		if err := repos.WelfareRepo().Save(ctx, w); err != nil {
			return err
		}
		updated = w
		return nil
	})
	if err != nil {
		return nil, err
	}
	response := ToWelfareResponse(updated, now)
	return &response, nil
}

// Delete removes a patient's welfare record
func (s *WelfareService) Delete(ctx context.Context, patientID int64) error {
	return s.welfareRepo.DeleteByPatientID(ctx, patientID)
}
