package patient

import (
	"context"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/shared"
)

// Repository persists patients and their welfare records.
type Repository interface {
	// FindByPatientID loads a patient with its welfare record by business ID
	FindByPatientID(ctx context.Context, patientID int64) (*Patient, error)
	// MaxPatientIDInRange returns the largest issued ID in r, or nil if none
	MaxPatientIDInRange(ctx context.Context, r IDRange) (*int64, error)
	// Create inserts a new patient
	Create(ctx context.Context, p *Patient) error
	// Save updates an existing patient's attributes
	Save(ctx context.Context, p *Patient) error
	// DeleteByPatientID removes a patient by business ID
	DeleteByPatientID(ctx context.Context, patientID int64) error
	// Search matches name, CNIC and phone by substring and patientId exactly, newest first
	Search(ctx context.Context, filter shared.Filter) ([]Patient, int64, error)
	// ListAll returns every patient matching search, newest first
	ListAll(ctx context.Context, search string) ([]Patient, error)
}

// WelfareRepository persists welfare records, keyed by patient business ID.
type WelfareRepository interface {
	FindByPatientID(ctx context.Context, patientID int64) (*WelfareRecord, error)
	FindAll(ctx context.Context) ([]WelfareRecord, error)
	Create(ctx context.Context, w *WelfareRecord) error
	Save(ctx context.Context, w *WelfareRecord) error
	DeleteByPatientID(ctx context.Context, patientID int64) error
}
