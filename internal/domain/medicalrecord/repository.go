package medicalrecord

import (
	"context"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/shared"
)

// Repository persists medical records and their items
type Repository interface {
	// Create inserts the record and all of its items in one write
	Create(ctx context.Context, r *MedicalRecord) error
	// FindByID loads a record with patient, author and item relations
	FindByID(ctx context.Context, id int64) (*MedicalRecord, error)
	// FindByPatient returns a patient's records ordered by record date, newest first
	FindByPatient(ctx context.Context, patientRowID int64) ([]MedicalRecord, error)
	// ListPatientsWithVisits pages through patients that have at least one record.
	// Filter.Search matches the business patient ID exactly and Filter.Name matches the name.
	ListPatientsWithVisits(ctx context.Context, filter shared.Filter) ([]PatientVisits, int64, error)
}
