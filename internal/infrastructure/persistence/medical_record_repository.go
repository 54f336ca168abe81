package persistence

import (
	"context"
	"strconv"
	"strings"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/medicalrecord"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/shared"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormMedicalRecordRepository implements medicalrecord.Repository using GORM
type GormMedicalRecordRepository struct {
	db *gorm.DB
}

// NewGormMedicalRecordRepository creates a new GormMedicalRecordRepository
func NewGormMedicalRecordRepository(db *gorm.DB) *GormMedicalRecordRepository {
	return &GormMedicalRecordRepository{db: db}
}

// Create inserts the record header and items in one statement batch
func (r *GormMedicalRecordRepository) Create(ctx context.Context, rec *medicalrecord.MedicalRecord) error {
	m := models.MedicalRecordModelFromDomain(rec)
	if err := r.db.WithContext(ctx).Omit("Patient", "User").Create(m).Error; err != nil {
		return duplicate(err, "Receipt number already used")
	}
	rec.ID = m.ID
	for i := range rec.Items {
		rec.Items[i].ID = m.Items[i].ID
		rec.Items[i].MedicalRecordID = m.ID
	}
	return nil
}

func (r *GormMedicalRecordRepository) withRelations(q *gorm.DB) *gorm.DB {
	return q.Preload("Patient").Preload("Patient.Welfare").Preload("User").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Items.Department").Preload("Items.Procedure").Preload("Items.Doctor")
}

// FindByID loads a record with patient, author and item relations
func (r *GormMedicalRecordRepository) FindByID(ctx context.Context, id int64) (*medicalrecord.MedicalRecord, error) {
	var m models.MedicalRecordModel
	if err := r.withRelations(r.db.WithContext(ctx)).First(&m, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "Medical record")
	}
	return m.ToDomain(), nil
}

// FindByPatient returns a patient's records, newest first
func (r *GormMedicalRecordRepository) FindByPatient(ctx context.Context, patientRowID int64) ([]medicalrecord.MedicalRecord, error) {
	var rows []models.MedicalRecordModel
	if err := r.db.WithContext(ctx).Preload("User").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Items.Department").Preload("Items.Procedure").Preload("Items.Doctor").
		Where("patient_id = ?", patientRowID).
		Order("record_date DESC").Order("id DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]medicalrecord.MedicalRecord, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// ListPatientsWithVisits pages through patients that have at least one record,
// highest patient ID first
func (r *GormMedicalRecordRepository) ListPatientsWithVisits(ctx context.Context, filter shared.Filter) ([]medicalrecord.PatientVisits, int64, error) {
	filter = filter.Normalize()

	query := r.db.WithContext(ctx).Model(&models.PatientModel{}).
		Where("EXISTS (SELECT 1 FROM medical_records mr WHERE mr.patient_id = patients.id)")
	if s := strings.TrimSpace(filter.Search); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return []medicalrecord.PatientVisits{}, 0, nil
		}
		query = query.Where("patients.patient_id = ?", id)
	}
	if n := strings.TrimSpace(filter.Name); n != "" {
		query = query.Where("LOWER(patients.name) LIKE ?", "%"+strings.ToLower(n)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var patients []models.PatientModel
	if err := query.Preload("Welfare").
		Order("patients.patient_id DESC").
		Offset(filter.Offset()).Limit(filter.Limit).
		Find(&patients).Error; err != nil {
		return nil, 0, err
	}
	if len(patients) == 0 {
		return []medicalrecord.PatientVisits{}, total, nil
	}

	rowIDs := make([]int64, len(patients))
	for i := range patients {
		rowIDs[i] = patients[i].ID
	}
	var records []models.MedicalRecordModel
	if err := r.db.WithContext(ctx).Preload("User").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Items.Department").Preload("Items.Procedure").Preload("Items.Doctor").
		Where("patient_id IN ?", rowIDs).
		Order("record_date DESC").Order("id DESC").
		Find(&records).Error; err != nil {
		return nil, 0, err
	}

	byPatient := make(map[int64][]medicalrecord.MedicalRecord, len(patients))
	for i := range records {
		byPatient[records[i].PatientRowID] = append(byPatient[records[i].PatientRowID], *records[i].ToDomain())
	}
	out := make([]medicalrecord.PatientVisits, len(patients))
	for i := range patients {
		out[i] = medicalrecord.PatientVisits{
			Patient: *patients[i].ToDomain(),
			Records: byPatient[patients[i].ID],
		}
	}
	return out, total, nil
}

var _ medicalrecord.Repository = (*GormMedicalRecordRepository)(nil)
