package persistence

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/patient"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/shared"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPatientRepository implements patient.Repository using GORM
type GormPatientRepository struct {
	db *gorm.DB
}

// NewGormPatientRepository creates a new GormPatientRepository
func NewGormPatientRepository(db *gorm.DB) *GormPatientRepository {
	return &GormPatientRepository{db: db}
}

// FindByPatientID loads a patient and its welfare record by business ID
func (r *GormPatientRepository) FindByPatientID(ctx context.Context, patientID int64) (*patient.Patient, error) {
	var m models.PatientModel
	if err := r.db.WithContext(ctx).Preload("Welfare").
		Where("patient_id = ?", patientID).First(&m).Error; err != nil {
		return nil, notFound(err, "Patient")
	}
	return m.ToDomain(), nil
}

// MaxPatientIDInRange returns the largest patient ID issued inside the range
func (r *GormPatientRepository) MaxPatientIDInRange(ctx context.Context, rng patient.IDRange) (*int64, error) {
	var last sql.NullInt64
	if err := r.db.WithContext(ctx).Model(&models.PatientModel{}).
		Select("MAX(patient_id)").
		Where("patient_id >= ? AND patient_id <= ?", rng.Prefix, rng.PrefixEnd).
		Scan(&last).Error; err != nil {
		return nil, err
	}
	if !last.Valid {
		return nil, nil
	}
	return &last.Int64, nil
}

// Create inserts the patient. A patient_id collision surfaces as ErrIDConflict.
func (r *GormPatientRepository) Create(ctx context.Context, p *patient.Patient) error {
	m := models.PatientModelFromDomain(p)
	if err := r.db.WithContext(ctx).Omit("Welfare").Create(m).Error; err != nil {
		if isDuplicateKey(err) {
			return shared.ErrIDConflict
		}
		return err
	}
	p.ID = m.ID
	return nil
}

// Save updates the patient's editable attributes
func (r *GormPatientRepository) Save(ctx context.Context, p *patient.Patient) error {
	m := models.PatientModelFromDomain(p)
	result := r.db.WithContext(ctx).Model(&models.PatientModel{}).
		Where("patient_id = ?", p.PatientID).
		Select("name", "guardian_name", "gender", "age", "marital_status", "blood_group",
			"phone_number", "cnic_number", "address", "organization_id", "updated_at").
		Updates(m)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Patient")
	}
	return nil
}

// DeleteByPatientID removes a patient by business ID
func (r *GormPatientRepository) DeleteByPatientID(ctx context.Context, patientID int64) error {
	result := r.db.WithContext(ctx).Where("patient_id = ?", patientID).Delete(&models.PatientModel{})
	if result.Error != nil {
		if isForeignKeyViolation(result.Error) {
			return shared.NewInvalidStateError("Patient has medical records and cannot be deleted")
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Patient")
	}
	return nil
}

// Search pages through patients matching filter.Search, newest first
func (r *GormPatientRepository) Search(ctx context.Context, filter shared.Filter) ([]patient.Patient, int64, error) {
	filter = filter.Normalize()
	query := r.searchScope(r.db.WithContext(ctx).Model(&models.PatientModel{}), filter.Search)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.PatientModel
	if err := query.Preload("Welfare").
		Order("id DESC").
		Offset(filter.Offset()).Limit(filter.Limit).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return toPatients(rows), total, nil
}

// ListAll returns every patient matching search, newest first
func (r *GormPatientRepository) ListAll(ctx context.Context, search string) ([]patient.Patient, error) {
	var rows []models.PatientModel
	if err := r.searchScope(r.db.WithContext(ctx).Model(&models.PatientModel{}), search).
		Preload("Welfare").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toPatients(rows), nil
}

// searchScope matches name, CNIC and phone by case-insensitive substring and
// patient_id exactly when the term is numeric
func (r *GormPatientRepository) searchScope(q *gorm.DB, search string) *gorm.DB {
	search = strings.TrimSpace(search)
	if search == "" {
		return q
	}
	like := "%" + strings.ToLower(search) + "%"
	cond := r.db.Where("LOWER(name) LIKE ?", like).
		Or("LOWER(cnic_number) LIKE ?", like).
		Or("LOWER(phone_number) LIKE ?", like)
	if id, err := strconv.ParseInt(search, 10, 64); err == nil {
		cond = cond.Or("patient_id = ?", id)
	}
	return q.Where(cond)
}

func toPatients(rows []models.PatientModel) []patient.Patient {
	out := make([]patient.Patient, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

var _ patient.Repository = (*GormPatientRepository)(nil)

// GormWelfareRepository implements patient.WelfareRepository using GORM
type GormWelfareRepository struct {
	db *gorm.DB
}

// NewGormWelfareRepository creates a new GormWelfareRepository
func NewGormWelfareRepository(db *gorm.DB) *GormWelfareRepository {
	return &GormWelfareRepository{db: db}
}

// FindByPatientID loads the welfare record of a patient
func (r *GormWelfareRepository) FindByPatientID(ctx context.Context, patientID int64) (*patient.WelfareRecord, error) {
	var m models.WelfareRecordModel
	if err := r.db.WithContext(ctx).Where("patient_id = ?", patientID).First(&m).Error; err != nil {
		return nil, notFound(err, "Welfare record")
	}
	return m.ToDomain(), nil
}

// FindAll returns every welfare record, newest first
func (r *GormWelfareRepository) FindAll(ctx context.Context) ([]patient.WelfareRecord, error) {
	var rows []models.WelfareRecordModel
	if err := r.db.WithContext(ctx).Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]patient.WelfareRecord, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Create inserts a welfare record; a patient has at most one
func (r *GormWelfareRepository) Create(ctx context.Context, w *patient.WelfareRecord) error {
	m := models.WelfareRecordModelFromDomain(w)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if isForeignKeyViolation(err) {
			return shared.NewNotFoundError("Patient")
		}
		return duplicate(err, "Patient already has a welfare record")
	}
	w.ID = m.ID
	return nil
}

// Save updates a welfare record
func (r *GormWelfareRepository) Save(ctx context.Context, w *patient.WelfareRecord) error {
	m := models.WelfareRecordModelFromDomain(w)
	result := r.db.WithContext(ctx).Model(&models.WelfareRecordModel{}).
		Where("patient_id = ?", w.PatientID).
		Select("welfare_category", "discount_type", "discount_percentage", "start_date", "end_date",
			"approved_by", "referred_by", "remarks", "monthly_income", "family_members",
			"verification_status", "updated_at").
		Updates(m)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Welfare record")
	}
	return nil
}

// DeleteByPatientID removes a patient's welfare record
func (r *GormWelfareRepository) DeleteByPatientID(ctx context.Context, patientID int64) error {
	result := r.db.WithContext(ctx).Where("patient_id = ?", patientID).Delete(&models.WelfareRecordModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Welfare record")
	}
	return nil
}

var _ patient.WelfareRepository = (*GormWelfareRepository)(nil)
