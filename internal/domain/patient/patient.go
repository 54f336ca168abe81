package patient

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/shared"
)

// Maximum stored lengths of free-text patient fields.
const (
	MaxNameLength    = 100
	MaxCNICLength    = 20
	MaxPhoneLength   = 20
	MaxAddressLength = 255
	MaxAge           = 150
)

// Patient is a registered person identified by a month-scoped business ID.
type Patient struct {
	shared.BaseEntity
	PatientID       int64
	Name            string
	GuardianName    string
	Gender          string
	Age             int
	MaritalStatus   string
	BloodGroup      string
	PhoneNumber     string
	CNICNumber      string
	Address         string
	CreatedByUserID *int64
	OrganizationID  *int64
	Welfare         *WelfareRecord
}

// Details holds the mutable demographic attributes of a patient.
type Details struct {
	Name           string
	GuardianName   string
	Gender         string
	Age            *int
	MaritalStatus  string
	BloodGroup     string
	PhoneNumber    string
	CNICNumber     string
	Address        string
	OrganizationID *int64
}

// Normalize trims surrounding whitespace from every text field.
func (d Details) Normalize() Details {
	d.Name = strings.TrimSpace(d.Name)
	d.GuardianName = strings.TrimSpace(d.GuardianName)
	d.Gender = strings.TrimSpace(d.Gender)
	d.MaritalStatus = strings.TrimSpace(d.MaritalStatus)
	d.BloodGroup = strings.TrimSpace(d.BloodGroup)
	d.PhoneNumber = strings.TrimSpace(d.PhoneNumber)
	d.CNICNumber = strings.TrimSpace(d.CNICNumber)
	d.Address = strings.TrimSpace(d.Address)
	return d
}

// Validate checks required fields and length limits, reporting every failing field.
func (d Details) Validate() error {
	errs := make(map[string]string)
	if d.Name == "" {
		errs["name"] = "Name is required"
	} else if utf8.RuneCountInString(d.Name) > MaxNameLength {
		errs["name"] = "Name must be at most 100 characters"
	}
	if d.Gender == "" {
		errs["gender"] = "Gender is required"
	}
	if d.Age == nil {
		errs["age"] = "Age is required"
	} else if *d.Age < 0 || *d.Age > MaxAge {
		errs["age"] = "Age must be between 0 and 150"
	}
	if utf8.RuneCountInString(d.CNICNumber) > MaxCNICLength {
		errs["cnicNumber"] = "CNIC must be at most 20 characters"
	}
	if utf8.RuneCountInString(d.PhoneNumber) > MaxPhoneLength {
		errs["phoneNumber"] = "Phone number must be at most 20 characters"
	}
	if utf8.RuneCountInString(d.Address) > MaxAddressLength {
		errs["address"] = "Address must be at most 255 characters"
	}
	if len(errs) > 0 {
		return shared.NewValidationError("Validation failed", errs)
	}
	return nil
}

// NewPatient validates the details and builds a patient carrying an allocated ID.
// createdAt may be in the past for back-dated registrations.
func NewPatient(patientID int64, details Details, createdBy *int64, createdAt time.Time) (*Patient, error) {
	details = details.Normalize()
	if err := details.Validate(); err != nil {
		return nil, err
	}
	p := &Patient{
		BaseEntity:      shared.NewBaseEntity(createdAt),
		PatientID:       patientID,
		CreatedByUserID: createdBy,
	}
	p.apply(details)
	return p, nil
}

// Update replaces the demographic attributes. The business ID never changes.
func (p *Patient) Update(details Details, now time.Time) error {
	details = details.Normalize()
	if err := details.Validate(); err != nil {
		return err
	}
	p.apply(details)
	p.Touch(now)
	return nil
}

func (p *Patient) apply(d Details) {
	p.Name = d.Name
	p.GuardianName = d.GuardianName
	p.Gender = d.Gender
	p.Age = *d.Age
	p.MaritalStatus = d.MaritalStatus
	p.BloodGroup = d.BloodGroup
	p.PhoneNumber = d.PhoneNumber
	p.CNICNumber = d.CNICNumber
	p.Address = d.Address
	p.OrganizationID = d.OrganizationID
}
