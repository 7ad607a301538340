package models

import (
	"strings"

	"github.com/google/uuid"

	registry "trsync/internal/registry/models"
	dErrors "trsync/pkg/domain-errors"
	"trsync/pkg/platform/validation"
	s "trsync/pkg/string"
	rules "trsync/pkg/validation"
)

// AddressRequest is an optional postal address.
type AddressRequest struct {
	Line1    string `json:"line1"`
	Line2    string `json:"line2"`
	Line3    string `json:"line3"`
	City     string `json:"city"`
	Postcode string `json:"postcode"`
	Country  string `json:"country"`
}

func (a *AddressRequest) normalize() {
	s.TrimStrings(&a.Line1, &a.Line2, &a.Line3, &a.City, &a.Country)
	a.Postcode = s.CompactUpper(a.Postcode)
}

func (a *AddressRequest) validate() error {
	return validation.CheckEachStringLength("address", []string{a.Line1, a.Line2, a.Line3, a.City, a.Postcode, a.Country}, validation.MaxAddressLineLength)
}

// IttRequest describes the training episode being synchronized.
type IttRequest struct {
	ProviderUkprn        string                 `json:"provider_ukprn" validate:"required,ukprn"`
	ProgrammeType        registry.ProgrammeType `json:"programme_type" validate:"required"`
	ProgrammeStartDate   *Date                  `json:"programme_start_date" validate:"required"`
	ProgrammeEndDate     *Date                  `json:"programme_end_date" validate:"required"`
	Subject1             string                 `json:"subject1" validate:"max=50"`
	Subject2             string                 `json:"subject2" validate:"max=50"`
	Subject3             string                 `json:"subject3" validate:"max=50"`
	AgeRangeFrom         *int                   `json:"age_range_from" validate:"omitempty,min=0,max=19"`
	AgeRangeTo           *int                   `json:"age_range_to" validate:"omitempty,min=0,max=19"`
	IttQualificationCode string                 `json:"itt_qualification_code" validate:"max=50"`
	Result               registry.IttResult     `json:"result"`
	TraineeID            string                 `json:"trainee_id" validate:"max=50"`
}

func (r *IttRequest) normalize() {
	s.TrimStrings(&r.ProviderUkprn, &r.Subject1, &r.Subject2, &r.Subject3, &r.IttQualificationCode, &r.TraineeID)
	r.ProgrammeType = registry.ProgrammeType(strings.ToLower(strings.TrimSpace(string(r.ProgrammeType))))
	r.Result = registry.IttResult(strings.ToLower(strings.TrimSpace(string(r.Result))))
}

func (r *IttRequest) validate() error {
	if err := rules.Validate(r); err != nil {
		return err
	}
	if !r.ProgrammeType.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "programme_type is invalid")
	}
	if r.ProgrammeEndDate.Before(r.ProgrammeStartDate.Time) {
		return dErrors.New(dErrors.CodeValidation, "programme_end_date must not be before programme_start_date")
	}
	if r.AgeRangeFrom != nil && r.AgeRangeTo != nil && *r.AgeRangeFrom > *r.AgeRangeTo {
		return dErrors.New(dErrors.CodeValidation, "age_range_from must not be greater than age_range_to")
	}
	switch r.Result {
	case "", registry.IttResultInTraining, registry.IttResultUnderAssessment:
	default:
		return dErrors.New(dErrors.CodeValidation, "result must be in_training or under_assessment")
	}
	return nil
}

// QualificationRequest describes an optional higher-education qualification.
type QualificationRequest struct {
	ProviderUkprn       string `json:"provider_ukprn" validate:"omitempty,ukprn"`
	CountryCode         string `json:"country_code" validate:"max=50"`
	SubjectCode         string `json:"subject_code" validate:"max=50"`
	HeQualificationCode string `json:"qualification_code" validate:"max=50"`
	Class               string `json:"class" validate:"max=50"`
	CompletionDate      *Date  `json:"date"`
}

func (r *QualificationRequest) normalize() {
	s.TrimStrings(&r.ProviderUkprn, &r.SubjectCode, &r.HeQualificationCode, &r.Class)
	r.CountryCode = strings.ToUpper(strings.TrimSpace(r.CountryCode))
}

// CreateTeacherRequest registers a new trainee teacher.
type CreateTeacherRequest struct {
	FirstName               string                `json:"first_name" validate:"notblank,max=100"`
	MiddleName              string                `json:"middle_name" validate:"max=100"`
	LastName                string                `json:"last_name" validate:"notblank,max=100"`
	BirthDate               *Date                 `json:"birth_date" validate:"required"`
	Email                   string                `json:"email" validate:"omitempty,email,max=255"`
	NationalInsuranceNumber string                `json:"national_insurance_number" validate:"omitempty,nino"`
	Address                 *AddressRequest       `json:"address"`
	Itt                     IttRequest            `json:"itt"`
	Qualification           *QualificationRequest `json:"qualification"`
}

func (r *CreateTeacherRequest) Normalize() {
	if r == nil {
		return
	}
	s.TrimStrings(&r.FirstName, &r.MiddleName, &r.LastName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.NationalInsuranceNumber = s.CompactUpper(r.NationalInsuranceNumber)
	if r.BirthDate != nil {
		d := NewDate(r.BirthDate.Time)
		r.BirthDate = &d
	}
	if r.Address != nil {
		r.Address.normalize()
	}
	r.Itt.normalize()
	if r.Qualification != nil {
		r.Qualification.normalize()
	}
}

func (r *CreateTeacherRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if err := rules.Validate(r); err != nil {
		return err
	}
	if r.Address != nil {
		if err := r.Address.validate(); err != nil {
			return err
		}
	}
	if err := r.Itt.validate(); err != nil {
		return err
	}
	if r.Qualification != nil {
		return rules.Validate(r.Qualification)
	}
	return nil
}

// UpdateTeacherRequest reconciles an existing teacher's identity and training
// records. Identity fields are partial: blank ones leave the stored value alone.
type UpdateTeacherRequest struct {
	TeacherID               uuid.UUID             `json:"-"`
	FirstName               string                `json:"first_name" validate:"max=100"`
	MiddleName              string                `json:"middle_name" validate:"max=100"`
	LastName                string                `json:"last_name" validate:"max=100"`
	BirthDate               *Date                 `json:"birth_date"`
	Email                   string                `json:"email" validate:"omitempty,email,max=255"`
	NationalInsuranceNumber string                `json:"national_insurance_number" validate:"omitempty,nino"`
	Address                 *AddressRequest       `json:"address"`
	Itt                     IttRequest            `json:"itt"`
	Qualification           *QualificationRequest `json:"qualification"`
}

func (r *UpdateTeacherRequest) Normalize() {
	if r == nil {
		return
	}
	s.TrimStrings(&r.FirstName, &r.MiddleName, &r.LastName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.NationalInsuranceNumber = s.CompactUpper(r.NationalInsuranceNumber)
	if r.BirthDate != nil {
		d := NewDate(r.BirthDate.Time)
		r.BirthDate = &d
	}
	if r.Address != nil {
		r.Address.normalize()
	}
	r.Itt.normalize()
	if r.Qualification != nil {
		r.Qualification.normalize()
	}
}

func (r *UpdateTeacherRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.TeacherID == uuid.Nil {
		return dErrors.New(dErrors.CodeValidation, "teacher_id is required")
	}
	if err := rules.Validate(r); err != nil {
		return err
	}
	if r.Address != nil {
		if err := r.Address.validate(); err != nil {
			return err
		}
	}
	if err := r.Itt.validate(); err != nil {
		return err
	}
	if r.Qualification != nil {
		return rules.Validate(r.Qualification)
	}
	return nil
}

// SetIttResultRequest records the outcome of a training episode. Outcome and
// assessment date rules are reported as failure reasons, not request errors.
type SetIttResultRequest struct {
	TeacherID      uuid.UUID          `json:"-"`
	ProviderUkprn  string             `json:"provider_ukprn" validate:"required,ukprn"`
	Outcome        registry.IttResult `json:"outcome"`
	AssessmentDate *Date              `json:"assessment_date"`
}

func (r *SetIttResultRequest) Normalize() {
	if r == nil {
		return
	}
	r.ProviderUkprn = strings.TrimSpace(r.ProviderUkprn)
	r.Outcome = registry.IttResult(strings.ToLower(strings.TrimSpace(string(r.Outcome))))
}

func (r *SetIttResultRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.TeacherID == uuid.Nil {
		return dErrors.New(dErrors.CodeValidation, "teacher_id is required")
	}
	return rules.Validate(r)
}

// FindTeachersRequest searches for existing teachers by partial identity.
type FindTeachersRequest struct {
	FirstName               string `json:"first_name" validate:"max=100"`
	MiddleName              string `json:"middle_name" validate:"max=100"`
	LastName                string `json:"last_name" validate:"max=100"`
	BirthDate               *Date  `json:"birth_date"`
	Email                   string `json:"email" validate:"omitempty,email,max=255"`
	NationalInsuranceNumber string `json:"national_insurance_number" validate:"omitempty,nino"`
}

func (r *FindTeachersRequest) Normalize() {
	if r == nil {
		return
	}
	s.TrimStrings(&r.FirstName, &r.MiddleName, &r.LastName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.NationalInsuranceNumber = s.CompactUpper(r.NationalInsuranceNumber)
}

func (r *FindTeachersRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	return rules.Validate(r)
}
