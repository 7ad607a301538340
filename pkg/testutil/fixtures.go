package testutil

import (
	"github.com/google/uuid"

	"trsync/internal/registry/models"
)

// Reference is the fixed reference data most tests seed into a registry.
var Reference = struct {
	ProviderUkprn        string
	ProviderID           uuid.UUID
	OtherProviderUkprn   string
	OtherProviderID      uuid.UUID
	CountryCode          string
	CountryID            uuid.UUID
	IttSubjectCode       string
	IttSubjectID         uuid.UUID
	IttSubject2Code      string
	IttSubject2ID        uuid.UUID
	HeSubjectCode        string
	HeSubjectID          uuid.UUID
	HeQualificationCode  string
	HeQualificationID    uuid.UUID
	IttQualificationCode string
	IttQualificationID   uuid.UUID
	RetiredSubjectCode   string
}{
	ProviderUkprn:        "10044534",
	ProviderID:           uuid.MustParse("a0000000-0000-0000-0000-000000000001"),
	OtherProviderUkprn:   "10005790",
	OtherProviderID:      uuid.MustParse("a0000000-0000-0000-0000-000000000002"),
	CountryCode:          "XK",
	CountryID:            uuid.MustParse("c0000000-0000-0000-0000-000000000001"),
	IttSubjectCode:       "100366",
	IttSubjectID:         uuid.MustParse("50000000-0000-0000-0000-000000000001"),
	IttSubject2Code:      "100403",
	IttSubject2ID:        uuid.MustParse("50000000-0000-0000-0000-000000000002"),
	HeSubjectCode:        "100048",
	HeSubjectID:          uuid.MustParse("5e000000-0000-0000-0000-000000000001"),
	HeQualificationCode:  "401",
	HeQualificationID:    uuid.MustParse("9e000000-0000-0000-0000-000000000001"),
	IttQualificationCode: "001",
	IttQualificationID:   uuid.MustParse("91000000-0000-0000-0000-000000000001"),
	RetiredSubjectCode:   "999999",
}

// Status ids keyed by status value.
var (
	TeacherStatusIDs = map[string]uuid.UUID{
		models.TeacherStatusTrainee:             uuid.MustParse("70000000-0000-0000-0000-000000000211"),
		models.TeacherStatusAssessmentOnly:      uuid.MustParse("70000000-0000-0000-0000-000000000212"),
		models.TeacherStatusQualified:           uuid.MustParse("70000000-0000-0000-0000-000000000071"),
		models.TeacherStatusQualifiedAssessment: uuid.MustParse("70000000-0000-0000-0000-000000000100"),
	}
	EarlyYearsStatusIDs = map[string]uuid.UUID{
		models.EarlyYearsStatusTrainee: uuid.MustParse("e0000000-0000-0000-0000-000000000220"),
		models.EarlyYearsStatusAwarded: uuid.MustParse("e0000000-0000-0000-0000-000000000221"),
	}
)

// ReferenceEntities returns every fixture reference record, including one
// inactive ITT subject that lookups must never return.
func ReferenceEntities() []models.Entity {
	r := Reference
	refs := []models.Reference{
		{Entity: models.EntityAccount, ID: r.ProviderID, Key: r.ProviderUkprn, Name: "Test Provider"},
		{Entity: models.EntityAccount, ID: r.OtherProviderID, Key: r.OtherProviderUkprn, Name: "Other Provider"},
		{Entity: models.EntityCountry, ID: r.CountryID, Key: r.CountryCode, Name: "Kosovo"},
		{Entity: models.EntityIttSubject, ID: r.IttSubjectID, Key: r.IttSubjectCode, Name: "Mathematics"},
		{Entity: models.EntityIttSubject, ID: r.IttSubject2ID, Key: r.IttSubject2Code, Name: "Physics"},
		{Entity: models.EntityIttSubject, ID: uuid.New(), Key: r.RetiredSubjectCode, Name: "Retired", State: models.StateInactive},
		{Entity: models.EntityHeSubject, ID: r.HeSubjectID, Key: r.HeSubjectCode, Name: "Mathematics"},
		{Entity: models.EntityHeQualification, ID: r.HeQualificationID, Key: r.HeQualificationCode, Name: "BA"},
		{Entity: models.EntityIttQualification, ID: r.IttQualificationID, Key: r.IttQualificationCode, Name: "PGCE"},
	}
	for value, id := range TeacherStatusIDs {
		refs = append(refs, models.Reference{Entity: models.EntityTeacherStatus, ID: id, Key: value})
	}
	for value, id := range EarlyYearsStatusIDs {
		refs = append(refs, models.Reference{Entity: models.EntityEarlyYearsStatus, ID: id, Key: value})
	}

	out := make([]models.Entity, 0, len(refs))
	for _, ref := range refs {
		out = append(out, ref.ToEntity())
	}
	return out
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
