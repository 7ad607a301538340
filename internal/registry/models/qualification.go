package models

import (
	"time"

	"github.com/google/uuid"
)

// Qualification attribute names.
const (
	AttrQualificationType = "type"
	AttrHeQualificationID = "he_qualification_id"
	AttrHeSubjectID       = "he_subject_id"
	AttrCountryID         = "country_id"
	AttrProviderID        = "provider_id"
	AttrClass             = "class"
	AttrCompletionDate    = "completion_date"
)

// QualificationTypeHigherEducation is the only qualification type this service writes.
const QualificationTypeHigherEducation = "higher_education"

// Qualification is a higher-education qualification held by a contact.
type Qualification struct {
	ID                uuid.UUID
	PersonID          uuid.UUID
	HeQualificationID *uuid.UUID
	HeSubjectID       *uuid.UUID
	CountryID         *uuid.UUID
	ProviderID        *uuid.UUID
	Class             string
	CompletionDate    *time.Time
	State             StateCode
}

func (q Qualification) ToEntity() Entity {
	e := NewEntity(EntityQualification, q.ID)
	if q.PersonID != uuid.Nil {
		e.Attributes[AttrPersonID] = q.PersonID
	}
	e.Attributes[AttrQualificationType] = QualificationTypeHigherEducation
	e.Set(AttrHeQualificationID, q.HeQualificationID)
	e.Set(AttrHeSubjectID, q.HeSubjectID)
	e.Set(AttrCountryID, q.CountryID)
	e.Set(AttrProviderID, q.ProviderID)
	setString(e, AttrClass, q.Class)
	e.Set(AttrCompletionDate, q.CompletionDate)
	e.Set(AttrStateCode, q.State)
	return e
}

func QualificationFromEntity(e Entity) Qualification {
	q := Qualification{
		ID:                e.ID,
		HeQualificationID: AttrUUID(e.Attributes, AttrHeQualificationID),
		HeSubjectID:       AttrUUID(e.Attributes, AttrHeSubjectID),
		CountryID:         AttrUUID(e.Attributes, AttrCountryID),
		ProviderID:        AttrUUID(e.Attributes, AttrProviderID),
		Class:             AttrString(e.Attributes, AttrClass),
		CompletionDate:    AttrTime(e.Attributes, AttrCompletionDate),
		State:             e.State(),
	}
	if person := AttrUUID(e.Attributes, AttrPersonID); person != nil {
		q.PersonID = *person
	}
	return q
}
