package models

import (
	"time"

	"github.com/google/uuid"
)

// QTS registration attribute names.
const (
	AttrTeacherStatusID    = "teacher_status_id"
	AttrEarlyYearsStatusID = "early_years_status_id"
)

// Teacher status reference values.
const (
	TeacherStatusTrainee             = "211"
	TeacherStatusAssessmentOnly      = "212"
	TeacherStatusQualified           = "71"
	TeacherStatusQualifiedAssessment = "100"
)

// Early-years status reference values.
const (
	EarlyYearsStatusTrainee = "220"
	EarlyYearsStatusAwarded = "221"
)

// QtsRegistration links a contact to a teacher or early-years status.
type QtsRegistration struct {
	ID                 uuid.UUID
	PersonID           uuid.UUID
	TeacherStatusID    *uuid.UUID
	EarlyYearsStatusID *uuid.UUID
	QtsDate            *time.Time
	EytsDate           *time.Time
	State              StateCode
}

// StatusID returns whichever status reference is set, early-years first.
func (q QtsRegistration) StatusID() *uuid.UUID {
	if q.EarlyYearsStatusID != nil {
		return q.EarlyYearsStatusID
	}
	return q.TeacherStatusID
}

func (q QtsRegistration) ToEntity() Entity {
	e := NewEntity(EntityQtsRegistration, q.ID)
	if q.PersonID != uuid.Nil {
		e.Attributes[AttrPersonID] = q.PersonID
	}
	e.Set(AttrTeacherStatusID, q.TeacherStatusID)
	e.Set(AttrEarlyYearsStatusID, q.EarlyYearsStatusID)
	e.Set(AttrQtsDate, q.QtsDate)
	e.Set(AttrEytsDate, q.EytsDate)
	e.Set(AttrStateCode, q.State)
	return e
}

func QtsRegistrationFromEntity(e Entity) QtsRegistration {
	q := QtsRegistration{
		ID:                 e.ID,
		TeacherStatusID:    AttrUUID(e.Attributes, AttrTeacherStatusID),
		EarlyYearsStatusID: AttrUUID(e.Attributes, AttrEarlyYearsStatusID),
		QtsDate:            AttrTime(e.Attributes, AttrQtsDate),
		EytsDate:           AttrTime(e.Attributes, AttrEytsDate),
		State:              e.State(),
	}
	if person := AttrUUID(e.Attributes, AttrPersonID); person != nil {
		q.PersonID = *person
	}
	return q
}
