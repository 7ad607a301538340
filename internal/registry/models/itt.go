package models

import (
	"time"

	"github.com/google/uuid"
)

// ITT episode attribute names.
const (
	AttrEstablishmentID    = "establishment_id"
	AttrProgrammeType      = "programme_type"
	AttrResult             = "result"
	AttrProgrammeStartDate = "programme_start_date"
	AttrProgrammeEndDate   = "programme_end_date"
	AttrSubject1ID         = "subject1_id"
	AttrSubject2ID         = "subject2_id"
	AttrSubject3ID         = "subject3_id"
	AttrAgeRangeFrom       = "age_range_from"
	AttrAgeRangeTo         = "age_range_to"
	AttrIttQualificationID = "itt_qualification_id"
	AttrTraineeID          = "trainee_id"
)

// ProgrammeType is the route an ITT episode follows.
type ProgrammeType string

const (
	ProgrammeApprenticeship           ProgrammeType = "apprenticeship"
	ProgrammeAssessmentOnlyRoute      ProgrammeType = "assessment_only_route"
	ProgrammeCore                     ProgrammeType = "core"
	ProgrammeCoreFlexible             ProgrammeType = "core_flexible"
	ProgrammeEYAssessmentOnly         ProgrammeType = "early_years_assessment_only"
	ProgrammeEYPostgraduate           ProgrammeType = "early_years_postgraduate"
	ProgrammeEYSchoolDirect           ProgrammeType = "early_years_school_direct"
	ProgrammeEYUndergraduate          ProgrammeType = "early_years_undergraduate"
	ProgrammeFutureTeachingScholars   ProgrammeType = "future_teaching_scholars"
	ProgrammeGraduateTeacherProgramme ProgrammeType = "graduate_teacher_programme"
	ProgrammeHighPotentialITT         ProgrammeType = "high_potential_itt"
	ProgrammeInternationalQTS         ProgrammeType = "international_qts"
	ProgrammeLicensedTeacherProgramme ProgrammeType = "licensed_teacher_programme"
	ProgrammeProviderLedPostgrad      ProgrammeType = "provider_led_postgrad"
	ProgrammeProviderLedUndergrad     ProgrammeType = "provider_led_undergrad"
	ProgrammeSchoolDirectSalaried     ProgrammeType = "school_direct_salaried"
	ProgrammeSchoolDirectTraining     ProgrammeType = "school_direct_training"
	ProgrammeSCITT                    ProgrammeType = "scitt"
	ProgrammeTeachFirst               ProgrammeType = "teach_first"
	ProgrammeUndergraduateOptIn       ProgrammeType = "undergraduate_opt_in"
)

var programmeTypes = map[ProgrammeType]struct{}{
	ProgrammeApprenticeship:           {},
	ProgrammeAssessmentOnlyRoute:      {},
	ProgrammeCore:                     {},
	ProgrammeCoreFlexible:             {},
	ProgrammeEYAssessmentOnly:         {},
	ProgrammeEYPostgraduate:           {},
	ProgrammeEYSchoolDirect:           {},
	ProgrammeEYUndergraduate:          {},
	ProgrammeFutureTeachingScholars:   {},
	ProgrammeGraduateTeacherProgramme: {},
	ProgrammeHighPotentialITT:         {},
	ProgrammeInternationalQTS:         {},
	ProgrammeLicensedTeacherProgramme: {},
	ProgrammeProviderLedPostgrad:      {},
	ProgrammeProviderLedUndergrad:     {},
	ProgrammeSchoolDirectSalaried:     {},
	ProgrammeSchoolDirectTraining:     {},
	ProgrammeSCITT:                    {},
	ProgrammeTeachFirst:               {},
	ProgrammeUndergraduateOptIn:       {},
}

// IsValid reports whether p is a known programme type.
func (p ProgrammeType) IsValid() bool {
	_, ok := programmeTypes[p]
	return ok
}

// IsEarlyYears reports whether the programme leads to EYTS rather than QTS.
func (p ProgrammeType) IsEarlyYears() bool {
	switch p {
	case ProgrammeEYAssessmentOnly, ProgrammeEYPostgraduate,
		ProgrammeEYSchoolDirect, ProgrammeEYUndergraduate:
		return true
	}
	return false
}

// IsAssessmentOnly reports whether the programme is the QTS assessment-only route.
func (p ProgrammeType) IsAssessmentOnly() bool {
	return p == ProgrammeAssessmentOnlyRoute
}

// IttResult is the outcome state of an ITT episode.
type IttResult string

const (
	IttResultInTraining             IttResult = "in_training"
	IttResultUnderAssessment        IttResult = "under_assessment"
	IttResultPass                   IttResult = "pass"
	IttResultFail                   IttResult = "fail"
	IttResultWithdrawn              IttResult = "withdrawn"
	IttResultDeferred               IttResult = "deferred"
	IttResultDeferredForSkillsTests IttResult = "deferred_for_skills_tests"
)

// IttEpisode is one initial teacher training episode of a contact.
type IttEpisode struct {
	ID                 uuid.UUID
	PersonID           uuid.UUID
	EstablishmentID    *uuid.UUID
	ProgrammeType      ProgrammeType
	Result             IttResult
	ProgrammeStartDate *time.Time
	ProgrammeEndDate   *time.Time
	Subject1ID         *uuid.UUID
	Subject2ID         *uuid.UUID
	Subject3ID         *uuid.UUID
	AgeRangeFrom       *int
	AgeRangeTo         *int
	IttQualificationID *uuid.UUID
	TraineeID          string
	State              StateCode
}

// ToEntity maps the episode to registry attributes, omitting unset optional values.
func (i IttEpisode) ToEntity() Entity {
	e := NewEntity(EntityIttEpisode, i.ID)
	if i.PersonID != uuid.Nil {
		e.Attributes[AttrPersonID] = i.PersonID
	}
	e.Set(AttrEstablishmentID, i.EstablishmentID)
	setString(e, AttrProgrammeType, string(i.ProgrammeType))
	setString(e, AttrResult, string(i.Result))
	e.Set(AttrProgrammeStartDate, i.ProgrammeStartDate)
	e.Set(AttrProgrammeEndDate, i.ProgrammeEndDate)
	e.Set(AttrSubject1ID, i.Subject1ID)
	e.Set(AttrSubject2ID, i.Subject2ID)
	e.Set(AttrSubject3ID, i.Subject3ID)
	e.Set(AttrAgeRangeFrom, i.AgeRangeFrom)
	e.Set(AttrAgeRangeTo, i.AgeRangeTo)
	e.Set(AttrIttQualificationID, i.IttQualificationID)
	setString(e, AttrTraineeID, i.TraineeID)
	e.Set(AttrStateCode, i.State)
	return e
}

// IttEpisodeFromEntity converts a registry record into an IttEpisode.
func IttEpisodeFromEntity(e Entity) IttEpisode {
	ep := IttEpisode{
		ID:                 e.ID,
		EstablishmentID:    AttrUUID(e.Attributes, AttrEstablishmentID),
		ProgrammeType:      ProgrammeType(AttrString(e.Attributes, AttrProgrammeType)),
		Result:             IttResult(AttrString(e.Attributes, AttrResult)),
		ProgrammeStartDate: AttrTime(e.Attributes, AttrProgrammeStartDate),
		ProgrammeEndDate:   AttrTime(e.Attributes, AttrProgrammeEndDate),
		Subject1ID:         AttrUUID(e.Attributes, AttrSubject1ID),
		Subject2ID:         AttrUUID(e.Attributes, AttrSubject2ID),
		Subject3ID:         AttrUUID(e.Attributes, AttrSubject3ID),
		AgeRangeFrom:       AttrIntPtr(e.Attributes, AttrAgeRangeFrom),
		AgeRangeTo:         AttrIntPtr(e.Attributes, AttrAgeRangeTo),
		IttQualificationID: AttrUUID(e.Attributes, AttrIttQualificationID),
		TraineeID:          AttrString(e.Attributes, AttrTraineeID),
		State:              e.State(),
	}
	if person := AttrUUID(e.Attributes, AttrPersonID); person != nil {
		ep.PersonID = *person
	}
	return ep
}
