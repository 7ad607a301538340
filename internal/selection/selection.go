// Package selection picks which existing child record of a teacher an update
// applies to. Ambiguity is reported, never guessed away.
package selection

import (
	"github.com/google/uuid"

	registry "trsync/internal/registry/models"
	"trsync/internal/teachers/models"
)

// TraineeStatuses holds the registry ids of the canonical trainee statuses.
type TraineeStatuses struct {
	Trainee           *uuid.UUID // teacher status 211
	AssessmentOnly    *uuid.UUID // teacher status 212
	EarlyYearsTrainee *uuid.UUID // early-years status 220
}

// TraineeStatusValue returns the trainee status value for a programme category.
func TraineeStatusValue(programmeType registry.ProgrammeType) string {
	switch {
	case programmeType.IsEarlyYears():
		return registry.EarlyYearsStatusTrainee
	case programmeType.IsAssessmentOnly():
		return registry.TeacherStatusAssessmentOnly
	default:
		return registry.TeacherStatusTrainee
	}
}

// SelectIttEpisode picks the single episode an update for providerID applies to.
//
// An episode is eligible when it is active, delivered by providerID, and either
// in training or an assessment-only episode under assessment. An episode with
// no stored programme type is judged by programmeType.
func SelectIttEpisode(episodes []registry.IttEpisode, programmeType registry.ProgrammeType, providerID uuid.UUID) (*registry.IttEpisode, models.FailureReason) {
	var selected *registry.IttEpisode
	count := 0
	for i := range episodes {
		ep := &episodes[i]
		if !ittEligible(*ep, programmeType, providerID) {
			continue
		}
		count++
		selected = ep
	}
	switch count {
	case 0:
		return nil, models.NoMatchingIttRecord
	case 1:
		return selected, ""
	default:
		return nil, models.MultipleInTrainingIttRecords
	}
}

func ittEligible(ep registry.IttEpisode, programmeType registry.ProgrammeType, providerID uuid.UUID) bool {
	if ep.State != registry.StateActive {
		return false
	}
	if ep.EstablishmentID == nil || *ep.EstablishmentID != providerID {
		return false
	}
	if ep.Result == registry.IttResultInTraining {
		return true
	}
	episodeType := ep.ProgrammeType
	if episodeType == "" {
		episodeType = programmeType
	}
	return episodeType.IsAssessmentOnly() && ep.Result == registry.IttResultUnderAssessment
}

// SelectQtsRegistration picks the single active registration whose status is
// the trainee status for programmeType's category.
func SelectQtsRegistration(regs []registry.QtsRegistration, programmeType registry.ProgrammeType, statuses TraineeStatuses) (*registry.QtsRegistration, models.FailureReason) {
	expected, earlyYears := statuses.Trainee, false
	switch {
	case programmeType.IsEarlyYears():
		expected, earlyYears = statuses.EarlyYearsTrainee, true
	case programmeType.IsAssessmentOnly():
		expected = statuses.AssessmentOnly
	}
	if expected == nil {
		return nil, models.NoMatchingQtsRecord
	}

	var selected *registry.QtsRegistration
	count := 0
	for i := range regs {
		reg := &regs[i]
		if reg.State != registry.StateActive {
			continue
		}
		status := reg.TeacherStatusID
		if earlyYears {
			status = reg.EarlyYearsStatusID
		}
		if status == nil || *status != *expected {
			continue
		}
		count++
		selected = reg
	}
	switch count {
	case 0:
		return nil, models.NoMatchingQtsRecord
	case 1:
		return selected, ""
	default:
		return nil, models.MultipleQtsRecords
	}
}

// SelectQualification picks the qualification an update applies to. No active
// qualification means a new one is created and is not a failure.
func SelectQualification(quals []registry.Qualification) (*registry.Qualification, models.FailureReason) {
	var selected *registry.Qualification
	count := 0
	for i := range quals {
		q := &quals[i]
		if q.State != registry.StateActive {
			continue
		}
		count++
		selected = q
	}
	if count > 1 {
		return nil, models.MultipleQualificationRecords
	}
	return selected, ""
}

// CheckProgrammeTypeChange rejects moving an episode between the early-years
// and non-early-years categories.
func CheckProgrammeTypeChange(existing, requested registry.ProgrammeType) models.FailureReason {
	if existing == "" || requested == "" {
		return ""
	}
	if existing.IsEarlyYears() != requested.IsEarlyYears() {
		return models.CannotChangeProgrammeType
	}
	return ""
}
