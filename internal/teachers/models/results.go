package models

import (
	"time"

	"github.com/google/uuid"
)

// CreateTeacherResult is either a success carrying the new contact and its
// TRN, or a failure carrying every reason found. TRN is empty when the new
// contact was flagged as a potential duplicate instead.
type CreateTeacherResult struct {
	Succeeded     bool
	TeacherID     uuid.UUID
	Trn           string
	FailedReasons FailureReasons
}

func CreateTeacherFailed(reasons FailureReasons) CreateTeacherResult {
	return CreateTeacherResult{FailedReasons: reasons}
}

type UpdateTeacherResult struct {
	Succeeded     bool
	TeacherID     uuid.UUID
	FailedReasons FailureReasons
}

func UpdateTeacherFailed(reasons FailureReasons) UpdateTeacherResult {
	return UpdateTeacherResult{FailedReasons: reasons}
}

// SetIttResultResult reports a single failure reason. AwardDate is set when
// the outcome awarded QTS or EYTS.
type SetIttResultResult struct {
	Succeeded    bool
	AwardDate    *time.Time
	FailedReason FailureReason
}

func SetIttResultFailed(reason FailureReason) SetIttResultResult {
	return SetIttResultResult{FailedReason: reason}
}

// TeacherMatch is one result of a teacher search.
type TeacherMatch struct {
	TeacherID          uuid.UUID
	Trn                string
	FirstName          string
	MiddleName         string
	LastName           string
	BirthDate          *time.Time
	MatchedFields      []string
	HasActiveSanctions bool
	HasQtsDate         bool
	HasEytsDate        bool
}
