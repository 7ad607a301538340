package models

import (
	"encoding/json"
	"slices"
)

// FailureReason is one independent pre-transaction validation failure.
type FailureReason string

const (
	IttProviderNotFound           FailureReason = "itt_provider_not_found"
	Subject1NotFound              FailureReason = "subject1_not_found"
	Subject2NotFound              FailureReason = "subject2_not_found"
	Subject3NotFound              FailureReason = "subject3_not_found"
	IttQualificationNotFound      FailureReason = "itt_qualification_not_found"
	QualificationCountryNotFound  FailureReason = "qualification_country_not_found"
	QualificationSubjectNotFound  FailureReason = "qualification_subject_not_found"
	QualificationProviderNotFound FailureReason = "qualification_provider_not_found"
	QualificationNotFound         FailureReason = "qualification_not_found"
	TeacherStatusNotFound         FailureReason = "teacher_status_not_found"
	EarlyYearsStatusNotFound      FailureReason = "early_years_status_not_found"
	AlreadyHaveQtsDate            FailureReason = "already_have_qts_date"
	AlreadyHaveEytsDate           FailureReason = "already_have_eyts_date"
	NoMatchingIttRecord           FailureReason = "no_matching_itt_record"
	MultipleInTrainingIttRecords  FailureReason = "multiple_in_training_itt_records"
	NoMatchingQtsRecord           FailureReason = "no_matching_qts_record"
	MultipleQtsRecords            FailureReason = "multiple_qts_records"
	MultipleQualificationRecords  FailureReason = "multiple_qualification_records"
	CannotChangeProgrammeType     FailureReason = "cannot_change_programme_type"
	TeacherNotFound               FailureReason = "teacher_not_found"
	InvalidOutcome                FailureReason = "invalid_outcome"
	AssessmentDateRequired        FailureReason = "assessment_date_required"
	AssessmentDateNotAllowed      FailureReason = "assessment_date_not_allowed"
)

// FailureReasons is a set of failures accumulated before any write. The zero
// value is an empty set ready to use.
type FailureReasons struct {
	set map[FailureReason]struct{}
}

// NewFailureReasons returns a set holding reasons.
func NewFailureReasons(reasons ...FailureReason) FailureReasons {
	var f FailureReasons
	for _, r := range reasons {
		f.Add(r)
	}
	return f
}

func (f *FailureReasons) Add(reason FailureReason) {
	if reason == "" {
		return
	}
	if f.set == nil {
		f.set = make(map[FailureReason]struct{})
	}
	f.set[reason] = struct{}{}
}

func (f FailureReasons) Has(reason FailureReason) bool {
	_, ok := f.set[reason]
	return ok
}

func (f FailureReasons) Empty() bool {
	return len(f.set) == 0
}

func (f FailureReasons) Len() int {
	return len(f.set)
}

// List returns the reasons sorted, so output is stable across calls.
func (f FailureReasons) List() []FailureReason {
	out := make([]FailureReason, 0, len(f.set))
	for r := range f.set {
		out = append(out, r)
	}
	slices.Sort(out)
	return out
}

// Strings is List as plain strings, for logs and metrics labels.
func (f FailureReasons) Strings() []string {
	list := f.List()
	out := make([]string, len(list))
	for i, r := range list {
		out[i] = string(r)
	}
	return out
}

func (f FailureReasons) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.List())
}

func (f *FailureReasons) UnmarshalJSON(data []byte) error {
	var list []FailureReason
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*f = NewFailureReasons(list...)
	return nil
}
