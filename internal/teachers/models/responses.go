package models

import "time"

type CreateTeacherResponse struct {
	TeacherID string `json:"teacher_id"`
	Trn       string `json:"trn,omitempty"`
	// PendingReview is true when the contact was created as a potential
	// duplicate and no TRN was allocated.
	PendingReview bool `json:"pending_review"`
}

type UpdateTeacherResponse struct {
	TeacherID string `json:"teacher_id"`
}

type SetIttResultResponse struct {
	AwardDate *Date `json:"award_date,omitempty"`
}

type FailedResponse struct {
	FailedReasons FailureReasons `json:"failed_reasons"`
}

type TeacherMatchResponse struct {
	TeacherID          string   `json:"teacher_id"`
	Trn                string   `json:"trn,omitempty"`
	FirstName          string   `json:"first_name,omitempty"`
	MiddleName         string   `json:"middle_name,omitempty"`
	LastName           string   `json:"last_name,omitempty"`
	BirthDate          *Date    `json:"birth_date,omitempty"`
	MatchedFields      []string `json:"matched_fields"`
	HasActiveSanctions bool     `json:"has_active_sanctions"`
	HasQtsDate         bool     `json:"has_qts_date"`
	HasEytsDate        bool     `json:"has_eyts_date"`
}

type FindTeachersResponse struct {
	Teachers []TeacherMatchResponse `json:"teachers"`
}

func NewCreateTeacherResponse(r CreateTeacherResult) CreateTeacherResponse {
	return CreateTeacherResponse{
		TeacherID:     r.TeacherID.String(),
		Trn:           r.Trn,
		PendingReview: r.Trn == "",
	}
}

func NewSetIttResultResponse(r SetIttResultResult) SetIttResultResponse {
	return SetIttResultResponse{AwardDate: datePtr(r.AwardDate)}
}

func NewFindTeachersResponse(matches []TeacherMatch) FindTeachersResponse {
	out := FindTeachersResponse{Teachers: make([]TeacherMatchResponse, 0, len(matches))}
	for _, m := range matches {
		out.Teachers = append(out.Teachers, TeacherMatchResponse{
			TeacherID:          m.TeacherID.String(),
			Trn:                m.Trn,
			FirstName:          m.FirstName,
			MiddleName:         m.MiddleName,
			LastName:           m.LastName,
			BirthDate:          datePtr(m.BirthDate),
			MatchedFields:      m.MatchedFields,
			HasActiveSanctions: m.HasActiveSanctions,
			HasQtsDate:         m.HasQtsDate,
			HasEytsDate:        m.HasEytsDate,
		})
	}
	return out
}

func datePtr(t *time.Time) *Date {
	if t == nil {
		return nil
	}
	d := NewDate(*t)
	return &d
}
