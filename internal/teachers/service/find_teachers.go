package service

import (
	"context"
	"time"

	"trsync/internal/matching"
	"trsync/internal/platform/tracer"
	"trsync/internal/teachers/models"
	dErrors "trsync/pkg/domain-errors"
)

// FindTeachers returns every active teacher matching at least two of the
// supplied identity fields. Fewer than two supplied fields find nothing.
func (s *Service) FindTeachers(ctx context.Context, req *models.FindTeachersRequest) (_ []models.TeacherMatch, err error) {
	start := time.Now()
	if req == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	req.Normalize()

	ctx, span := s.tracer.Start(ctx, tracer.SpanFindTeachers,
		tracer.String(tracer.AttrNino, tracer.HashIdentifier(req.NationalInsuranceNumber)),
	)
	defer func() { s.finish(span, operationFind, start, nil, err) }()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	candidates, err := s.matcher.FindTeachers(ctx, matching.Identity{
		FirstName:               req.FirstName,
		MiddleName:              req.MiddleName,
		LastName:                req.LastName,
		BirthDate:               req.BirthDate.Ptr(),
		NationalInsuranceNumber: req.NationalInsuranceNumber,
		Email:                   req.Email,
	})
	if err != nil {
		return nil, wrapStoreErr(err, "failed to find teachers")
	}

	matches := make([]models.TeacherMatch, 0, len(candidates))
	for _, c := range candidates {
		fields := make([]string, len(c.MatchedFields))
		for i, f := range c.MatchedFields {
			fields[i] = string(f)
		}
		matches = append(matches, models.TeacherMatch{
			TeacherID:          c.Contact.ID,
			Trn:                c.Contact.Trn,
			FirstName:          c.Contact.FirstName,
			MiddleName:         c.Contact.MiddleName,
			LastName:           c.Contact.LastName,
			BirthDate:          c.Contact.BirthDate,
			MatchedFields:      fields,
			HasActiveSanctions: c.HasActiveSanctions,
			HasQtsDate:         c.HasQtsDate,
			HasEytsDate:        c.HasEytsDate,
		})
	}
	span.SetAttributes(tracer.Int64("matches", int64(len(matches))))
	return matches, nil
}
