package referencedata

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"trsync/internal/platform/tracer"
)

// Field names one resolvable value of a synchronization request.
type Field string

const (
	FieldIttProvider           Field = "itt_provider"
	FieldIttSubject1           Field = "itt_subject1"
	FieldIttSubject2           Field = "itt_subject2"
	FieldIttSubject3           Field = "itt_subject3"
	FieldIttQualification      Field = "itt_qualification"
	FieldQualificationProvider Field = "qualification_provider"
	FieldQualificationCountry  Field = "qualification_country"
	FieldQualificationSubject  Field = "qualification_subject"
	FieldHeQualification       Field = "he_qualification"
	FieldTeacherStatus         Field = "teacher_status"
	FieldEarlyYearsStatus      Field = "early_years_status"
)

// LookupRequest carries every external value one synchronization call needs
// resolved. Blank fields are not supplied.
type LookupRequest struct {
	IttProviderUkprn           string
	IttSubject1Code            string
	IttSubject2Code            string
	IttSubject3Code            string
	IttQualificationCode       string
	QualificationProviderUkprn string
	QualificationCountryCode   string
	QualificationSubjectCode   string
	HeQualificationCode        string
	TeacherStatus              string
	EarlyYearsStatus           string
}

// LookupResult holds the resolved ids. It is built once per call and read-only afterwards.
type LookupResult struct {
	IttProviderID           *uuid.UUID
	IttSubject1ID           *uuid.UUID
	IttSubject2ID           *uuid.UUID
	IttSubject3ID           *uuid.UUID
	IttQualificationID      *uuid.UUID
	QualificationProviderID *uuid.UUID
	QualificationCountryID  *uuid.UUID
	QualificationSubjectID  *uuid.UUID
	HeQualificationID       *uuid.UUID
	TeacherStatusID         *uuid.UUID
	EarlyYearsStatusID      *uuid.UUID

	unresolved map[Field]bool
}

// Unresolved reports whether field was supplied but has no active record.
func (r LookupResult) Unresolved(field Field) bool {
	return r.unresolved[field]
}

type resolution struct {
	field    Field
	category Category
	value    string
	dst      **uuid.UUID
}

func (req LookupRequest) resolutions(res *LookupResult) []resolution {
	return []resolution{
		{FieldIttProvider, CategoryProvider, req.IttProviderUkprn, &res.IttProviderID},
		{FieldIttSubject1, CategoryIttSubject, req.IttSubject1Code, &res.IttSubject1ID},
		{FieldIttSubject2, CategoryIttSubject, req.IttSubject2Code, &res.IttSubject2ID},
		{FieldIttSubject3, CategoryIttSubject, req.IttSubject3Code, &res.IttSubject3ID},
		{FieldIttQualification, CategoryIttQualification, req.IttQualificationCode, &res.IttQualificationID},
		{FieldQualificationProvider, CategoryProvider, req.QualificationProviderUkprn, &res.QualificationProviderID},
		{FieldQualificationCountry, CategoryCountry, req.QualificationCountryCode, &res.QualificationCountryID},
		{FieldQualificationSubject, CategoryHeSubject, req.QualificationSubjectCode, &res.QualificationSubjectID},
		{FieldHeQualification, CategoryHeQualification, req.HeQualificationCode, &res.HeQualificationID},
		{FieldTeacherStatus, CategoryTeacherStatus, req.TeacherStatus, &res.TeacherStatusID},
		{FieldEarlyYearsStatus, CategoryEarlyYearsStatus, req.EarlyYearsStatus, &res.EarlyYearsStatusID},
	}
}

// Lookup resolves every supplied field concurrently and joins the results.
// Each goroutine writes only its own field. The first store failure cancels
// the remaining resolutions and is returned.
func (r *Resolver) Lookup(ctx context.Context, req LookupRequest) (result LookupResult, err error) {
	ctx, span := r.tracer.Start(ctx, tracer.SpanLookup)
	defer func() { span.End(err) }()

	jobs := req.resolutions(&result)
	missing := make([]bool, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	for i, job := range jobs {
		if job.value == "" {
			continue
		}
		g.Go(func() error {
			id, err := r.Resolve(gctx, job.category, job.value)
			if err != nil {
				return fmt.Errorf("lookup %s: %w", job.field, err)
			}
			*job.dst = id
			missing[i] = id == nil
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return LookupResult{}, err
	}

	result.unresolved = make(map[Field]bool)
	for i, job := range jobs {
		if missing[i] {
			result.unresolved[job.field] = true
		}
	}
	return result, nil
}
