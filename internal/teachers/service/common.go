package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"trsync/internal/matching"
	"trsync/internal/platform/tracer"
	"trsync/internal/referencedata"
	"trsync/internal/registry"
	registrymodels "trsync/internal/registry/models"
	"trsync/internal/selection"
	"trsync/internal/teachers/composer"
	teachermetrics "trsync/internal/teachers/metrics"
	"trsync/internal/teachers/models"
	"trsync/internal/teachers/ports"
	dErrors "trsync/pkg/domain-errors"
	"trsync/pkg/platform/sentinel"
	"trsync/pkg/requestcontext"
)

// Collaborator interfaces. The concrete resolver and matcher satisfy them;
// tests swap in stubs.

type Resolver interface {
	Lookup(ctx context.Context, req referencedata.LookupRequest) (referencedata.LookupResult, error)
	Resolve(ctx context.Context, category referencedata.Category, value string) (*uuid.UUID, error)
}

type Matcher interface {
	FindCandidate(ctx context.Context, identity matching.Identity, threshold int) (*matching.Candidate, error)
	FindTeachers(ctx context.Context, identity matching.Identity) ([]matching.Candidate, error)
}

// Service is the synchronization facade. It holds no per-call state; every
// operation reads the registry, decides, and commits at most one batch.
type Service struct {
	store     registry.Store
	resolver  Resolver
	matcher   Matcher
	logger    *slog.Logger
	tracer    tracer.Tracer
	publisher ports.EventPublisher
	metrics   *teachermetrics.Metrics
}

func New(store registry.Store, resolver Resolver, matcher Matcher, opts ...Option) *Service {
	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.tracer == nil {
		cfg.tracer = tracer.NewNoop()
	}
	return &Service{
		store:     store,
		resolver:  resolver,
		matcher:   matcher,
		logger:    cfg.logger,
		tracer:    cfg.tracer,
		publisher: cfg.publisher,
		metrics:   cfg.metrics,
	}
}

const operationFind = "find_teachers"

// Error wrapping helpers translate dependency errors to domain errors.

func wrapStoreErr(err error, action string) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return dErrors.Wrap(err, dErrors.CodeTimeout, action)
	case errors.Is(err, sentinel.ErrUnavailable):
		return dErrors.Wrap(err, dErrors.CodeUnavailable, action)
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, action)
	}
}

// lookupFailures maps each resolvable field to the reason reported when it
// was supplied but did not resolve.
var lookupFailures = []struct {
	field  referencedata.Field
	reason models.FailureReason
}{
	{referencedata.FieldIttProvider, models.IttProviderNotFound},
	{referencedata.FieldIttSubject1, models.Subject1NotFound},
	{referencedata.FieldIttSubject2, models.Subject2NotFound},
	{referencedata.FieldIttSubject3, models.Subject3NotFound},
	{referencedata.FieldIttQualification, models.IttQualificationNotFound},
	{referencedata.FieldQualificationProvider, models.QualificationProviderNotFound},
	{referencedata.FieldQualificationCountry, models.QualificationCountryNotFound},
	{referencedata.FieldQualificationSubject, models.QualificationSubjectNotFound},
	{referencedata.FieldHeQualification, models.QualificationNotFound},
	{referencedata.FieldTeacherStatus, models.TeacherStatusNotFound},
	{referencedata.FieldEarlyYearsStatus, models.EarlyYearsStatusNotFound},
}

func addLookupFailures(reasons *models.FailureReasons, lookup referencedata.LookupResult) {
	for _, f := range lookupFailures {
		if lookup.Unresolved(f.field) {
			reasons.Add(f.reason)
		}
	}
}

// lookupRequest lists every reference value a create or update call needs,
// including the trainee status for the programme's category.
func lookupRequest(itt models.IttRequest, qual *models.QualificationRequest) referencedata.LookupRequest {
	req := referencedata.LookupRequest{
		IttProviderUkprn:     itt.ProviderUkprn,
		IttSubject1Code:      itt.Subject1,
		IttSubject2Code:      itt.Subject2,
		IttSubject3Code:      itt.Subject3,
		IttQualificationCode: itt.IttQualificationCode,
	}
	status := selection.TraineeStatusValue(itt.ProgrammeType)
	if itt.ProgrammeType.IsEarlyYears() {
		req.EarlyYearsStatus = status
	} else {
		req.TeacherStatus = status
	}
	if qual != nil {
		req.QualificationProviderUkprn = qual.ProviderUkprn
		req.QualificationCountryCode = qual.CountryCode
		req.QualificationSubjectCode = qual.SubjectCode
		req.HeQualificationCode = qual.HeQualificationCode
	}
	return req
}

// traineeStatuses places the resolved trainee status in the slot matching the
// programme's category.
func traineeStatuses(programmeType registrymodels.ProgrammeType, lookup referencedata.LookupResult) selection.TraineeStatuses {
	switch {
	case programmeType.IsEarlyYears():
		return selection.TraineeStatuses{EarlyYearsTrainee: lookup.EarlyYearsStatusID}
	case programmeType.IsAssessmentOnly():
		return selection.TraineeStatuses{AssessmentOnly: lookup.TeacherStatusID}
	default:
		return selection.TraineeStatuses{Trainee: lookup.TeacherStatusID}
	}
}

func ittEpisode(id, personID uuid.UUID, itt models.IttRequest, lookup referencedata.LookupResult) registrymodels.IttEpisode {
	return registrymodels.IttEpisode{
		ID:                 id,
		PersonID:           personID,
		EstablishmentID:    lookup.IttProviderID,
		ProgrammeType:      itt.ProgrammeType,
		Result:             itt.Result,
		ProgrammeStartDate: itt.ProgrammeStartDate.Ptr(),
		ProgrammeEndDate:   itt.ProgrammeEndDate.Ptr(),
		Subject1ID:         lookup.IttSubject1ID,
		Subject2ID:         lookup.IttSubject2ID,
		Subject3ID:         lookup.IttSubject3ID,
		AgeRangeFrom:       itt.AgeRangeFrom,
		AgeRangeTo:         itt.AgeRangeTo,
		IttQualificationID: lookup.IttQualificationID,
		TraineeID:          itt.TraineeID,
	}
}

// newIttEpisode is a fresh episode; it starts in training unless the request
// says otherwise.
func newIttEpisode(personID uuid.UUID, itt models.IttRequest, lookup referencedata.LookupResult) registrymodels.IttEpisode {
	ep := ittEpisode(uuid.Nil, personID, itt, lookup)
	if ep.Result == "" {
		ep.Result = registrymodels.IttResultInTraining
	}
	return ep
}

func qualification(id, personID uuid.UUID, q *models.QualificationRequest, lookup referencedata.LookupResult) registrymodels.Qualification {
	return registrymodels.Qualification{
		ID:                id,
		PersonID:          personID,
		HeQualificationID: lookup.HeQualificationID,
		HeSubjectID:       lookup.QualificationSubjectID,
		CountryID:         lookup.QualificationCountryID,
		ProviderID:        lookup.QualificationProviderID,
		Class:             q.Class,
		CompletionDate:    q.CompletionDate.Ptr(),
	}
}

func traineeRegistration(id, personID uuid.UUID, programmeType registrymodels.ProgrammeType, lookup referencedata.LookupResult) registrymodels.QtsRegistration {
	reg := registrymodels.QtsRegistration{ID: id, PersonID: personID}
	if programmeType.IsEarlyYears() {
		reg.EarlyYearsStatusID = lookup.EarlyYearsStatusID
	} else {
		reg.TeacherStatusID = lookup.TeacherStatusID
	}
	return reg
}

// teacherRecords is a teacher's contact and child records, read in one pass.
type teacherRecords struct {
	contact        *registrymodels.Contact
	episodes       []registrymodels.IttEpisode
	registrations  []registrymodels.QtsRegistration
	qualifications []registrymodels.Qualification
}

// retrieveContact returns nil when the contact does not exist or is inactive.
func (s *Service) retrieveContact(ctx context.Context, teacherID uuid.UUID) (*registrymodels.Contact, error) {
	e, err := s.store.Retrieve(ctx, registrymodels.EntityContact, teacherID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("retrieve teacher %s: %w", teacherID, err)
	}
	contact := registrymodels.ContactFromEntity(*e)
	if contact.State != registrymodels.StateActive {
		return nil, nil
	}
	return &contact, nil
}

// retrieveChildren reads every record of entity belonging to personID. State
// is not filtered here; the selectors decide which records are eligible.
func retrieveChildren[T any](ctx context.Context, store registry.Store, entity registrymodels.EntityName, personID uuid.UUID, convert func(registrymodels.Entity) T) ([]T, error) {
	records, err := store.RetrieveMultiple(ctx, registrymodels.Query{
		Entity:   entity,
		Criteria: registrymodels.And(registrymodels.Eq(registrymodels.AttrPersonID, personID)),
	})
	if err != nil {
		return nil, fmt.Errorf("retrieve %s for %s: %w", entity, personID, err)
	}
	out := make([]T, 0, len(records))
	for _, r := range records {
		out = append(out, convert(r))
	}
	return out, nil
}

// hasIttWithOtherProvider reports an active episode delivered by anyone but providerID.
func hasIttWithOtherProvider(episodes []registrymodels.IttEpisode, providerID uuid.UUID) bool {
	for _, ep := range episodes {
		if ep.State == registrymodels.StateActive && ep.EstablishmentID != nil && *ep.EstablishmentID != providerID {
			return true
		}
	}
	return false
}

// publish announces a committed batch. Failures are logged and counted only.
func (s *Service) publish(ctx context.Context, op models.Operation, teacherID uuid.UUID, trn, outcome string, batch *composer.Batch) {
	s.metrics.AddReviewTasks(string(op), batch.ReviewTasks())
	if s.publisher == nil {
		return
	}
	event := models.TeacherSynchronized{
		Operation:   op,
		TeacherID:   teacherID,
		Trn:         trn,
		Outcome:     outcome,
		ReviewTasks: batch.ReviewTasks(),
		RecordIDs:   batch.RecordIDs(),
		RequestID:   requestcontext.RequestID(ctx),
		OccurredAt:  requestcontext.Now(ctx),
	}
	if err := s.publisher.PublishTeacherSynchronized(ctx, event); err != nil {
		s.metrics.IncrementPublishFailures()
		s.logger.WarnContext(ctx, "failed to publish synchronization event",
			"operation", op,
			"teacher_id", teacherID,
			"error", err,
		)
	}
}

// finish records metrics and span attributes for one facade call.
func (s *Service) finish(span tracer.Span, op string, start time.Time, reasons []string, err error) {
	outcome := teachermetrics.OutcomeSucceeded
	switch {
	case err != nil:
		outcome = teachermetrics.OutcomeError
	case len(reasons) > 0:
		outcome = teachermetrics.OutcomeFailed
		s.metrics.RecordFailureReasons(op, reasons)
		span.SetAttributes(tracer.String(tracer.AttrFailures, strings.Join(reasons, ",")))
	}
	s.metrics.ObserveOperation(op, outcome, start)
	span.End(err)
}

func (s *Service) logRejected(ctx context.Context, op models.Operation, reasons []string, attrs ...any) {
	args := append([]any{
		"operation", op,
		"failed_reasons", reasons,
		"request_id", requestcontext.RequestID(ctx),
	}, attrs...)
	s.logger.InfoContext(ctx, "synchronization rejected", args...)
}
