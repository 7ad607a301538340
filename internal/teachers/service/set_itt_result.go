package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"trsync/internal/platform/tracer"
	"trsync/internal/referencedata"
	registrymodels "trsync/internal/registry/models"
	"trsync/internal/selection"
	"trsync/internal/teachers/composer"
	"trsync/internal/teachers/models"
	dErrors "trsync/pkg/domain-errors"
	"trsync/pkg/requestcontext"
)

var ittOutcomes = map[registrymodels.IttResult]struct{}{
	registrymodels.IttResultPass:                   {},
	registrymodels.IttResultFail:                   {},
	registrymodels.IttResultWithdrawn:              {},
	registrymodels.IttResultDeferred:               {},
	registrymodels.IttResultDeferredForSkillsTests: {},
}

// checkOutcome enforces the outcome domain and that an assessment date is
// given exactly when the outcome is pass.
func checkOutcome(outcome registrymodels.IttResult, assessmentDate *time.Time) models.FailureReason {
	if _, ok := ittOutcomes[outcome]; !ok {
		return models.InvalidOutcome
	}
	if outcome == registrymodels.IttResultPass && assessmentDate == nil {
		return models.AssessmentDateRequired
	}
	if outcome != registrymodels.IttResultPass && assessmentDate != nil {
		return models.AssessmentDateNotAllowed
	}
	return ""
}

// awardedStatus is the status value a pass awards for a programme.
func awardedStatus(programmeType registrymodels.ProgrammeType) (referencedata.Category, string) {
	switch {
	case programmeType.IsEarlyYears():
		return referencedata.CategoryEarlyYearsStatus, registrymodels.EarlyYearsStatusAwarded
	case programmeType.IsAssessmentOnly():
		return referencedata.CategoryTeacherStatus, registrymodels.TeacherStatusQualifiedAssessment
	default:
		return referencedata.CategoryTeacherStatus, registrymodels.TeacherStatusQualified
	}
}

func traineeCategory(programmeType registrymodels.ProgrammeType) referencedata.Category {
	if programmeType.IsEarlyYears() {
		return referencedata.CategoryEarlyYearsStatus
	}
	return referencedata.CategoryTeacherStatus
}

// SetIttResult records the outcome of the teacher's in-progress ITT episode
// with providerUkprn. A pass also awards QTS or EYTS on the teacher's trainee
// registration and contact, and a QTS award opens an induction. The call
// reports at most one failure reason.
func (s *Service) SetIttResult(ctx context.Context, teacherID uuid.UUID, providerUkprn string, outcome registrymodels.IttResult, assessmentDate *time.Time) (res models.SetIttResultResult, err error) {
	start := time.Now()
	providerUkprn = strings.TrimSpace(providerUkprn)

	ctx, span := s.tracer.Start(ctx, tracer.SpanSetIttResult,
		tracer.String(tracer.AttrTeacherID, teacherID.String()),
		tracer.String(tracer.AttrProvider, providerUkprn),
		tracer.String(tracer.AttrOutcome, string(outcome)),
	)
	defer func() {
		var reasons []string
		if res.FailedReason != "" {
			reasons = []string{string(res.FailedReason)}
		}
		s.finish(span, string(models.OperationSetIttResult), start, reasons, err)
	}()

	if teacherID == uuid.Nil {
		return res, dErrors.New(dErrors.CodeValidation, "teacher_id is required")
	}
	if providerUkprn == "" {
		return res, dErrors.New(dErrors.CodeValidation, "provider_ukprn is required")
	}
	if reason := checkOutcome(outcome, assessmentDate); reason != "" {
		return s.rejectIttResult(ctx, teacherID, reason), nil
	}

	var (
		records    teacherRecords
		providerID *uuid.UUID
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		contact, err := s.retrieveContact(gctx, teacherID)
		records.contact = contact
		return err
	})
	g.Go(func() error {
		id, err := s.resolver.Resolve(gctx, referencedata.CategoryProvider, providerUkprn)
		providerID = id
		return err
	})
	g.Go(func() error {
		episodes, err := retrieveChildren(gctx, s.store, registrymodels.EntityIttEpisode, teacherID, registrymodels.IttEpisodeFromEntity)
		records.episodes = episodes
		return err
	})
	g.Go(func() error {
		regs, err := retrieveChildren(gctx, s.store, registrymodels.EntityQtsRegistration, teacherID, registrymodels.QtsRegistrationFromEntity)
		records.registrations = regs
		return err
	})
	if err := g.Wait(); err != nil {
		return res, wrapStoreErr(err, "failed to load teacher")
	}

	if records.contact == nil {
		return s.rejectIttResult(ctx, teacherID, models.TeacherNotFound), nil
	}
	if providerID == nil {
		return s.rejectIttResult(ctx, teacherID, models.IttProviderNotFound), nil
	}
	// an outcome carries no programme type, so an untyped episode is only
	// eligible while in training
	episode, reason := selection.SelectIttEpisode(records.episodes, "", *providerID)
	if reason != "" {
		return s.rejectIttResult(ctx, teacherID, reason), nil
	}

	programmeType := episode.ProgrammeType
	switch {
	case programmeType.IsEarlyYears() && records.contact.EytsDate != nil:
		return s.rejectIttResult(ctx, teacherID, models.AlreadyHaveEytsDate), nil
	case !programmeType.IsEarlyYears() && records.contact.QtsDate != nil:
		return s.rejectIttResult(ctx, teacherID, models.AlreadyHaveQtsDate), nil
	}

	batch := composer.New(composer.WithTracer(s.tracer))
	batch.Update(registrymodels.IttEpisode{ID: episode.ID, Result: outcome}.ToEntity())

	var awardDate *time.Time
	if outcome == registrymodels.IttResultPass {
		award, reason, err := s.award(ctx, batch, teacherID, programmeType, records.registrations, *assessmentDate)
		if err != nil {
			return res, wrapStoreErr(err, "failed to resolve awarded status")
		}
		if reason != "" {
			return s.rejectIttResult(ctx, teacherID, reason), nil
		}
		awardDate = &award
	}

	if _, err := batch.Submit(ctx, s.store); err != nil {
		return res, wrapStoreErr(err, "failed to set itt result")
	}

	s.logger.InfoContext(ctx, "itt result set",
		"teacher_id", teacherID,
		"outcome", outcome,
		"programme_type", programmeType,
		"awarded", awardDate != nil,
		"request_id", requestcontext.RequestID(ctx),
	)
	s.publish(ctx, models.OperationSetIttResult, teacherID, records.contact.Trn, string(outcome), batch)

	return models.SetIttResultResult{Succeeded: true, AwardDate: awardDate}, nil
}

// award adds the writes of a pass to batch: the awarded status and date on
// the trainee registration, the date on the contact and, outside early years,
// a new induction.
func (s *Service) award(ctx context.Context, batch *composer.Batch, teacherID uuid.UUID, programmeType registrymodels.ProgrammeType, regs []registrymodels.QtsRegistration, assessmentDate time.Time) (time.Time, models.FailureReason, error) {
	awardCategory, awardValue := awardedStatus(programmeType)
	category := traineeCategory(programmeType)

	var traineeID, awardedID *uuid.UUID
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		id, err := s.resolver.Resolve(gctx, category, selection.TraineeStatusValue(programmeType))
		traineeID = id
		return err
	})
	g.Go(func() error {
		id, err := s.resolver.Resolve(gctx, awardCategory, awardValue)
		awardedID = id
		return err
	})
	if err := g.Wait(); err != nil {
		return time.Time{}, "", err
	}

	missing := models.TeacherStatusNotFound
	if programmeType.IsEarlyYears() {
		missing = models.EarlyYearsStatusNotFound
	}
	if traineeID == nil || awardedID == nil {
		return time.Time{}, missing, nil
	}

	var statuses selection.TraineeStatuses
	switch {
	case programmeType.IsEarlyYears():
		statuses.EarlyYearsTrainee = traineeID
	case programmeType.IsAssessmentOnly():
		statuses.AssessmentOnly = traineeID
	default:
		statuses.Trainee = traineeID
	}
	reg, reason := selection.SelectQtsRegistration(regs, programmeType, statuses)
	if reason != "" {
		return time.Time{}, reason, nil
	}

	awardDate := models.NewDate(assessmentDate).Time
	update := registrymodels.QtsRegistration{ID: reg.ID}
	contact := registrymodels.Contact{ID: teacherID}
	if programmeType.IsEarlyYears() {
		update.EarlyYearsStatusID = awardedID
		update.EytsDate = &awardDate
		contact.EytsDate = &awardDate
	} else {
		update.TeacherStatusID = awardedID
		update.QtsDate = &awardDate
		contact.QtsDate = &awardDate
	}
	batch.Update(update.ToEntity())
	batch.Update(contact.ToEntity())
	if !programmeType.IsEarlyYears() {
		batch.Create(registrymodels.Induction{
			PersonID: teacherID,
			Status:   registrymodels.InductionRequiredToComplete,
		}.ToEntity())
	}
	return awardDate, "", nil
}

func (s *Service) rejectIttResult(ctx context.Context, teacherID uuid.UUID, reason models.FailureReason) models.SetIttResultResult {
	s.logRejected(ctx, models.OperationSetIttResult, []string{string(reason)}, "teacher_id", teacherID)
	return models.SetIttResultFailed(reason)
}
