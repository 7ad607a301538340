package service

import (
	"context"
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

// UpdateTeacher reconciles an existing teacher's identity, ITT episode,
// trainee registration and qualification with the request.
//
// Ambiguous ITT episodes fail the call. Ambiguous registrations and
// qualifications are left alone and raise review tasks instead.
func (s *Service) UpdateTeacher(ctx context.Context, req *models.UpdateTeacherRequest) (res models.UpdateTeacherResult, err error) {
	start := time.Now()
	if req == nil {
		return res, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	req.Normalize()

	ctx, span := s.tracer.Start(ctx, tracer.SpanUpdateTeacher,
		tracer.String(tracer.AttrTeacherID, req.TeacherID.String()),
		tracer.String(tracer.AttrProvider, req.Itt.ProviderUkprn),
		tracer.String(tracer.AttrProgrammeType, string(req.Itt.ProgrammeType)),
	)
	defer func() { s.finish(span, string(models.OperationUpdate), start, res.FailedReasons.Strings(), err) }()

	if err := req.Validate(); err != nil {
		return res, err
	}

	records, lookup, err := s.loadForUpdate(ctx, req)
	if err != nil {
		return res, wrapStoreErr(err, "failed to load teacher")
	}
	if records.contact == nil {
		res = models.UpdateTeacherFailed(models.NewFailureReasons(models.TeacherNotFound))
		s.logRejected(ctx, models.OperationUpdate, res.FailedReasons.Strings(), "teacher_id", req.TeacherID)
		return res, nil
	}

	plan := planUpdate(req, records, lookup)
	if !plan.reasons.Empty() {
		s.logRejected(ctx, models.OperationUpdate, plan.reasons.Strings(), "teacher_id", req.TeacherID)
		return models.UpdateTeacherFailed(plan.reasons), nil
	}

	batch := plan.compose(req, lookup, requestcontext.Now(ctx), composer.WithTracer(s.tracer))
	if _, err := batch.Submit(ctx, s.store); err != nil {
		return res, wrapStoreErr(err, "failed to update teacher")
	}

	s.logger.InfoContext(ctx, "teacher updated",
		"teacher_id", req.TeacherID,
		"itt_created", plan.episode == nil,
		"review_tasks", batch.ReviewTasks(),
		"request_id", requestcontext.RequestID(ctx),
	)
	s.publish(ctx, models.OperationUpdate, req.TeacherID, records.contact.Trn, "", batch)

	return models.UpdateTeacherResult{Succeeded: true, TeacherID: req.TeacherID}, nil
}

// loadForUpdate reads the teacher, its child records and the request's
// reference data concurrently.
func (s *Service) loadForUpdate(ctx context.Context, req *models.UpdateTeacherRequest) (teacherRecords, referencedata.LookupResult, error) {
	var (
		records teacherRecords
		lookup  referencedata.LookupResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		contact, err := s.retrieveContact(gctx, req.TeacherID)
		records.contact = contact
		return err
	})
	g.Go(func() error {
		result, err := s.resolver.Lookup(gctx, lookupRequest(req.Itt, req.Qualification))
		lookup = result
		return err
	})
	g.Go(func() error {
		episodes, err := retrieveChildren(gctx, s.store, registrymodels.EntityIttEpisode, req.TeacherID, registrymodels.IttEpisodeFromEntity)
		records.episodes = episodes
		return err
	})
	g.Go(func() error {
		regs, err := retrieveChildren(gctx, s.store, registrymodels.EntityQtsRegistration, req.TeacherID, registrymodels.QtsRegistrationFromEntity)
		records.registrations = regs
		return err
	})
	if req.Qualification != nil {
		g.Go(func() error {
			quals, err := retrieveChildren(gctx, s.store, registrymodels.EntityQualification, req.TeacherID, registrymodels.QualificationFromEntity)
			records.qualifications = quals
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return teacherRecords{}, referencedata.LookupResult{}, err
	}
	return records, lookup, nil
}

// updatePlan is what an update will write, decided before anything is composed.
type updatePlan struct {
	reasons models.FailureReasons

	// episode is the ITT episode to update; nil means create one.
	episode             *registrymodels.IttEpisode
	otherProviderReview bool

	registration          *registrymodels.QtsRegistration
	multipleRegistrations bool

	qualification          *registrymodels.Qualification
	multipleQualifications bool
}

func planUpdate(req *models.UpdateTeacherRequest, records teacherRecords, lookup referencedata.LookupResult) updatePlan {
	var plan updatePlan
	addLookupFailures(&plan.reasons, lookup)

	programmeType := req.Itt.ProgrammeType
	switch {
	case programmeType.IsEarlyYears() && records.contact.EytsDate != nil:
		plan.reasons.Add(models.AlreadyHaveEytsDate)
	case !programmeType.IsEarlyYears() && records.contact.QtsDate != nil:
		plan.reasons.Add(models.AlreadyHaveQtsDate)
	}

	if lookup.IttProviderID != nil {
		providerID := *lookup.IttProviderID
		episode, reason := selection.SelectIttEpisode(records.episodes, programmeType, providerID)
		switch reason {
		case "":
			plan.episode = episode
			plan.reasons.Add(selection.CheckProgrammeTypeChange(episode.ProgrammeType, programmeType))
		case models.NoMatchingIttRecord:
			plan.otherProviderReview = hasIttWithOtherProvider(records.episodes, providerID)
		default:
			plan.reasons.Add(reason)
		}
	}

	registration, reason := selection.SelectQtsRegistration(records.registrations, programmeType, traineeStatuses(programmeType, lookup))
	switch reason {
	case "":
		plan.registration = registration
	case models.MultipleQtsRecords:
		plan.multipleRegistrations = true
	}

	if req.Qualification != nil {
		qual, reason := selection.SelectQualification(records.qualifications)
		plan.qualification = qual
		plan.multipleQualifications = reason == models.MultipleQualificationRecords
	}
	return plan
}

func (p updatePlan) compose(req *models.UpdateTeacherRequest, lookup referencedata.LookupResult, now time.Time, opts ...composer.Option) *composer.Batch {
	teacherID := req.TeacherID
	batch := composer.New(opts...)

	// identity upsert; blank fields are omitted so stored values survive
	batch.Update(registrymodels.Contact{
		ID:                      teacherID,
		FirstName:               req.FirstName,
		MiddleName:              req.MiddleName,
		LastName:                req.LastName,
		BirthDate:               req.BirthDate.Ptr(),
		Email:                   req.Email,
		NationalInsuranceNumber: req.NationalInsuranceNumber,
		Address:                 address(req.Address),
	}.ToEntity())

	if p.episode != nil {
		batch.Update(ittEpisode(p.episode.ID, uuid.Nil, req.Itt, lookup).ToEntity())
	} else {
		batch.Create(newIttEpisode(teacherID, req.Itt, lookup).ToEntity())
		if p.otherProviderReview {
			batch.FlagForReview(teacherID, composer.CategoryIttProviderMismatch,
				"ITT provider mismatch",
				"A new ITT record was created for provider "+req.Itt.ProviderUkprn+" but the teacher has ITT with another provider",
				now,
			)
		}
	}

	switch {
	case p.multipleRegistrations:
		batch.FlagForReview(teacherID, composer.CategoryMultipleQtsRecords,
			"Multiple QTS records",
			"The teacher has more than one trainee QTS record so none was updated",
			now,
		)
	case p.registration != nil:
		batch.Update(traineeRegistration(p.registration.ID, uuid.Nil, req.Itt.ProgrammeType, lookup).ToEntity())
	default:
		batch.Create(traineeRegistration(uuid.Nil, teacherID, req.Itt.ProgrammeType, lookup).ToEntity())
	}

	if req.Qualification != nil {
		switch {
		case p.multipleQualifications:
			batch.FlagForReview(teacherID, composer.CategoryMultipleQualifications,
				"Multiple qualifications",
				"The teacher has more than one higher education qualification so none was updated",
				now,
			)
		case p.qualification != nil:
			batch.Update(qualification(p.qualification.ID, uuid.Nil, req.Qualification, lookup).ToEntity())
		default:
			batch.Create(qualification(uuid.Nil, teacherID, req.Qualification, lookup).ToEntity())
		}
	}
	return batch
}
