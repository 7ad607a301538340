package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"trsync/internal/matching"
	"trsync/internal/platform/privacy"
	"trsync/internal/platform/tracer"
	"trsync/internal/referencedata"
	registrymodels "trsync/internal/registry/models"
	"trsync/internal/teachers/composer"
	"trsync/internal/teachers/models"
	dErrors "trsync/pkg/domain-errors"
	"trsync/pkg/requestcontext"
)

// CreateTeacher adds a new teacher with a trainee registration and one ITT
// episode. A new teacher that matches an existing one is still created but
// gets a review task instead of a TRN.
//
// Every supplied reference that does not resolve is reported together; no
// write happens unless there are none.
func (s *Service) CreateTeacher(ctx context.Context, req *models.CreateTeacherRequest) (res models.CreateTeacherResult, err error) {
	start := time.Now()
	if req == nil {
		return res, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	req.Normalize()

	ctx, span := s.tracer.Start(ctx, tracer.SpanCreateTeacher,
		tracer.String(tracer.AttrProvider, req.Itt.ProviderUkprn),
		tracer.String(tracer.AttrProgrammeType, string(req.Itt.ProgrammeType)),
		tracer.String(tracer.AttrNino, tracer.HashIdentifier(req.NationalInsuranceNumber)),
	)
	defer func() { s.finish(span, string(models.OperationCreate), start, res.FailedReasons.Strings(), err) }()

	if err := req.Validate(); err != nil {
		return res, err
	}

	var (
		lookup    referencedata.LookupResult
		candidate *matching.Candidate
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		result, err := s.resolver.Lookup(gctx, lookupRequest(req.Itt, req.Qualification))
		lookup = result
		return err
	})
	g.Go(func() error {
		found, err := s.matcher.FindCandidate(gctx, identityOf(req), matching.CreateThreshold)
		candidate = found
		return err
	})
	if err := g.Wait(); err != nil {
		return res, wrapStoreErr(err, "failed to prepare teacher creation")
	}

	var reasons models.FailureReasons
	addLookupFailures(&reasons, lookup)
	if !reasons.Empty() {
		s.logRejected(ctx, models.OperationCreate, reasons.Strings(),
			"nino", privacy.MaskNino(req.NationalInsuranceNumber),
		)
		return models.CreateTeacherFailed(reasons), nil
	}

	batch := composer.New(composer.WithTracer(s.tracer))
	contactID := batch.Create(newContact(req).ToEntity())
	batch.Create(newIttEpisode(contactID, req.Itt, lookup).ToEntity())
	if req.Qualification != nil {
		batch.Create(qualification(uuid.Nil, contactID, req.Qualification, lookup).ToEntity())
	}
	batch.Create(traineeRegistration(uuid.Nil, contactID, req.Itt.ProgrammeType, lookup).ToEntity())
	if candidate != nil {
		batch.FlagDuplicate(contactID, *candidate, requestcontext.Now(ctx))
	} else {
		batch.AllocateTrn(contactID)
	}

	committed, err := batch.Submit(ctx, s.store)
	if err != nil {
		return res, wrapStoreErr(err, "failed to create teacher")
	}

	span.SetAttributes(tracer.String(tracer.AttrTeacherID, contactID.String()))
	if candidate != nil {
		s.metrics.IncrementDuplicates()
	}
	s.logger.InfoContext(ctx, "teacher created",
		"teacher_id", contactID,
		"trn", committed.Trn,
		"potential_duplicate", candidate != nil,
		"nino", privacy.MaskNino(req.NationalInsuranceNumber),
		"request_id", requestcontext.RequestID(ctx),
	)
	s.publish(ctx, models.OperationCreate, contactID, committed.Trn, "", batch)

	return models.CreateTeacherResult{
		Succeeded: true,
		TeacherID: contactID,
		Trn:       committed.Trn,
	}, nil
}

func identityOf(req *models.CreateTeacherRequest) matching.Identity {
	return matching.Identity{
		FirstName:               req.FirstName,
		MiddleName:              req.MiddleName,
		LastName:                req.LastName,
		BirthDate:               req.BirthDate.Ptr(),
		NationalInsuranceNumber: req.NationalInsuranceNumber,
		Email:                   req.Email,
	}
}

func newContact(req *models.CreateTeacherRequest) registrymodels.Contact {
	return registrymodels.Contact{
		FirstName:               req.FirstName,
		MiddleName:              req.MiddleName,
		LastName:                req.LastName,
		BirthDate:               req.BirthDate.Ptr(),
		Email:                   req.Email,
		NationalInsuranceNumber: req.NationalInsuranceNumber,
		Address:                 address(req.Address),
	}
}

func address(a *models.AddressRequest) *registrymodels.Address {
	if a == nil {
		return nil
	}
	return &registrymodels.Address{
		Line1:    a.Line1,
		Line2:    a.Line2,
		Line3:    a.Line3,
		City:     a.City,
		Postcode: a.Postcode,
		Country:  a.Country,
	}
}
