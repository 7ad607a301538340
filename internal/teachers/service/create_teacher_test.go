package service

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/mock/gomock"

	registrymodels "trsync/internal/registry/models"
	"trsync/internal/teachers/composer"
	teachermetrics "trsync/internal/teachers/metrics"
	"trsync/internal/teachers/models"
	dErrors "trsync/pkg/domain-errors"
	"trsync/pkg/platform/sentinel"
	fixtures "trsync/pkg/testutil"
)

func (s *ServiceSuite) TestCreateTeacher() {
	s.Run("creates the teacher and allocates a trn in one batch", func() {
		event := s.expectPublish()

		res, err := s.service.CreateTeacher(s.ctx, s.createRequest())
		s.Require().NoError(err)
		s.Require().True(res.Succeeded)
		s.Equal("1000001", res.Trn)
		s.Equal(1, s.store.transactions)

		contact := s.contact(res.TeacherID)
		s.Equal("Jane", contact.FirstName)
		s.Equal("Doe", contact.LastName)
		s.Equal("QQ123456C", contact.NationalInsuranceNumber)
		s.Equal("1000001", contact.Trn)

		episodes := s.children(registrymodels.EntityIttEpisode, res.TeacherID)
		s.Require().Len(episodes, 1)
		ep := registrymodels.IttEpisodeFromEntity(episodes[0])
		s.Equal(registrymodels.IttResultInTraining, ep.Result)
		s.Equal(fixtures.Reference.ProviderID, *ep.EstablishmentID)
		s.Equal(fixtures.Reference.IttSubjectID, *ep.Subject1ID)
		s.Equal(fixtures.Reference.IttQualificationID, *ep.IttQualificationID)
		s.Nil(ep.Subject2ID)

		regs := s.children(registrymodels.EntityQtsRegistration, res.TeacherID)
		s.Require().Len(regs, 1)
		reg := registrymodels.QtsRegistrationFromEntity(regs[0])
		s.Equal(teacherStatus(registrymodels.TeacherStatusTrainee), reg.TeacherStatusID)
		s.Nil(reg.EarlyYearsStatusID)

		s.Empty(s.reviewTasks(res.TeacherID))
		s.Equal(models.OperationCreate, event.Operation)
		s.Equal(res.TeacherID, event.TeacherID)
		s.Equal("1000001", event.Trn)
		s.Equal("req-123", event.RequestID)
		s.Equal(s.now, event.OccurredAt)
		s.Len(event.RecordIDs, 3)
	})

	s.Run("early years programmes start on the early years trainee status", func() {
		s.expectPublish()
		req := s.createRequest()
		req.Itt.ProgrammeType = registrymodels.ProgrammeEYPostgraduate

		res, err := s.service.CreateTeacher(s.ctx, req)
		s.Require().NoError(err)
		s.Require().True(res.Succeeded)

		regs := s.children(registrymodels.EntityQtsRegistration, res.TeacherID)
		s.Require().Len(regs, 1)
		reg := registrymodels.QtsRegistrationFromEntity(regs[0])
		s.Equal(earlyYearsStatus(registrymodels.EarlyYearsStatusTrainee), reg.EarlyYearsStatusID)
		s.Nil(reg.TeacherStatusID)
	})

	s.Run("assessment only programmes start on the assessment only status", func() {
		s.expectPublish()
		req := s.createRequest()
		req.Itt.ProgrammeType = registrymodels.ProgrammeAssessmentOnlyRoute

		res, err := s.service.CreateTeacher(s.ctx, req)
		s.Require().NoError(err)

		reg := registrymodels.QtsRegistrationFromEntity(s.children(registrymodels.EntityQtsRegistration, res.TeacherID)[0])
		s.Equal(teacherStatus(registrymodels.TeacherStatusAssessmentOnly), reg.TeacherStatusID)
	})

	s.Run("writes the qualification with resolved references", func() {
		s.expectPublish()
		req := s.createRequest()
		req.Qualification = &models.QualificationRequest{
			ProviderUkprn:       fixtures.Reference.OtherProviderUkprn,
			CountryCode:         "xk",
			SubjectCode:         fixtures.Reference.HeSubjectCode,
			HeQualificationCode: fixtures.Reference.HeQualificationCode,
			Class:               "first_class_honours",
			CompletionDate:      date(2012, 7, 1),
		}

		res, err := s.service.CreateTeacher(s.ctx, req)
		s.Require().NoError(err)

		quals := s.children(registrymodels.EntityQualification, res.TeacherID)
		s.Require().Len(quals, 1)
		q := registrymodels.QualificationFromEntity(quals[0])
		s.Equal(fixtures.Reference.CountryID, *q.CountryID)
		s.Equal(fixtures.Reference.OtherProviderID, *q.ProviderID)
		s.Equal(fixtures.Reference.HeSubjectID, *q.HeSubjectID)
		s.Equal(fixtures.Reference.HeQualificationID, *q.HeQualificationID)
		s.Equal("first_class_honours", q.Class)
	})

	s.Run("reports every unresolved reference together", func() {
		req := s.createRequest()
		req.Itt.ProviderUkprn = "99999999"
		req.Itt.Subject1 = "nope"
		req.Itt.Subject2 = fixtures.Reference.RetiredSubjectCode

		res, err := s.service.CreateTeacher(s.ctx, req)
		s.Require().NoError(err)
		s.False(res.Succeeded)
		s.Equal([]models.FailureReason{
			models.IttProviderNotFound,
			models.Subject1NotFound,
			models.Subject2NotFound,
		}, res.FailedReasons.List())
		s.Zero(s.store.transactions)
		s.Zero(s.store.Count(registrymodels.EntityContact))
		s.Equal(1.0, testutil.ToFloat64(s.metrics.OperationsTotal.WithLabelValues("create_teacher", teachermetrics.OutcomeFailed)))
		s.Equal(1.0, testutil.ToFloat64(s.metrics.FailureReasonsTotal.WithLabelValues("create_teacher", "subject1_not_found")))
	})

	s.Run("unresolved qualification references are reasons too", func() {
		req := s.createRequest()
		req.Qualification = &models.QualificationRequest{CountryCode: "ZZ", SubjectCode: "nope"}

		res, err := s.service.CreateTeacher(s.ctx, req)
		s.Require().NoError(err)
		s.True(res.FailedReasons.Has(models.QualificationCountryNotFound))
		s.True(res.FailedReasons.Has(models.QualificationSubjectNotFound))
		s.Equal(2, res.FailedReasons.Len())
	})

	s.Run("a matching teacher gets a review task instead of a trn", func() {
		existing := s.seed(teacherFixture{contact: registrymodels.Contact{
			FirstName: "Jane",
			LastName:  "Doe",
			BirthDate: date(1990, 1, 1).Ptr(),
			QtsDate:   date(2015, 7, 1).Ptr(),
		}})
		event := s.expectPublish()

		res, err := s.service.CreateTeacher(s.ctx, s.createRequest())
		s.Require().NoError(err)
		s.Require().True(res.Succeeded)
		s.Empty(res.Trn)
		s.Empty(s.contact(res.TeacherID).Trn)

		tasks := s.reviewTasks(res.TeacherID)
		s.Require().Len(tasks, 1)
		s.Equal(composer.CategoryPotentialDuplicate, tasks[0].Category)
		s.Equal(existing, *tasks[0].PotentialDuplicateID)
		s.Contains(tasks[0].Description, "first name")
		s.Contains(tasks[0].Description, "date of birth")
		s.Contains(tasks[0].Description, "Existing record has a QTS date")
		s.Equal(s.now, *tasks[0].ScheduledEnd)
		s.Equal(1, event.ReviewTasks)
		s.Equal(1.0, testutil.ToFloat64(s.metrics.DuplicatesTotal))
	})

	s.Run("two matching fields are not enough to flag a duplicate", func() {
		s.seed(teacherFixture{contact: registrymodels.Contact{
			FirstName: "Jane",
			LastName:  "Doe",
			BirthDate: date(1990, 1, 2).Ptr(),
		}})
		s.expectPublish()

		res, err := s.service.CreateTeacher(s.ctx, s.createRequest())
		s.Require().NoError(err)
		s.Equal("1000001", res.Trn)
	})

	s.Run("invalid requests never reach the registry", func() {
		req := s.createRequest()
		req.LastName = "  "

		_, err := s.service.CreateTeacher(s.ctx, req)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Zero(s.store.transactions)
	})

	s.Run("registry rejections surface as internal errors", func() {
		s.store.failErr = sentinel.ErrConflict

		_, err := s.service.CreateTeacher(s.ctx, s.createRequest())
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
		s.ErrorIs(err, sentinel.ErrConflict)
		s.Zero(s.store.Count(registrymodels.EntityContact))
	})

	s.Run("an unavailable registry keeps its code", func() {
		s.store.failErr = sentinel.ErrUnavailable

		_, err := s.service.CreateTeacher(s.ctx, s.createRequest())
		s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
	})

	s.Run("publish failures do not fail the call", func() {
		s.mockPublisher.EXPECT().
			PublishTeacherSynchronized(gomock.Any(), gomock.Any()).
			Return(errors.New("broker down"))

		res, err := s.service.CreateTeacher(s.ctx, s.createRequest())
		s.Require().NoError(err)
		s.True(res.Succeeded)
		s.Equal(1.0, testutil.ToFloat64(s.metrics.PublishFailuresTotal))
	})
}
