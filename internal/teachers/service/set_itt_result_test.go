package service

import (
	"time"

	"github.com/google/uuid"

	registrymodels "trsync/internal/registry/models"
	"trsync/internal/teachers/models"
	dErrors "trsync/pkg/domain-errors"
	fixtures "trsync/pkg/testutil"
)

func (s *ServiceSuite) TestSetIttResult() {
	ref := fixtures.Reference
	assessed := time.Date(2025, 7, 15, 14, 45, 0, 0, time.UTC)
	awarded := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)

	trainee := func(programmeType registrymodels.ProgrammeType) teacherFixture {
		reg := registrymodels.QtsRegistration{ID: uuid.New()}
		if programmeType.IsEarlyYears() {
			reg.EarlyYearsStatusID = earlyYearsStatus(registrymodels.EarlyYearsStatusTrainee)
		} else {
			reg.TeacherStatusID = teacherStatus(registrymodels.TeacherStatusTrainee)
		}
		return teacherFixture{
			episodes: []registrymodels.IttEpisode{inTraining(ref.ProviderID, programmeType)},
			regs:     []registrymodels.QtsRegistration{reg},
		}
	}

	s.Run("outcome rules are checked before the registry is read", func() {
		cases := []struct {
			name    string
			outcome registrymodels.IttResult
			date    *time.Time
			want    models.FailureReason
		}{
			{"unknown outcome", "graduated", nil, models.InvalidOutcome},
			{"in training is not an outcome", registrymodels.IttResultInTraining, nil, models.InvalidOutcome},
			{"pass without a date", registrymodels.IttResultPass, nil, models.AssessmentDateRequired},
			{"fail with a date", registrymodels.IttResultFail, &assessed, models.AssessmentDateNotAllowed},
		}
		for _, tc := range cases {
			res, err := s.service.SetIttResult(s.ctx, uuid.New(), ref.ProviderUkprn, tc.outcome, tc.date)
			s.Require().NoError(err, tc.name)
			s.False(res.Succeeded, tc.name)
			s.Equal(tc.want, res.FailedReason, tc.name)
		}
		s.Zero(s.store.transactions)
	})

	s.Run("a pass awards qts and opens an induction", func() {
		teacherID := s.seed(trainee(registrymodels.ProgrammeCore))
		event := s.expectPublish()

		res, err := s.service.SetIttResult(s.ctx, teacherID, ref.ProviderUkprn, registrymodels.IttResultPass, &assessed)
		s.Require().NoError(err)
		s.Require().True(res.Succeeded)
		s.Require().NotNil(res.AwardDate)
		s.Equal(awarded, *res.AwardDate)
		s.Equal(1, s.store.transactions)

		episode := registrymodels.IttEpisodeFromEntity(s.children(registrymodels.EntityIttEpisode, teacherID)[0])
		s.Equal(registrymodels.IttResultPass, episode.Result)
		s.Equal(registrymodels.ProgrammeCore, episode.ProgrammeType)

		reg := registrymodels.QtsRegistrationFromEntity(s.children(registrymodels.EntityQtsRegistration, teacherID)[0])
		s.Equal(teacherStatus(registrymodels.TeacherStatusQualified), reg.TeacherStatusID)
		s.Equal(awarded, *reg.QtsDate)
		s.Equal(awarded, *s.contact(teacherID).QtsDate)

		inductions := s.children(registrymodels.EntityInduction, teacherID)
		s.Require().Len(inductions, 1)
		s.Equal(registrymodels.InductionRequiredToComplete, registrymodels.AttrString(inductions[0].Attributes, registrymodels.AttrInductionStatus))

		s.Equal(models.OperationSetIttResult, event.Operation)
		s.Equal("pass", event.Outcome)
		s.Equal("7654321", event.Trn)
	})

	s.Run("assessment only passes award the assessment status", func() {
		f := trainee(registrymodels.ProgrammeAssessmentOnlyRoute)
		f.episodes[0].Result = registrymodels.IttResultUnderAssessment
		f.regs[0].TeacherStatusID = teacherStatus(registrymodels.TeacherStatusAssessmentOnly)
		teacherID := s.seed(f)
		s.expectPublish()

		res, err := s.service.SetIttResult(s.ctx, teacherID, ref.ProviderUkprn, registrymodels.IttResultPass, &assessed)
		s.Require().NoError(err)
		s.Require().True(res.Succeeded)

		reg := registrymodels.QtsRegistrationFromEntity(s.children(registrymodels.EntityQtsRegistration, teacherID)[0])
		s.Equal(teacherStatus(registrymodels.TeacherStatusQualifiedAssessment), reg.TeacherStatusID)
		s.Len(s.children(registrymodels.EntityInduction, teacherID), 1)
	})

	s.Run("early years passes award eyts without an induction", func() {
		teacherID := s.seed(trainee(registrymodels.ProgrammeEYPostgraduate))
		s.expectPublish()

		res, err := s.service.SetIttResult(s.ctx, teacherID, ref.ProviderUkprn, registrymodels.IttResultPass, &assessed)
		s.Require().NoError(err)
		s.Require().True(res.Succeeded)

		reg := registrymodels.QtsRegistrationFromEntity(s.children(registrymodels.EntityQtsRegistration, teacherID)[0])
		s.Equal(earlyYearsStatus(registrymodels.EarlyYearsStatusAwarded), reg.EarlyYearsStatusID)
		s.Equal(awarded, *reg.EytsDate)
		s.Nil(reg.QtsDate)
		contact := s.contact(teacherID)
		s.Equal(awarded, *contact.EytsDate)
		s.Nil(contact.QtsDate)
		s.Empty(s.children(registrymodels.EntityInduction, teacherID))
	})

	s.Run("other outcomes only record the result", func() {
		teacherID := s.seed(trainee(registrymodels.ProgrammeCore))
		event := s.expectPublish()

		res, err := s.service.SetIttResult(s.ctx, teacherID, ref.ProviderUkprn, registrymodels.IttResultWithdrawn, nil)
		s.Require().NoError(err)
		s.True(res.Succeeded)
		s.Nil(res.AwardDate)

		episode := registrymodels.IttEpisodeFromEntity(s.children(registrymodels.EntityIttEpisode, teacherID)[0])
		s.Equal(registrymodels.IttResultWithdrawn, episode.Result)
		reg := registrymodels.QtsRegistrationFromEntity(s.children(registrymodels.EntityQtsRegistration, teacherID)[0])
		s.Equal(teacherStatus(registrymodels.TeacherStatusTrainee), reg.TeacherStatusID)
		s.Nil(s.contact(teacherID).QtsDate)
		s.Empty(s.children(registrymodels.EntityInduction, teacherID))
		s.Len(event.RecordIDs, 1)
	})

	s.Run("teachers holding qts cannot pass again", func() {
		f := trainee(registrymodels.ProgrammeCore)
		f.contact = registrymodels.Contact{FirstName: "Qualified", LastName: "Teacher", QtsDate: date(2019, 7, 1).Ptr()}
		teacherID := s.seed(f)

		res, err := s.service.SetIttResult(s.ctx, teacherID, ref.ProviderUkprn, registrymodels.IttResultFail, nil)
		s.Require().NoError(err)
		s.Equal(models.AlreadyHaveQtsDate, res.FailedReason)
		s.Zero(s.store.transactions)
	})

	s.Run("teachers holding eyts cannot pass an early years episode", func() {
		f := trainee(registrymodels.ProgrammeEYUndergraduate)
		f.contact = registrymodels.Contact{FirstName: "Early", LastName: "Years", EytsDate: date(2019, 7, 1).Ptr()}
		teacherID := s.seed(f)

		res, err := s.service.SetIttResult(s.ctx, teacherID, ref.ProviderUkprn, registrymodels.IttResultPass, &assessed)
		s.Require().NoError(err)
		s.Equal(models.AlreadyHaveEytsDate, res.FailedReason)
	})

	s.Run("failures are reported one at a time", func() {
		res, err := s.service.SetIttResult(s.ctx, uuid.New(), ref.ProviderUkprn, registrymodels.IttResultFail, nil)
		s.Require().NoError(err)
		s.Equal(models.TeacherNotFound, res.FailedReason)

		teacherID := s.seed(trainee(registrymodels.ProgrammeCore))
		res, err = s.service.SetIttResult(s.ctx, teacherID, "99999999", registrymodels.IttResultFail, nil)
		s.Require().NoError(err)
		s.Equal(models.IttProviderNotFound, res.FailedReason)

		res, err = s.service.SetIttResult(s.ctx, teacherID, ref.OtherProviderUkprn, registrymodels.IttResultFail, nil)
		s.Require().NoError(err)
		s.Equal(models.NoMatchingIttRecord, res.FailedReason)
		s.Zero(s.store.transactions)
	})

	s.Run("a pass needs the trainee registration", func() {
		f := trainee(registrymodels.ProgrammeCore)
		f.regs = nil
		teacherID := s.seed(f)

		res, err := s.service.SetIttResult(s.ctx, teacherID, ref.ProviderUkprn, registrymodels.IttResultPass, &assessed)
		s.Require().NoError(err)
		s.Equal(models.NoMatchingQtsRecord, res.FailedReason)
		s.Zero(s.store.transactions)
	})

	s.Run("finished episodes are not updated", func() {
		f := trainee(registrymodels.ProgrammeCore)
		f.episodes[0].Result = registrymodels.IttResultDeferred
		teacherID := s.seed(f)

		res, err := s.service.SetIttResult(s.ctx, teacherID, ref.ProviderUkprn, registrymodels.IttResultFail, nil)
		s.Require().NoError(err)
		s.Equal(models.NoMatchingIttRecord, res.FailedReason)
	})

	s.Run("missing identifiers are validation errors", func() {
		_, err := s.service.SetIttResult(s.ctx, uuid.Nil, ref.ProviderUkprn, registrymodels.IttResultFail, nil)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))

		_, err = s.service.SetIttResult(s.ctx, uuid.New(), " ", registrymodels.IttResultFail, nil)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}
