package service

import (
	"github.com/google/uuid"

	registrymodels "trsync/internal/registry/models"
	"trsync/internal/teachers/composer"
	"trsync/internal/teachers/models"
	dErrors "trsync/pkg/domain-errors"
	fixtures "trsync/pkg/testutil"
)

func (s *ServiceSuite) updateRequest(teacherID uuid.UUID, programmeType registrymodels.ProgrammeType) *models.UpdateTeacherRequest {
	itt := s.ittRequest(programmeType)
	itt.Subject2 = fixtures.Reference.IttSubject2Code
	return &models.UpdateTeacherRequest{TeacherID: teacherID, Itt: itt}
}

func (s *ServiceSuite) traineeRegistration() registrymodels.QtsRegistration {
	return registrymodels.QtsRegistration{ID: uuid.New(), TeacherStatusID: teacherStatus(registrymodels.TeacherStatusTrainee)}
}

func (s *ServiceSuite) TestUpdateTeacher() {
	ref := fixtures.Reference

	s.Run("updates the single in-training episode at the provider", func() {
		episode := inTraining(ref.ProviderID, registrymodels.ProgrammeCore)
		reg := s.traineeRegistration()
		teacherID := s.seed(teacherFixture{
			episodes: []registrymodels.IttEpisode{episode},
			regs:     []registrymodels.QtsRegistration{reg},
		})
		event := s.expectPublish()

		res, err := s.service.UpdateTeacher(s.ctx, s.updateRequest(teacherID, registrymodels.ProgrammeSCITT))
		s.Require().NoError(err)
		s.Require().True(res.Succeeded)
		s.Equal(teacherID, res.TeacherID)

		episodes := s.children(registrymodels.EntityIttEpisode, teacherID)
		s.Require().Len(episodes, 1)
		updated := registrymodels.IttEpisodeFromEntity(episodes[0])
		s.Equal(episode.ID, updated.ID)
		s.Equal(registrymodels.ProgrammeSCITT, updated.ProgrammeType)
		s.Equal(ref.IttSubject2ID, *updated.Subject2ID)
		s.Equal(registrymodels.IttResultInTraining, updated.Result)
		s.Equal(teacherID, updated.PersonID)

		s.Len(s.children(registrymodels.EntityQtsRegistration, teacherID), 1)
		s.Empty(s.reviewTasks(teacherID))
		s.Equal(models.OperationUpdate, event.Operation)
		s.Equal("7654321", event.Trn)
	})

	s.Run("unknown teachers fail without writes", func() {
		res, err := s.service.UpdateTeacher(s.ctx, s.updateRequest(uuid.New(), registrymodels.ProgrammeCore))
		s.Require().NoError(err)
		s.False(res.Succeeded)
		s.Equal([]models.FailureReason{models.TeacherNotFound}, res.FailedReasons.List())
		s.Zero(s.store.transactions)
	})

	s.Run("inactive teachers are not found", func() {
		teacherID := s.seed(teacherFixture{contact: registrymodels.Contact{
			FirstName: "Gone", LastName: "Away", State: registrymodels.StateInactive,
		}})

		res, err := s.service.UpdateTeacher(s.ctx, s.updateRequest(teacherID, registrymodels.ProgrammeCore))
		s.Require().NoError(err)
		s.True(res.FailedReasons.Has(models.TeacherNotFound))
	})

	s.Run("creates an episode and flags other providers' ITT for review", func() {
		teacherID := s.seed(teacherFixture{
			episodes: []registrymodels.IttEpisode{inTraining(ref.OtherProviderID, registrymodels.ProgrammeCore)},
			regs:     []registrymodels.QtsRegistration{s.traineeRegistration()},
		})
		event := s.expectPublish()

		res, err := s.service.UpdateTeacher(s.ctx, s.updateRequest(teacherID, registrymodels.ProgrammeCore))
		s.Require().NoError(err)
		s.Require().True(res.Succeeded)

		s.Len(s.children(registrymodels.EntityIttEpisode, teacherID), 2)
		tasks := s.reviewTasks(teacherID)
		s.Require().Len(tasks, 1)
		s.Equal(composer.CategoryIttProviderMismatch, tasks[0].Category)
		s.Contains(tasks[0].Description, ref.ProviderUkprn)
		s.Equal(1, event.ReviewTasks)
	})

	s.Run("a first episode for a teacher needs no review", func() {
		teacherID := s.seed(teacherFixture{})
		s.expectPublish()

		res, err := s.service.UpdateTeacher(s.ctx, s.updateRequest(teacherID, registrymodels.ProgrammeCore))
		s.Require().NoError(err)
		s.Require().True(res.Succeeded)

		episodes := s.children(registrymodels.EntityIttEpisode, teacherID)
		s.Require().Len(episodes, 1)
		s.Equal(registrymodels.IttResultInTraining, registrymodels.IttEpisodeFromEntity(episodes[0]).Result)
		regs := s.children(registrymodels.EntityQtsRegistration, teacherID)
		s.Require().Len(regs, 1)
		s.Equal(teacherStatus(registrymodels.TeacherStatusTrainee), registrymodels.QtsRegistrationFromEntity(regs[0]).TeacherStatusID)
		s.Empty(s.reviewTasks(teacherID))
	})

	s.Run("several in-training episodes at the provider fail the update", func() {
		teacherID := s.seed(teacherFixture{episodes: []registrymodels.IttEpisode{
			inTraining(ref.ProviderID, registrymodels.ProgrammeCore),
			inTraining(ref.ProviderID, registrymodels.ProgrammeSCITT),
		}})

		res, err := s.service.UpdateTeacher(s.ctx, s.updateRequest(teacherID, registrymodels.ProgrammeCore))
		s.Require().NoError(err)
		s.Equal([]models.FailureReason{models.MultipleInTrainingIttRecords}, res.FailedReasons.List())
		s.Zero(s.store.transactions)
	})

	s.Run("teachers with qts cannot be updated onto a qts programme", func() {
		teacherID := s.seed(teacherFixture{contact: registrymodels.Contact{
			FirstName: "Qualified", LastName: "Teacher", QtsDate: date(2019, 7, 1).Ptr(),
		}})

		res, err := s.service.UpdateTeacher(s.ctx, s.updateRequest(teacherID, registrymodels.ProgrammeCore))
		s.Require().NoError(err)
		s.True(res.FailedReasons.Has(models.AlreadyHaveQtsDate))
	})

	s.Run("teachers with eyts cannot be updated onto an early years programme", func() {
		teacherID := s.seed(teacherFixture{contact: registrymodels.Contact{
			FirstName: "Early", LastName: "Years", EytsDate: date(2019, 7, 1).Ptr(),
		}})

		res, err := s.service.UpdateTeacher(s.ctx, s.updateRequest(teacherID, registrymodels.ProgrammeEYSchoolDirect))
		s.Require().NoError(err)
		s.True(res.FailedReasons.Has(models.AlreadyHaveEytsDate))
	})

	s.Run("rejects moving an episode into early years", func() {
		teacherID := s.seed(teacherFixture{
			episodes: []registrymodels.IttEpisode{inTraining(ref.ProviderID, registrymodels.ProgrammeCore)},
		})

		res, err := s.service.UpdateTeacher(s.ctx, s.updateRequest(teacherID, registrymodels.ProgrammeEYPostgraduate))
		s.Require().NoError(err)
		s.Equal([]models.FailureReason{models.CannotChangeProgrammeType}, res.FailedReasons.List())
	})

	s.Run("collects lookup failures with selection failures", func() {
		teacherID := s.seed(teacherFixture{contact: registrymodels.Contact{
			FirstName: "Qualified", LastName: "Teacher", QtsDate: date(2019, 7, 1).Ptr(),
		}})
		req := s.updateRequest(teacherID, registrymodels.ProgrammeCore)
		req.Itt.Subject3 = "nope"

		res, err := s.service.UpdateTeacher(s.ctx, req)
		s.Require().NoError(err)
		s.Equal([]models.FailureReason{models.AlreadyHaveQtsDate, models.Subject3NotFound}, res.FailedReasons.List())
	})

	s.Run("several trainee registrations raise a review task instead of failing", func() {
		teacherID := s.seed(teacherFixture{
			episodes: []registrymodels.IttEpisode{inTraining(ref.ProviderID, registrymodels.ProgrammeCore)},
			regs:     []registrymodels.QtsRegistration{s.traineeRegistration(), s.traineeRegistration()},
		})
		s.expectPublish()

		res, err := s.service.UpdateTeacher(s.ctx, s.updateRequest(teacherID, registrymodels.ProgrammeCore))
		s.Require().NoError(err)
		s.Require().True(res.Succeeded)

		s.Len(s.children(registrymodels.EntityQtsRegistration, teacherID), 2)
		tasks := s.reviewTasks(teacherID)
		s.Require().Len(tasks, 1)
		s.Equal(composer.CategoryMultipleQtsRecords, tasks[0].Category)
	})

	s.Run("qualifications are created, updated or flagged", func() {
		qualReq := &models.QualificationRequest{CountryCode: ref.CountryCode, Class: "upper_second"}

		// none: created
		teacherID := s.seed(teacherFixture{
			episodes: []registrymodels.IttEpisode{inTraining(ref.ProviderID, registrymodels.ProgrammeCore)},
		})
		s.expectPublish()
		req := s.updateRequest(teacherID, registrymodels.ProgrammeCore)
		req.Qualification = qualReq
		_, err := s.service.UpdateTeacher(s.ctx, req)
		s.Require().NoError(err)
		quals := s.children(registrymodels.EntityQualification, teacherID)
		s.Require().Len(quals, 1)
		s.Equal(ref.CountryID, *registrymodels.QualificationFromEntity(quals[0]).CountryID)

		// one: updated in place
		s.expectPublish()
		req.Qualification = &models.QualificationRequest{Class: "first_class_honours"}
		_, err = s.service.UpdateTeacher(s.ctx, req)
		s.Require().NoError(err)
		quals = s.children(registrymodels.EntityQualification, teacherID)
		s.Require().Len(quals, 1)
		q := registrymodels.QualificationFromEntity(quals[0])
		s.Equal("first_class_honours", q.Class)
		s.Equal(ref.CountryID, *q.CountryID)

		// several: review task
		s.store.Seed(registrymodels.Qualification{ID: uuid.New(), PersonID: teacherID, Class: "third"}.ToEntity())
		s.expectPublish()
		res, err := s.service.UpdateTeacher(s.ctx, req)
		s.Require().NoError(err)
		s.True(res.Succeeded)
		s.Len(s.children(registrymodels.EntityQualification, teacherID), 2)
		tasks := s.reviewTasks(teacherID)
		s.Require().Len(tasks, 1)
		s.Equal(composer.CategoryMultipleQualifications, tasks[0].Category)
	})

	s.Run("identity changes are written in the same batch", func() {
		teacherID := s.seed(teacherFixture{
			episodes: []registrymodels.IttEpisode{inTraining(ref.ProviderID, registrymodels.ProgrammeCore)},
			regs:     []registrymodels.QtsRegistration{s.traineeRegistration()},
		})
		s.expectPublish()

		req := s.updateRequest(teacherID, registrymodels.ProgrammeCore)
		req.LastName = "  Smith-Jones "
		req.Email = "John.Smith@Example.com"
		req.Address = &models.AddressRequest{Line1: "1 High Street", City: "Leeds", Postcode: "ls1 4ap"}

		res, err := s.service.UpdateTeacher(s.ctx, req)
		s.Require().NoError(err)
		s.Require().True(res.Succeeded)
		s.Equal(1, s.store.transactions)

		s.Require().NotEmpty(s.store.lastBatch)
		first, ok := s.store.lastBatch[0].(registrymodels.UpdateRequest)
		s.Require().True(ok, "the identity upsert leads the batch")
		s.Equal(registrymodels.EntityContact, first.Entity.Name)
		s.Equal(teacherID, first.Entity.ID)

		c := s.contact(teacherID)
		s.Equal("John", c.FirstName, "blank fields keep the stored value")
		s.Equal("Smith-Jones", c.LastName)
		s.Equal("john.smith@example.com", c.Email)
		s.Equal("7654321", c.Trn)
		s.Require().NotNil(c.Address)
		s.Equal("LS14AP", c.Address.Postcode)
		s.Equal("Leeds", c.Address.City)
	})

	s.Run("invalid identity fields are validation errors", func() {
		req := s.updateRequest(uuid.New(), registrymodels.ProgrammeCore)
		req.Email = "not-an-email"
		_, err := s.service.UpdateTeacher(s.ctx, req)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Zero(s.store.transactions)
	})

	s.Run("missing teacher id is a validation error", func() {
		_, err := s.service.UpdateTeacher(s.ctx, s.updateRequest(uuid.Nil, registrymodels.ProgrammeCore))
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}
