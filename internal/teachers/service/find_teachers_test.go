package service

import (
	registrymodels "trsync/internal/registry/models"
	"trsync/internal/teachers/models"
	dErrors "trsync/pkg/domain-errors"
)

func (s *ServiceSuite) TestFindTeachers() {
	s.Run("returns teachers matching two fields", func() {
		match := s.seed(teacherFixture{contact: registrymodels.Contact{
			FirstName: "Jane",
			LastName:  "Doe",
			Email:     "jane.doe@example.com",
			Trn:       "1234567",
			QtsDate:   date(2016, 7, 1).Ptr(),
		}})
		s.seed(teacherFixture{contact: registrymodels.Contact{FirstName: "Jane", LastName: "Smith"}})
		s.seed(teacherFixture{contact: registrymodels.Contact{
			FirstName: "Jane", LastName: "Doe", State: registrymodels.StateInactive,
		}})

		got, err := s.service.FindTeachers(s.ctx, &models.FindTeachersRequest{
			FirstName: " Jane ",
			LastName:  "Doe",
			Email:     "Someone.Else@example.com",
		})
		s.Require().NoError(err)
		s.Require().Len(got, 1)
		s.Equal(match, got[0].TeacherID)
		s.Equal("1234567", got[0].Trn)
		s.ElementsMatch([]string{registrymodels.AttrFirstName, registrymodels.AttrLastName}, got[0].MatchedFields)
		s.True(got[0].HasQtsDate)
		s.False(got[0].HasEytsDate)
	})

	s.Run("one field finds nothing", func() {
		s.seed(teacherFixture{contact: registrymodels.Contact{FirstName: "Jane", LastName: "Doe"}})

		got, err := s.service.FindTeachers(s.ctx, &models.FindTeachersRequest{LastName: "Doe"})
		s.Require().NoError(err)
		s.Empty(got)
	})

	s.Run("malformed identifiers are rejected", func() {
		_, err := s.service.FindTeachers(s.ctx, &models.FindTeachersRequest{NationalInsuranceNumber: "not-a-nino"})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}
