package validation

import (
	"strings"
	"testing"

	dErrors "trsync/pkg/domain-errors"

	"github.com/stretchr/testify/suite"
)

// LimitsSuite covers the max and max+1 boundaries of the request limits.
type LimitsSuite struct {
	suite.Suite
}

func TestLimitsSuite(t *testing.T) {
	suite.Run(t, new(LimitsSuite))
}

func (s *LimitsSuite) TestCheckSliceCount() {
	s.Run("passes when count equals max", func() {
		s.NoError(CheckSliceCount("subjects", MaxSubjects, MaxSubjects))
	})

	s.Run("passes when count is zero", func() {
		s.NoError(CheckSliceCount("subjects", 0, MaxSubjects))
	})

	s.Run("fails when count exceeds max", func() {
		err := CheckSliceCount("subjects", MaxSubjects+1, MaxSubjects)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Contains(err.Error(), "too many subjects")
		s.Contains(err.Error(), "max 3 allowed")
	})
}

func (s *LimitsSuite) TestCheckStringLength() {
	s.Run("passes when length equals max", func() {
		s.NoError(CheckStringLength("first_name", strings.Repeat("a", MaxNameLength), MaxNameLength))
	})

	s.Run("passes for empty string", func() {
		s.NoError(CheckStringLength("first_name", "", MaxNameLength))
	})

	s.Run("fails when length exceeds max", func() {
		err := CheckStringLength("first_name", strings.Repeat("a", MaxNameLength+1), MaxNameLength)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Contains(err.Error(), "first_name exceeds max length of 100")
	})
}

func (s *LimitsSuite) TestCheckEachStringLength() {
	s.Run("passes when all elements are within limit", func() {
		values := []string{"Jane", "Q", strings.Repeat("a", MaxAddressLineLength)}
		s.NoError(CheckEachStringLength("address_line", values, MaxAddressLineLength))
	})

	s.Run("passes for nil slice", func() {
		s.NoError(CheckEachStringLength("address_line", nil, MaxAddressLineLength))
	})

	s.Run("fails on the first exceeding element", func() {
		values := []string{"1 High Street", strings.Repeat("a", MaxAddressLineLength+1)}
		err := CheckEachStringLength("address_line", values, MaxAddressLineLength)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Contains(err.Error(), "address_line exceeds max length of 200")
	})
}
