package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

type DomainErrorsSuite struct {
	suite.Suite
}

func TestDomainErrorsSuite(t *testing.T) {
	suite.Run(t, new(DomainErrorsSuite))
}

func (s *DomainErrorsSuite) TestError() {
	s.Run("prefers message", func() {
		err := &Error{Code: CodeNotFound, Message: "teacher not found"}
		s.Equal("teacher not found", err.Error())
	})

	s.Run("falls back to code", func() {
		err := &Error{Code: CodeUnavailable}
		s.Equal("registry_unavailable", err.Error())
	})
}

func (s *DomainErrorsSuite) TestIs() {
	s.Run("matches on code through a chain", func() {
		inner := New(CodeNotFound, "contact missing")
		wrapped := fmt.Errorf("retrieve contact: %w", inner)
		s.True(errors.Is(wrapped, &Error{Code: CodeNotFound}))
		s.False(errors.Is(wrapped, &Error{Code: CodeConflict}))
	})

	s.Run("never matches plain errors", func() {
		s.False((&Error{Code: CodeNotFound}).Is(errors.New("not_found")))
	})
}

func (s *DomainErrorsSuite) TestWrap() {
	s.Run("keeps the original domain code", func() {
		inner := New(CodeTimeout, "registry timed out")
		err := Wrap(inner, CodeInternal, "create teacher")
		s.True(HasCode(err, CodeTimeout))
		s.Equal("create teacher", err.Error())
		s.ErrorIs(err, inner)
	})

	s.Run("applies the code to infrastructure errors", func() {
		cause := errors.New("connection reset")
		err := Wrap(cause, CodeUnavailable, "submit batch")
		s.True(HasCode(err, CodeUnavailable))
		s.ErrorIs(err, cause)
	})
}

func (s *DomainErrorsSuite) TestInvalid() {
	err := Invalid("national_insurance_number", "national_insurance_number must be a valid national insurance number")
	s.True(HasCode(err, CodeValidation))

	wrapped := Wrap(err, CodeInternal, "update teacher")
	var de *Error
	s.Require().ErrorAs(wrapped, &de)
	s.Equal(CodeValidation, de.Code)
	s.Equal("national_insurance_number", de.Field, "wrapping keeps the field")
}

func (s *DomainErrorsSuite) TestRetryable() {
	s.True(Retryable(New(CodeUnavailable, "registry down")))
	s.True(Retryable(fmt.Errorf("submit batch: %w", New(CodeTimeout, "deadline"))))
	s.False(Retryable(New(CodeConflict, "trn already allocated")))
	s.False(Retryable(errors.New("connection reset")), "only coded errors are classified")
	s.False(Retryable(nil))
}

func (s *DomainErrorsSuite) TestCodeOf() {
	s.Equal(CodeNotFound, CodeOf(fmt.Errorf("retrieve contact: %w", New(CodeNotFound, "contact missing"))))
	s.Equal(Code(""), CodeOf(errors.New("boom")))
}

func (s *DomainErrorsSuite) TestHasCode() {
	s.False(HasCode(errors.New("boom"), CodeInternal))
	s.False(HasCode(nil, CodeInternal))
	s.True(HasCode(New(CodeValidation, "last_name is required"), CodeValidation))
}
