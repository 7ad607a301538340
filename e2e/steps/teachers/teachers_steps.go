package teachers

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body any) error
	PATCH(path string, body any) error
	PUT(path string, body any) error
	GetResponseField(field string) (any, error)
	GetTeacherID() string
	SetTeacherID(id string)
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
}

const (
	providerUkprn        = "10044534"
	unknownProviderUkprn = "99999999"
	subjectCode          = "100366"
	ittQualificationCode = "001"
)

// RegisterSteps registers teacher synchronization step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &teacherSteps{tc: tc}

	ctx.Step(`^I create teacher "([^"]*)" "([^"]*)" born "([^"]*)" on programme "([^"]*)"$`, steps.createTeacher)
	ctx.Step(`^I create teacher "([^"]*)" "([^"]*)" born "([^"]*)" with an unknown provider$`, steps.createTeacherUnknownProvider)
	ctx.Step(`^I save the teacher ID$`, steps.saveTeacherID)
	ctx.Step(`^I update the teacher to programme "([^"]*)"$`, steps.updateTeacher)
	ctx.Step(`^I record ITT outcome "([^"]*)" assessed on "([^"]*)"$`, steps.setIttOutcome)
	ctx.Step(`^I record ITT outcome "([^"]*)"$`, steps.setIttOutcomeWithoutDate)
	ctx.Step(`^I search for teachers named "([^"]*)" "([^"]*)" born "([^"]*)"$`, steps.findTeachers)
	ctx.Step(`^the failed reasons should include "([^"]*)"$`, steps.failedReasonsShouldInclude)
	ctx.Step(`^the response should list (\d+) teachers?$`, steps.shouldListTeachers)
}

type teacherSteps struct {
	tc TestContext
}

func itt(provider, programme string) map[string]any {
	return map[string]any{
		"provider_ukprn":         provider,
		"programme_type":         programme,
		"programme_start_date":   "2025-09-01",
		"programme_end_date":     "2026-07-31",
		"subject1":               subjectCode,
		"itt_qualification_code": ittQualificationCode,
		"age_range_from":         11,
		"age_range_to":           16,
	}
}

func (s *teacherSteps) create(firstName, lastName, birthDate string, episode map[string]any) error {
	return s.tc.POST("/teachers", map[string]any{
		"first_name": firstName,
		"last_name":  lastName,
		"birth_date": birthDate,
		"itt":        episode,
	})
}

func (s *teacherSteps) createTeacher(ctx context.Context, firstName, lastName, birthDate, programme string) error {
	return s.create(firstName, lastName, birthDate, itt(providerUkprn, programme))
}

func (s *teacherSteps) createTeacherUnknownProvider(ctx context.Context, firstName, lastName, birthDate string) error {
	return s.create(firstName, lastName, birthDate, itt(unknownProviderUkprn, "scitt"))
}

func (s *teacherSteps) saveTeacherID(ctx context.Context) error {
	id, err := s.tc.GetResponseField("teacher_id")
	if err != nil {
		return err
	}
	str, ok := id.(string)
	if !ok || str == "" {
		return fmt.Errorf("teacher_id is not a string: %v", id)
	}
	s.tc.SetTeacherID(str)
	return nil
}

func (s *teacherSteps) teacherPath(suffix string) (string, error) {
	id := s.tc.GetTeacherID()
	if id == "" {
		return "", fmt.Errorf("no teacher ID saved")
	}
	return "/teachers/" + id + suffix, nil
}

func (s *teacherSteps) updateTeacher(ctx context.Context, programme string) error {
	path, err := s.teacherPath("")
	if err != nil {
		return err
	}
	return s.tc.PATCH(path, map[string]any{"itt": itt(providerUkprn, programme)})
}

func (s *teacherSteps) setIttOutcome(ctx context.Context, outcome, assessedOn string) error {
	path, err := s.teacherPath("/itt-outcome")
	if err != nil {
		return err
	}
	body := map[string]any{
		"provider_ukprn": providerUkprn,
		"outcome":        outcome,
	}
	if assessedOn != "" {
		body["assessment_date"] = assessedOn
	}
	return s.tc.PUT(path, body)
}

func (s *teacherSteps) setIttOutcomeWithoutDate(ctx context.Context, outcome string) error {
	return s.setIttOutcome(ctx, outcome, "")
}

func (s *teacherSteps) findTeachers(ctx context.Context, firstName, lastName, birthDate string) error {
	return s.tc.POST("/teachers/find", map[string]any{
		"first_name": firstName,
		"last_name":  lastName,
		"birth_date": birthDate,
	})
}

func (s *teacherSteps) failedReasonsShouldInclude(ctx context.Context, reason string) error {
	var body struct {
		FailedReasons []string `json:"failed_reasons"`
	}
	if err := json.Unmarshal(s.tc.GetLastResponseBody(), &body); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if !slices.Contains(body.FailedReasons, reason) {
		return fmt.Errorf("expected failed reasons to include %s, got %v", reason, body.FailedReasons)
	}
	return nil
}

func (s *teacherSteps) shouldListTeachers(ctx context.Context, count int) error {
	var body struct {
		Teachers []json.RawMessage `json:"teachers"`
	}
	if err := json.Unmarshal(s.tc.GetLastResponseBody(), &body); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if len(body.Teachers) != count {
		return fmt.Errorf("expected %d teachers, got %d", count, len(body.Teachers))
	}
	return nil
}
