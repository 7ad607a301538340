package seeder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"trsync/internal/registry"
	"trsync/internal/registry/models"
	"trsync/pkg/platform/sentinel"
)

// namespace derives stable record ids, so seeding twice writes nothing new.
var namespace = uuid.MustParse("6f1c1f0e-7a43-4a70-9a38-2b8f0c5d4e11")

// Seeder populates a registry with reference data and demo teachers for
// local runs.
type Seeder struct {
	store  registry.Store
	logger *slog.Logger
}

// New creates a new seeder
func New(store registry.Store, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{store: store, logger: logger}
}

// ID is the id the seeder gives the record of entity keyed by key.
func ID(entity models.EntityName, key string) uuid.UUID {
	return uuid.NewSHA1(namespace, []byte(string(entity)+":"+key))
}

// SeedAll writes every missing seed record in one transaction.
func (s *Seeder) SeedAll(ctx context.Context) error {
	s.logger.Info("seeding demo data...")

	var pending []models.Request
	for _, e := range append(referenceData(), demoTeachers()...) {
		_, err := s.store.Retrieve(ctx, e.Name, e.ID)
		switch {
		case err == nil:
			continue
		case errors.Is(err, sentinel.ErrNotFound):
			pending = append(pending, models.CreateRequest{Entity: e})
		default:
			return fmt.Errorf("failed to check %s %s: %w", e.Name, e.ID, err)
		}
	}
	if len(pending) == 0 {
		s.logger.Info("demo data already present")
		return nil
	}

	if _, err := s.store.ExecuteTransaction(ctx, pending); err != nil {
		return fmt.Errorf("failed to seed registry: %w", err)
	}

	s.logger.Info("demo data seeded successfully",
		"records", len(pending),
	)
	return nil
}

func referenceData() []models.Entity {
	refs := []struct {
		entity models.EntityName
		key    string
		name   string
	}{
		{models.EntityAccount, "10044534", "South Coast SCITT"},
		{models.EntityAccount, "10005790", "Northern Teaching School Hub"},
		{models.EntityAccount, "10007140", "University of the Midlands"},
		{models.EntityCountry, "XK", "United Kingdom"},
		{models.EntityCountry, "IE", "Ireland"},
		{models.EntityIttSubject, "100366", "Computer science"},
		{models.EntityIttSubject, "100403", "Mathematics"},
		{models.EntityIttSubject, "100425", "Physics"},
		{models.EntityIttSubject, "100320", "English studies"},
		{models.EntityHeSubject, "100048", "Design"},
		{models.EntityHeSubject, "100403", "Mathematics"},
		{models.EntityHeQualification, "401", "Bachelor of Arts (BA)"},
		{models.EntityHeQualification, "402", "Bachelor of Science (BSc)"},
		{models.EntityIttQualification, "001", "Postgraduate Certificate in Education (PGCE)"},
		{models.EntityIttQualification, "008", "Bachelor of Education (BEd)"},
		{models.EntityTeacherStatus, models.TeacherStatusTrainee, "Trainee Teacher"},
		{models.EntityTeacherStatus, models.TeacherStatusAssessmentOnly, "Assessment Only Route candidate"},
		{models.EntityTeacherStatus, models.TeacherStatusQualified, "Qualified Teacher (trained)"},
		{models.EntityTeacherStatus, models.TeacherStatusQualifiedAssessment, "Qualified teacher (by virtue of achieving assessment only route)"},
		{models.EntityEarlyYearsStatus, models.EarlyYearsStatusTrainee, "Early Years Trainee"},
		{models.EntityEarlyYearsStatus, models.EarlyYearsStatusAwarded, "Early Years Teacher Status"},
	}

	out := make([]models.Entity, 0, len(refs))
	for _, r := range refs {
		out = append(out, models.Reference{
			Entity: r.entity,
			ID:     ID(r.entity, r.key),
			Key:    r.key,
			Name:   r.name,
		}.ToEntity())
	}
	return out
}

func demoTeachers() []models.Entity {
	date := func(y int, m time.Month, d int) *time.Time {
		t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		return &t
	}
	teachers := []models.Contact{
		{FirstName: "Alice", LastName: "Anderson", BirthDate: date(1988, 4, 2), Email: "alice@example.com", NationalInsuranceNumber: "AB123456C", Trn: "0900001", QtsDate: date(2012, 7, 31)},
		{FirstName: "Bob", LastName: "Brown", BirthDate: date(1991, 11, 19), Email: "bob@example.com", Trn: "0900002"},
		{FirstName: "Diana", LastName: "Davis", BirthDate: date(1985, 1, 23), NationalInsuranceNumber: "CE987654A", Trn: "0900003", EytsDate: date(2016, 8, 1)},
	}

	out := make([]models.Entity, 0, len(teachers))
	for _, c := range teachers {
		c.ID = ID(models.EntityContact, c.Trn)
		out = append(out, c.ToEntity())
	}
	return out
}
