package composer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"trsync/internal/matching"
	"trsync/internal/registry/models"
	"trsync/internal/registry/store"
	"trsync/pkg/platform/sentinel"
)

// recordingStore counts batch submissions and can reject them.
type recordingStore struct {
	*store.InMemory
	calls   int
	failErr error
}

func (r *recordingStore) ExecuteTransaction(ctx context.Context, requests []models.Request) ([]models.Response, error) {
	r.calls++
	if r.failErr != nil {
		return nil, r.failErr
	}
	return r.InMemory.ExecuteTransaction(ctx, requests)
}

type ComposerSuite struct {
	suite.Suite
	store *recordingStore
	ctx   context.Context
	due   time.Time
}

func TestComposerSuite(t *testing.T) {
	suite.Run(t, new(ComposerSuite))
}

func (s *ComposerSuite) SetupTest() {
	s.store = &recordingStore{InMemory: store.NewInMemory()}
	s.ctx = context.Background()
	s.due = time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
}

func (s *ComposerSuite) newContact() models.Contact {
	return models.Contact{ID: uuid.New(), FirstName: "Jane", LastName: "Doe"}
}

func (s *ComposerSuite) TestAllocatesTrnInTheSameBatch() {
	contact := s.newContact()
	b := New()
	contactID := b.Create(contact.ToEntity())
	b.Create(models.IttEpisode{PersonID: contactID, Result: models.IttResultInTraining}.ToEntity())
	b.AllocateTrn(contactID)
	b.AllocateTrn(contactID)

	s.Equal(4, b.Len())
	result, err := b.Submit(s.ctx, s.store)
	s.Require().NoError(err)

	s.Equal(1, s.store.calls)
	s.Equal("1000001", result.Trn)
	s.Len(result.Responses, 4)
	s.Equal(1, s.store.Count(models.EntityIttEpisode))
}

func (s *ComposerSuite) TestCreateAssignsMissingIDs() {
	b := New()
	id := b.Create(models.Qualification{PersonID: uuid.New()}.ToEntity())
	s.NotEqual(uuid.Nil, id)
	s.Equal([]uuid.UUID{id}, b.RecordIDs())
}

func (s *ComposerSuite) TestDuplicateRaisesReviewTaskInsteadOfTrn() {
	existing := s.newContact()
	s.store.Seed(existing.ToEntity())

	b := New()
	contactID := b.Create(s.newContact().ToEntity())
	b.FlagDuplicate(contactID, matching.Candidate{
		Contact:            existing,
		MatchedFields:      []matching.Field{matching.FieldFirstName, matching.FieldLastName, matching.FieldBirthDate},
		HasActiveSanctions: true,
		HasQtsDate:         true,
	}, s.due)

	result, err := b.Submit(s.ctx, s.store)
	s.Require().NoError(err)
	s.Empty(result.Trn)
	s.Equal(1, b.ReviewTasks())

	tasks := s.store.All(models.EntityReviewTask)
	s.Require().Len(tasks, 1)
	task := models.ReviewTaskFromEntity(tasks[0])
	s.Equal(contactID, task.RegardingID)
	s.Require().NotNil(task.PotentialDuplicateID)
	s.Equal(existing.ID, *task.PotentialDuplicateID)
	s.Equal(CategoryPotentialDuplicate, task.Category)
	s.Equal("Potential duplicate\nMatched on\n  - first name\n  - last name\n  - date of birth\nExisting record has active sanctions\nExisting record has a QTS date", task.Description)
	s.Require().NotNil(task.ScheduledEnd)
	s.True(s.due.Equal(*task.ScheduledEnd))
}

func (s *ComposerSuite) TestCancelledContextNeverReachesStore() {
	b := New()
	b.Create(s.newContact().ToEntity())

	ctx, cancel := context.WithCancel(s.ctx)
	cancel()
	_, err := b.Submit(ctx, s.store)

	s.ErrorIs(err, context.Canceled)
	s.Zero(s.store.calls)
	s.Zero(s.store.Count(models.EntityContact))
}

func (s *ComposerSuite) TestRejectedBatchLeavesNoPartialWrites() {
	existing := s.newContact()
	s.store.Seed(existing.ToEntity())

	b := New()
	b.Create(s.newContact().ToEntity())
	// conflicts with the seeded contact
	b.Create(existing.ToEntity())

	_, err := b.Submit(s.ctx, s.store)
	s.ErrorIs(err, sentinel.ErrConflict)
	s.Equal(1, s.store.Count(models.EntityContact))
}

func (s *ComposerSuite) TestStoreErrorsAreWrapped() {
	s.store.failErr = sentinel.ErrUnavailable
	b := New()
	b.Create(s.newContact().ToEntity())

	_, err := b.Submit(s.ctx, s.store)
	s.ErrorIs(err, sentinel.ErrUnavailable)
	s.Equal(1, s.store.calls)
}

func (s *ComposerSuite) TestEmptyBatchIsRejected() {
	_, err := New().Submit(s.ctx, s.store)
	s.Error(err)
	s.Zero(s.store.calls)
}

func (s *ComposerSuite) TestShortResponseIsAnError() {
	short := &shortStore{}
	b := New()
	b.Create(s.newContact().ToEntity())
	b.Create(s.newContact().ToEntity())

	_, err := b.Submit(s.ctx, short)
	s.ErrorContains(err, "got 1 responses for 2 requests")
}

func (s *ComposerSuite) TestRequestsReturnsACopy() {
	b := New()
	b.Create(s.newContact().ToEntity())
	reqs := b.Requests()
	reqs[0] = nil
	s.NotNil(b.Requests()[0])
}

type shortStore struct{}

func (shortStore) Retrieve(context.Context, models.EntityName, uuid.UUID) (*models.Entity, error) {
	return nil, errors.New("not implemented")
}

func (shortStore) RetrieveMultiple(context.Context, models.Query) ([]models.Entity, error) {
	return nil, errors.New("not implemented")
}

func (shortStore) ExecuteTransaction(context.Context, []models.Request) ([]models.Response, error) {
	return []models.Response{{}}, nil
}
