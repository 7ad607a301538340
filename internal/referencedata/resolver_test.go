package referencedata

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"trsync/internal/referencedata/cache"
	"trsync/internal/referencedata/metrics"
	"trsync/internal/registry/models"
	"trsync/internal/registry/store"
	"trsync/pkg/testutil"
)

// countingStore counts RetrieveMultiple calls and can hold them until released.
type countingStore struct {
	*store.InMemory
	calls atomic.Int32
	gate  chan struct{}

	mu  sync.Mutex
	err error
}

func (s *countingStore) RetrieveMultiple(ctx context.Context, q models.Query) ([]models.Entity, error) {
	s.calls.Add(1)
	if s.gate != nil {
		<-s.gate
	}
	s.mu.Lock()
	err := s.err
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return s.InMemory.RetrieveMultiple(ctx, q)
}

func (s *countingStore) failWith(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

type ResolverSuite struct {
	suite.Suite
	store    *countingStore
	metrics  *metrics.Metrics
	resolver *Resolver
	ctx      context.Context
}

func TestResolverSuite(t *testing.T) {
	suite.Run(t, new(ResolverSuite))
}

func (s *ResolverSuite) SetupTest() {
	mem := store.NewInMemory()
	mem.Seed(testutil.ReferenceEntities()...)
	s.store = &countingStore{InMemory: mem}
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.resolver = New(s.store, cache.NewMemory(s.metrics), WithMetrics(s.metrics))
	s.ctx = context.Background()
}

func (s *ResolverSuite) TestResolve() {
	s.Run("active record resolves to its id", func() {
		id, err := s.resolver.Resolve(s.ctx, CategoryProvider, testutil.Reference.ProviderUkprn)
		s.Require().NoError(err)
		s.Require().NotNil(id)
		s.Equal(testutil.Reference.ProviderID, *id)
	})

	s.Run("status values resolve", func() {
		id, err := s.resolver.Resolve(s.ctx, CategoryTeacherStatus, models.TeacherStatusTrainee)
		s.Require().NoError(err)
		s.Require().NotNil(id)
		s.Equal(testutil.TeacherStatusIDs[models.TeacherStatusTrainee], *id)
	})

	s.Run("inactive record is never returned", func() {
		id, err := s.resolver.Resolve(s.ctx, CategoryIttSubject, testutil.Reference.RetiredSubjectCode)
		s.Require().NoError(err)
		s.Nil(id)
	})

	s.Run("unknown value is absent, not an error", func() {
		id, err := s.resolver.Resolve(s.ctx, CategoryCountry, "ZZ")
		s.Require().NoError(err)
		s.Nil(id)
	})

	s.Run("unknown category is an error", func() {
		_, err := s.resolver.Resolve(s.ctx, Category("planet"), "earth")
		s.Error(err)
	})
}

func (s *ResolverSuite) TestBlankValueDoesNotQuery() {
	id, err := s.resolver.Resolve(s.ctx, CategoryCountry, "   ")
	s.Require().NoError(err)
	s.Nil(id)
	s.Zero(s.store.calls.Load())
}

func (s *ResolverSuite) TestResolvedAtMostOncePerKey() {
	for range 3 {
		_, err := s.resolver.Resolve(s.ctx, CategoryCountry, testutil.Reference.CountryCode)
		s.Require().NoError(err)
		_, err = s.resolver.Resolve(s.ctx, CategoryCountry, "ZZ")
		s.Require().NoError(err)
	}
	s.Equal(int32(2), s.store.calls.Load(), "found and absent values are both memoized")
	s.Equal(4.0, promtestutil.ToFloat64(s.metrics.CacheHitsTotal.WithLabelValues("memory")))
}

func (s *ResolverSuite) TestConcurrentFirstAccessCoalesces() {
	s.store.gate = make(chan struct{})
	const callers = 16

	var mu sync.Mutex
	seen := make(map[uuid.UUID]int)
	done := make(chan *testutil.ConcurrentResult)
	go func() {
		done <- testutil.RunConcurrent(callers, func(int) error {
			id, err := s.resolver.Resolve(s.ctx, CategoryIttSubject, testutil.Reference.IttSubjectCode)
			if err != nil {
				return err
			}
			if id == nil {
				return errors.New("subject not resolved")
			}
			mu.Lock()
			seen[*id]++
			mu.Unlock()
			return nil
		})
	}()

	s.Require().Eventually(func() bool { return s.store.calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(s.store.gate)
	result := <-done

	s.Equal(int32(callers), result.Successes)
	s.Equal(int32(1), s.store.calls.Load())
	s.Equal(map[uuid.UUID]int{testutil.Reference.IttSubjectID: callers}, seen)
}

func (s *ResolverSuite) TestStoreErrorsAreNotCached() {
	s.store.failWith(errors.New("registry down"))
	_, err := s.resolver.Resolve(s.ctx, CategoryHeSubject, testutil.Reference.HeSubjectCode)
	s.Require().Error(err)

	s.store.failWith(nil)
	id, err := s.resolver.Resolve(s.ctx, CategoryHeSubject, testutil.Reference.HeSubjectCode)
	s.Require().NoError(err)
	s.Require().NotNil(id)
	s.Equal(testutil.Reference.HeSubjectID, *id)
}

func (s *ResolverSuite) TestLookup() {
	s.Run("resolves every supplied field", func() {
		res, err := s.resolver.Lookup(s.ctx, LookupRequest{
			IttProviderUkprn:         testutil.Reference.ProviderUkprn,
			IttSubject1Code:          testutil.Reference.IttSubjectCode,
			IttSubject2Code:          testutil.Reference.IttSubject2Code,
			QualificationCountryCode: testutil.Reference.CountryCode,
			HeQualificationCode:      testutil.Reference.HeQualificationCode,
			EarlyYearsStatus:         models.EarlyYearsStatusTrainee,
		})
		s.Require().NoError(err)
		s.Equal(testutil.Reference.ProviderID, *res.IttProviderID)
		s.Equal(testutil.Reference.IttSubjectID, *res.IttSubject1ID)
		s.Equal(testutil.Reference.IttSubject2ID, *res.IttSubject2ID)
		s.Nil(res.IttSubject3ID)
		s.Equal(testutil.Reference.CountryID, *res.QualificationCountryID)
		s.Equal(testutil.Reference.HeQualificationID, *res.HeQualificationID)
		s.Equal(testutil.EarlyYearsStatusIDs[models.EarlyYearsStatusTrainee], *res.EarlyYearsStatusID)
		s.False(res.Unresolved(FieldIttSubject3), "unsupplied field is not a failure")
	})

	s.Run("reports every unresolved supplied field", func() {
		res, err := s.resolver.Lookup(s.ctx, LookupRequest{
			IttProviderUkprn: "99999999",
			IttSubject1Code:  "nope",
			IttSubject2Code:  testutil.Reference.IttSubject2Code,
		})
		s.Require().NoError(err)
		s.True(res.Unresolved(FieldIttProvider))
		s.True(res.Unresolved(FieldIttSubject1))
		s.False(res.Unresolved(FieldIttSubject2))
	})

	s.Run("store failure fails the lookup", func() {
		s.store.failWith(errors.New("registry down"))
		defer s.store.failWith(nil)
		_, err := s.resolver.Lookup(s.ctx, LookupRequest{QualificationSubjectCode: "uncached"})
		s.Error(err)
	})
}
