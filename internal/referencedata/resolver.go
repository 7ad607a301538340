// Package referencedata resolves external reference codes (provider UKPRN,
// subject, country and qualification codes, status values) to registry ids.
package referencedata

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"trsync/internal/platform/tracer"
	"trsync/internal/referencedata/cache"
	"trsync/internal/referencedata/metrics"
	"trsync/internal/registry"
	"trsync/internal/registry/models"
)

// Category is a kind of reference data.
type Category string

const (
	CategoryProvider         Category = "provider"
	CategoryCountry          Category = "country"
	CategoryIttSubject       Category = "itt_subject"
	CategoryHeSubject        Category = "he_subject"
	CategoryHeQualification  Category = "he_qualification"
	CategoryIttQualification Category = "itt_qualification"
	CategoryTeacherStatus    Category = "teacher_status"
	CategoryEarlyYearsStatus Category = "early_years_status"
)

var categoryEntities = map[Category]models.EntityName{
	CategoryProvider:         models.EntityAccount,
	CategoryCountry:          models.EntityCountry,
	CategoryIttSubject:       models.EntityIttSubject,
	CategoryHeSubject:        models.EntityHeSubject,
	CategoryHeQualification:  models.EntityHeQualification,
	CategoryIttQualification: models.EntityIttQualification,
	CategoryTeacherStatus:    models.EntityTeacherStatus,
	CategoryEarlyYearsStatus: models.EntityEarlyYearsStatus,
}

// Entity returns the registry entity a category is stored as.
func (c Category) Entity() (models.EntityName, bool) {
	e, ok := categoryEntities[c]
	return e, ok
}

// Cache is the get-or-populate primitive the resolver memoizes through.
type Cache interface {
	GetOrPopulate(ctx context.Context, key string, populate cache.Populate) (cache.Entry, error)
}

// Resolver resolves reference values against the registry, memoizing every
// (category, value) pair in the injected cache.
type Resolver struct {
	store   registry.Store
	cache   Cache
	logger  *slog.Logger
	tracer  tracer.Tracer
	metrics *metrics.Metrics
}

type Option func(*Resolver)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(r *Resolver) {
		r.tracer = t
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Resolver) {
		r.metrics = m
	}
}

// New builds a resolver. A nil cache falls back to a private in-memory cache.
func New(store registry.Store, c Cache, opts ...Option) *Resolver {
	r := &Resolver{store: store, cache: c}
	for _, opt := range opts {
		opt(r)
	}
	if r.cache == nil {
		r.cache = cache.NewMemory(r.metrics)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.tracer == nil {
		r.tracer = tracer.NewNoop()
	}
	return r
}

// Key is the cache key for a (category, value) pair.
func Key(category Category, value string) string {
	return string(category) + ":" + value
}

// Resolve returns the id of the active record for value, or nil when there is
// none. A blank value resolves to nil without touching the store. Store
// failures are returned; absence is not an error.
func (r *Resolver) Resolve(ctx context.Context, category Category, value string) (*uuid.UUID, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	entity, ok := category.Entity()
	if !ok {
		return nil, fmt.Errorf("unknown reference category %q", category)
	}

	entry, err := r.cache.GetOrPopulate(ctx, Key(category, value), func(ctx context.Context) (cache.Entry, error) {
		return r.fetch(ctx, category, entity, value)
	})
	if err != nil {
		return nil, fmt.Errorf("resolve %s %q: %w", category, value, err)
	}
	if !entry.Found {
		return nil, nil
	}
	id := entry.ID
	return &id, nil
}

func (r *Resolver) fetch(ctx context.Context, category Category, entity models.EntityName, value string) (cache.Entry, error) {
	start := time.Now()
	records, err := r.store.RetrieveMultiple(ctx, models.Query{
		Entity:   entity,
		Criteria: models.And(models.Eq(models.KeyAttribute(entity), value), models.Active()),
		Top:      1,
	})
	elapsed := time.Since(start).Seconds()
	if err != nil {
		r.metrics.ObserveResolution(string(category), "error", elapsed)
		return cache.Entry{}, err
	}
	if len(records) == 0 {
		r.metrics.ObserveResolution(string(category), "absent", elapsed)
		r.logger.DebugContext(ctx, "reference value not found", "category", category, "value", value)
		return cache.Absent, nil
	}
	r.metrics.ObserveResolution(string(category), "found", elapsed)
	return cache.Entry{ID: records[0].ID, Found: true}, nil
}
