package matching

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"trsync/internal/platform/tracer"
	"trsync/internal/registry"
	"trsync/internal/registry/models"
)

// Candidate is an existing contact that plausibly duplicates the incoming identity.
type Candidate struct {
	Contact            models.Contact
	MatchedFields      []Field
	HasActiveSanctions bool
	HasQtsDate         bool
	HasEytsDate        bool
}

// Matcher queries the registry for duplicate candidates.
type Matcher struct {
	store  registry.Store
	tracer tracer.Tracer
}

type Option func(*Matcher)

func WithTracer(t tracer.Tracer) Option {
	return func(m *Matcher) {
		m.tracer = t
	}
}

func New(store registry.Store, opts ...Option) *Matcher {
	m := &Matcher{store: store}
	for _, opt := range opts {
		opt(m)
	}
	if m.tracer == nil {
		m.tracer = tracer.NewNoop()
	}
	return m
}

// FindCandidate returns at most one active contact matching identity on some
// threshold-sized combination of supplied fields.
//
// When several contacts match, the first in store order is returned. The
// registry defines no further ordering, so which duplicate is reported for
// ambiguous identities is up to the store.
func (m *Matcher) FindCandidate(ctx context.Context, identity Identity, threshold int) (_ *Candidate, err error) {
	if threshold < 1 {
		return nil, fmt.Errorf("matching threshold must be positive, got %d", threshold)
	}
	ctx, span := m.tracer.Start(ctx, tracer.SpanMatch, tracer.Int64("threshold", int64(threshold)))
	defer func() { span.End(err) }()

	candidates, err := m.find(ctx, identity, threshold, 1)
	if err != nil || len(candidates) == 0 {
		span.SetAttributes(tracer.Bool(tracer.AttrDuplicate, false))
		return nil, err
	}
	span.SetAttributes(tracer.Bool(tracer.AttrDuplicate, true))
	return &candidates[0], nil
}

// FindTeachers returns every active contact matching identity at the lookup
// threshold, in store order.
func (m *Matcher) FindTeachers(ctx context.Context, identity Identity) ([]Candidate, error) {
	return m.find(ctx, identity, LookupThreshold, 0)
}

func (m *Matcher) find(ctx context.Context, identity Identity, threshold, top int) ([]Candidate, error) {
	criteria, ok := BuildCriteria(identity, threshold)
	if !ok {
		return nil, nil
	}
	records, err := m.store.RetrieveMultiple(ctx, models.Query{
		Entity:   models.EntityContact,
		Criteria: criteria,
		Top:      top,
	})
	if err != nil {
		return nil, fmt.Errorf("find matching contacts: %w", err)
	}

	ids := make([]uuid.UUID, len(records))
	for i, record := range records {
		ids[i] = record.ID
	}
	sanctioned, err := m.sanctionedContacts(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]Candidate, 0, len(records))
	for _, record := range records {
		contact := models.ContactFromEntity(record)
		out = append(out, Candidate{
			Contact:            contact,
			MatchedFields:      MatchedFields(identity, record.Attributes),
			HasActiveSanctions: sanctioned[record.ID],
			HasQtsDate:         contact.QtsDate != nil,
			HasEytsDate:        contact.EytsDate != nil,
		})
	}
	return out, nil
}

// sanctionedContacts reports which of contactIDs hold an unspent active
// sanction, in one query.
func (m *Matcher) sanctionedContacts(ctx context.Context, contactIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	if len(contactIDs) == 0 {
		return nil, nil
	}
	people := make([]models.Filter, len(contactIDs))
	for i, id := range contactIDs {
		people[i] = models.And(models.Eq(models.AttrPersonID, id))
	}
	sanctions, err := m.store.RetrieveMultiple(ctx, models.Query{
		Entity:   models.EntitySanction,
		Criteria: models.And(models.Active()).With(models.Or(people...)),
	})
	if err != nil {
		return nil, fmt.Errorf("find sanctions for %d contacts: %w", len(contactIDs), err)
	}

	out := make(map[uuid.UUID]bool, len(contactIDs))
	for _, e := range sanctions {
		sanction := models.SanctionFromEntity(e)
		if !sanction.Spent {
			out[sanction.PersonID] = true
		}
	}
	return out, nil
}
