// Package models describes the registry's generic record shape together with
// typed views over the entities the synchronization layer reads and writes.
package models

import (
	"fmt"
	"maps"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// EntityName is the registry's logical name for a table of records.
type EntityName string

const (
	EntityContact          EntityName = "contact"
	EntityIttEpisode       EntityName = "itt_episode"
	EntityQtsRegistration  EntityName = "qts_registration"
	EntityQualification    EntityName = "qualification"
	EntityInduction        EntityName = "induction"
	EntityReviewTask       EntityName = "review_task"
	EntitySanction         EntityName = "sanction"
	EntityAccount          EntityName = "account"
	EntityCountry          EntityName = "country"
	EntityIttSubject       EntityName = "itt_subject"
	EntityHeSubject        EntityName = "he_subject"
	EntityHeQualification  EntityName = "he_qualification"
	EntityIttQualification EntityName = "itt_qualification"
	EntityTeacherStatus    EntityName = "teacher_status"
	EntityEarlyYearsStatus EntityName = "early_years_status"
)

// StateCode is the registry lifecycle state shared by every entity.
type StateCode int

const (
	StateActive   StateCode = 0
	StateInactive StateCode = 1
)

// AttrStateCode is present on every entity.
const AttrStateCode = "statecode"

// Attributes is the registry's loosely typed attribute bag.
// Values are string, bool, int, StateCode, uuid.UUID, time.Time or their
// JSON-decoded equivalents (string, float64, bool).
type Attributes map[string]any

// Entity is a single registry record.
type Entity struct {
	Name       EntityName
	ID         uuid.UUID
	Attributes Attributes
}

// NewEntity returns an entity with an empty attribute bag.
func NewEntity(name EntityName, id uuid.UUID) Entity {
	return Entity{Name: name, ID: id, Attributes: Attributes{}}
}

// Clone returns a copy whose attribute bag can be mutated independently.
func (e Entity) Clone() Entity {
	out := Entity{Name: e.Name, ID: e.ID, Attributes: make(Attributes, len(e.Attributes))}
	maps.Copy(out.Attributes, e.Attributes)
	return out
}

// Set assigns an attribute, skipping nil pointers so partial updates stay partial.
func (e Entity) Set(key string, value any) {
	switch v := value.(type) {
	case *uuid.UUID:
		if v == nil {
			return
		}
		e.Attributes[key] = *v
	case *time.Time:
		if v == nil {
			return
		}
		e.Attributes[key] = *v
	case *int:
		if v == nil {
			return
		}
		e.Attributes[key] = *v
	case *string:
		if v == nil {
			return
		}
		e.Attributes[key] = *v
	default:
		e.Attributes[key] = value
	}
}

// State returns the entity's state code; missing state reads as active.
func (e Entity) State() StateCode {
	n, ok := AttrInt(e.Attributes, AttrStateCode)
	if !ok {
		return StateActive
	}
	return StateCode(n)
}

// Canonical renders an attribute value as the string used for equality
// comparisons by every store implementation. Dates compare at second precision in UTC.
func Canonical(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case uuid.UUID:
		return t.String(), true
	case *uuid.UUID:
		if t == nil {
			return "", false
		}
		return t.String(), true
	case time.Time:
		return t.UTC().Format(time.RFC3339), true
	case *time.Time:
		if t == nil {
			return "", false
		}
		return t.UTC().Format(time.RFC3339), true
	case bool:
		return strconv.FormatBool(t), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case StateCode:
		return strconv.Itoa(int(t)), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case fmt.Stringer:
		return t.String(), true
	default:
		return fmt.Sprint(t), true
	}
}

// AttrString reads a string attribute.
func AttrString(attrs Attributes, key string) string {
	if s, ok := attrs[key].(string); ok {
		return s
	}
	return ""
}

// AttrUUID reads a reference attribute stored either as uuid.UUID or its string form.
func AttrUUID(attrs Attributes, key string) *uuid.UUID {
	switch v := attrs[key].(type) {
	case uuid.UUID:
		if v == uuid.Nil {
			return nil
		}
		return &v
	case string:
		id, err := uuid.Parse(v)
		if err != nil || id == uuid.Nil {
			return nil
		}
		return &id
	}
	return nil
}

// AttrTime reads a date attribute stored either as time.Time or RFC 3339 text.
func AttrTime(attrs Attributes, key string) *time.Time {
	switch v := attrs[key].(type) {
	case time.Time:
		if v.IsZero() {
			return nil
		}
		return &v
	case string:
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil
		}
		return &t
	}
	return nil
}

// AttrInt reads an integer attribute, accepting JSON-decoded floats and numeric text.
func AttrInt(attrs Attributes, key string) (int, bool) {
	switch v := attrs[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case StateCode:
		return int(v), true
	case float64:
		return int(v), true
	case string:
		n, err := strconv.Atoi(v)
		return n, err == nil
	}
	return 0, false
}

// AttrIntPtr is AttrInt returning nil when the attribute is absent.
func AttrIntPtr(attrs Attributes, key string) *int {
	n, ok := AttrInt(attrs, key)
	if !ok {
		return nil
	}
	return &n
}

// AttrBool reads a boolean attribute.
func AttrBool(attrs Attributes, key string) bool {
	switch v := attrs[key].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	}
	return false
}
