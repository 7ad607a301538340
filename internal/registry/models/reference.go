package models

import "github.com/google/uuid"

// Reference-data attribute names.
const (
	AttrUkprn = "ukprn"
	AttrCode  = "code"
	AttrValue = "value"
	AttrName  = "name"
)

// Reference is the common shape of every reference-data entity: an internal
// id plus the external key it is looked up by.
type Reference struct {
	Entity EntityName
	ID     uuid.UUID
	Key    string
	Name   string
	State  StateCode
}

// KeyAttribute returns the attribute an entity's external key is stored under.
func KeyAttribute(entity EntityName) string {
	switch entity {
	case EntityAccount:
		return AttrUkprn
	case EntityTeacherStatus, EntityEarlyYearsStatus:
		return AttrValue
	default:
		return AttrCode
	}
}

func (r Reference) ToEntity() Entity {
	e := NewEntity(r.Entity, r.ID)
	e.Attributes[KeyAttribute(r.Entity)] = r.Key
	setString(e, AttrName, r.Name)
	e.Attributes[AttrStateCode] = r.State
	return e
}

func ReferenceFromEntity(e Entity) Reference {
	return Reference{
		Entity: e.Name,
		ID:     e.ID,
		Key:    AttrString(e.Attributes, KeyAttribute(e.Name)),
		Name:   AttrString(e.Attributes, AttrName),
		State:  e.State(),
	}
}
