package models

import (
	"time"

	"github.com/google/uuid"
)

// Induction, review task and sanction attribute names.
const (
	AttrInductionStatus    = "induction_status"
	AttrRegardingID        = "regarding_id"
	AttrPotentialDuplicate = "potential_duplicate_id"
	AttrSubject            = "subject"
	AttrDescription        = "description"
	AttrCategory           = "category"
	AttrScheduledEnd       = "scheduled_end"
	AttrSpent              = "spent"
)

// InductionRequiredToComplete is the status a new induction starts in.
const InductionRequiredToComplete = "required_to_complete"

// Induction tracks a newly qualified teacher's induction period.
type Induction struct {
	ID       uuid.UUID
	PersonID uuid.UUID
	Status   string
}

func (i Induction) ToEntity() Entity {
	e := NewEntity(EntityInduction, i.ID)
	e.Attributes[AttrPersonID] = i.PersonID
	setString(e, AttrInductionStatus, i.Status)
	e.Attributes[AttrStateCode] = StateActive
	return e
}

func InductionFromEntity(e Entity) Induction {
	i := Induction{ID: e.ID, Status: AttrString(e.Attributes, AttrInductionStatus)}
	if person := AttrUUID(e.Attributes, AttrPersonID); person != nil {
		i.PersonID = *person
	}
	return i
}

// ReviewTask is a human-actionable work item raised when reconciliation
// cannot continue unattended.
type ReviewTask struct {
	ID                   uuid.UUID
	RegardingID          uuid.UUID
	PotentialDuplicateID *uuid.UUID
	Category             string
	Subject              string
	Description          string
	ScheduledEnd         *time.Time
}

func (t ReviewTask) ToEntity() Entity {
	e := NewEntity(EntityReviewTask, t.ID)
	e.Attributes[AttrRegardingID] = t.RegardingID
	e.Set(AttrPotentialDuplicate, t.PotentialDuplicateID)
	setString(e, AttrCategory, t.Category)
	setString(e, AttrSubject, t.Subject)
	setString(e, AttrDescription, t.Description)
	e.Set(AttrScheduledEnd, t.ScheduledEnd)
	e.Attributes[AttrStateCode] = StateActive
	return e
}

func ReviewTaskFromEntity(e Entity) ReviewTask {
	t := ReviewTask{
		ID:                   e.ID,
		PotentialDuplicateID: AttrUUID(e.Attributes, AttrPotentialDuplicate),
		Category:             AttrString(e.Attributes, AttrCategory),
		Subject:              AttrString(e.Attributes, AttrSubject),
		Description:          AttrString(e.Attributes, AttrDescription),
		ScheduledEnd:         AttrTime(e.Attributes, AttrScheduledEnd),
	}
	if regarding := AttrUUID(e.Attributes, AttrRegardingID); regarding != nil {
		t.RegardingID = *regarding
	}
	return t
}

// Sanction is a disciplinary record against a contact.
type Sanction struct {
	ID       uuid.UUID
	PersonID uuid.UUID
	Spent    bool
	State    StateCode
}

func SanctionFromEntity(e Entity) Sanction {
	s := Sanction{ID: e.ID, Spent: AttrBool(e.Attributes, AttrSpent), State: e.State()}
	if person := AttrUUID(e.Attributes, AttrPersonID); person != nil {
		s.PersonID = *person
	}
	return s
}
