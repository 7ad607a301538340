// Package matching finds existing registry contacts that plausibly represent
// the same person as an incoming identity.
//
// A contact matches when some combination of exactly threshold supplied identity
// fields all equal the contact's values. One mistyped or missing field is
// tolerated while still requiring strong corroboration.
package matching

import (
	"strings"
	"time"

	"trsync/internal/registry/models"
)

// Matching thresholds.
const (
	CreateThreshold = 3
	LookupThreshold = 2
)

// Field is an identity field that takes part in matching.
type Field string

const (
	FieldFirstName  Field = models.AttrFirstName
	FieldMiddleName Field = models.AttrMiddleName
	FieldLastName   Field = models.AttrLastName
	FieldBirthDate  Field = models.AttrBirthDate
	FieldNino       Field = models.AttrNationalInsuranceNumber
	FieldEmail      Field = models.AttrEmail
)

// Fields lists identity fields in the order combinations are built from.
var Fields = []Field{FieldFirstName, FieldMiddleName, FieldLastName, FieldBirthDate, FieldNino, FieldEmail}

// Identity is a partial personal identity. Blank strings and a nil birth date
// are not supplied.
type Identity struct {
	FirstName               string
	MiddleName              string
	LastName                string
	BirthDate               *time.Time
	NationalInsuranceNumber string
	Email                   string
}

type fieldValue struct {
	field Field
	value any
}

// supplied returns the supplied fields in Fields order.
func (i Identity) supplied() []fieldValue {
	var out []fieldValue
	add := func(f Field, s string) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, fieldValue{f, s})
		}
	}
	add(FieldFirstName, i.FirstName)
	add(FieldMiddleName, i.MiddleName)
	add(FieldLastName, i.LastName)
	if i.BirthDate != nil && !i.BirthDate.IsZero() {
		out = append(out, fieldValue{FieldBirthDate, dateOnly(*i.BirthDate)})
	}
	add(FieldNino, i.NationalInsuranceNumber)
	add(FieldEmail, i.Email)
	return out
}

// SuppliedCount reports how many identity fields are supplied.
func (i Identity) SuppliedCount() int {
	return len(i.supplied())
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
