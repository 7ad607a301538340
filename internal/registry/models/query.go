package models

// LogicalOperator joins the conditions and child filters of a Filter.
type LogicalOperator string

const (
	OperatorAnd LogicalOperator = "and"
	OperatorOr  LogicalOperator = "or"
)

// Condition is an attribute equality test.
type Condition struct {
	Attribute string
	Value     any
}

// Filter is a tree of equality conditions. An empty filter matches everything.
type Filter struct {
	Operator   LogicalOperator
	Conditions []Condition
	Filters    []Filter
}

// Query selects records of one entity. Top <= 0 means no limit.
// Results come back in store order; the registry defines no other ordering.
type Query struct {
	Entity   EntityName
	Criteria Filter
	Top      int
}

// Eq builds an equality condition.
func Eq(attribute string, value any) Condition {
	return Condition{Attribute: attribute, Value: value}
}

// And builds a conjunction of conditions.
func And(conditions ...Condition) Filter {
	return Filter{Operator: OperatorAnd, Conditions: conditions}
}

// Or builds a disjunction of child filters.
func Or(filters ...Filter) Filter {
	return Filter{Operator: OperatorOr, Filters: filters}
}

// Active is the state filter callers add explicitly; stores never apply it implicitly.
func Active() Condition {
	return Eq(AttrStateCode, StateActive)
}

// With returns a copy of f with extra child filters appended.
func (f Filter) With(children ...Filter) Filter {
	out := Filter{Operator: f.Operator, Conditions: append([]Condition(nil), f.Conditions...)}
	out.Filters = append(append(out.Filters, f.Filters...), children...)
	return out
}

// IsEmpty reports whether the filter has no conditions at any depth.
func (f Filter) IsEmpty() bool {
	if len(f.Conditions) > 0 {
		return false
	}
	for _, child := range f.Filters {
		if !child.IsEmpty() {
			return false
		}
	}
	return true
}

// Matches evaluates the filter against an attribute bag using Canonical equality.
// A condition on a missing attribute never matches.
func (f Filter) Matches(attrs Attributes) bool {
	if f.IsEmpty() {
		return true
	}
	if f.Operator == OperatorOr {
		for _, c := range f.Conditions {
			if c.matches(attrs) {
				return true
			}
		}
		for _, child := range f.Filters {
			if !child.IsEmpty() && child.Matches(attrs) {
				return true
			}
		}
		return false
	}
	for _, c := range f.Conditions {
		if !c.matches(attrs) {
			return false
		}
	}
	for _, child := range f.Filters {
		if !child.Matches(attrs) {
			return false
		}
	}
	return true
}

func (c Condition) matches(attrs Attributes) bool {
	want, ok := Canonical(c.Value)
	if !ok {
		return false
	}
	raw, present := attrs[c.Attribute]
	if !present {
		// statecode defaults to active on records written without one
		if c.Attribute == AttrStateCode {
			raw = StateActive
		} else {
			return false
		}
	}
	got, ok := Canonical(raw)
	return ok && got == want
}
