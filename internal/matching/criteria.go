package matching

import (
	"trsync/internal/registry/models"
)

// Combinations returns every k-sized subset of {0..n-1} as ascending index
// slices, in lexicographic order.
func Combinations(n, k int) [][]int {
	if k <= 0 || k > n {
		return nil
	}
	var out [][]int
	combo := make([]int, k)
	var walk func(start, depth int)
	walk = func(start, depth int) {
		if depth == k {
			out = append(out, append([]int(nil), combo...))
			return
		}
		for i := start; i <= n-(k-depth); i++ {
			combo[depth] = i
			walk(i+1, depth+1)
		}
	}
	walk(0, 0)
	return out
}

// BuildCriteria builds the active-contact predicate: an OR over every
// threshold-sized combination of supplied fields, each combination an AND of
// equalities. ok is false when fewer than threshold fields are supplied, in
// which case no query must be issued.
func BuildCriteria(identity Identity, threshold int) (criteria models.Filter, ok bool) {
	supplied := identity.supplied()
	if threshold < 1 || len(supplied) < threshold {
		return models.Filter{}, false
	}

	combos := Combinations(len(supplied), threshold)
	alternatives := make([]models.Filter, 0, len(combos))
	for _, combo := range combos {
		conditions := make([]models.Condition, 0, threshold)
		for _, idx := range combo {
			conditions = append(conditions, models.Eq(string(supplied[idx].field), supplied[idx].value))
		}
		alternatives = append(alternatives, models.And(conditions...))
	}
	return models.And(models.Active()).With(models.Or(alternatives...)), true
}

// MatchedFields reports which supplied fields equal the contact's values,
// independent of the combination that selected it.
func MatchedFields(identity Identity, attrs models.Attributes) []Field {
	var matched []Field
	for _, fv := range identity.supplied() {
		if models.And(models.Eq(string(fv.field), fv.value)).Matches(attrs) {
			matched = append(matched, fv.field)
		}
	}
	return matched
}
