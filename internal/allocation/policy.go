package allocation

import "strings"

// policy decides which cohorts may sit in the column to the right of
// another cohort and how far the selection may relax once no compatible
// cohort is left.
type policy struct {
	compatible func(candidate, left Cohort) bool
	// avoidSame adds an intermediate tier that only rules out the left
	// neighbour's own cohort.
	avoidSame bool
}

// regularCompatible forbids placing the same (year, dept) side by side.
// Division is ignored.
func regularCompatible(candidate, left Cohort) bool {
	return candidate.Year != left.Year || candidate.Dept != left.Dept
}

// DefaultForbiddenPairs lists department pairs that share coursework and
// must not sit in adjacent columns under the first-year strategy.
var DefaultForbiddenPairs = [][2]string{
	{"CSE", "AIML"},
	{"ECE", "EEE"},
}

type pairSet map[[2]string]struct{}

func newPairSet(pairs [][2]string) pairSet {
	set := make(pairSet, len(pairs))
	for _, p := range pairs {
		set[orderedPair(p[0], p[1])] = struct{}{}
	}
	return set
}

func orderedPair(a, b string) [2]string {
	a, b = strings.ToUpper(strings.TrimSpace(a)), strings.ToUpper(strings.TrimSpace(b))
	if b < a {
		a, b = b, a
	}
	return [2]string{a, b}
}

func (ps pairSet) firstYearCompatible(candidate, left Cohort) bool {
	if candidate.Dept == left.Dept {
		return false
	}
	_, forbidden := ps[orderedPair(candidate.Dept, left.Dept)]
	return !forbidden
}

func regularPolicy() policy {
	return policy{compatible: regularCompatible}
}

func firstYearPolicy(pairs [][2]string) policy {
	return policy{compatible: newPairSet(pairs).firstYearCompatible, avoidSame: true}
}

// candidates returns the first non-empty selection tier for a column
// whose left neighbour is left (nil at the room's first column) and the
// tier's number, starting at 1. It returns (nil, 0) once every cohort
// is exhausted.
func (p policy) candidates(idx *cohortIndex, left *Cohort) ([]*queue, int) {
	if left == nil {
		if qs := idx.nonEmpty(nil); len(qs) > 0 {
			return qs, 1
		}
		return nil, 0
	}
	l := *left
	if qs := idx.nonEmpty(func(c Cohort) bool { return p.compatible(c, l) }); len(qs) > 0 {
		return qs, 1
	}
	tier := 2
	if p.avoidSame {
		if qs := idx.nonEmpty(func(c Cohort) bool { return c != l }); len(qs) > 0 {
			return qs, tier
		}
		tier++
	}
	if qs := idx.nonEmpty(nil); len(qs) > 0 {
		return qs, tier
	}
	return nil, 0
}
