package allocation

import (
	"cmp"
	"slices"
	"strings"

	"github.com/iliyamo/exam-seat-allocation/internal/model"
)

// queue is a cohort's students in consumption order. It is owned by
// the cohortIndex that built it and only advanced through pop.
type queue struct {
	cohort   Cohort
	students []model.Student
	next     int
}

func (q *queue) empty() bool { return q.next >= len(q.students) }

func (q *queue) remaining() int { return len(q.students) - q.next }

func (q *queue) pop() model.Student {
	s := q.students[q.next]
	q.next++
	return s
}

// cohortIndex maps each cohort to its queue. Cohorts are kept in a
// stable order so that a seeded random source reproduces a run exactly.
type cohortIndex struct {
	queues []*queue
	byKey  map[Cohort]*queue
}

// keyFunc derives a student's cohort for a strategy.
type keyFunc func(s model.Student) Cohort

func normDept(d string) string { return strings.ToUpper(strings.TrimSpace(d)) }

func regularKey(s model.Student) Cohort {
	c := Cohort{Dept: normDept(s.Dept)}
	if s.Year != nil {
		c.Year = *s.Year
	}
	if s.Div != nil {
		c.Div = strings.ToUpper(strings.TrimSpace(*s.Div))
	}
	return c
}

func deptKey(s model.Student) Cohort {
	return Cohort{Dept: normDept(s.Dept)}
}

func compareCohorts(a, b Cohort) int {
	if c := cmp.Compare(a.Year, b.Year); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Dept, b.Dept); c != 0 {
		return c
	}
	return cmp.Compare(a.Div, b.Div)
}

// buildCohortIndex groups students by key. Within a cohort students are
// ordered by ascending id regardless of the order the store returned
// them in.
func buildCohortIndex(students []model.Student, key keyFunc) *cohortIndex {
	idx := &cohortIndex{byKey: make(map[Cohort]*queue)}
	for _, s := range students {
		k := key(s)
		q, ok := idx.byKey[k]
		if !ok {
			q = &queue{cohort: k}
			idx.byKey[k] = q
			idx.queues = append(idx.queues, q)
		}
		q.students = append(q.students, s)
	}
	for _, q := range idx.queues {
		slices.SortStableFunc(q.students, func(a, b model.Student) int {
			return cmp.Compare(a.StudentID, b.StudentID)
		})
	}
	slices.SortFunc(idx.queues, func(a, b *queue) int { return compareCohorts(a.cohort, b.cohort) })
	return idx
}

func (idx *cohortIndex) empty() bool { return idx.remaining() == 0 }

func (idx *cohortIndex) remaining() int {
	n := 0
	for _, q := range idx.queues {
		n += q.remaining()
	}
	return n
}

// nonEmpty returns the queues that still hold students and satisfy keep.
func (idx *cohortIndex) nonEmpty(keep func(Cohort) bool) []*queue {
	var out []*queue
	for _, q := range idx.queues {
		if q.empty() {
			continue
		}
		if keep == nil || keep(q.cohort) {
			out = append(out, q)
		}
	}
	return out
}
