// Package allocation seats examinees across examination rooms.
//
// Three strategies are supported. The regular strategy groups students by
// (year, dept, division), shuffles the rooms and picks a random compatible
// cohort for every column. The first-year strategy groups by department,
// walks the rooms in room number order and refuses to seat forbidden
// department pairs side by side unless it runs out of alternatives. The
// university strategy is fully deterministic: it re-seats every student,
// alternating two department slots across even and odd columns.
//
// Every run goes through an Allocator, which owns the persistence
// collaborators, the random source and the single-run lease.
package allocation

import (
	"fmt"
	"strings"
	"time"
)

// Strategy names an allocation algorithm.
type Strategy string

const (
	StrategyRegular    Strategy = "regular"
	StrategyFirstYear  Strategy = "first-year"
	StrategyUniversity Strategy = "university"
)

// ParseStrategy maps a user supplied name onto a Strategy. Underscores
// and case are tolerated ("FIRST_YEAR" parses as first-year).
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-") {
	case "regular":
		return StrategyRegular, nil
	case "first-year", "firstyear":
		return StrategyFirstYear, nil
	case "university":
		return StrategyUniversity, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

// Cohort is the grouping key of a set of students. Which fields are
// significant depends on the strategy: the regular strategy uses all
// three, the others only Dept.
type Cohort struct {
	Year int
	Dept string
	Div  string
}

func (c Cohort) String() string {
	if c.Year == 0 && c.Div == "" {
		return c.Dept
	}
	return fmt.Sprintf("%d/%s/%s", c.Year, c.Dept, c.Div)
}

// Assignment is a single seat produced by a run.
type Assignment struct {
	StudentID string
	RoomNo    string
	SeatNo    string
	Col       int
	Row       int
	Cohort    Cohort

	// Fallback is set when the cohort was picked from a relaxed tier
	// because no compatible cohort was left.
	Fallback bool
	// Switched is set on cells filled after the column's first cohort
	// ran dry and a replacement was picked mid-column.
	Switched bool
}

// Result is the outcome of one allocation run.
type Result struct {
	RunID       string
	Strategy    Strategy
	StartedAt   time.Time
	Duration    time.Duration
	Rooms       int
	Assignments []Assignment
}

// Seats returns the number of students seated by the run.
func (r *Result) Seats() int {
	if r == nil {
		return 0
	}
	return len(r.Assignments)
}

// ByRoom groups the assignments by room, preserving fill order.
func (r *Result) ByRoom() map[string][]Assignment {
	out := make(map[string][]Assignment)
	if r == nil {
		return out
	}
	for _, a := range r.Assignments {
		out[a.RoomNo] = append(out[a.RoomNo], a)
	}
	return out
}

// Report returns the assignments in display order.
func (r *Result) Report() []ReportRow {
	if r == nil {
		return nil
	}
	return BuildReport(r.Assignments)
}
