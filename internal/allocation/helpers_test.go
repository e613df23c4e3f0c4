package allocation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/exam-seat-allocation/internal/model"
)

func stu(id, dept string) model.Student {
	return model.Student{StudentID: id, Dept: dept}
}

func stuY(id, dept string, year int, div string) model.Student {
	s := model.Student{StudentID: id, Dept: dept, Year: &year}
	if div != "" {
		s.Div = &div
	}
	return s
}

func room(no string, rows, cols int) model.Room {
	return model.Room{RoomNo: no, Rows: rows, Cols: cols, Capacity: rows * cols}
}

// batch returns n students of one department with ids <dept>01..<dept>nn.
func batch(dept string, n int) []model.Student {
	out := make([]model.Student, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, stu(fmt.Sprintf("%s%02d", dept, i), dept))
	}
	return out
}

// fixedRand always picks the same candidate index (clamped) and never
// shuffles.
type fixedRand struct{ pick int }

func (f fixedRand) IntN(n int) int { return min(f.pick, n-1) }

func (fixedRand) Shuffle(int, func(i, j int)) {}

type cell struct {
	room     string
	col, row int
}

// requireValid asserts the invariants shared by every strategy: one seat
// per student, one student per cell, cells inside the room and each
// cohort consumed in ascending id order.
func requireValid(t *testing.T, as []Assignment, rooms []model.Room) {
	t.Helper()
	dims := make(map[string]model.Room, len(rooms))
	for _, r := range rooms {
		dims[r.RoomNo] = r
	}
	students := make(map[string]bool)
	cells := make(map[cell]string)
	last := make(map[Cohort]string)
	for _, a := range as {
		require.False(t, students[a.StudentID], "student %s seated twice", a.StudentID)
		students[a.StudentID] = true

		c := cell{a.RoomNo, a.Col, a.Row}
		require.Empty(t, cells[c], "cell %v holds %s and %s", c, cells[c], a.StudentID)
		cells[c] = a.StudentID

		r, ok := dims[a.RoomNo]
		require.True(t, ok, "unknown room %s", a.RoomNo)
		require.True(t, a.Col >= 0 && a.Col < r.Cols && a.Row >= 0 && a.Row < r.Rows, "cell %v outside %dx%d", c, r.Rows, r.Cols)
		require.Equal(t, SeatLabel(a.Col, a.Row), a.SeatNo)

		if prev, ok := last[a.Cohort]; ok {
			require.Less(t, prev, a.StudentID, "cohort %s consumed out of order", a.Cohort)
		}
		last[a.Cohort] = a.StudentID
	}
}

// byCell indexes assignments of one room by position.
func byCell(as []Assignment, roomNo string) map[[2]int]Assignment {
	out := make(map[[2]int]Assignment)
	for _, a := range as {
		if a.RoomNo == roomNo {
			out[[2]int{a.Col, a.Row}] = a
		}
	}
	return out
}

func columnSwitched(cells map[[2]int]Assignment, col, rows int) bool {
	for r := 0; r < rows; r++ {
		if a, ok := cells[[2]int{col, r}]; ok && a.Switched {
			return true
		}
	}
	return false
}

// requireAdjacency checks the column rule: unless a relaxed tier or a
// mid-column switch was involved, the cohort heading a column is
// compatible with the cohort heading the column to its left.
func requireAdjacency(t *testing.T, as []Assignment, rooms []model.Room, compatible func(a, b Cohort) bool) {
	t.Helper()
	for _, rm := range rooms {
		cells := byCell(as, rm.RoomNo)
		for c := 1; c < rm.Cols; c++ {
			head, ok := cells[[2]int{c, 0}]
			if !ok {
				continue
			}
			left := cells[[2]int{c - 1, 0}]
			if head.Fallback || columnSwitched(cells, c-1, rm.Rows) || columnSwitched(cells, c, rm.Rows) {
				continue
			}
			require.True(t, compatible(head.Cohort, left.Cohort),
				"room %s: column %s (%s) next to %s", rm.RoomNo, ColumnLetter(c), head.Cohort, left.Cohort)
		}
	}
}
