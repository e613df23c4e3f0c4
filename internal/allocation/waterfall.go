package allocation

import (
	"context"

	"github.com/iliyamo/exam-seat-allocation/internal/model"
)

// waterfall is the run-scoped state of the university strategy: the
// sorted department list, one queue per department and the two slot
// pointers. Slot 0 serves even columns and slot 1 odd columns. The
// pointers survive from one room to the next so a department keeps
// its column parity across room boundaries.
type waterfall struct {
	depts   []*queue
	slots   [2]int
	drained bool
}

func newWaterfall(idx *cohortIndex) *waterfall {
	w := &waterfall{depts: idx.queues}
	if len(w.depts) > 1 {
		w.slots[1] = 1
	}
	return w
}

// slotDepts returns the department currently held by each slot.
func (w *waterfall) slotDepts() [2]string {
	var out [2]string
	for i, d := range w.slots {
		if d < len(w.depts) {
			out[i] = w.depts[d].cohort.Dept
		}
	}
	return out
}

// advance points slot at a department with students left. The search
// starts at the slot's current department and wraps around the list,
// skipping the department held by the other slot. When that department
// is the only one left the slot borrows it. It returns false when no
// department has students.
func (w *waterfall) advance(slot int) bool {
	cur := w.slots[slot]
	other := w.slots[1-slot]
	n := len(w.depts)
	for i := 0; i < n; i++ {
		j := (cur + i) % n
		if j != other && !w.depts[j].empty() {
			w.slots[slot] = j
			return true
		}
	}
	if other < n && !w.depts[other].empty() {
		w.slots[slot] = other
		return true
	}
	return false
}

// fillRoom seats the room column by column, handing every assignment to
// emit as soon as it is made. It stops at the first cell for which no
// department has students left; later rooms then produce nothing.
func (w *waterfall) fillRoom(ctx context.Context, room model.Room, emit func(context.Context, Assignment) error) error {
	if w.drained || len(w.depts) == 0 {
		return nil
	}
	for c := 0; c < room.Cols; c++ {
		slot := c % 2
		for r := 0; r < room.Rows; r++ {
			q := w.depts[w.slots[slot]]
			if q.empty() {
				if !w.advance(slot) {
					w.drained = true
					return nil
				}
				q = w.depts[w.slots[slot]]
			}
			s := q.pop()
			a := Assignment{
				StudentID: s.StudentID,
				RoomNo:    room.RoomNo,
				SeatNo:    SeatLabel(c, r),
				Col:       c,
				Row:       r,
				Cohort:    q.cohort,
			}
			if err := emit(ctx, a); err != nil {
				return err
			}
		}
	}
	return nil
}
