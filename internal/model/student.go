package model

// Student represents an examinee as stored in the `students` table.
// RoomNo and SeatNo are written by the allocation engine; a nil RoomNo
// marks the student as unallocated and therefore eligible for the next
// allocation run.
//
// Fields:
//
//	StudentID - registration number, unique and upper-cased.
//	Dept      - department code (CSE, ECE, ...).
//	Year      - academic year (nil when not supplied).
//	Div       - division / section (nil when not supplied).
//	Name      - display name (nil when not supplied).
//	RoomNo    - assigned room (nil while unallocated).
//	SeatNo    - assigned seat label such as "B3" (nil while unallocated).
type Student struct {
	StudentID string  // students.student_id
	Dept      string  // students.dept
	Year      *int    // students.year (nullable)
	Div       *string // students.division (nullable)
	Name      *string // students.name (nullable)
	RoomNo    *string // students.room_no (nullable)
	SeatNo    *string // students.seat_no (nullable)
}

// Allocated reports whether the student currently holds a room.
func (s Student) Allocated() bool {
	return s.RoomNo != nil
}

// StudentOrder selects the sort applied when listing students.
type StudentOrder int

const (
	// OrderByID sorts by student_id only.
	OrderByID StudentOrder = iota
	// OrderByCohort sorts by year, dept, division and then student_id.
	OrderByCohort
)
