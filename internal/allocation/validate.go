package allocation

import (
	"fmt"
	"strings"

	"github.com/iliyamo/exam-seat-allocation/internal/model"
)

func validateRooms(rooms []model.Room) error {
	seen := make(map[string]bool, len(rooms))
	for _, r := range rooms {
		id := strings.TrimSpace(r.RoomNo)
		if id == "" {
			return fmt.Errorf("%w: room without room_no", ErrInvalidRoom)
		}
		if r.Rows < 0 || r.Cols < 0 {
			return fmt.Errorf("%w: room %q has %d rows and %d columns", ErrInvalidRoom, id, r.Rows, r.Cols)
		}
		if seen[id] {
			return fmt.Errorf("%w: duplicate room %q", ErrInvalidRoom, id)
		}
		seen[id] = true
	}
	return nil
}

func validateStudents(students []model.Student, needYear bool) error {
	seen := make(map[string]bool, len(students))
	for _, s := range students {
		if strings.TrimSpace(s.StudentID) == "" {
			return fmt.Errorf("%w: student without student_id", ErrInvalidStudent)
		}
		if seen[s.StudentID] {
			return fmt.Errorf("%w: duplicate student %q", ErrInvalidStudent, s.StudentID)
		}
		seen[s.StudentID] = true
		if normDept(s.Dept) == "" {
			return fmt.Errorf("%w: student %q has no department", ErrInvalidStudent, s.StudentID)
		}
		if needYear {
			if s.Year == nil {
				return fmt.Errorf("%w: student %q has no year", ErrInvalidStudent, s.StudentID)
			}
			if *s.Year < 0 {
				return fmt.Errorf("%w: student %q has year %d", ErrInvalidStudent, s.StudentID, *s.Year)
			}
		}
	}
	return nil
}
