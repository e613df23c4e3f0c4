package repository

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/iliyamo/exam-seat-allocation/internal/model"
)

// MemoryStudentStore keeps students in process memory. It mirrors
// StudentRepo's behaviour and is used for dry runs and tests.
type MemoryStudentStore struct {
	mu       sync.Mutex
	students []model.Student

	// FailSetSeat, when set, is consulted before every SetSeat; a
	// non-nil return aborts the write with that error.
	FailSetSeat func(studentID string) error
	// Writes counts successful SetSeat calls.
	Writes int
}

// NewMemoryStudentStore returns a store holding copies of students.
func NewMemoryStudentStore(students ...model.Student) *MemoryStudentStore {
	m := &MemoryStudentStore{}
	m.students = cloneStudents(students)
	return m
}

func cloneStudents(in []model.Student) []model.Student {
	out := make([]model.Student, len(in))
	for i, s := range in {
		out[i] = cloneStudent(s)
	}
	return out
}

func cloneStudent(s model.Student) model.Student {
	c := s
	if s.Year != nil {
		y := *s.Year
		c.Year = &y
	}
	c.Div = clonePtr(s.Div)
	c.Name = clonePtr(s.Name)
	c.RoomNo = clonePtr(s.RoomNo)
	c.SeatNo = clonePtr(s.SeatNo)
	return c
}

func clonePtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func intOr(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func strOr(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func (m *MemoryStudentStore) sorted(order model.StudentOrder, keep func(model.Student) bool) []model.Student {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Student
	for _, s := range m.students {
		if keep == nil || keep(s) {
			out = append(out, cloneStudent(s))
		}
	}
	slices.SortStableFunc(out, func(a, b model.Student) int {
		if order == model.OrderByCohort {
			if c := cmp.Compare(intOr(a.Year), intOr(b.Year)); c != 0 {
				return c
			}
			if c := cmp.Compare(a.Dept, b.Dept); c != 0 {
				return c
			}
			if c := cmp.Compare(strOr(a.Div), strOr(b.Div)); c != 0 {
				return c
			}
		}
		return cmp.Compare(a.StudentID, b.StudentID)
	})
	return out
}

// ListUnallocated implements allocation.StudentStore.
func (m *MemoryStudentStore) ListUnallocated(_ context.Context, order model.StudentOrder) ([]model.Student, error) {
	return m.sorted(order, func(s model.Student) bool { return s.RoomNo == nil }), nil
}

// ListAll implements allocation.StudentStore.
func (m *MemoryStudentStore) ListAll(_ context.Context, order model.StudentOrder) ([]model.Student, error) {
	return m.sorted(order, nil), nil
}

// ListAllocated returns students holding a seat.
func (m *MemoryStudentStore) ListAllocated(_ context.Context) ([]model.Student, error) {
	out := m.sorted(model.OrderByID, func(s model.Student) bool { return s.RoomNo != nil })
	slices.SortStableFunc(out, func(a, b model.Student) int { return cmp.Compare(*a.RoomNo, *b.RoomNo) })
	return out, nil
}

// ListByRoom returns the students seated in roomNo.
func (m *MemoryStudentStore) ListByRoom(_ context.Context, roomNo string) ([]model.Student, error) {
	return m.sorted(model.OrderByID, func(s model.Student) bool { return s.RoomNo != nil && *s.RoomNo == roomNo }), nil
}

// GetByID returns a copy of one student.
func (m *MemoryStudentStore) GetByID(_ context.Context, studentID string) (*model.Student, error) {
	id := strings.ToUpper(strings.TrimSpace(studentID))
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.students {
		if s.StudentID == id {
			c := cloneStudent(s)
			return &c, nil
		}
	}
	return nil, ErrStudentNotFound
}

// SetSeat implements allocation.StudentStore.
func (m *MemoryStudentStore) SetSeat(_ context.Context, studentID, roomNo, seatNo string) error {
	if m.FailSetSeat != nil {
		if err := m.FailSetSeat(studentID); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.students {
		if m.students[i].StudentID == studentID {
			room, seat := roomNo, seatNo
			m.students[i].RoomNo = &room
			m.students[i].SeatNo = &seat
			m.Writes++
			return nil
		}
	}
	return ErrStudentNotFound
}

// ClearSeats implements allocation.StudentStore.
func (m *MemoryStudentStore) ClearSeats(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.students {
		m.students[i].RoomNo = nil
		m.students[i].SeatNo = nil
	}
	return nil
}

// ReplaceAll swaps the whole collection.
func (m *MemoryStudentStore) ReplaceAll(_ context.Context, students []model.Student) error {
	if len(students) == 0 {
		return ErrEmptyUpload
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.students = cloneStudents(students)
	return nil
}

// Snapshot returns a copy of every student in insertion order.
func (m *MemoryStudentStore) Snapshot() []model.Student {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneStudents(m.students)
}

// MemoryRoomStore keeps room layouts in process memory.
type MemoryRoomStore struct {
	mu    sync.Mutex
	rooms []model.Room
}

// NewMemoryRoomStore returns a store holding rooms in the given order.
func NewMemoryRoomStore(rooms ...model.Room) *MemoryRoomStore {
	return &MemoryRoomStore{rooms: slices.Clone(rooms)}
}

// ListRooms implements allocation.RoomStore.
func (m *MemoryRoomStore) ListRooms(_ context.Context, sorted bool) ([]model.Room, error) {
	m.mu.Lock()
	out := slices.Clone(m.rooms)
	m.mu.Unlock()
	if sorted {
		slices.SortStableFunc(out, func(a, b model.Room) int { return cmp.Compare(a.RoomNo, b.RoomNo) })
	}
	return out, nil
}

// GetByRoomNo returns one room layout.
func (m *MemoryRoomStore) GetByRoomNo(_ context.Context, roomNo string) (*model.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rooms {
		if r.RoomNo == roomNo {
			c := r
			return &c, nil
		}
	}
	return nil, ErrRoomNotFound
}

// ReplaceAll swaps the whole collection.
func (m *MemoryRoomStore) ReplaceAll(_ context.Context, rooms []model.Room) error {
	if len(rooms) == 0 {
		return ErrEmptyUpload
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rooms = slices.Clone(rooms)
	return nil
}
