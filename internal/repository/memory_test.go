package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/exam-seat-allocation/internal/model"
)

func TestMemoryStudentStore(t *testing.T) {
	ctx := context.Background()
	y1, y2 := 1, 2
	m := NewMemoryStudentStore(
		model.Student{StudentID: "B2", Dept: "ECE", Year: &y2},
		model.Student{StudentID: "A1", Dept: "CSE", Year: &y2},
		model.Student{StudentID: "C3", Dept: "CSE", Year: &y1},
	)

	byCohort, err := m.ListUnallocated(ctx, model.OrderByCohort)
	require.NoError(t, err)
	assert.Equal(t, []string{"C3", "A1", "B2"}, idsOf(byCohort))

	require.NoError(t, m.SetSeat(ctx, "A1", "R1", "A1"))
	assert.ErrorIs(t, m.SetSeat(ctx, "ZZ", "R1", "A2"), ErrStudentNotFound)
	assert.Equal(t, 1, m.Writes)

	left, err := m.ListUnallocated(ctx, model.OrderByID)
	require.NoError(t, err)
	assert.Equal(t, []string{"B2", "C3"}, idsOf(left))

	inRoom, err := m.ListByRoom(ctx, "R1")
	require.NoError(t, err)
	assert.Equal(t, []string{"A1"}, idsOf(inRoom))

	// Returned values are copies.
	inRoom[0].RoomNo = nil
	got, err := m.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "R1", *got.RoomNo)

	require.NoError(t, m.ClearSeats(ctx))
	allocated, err := m.ListAllocated(ctx)
	require.NoError(t, err)
	assert.Empty(t, allocated)
}

func TestMemoryRoomStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryRoomStore(model.Room{RoomNo: "R2"}, model.Room{RoomNo: "R1"})

	unsorted, err := m.ListRooms(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, "R2", unsorted[0].RoomNo)

	sorted, err := m.ListRooms(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, "R1", sorted[0].RoomNo)

	_, err = m.GetByRoomNo(ctx, "R3")
	assert.ErrorIs(t, err, ErrRoomNotFound)

	require.NoError(t, m.ReplaceAll(ctx, []model.Room{{RoomNo: "R3", Rows: 1, Cols: 1}}))
	r, err := m.GetByRoomNo(ctx, "R3")
	require.NoError(t, err)
	assert.Equal(t, 1, r.Rows)
}

func idsOf(students []model.Student) []string {
	out := make([]string, len(students))
	for i, s := range students {
		out[i] = s.StudentID
	}
	return out
}
