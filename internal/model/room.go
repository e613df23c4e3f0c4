package model

// Room describes an examination hall as stored in the `rooms` table.
// Rows and Cols define the seating grid that the allocation engine
// fills; Capacity is the declared head count and is informational only,
// the grid may hold more or fewer seats than that.
type Room struct {
	RoomNo   string // rooms.room_no
	Capacity int    // rooms.capacity
	Rows     int    // rooms.no_of_rows
	Cols     int    // rooms.no_of_columns
}

// Seats returns the number of cells in the room's grid.
func (r Room) Seats() int {
	if r.Rows <= 0 || r.Cols <= 0 {
		return 0
	}
	return r.Rows * r.Cols
}
