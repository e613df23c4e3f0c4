package allocation

import (
	"cmp"
	"slices"

	"github.com/iliyamo/exam-seat-allocation/internal/model"
)

// ReportRow is one line of the seating report handed to the rendering
// layer.
type ReportRow struct {
	RoomNo    string `json:"hall"`
	Column    string `json:"column"`
	SeatNo    string `json:"seat"`
	StudentID string `json:"student_id"`
}

type reportCell struct {
	room     string
	col, row int
	seat     string
	student  string
}

// BuildReport orders assignments by room, then column, then row.
func BuildReport(as []Assignment) []ReportRow {
	cells := make([]reportCell, 0, len(as))
	for _, a := range as {
		cells = append(cells, reportCell{room: a.RoomNo, col: a.Col, row: a.Row, seat: a.SeatNo, student: a.StudentID})
	}
	return sortReport(cells)
}

// ReportFromStudents rebuilds the report from persisted room and seat
// fields. Unallocated students and unparseable seat labels are skipped.
func ReportFromStudents(students []model.Student) []ReportRow {
	cells := make([]reportCell, 0, len(students))
	for _, s := range students {
		if s.RoomNo == nil || s.SeatNo == nil {
			continue
		}
		col, row, ok := ParseSeatLabel(*s.SeatNo)
		if !ok {
			continue
		}
		cells = append(cells, reportCell{room: *s.RoomNo, col: col, row: row, seat: *s.SeatNo, student: s.StudentID})
	}
	return sortReport(cells)
}

func sortReport(cells []reportCell) []ReportRow {
	slices.SortStableFunc(cells, func(a, b reportCell) int {
		if c := cmp.Compare(a.room, b.room); c != 0 {
			return c
		}
		if c := cmp.Compare(a.col, b.col); c != 0 {
			return c
		}
		return cmp.Compare(a.row, b.row)
	})
	out := make([]ReportRow, 0, len(cells))
	for _, c := range cells {
		out = append(out, ReportRow{RoomNo: c.room, Column: ColumnLetter(c.col), SeatNo: c.seat, StudentID: c.student})
	}
	return out
}

// RoomGrid lays the allocated students of one room onto its rows x cols
// matrix. Cells hold student ids; empty cells are "". Seats whose label
// does not parse or falls outside the grid are ignored.
func RoomGrid(room model.Room, students []model.Student) [][]string {
	if room.Rows <= 0 || room.Cols <= 0 {
		return [][]string{}
	}
	g := make([][]string, room.Rows)
	for r := range g {
		g[r] = make([]string, room.Cols)
	}
	for _, s := range students {
		if s.RoomNo == nil || *s.RoomNo != room.RoomNo || s.SeatNo == nil {
			continue
		}
		col, row, ok := ParseSeatLabel(*s.SeatNo)
		if !ok || col < 0 || row < 0 || col >= room.Cols || row >= room.Rows {
			continue
		}
		g[row][col] = s.StudentID
	}
	return g
}
