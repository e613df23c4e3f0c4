package handler

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/iliyamo/exam-seat-allocation/internal/model"
)

var (
	studentColumns = []string{"student_id", "dept", "year", "div"}
	roomColumns    = []string{"room_no", "capacity", "no_of_rows", "no_of_columns"}
)

// errNoRecords is returned when an upload holds a header but no usable row.
var errNoRecords = errors.New("no valid records found in the CSV")

// csvError points at the offending line of an upload.
type csvError struct {
	Line int
	Msg  string
}

func (e *csvError) Error() string { return fmt.Sprintf("line %d: %s", e.Line, e.Msg) }

// csvTable holds the records of an upload with the source line of each
// body row. It feeds gocsv through gocsv.CSVReader so row structs are
// decoded by tag while errors still name the original line.
type csvTable struct {
	records [][]string
	lines   []int
	pos     int
}

func readCSVTable(src io.Reader, required []string) (*csvTable, error) {
	r := csv.NewReader(src)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	t := &csvTable{}
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, &csvError{Line: pe.Line, Msg: pe.Err.Error()}
			}
			return nil, err
		}
		line, _ := r.FieldPos(0)
		t.records = append(t.records, rec)
		t.lines = append(t.lines, line)
	}
	if len(t.records) == 0 {
		return nil, errNoRecords
	}

	header := t.records[0]
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		header[i] = h
		seen[h] = true
	}
	var missing []string
	for _, col := range required {
		if !seen[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &csvError{Line: t.lines[0], Msg: "missing columns: " + strings.Join(missing, ", ")}
	}
	return t, nil
}

// Read implements gocsv.CSVReader.
func (t *csvTable) Read() ([]string, error) {
	if t.pos >= len(t.records) {
		return nil, io.EOF
	}
	t.pos++
	return t.records[t.pos-1], nil
}

// ReadAll implements gocsv.CSVReader.
func (t *csvTable) ReadAll() ([][]string, error) {
	rest := t.records[t.pos:]
	t.pos = len(t.records)
	return rest, nil
}

// decodeRows decodes every body row into T and returns the line of each.
func decodeRows[T any](src io.Reader, required []string) ([]T, []int, error) {
	t, err := readCSVTable(src, required)
	if err != nil {
		return nil, nil, err
	}
	lines := t.lines[1:]
	var rows []T
	if err := gocsv.UnmarshalCSV(t, &rows); err != nil {
		return nil, nil, &csvError{Line: t.lines[0], Msg: err.Error()}
	}
	return rows, lines, nil
}

// studentRow and roomRow keep every field as text so conversion errors
// can name the column and the line.
type studentRow struct {
	StudentID string `csv:"student_id"`
	Dept      string `csv:"dept"`
	Year      string `csv:"year"`
	Div       string `csv:"div"`
	Name      string `csv:"name"`
}

type roomRow struct {
	RoomNo   string `csv:"room_no"`
	Capacity string `csv:"capacity"`
	Rows     string `csv:"no_of_rows"`
	Cols     string `csv:"no_of_columns"`
}

func atoiField(col, v string, line int) (int, error) {
	v = strings.TrimSpace(v)
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &csvError{Line: line, Msg: fmt.Sprintf("%s %q is not a number", col, v)}
	}
	return n, nil
}

// parseStudentsCSV reads student_id,dept,year,div[,name]. Ids are
// upper-cased and rows without an id are skipped. An empty year is
// stored as unknown.
func parseStudentsCSV(src io.Reader) ([]model.Student, error) {
	rows, lines, err := decodeRows[studentRow](src, studentColumns)
	if err != nil {
		return nil, err
	}
	var out []model.Student
	seen := make(map[string]int)
	for i, row := range rows {
		line := lines[i]
		id := strings.ToUpper(strings.TrimSpace(row.StudentID))
		if id == "" {
			continue
		}
		if first, dup := seen[id]; dup {
			return nil, &csvError{Line: line, Msg: fmt.Sprintf("student_id %s already on line %d", id, first)}
		}
		seen[id] = line

		s := model.Student{StudentID: id, Dept: strings.TrimSpace(row.Dept)}
		if s.Dept == "" {
			return nil, &csvError{Line: line, Msg: "dept is empty"}
		}
		if strings.TrimSpace(row.Year) != "" {
			year, err := atoiField("year", row.Year, line)
			if err != nil {
				return nil, err
			}
			s.Year = &year
		}
		if div := strings.TrimSpace(row.Div); div != "" {
			s.Div = &div
		}
		if name := strings.TrimSpace(row.Name); name != "" {
			s.Name = &name
		}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil, errNoRecords
	}
	return out, nil
}

// parseRoomsCSV reads room_no,capacity,no_of_rows,no_of_columns. Rows
// without a room_no are skipped.
func parseRoomsCSV(src io.Reader) ([]model.Room, error) {
	rows, lines, err := decodeRows[roomRow](src, roomColumns)
	if err != nil {
		return nil, err
	}
	var out []model.Room
	seen := make(map[string]int)
	for i, row := range rows {
		line := lines[i]
		roomNo := strings.TrimSpace(row.RoomNo)
		if roomNo == "" {
			continue
		}
		if first, dup := seen[roomNo]; dup {
			return nil, &csvError{Line: line, Msg: fmt.Sprintf("room_no %s already on line %d", roomNo, first)}
		}
		seen[roomNo] = line

		r := model.Room{RoomNo: roomNo}
		if r.Capacity, err = atoiField("capacity", row.Capacity, line); err != nil {
			return nil, err
		}
		if r.Rows, err = atoiField("no_of_rows", row.Rows, line); err != nil {
			return nil, err
		}
		if r.Cols, err = atoiField("no_of_columns", row.Cols, line); err != nil {
			return nil, err
		}
		if r.Rows < 0 || r.Cols < 0 {
			return nil, &csvError{Line: line, Msg: "no_of_rows and no_of_columns must not be negative"}
		}
		out = append(out, r)
	}
	if len(out) == 0 {
		return nil, errNoRecords
	}
	return out, nil
}
