package repository // repository defines data access for students

import (
	"context"      // context allows query cancellation and timeouts
	"database/sql" // sql provides DB primitives
	"errors"       // errors for sentinel comparisons
	"strings"      // strings builds bulk statements

	"github.com/iliyamo/exam-seat-allocation/internal/model"
)

const studentColumns = `student_id, dept, year, division, name, room_no, seat_no`

// insertChunk caps the rows per bulk INSERT so large uploads stay below
// the placeholder limits of both drivers.
const insertChunk = 500

// StudentRepo provides methods to work with students in the database.
// It satisfies allocation.StudentStore.
type StudentRepo struct {
	db      *sql.DB
	dialect Dialect
}

// NewStudentRepo constructs a StudentRepo with the given DB handle.
func NewStudentRepo(db *sql.DB, dialect Dialect) *StudentRepo {
	return &StudentRepo{db: db, dialect: dialect}
}

func orderClause(order model.StudentOrder) string {
	if order == model.OrderByCohort {
		return ` ORDER BY year, dept, division, student_id`
	}
	return ` ORDER BY student_id`
}

// ListUnallocated returns every student without a room.
func (r *StudentRepo) ListUnallocated(ctx context.Context, order model.StudentOrder) ([]model.Student, error) {
	return r.list(ctx, `SELECT `+studentColumns+` FROM students WHERE room_no IS NULL`+orderClause(order))
}

// ListAll returns every student.
func (r *StudentRepo) ListAll(ctx context.Context, order model.StudentOrder) ([]model.Student, error) {
	return r.list(ctx, `SELECT `+studentColumns+` FROM students`+orderClause(order))
}

// ListAllocated returns students holding a seat, ordered by room then id.
func (r *StudentRepo) ListAllocated(ctx context.Context) ([]model.Student, error) {
	return r.list(ctx, `SELECT `+studentColumns+` FROM students WHERE room_no IS NOT NULL ORDER BY room_no, student_id`)
}

// ListByRoom returns the students seated in one room.
func (r *StudentRepo) ListByRoom(ctx context.Context, roomNo string) ([]model.Student, error) {
	return r.list(ctx, `SELECT `+studentColumns+` FROM students WHERE room_no = ? ORDER BY seat_no`, roomNo)
}

func (r *StudentRepo) list(ctx context.Context, q string, args ...any) ([]model.Student, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.rebind(q), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanStudent(sc scanner) (model.Student, error) {
	var (
		s                       model.Student
		year                    sql.NullInt64
		div, name, room, seatNo sql.NullString
	)
	if err := sc.Scan(&s.StudentID, &s.Dept, &year, &div, &name, &room, &seatNo); err != nil {
		return model.Student{}, err
	}
	if year.Valid {
		y := int(year.Int64)
		s.Year = &y
	}
	s.Div = nullString(div)
	s.Name = nullString(name)
	s.RoomNo = nullString(room)
	s.SeatNo = nullString(seatNo)
	return s, nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

// GetByID retrieves a student by registration number. The lookup is
// case-insensitive because ids are stored upper-cased.
func (r *StudentRepo) GetByID(ctx context.Context, studentID string) (*model.Student, error) {
	q := r.dialect.rebind(`SELECT ` + studentColumns + ` FROM students WHERE student_id = ?`)
	s, err := scanStudent(r.db.QueryRowContext(ctx, q, strings.ToUpper(strings.TrimSpace(studentID))))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return &s, nil
}

// SetSeat stores the room and seat of one student. It returns
// ErrStudentNotFound when no row matches.
func (r *StudentRepo) SetSeat(ctx context.Context, studentID, roomNo, seatNo string) error {
	q := r.dialect.rebind(`UPDATE students SET room_no = ?, seat_no = ? WHERE student_id = ?`)
	res, err := r.db.ExecContext(ctx, q, roomNo, seatNo, studentID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrStudentNotFound
	}
	return nil
}

// ClearSeats marks every student unallocated.
func (r *StudentRepo) ClearSeats(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `UPDATE students SET room_no = NULL, seat_no = NULL`)
	return err
}

// ReplaceAll deletes every student and inserts the given ones inside a
// single transaction. New students start unallocated.
func (r *StudentRepo) ReplaceAll(ctx context.Context, students []model.Student) error {
	if len(students) == 0 {
		return ErrEmptyUpload
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM students`); err != nil {
		return err
	}
	for start := 0; start < len(students); start += insertChunk {
		end := min(start+insertChunk, len(students))
		query := `INSERT INTO students (student_id, dept, year, division, name) VALUES `
		args := make([]any, 0, (end-start)*5)
		for i, s := range students[start:end] {
			if i > 0 {
				query += ","
			}
			query += "(?, ?, ?, ?, ?)"
			args = append(args, s.StudentID, s.Dept, s.Year, s.Div, s.Name)
		}
		if _, err := tx.ExecContext(ctx, r.dialect.rebind(query), args...); err != nil {
			return err
		}
	}
	return tx.Commit()
}
