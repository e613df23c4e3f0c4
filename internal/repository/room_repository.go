package repository // repository defines data access for rooms

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/exam-seat-allocation/internal/model"
)

// RoomRepo provides methods to read and replace room layouts. It
// satisfies allocation.RoomStore.
type RoomRepo struct {
	db      *sql.DB
	dialect Dialect
}

// NewRoomRepo constructs a RoomRepo with the given DB handle.
func NewRoomRepo(db *sql.DB, dialect Dialect) *RoomRepo {
	return &RoomRepo{db: db, dialect: dialect}
}

// ListRooms returns every room. With sorted set the rooms come back in
// room_no order, otherwise in insertion order.
func (r *RoomRepo) ListRooms(ctx context.Context, sorted bool) ([]model.Room, error) {
	q := `SELECT room_no, capacity, no_of_rows, no_of_columns FROM rooms`
	if sorted {
		q += ` ORDER BY room_no`
	}
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Room
	for rows.Next() {
		var rm model.Room
		if err := rows.Scan(&rm.RoomNo, &rm.Capacity, &rm.Rows, &rm.Cols); err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByRoomNo retrieves a single room layout.
func (r *RoomRepo) GetByRoomNo(ctx context.Context, roomNo string) (*model.Room, error) {
	q := r.dialect.rebind(`SELECT room_no, capacity, no_of_rows, no_of_columns FROM rooms WHERE room_no = ?`)
	var rm model.Room
	err := r.db.QueryRowContext(ctx, q, roomNo).Scan(&rm.RoomNo, &rm.Capacity, &rm.Rows, &rm.Cols)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &rm, nil
}

// ReplaceAll deletes every room and inserts the given layouts in one
// transaction.
func (r *RoomRepo) ReplaceAll(ctx context.Context, rooms []model.Room) error {
	if len(rooms) == 0 {
		return ErrEmptyUpload
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM rooms`); err != nil {
		return err
	}
	query := `INSERT INTO rooms (room_no, capacity, no_of_rows, no_of_columns) VALUES `
	args := make([]any, 0, len(rooms)*4)
	for i, rm := range rooms {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?)"
		args = append(args, rm.RoomNo, rm.Capacity, rm.Rows, rm.Cols)
	}
	if _, err := tx.ExecContext(ctx, r.dialect.rebind(query), args...); err != nil {
		return err
	}
	return tx.Commit()
}
