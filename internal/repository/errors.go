// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers and the allocation engine to distinguish between different
// failure scenarios without depending on a specific SQL driver.
package repository

import "errors"

// ErrStudentNotFound is returned when a student lookup or seat update
// matches no row. Handlers should translate this into an HTTP 404.
var ErrStudentNotFound = errors.New("student not found")

// ErrRoomNotFound is returned when a room lookup matches no row.
var ErrRoomNotFound = errors.New("room not found")

// ErrEmptyUpload is returned when a bulk replace is called without any
// records. The existing collection is left untouched.
var ErrEmptyUpload = errors.New("no records to store")
