package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	dsn, err := DSN("mysql", "exam", "s3cret", "db", "3306", "seating")
	require.NoError(t, err)
	assert.Equal(t, "exam:s3cret@tcp(db:3306)/seating?charset=utf8mb4&parseTime=true&loc=UTC&clientFoundRows=true", dsn)

	dsn, err = DSN("mysql", "exam", "", "db", "3306", "seating")
	require.NoError(t, err)
	assert.Contains(t, dsn, "exam@tcp(db:3306)")

	dsn, err = DSN("postgres", "exam", "p@ss", "pg", "5432", "seating")
	require.NoError(t, err)
	assert.Equal(t, "postgres://exam:p%40ss@pg:5432/seating?sslmode=disable", dsn)

	_, err = DSN("sqlite", "", "", "", "", "")
	assert.Error(t, err)
}
