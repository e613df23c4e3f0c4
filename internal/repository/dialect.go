package repository

import (
	"strconv"
	"strings"
)

// Dialect identifies the SQL flavour a repository talks to. Queries are
// written with MySQL's `?` placeholders and rebound for PostgreSQL.
type Dialect int

const (
	MySQL Dialect = iota
	Postgres
)

// DialectFor maps a database/sql driver name onto a Dialect. Unknown
// names fall back to MySQL.
func DialectFor(driver string) Dialect {
	switch strings.ToLower(driver) {
	case "postgres", "postgresql", "pgx":
		return Postgres
	}
	return MySQL
}

// rebind rewrites `?` placeholders to `$1..$n` for PostgreSQL.
func (d Dialect) rebind(q string) string {
	if d != Postgres {
		return q
	}
	var b strings.Builder
	n := 0
	for i := 0; i < len(q); i++ {
		if q[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(q[i])
	}
	return b.String()
}
