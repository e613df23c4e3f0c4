package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
)

// Open connects to MySQL or PostgreSQL and verifies the connection.
func Open(driver, user, pass, host, port, name string) (*sql.DB, error) {
	dsn, err := DSN(driver, user, pass, host, port, name)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// DSN builds the connection string for driver.
func DSN(driver, user, pass, host, port, name string) (string, error) {
	switch driver {
	case "mysql":
		auth := user
		if pass != "" {
			auth = fmt.Sprintf("%s:%s", user, pass)
		}
		// clientFoundRows=true -> an UPDATE that rewrites the same seat still
		// reports one affected row, so SetSeat can tell "not found" apart.
		return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC&clientFoundRows=true",
			auth, host, port, name), nil
	case "postgres":
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(user, pass),
			Host:     host + ":" + port,
			Path:     "/" + name,
			RawQuery: "sslmode=disable",
		}
		if pass == "" {
			u.User = url.User(user)
		}
		return u.String(), nil
	}
	return "", fmt.Errorf("unsupported database driver %q", driver)
}
