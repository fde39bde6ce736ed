package db_client

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func Open(host, port, user, pass, database string) (*sql.DB, error) {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		user, pass, host, port, database,
	)

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	// Audit writes are low-volume; a small pool is plenty.
	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(time.Minute)
	return db, db.Ping()
}
