package db

import (
	"time"

	"koinonia/internal/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// InitPostgres opens the sqlx connection used by the audit log store.
// Retries briefly so the server survives a database that is still
// coming up.
func InitPostgres(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	var (
		conn *sqlx.DB
		err  error
	)

	for i := 0; i < 10; i++ {
		conn, err = sqlx.Connect("postgres", cfg.DSN())
		if err == nil {
			return conn, nil
		}
		time.Sleep(500 * time.Millisecond)
	}
	return nil, err
}
