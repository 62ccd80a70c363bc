package storage

import (
	_ "github.com/jackc/pgx/v5/stdlib"

	"parking-slot-control/internal/config"
)

type PostgresProvider struct {
	SQLProvider
}

func NewPostgresProvider(config *config.Storage) (provider *PostgresProvider) {
	inner := NewSQLProvider(config, "pgx", config.PostgreSQL.DSN)
	if inner == nil {
		return nil
	}
	return &PostgresProvider{
		SQLProvider: *inner,
	}
}
