package records

import (
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	_ "modernc.org/sqlite" // sqlite driver
)

// Config selects and parameterizes the storage engine
type Config struct {
	Driver      string // "sqlite" or "postgres"
	SqlitePath  string
	PostgresDSN string
}

// Open connects to the configured storage engine and returns a bun handle
func Open(cfg Config) (*bun.DB, error) {
	switch cfg.Driver {
	case "sqlite", "":
		sqldb, err := sql.Open("sqlite", cfg.SqlitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		// A single writer keeps sqlite happy under bun's pooled conns
		sqldb.SetMaxOpenConns(1)
		return bun.NewDB(sqldb, sqlitedialect.New()), nil
	case "postgres":
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.PostgresDSN)))
		return bun.NewDB(sqldb, pgdialect.New()), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}
