package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/reflectx"
	"go.uber.org/zap"

	"exam-mixer/internal/logger"

	_ "github.com/jackc/pgx/v5/stdlib" // Postgres driver, registered as "pgx"
	_ "github.com/sijms/go-ora/v2"     // Oracle driver, registered as "oracle"
	_ "modernc.org/sqlite"             // SQLite driver, registered as "sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverOracle   = "oracle"
)

func init() {
	// Repositories write '?' placeholders and rebind per driver.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
	sqlx.BindDriver("oracle", sqlx.NAMED)
}

// SQLDriverName maps a configured driver to the name registered with database/sql.
func SQLDriverName(driver string) (string, error) {
	switch strings.ToLower(driver) {
	case DriverSQLite, "":
		return "sqlite", nil
	case DriverPostgres, "pgx":
		return "pgx", nil
	case DriverOracle:
		return "oracle", nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Connect opens and pings the question-bank database.
func Connect(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	name, err := SQLDriverName(driver)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(name, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", driver, err)
	}

	switch name {
	case "oracle":
		// Oracle reports unquoted column names in upper case.
		db.Mapper = reflectx.NewMapperTagFunc("db", strings.ToUpper, strings.ToUpper)
	case "sqlite":
		// A single writer avoids SQLITE_BUSY under concurrent imports.
		db.SetMaxOpenConns(1)
	}

	logger.Get().Info("Connected to database", zap.String("driver", name))
	return db, nil
}
