package sqlstore

import (
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
)

// Dialect identifies the SQL engine behind a *sql.DB.
type Dialect string

// Supported dialects.
const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// sqliteTimeLayout is fixed width so that lexical order matches time order.
const sqliteTimeLayout = "2006-01-02 15:04:05.000000000"

// ParseDialect maps a configured driver name to a Dialect.
func ParseDialect(driver string) (Dialect, error) {
	switch Dialect(driver) {
	case Postgres, SQLite:
		return Dialect(driver), nil
	}
	return "", fmt.Errorf("unsupported SQL driver %q", driver)
}

// DriverName is the database/sql driver registered for the dialect.
func (d Dialect) DriverName() string {
	if d == Postgres {
		return "pgx"
	}
	return "sqlite"
}

// gooseDialect is the name goose uses for the dialect.
func (d Dialect) gooseDialect() string {
	if d == Postgres {
		return "postgres"
	}
	return "sqlite3"
}

// builder returns a squirrel statement builder with the dialect's placeholders.
func (d Dialect) builder() sq.StatementBuilderType {
	if d == Postgres {
		return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}

// timeArg converts a timestamp to the value bound for the dialect.
func (d Dialect) timeArg(t time.Time) any {
	if d == Postgres {
		return t
	}
	return t.UTC().Format(sqliteTimeLayout)
}
