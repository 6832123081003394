// Package sqlstore implements store.TaskStore on database/sql.
//
// The same store serves PostgreSQL (through the pgx stdlib driver) and SQLite
// (through modernc.org/sqlite); queries are built with squirrel so that only
// placeholders and timestamp encoding differ between dialects. Schema changes
// are goose migrations embedded per dialect and applied with Migrate.
package sqlstore
