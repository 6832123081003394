// Package store defines the task persistence contract and the errors every
// backend reports. Backends live under internal/platform: an in-memory map
// (platform/memory) and a SQL implementation for PostgreSQL and SQLite
// (platform/sqlstore).
package store
