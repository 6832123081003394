// Package config handles configuration loading, parsing, and validation
// from environment variables (TASKS_ prefix, plus a .env file) and an optional
// YAML file. It provides type-safe access to server, database and user
// directory settings while keeping configuration details separate from
// business logic.
package config
