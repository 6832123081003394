// Package testutils provides helpers shared by the package tests: a
// capturing slog handler, deterministic clocks and HTTP request helpers.
package testutils
