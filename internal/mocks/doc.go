// Package mocks provides hand-written test doubles for the service and
// directory interfaces. Each mock accepts optional function fields for
// custom behavior and records its calls for verification.
package mocks
