// Package testdb opens a migrated PostgreSQL database for integration tests.
//
// Tests using it read DATABASE_URL and skip when it is unset, so the
// integration suite stays opt-in:
//
//	DATABASE_URL=postgres://... go test -tags=integration ./...
package testdb
