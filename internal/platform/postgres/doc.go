// Package postgres implements the store interfaces on PostgreSQL through
// database/sql and the pgx driver.
//
// The schema is owned by the embedded goose migrations in migrations/ and
// applied with Migrate. Queries run against store.DBTX so every store can be
// rebound to a transaction.
package postgres
