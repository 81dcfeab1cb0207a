// Package store declares the persistence contracts for users and tasks.
//
// Services depend on these interfaces only; the PostgreSQL implementations
// live in internal/platform/postgres. Every store can be rebound to a
// transaction with WithTx, and RunInTransaction drives the commit/rollback
// lifecycle for multi-step operations.
package store
