// Package service implements the task board's use cases.
//
// UserService covers account creation, authentication and credential
// changes. TaskService orchestrates task writes and reads: it validates
// input, checks existence, asks the policy package for a decision and only
// then touches the store, in that order. Services depend on the interfaces
// in internal/store and never on a concrete database.
//
// Errors are returned as the sentinels of the layer that produced them
// (domain.ErrValidation, store.ErrNotFound, domain.ErrUnauthorized, the
// auth errors) so the API layer can map them to status codes with errors.Is.
package service
