// Package events carries task lifecycle notifications from the service layer
// to whatever is listening.
//
// Services emit a TaskEvent through an EventEmitter after a write succeeds.
// The in-memory emitter fans each event out to registered handlers, such as
// the log handler in this package or the NATS publisher in
// internal/platform/natsbus.
package events
