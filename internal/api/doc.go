// Package api adapts HTTP to the task and user services: it decodes and
// validates request bodies, pulls the caller out of the request context,
// and maps service errors onto status codes without leaking internals.
package api
