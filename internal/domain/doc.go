// Package domain contains the core business entities of the task board:
// users with their roles, and tasks with their status, priority, assignee
// and creator. It is independent of any storage or delivery mechanism.
package domain
