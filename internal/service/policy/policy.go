// Package policy decides which task operations a caller may perform.
//
// Every rule lives in the table below. The functions are pure: they take the
// caller and the relevant task fields and return nil (allow) or an error
// wrapping domain.ErrUnauthorized (deny). Existence checks belong to the
// caller and must run before a decision is requested.
package policy

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/store"
)

// Operation identifies a task operation subject to authorization.
type Operation string

// Task operations.
const (
	OpCreate Operation = "create"
	OpList   Operation = "list"
	OpSearch Operation = "search"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Caller is the authenticated identity making a request.
type Caller struct {
	ID   uuid.UUID
	Role domain.Role
}

func (c Caller) owns(t Target) bool     { return t.CreatedBy == c.ID }
func (c Caller) assigned(t Target) bool { return t.AssignedUser == c.ID }

// Target carries the ownership fields of the task an operation applies to.
// For creation it describes the task about to be written.
type Target struct {
	CreatedBy    uuid.UUID
	AssignedUser uuid.UUID
}

// TargetOf returns the ownership fields of t.
func TargetOf(t *domain.Task) Target {
	return Target{CreatedBy: t.CreatedBy, AssignedUser: t.AssignedUser}
}

type rule func(c Caller, t Target) bool

func always(Caller, Target) bool { return true }

var rules = map[domain.Role]map[Operation]rule{
	domain.RoleAdmin: {
		OpCreate: always,
		OpList:   always,
		OpSearch: always,
		OpUpdate: func(c Caller, t Target) bool { return c.owns(t) },
		OpDelete: always,
	},
	domain.RoleUser: {
		OpCreate: func(c Caller, t Target) bool { return c.owns(t) && c.assigned(t) },
		OpList:   always,
		OpSearch: always,
		OpUpdate: func(c Caller, t Target) bool { return c.owns(t) || c.assigned(t) },
		OpDelete: func(c Caller, t Target) bool { return c.owns(t) },
	},
}

// Authorize decides whether c may perform op on t. List and search ignore t;
// their visibility limits come from Scope.
func Authorize(c Caller, op Operation, t Target) error {
	byOp, ok := rules[c.Role]
	if !ok {
		return fmt.Errorf("%w: unknown role %q", domain.ErrUnauthorized, c.Role)
	}
	allow, ok := byOp[op]
	if !ok {
		return fmt.Errorf("%w: operation %q not permitted for role %q", domain.ErrUnauthorized, op, c.Role)
	}
	if !allow(c, t) {
		return fmt.Errorf("%w: %s denied for role %q", domain.ErrUnauthorized, op, c.Role)
	}
	return nil
}

// CheckRole fails for any role outside the known set.
func CheckRole(c Caller) error {
	if _, ok := rules[c.Role]; !ok {
		return fmt.Errorf("%w: unknown role %q", domain.ErrUnauthorized, c.Role)
	}
	return nil
}

// ResolveAssignee returns the assignee for a new task created by c. Admins
// must name one explicitly; users always assign to themselves and any
// requested assignee is ignored. The caller still has to confirm that an
// admin-supplied assignee exists.
func ResolveAssignee(c Caller, requested *uuid.UUID) (uuid.UUID, error) {
	if err := CheckRole(c); err != nil {
		return uuid.Nil, err
	}
	if c.Role != domain.RoleAdmin {
		return c.ID, nil
	}
	if requested == nil || *requested == uuid.Nil {
		return uuid.Nil, domain.NewValidationError("assignedUserId", "is required", nil)
	}
	return *requested, nil
}

// AuthorizeReassign decides whether c may hand a task over to assignee.
// Admins may pick anyone; users may only assign to themselves.
func AuthorizeReassign(c Caller, assignee uuid.UUID) error {
	if err := CheckRole(c); err != nil {
		return err
	}
	if c.Role == domain.RoleUser && assignee != c.ID {
		return fmt.Errorf("%w: users may only assign tasks to themselves", domain.ErrUnauthorized)
	}
	return nil
}

// Scope returns the visibility restriction c's list and search results are
// subject to, applied on top of filter.
func Scope(c Caller, op Operation, filter store.TaskFilter) (store.TaskFilter, error) {
	if err := Authorize(c, op, Target{}); err != nil {
		return store.TaskFilter{}, err
	}
	filter.VisibleTo = nil
	if c.Role != domain.RoleAdmin {
		id := c.ID
		filter.VisibleTo = &id
	}
	return filter, nil
}
