// Package engine implements the inventory allocation and order
// lifecycle core: the inventory ledger mutation contract, the order
// state machine, the priority queue assembler and the waitlist store.
// Every state transition runs inside a single database transaction
// with row-level locks on the ticket class ledger, so concurrent
// approvals against the same class never interleave partially.
package engine

import (
	"errors"
	"fmt"

	"github.com/Jones-Peprah-Nsiah/Event-Ticketting-System-App/internal/model"
)

// ErrNotFound is returned for unknown order, ticket class or waitlist
// ids. Handlers should translate this into HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the requester does not own the order
// they are acting on. Handlers should translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ValidationError reports malformed or missing input: an unknown
// ticket class, a non-positive quantity, a restock that would leave
// availability negative. It is always recoverable and never leaves a
// state change behind.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// ConflictError reports a request that collides with current state: a
// duplicate active order, or a lifecycle transition requested on an
// order that is not in the required status. It carries the conflicting
// order's id and status so the caller can react.
type ConflictError struct {
	Msg     string
	OrderID uint64
	Status  model.OrderStatus
}

func (e *ConflictError) Error() string { return e.Msg }

// InsufficientStockError reports that a ticket class no longer has
// enough availability to commit an order. During approval it
// accompanies an automatic rejection of the order (the order IS
// mutated); during direct completion it is a pure failure with no
// state change.
type InsufficientStockError struct {
	Kind      model.TicketClassKind
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient %s tickets available", e.Kind)
}
