// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// engine and handlers to distinguish between different failure
// scenarios without string matching on driver errors.
package repository

import "errors"

// ErrUsernameExists is returned when registration collides with an
// existing username. Handlers should translate this into HTTP 400.
var ErrUsernameExists = errors.New("username already exists")

// ErrEmailExists is returned when registration collides with an
// existing email address. Handlers should translate this into HTTP 400.
var ErrEmailExists = errors.New("email already registered")

// ErrFullNameExists is returned when registration collides with an
// existing full name. The original system enforces full name
// uniqueness so order records stay unambiguous in the admin queue.
var ErrFullNameExists = errors.New("full name already registered")

// ErrTicketClassNotFound is returned when no ticket class row exists
// for the requested kind.
var ErrTicketClassNotFound = errors.New("ticket class not found")
