package domain

import "errors"

// ErrNotFound is returned by key-value stores when a key has no value.
var ErrNotFound = errors.New("key not found")

// ErrEmptyTenant is returned when an operator applies a blank tenant id.
var ErrEmptyTenant = errors.New("tenant id is empty")

// ErrUnknownAction is returned when an action name is not in the command table.
var ErrUnknownAction = errors.New("unknown action")
