package domain

import (
	"fmt"
	"sync"
)

// Indicator names one of the shared status lines.
type Indicator string

const (
	IndicatorTenant Indicator = "tenant"
	IndicatorAPI    Indicator = "api"
)

// Status is the text shown by an indicator.
type Status struct {
	Indicator Indicator `json:"indicator"`
	Message   string    `json:"message"`
	IsError   bool      `json:"is_error"`
}

// TenantSet is the status message for an applied tenant.
func TenantSet(tenantID string) string {
	return fmt.Sprintf(msgTenantSetTemplate, tenantID)
}

// StatusBoard holds the shared status indicators. Writes are last-write-wins.
// Safe for concurrent use.
type StatusBoard struct {
	mu        sync.RWMutex
	current   map[Indicator]Status
	listeners []func(Status)
}

// NewStatusBoard creates an empty board.
func NewStatusBoard() *StatusBoard {
	return &StatusBoard{current: make(map[Indicator]Status)}
}

// Set replaces the indicator's status and notifies listeners.
func (b *StatusBoard) Set(ind Indicator, message string, isError bool) {
	st := Status{Indicator: ind, Message: message, IsError: isError}

	b.mu.Lock()
	b.current[ind] = st
	listeners := append([]func(Status){}, b.listeners...)
	b.mu.Unlock()

	for _, fn := range listeners {
		fn(st)
	}
}

// Get returns the current status of an indicator.
func (b *StatusBoard) Get(ind Indicator) Status {
	b.mu.RLock()
	defer b.mu.RUnlock()
	st, ok := b.current[ind]
	if !ok {
		return Status{Indicator: ind}
	}
	return st
}

// Subscribe registers a listener called after every Set.
func (b *StatusBoard) Subscribe(fn func(Status)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, fn)
}
