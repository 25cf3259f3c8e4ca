package domain

import (
	"net/http"
	"strings"
)

// Slot names the output panel an action renders into.
type Slot string

const (
	SlotTenant    Slot = "tenant"
	SlotProduct   Slot = "product"
	SlotCustomer  Slot = "customer"
	SlotWarehouse Slot = "warehouse"
	SlotOrder     Slot = "order"
	SlotAlloc     Slot = "alloc"
	SlotStock     Slot = "stock"
	SlotSearch    Slot = "search"
	SlotHealth    Slot = "health"
)

// ActionDescriptor is the static policy for one backend endpoint.
type ActionDescriptor struct {
	Name   string `json:"name"`
	Method string `json:"method"`
	// Path may contain {param} placeholders, e.g. /api/orders/{id}/allocate.
	Path string `json:"path"`

	RequireTenant bool `json:"require_tenant"`
	RequireToken  bool `json:"require_token"`
	// AttachToken sends the token when one is set even though it is not required.
	AttachToken bool `json:"attach_token"`
}

// SendsToken reports whether a present token is attached to the request.
func (d ActionDescriptor) SendsToken() bool {
	return d.RequireToken || d.AttachToken
}

// HasBody reports whether the method carries a JSON body.
func (d ActionDescriptor) HasBody() bool {
	switch strings.ToUpper(d.Method) {
	case http.MethodGet, http.MethodHead:
		return false
	}
	return true
}
