package domain

// Identity is the operator's client-side credential state.
// TenantID is expected to be UUID-shaped but is only checked for emptiness.
type Identity struct {
	TenantID string `json:"tenant_id,omitempty"`
	APIToken string `json:"-"`
}

// HasTenant reports whether a tenant is set.
func (i Identity) HasTenant() bool {
	return i.TenantID != ""
}

// HasToken reports whether a token is set.
func (i Identity) HasToken() bool {
	return i.APIToken != ""
}
