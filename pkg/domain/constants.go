package domain

// Persisted client state keys.
const (
	KeyTenant = "oslTenantId"
	KeyToken  = "oslApiToken"

	// KeyFieldPrefix namespaces chained form fields saved between invocations.
	KeyFieldPrefix = "oslField."
)

// Request headers.
const (
	HeaderContentType = "Content-Type"
	HeaderTenant      = "X-Tenant-Id"
	HeaderToken       = "X-Api-Token"

	ContentTypeJSON = "application/json"
)

// User-facing messages.
const (
	MsgTenantRequired    = "Tenant ID is required."
	MsgTokenRequired     = "API token is required for this action."
	MsgTenantPrompt      = "Enter a tenant UUID before using the demo."
	MsgTransportFailure  = "Request failed. Check the tenant ID or try again."
	MsgTokenSaved        = "API token saved"
	MsgTokenCleared      = "API token cleared"
	MsgTokenLoaded       = "API token loaded"
	msgTenantSetTemplate = "Tenant set: %s"
)
