package workflow

import (
	"context"

	"github.com/mitchellh/mapstructure"
)

// chainRef holds the identifiers a success payload may carry.
type chainRef struct {
	ID       string `mapstructure:"id"`
	TenantID string `mapstructure:"tenant_id"`
	OrderID  string `mapstructure:"order_id"`
}

func refID(r chainRef) string      { return r.ID }
func refOrderID(r chainRef) string { return r.OrderID }

// decodeRef extracts identifiers from a decoded JSON body. Numeric ids are
// accepted and rendered as strings.
func decodeRef(payload any) (chainRef, error) {
	var ref chainRef
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &ref,
	})
	if err != nil {
		return chainRef{}, err
	}
	if err := dec.Decode(payload); err != nil {
		return chainRef{}, err
	}
	return ref, nil
}

// chainField copies the picked identifier into a form field when present.
func chainField(field string, pick func(chainRef) string) chainFunc {
	return func(ctx context.Context, c *Coordinator, ref chainRef) {
		if id := pick(ref); id != "" {
			c.fields.Set(ctx, field, id)
		}
	}
}

// chainTenant makes a freshly created tenant the active one.
func chainTenant(ctx context.Context, c *Coordinator, ref chainRef) {
	if ref.TenantID == "" {
		return
	}
	if _, err := c.creds.ApplyTenant(ctx, ref.TenantID); err != nil {
		c.logger.Warn("created tenant could not be applied", "error", err)
	}
}
