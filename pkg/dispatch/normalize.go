package dispatch

import (
	"fmt"

	"github.com/aretw0/osl/pkg/domain"
)

// Normalize classifies a RawResult. It never panics and never returns an
// error: malformed bodies fold into the fallback message.
func Normalize(r RawResult) domain.Outcome {
	if r.TransportErr != nil {
		return domain.Fail(domain.NewFailure(domain.KindTransport, domain.MsgTransportFailure))
	}

	if r.OK() {
		if r.ParseErr != nil || r.Body == nil {
			return domain.Success(map[string]any{})
		}
		return domain.Success(r.Body)
	}

	msg := fmt.Sprintf("Request failed (%d)", r.Status)
	if r.ParseErr == nil {
		if m := serverMessage(r.Body); m != "" {
			msg = m
		}
	}
	f := domain.NewFailure(domain.KindApplication, msg)
	f.Status = r.Status
	return domain.Fail(f)
}

// serverMessage returns the backend's "error" field verbatim when it is a
// non-empty string.
func serverMessage(body any) string {
	obj, ok := body.(map[string]any)
	if !ok {
		return ""
	}
	s, _ := obj["error"].(string)
	return s
}
