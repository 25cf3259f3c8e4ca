package presenter

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"

	"github.com/aretw0/osl/pkg/domain"
)

// Record is one JSON line written by the JSON presenter.
type Record struct {
	Type    string          `json:"type"`
	Slot    domain.Slot     `json:"slot,omitempty"`
	Action  string          `json:"action,omitempty"`
	OK      bool            `json:"ok"`
	Payload any             `json:"payload,omitempty"`
	Error   *domain.Failure `json:"error,omitempty"`
	Status  *domain.Status  `json:"status,omitempty"`
}

// JSON writes outcomes and status changes as JSON Lines.
// Safe for concurrent use.
type JSON struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewJSON creates a JSON Lines presenter writing to w (stdout when nil).
func NewJSON(w io.Writer) *JSON {
	if w == nil {
		w = os.Stdout
	}
	return &JSON{enc: json.NewEncoder(w)}
}

// Present emits an "outcome" record.
func (j *JSON) Present(ctx context.Context, slot domain.Slot, out domain.Outcome) error {
	rec := Record{Type: "outcome", Slot: slot, Action: out.Action, OK: out.OK(), Error: out.Err}
	if out.OK() {
		rec.Payload = out.Payload
	}
	return j.write(rec)
}

// Status emits a "status" record.
func (j *JSON) Status(st domain.Status) {
	_ = j.write(Record{Type: "status", OK: !st.IsError, Status: &st})
}

// Watch emits every future change of the board.
func (j *JSON) Watch(board *domain.StatusBoard) {
	board.Subscribe(j.Status)
}

func (j *JSON) write(rec Record) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.enc.Encode(rec)
}
