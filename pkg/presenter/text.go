package presenter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/osl/pkg/domain"
	"github.com/muesli/termenv"
)

const (
	colorOK    = "#34d399"
	colorError = "#f87171"
	colorDim   = "#94a3b8"
)

// Text writes outcomes as indented JSON panels under a slot header.
// Safe for concurrent use.
type Text struct {
	mu       sync.Mutex
	w        io.Writer
	profile  termenv.Profile
	renderer func(string) (string, error)
}

// TextOption configures Text.
type TextOption func(*Text)

// WithProfile sets the color profile; termenv.Ascii disables color.
func WithProfile(p termenv.Profile) TextOption {
	return func(t *Text) {
		t.profile = p
	}
}

// WithRenderer renders each panel as a markdown json block.
func WithRenderer(render func(string) (string, error)) TextOption {
	return func(t *Text) {
		t.renderer = render
	}
}

// NewText creates a plain text presenter writing to w (stdout when nil).
func NewText(w io.Writer, opts ...TextOption) *Text {
	if w == nil {
		w = os.Stdout
	}
	t := &Text{w: w, profile: termenv.Ascii}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Present writes the header and the panel for one outcome.
func (t *Text) Present(ctx context.Context, slot domain.Slot, out domain.Outcome) error {
	panel, err := json.MarshalIndent(out.Panel(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode panel: %w", err)
	}

	color := colorOK
	if !out.OK() {
		color = colorError
	}
	header := t.profile.String(fmt.Sprintf("[%s] %s", slot, out.Action)).Foreground(t.profile.Color(color)).Bold()

	body := string(panel)
	if t.renderer != nil {
		if rendered, err := t.renderer("```json\n" + body + "\n```"); err == nil {
			body = strings.Trim(rendered, "\n")
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	_, err = fmt.Fprintf(t.w, "%s\n%s\n", header, body)
	return err
}

// Status writes one status line, e.g. "tenant: Tenant set: <id>".
func (t *Text) Status(st domain.Status) {
	color := colorDim
	if st.IsError {
		color = colorError
	}
	line := t.profile.String(fmt.Sprintf("%s: %s", st.Indicator, st.Message)).Foreground(t.profile.Color(color))

	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.w, line)
}

// Watch prints every future change of the board.
func (t *Text) Watch(board *domain.StatusBoard) {
	board.Subscribe(t.Status)
}
