package presenter

import (
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// NewMarkdownRenderer returns a glamour renderer with automatic light/dark detection.
func NewMarkdownRenderer() (func(string) (string, error), error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(0),
	)
	if err != nil {
		return nil, err
	}
	return r.Render, nil
}

// TerminalOptions enables color and markdown rendering when w is a terminal.
func TerminalOptions(w io.Writer) []TextOption {
	if !IsTerminal(w) {
		return nil
	}
	opts := []TextOption{WithProfile(termenv.NewOutput(w).EnvColorProfile())}
	if render, err := NewMarkdownRenderer(); err == nil {
		opts = append(opts, WithRenderer(render))
	}
	return opts
}

// ReadSecret reads a line from the terminal without echo.
// When in is not a terminal it reads a plain line instead.
func ReadSecret(in *os.File, prompt io.Writer, label string) (string, error) {
	_, _ = io.WriteString(prompt, label)
	if term.IsTerminal(int(in.Fd())) {
		b, err := term.ReadPassword(int(in.Fd()))
		_, _ = io.WriteString(prompt, "\n")
		return string(b), err
	}
	return readLine(in)
}

func readLine(r io.Reader) (string, error) {
	var line []byte
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if buf[0] == '\n' {
				return string(line), nil
			}
			line = append(line, buf[0])
		}
		if err != nil {
			if err == io.EOF && len(line) > 0 {
				return string(line), nil
			}
			return string(line), err
		}
	}
}
