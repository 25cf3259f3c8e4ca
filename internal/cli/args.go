package cli

import (
	"fmt"
	"strings"

	"github.com/mattn/go-shellwords"
)

// splitArgs splits a shell line into words with POSIX-style quoting.
// Shell operators (; & | < >) outside quotes are rejected instead of
// silently truncating the line.
func splitArgs(line string) ([]string, error) {
	p := shellwords.NewParser()
	args, err := p.Parse(line)
	if err != nil {
		return nil, err
	}
	if p.Position >= 0 {
		return nil, fmt.Errorf("unexpected %q at column %d", []rune(line)[p.Position], p.Position+1)
	}
	return args, nil
}

// ParseAssignments turns ["qty=2", "name=Main St"] into a map.
func ParseAssignments(args []string) (map[string]string, error) {
	out := make(map[string]string, len(args))
	for _, arg := range args {
		key, val, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("expected key=value, got %q", arg)
		}
		out[key] = val
	}
	return out, nil
}
