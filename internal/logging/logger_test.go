package logging_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/aretw0/osl/internal/logging"
	"github.com/stretchr/testify/assert"
)

func TestNewWithWriter_StandardizesKeys(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, slog.LevelDebug)

	logger.Warn("persist failed", "error", errors.New("disk full"), "token", "s3cret")

	out := buf.String()
	assert.Contains(t, out, `err="disk full"`)
	assert.Contains(t, out, "token=[redacted]")
	assert.NotContains(t, out, "s3cret")
}

func TestNewWithWriter_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, slog.LevelInfo)

	logger.Debug("hidden")
	assert.Empty(t, buf.String())
}

func TestNewNop(t *testing.T) {
	assert.NotPanics(t, func() {
		logging.NewNop().Error("ignored", "error", errors.New("x"))
	})
}
