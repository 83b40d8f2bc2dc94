package logger_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/memo/internal/adapters/logger"
)

func newTestHandler(t *testing.T) (*slog.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	handler := logger.NewPrettyHandler(buf, &slog.HandlerOptions{Level: slog.LevelInfo})
	return slog.New(handler), buf
}

func TestPrettyHandler_Levels(t *testing.T) {
	lg, buf := newTestHandler(t)

	lg.Debug("debug message")
	assert.Empty(t, buf.String(), "debug must be filtered")

	lg.Info("information message")
	goldie.New(t).Assert(t, "handler_info", buf.Bytes())
}

func TestPrettyHandler_Attrs(t *testing.T) {
	lg, buf := newTestHandler(t)

	lg.With("key", "value").Warn("warning message", "n", 2)
	goldie.New(t).Assert(t, "handler_attrs", buf.Bytes())
}

func TestPrettyHandler_Group(t *testing.T) {
	lg, buf := newTestHandler(t)

	lg.WithGroup("req").Info("grouped message", "id", 7)
	goldie.New(t).Assert(t, "handler_group", buf.Bytes())
}

func TestPrettyHandler_Values(t *testing.T) {
	lg, buf := newTestHandler(t)

	lg.Info("Loaded A",
		"memo.fingerprint", "becdbfe1c8ec08d5c4ccc32f58602fc227f4ce35",
		"memo.folder", "/cache/my runs/A",
		"memo.tag", "",
		slog.Group("lock", "retry", "100ms"),
	)
	goldie.New(t).Assert(t, "handler_values", buf.Bytes())
}

func TestPrettyHandler_ErrorLevel(t *testing.T) {
	lg, buf := newTestHandler(t)

	lg.WithGroup("store").With("object", "A").Error("resolve failed")
	assert.Equal(t, "✗ resolve failed store.object=A\n", buf.String())
}
