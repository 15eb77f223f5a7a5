package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func setup(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestDebugSilentByDefault(t *testing.T) {
	buf := setup(t)
	SetVerbose(false)

	Debug("should not appear")
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestDebugVerbose(t *testing.T) {
	buf := setup(t)
	SetVerbose(true)

	Debug("query %q took %dms", "test", 42)
	got := buf.String()
	if !strings.Contains(got, `[DEBUG] query "test" took 42ms`) {
		t.Errorf("unexpected output: %q", got)
	}
}

func TestLevels(t *testing.T) {
	buf := setup(t)
	SetVerbose(true)

	Info("info line")
	Warn("warn line")
	Section("Index Build")

	got := buf.String()
	for _, want := range []string{"[INFO] info line", "[WARN] warn line", "=== Index Build ==="} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q: %q", want, got)
		}
	}
}

func TestIsVerbose(t *testing.T) {
	setup(t)

	SetVerbose(true)
	if !IsVerbose() {
		t.Error("expected verbose to be enabled")
	}
	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be disabled")
	}
}
