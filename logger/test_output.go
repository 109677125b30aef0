package logger

import (
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/log"
)

// SetTestMode routes all log records into the test log of t until the test
// finishes.
func SetTestMode(t testing.TB) {
	prev := log.Root()
	log.SetDefault(log.NewLogger(log.NewTerminalHandlerWithLevel(TestWriter(t), log.LevelTrace, false)))
	t.Cleanup(func() {
		log.SetDefault(prev)
	})
}

type testWriter struct {
	t testing.TB
}

// TestWriter adapts a test log to io.Writer.
func TestWriter(t testing.TB) *testWriter {
	return &testWriter{t}
}

func (w *testWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}
