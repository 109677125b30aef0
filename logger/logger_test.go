package logger

import (
	"bytes"
	"testing"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/require"
)

func TestSetVerbosity_FiltersBelowLevel(t *testing.T) {
	defer log.SetDefault(log.Root())
	var buf bytes.Buffer
	SetVerbosity(&buf, 3, false)

	l := New("ledger").Log
	l.Debug("hidden record")
	l.Info("visible record", "block", 7)

	out := buf.String()
	require.NotContains(t, out, "hidden record")
	require.Contains(t, out, "visible record")
	require.Contains(t, out, "module=ledger")
	require.Contains(t, out, "block=7")
}

func TestNew_WithoutName(t *testing.T) {
	defer log.SetDefault(log.Root())
	var buf bytes.Buffer
	log.SetDefault(log.NewLogger(log.NewTerminalHandlerWithLevel(&buf, log.LevelInfo, false)))

	New().Log.Info("plain")
	require.Contains(t, buf.String(), "plain")
	require.NotContains(t, buf.String(), "module=")
}
