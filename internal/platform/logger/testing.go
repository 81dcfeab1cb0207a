package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
)

// Buffer is a goroutine-safe sink for capturing JSON log output in tests.
type Buffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// NewCapture returns a debug-level JSON logger that writes into a Buffer.
func NewCapture() (*slog.Logger, *Buffer) {
	b := &Buffer{}
	return New(b, slog.LevelDebug), b
}

func (b *Buffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *Buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Entries decodes every captured line. Lines that are not JSON are skipped.
func (b *Buffer) Entries() []map[string]any {
	var entries []map[string]any
	for _, line := range strings.Split(b.String(), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var e map[string]any
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

// Find returns the first captured entry whose msg equals msg.
func (b *Buffer) Find(msg string) (map[string]any, bool) {
	for _, e := range b.Entries() {
		if e["msg"] == msg {
			return e, true
		}
	}
	return nil, false
}
