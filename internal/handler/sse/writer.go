package sse

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
)

// StreamWriter serializes writes to one SSE response. Events and
// keep-alives come from different goroutines.
type StreamWriter struct {
	mu      sync.Mutex
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewStreamWriter wraps a response that supports flushing
func NewStreamWriter(w http.ResponseWriter, flusher http.Flusher) *StreamWriter {
	return &StreamWriter{w: w, flusher: flusher}
}

// WriteEvent writes one named event. Multi-line data is split into
// several data: lines.
func (s *StreamWriter) WriteEvent(event string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder
	if event != "" {
		fmt.Fprintf(&b, "event: %s\n", event)
	}
	for _, line := range strings.Split(string(data), "\n") {
		fmt.Fprintf(&b, "data: %s\n", line)
	}
	b.WriteString("\n")

	if _, err := fmt.Fprint(s.w, b.String()); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	s.flusher.Flush()
	return nil
}

// WriteComment writes an SSE comment line, ignored by clients
func (s *StreamWriter) WriteComment(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := fmt.Fprintf(s.w, ": %s\n\n", text); err != nil {
		return fmt.Errorf("write comment: %w", err)
	}
	s.flusher.Flush()
	return nil
}

// WriteKeepAlive implements KeepAliveWriter
func (s *StreamWriter) WriteKeepAlive() error {
	return s.WriteComment("keepalive")
}
