package telemetry

import (
	"bytes"
	"sync"
)

// lineWriter forwards complete lines to onLine and keeps the trailing partial line
// until more data arrives or the writer is closed.
type lineWriter struct {
	mu      sync.Mutex
	pending []byte
	closed  bool
	onLine  func([]byte)
}

func newLineWriter(onLine func([]byte)) *lineWriter {
	return &lineWriter{onLine: onLine}
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return len(p), nil
	}

	w.pending = append(w.pending, p...)
	for {
		i := bytes.IndexByte(w.pending, '\n')
		if i < 0 {
			break
		}
		line := make([]byte, i+1)
		copy(line, w.pending[:i+1])
		w.pending = w.pending[i+1:]
		w.onLine(line)
	}
	return len(p), nil
}

// Close flushes the partial line, terminated with a newline.
func (w *lineWriter) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	w.closed = true
	if len(w.pending) > 0 {
		w.onLine(append(w.pending, '\n'))
		w.pending = nil
	}
}
