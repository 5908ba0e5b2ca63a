package runtime

import (
	"bytes"
	"log/slog"
	"sync"
)

// Forwards complete lines written to it as debug log records.
//
// Partial lines are buffered until a newline arrives or [lineWriter.Flush] is
// called. Safe for concurrent use.
type lineWriter struct {
	logger *slog.Logger
	stream string
	mu     sync.Mutex
	buf    bytes.Buffer
}

// Creates a new [lineWriter] logging under the given stream name.
func newLineWriter(logger *slog.Logger, stream string) *lineWriter {
	return &lineWriter{logger: logger, stream: stream}
}

// Buffers p and logs every complete line. Never fails.
func (w *lineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(p)
	for {
		i := bytes.IndexByte(w.buf.Bytes(), '\n')
		if i < 0 {
			break
		}
		line := w.buf.Next(i + 1)
		w.emit(line[:i])
	}
	return len(p), nil
}

// Logs any buffered partial line.
func (w *lineWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.buf.Len() > 0 {
		w.emit(w.buf.Bytes())
		w.buf.Reset()
	}
}

func (w *lineWriter) emit(line []byte) {
	line = bytes.TrimRight(line, "\r")
	if len(line) == 0 {
		return
	}
	w.logger.Debug(string(line), "stream", w.stream)
}
