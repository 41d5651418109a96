package hal

import (
	"io"
	"sync"
)

// writerSerial sends every byte straight to an io.Writer.
type writerSerial struct {
	mu sync.Mutex
	w  io.Writer
	b  [1]byte
}

// NewWriterSerial returns a Serial port that writes to w.
func NewWriterSerial(w io.Writer) Serial {
	return &writerSerial{w: w}
}

func (s *writerSerial) WriteByte(c byte) error {
	if s.w == nil {
		return ErrNotImplemented
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.b[0] = c
	_, err := s.w.Write(s.b[:])
	return err
}

// writerLogger writes one line per call to an io.Writer.
type writerLogger struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterLogger returns a Logger that writes lines to w.
func NewWriterLogger(w io.Writer) Logger {
	return &writerLogger{w: w}
}

func (l *writerLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	io.WriteString(l.w, s)
	io.WriteString(l.w, "\n")
}

func (l *writerLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}

type logLED struct {
	mu     sync.Mutex
	on     bool
	logger Logger
}

func (l *logLED) High() { l.set(true) }
func (l *logLED) Low()  { l.set(false) }

func (l *logLED) set(on bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.on == on {
		return
	}
	l.on = on
	if l.logger == nil {
		return
	}
	if on {
		l.logger.WriteLineString("led: HIGH")
	} else {
		l.logger.WriteLineString("led: LOW")
	}
}

func (l *logLED) level() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.on
}
