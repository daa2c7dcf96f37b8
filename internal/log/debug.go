// Package log provides an opt-in debug trace for git invocations and
// watcher events. Messages are buffered in memory until SetFile points
// the logger at a file; SetFile("") drops the buffer and silences the
// logger for the rest of the run. The zero state never writes to the
// terminal, which bubbletea owns.
package log

import (
	"log"
	"os"
	"sync"
)

// sink is the shared destination behind the package-level functions.
// It implements io.Writer so the standard logger can format for us.
type sink struct {
	mu      sync.Mutex
	file    *os.File
	pending []byte
	off     bool
}

var (
	dest   = &sink{}
	logger = log.New(dest, "", log.LstdFlags|log.Lmicroseconds)
)

func (s *sink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.off {
		return len(p), nil
	}
	if s.file != nil {
		n, err := s.file.Write(p)
		// Sync so a crash doesn't eat the trace. Sync errors are not
		// worth failing a log write over.
		_ = s.file.Sync()
		return n, err
	}
	// No destination yet. Copy because the caller may reuse p.
	s.pending = append(s.pending, append([]byte(nil), p...)...)
	return len(p), nil
}

// SetFile directs the trace to path, creating or appending to the file,
// and flushes anything buffered so far. An empty path (or an open
// failure) discards the buffer and disables the logger.
func SetFile(path string) error {
	dest.mu.Lock()
	defer dest.mu.Unlock()

	if dest.file != nil {
		_ = dest.file.Close()
		dest.file = nil
	}

	if path == "" {
		dest.off = true
		dest.pending = nil
		return nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		dest.off = true
		dest.pending = nil
		return err
	}

	dest.file = f
	dest.off = false
	if len(dest.pending) > 0 {
		_, _ = f.Write(dest.pending)
		_ = f.Sync()
		dest.pending = nil
	}
	return nil
}

// Printf writes a formatted trace line.
func Printf(format string, args ...any) {
	logger.Printf(format, args...)
}

// Println writes a trace line.
func Println(v ...any) {
	logger.Println(v...)
}

// Close closes the trace file if one is open.
func Close() error {
	dest.mu.Lock()
	defer dest.mu.Unlock()

	if dest.file == nil {
		return nil
	}
	err := dest.file.Close()
	dest.file = nil
	return err
}
