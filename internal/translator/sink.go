package translator

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// File permission constants.
const (
	dirPermissions  = 0o750
	filePermissions = 0o644
)

// ErrOutsideDestination is returned for output paths escaping the sink root.
var ErrOutsideDestination = errors.New("path escapes destination")

// Sink receives build outputs addressed by local slash paths. Sinks are
// called from several workers at once.
type Sink interface {
	// Write stores rendered content.
	Write(local string, data []byte) error
	// Copy stores the non-page source file at src.
	Copy(local, src string) error
}

// DirSink writes outputs beneath a destination directory.
type DirSink struct {
	Root string
}

func (s DirSink) path(local string) (string, error) {
	p := filepath.Join(s.Root, filepath.FromSlash(local))
	rel, err := filepath.Rel(s.Root, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideDestination, local)
	}
	return p, nil
}

// Write implements Sink.
func (s DirSink) Write(local string, data []byte) error {
	p, err := s.path(local)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), dirPermissions); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	// #nosec G306 -- generated documentation is meant to be readable
	if err := os.WriteFile(p, data, filePermissions); err != nil {
		return fmt.Errorf("writing %s: %w", local, err)
	}
	return nil
}

// Copy implements Sink.
func (s DirSink) Copy(local, src string) error {
	p, err := s.path(local)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), dirPermissions); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	in, err := os.Open(src) // #nosec G304 -- discovered source file
	if err != nil {
		return fmt.Errorf("copying %s: %w", local, err)
	}
	defer func() { _ = in.Close() }()
	out, err := os.OpenFile(p, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, filePermissions) // #nosec G302 G304 -- output path checked above
	if err != nil {
		return fmt.Errorf("copying %s: %w", local, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copying %s: %w", local, err)
	}
	return out.Close()
}

// MemorySink keeps outputs in memory.
type MemorySink struct {
	mu    sync.Mutex
	files map[string][]byte
}

// NewMemorySink returns an empty sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{files: make(map[string][]byte)}
}

// Write implements Sink.
func (s *MemorySink) Write(local string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[local] = append([]byte(nil), data...)
	return nil
}

// Copy implements Sink; it records the source path as content.
func (s *MemorySink) Copy(local, src string) error {
	return s.Write(local, []byte(src))
}

// Get returns the content stored at local.
func (s *MemorySink) Get(local string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.files[local]
	return string(b), ok
}

// Names returns every stored path, sorted.
func (s *MemorySink) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.files))
	for k := range s.files {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
