package file

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fadedpez/aceshigh/pkg/entities"
	"github.com/fadedpez/aceshigh/pkg/storage"
)

// Storage implements file-based collection of crib hands, one line per record
type Storage struct {
	path string
	mu   sync.Mutex
	file *os.File
	buf  *bufio.Writer
}

// New creates a new file storage instance, creating the parent directory if needed
func New(options *storage.Options) (*Storage, error) {
	if options == nil {
		options = storage.NewOptions()
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(options.Path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if options.Truncate {
		flags = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	}
	f, err := os.OpenFile(options.Path, flags, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open hand file: %w", err)
	}

	return &Storage{
		path: options.Path,
		file: f,
		buf:  bufio.NewWriter(f),
	}, nil
}

// Path returns the file being written
func (s *Storage) Path() string {
	return s.path
}

// WriteHands appends one line per record and flushes the batch
func (s *Storage) WriteHands(ctx context.Context, hands []*entities.CribHandRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return storage.ErrClosed
	}

	for _, h := range hands {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := s.buf.WriteString(storage.FormatLine(h) + "\n"); err != nil {
			return fmt.Errorf("failed to write hand: %w", err)
		}
	}

	if err := s.buf.Flush(); err != nil {
		return fmt.Errorf("failed to flush hands: %w", err)
	}
	return nil
}

// Close flushes and closes the file. Closing twice is a no-op.
func (s *Storage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return nil
	}

	flushErr := s.buf.Flush()
	closeErr := s.file.Close()
	s.file = nil
	if flushErr != nil {
		return fmt.Errorf("failed to flush hands: %w", flushErr)
	}
	return closeErr
}

// Read loads every record from a collection file. Blank lines are skipped.
func Read(path string) ([]*entities.CribHandRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var hands []*entities.CribHandRecord
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if len(text) == 0 {
			continue
		}
		h, err := storage.ParseLine(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		hands = append(hands, h)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return hands, nil
}
