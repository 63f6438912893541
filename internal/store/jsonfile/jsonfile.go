package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/peterjhesselmann96-eng/werkzeugverwaltung/internal/models"
	"github.com/peterjhesselmann96-eng/werkzeugverwaltung/internal/store"
)

// Store keeps one collection as a pretty-printed JSON array in a single file.
// The mutex serializes the read-modify-write cycle within this process only.
type Store[T store.Record[T]] struct {
	mu   sync.Mutex
	path string
}

// Open returns a store backed by <dir>/<name>.json. When the file is absent it is
// created with seed. An unparsable file is moved aside and replaced with seed.
func Open[T store.Record[T]](dir, name string, seed []T) (*Store[T], error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	s := &Store[T]{path: filepath.Join(dir, name+".json")}

	_, err := s.read()
	switch {
	case err == nil:
		return s, nil
	case errors.Is(err, fs.ErrNotExist):
		log.Printf("store %s: no data file, seeding %d records", name, len(seed))
	case isSyntaxError(err):
		backup := fmt.Sprintf("%s.corrupt-%d", s.path, time.Now().Unix())
		if rerr := os.Rename(s.path, backup); rerr != nil {
			return nil, fmt.Errorf("move corrupt data file: %w", rerr)
		}
		log.Printf("store %s: unreadable data file moved to %s, seeding defaults: %v", name, backup, err)
	default:
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	if seed == nil {
		seed = []T{}
	}
	if err := s.write(seed); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the backing file location.
func (s *Store[T]) Path() string {
	return s.path
}

func isSyntaxError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, errEmptyFile)
}

var errEmptyFile = errors.New("empty data file")

func (s *Store[T]) read() ([]T, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errEmptyFile
	}
	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

// write replaces the file atomically via a temp file in the same directory.
func (s *Store[T]) write(records []T) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace data file: %w", err)
	}
	return nil
}

func (s *Store[T]) List(ctx context.Context) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *Store[T]) Create(ctx context.Context, rec T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	records, err := s.read()
	if err != nil {
		return zero, err
	}
	records, created := store.Append(records, rec)
	if err := s.write(records); err != nil {
		return zero, err
	}
	return created, nil
}

func (s *Store[T]) Replace(ctx context.Context, rec T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	records, err := s.read()
	if err != nil {
		return zero, err
	}
	records, err = store.ReplaceByID(records, rec)
	if err != nil {
		return zero, err
	}
	if err := s.write(records); err != nil {
		return zero, err
	}
	return rec, nil
}

func (s *Store[T]) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read()
	if err != nil {
		return err
	}
	records, err = store.RemoveByID(records, id)
	if err != nil {
		return err
	}
	return s.write(records)
}

var _ store.Repository[models.Tool] = (*Store[models.Tool])(nil)
