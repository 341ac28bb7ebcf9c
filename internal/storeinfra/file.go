package storeinfra

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/goliatone/go-itemstore/item"
)

const lockRetryDelay = 50 * time.Millisecond

// FileStore keeps the collection in a single JSON file guarded by an
// advisory lock file next to it. The lock covers one Load or one Persist,
// not the pair. mu excludes goroutines sharing this handle; the flock only
// excludes other handles.
type FileStore struct {
	mu          sync.RWMutex
	path        string
	fileLock    *flock.Flock
	lockTimeout time.Duration
}

// NewFileStore creates a store backed by the file at path.
func NewFileStore(path string, lockTimeout time.Duration) *FileStore {
	if lockTimeout <= 0 {
		lockTimeout = 3 * time.Second
	}
	return &FileStore{
		path:        path,
		fileLock:    flock.New(path + ".lock"),
		lockTimeout: lockTimeout,
	}
}

// Load reads the whole collection. A missing or empty file is an empty collection.
func (s *FileStore) Load(ctx context.Context) ([]item.Item, error) {
	unlock, err := s.acquire(ctx, false)
	if err != nil {
		return nil, err
	}
	defer unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []item.Item{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return decodeCollection(data)
}

// Persist overwrites the file with items, writing a temp file and renaming it into place.
func (s *FileStore) Persist(ctx context.Context, items []item.Item) error {
	data, err := encodeCollection(items)
	if err != nil {
		return err
	}

	unlock, err := s.acquire(ctx, true)
	if err != nil {
		return err
	}
	defer unlock()

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".items-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpFile := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpFile, s.path); err != nil {
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}

// Close releases the lock handle.
func (s *FileStore) Close() error {
	return s.fileLock.Unlock()
}

func (s *FileStore) acquire(ctx context.Context, exclusive bool) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	if exclusive {
		s.mu.Lock()
	} else {
		s.mu.RLock()
	}
	release := func() {
		if exclusive {
			s.mu.Unlock()
		} else {
			s.mu.RUnlock()
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	var (
		locked bool
		err    error
	)
	if exclusive {
		locked, err = s.fileLock.TryLockContext(ctx, lockRetryDelay)
	} else {
		locked, err = s.fileLock.TryRLockContext(ctx, lockRetryDelay)
	}
	if err != nil {
		release()
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		release()
		return nil, errors.New("could not acquire file lock")
	}

	return func() {
		_ = s.fileLock.Unlock()
		release()
	}, nil
}
