package db

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const lockRetryDelay = 50 * time.Millisecond

// File stores each key as <dir>/<key>.json. Reads and writes of a key are
// serialized across processes by an advisory lock on <dir>/<key>.lock.
type File struct {
	dir string
}

// NewFile creates a file store rooted at dir, creating it if needed.
func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &File{dir: dir}, nil
}

func (f *File) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

func (f *File) lock(key string) *flock.Flock {
	return flock.New(filepath.Join(f.dir, key+".lock"))
}

func (f *File) Get(ctx context.Context, key string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}

	fl := f.lock(key)
	if _, err := fl.TryRLockContext(ctx, lockRetryDelay); err != nil {
		return nil, fmt.Errorf("lock %s: %w", key, err)
	}
	defer fl.Unlock()

	data, err := os.ReadFile(f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

// Set writes to a temp file and renames it over the old value.
func (f *File) Set(ctx context.Context, key string, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}

	fl := f.lock(key)
	if _, err := fl.TryLockContext(ctx, lockRetryDelay); err != nil {
		return fmt.Errorf("lock %s: %w", key, err)
	}
	defer fl.Unlock()

	tmp, err := os.CreateTemp(f.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", key, err)
	}
	if err := os.Rename(tmpName, f.path(key)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", key, err)
	}
	return nil
}

func (f *File) Remove(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	fl := f.lock(key)
	if _, err := fl.TryLockContext(ctx, lockRetryDelay); err != nil {
		return fmt.Errorf("lock %s: %w", key, err)
	}
	defer fl.Unlock()

	if err := os.Remove(f.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

func (f *File) Close(context.Context) error {
	return nil
}
