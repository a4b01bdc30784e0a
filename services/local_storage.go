package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// LocalStorage keeps uploaded objects as plain files in a single
// directory, named by a generated key.
type LocalStorage struct {
	dir string
}

func NewLocalStorage(dir string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %s: %w", dir, err)
	}
	return &LocalStorage{dir: dir}, nil
}

func (s *LocalStorage) Kind() string {
	return StorageKindPath
}

// Store writes to a temp file and renames it into place, so a key is
// either fully retrievable or absent.
func (s *LocalStorage) Store(ctx context.Context, r io.Reader, size int64, contentType, originalName string) (StorageRef, error) {
	key := fmt.Sprintf("%d-%s%s", time.Now().UnixNano(), uuid.New().String(), filepath.Ext(originalName))

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return StorageRef{}, fmt.Errorf("failed to create temp file: %w", err)
	}

	written, err := io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil && size > 0 && written != size {
		err = fmt.Errorf("short write: got %d bytes, expected %d", written, size)
	}
	if err != nil {
		os.Remove(tmp.Name())
		return StorageRef{}, err
	}

	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, key)); err != nil {
		os.Remove(tmp.Name())
		return StorageRef{}, fmt.Errorf("failed to place object: %w", err)
	}

	return StorageRef{Kind: StorageKindPath, Key: key}, nil
}

func (s *LocalStorage) Delete(ctx context.Context, ref StorageRef) error {
	path, err := s.objectPath(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (s *LocalStorage) Resolve(ctx context.Context, ref StorageRef) (string, error) {
	return s.objectPath(ref)
}

func (s *LocalStorage) objectPath(ref StorageRef) (string, error) {
	// keys are generated flat names; anything else never came from Store
	if ref.Key == "" || filepath.Base(ref.Key) != ref.Key {
		return "", fmt.Errorf("invalid storage key %q", ref.Key)
	}
	return filepath.Join(s.dir, ref.Key), nil
}
