package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const maxAttachmentSize = 20 << 20 // 20 MiB

var (
	ErrFileTooLarge = errors.New("file exceeds maximum attachment size")
	ErrNotFound     = errors.New("stored file not found")
)

// LocalStore keeps chat attachments on the local filesystem. Stored names
// are uuid-prefixed so colliding uploads never overwrite each other, and
// lookups refuse anything that is not a bare filename.
type LocalStore struct {
	dir string
}

// NewLocalStore creates the upload directory if needed and returns a store
// rooted there.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Save persists an uploaded file and returns the name it was stored under.
func (s *LocalStore) Save(header *multipart.FileHeader) (string, error) {
	if header.Size > maxAttachmentSize {
		return "", ErrFileTooLarge
	}

	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name := uuid.New().String() + "_" + sanitizeFilename(header.Filename)
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create stored file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(src, maxAttachmentSize)); err != nil {
		return "", fmt.Errorf("write stored file: %w", err)
	}

	return name, nil
}

// Path resolves a stored filename to its on-disk location.
func (s *LocalStore) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) {
		return "", ErrNotFound
	}

	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); err != nil {
		return "", ErrNotFound
	}
	return path, nil
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, " ", "_")
	if name == "." || name == string(filepath.Separator) || name == "" {
		name = "attachment"
	}
	return name
}
