// Package storage holds uploaded event images on local disk. Records keep a
// relative path that clients resolve against the server's base URL.
package storage

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// urlPrefix is the path segment under which stored images are served.
const urlPrefix = "uploads/events"

type ImageStore struct {
	root string
}

// NewImageStore creates the upload directory if needed and returns a store
// writing into it.
func NewImageStore(root string) (*ImageStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &ImageStore{root: root}, nil
}

// Dir returns the directory the store writes into, for static file serving.
func (s *ImageStore) Dir() string {
	return s.root
}

// Save writes the uploaded file under a generated unique name, keeping the
// original extension, and returns the relative path to record on the event.
func (s *ImageStore) Save(src io.Reader, originalName string) (string, error) {
	name := uuid.NewString() + strings.ToLower(filepath.Ext(originalName))

	dst, err := os.Create(filepath.Join(s.root, name))
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", fmt.Errorf("write image file: %w", err)
	}

	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("close image file: %w", err)
	}

	return path.Join(urlPrefix, name), nil
}

// Remove deletes the file a previously returned relative path points at.
func (s *ImageStore) Remove(relPath string) error {
	return os.Remove(filepath.Join(s.root, filepath.Base(relPath)))
}
