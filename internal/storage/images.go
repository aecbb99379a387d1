// Package storage manages the image directory posts reference.
//
// The rest of the application treats an image as nothing more than a
// relative path string attached to a post; this package is the only place
// that touches the files themselves.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ImageStore saves uploaded images into a single directory and removes
// them when their post goes away.
type ImageStore struct {
	dir string
}

// NewImageStore creates the directory if needed and returns a store
// rooted at it.
func NewImageStore(dir string) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: creating image directory %s: %w", dir, err)
	}
	return &ImageStore{dir: dir}, nil
}

// Dir returns the root directory, for wiring the static file server.
func (s *ImageStore) Dir() string {
	return s.dir
}

// Save writes the upload under "Image-<name>" and returns the relative
// path to store on the post. The name is flattened with filepath.Base so a
// crafted filename can't escape the image directory.
func (s *ImageStore) Save(name string, r io.Reader) (string, error) {
	name = "Image-" + filepath.Base(name)
	dst := filepath.Join(s.dir, name)

	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("storage: creating %s: %w", dst, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("storage: writing %s: %w", dst, err)
	}

	return filepath.ToSlash(filepath.Join("images", name)), nil
}

// Remove deletes the file a stored path refers to. Paths are the relative
// "images/..." strings produced by Save; anything else is rejected rather
// than resolved.
//
// Callers treat removal as best-effort: a post deletion must not fail just
// because its image file is already gone.
func (s *ImageStore) Remove(relPath string) error {
	name := filepath.Base(filepath.FromSlash(relPath))
	if name == "." || name == string(filepath.Separator) || strings.Contains(name, "..") {
		return fmt.Errorf("storage: refusing to remove %q", relPath)
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("storage: removing %s: %w", relPath, err)
	}
	return nil
}
