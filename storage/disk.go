package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"simpleTwitter/domain"
)

// DiskHost stores images in a local directory. The http server serves that
// directory under URLPrefix. It is meant for development setups without an object store.
type DiskHost struct {
	Dir       string
	URLPrefix string
}

var _ domain.ImageHost = &DiskHost{}

// NewDiskHost returns a DiskHost writing to dir and linking to urlPrefix.
func NewDiskHost(dir, urlPrefix string) *DiskHost {
	return &DiskHost{
		Dir:       dir,
		URLPrefix: strings.TrimRight(urlPrefix, "/"),
	}
}

// Put writes the image to disk and returns the URL it is served under.
func (h *DiskHost) Put(ctx context.Context, key, contentType string, r io.Reader, size int64) (string, error) {
	path, err := h.path(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, r); err != nil {
		return "", err
	}
	return h.URLPrefix + "/" + key, nil
}

// Remove deletes the image from disk. Removing a missing image is not an error.
func (h *DiskHost) Remove(ctx context.Context, key string) error {
	path, err := h.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// path maps an object key to a file below Dir, refusing keys that would escape it.
func (h *DiskHost) path(key string) (string, error) {
	if !fs.ValidPath(key) {
		return "", errors.New("storage: invalid image key " + key)
	}
	return filepath.Join(h.Dir, filepath.FromSlash(key)), nil
}
