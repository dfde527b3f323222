// Package storage stores uploaded media on exactly one backend per
// deployment: the local filesystem or an S3-compatible bucket.
//
//	disk, err := storage.Connect()          // picks STORAGE_DISK
//	err = disk.Put(ctx, "1700000000000-a.png", r, "image/png")
//	url := disk.URL("1700000000000-a.png")
package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when the named object does not exist.
	ErrNotFound = errors.New("storage: object not found")
	// ErrInvalidPath is returned for empty, absolute or escaping paths.
	ErrInvalidPath = errors.New("storage: invalid path")
)

// Object describes one stored file.
type Object struct {
	Name         string    `json:"name"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
	URL          string    `json:"url"`
}

// Disk is implemented by every backend.
type Disk interface {
	// Name is the driver name, "local" or "s3".
	Name() string
	Put(ctx context.Context, path string, r io.Reader, contentType string) error
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Exists(ctx context.Context, path string) (bool, error)
	// Delete removes path, returning ErrNotFound when it is absent.
	Delete(ctx context.Context, path string) error
	// List returns the objects directly under dir, newest first.
	List(ctx context.Context, dir string) ([]Object, error)
	// URL is the public address of path.
	URL(path string) string
}

// Servable disks can serve their own files over HTTP.
type Servable interface {
	Handler() http.Handler
}

// cleanPath normalises p to a relative slash path that cannot escape the
// disk root.
func cleanPath(p string) (string, error) {
	p = strings.TrimSpace(p)
	if p == "" || strings.HasPrefix(p, "/") || strings.Contains(p, "\\") {
		return "", ErrInvalidPath
	}
	c := path.Clean(p)
	if c == "." || c == ".." || strings.HasPrefix(c, "../") {
		return "", ErrInvalidPath
	}
	return c, nil
}
