package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// PathPrefix is the public prefix of every stored image path.
const PathPrefix = "images"

var ErrInvalidPath = errors.New("image path outside of store")

// ImageStore persists uploaded post images and releases them again.
type ImageStore interface {
	// Save stores r under a fresh name and returns its public path (images/<unixmilli>-<name>).
	Save(ctx context.Context, filename, contentType string, r io.Reader) (string, error)
	// Delete releases a path previously returned by Save. Missing images are not an error.
	Delete(ctx context.Context, filePath string) error
}

// objectName builds "<unixmilli>-<base name>" and drops any directory parts of filename.
func objectName(now time.Time, filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "image"
	}
	return fmt.Sprintf("%d-%s", now.UnixMilli(), base)
}

// nameFromPath maps a public image path back to its stored name.
func nameFromPath(filePath string) (string, error) {
	p := strings.TrimPrefix(strings.ReplaceAll(strings.TrimSpace(filePath), "\\", "/"), "/")
	p = path.Clean(p)
	rest, ok := strings.CutPrefix(p, PathPrefix+"/")
	if !ok || rest == "" || strings.Contains(rest, "/") || rest == ".." {
		return "", ErrInvalidPath
	}
	return rest, nil
}
