// Package storage keeps uploaded product images.
package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ErrUploadsDisabled is returned by stores that only accept image URLs.
var ErrUploadsDisabled = errors.New("image uploads are disabled")

// ImageStore persists an uploaded image and returns the reference that is
// stored in the product's image field.
type ImageStore interface {
	Save(file *multipart.FileHeader) (string, error)
}

// DiskStore writes uploads to a local directory, naming each file
// "<unix millis>-<original name>".
type DiskStore struct {
	Dir string
	Now func() time.Time
}

// NewDiskStore creates dir if needed and returns a store writing into it.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %s: %w", dir, err)
	}
	return &DiskStore{Dir: dir, Now: time.Now}, nil
}

// Save copies the upload to disk and returns its slash-separated path
// relative to the working directory, e.g. "uploads/1700000000000-pen.jpg".
func (s *DiskStore) Save(file *multipart.FileHeader) (string, error) {
	name := sanitizeName(file.Filename)
	if name == "" {
		return "", fmt.Errorf("upload has no usable file name")
	}
	now := s.Now
	if now == nil {
		now = time.Now
	}
	stored := strconv.FormatInt(now().UnixMilli(), 10) + "-" + name

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.OpenFile(filepath.Join(s.Dir, stored), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", stored, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", fmt.Errorf("failed to write %s: %w", stored, err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", stored, err)
	}
	return path.Join(filepath.ToSlash(s.Dir), stored), nil
}

// sanitizeName drops any directory part a client put in the file name.
func sanitizeName(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	name = path.Base(name)
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return strings.TrimSpace(name)
}

// URLStore accepts no uploads; products must reference their image by URL.
type URLStore struct{}

func (URLStore) Save(*multipart.FileHeader) (string, error) {
	return "", ErrUploadsDisabled
}
