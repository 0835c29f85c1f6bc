package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const MaxImageSize = 5 * 1024 * 1024

var (
	ErrNotImage = errors.New("Only image files are allowed!")
	ErrTooLarge = errors.New("File exceeds the 5MB limit")
)

// Uploads writes multipart images under Dir and returns paths of the form
// "<base>/<field>-<uuid>.<ext>", which is also the URL path they are served on.
type Uploads struct {
	Dir     string
	MaxSize int64
}

func NewUploads(dir string) (*Uploads, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Uploads{Dir: dir, MaxSize: MaxImageSize}, nil
}

// SaveImage stores fh, naming it after the form field it arrived in.
func (u *Uploads) SaveImage(field string, fh *multipart.FileHeader) (string, error) {
	if !strings.HasPrefix(fh.Header.Get("Content-Type"), "image") {
		return "", ErrNotImage
	}
	if u.MaxSize > 0 && fh.Size > u.MaxSize {
		return "", ErrTooLarge
	}

	ext := strings.TrimPrefix(filepath.Ext(fh.Filename), ".")
	if ext == "" {
		ext = "bin"
	}
	name := fmt.Sprintf("%s-%s.%s", field, uuid.NewString(), ext)

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(u.Dir, name))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	return path.Join(u.URLPrefix(), name), nil
}

// URLPrefix is the first path segment stored paths start with.
func (u *Uploads) URLPrefix() string {
	return filepath.ToSlash(filepath.Base(u.Dir))
}

// SaveImages stores every file in fhs, stopping at the first failure.
func (u *Uploads) SaveImages(field string, fhs []*multipart.FileHeader) ([]string, error) {
	paths := make([]string, 0, len(fhs))
	for _, fh := range fhs {
		p, err := u.SaveImage(field, fh)
		if err != nil {
			u.Remove(paths...)
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// Remove deletes previously stored paths. Empty and already missing paths
// are skipped.
func (u *Uploads) Remove(paths ...string) error {
	var errs []error
	for _, p := range paths {
		if p == "" {
			continue
		}
		err := os.Remove(filepath.Join(u.Dir, path.Base(p)))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
