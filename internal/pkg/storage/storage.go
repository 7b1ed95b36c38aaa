package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/ManuelReschke/HouseHub/internal/pkg/env"
)

// Upload namespaces below the storage root
const (
	NamespaceHouses      = "houses"
	NamespaceHouseImages = "house_images"
	NamespaceProfiles    = "profiles"
)

var ErrOutsideRoot = errors.New("path escapes the upload directory")

// Storage writes uploads to the local filesystem. Every path it hands out is
// relative to Root and uses forward slashes.
type Storage struct {
	Root string
}

func New(root string) *Storage {
	return &Storage{Root: root}
}

// FromEnv uses UPLOAD_DIR, defaulting to ./uploads
func FromEnv() *Storage {
	return New(env.GetEnv("UPLOAD_DIR", "uploads"))
}

// Save copies an uploaded multipart file into namespace under a fresh name
func (s *Storage) Save(namespace string, fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer src.Close()
	return s.SaveReader(namespace, fh.Filename, src)
}

// SaveReader stores data as namespace/<uuid><ext of filename>
func (s *Storage) SaveReader(namespace, filename string, data io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	rel := namespace + "/" + uuid.NewString() + ext

	fullPath, err := s.Path(rel)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory for %s: %w", rel, err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file %s: %w", fullPath, err)
	}
	written, err := io.Copy(file, data)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to write file %s: %w", fullPath, err)
	}

	log.Infof("[Storage] Saved %s (%d bytes)", rel, written)
	return rel, nil
}

// Path resolves a stored relative path to its location on disk
func (s *Storage) Path(rel string) (string, error) {
	root, err := filepath.Abs(s.Root)
	if err != nil {
		return "", err
	}
	full := filepath.Join(root, filepath.FromSlash(rel))
	if full != root && !strings.HasPrefix(full, root+string(filepath.Separator)) {
		return "", ErrOutsideRoot
	}
	return full, nil
}

// Delete removes a stored file. Missing files are not an error.
func (s *Storage) Delete(rel string) error {
	if rel == "" {
		return nil
	}
	full, err := s.Path(rel)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file %s: %w", full, err)
	}
	return nil
}

// DerivedPath returns rel with its extension replaced and suffix appended,
// e.g. house_images/a.jpg -> house_images/a_thumb.webp
func DerivedPath(rel, suffix, ext string) string {
	base := strings.TrimSuffix(rel, filepath.Ext(rel))
	return base + suffix + ext
}
