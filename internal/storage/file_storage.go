package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Extension whitelists for uploaded classroom media.
var (
	DocumentExtensions = []string{".pdf", ".jpg", ".jpeg", ".png"}
	VideoExtensions    = []string{".mp4", ".mov", ".mkv", ".webm"}
)

// ErrUnsupportedFileType is returned when an upload's extension is not in
// the whitelist for its resource kind.
type ErrUnsupportedFileType struct {
	Extension string
	Allowed   []string
}

func (e *ErrUnsupportedFileType) Error() string {
	return fmt.Sprintf("unsupported file type %q, allowed: %s", e.Extension, strings.Join(e.Allowed, ", "))
}

// FileStorage persists uploaded media.
type FileStorage interface {
	// Save stores the upload under the given subdirectory and returns the
	// stored relative path.
	Save(file *multipart.FileHeader, subdir string, allowed []string) (string, error)
	Remove(path string) error
}

// DiskStorage stores uploads on the local filesystem under a base directory.
type DiskStorage struct {
	baseDir string
}

func NewDiskStorage(baseDir string) *DiskStorage {
	return &DiskStorage{baseDir: baseDir}
}

func ValidateExtension(filename string, allowed []string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, ok := range allowed {
		if ext == ok {
			return nil
		}
	}
	return &ErrUnsupportedFileType{Extension: ext, Allowed: allowed}
}

func (s *DiskStorage) Save(file *multipart.FileHeader, subdir string, allowed []string) (string, error) {
	if err := ValidateExtension(file.Filename, allowed); err != nil {
		return "", err
	}

	dir := filepath.Join(s.baseDir, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	name := uuid.NewString() + ext
	dst := filepath.Join(dir, name)

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return filepath.Join(subdir, name), nil
}

func (s *DiskStorage) Remove(path string) error {
	if path == "" {
		return nil
	}
	full := filepath.Join(s.baseDir, path)
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove file: %w", err)
	}
	return nil
}
