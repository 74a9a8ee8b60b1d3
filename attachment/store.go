package attachment

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FileStore keeps uploaded files on local disk under uuid-derived names so
// caller-supplied filenames never touch the filesystem.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("attachment: create upload dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Save streams the upload to disk and returns the stored name.
func (s *FileStore) Save(r io.Reader, originalName string) (string, error) {
	name := uuid.NewString()
	if ext := strings.ToLower(filepath.Ext(originalName)); ext != "" {
		name += ext
	}

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("attachment: create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("attachment: write file: %w", err)
	}
	return name, nil
}

// Open returns a reader over a stored file. The caller closes it.
func (s *FileStore) Open(storedName string) (io.ReadCloser, error) {
	// Reject anything that could traverse out of the upload dir.
	if storedName != filepath.Base(storedName) {
		return nil, fmt.Errorf("attachment: invalid stored name %q", storedName)
	}
	f, err := os.Open(filepath.Join(s.dir, storedName))
	if err != nil {
		return nil, fmt.Errorf("attachment: open file: %w", err)
	}
	return f, nil
}

func (s *FileStore) Remove(storedName string) error {
	if storedName != filepath.Base(storedName) {
		return fmt.Errorf("attachment: invalid stored name %q", storedName)
	}
	if err := os.Remove(filepath.Join(s.dir, storedName)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("attachment: remove file: %w", err)
	}
	return nil
}
