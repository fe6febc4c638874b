package poster

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalStore writes posters to a single directory on local disk. Each file
// gets a uuid prefix so re-uploads of the same filename never collide.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create poster directory: %w", err)
	}

	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) Save(originalFilename string, contents io.Reader) (string, error) {
	base := filepath.Base(originalFilename)
	if base == "." || base == string(filepath.Separator) {
		return "", fmt.Errorf("invalid poster filename %q", originalFilename)
	}

	name := uuid.NewString() + "." + base

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", err
	}
	defer f.Close()

	_, err = io.Copy(f, contents)
	if err != nil {
		os.Remove(f.Name())
		return "", err
	}

	return name, nil
}

func (s *LocalStore) Open(name string) (io.ReadCloser, error) {
	path, err := s.resolve(name)
	if err != nil {
		return nil, err
	}

	return os.Open(path)
}

func (s *LocalStore) Remove(name string) error {
	path, err := s.resolve(name)
	if err != nil {
		return err
	}

	err = os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	return nil
}

// resolve rejects names that would escape the poster directory.
func (s *LocalStore) resolve(name string) (string, error) {
	if name == "" || strings.Contains(name, "..") || strings.ContainsRune(name, filepath.Separator) {
		return "", fmt.Errorf("invalid poster name %q", name)
	}

	return filepath.Join(s.dir, name), nil
}
