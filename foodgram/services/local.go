package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ellavondegurechaff/foodgram/internal/domain/recipes"
)

// LocalImageStore writes recipe images under a media directory served by the
// web server at baseURL.
type LocalImageStore struct {
	root    string
	baseURL string
	subdir  string
}

var _ recipes.ImageStore = &LocalImageStore{}

func NewLocalImageStore(root, baseURL, subdir string) *LocalImageStore {
	return &LocalImageStore{
		root:    root,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		subdir:  strings.Trim(subdir, "/"),
	}
}

func (s *LocalImageStore) Save(_ context.Context, image string) (string, error) {
	if isRemoteURL(image) {
		return image, nil
	}
	img, err := ParseDataURI(image)
	if err != nil {
		return "", err
	}

	name := objectName(s.subdir, img)
	target := filepath.Join(s.root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}
	if err := os.WriteFile(target, img.Data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	return s.baseURL + "/" + name, nil
}

func (s *LocalImageStore) Owns(ref string) bool {
	return strings.HasPrefix(ref, s.baseURL+"/")
}

// Remove deletes a file this store wrote. Unknown references are ignored.
func (s *LocalImageStore) Remove(_ context.Context, ref string) error {
	name, ok := strings.CutPrefix(ref, s.baseURL+"/")
	if !ok || !strings.HasPrefix(name, s.subdir+"/") || strings.Contains(name, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(name)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove image: %w", err)
	}
	return nil
}
