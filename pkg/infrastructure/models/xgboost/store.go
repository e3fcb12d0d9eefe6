package xgboost

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/vsinha/salesdash/pkg/domain/entities"
	"github.com/vsinha/salesdash/pkg/domain/repositories"
)

// DefaultPattern names an item's model file
const DefaultPattern = "modelo_%s.json"

// Store resolves per-item model files under a directory.
// Every lookup re-reads the artifact; nothing is cached.
type Store struct {
	dir     string
	pattern string
}

// NewStore creates a store; an empty pattern uses DefaultPattern
func NewStore(dir, pattern string) *Store {
	if pattern == "" {
		pattern = DefaultPattern
	}
	return &Store{dir: dir, pattern: pattern}
}

// Verify interface compliance
var _ repositories.ModelRepository = (*Store)(nil)

// Path returns the model file location for an item
func (s *Store) Path(code entities.ItemCode) string {
	return filepath.Join(s.dir, fmt.Sprintf(s.pattern, code))
}

// FindModel loads the item's model, returning entities.ErrModelNotFound when
// the file does not exist
func (s *Store) FindModel(ctx context.Context, code entities.ItemCode) (repositories.Regressor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if code == "" || strings.ContainsAny(string(code), `/\`) || strings.Contains(string(code), "..") {
		return nil, fmt.Errorf("%w: invalid item code %q", entities.ErrModelNotFound, code)
	}

	path := s.Path(code)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w for item %s", entities.ErrModelNotFound, code)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read model %s: %w", path, err)
	}

	model, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load model %s: %w", path, err)
	}
	return model, nil
}
