package util

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

func DoesFileExist(filename string) bool {
	_, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false
	}
	return true
}

// Resolver turns asset names into file paths by probing a list of search directories.
type Resolver struct {
	searchPaths []string
}

func NewResolver(searchPaths ...string) *Resolver {
	return &Resolver{searchPaths: searchPaths}
}

// NewResolverFromEnv splits a path list like "assets:../shared/assets" (os.PathListSeparator).
func NewResolverFromEnv(name string) *Resolver {
	value := os.Getenv(name)
	if value == "" {
		return NewResolver()
	}
	return NewResolver(filepath.SplitList(value)...)
}

func (r *Resolver) AddSearchPath(dir string) {
	r.searchPaths = append(r.searchPaths, dir)
}

func (r *Resolver) SearchPaths() []string {
	return r.searchPaths
}

// FullPath returns the first existing match for name. Absolute paths and paths relative to the
// working directory win over the search directories.
func (r *Resolver) FullPath(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", errors.New("resolver: empty file name")
	}
	if DoesFileExist(name) {
		return name, nil
	}
	if filepath.IsAbs(name) {
		return "", errors.Errorf("resolver: %s does not exist", name)
	}
	for _, dir := range r.searchPaths {
		candidate := filepath.Join(dir, name)
		if DoesFileExist(candidate) {
			return candidate, nil
		}
	}
	return "", errors.Errorf("resolver: %s not found in %v", name, r.searchPaths)
}
