package engine

import (
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
)

// AssetSource resolves asset-relative, slash-separated paths
type AssetSource interface {
	ReadFile(name string) ([]byte, error)

	// List returns asset paths under dir with the given suffix, sorted
	List(dir, suffix string) ([]string, error)
}

// FSSource serves assets from any fs.FS (embedded, directory, test map)
type FSSource struct {
	FS fs.FS
}

// NewDirSource serves assets from a directory on disk
func NewDirSource(dir string) *FSSource {
	return &FSSource{FS: os.DirFS(dir)}
}

// ReadFile reads one asset
func (s *FSSource) ReadFile(name string) ([]byte, error) {
	return fs.ReadFile(s.FS, path.Clean(name))
}

// List walks dir for files ending in suffix
func (s *FSSource) List(dir, suffix string) ([]string, error) {
	var out []string
	err := fs.WalkDir(s.FS, path.Clean(dir), func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(p, suffix) {
			out = append(out, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

// AssetResource exposes the asset source to systems and actions
type AssetResource struct {
	Source AssetSource
}
