package netlist

import (
	"os"
	"path/filepath"
)

// An ArtifactStore holds generated netlists keyed by netlist name.
type ArtifactStore interface {
	// Has reports whether an artifact exists for the given name.
	Has(name string) bool

	// Path returns where the artifact for the given name lives, whether
	// or not it exists yet.
	Path(name string) string
}

// DirStore keeps artifacts as files in a single directory, one
// <name><SourceExt> file per netlist.
type DirStore struct {
	Dir string
}

// NewDirStore returns a store rooted at dir.
func NewDirStore(dir string) *DirStore {
	return &DirStore{Dir: dir}
}

// Has reports whether the artifact file exists.
func (s *DirStore) Has(name string) bool {
	_, err := os.Stat(s.Path(name))
	return err == nil
}

// Path returns the artifact file path for a netlist name.
func (s *DirStore) Path(name string) string {
	return filepath.Join(s.Dir, name+SourceExt)
}
