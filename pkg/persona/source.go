package persona

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jllopis/boardroom/pkg/errors"
)

// Source resolves agent ids to raw persona markdown.
type Source interface {
	Exists(id string) bool
	Load(id string) (string, error)
	ListIDs() []string
}

// DirSource reads personas from `<dir>/<id>.md`.
type DirSource struct {
	dir string
}

// NewDirSource creates a directory-backed persona source.
func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

func (s *DirSource) path(id string) string {
	return filepath.Join(s.dir, id+".md")
}

// Exists reports whether a persona file is present for the id.
func (s *DirSource) Exists(id string) bool {
	info, err := os.Stat(s.path(id))
	return err == nil && !info.IsDir()
}

// Load returns the raw persona markdown for the id.
// A missing file yields a PERSONA_NOT_FOUND error.
func (s *DirSource) Load(id string) (string, error) {
	raw, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.New(errors.CodePersonaNotFound,
				"persona file not found for agent "+id, err).
				WithContext("agent_id", id).
				WithContext("path", s.path(id))
		}
		return "", err
	}
	return string(raw), nil
}

// ListIDs returns the sorted agent ids with persona files.
// A missing directory yields an empty list, not an error.
func (s *DirSource) ListIDs() []string {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil
	}
	var ids []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".md") {
			ids = append(ids, strings.TrimSuffix(name, ".md"))
		}
	}
	sort.Strings(ids)
	return ids
}

var _ Source = (*DirSource)(nil)
