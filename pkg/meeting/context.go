package meeting

import (
	"os"
	"path/filepath"
	"strings"
)

// contextSeparator joins concatenated context categories and extra blocks.
const contextSeparator = "\n\n---\n\n"

// ContextSource resolves a context category name to background text. A
// missing category yields empty text, not an error.
type ContextSource interface {
	Load(category string) string
}

// DirContext loads context categories from markdown files in a directory,
// one file per category (company.md, active_projects.md, pending_ideas.md).
type DirContext struct {
	dir string
}

// NewDirContext creates a context source over dir.
func NewDirContext(dir string) *DirContext {
	return &DirContext{dir: dir}
}

// Load returns the contents of <dir>/<category>.md, or empty if absent.
func (d *DirContext) Load(category string) string {
	raw, err := os.ReadFile(filepath.Join(d.dir, category+".md"))
	if err != nil {
		return ""
	}
	return string(raw)
}

// loadContext concatenates the named categories, skipping empty ones,
// joined by a visible separator.
func loadContext(source ContextSource, categories []string) string {
	if source == nil {
		return ""
	}
	var parts []string
	for _, category := range categories {
		if text := source.Load(category); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, contextSeparator)
}
