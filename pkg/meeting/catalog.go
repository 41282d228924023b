// Package meeting orchestrates persona-agent meetings: it resolves a
// meeting-type configuration, sequences per-agent model calls with
// accumulating shared context, optionally produces a facilitator synthesis,
// and renders a markdown transcript.
package meeting

import (
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jllopis/boardroom/pkg/errors"
)

// TypeConfig describes one meeting type: who attends by default, who
// facilitates, and which context categories are loaded.
type TypeConfig struct {
	Name                string   `yaml:"name"`
	DefaultParticipants []string `yaml:"default_participants"`
	Facilitator         string   `yaml:"facilitator"`
	ContextCategories   []string `yaml:"context_categories"`
}

var defaultParticipants = []string{"cito", "pm", "dev_lead", "qa_lead", "customer_success", "marketing"}

// builtinTypes is the static meeting-type catalog. The "custom" entry doubles
// as the fallback for unrecognized type names.
var builtinTypes = map[string]TypeConfig{
	"standup": {
		Name:                "Daily Standup",
		DefaultParticipants: defaultParticipants,
		Facilitator:         "pm",
		ContextCategories:   []string{"company"},
	},
	"strategy": {
		Name:                "Strategy Session",
		DefaultParticipants: []string{"cito", "pm", "dev_lead"},
		Facilitator:         "cito",
		ContextCategories:   []string{"company", "active_projects"},
	},
	"idea_review": {
		Name:                "Idea Review",
		DefaultParticipants: defaultParticipants,
		Facilitator:         "cito",
		ContextCategories:   []string{"company", "active_projects", "pending_ideas"},
	},
	"retro": {
		Name:                "Retrospective",
		DefaultParticipants: defaultParticipants,
		Facilitator:         "pm",
		ContextCategories:   []string{"company", "active_projects"},
	},
	"one_on_one": {
		Name:                "One-on-One",
		DefaultParticipants: []string{"cito"},
		Facilitator:         "cito",
		ContextCategories:   []string{"company"},
	},
	"project": {
		Name:                "Project Meeting",
		DefaultParticipants: []string{"pm", "dev_lead", "qa_lead", "design_lead"},
		Facilitator:         "pm",
		ContextCategories:   []string{"company", "active_projects"},
	},
	"exec": {
		Name:                "Executive Sync",
		DefaultParticipants: []string{"ceo", "cfo", "cito"},
		Facilitator:         "ceo",
		ContextCategories:   []string{"company", "active_projects"},
	},
	"tech": {
		Name:                "Technical Review",
		DefaultParticipants: []string{"cito", "dev_lead", "qa_lead", "design_lead"},
		Facilitator:         "cito",
		ContextCategories:   []string{"company", "active_projects"},
	},
	"all_hands": {
		Name:                "All Hands",
		DefaultParticipants: []string{"ceo", "cfo", "cito", "sales", "legal", "dev_lead", "design_lead", "qa_lead", "pm", "customer_success", "marketing", "support"},
		Facilitator:         "ceo",
		ContextCategories:   []string{"company"},
	},
	"custom": {
		Name:                "Custom Meeting",
		DefaultParticipants: []string{"cito", "pm", "dev_lead"},
		Facilitator:         "cito",
		ContextCategories:   []string{"company"},
	},
}

// Catalog maps meeting-type names to their configuration. Unknown names
// resolve to the "custom" entry rather than failing; callers that need to
// distinguish can check Known first.
type Catalog struct {
	types map[string]TypeConfig
}

// NewCatalog returns a catalog with the built-in meeting types.
func NewCatalog() *Catalog {
	types := make(map[string]TypeConfig, len(builtinTypes))
	for name, cfg := range builtinTypes {
		types[name] = cfg
	}
	return &Catalog{types: types}
}

// LoadOverrides merges user-defined meeting types from a YAML file on top of
// the built-in catalog. Entries replace built-ins with the same name. A
// missing file is not an error. Type names must not contain hyphens: the
// transcript filename layout is {date}-{type}-{slug}.md, so a hyphenated
// type name would be unparseable when listing transcripts. Use underscores,
// as the built-in ids do.
func (c *Catalog) LoadOverrides(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	var overrides map[string]TypeConfig
	if err := yaml.Unmarshal(raw, &overrides); err != nil {
		return err
	}
	for name := range overrides {
		if strings.Contains(name, "-") {
			return errors.New(errors.CodeInvalidInput,
				"meeting type names must not contain hyphens, use underscores", nil).
				WithContext("meeting_type", name)
		}
	}
	for name, cfg := range overrides {
		c.types[name] = cfg
	}
	return nil
}

// Resolve returns the configuration for a meeting type, falling back to the
// "custom" entry when the name is unrecognized.
func (c *Catalog) Resolve(meetingType string) TypeConfig {
	if cfg, ok := c.types[meetingType]; ok {
		return cfg
	}
	return c.types["custom"]
}

// Known reports whether the type name has an explicit catalog entry.
func (c *Catalog) Known(meetingType string) bool {
	_, ok := c.types[meetingType]
	return ok
}

// Types returns the catalog's type names in sorted order.
func (c *Catalog) Types() []string {
	names := make([]string, 0, len(c.types))
	for name := range c.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
