package meeting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jllopis/boardroom/pkg/errors"
)

func TestCatalogResolve(t *testing.T) {
	c := NewCatalog()

	standup := c.Resolve("standup")
	if standup.Name != "Daily Standup" || standup.Facilitator != "pm" {
		t.Errorf("standup = %+v", standup)
	}

	// Unknown names fall back to the custom entry.
	unknown := c.Resolve("not_a_real_type")
	custom := c.Resolve("custom")
	if unknown.Name != custom.Name || unknown.Facilitator != custom.Facilitator {
		t.Errorf("fallback mismatch: %+v vs %+v", unknown, custom)
	}
	if c.Known("not_a_real_type") {
		t.Error("unknown type reported as known")
	}
	if !c.Known("retro") {
		t.Error("retro not known")
	}
}

func TestCatalogEveryTypeHasFacilitator(t *testing.T) {
	c := NewCatalog()
	for _, name := range c.Types() {
		cfg := c.Resolve(name)
		if cfg.Facilitator == "" {
			t.Errorf("type %q has no facilitator", name)
		}
		if len(cfg.DefaultParticipants) == 0 {
			t.Errorf("type %q has no default participants", name)
		}
	}
}

func TestCatalogLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meetings.yaml")
	override := `
board_review:
  name: Board Review
  default_participants: [ceo, cfo]
  facilitator: ceo
  context_categories: [company]
standup:
  name: Morning Standup
  default_participants: [pm]
  facilitator: pm
  context_categories: [company]
`
	if err := os.WriteFile(path, []byte(override), 0o644); err != nil {
		t.Fatal(err)
	}

	c := NewCatalog()
	if err := c.LoadOverrides(path); err != nil {
		t.Fatalf("LoadOverrides: %v", err)
	}

	board := c.Resolve("board_review")
	if board.Name != "Board Review" || board.Facilitator != "ceo" {
		t.Errorf("board_review = %+v", board)
	}
	if got := c.Resolve("standup").Name; got != "Morning Standup" {
		t.Errorf("override not applied: %q", got)
	}
	// Untouched entries survive.
	if got := c.Resolve("retro").Name; got != "Retrospective" {
		t.Errorf("retro clobbered: %q", got)
	}
}

func TestCatalogLoadOverridesRejectsHyphenatedNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meetings.yaml")
	override := `
design-review:
  name: Design Review
  default_participants: [design_lead]
  facilitator: design_lead
`
	if err := os.WriteFile(path, []byte(override), 0o644); err != nil {
		t.Fatal(err)
	}

	c := NewCatalog()
	err := c.LoadOverrides(path)
	if err == nil {
		t.Fatal("expected error for hyphenated type name")
	}
	if !errors.HasCode(err, errors.CodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
	if c.Known("design-review") {
		t.Error("rejected type was merged into the catalog")
	}
}

func TestCatalogLoadOverridesMissingFile(t *testing.T) {
	c := NewCatalog()
	if err := c.LoadOverrides(filepath.Join(t.TempDir(), "absent.yaml")); err != nil {
		t.Errorf("missing file errored: %v", err)
	}
}

func TestTemplateForIsTotal(t *testing.T) {
	tests := []struct {
		id   string
		want EvaluationTemplate
	}{
		{"cito", EvalTechnical},
		{"dev_lead", EvalTechnical},
		{"qa_lead", EvalTechnical},
		{"cfo", EvalFinancial},
		{"sales", EvalSales},
		{"marketing", EvalSales},
		{"legal", EvalLegal},
		{"pm", EvalProjectManagement},
		{"design_lead", EvalDesign},
		{"support", EvalGeneric},
		{"someone_new", EvalGeneric},
		{"", EvalGeneric},
	}
	for _, tt := range tests {
		if got := templateFor(tt.id); got != tt.want {
			t.Errorf("templateFor(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}
