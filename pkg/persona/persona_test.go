package persona

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleMarkdown = `# Agent: DevLead

## Role
Engineering team leadership and code quality.

## Expertise
- Go, distributed systems
- CI/CD pipelines

## Responsibilities
Code reviews, sprint planning.

## Communication Style
Direct and pragmatic.

## System Prompt
You are the Development Lead. Answer from an engineering perspective.
`

func TestParse(t *testing.T) {
	p := Parse("dev_lead", sampleMarkdown)

	if p.Name != "DevLead" {
		t.Errorf("expected name DevLead, got %q", p.Name)
	}
	if p.Role != "Engineering team leadership and code quality." {
		t.Errorf("unexpected role %q", p.Role)
	}
	if p.CommunicationStyle != "Direct and pragmatic." {
		t.Errorf("unexpected communication style %q", p.CommunicationStyle)
	}
	if p.SystemPrompt != "You are the Development Lead. Answer from an engineering perspective." {
		t.Errorf("unexpected system prompt %q", p.SystemPrompt)
	}
}

func TestParseCaseInsensitiveHeadings(t *testing.T) {
	raw := "# Agent: X\n\n## ROLE\nthe role\n\n## system prompt\nthe prompt\n"
	p := Parse("x", raw)
	if p.Role != "the role" {
		t.Errorf("expected case-insensitive role match, got %q", p.Role)
	}
	if p.SystemPrompt != "the prompt" {
		t.Errorf("expected case-insensitive system prompt match, got %q", p.SystemPrompt)
	}
}

func TestParseMissingSections(t *testing.T) {
	p := Parse("minimal", "# Agent: Minimal\n\n## Role\nonly a role\n")
	if p.Role != "only a role" {
		t.Errorf("unexpected role %q", p.Role)
	}
	if p.Expertise != "" || p.Responsibilities != "" || p.SystemPrompt != "" {
		t.Errorf("missing sections should parse to empty strings: %+v", p)
	}
}

func TestParseNoTitle(t *testing.T) {
	p := Parse("anon", "## Role\nsomething\n")
	if p.Name != "" {
		t.Errorf("expected empty name, got %q", p.Name)
	}
}

func TestDisplayNameFallbacks(t *testing.T) {
	// Directory table wins.
	p := Parse("dev_lead", "# Agent: Somebody Else\n")
	if got := p.DisplayName(); got != "DevLead" {
		t.Errorf("expected directory display name DevLead, got %q", got)
	}

	// Parsed name when the id is not in the directory.
	p = Parse("intern", "# Agent: Intern\n")
	if got := p.DisplayName(); got != "Intern" {
		t.Errorf("expected parsed name Intern, got %q", got)
	}

	// Uppercased id as last resort.
	p = Parse("ghost", "")
	if got := p.DisplayName(); got != "GHOST" {
		t.Errorf("expected uppercased id GHOST, got %q", got)
	}
}

func TestDirSource(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("pm.md", "# Agent: PM\n")
	write("cito.md", "# Agent: CITO\n")
	write("notes.txt", "not a persona")

	src := NewDirSource(dir)

	ids := src.ListIDs()
	if len(ids) != 2 || ids[0] != "cito" || ids[1] != "pm" {
		t.Errorf("expected sorted ids [cito pm], got %v", ids)
	}

	if !src.Exists("pm") {
		t.Error("expected pm to exist")
	}
	if src.Exists("ghost") {
		t.Error("did not expect ghost to exist")
	}

	raw, err := src.Load("pm")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if raw != "# Agent: PM\n" {
		t.Errorf("unexpected raw content %q", raw)
	}
}

func TestDirSourceMissing(t *testing.T) {
	src := NewDirSource(filepath.Join(t.TempDir(), "nope"))
	if ids := src.ListIDs(); len(ids) != 0 {
		t.Errorf("expected empty list for missing dir, got %v", ids)
	}
	if _, err := src.Load("pm"); err == nil {
		t.Fatal("expected error for missing persona")
	}
}

func TestRoster(t *testing.T) {
	roster := Roster()
	if len(roster) != 12 {
		t.Fatalf("expected 12 roster entries, got %d", len(roster))
	}
	if roster[0].ID != "ceo" {
		t.Errorf("expected ceo first, got %s", roster[0].ID)
	}
	for _, info := range roster {
		if info.DisplayName == "" {
			t.Errorf("roster entry %s missing display name", info.ID)
		}
	}
}
