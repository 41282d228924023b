// Package persona loads agent persona definitions from markdown files.
//
// A persona file looks like:
//
//	# Agent: DevLead
//
//	## Role
//	Engineering team leadership and code quality.
//
//	## System Prompt
//	You are the Development Lead of ...
//
// Section headings are matched case-insensitively. Missing sections parse to
// empty strings; only a missing file is an error.
package persona

import (
	"regexp"
	"strings"
)

// Profile is the parsed, immutable persona definition for one agent.
type Profile struct {
	ID                 string
	Name               string
	Role               string
	Expertise          string
	Responsibilities   string
	CommunicationStyle string
	SystemPrompt       string
}

var (
	nameRe = regexp.MustCompile(`(?m)^#\s+Agent:\s*(.+)$`)

	sectionRes = map[string]*regexp.Regexp{
		"role":                sectionRe("Role"),
		"expertise":           sectionRe("Expertise"),
		"responsibilities":    sectionRe("Responsibilities"),
		"communication_style": sectionRe("Communication Style"),
		"system_prompt":       sectionRe("System Prompt"),
	}
)

// sectionRe builds a pattern matching a `## Heading` section, running from
// the heading to the next `##` heading or end of input.
func sectionRe(heading string) *regexp.Regexp {
	return regexp.MustCompile(`(?is)##\s+` + regexp.QuoteMeta(heading) + `\s*\n(.*?)(?:\n##\s|\z)`)
}

// Parse extracts a Profile from raw persona markdown.
func Parse(id, raw string) Profile {
	p := Profile{ID: id}

	if m := nameRe.FindStringSubmatch(raw); m != nil {
		p.Name = strings.TrimSpace(m[1])
	}

	sections := map[string]*string{
		"role":                &p.Role,
		"expertise":           &p.Expertise,
		"responsibilities":    &p.Responsibilities,
		"communication_style": &p.CommunicationStyle,
		"system_prompt":       &p.SystemPrompt,
	}
	for key, dst := range sections {
		if m := sectionRes[key].FindStringSubmatch(raw); m != nil {
			*dst = strings.TrimSpace(m[1])
		}
	}

	return p
}

// DisplayName resolves the human-facing name for this profile: the directory
// table wins, then the parsed name, then the uppercased id.
func (p Profile) DisplayName() string {
	if info, ok := Lookup(p.ID); ok && info.DisplayName != "" {
		return info.DisplayName
	}
	if p.Name != "" {
		return p.Name
	}
	return strings.ToUpper(p.ID)
}
