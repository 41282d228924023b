package meeting

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

const attributionLine = "*Meeting generated by Boardroom Orchestrator*"

var (
	slugStripRe    = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugCollapseRe = regexp.MustCompile(`[-\s]+`)
)

// Slug converts a topic into a lowercase, hyphen-delimited filename
// component. Punctuation is stripped and whitespace/hyphen runs collapse
// into single hyphens, so the same topic always yields the same slug.
func Slug(text string) string {
	text = strings.ToLower(text)
	text = slugStripRe.ReplaceAllString(text, "")
	text = slugCollapseRe.ReplaceAllString(text, "-")
	return strings.Trim(text, "-")
}

// renderInput carries everything the renderer needs. Participant and
// facilitator names are display names, already resolved.
type renderInput struct {
	MeetingName     string
	Topic           string
	Responses       []Response
	Synthesis       string
	FacilitatorName string
	Participants    []string
	StartedAt       time.Time
	OneOnOne        bool
}

// renderTranscript produces the canonical markdown document: title,
// metadata block, agenda, one subsection per response in collection order,
// optional synthesis, attribution line.
func renderTranscript(in renderInput) string {
	lines := []string{
		"# " + in.MeetingName + ": " + in.Topic,
		"**Date:** " + in.StartedAt.Format("2006-01-02"),
	}
	if !in.OneOnOne {
		lines = append(lines,
			"**Participants:** "+strings.Join(in.Participants, ", "),
			"**Facilitator:** "+in.FacilitatorName,
		)
	}
	lines = append(lines,
		"",
		"---",
		"",
		"## Agenda",
		in.Topic,
		"",
		"---",
		"",
		"## Discussion",
		"",
	)

	for _, resp := range in.Responses {
		lines = append(lines,
			"### "+resp.DisplayName,
			resp.Text,
			"",
		)
	}

	if in.Synthesis != "" {
		lines = append(lines,
			"---",
			"",
			"## Synthesis (by "+in.FacilitatorName+")",
			in.Synthesis,
			"",
		)
	}

	lines = append(lines,
		"---",
		"",
		attributionLine,
	)

	return strings.Join(lines, "\n")
}

// TranscriptInfo describes one persisted transcript, parsed back from its
// filename.
type TranscriptInfo struct {
	Date     string
	Type     string
	Topic    string
	Filename string
	Path     string
}

// TranscriptStore persists rendered transcripts under deterministic
// filenames: {date}-{meetingType}-{slug(topic)}.md. Writes are whole-file
// overwrites; a name collision means the last writer wins.
type TranscriptStore struct {
	dir string
}

// NewTranscriptStore creates a store over dir.
func NewTranscriptStore(dir string) *TranscriptStore {
	return &TranscriptStore{dir: dir}
}

// Save writes a transcript, creating parent directories if absent, and
// returns the path written.
func (s *TranscriptStore) Save(meetingType, topic, content string, at time.Time) (string, error) {
	filename := at.Format("2006-01-02") + "-" + meetingType + "-" + Slug(topic) + ".md"
	path := filepath.Join(s.dir, filename)
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// Load returns the content of a transcript by filename.
func (s *TranscriptStore) Load(filename string) (string, error) {
	raw, err := os.ReadFile(filepath.Join(s.dir, filename))
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// ListRecent returns up to limit transcripts, most recent first, with date,
// type, and topic parsed back from the filename. limit <= 0 means no limit.
// A missing directory yields an empty list.
func (s *TranscriptStore) ListRecent(limit int) []TranscriptInfo {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".md") {
			names = append(names, entry.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	var meetings []TranscriptInfo
	for _, name := range names {
		stem := strings.TrimSuffix(name, ".md")
		// Filename layout: YYYY-MM-DD-type-topic-slug.md
		parts := strings.SplitN(stem, "-", 5)
		if len(parts) < 4 {
			continue
		}
		info := TranscriptInfo{
			Date:     parts[0] + "-" + parts[1] + "-" + parts[2],
			Type:     parts[3],
			Topic:    "untitled",
			Filename: name,
			Path:     filepath.Join(s.dir, name),
		}
		if len(parts) > 4 {
			info.Topic = strings.ReplaceAll(parts[4], "-", " ")
		}
		meetings = append(meetings, info)
		if limit > 0 && len(meetings) >= limit {
			break
		}
	}
	return meetings
}
