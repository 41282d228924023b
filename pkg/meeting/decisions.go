package meeting

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Decision is one entry in the append-only decision log.
type Decision struct {
	ID          int    `json:"id"`
	Date        string `json:"date"`
	Topic       string `json:"topic"`
	Decision    string `json:"decision"`
	Rationale   string `json:"rationale"`
	Owner       string `json:"owner"`
	Status      string `json:"status"`
	MeetingType string `json:"meeting_type,omitempty"`
}

// DecisionLog is an append-only JSON array file. Each appended entry gets a
// sequential integer id when it has none. Every mutation rewrites the whole
// file.
type DecisionLog struct {
	mu   sync.Mutex
	path string
}

// NewDecisionLog creates a log backed by path.
func NewDecisionLog(path string) *DecisionLog {
	return &DecisionLog{path: path}
}

// Append adds a decision and returns it with its assigned id.
func (l *DecisionLog) Append(d Decision) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	decisions, err := l.load()
	if err != nil {
		return Decision{}, err
	}
	if d.ID == 0 {
		d.ID = len(decisions) + 1
	}
	if d.Date == "" {
		d.Date = time.Now().Format("2006-01-02")
	}
	if d.Status == "" {
		d.Status = "pending"
	}
	decisions = append(decisions, d)

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return Decision{}, err
	}
	raw, err := json.MarshalIndent(decisions, "", "  ")
	if err != nil {
		return Decision{}, err
	}
	if err := os.WriteFile(l.path, raw, 0o644); err != nil {
		return Decision{}, err
	}
	return d, nil
}

// List returns all logged decisions in append order.
func (l *DecisionLog) List() ([]Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load()
}

func (l *DecisionLog) load() ([]Decision, error) {
	raw, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var decisions []Decision
	if err := json.Unmarshal(raw, &decisions); err != nil {
		return nil, err
	}
	return decisions, nil
}
