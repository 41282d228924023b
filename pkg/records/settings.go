package records

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// CompanySettings are the company-wide knobs an executive agent can change.
type CompanySettings struct {
	CompanyName    string `json:"company_name"`
	CompanyTagline string `json:"company_tagline"`
	Industry       string `json:"industry"`
}

// SettingsStore persists company settings as a single JSON object.
type SettingsStore struct {
	mu       sync.Mutex
	path     string
	defaults CompanySettings
}

// NewSettingsStore creates the settings store under dataDir.
func NewSettingsStore(dataDir string, defaults CompanySettings) *SettingsStore {
	return &SettingsStore{
		path:     filepath.Join(dataDir, "settings.json"),
		defaults: defaults,
	}
}

// Get returns the current settings, falling back to defaults for anything
// unset.
func (s *SettingsStore) Get() (CompanySettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := s.defaults
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return settings, err
	}
	if err := json.Unmarshal(raw, &settings); err != nil {
		return s.defaults, err
	}
	if settings.CompanyName == "" {
		settings.CompanyName = s.defaults.CompanyName
	}
	if settings.CompanyTagline == "" {
		settings.CompanyTagline = s.defaults.CompanyTagline
	}
	if settings.Industry == "" {
		settings.Industry = s.defaults.Industry
	}
	return settings, nil
}

// Update applies mutate to the settings and rewrites the file.
func (s *SettingsStore) Update(mutate func(*CompanySettings)) (CompanySettings, error) {
	settings, err := s.Get()
	if err != nil {
		return settings, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	mutate(&settings)
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return settings, err
	}
	raw, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return settings, err
	}
	return settings, os.WriteFile(s.path, raw, 0o644)
}

// AgentCustomization carries per-agent overrides layered on top of the
// built-in agent directory: persona tweaks an executive agent can apply at
// runtime.
type AgentCustomization struct {
	AgentID            string   `json:"agent_id"`
	DisplayName        string   `json:"display_name,omitempty"`
	RoleTitle          string   `json:"role_title,omitempty"`
	Description        string   `json:"description,omitempty"`
	Responsibilities   []string `json:"responsibilities,omitempty"`
	Metrics            []string `json:"metrics,omitempty"`
	CustomInstructions string   `json:"custom_instructions,omitempty"`
	ReportsTo          string   `json:"reports_to,omitempty"`
	DirectReports      []string `json:"direct_reports,omitempty"`
}

// CustomizationsStore persists per-agent customizations keyed by agent id.
type CustomizationsStore struct {
	mu   sync.Mutex
	path string
}

// NewCustomizationsStore creates the customizations store under dataDir.
func NewCustomizationsStore(dataDir string) *CustomizationsStore {
	return &CustomizationsStore{path: filepath.Join(dataDir, "agent_customizations.json")}
}

func (s *CustomizationsStore) load() (map[string]AgentCustomization, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]AgentCustomization{}, nil
		}
		return nil, err
	}
	if len(raw) == 0 {
		return map[string]AgentCustomization{}, nil
	}
	var all map[string]AgentCustomization
	if err := json.Unmarshal(raw, &all); err != nil {
		return nil, err
	}
	return all, nil
}

// Get returns the customization for an agent, zero-valued if none exists.
func (s *CustomizationsStore) Get(agentID string) (AgentCustomization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load()
	if err != nil {
		return AgentCustomization{}, err
	}
	c := all[agentID]
	c.AgentID = agentID
	return c, nil
}

// Update applies mutate to an agent's customization and rewrites the file.
func (s *CustomizationsStore) Update(agentID string, mutate func(*AgentCustomization)) (AgentCustomization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load()
	if err != nil {
		return AgentCustomization{}, err
	}
	c := all[agentID]
	c.AgentID = agentID
	mutate(&c)
	c.AgentID = agentID
	all[agentID] = c

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return c, err
	}
	raw, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return c, err
	}
	return c, os.WriteFile(s.path, raw, 0o644)
}

// List returns all customizations keyed by agent id.
func (s *CustomizationsStore) List() (map[string]AgentCustomization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}
