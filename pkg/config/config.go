package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Log       LogConfig       `koanf:"log"`
	LLM       LLMConfig       `koanf:"llm"`
	Workspace WorkspaceConfig `koanf:"workspace"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Web       WebConfig       `koanf:"web"`
	Company   CompanyConfig   `koanf:"company"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json, text
}

type LLMConfig struct {
	Provider  string `koanf:"provider"` // anthropic, ollama
	Model     string `koanf:"model"`
	BaseURL   string `koanf:"base_url"`
	APIKey    string `koanf:"api_key"`
	MaxTokens int    `koanf:"max_tokens"`
}

// WorkspaceConfig holds the on-disk layout of a Boardroom workspace.
type WorkspaceConfig struct {
	Root         string `koanf:"root"`
	PersonasDir  string `koanf:"personas_dir"`
	ContextDir   string `koanf:"context_dir"`
	MeetingsDir  string `koanf:"meetings_dir"`
	DataDir      string `koanf:"data_dir"`
	DecisionsLog string `koanf:"decisions_log"`
	AuditDB      string `koanf:"audit_db"`
	CatalogFile  string `koanf:"catalog_file"`
}

type TelemetryConfig struct {
	Exporter     string `koanf:"exporter"` // stdout, otlp, none
	OTLPEndpoint string `koanf:"otlp_endpoint"`
	OTLPInsecure bool   `koanf:"otlp_insecure"`
}

type WebConfig struct {
	Addr string `koanf:"addr"`
}

// CompanyConfig carries human-facing identity used inside prompts.
type CompanyConfig struct {
	Name      string `koanf:"name"`
	Principal string `koanf:"principal"` // the human the agents address
}

func Load(path string) (*Config, error) {
	return LoadWithOverrides(path, nil)
}

// LoadWithOverrides loads configuration and then applies CLI-style
// "key=value" overrides on top of file and environment values. Keys use
// dotted form, e.g. llm.provider=ollama.
func LoadWithOverrides(path string, overrides []string) (*Config, error) {
	k := koanf.New(".")

	// Defaults
	k.Set("log.level", "info")
	k.Set("log.format", "text")
	k.Set("llm.provider", "anthropic")
	k.Set("llm.model", "claude-sonnet-4-20250514")
	k.Set("llm.max_tokens", 2048)

	k.Set("workspace.root", ".")
	k.Set("workspace.personas_dir", "personas")
	k.Set("workspace.context_dir", "context")
	k.Set("workspace.meetings_dir", "meetings")
	k.Set("workspace.data_dir", "data")
	k.Set("workspace.decisions_log", "decisions/decisions.json")
	k.Set("workspace.audit_db", "data/audit.db")
	k.Set("workspace.catalog_file", "")

	k.Set("telemetry.exporter", "none")
	k.Set("web.addr", ":8088")
	k.Set("company.name", "Rinse Repeat Labs")
	k.Set("company.principal", "the Architect")

	// 1. Load from file
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// 2. Load from ENV. Only the first underscore separates the section from
	// the key, so underscore-bearing keys stay reachable:
	// BOARDROOM_LLM_MAX_TOKENS -> llm.max_tokens.
	if err := k.Load(env.Provider("BOARDROOM_", ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, "BOARDROOM_"))
		section, rest, ok := strings.Cut(key, "_")
		if !ok {
			return key
		}
		return section + "." + rest
	}), nil); err != nil {
		return nil, err
	}

	// 3. CLI overrides win over everything.
	for _, override := range overrides {
		key, value, ok := strings.Cut(override, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("config: invalid override %q, want key=value", override)
		}
		if err := k.Set(strings.TrimSpace(key), value); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Resolve joins a workspace-relative path onto the workspace root.
// Absolute paths pass through untouched.
func (w WorkspaceConfig) Resolve(rel string) string {
	if rel == "" || filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(w.Root, rel)
}

// PersonasPath returns the absolute personas directory.
func (w WorkspaceConfig) PersonasPath() string { return w.Resolve(w.PersonasDir) }

// ContextPath returns the absolute context directory.
func (w WorkspaceConfig) ContextPath() string { return w.Resolve(w.ContextDir) }

// MeetingsPath returns the absolute meetings directory.
func (w WorkspaceConfig) MeetingsPath() string { return w.Resolve(w.MeetingsDir) }

// DataPath returns the absolute record-store directory.
func (w WorkspaceConfig) DataPath() string { return w.Resolve(w.DataDir) }

// DecisionsPath returns the absolute decision log file.
func (w WorkspaceConfig) DecisionsPath() string { return w.Resolve(w.DecisionsLog) }

// AuditDBPath returns the absolute call-audit database file.
func (w WorkspaceConfig) AuditDBPath() string { return w.Resolve(w.AuditDB) }
