package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.LLM.Provider != "anthropic" {
		t.Errorf("expected default provider anthropic, got %s", cfg.LLM.Provider)
	}
	if cfg.LLM.MaxTokens != 2048 {
		t.Errorf("expected default max_tokens 2048, got %d", cfg.LLM.MaxTokens)
	}
	if cfg.Company.Principal != "the Architect" {
		t.Errorf("expected default principal, got %s", cfg.Company.Principal)
	}
	if cfg.Workspace.PersonasDir != "personas" {
		t.Errorf("expected default personas dir, got %s", cfg.Workspace.PersonasDir)
	}
}

func TestLoadEnv(t *testing.T) {
	os.Setenv("BOARDROOM_LLM_PROVIDER", "ollama")
	defer os.Unsetenv("BOARDROOM_LLM_PROVIDER")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.LLM.Provider != "ollama" {
		t.Errorf("expected provider ollama from env, got %s", cfg.LLM.Provider)
	}
}

func TestLoadEnvUnderscoreKeys(t *testing.T) {
	t.Setenv("BOARDROOM_LLM_MAX_TOKENS", "4096")
	t.Setenv("BOARDROOM_LLM_BASE_URL", "http://localhost:11434")
	t.Setenv("BOARDROOM_WORKSPACE_PERSONAS_DIR", "people")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LLM.MaxTokens != 4096 {
		t.Errorf("expected max_tokens 4096 from env, got %d", cfg.LLM.MaxTokens)
	}
	if cfg.LLM.BaseURL != "http://localhost:11434" {
		t.Errorf("expected base_url from env, got %s", cfg.LLM.BaseURL)
	}
	if cfg.Workspace.PersonasDir != "people" {
		t.Errorf("expected personas dir from env, got %s", cfg.Workspace.PersonasDir)
	}
}

func TestLoadFile(t *testing.T) {
	tmpDir := t.TempDir()

	raw := `
llm:
  model: "claude-opus-4-20250514"
  max_tokens: 4096
workspace:
  root: "/srv/boardroom"
web:
  addr: ":9090"
`
	path := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LLM.Model != "claude-opus-4-20250514" {
		t.Errorf("expected model from file, got %s", cfg.LLM.Model)
	}
	if cfg.LLM.MaxTokens != 4096 {
		t.Errorf("expected max_tokens 4096, got %d", cfg.LLM.MaxTokens)
	}
	if cfg.Web.Addr != ":9090" {
		t.Errorf("expected web addr :9090, got %s", cfg.Web.Addr)
	}
}

func TestLoadWithOverrides(t *testing.T) {
	cfg, err := LoadWithOverrides("", []string{
		"llm.provider=ollama",
		"web.addr=:7000",
	})
	if err != nil {
		t.Fatalf("LoadWithOverrides failed: %v", err)
	}
	if cfg.LLM.Provider != "ollama" {
		t.Errorf("expected provider override, got %s", cfg.LLM.Provider)
	}
	if cfg.Web.Addr != ":7000" {
		t.Errorf("expected web addr override, got %s", cfg.Web.Addr)
	}

	if _, err := LoadWithOverrides("", []string{"no-equals-sign"}); err == nil {
		t.Error("expected error for malformed override")
	}
}

func TestWorkspaceResolve(t *testing.T) {
	w := WorkspaceConfig{Root: "/srv/boardroom", PersonasDir: "personas"}
	if got := w.PersonasPath(); got != filepath.Join("/srv/boardroom", "personas") {
		t.Errorf("unexpected personas path %s", got)
	}
	if got := w.Resolve("/abs/dir"); got != "/abs/dir" {
		t.Errorf("absolute path should pass through, got %s", got)
	}
}
