package agent

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jllopis/boardroom/pkg/errors"
	"github.com/jllopis/boardroom/pkg/llm"
	"github.com/jllopis/boardroom/pkg/persona"
)

func testProfile() persona.Profile {
	return persona.Profile{
		ID:           "cfo",
		Name:         "CFO",
		SystemPrompt: "You are the CFO. Guard the runway.",
	}
}

func TestRespondPromptAssembly(t *testing.T) {
	var got llm.ChatRequest
	mock := &llm.MockProvider{
		Response: "acknowledged",
		ChatFunc: func(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
			got = req
			return &llm.ChatResponse{Content: "acknowledged"}, nil
		},
	}
	a := New(testProfile(), mock)

	out, err := a.Respond(context.Background(), "What is our burn rate?", "Q3 budget is tight", "CEO: we need numbers")
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if out != "acknowledged" {
		t.Errorf("response = %q", out)
	}
	if len(got.Messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(got.Messages))
	}
	system := got.Messages[0]
	if system.Role != llm.RoleSystem {
		t.Errorf("first message role = %q", system.Role)
	}
	if !strings.HasPrefix(system.Content, "You are the CFO.") {
		t.Errorf("system prompt missing: %q", system.Content)
	}
	if !strings.Contains(system.Content, "## Current Context\n\nQ3 budget is tight") {
		t.Errorf("context block missing: %q", system.Content)
	}
	user := got.Messages[1]
	if user.Role != llm.RoleUser {
		t.Errorf("second message role = %q", user.Role)
	}
	if !strings.HasPrefix(user.Content, "## Prior Discussion in This Meeting\n\nCEO: we need numbers") {
		t.Errorf("prior block missing: %q", user.Content)
	}
	if !strings.Contains(user.Content, "\n\n---\n\n") {
		t.Errorf("separator missing: %q", user.Content)
	}
	if !strings.HasSuffix(user.Content, "What is our burn rate?") {
		t.Errorf("prompt not last: %q", user.Content)
	}
	if mock.Calls != 1 {
		t.Errorf("provider calls = %d, want 1", mock.Calls)
	}
}

func TestRespondOmitsEmptyBlocks(t *testing.T) {
	var got llm.ChatRequest
	mock := &llm.MockProvider{
		ChatFunc: func(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
			got = req
			return &llm.ChatResponse{Content: "ok"}, nil
		},
	}
	a := New(testProfile(), mock)

	if _, err := a.Respond(context.Background(), "hello", "", ""); err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if got.Messages[0].Content != "You are the CFO. Guard the runway." {
		t.Errorf("system altered: %q", got.Messages[0].Content)
	}
	if got.Messages[1].Content != "hello" {
		t.Errorf("user altered: %q", got.Messages[1].Content)
	}
}

func TestRespondProviderError(t *testing.T) {
	mock := &llm.FailingMockProvider{Err: errors.New(errors.CodeTimeout, "deadline", nil)}
	a := New(testProfile(), mock)

	_, err := a.Respond(context.Background(), "hello", "", "")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.HasCode(err, errors.CodeModelCall) {
		t.Errorf("error code: %v", err)
	}
	if mock.Calls != 1 {
		t.Errorf("provider calls = %d, want 1 (no retry)", mock.Calls)
	}
}

func TestStandupUpdate(t *testing.T) {
	var got llm.ChatRequest
	mock := &llm.MockProvider{
		ChatFunc: func(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
			got = req
			return &llm.ChatResponse{Content: "**Done:** books closed"}, nil
		},
	}
	a := New(testProfile(), mock)

	out, err := a.StandupUpdate(context.Background(), "end of quarter")
	if err != nil {
		t.Fatalf("StandupUpdate: %v", err)
	}
	if out != "**Done:** books closed" {
		t.Errorf("out = %q", out)
	}
	for _, field := range []string{"**Done:**", "**Doing:**", "**Blocked:**"} {
		if !strings.Contains(got.Messages[1].Content, field) {
			t.Errorf("standup prompt missing %s", field)
		}
	}
	if !strings.Contains(got.Messages[0].Content, "end of quarter") {
		t.Errorf("context not threaded into system prompt")
	}
}

func writePersona(t *testing.T, dir, id, name string) {
	t.Helper()
	body := "# Agent: " + name + "\n\n## Role\n\nTester\n\n## System Prompt\n\nYou are " + name + ".\n"
	if err := os.WriteFile(filepath.Join(dir, id+".md"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRegistryGetCaches(t *testing.T) {
	dir := t.TempDir()
	writePersona(t, dir, "cfo", "CFO")

	r := NewRegistry(persona.NewDirSource(dir), &llm.MockProvider{Response: "ok"})

	a1, err := r.Get("cfo")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	a2, err := r.Get("cfo")
	if err != nil {
		t.Fatalf("Get again: %v", err)
	}
	if a1 != a2 {
		t.Error("Get returned different instances for same id")
	}
}

func TestRegistryGetMissing(t *testing.T) {
	r := NewRegistry(persona.NewDirSource(t.TempDir()), &llm.MockProvider{})
	_, err := r.Get("ghost")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.HasCode(err, errors.CodePersonaNotFound) {
		t.Errorf("error code: %v", err)
	}
}

func TestRegistryGetMultiple(t *testing.T) {
	dir := t.TempDir()
	writePersona(t, dir, "ceo", "CEO")
	writePersona(t, dir, "cfo", "CFO")

	r := NewRegistry(persona.NewDirSource(dir), &llm.MockProvider{})

	agents, err := r.GetMultiple([]string{"cfo", "ceo"})
	if err != nil {
		t.Fatalf("GetMultiple: %v", err)
	}
	if len(agents) != 2 || agents[0].ID() != "cfo" || agents[1].ID() != "ceo" {
		t.Errorf("order not preserved: %v", agents)
	}

	if _, err := r.GetMultiple([]string{"ceo", "ghost"}); err == nil {
		t.Error("expected error for missing id")
	}
}

func TestRegistryListAvailable(t *testing.T) {
	dir := t.TempDir()
	writePersona(t, dir, "ceo", "CEO")
	writePersona(t, dir, "cfo", "CFO")

	r := NewRegistry(persona.NewDirSource(dir), &llm.MockProvider{})
	ids := r.ListAvailable()
	if len(ids) != 2 || ids[0] != "ceo" || ids[1] != "cfo" {
		t.Errorf("ids = %v", ids)
	}
}
