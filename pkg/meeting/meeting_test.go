package meeting

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jllopis/boardroom/pkg/agent"
	"github.com/jllopis/boardroom/pkg/errors"
	"github.com/jllopis/boardroom/pkg/llm"
	"github.com/jllopis/boardroom/pkg/persona"
)

// scriptedProvider returns canned responses by call index and captures every
// request for prompt assertions.
type scriptedProvider struct {
	responses []string
	failAt    int // call index that fails, -1 for never
	requests  []llm.ChatRequest
}

func newScriptedProvider(responses ...string) *scriptedProvider {
	return &scriptedProvider{responses: responses, failAt: -1}
}

func (p *scriptedProvider) Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	index := len(p.requests)
	p.requests = append(p.requests, req)
	if p.failAt >= 0 && index == p.failAt {
		return nil, errors.New(errors.CodeModelCall, "scripted failure", nil)
	}
	if index < len(p.responses) {
		return &llm.ChatResponse{Content: p.responses[index]}, nil
	}
	return &llm.ChatResponse{Content: fmt.Sprintf("resp-from-%d", index)}, nil
}

func writeTestPersona(t *testing.T, dir, id, name string) {
	t.Helper()
	body := "# Agent: " + name + "\n\n## Role\n\n" + name + " things\n\n## System Prompt\n\nYou are " + name + ".\n"
	if err := os.WriteFile(filepath.Join(dir, id+".md"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

type testEnv struct {
	orch     *Orchestrator
	provider *scriptedProvider
	meetings string
}

func newTestEnv(t *testing.T, provider *scriptedProvider, ids ...string) *testEnv {
	t.Helper()
	personas := t.TempDir()
	for _, id := range ids {
		name := strings.ToUpper(id[:1]) + id[1:]
		writeTestPersona(t, personas, id, name)
	}
	meetings := t.TempDir()
	registry := agent.NewRegistry(persona.NewDirSource(personas), provider)
	orch := NewOrchestrator(registry, NewTranscriptStore(meetings))
	return &testEnv{orch: orch, provider: provider, meetings: meetings}
}

func TestStandupOrderAndNoSynthesis(t *testing.T) {
	provider := newScriptedProvider("pm-update", "dev_lead-update")
	env := newTestEnv(t, provider, "pm", "dev_lead")

	m, err := env.orch.NewMeeting("standup", "Daily sync", WithParticipants("pm", "dev_lead"))
	if err != nil {
		t.Fatalf("NewMeeting: %v", err)
	}
	transcript, err := m.RunStandup(context.Background(), nil)
	if err != nil {
		t.Fatalf("RunStandup: %v", err)
	}

	responses := m.Responses()
	if len(responses) != 2 {
		t.Fatalf("responses = %d, want 2", len(responses))
	}
	if responses[0].AgentID != "pm" || responses[0].Text != "pm-update" {
		t.Errorf("responses[0] = %+v", responses[0])
	}
	if responses[1].AgentID != "dev_lead" || responses[1].Text != "dev_lead-update" {
		t.Errorf("responses[1] = %+v", responses[1])
	}
	if m.Synthesis() != "" {
		t.Errorf("standup produced a synthesis: %q", m.Synthesis())
	}

	pmIdx := strings.Index(transcript, "### PM")
	devIdx := strings.Index(transcript, "### DevLead")
	if pmIdx < 0 || devIdx < 0 || pmIdx > devIdx {
		t.Errorf("section order wrong: pm=%d dev=%d", pmIdx, devIdx)
	}
	if strings.Contains(transcript, "## Synthesis") {
		t.Error("standup transcript contains a synthesis section")
	}
}

func TestDiscussionAccumulation(t *testing.T) {
	provider := newScriptedProvider("resp-from-0", "resp-from-1", "synth")
	env := newTestEnv(t, provider, "a", "b")

	m, err := env.orch.NewMeeting("custom", "Pricing",
		WithParticipants("a", "b"), WithFacilitator("a"))
	if err != nil {
		t.Fatalf("NewMeeting: %v", err)
	}
	transcript, err := m.RunDiscussion(context.Background(), nil)
	if err != nil {
		t.Fatalf("RunDiscussion: %v", err)
	}

	if len(provider.requests) != 3 {
		t.Fatalf("calls = %d, want 3", len(provider.requests))
	}

	// First participant sees no prior discussion.
	firstUser := provider.requests[0].Messages[1].Content
	if strings.Contains(firstUser, "Prior Discussion") {
		t.Error("first participant saw prior discussion")
	}
	if strings.Contains(firstUser, "resp-from-1") {
		t.Error("first participant saw a later response")
	}

	// Second participant sees exactly the first response.
	secondUser := provider.requests[1].Messages[1].Content
	if !strings.Contains(secondUser, "resp-from-0") {
		t.Errorf("second participant missing prior response: %q", secondUser)
	}
	if strings.Contains(secondUser, "resp-from-1") {
		t.Error("second participant saw its own response")
	}

	// Synthesis sees everything and goes to the facilitator.
	synthUser := provider.requests[2].Messages[1].Content
	for _, want := range []string{"resp-from-0", "resp-from-1"} {
		if !strings.Contains(synthUser, want) {
			t.Errorf("synthesis prompt missing %q", want)
		}
	}

	if m.Synthesis() != "synth" {
		t.Errorf("synthesis = %q", m.Synthesis())
	}
	synthIdx := strings.Index(transcript, "## Synthesis (by A)")
	if synthIdx < 0 {
		t.Fatalf("transcript missing synthesis header:\n%s", transcript)
	}
	if !strings.Contains(transcript[synthIdx:], "synth") {
		t.Error("synthesis text not under its header")
	}
}

func TestDiscussionResponseOrder(t *testing.T) {
	provider := newScriptedProvider()
	env := newTestEnv(t, provider, "a", "b", "c")

	m, err := env.orch.NewMeeting("custom", "Order check",
		WithParticipants("c", "a", "b"), WithFacilitator("a"))
	if err != nil {
		t.Fatalf("NewMeeting: %v", err)
	}
	if _, err := m.RunDiscussion(context.Background(), nil); err != nil {
		t.Fatalf("RunDiscussion: %v", err)
	}

	want := []string{"c", "a", "b"}
	responses := m.Responses()
	if len(responses) != len(want) {
		t.Fatalf("responses = %d, want %d", len(responses), len(want))
	}
	for i, id := range want {
		if responses[i].AgentID != id {
			t.Errorf("responses[%d].AgentID = %q, want %q", i, responses[i].AgentID, id)
		}
	}
}

func TestDiscussionFailFast(t *testing.T) {
	provider := newScriptedProvider()
	provider.failAt = 1
	env := newTestEnv(t, provider, "a", "b", "c")

	m, err := env.orch.NewMeeting("custom", "Doomed",
		WithParticipants("a", "b", "c"), WithFacilitator("a"))
	if err != nil {
		t.Fatalf("NewMeeting: %v", err)
	}
	_, err = m.RunDiscussion(context.Background(), nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.HasCode(err, errors.CodeModelCall) {
		t.Errorf("error code: %v", err)
	}
	// Second call failed: no third participant, no synthesis.
	if len(provider.requests) != 2 {
		t.Errorf("calls = %d, want 2", len(provider.requests))
	}
	// No partial transcript persisted.
	entries, readErr := os.ReadDir(env.meetings)
	if readErr != nil {
		t.Fatal(readErr)
	}
	if len(entries) != 0 {
		t.Errorf("partial transcript written: %v", entries)
	}
}

func TestIdeaReviewFailFast(t *testing.T) {
	provider := newScriptedProvider()
	env := newTestEnv(t, provider, "cito", "pm")

	m, err := env.orch.NewMeeting("idea_review", "New widget",
		WithParticipants("cito", "pm"), WithFacilitator("cito"))
	if err != nil {
		t.Fatalf("NewMeeting: %v", err)
	}
	_, err = m.RunIdeaReview(context.Background(), "", "", nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.HasCode(err, errors.CodeIdeaContentMissing) {
		t.Errorf("error code: %v", err)
	}
	if len(provider.requests) != 0 {
		t.Errorf("model calls made before precondition check: %d", len(provider.requests))
	}
}

func TestIdeaReviewChecklistsAndSynthesis(t *testing.T) {
	provider := newScriptedProvider("cfo-take", "dev-take", "synth")
	env := newTestEnv(t, provider, "cfo", "dev_lead")

	m, err := env.orch.NewMeeting("idea_review", "Flutter rewrite",
		WithParticipants("cfo", "dev_lead"), WithFacilitator("cfo"))
	if err != nil {
		t.Fatalf("NewMeeting: %v", err)
	}
	if _, err := m.RunIdeaReview(context.Background(), "", "Rewrite the app in Flutter.", nil); err != nil {
		t.Fatalf("RunIdeaReview: %v", err)
	}

	cfoPrompt := provider.requests[0].Messages[1].Content
	if !strings.Contains(cfoPrompt, "Revenue potential") {
		t.Errorf("cfo prompt missing financial checklist: %q", cfoPrompt)
	}
	devPrompt := provider.requests[1].Messages[1].Content
	if !strings.Contains(devPrompt, "Technical feasibility") {
		t.Errorf("dev_lead prompt missing technical checklist: %q", devPrompt)
	}
	for _, prompt := range []string{cfoPrompt, devPrompt} {
		if !strings.Contains(prompt, "Rewrite the app in Flutter.") {
			t.Error("idea content missing from evaluation prompt")
		}
	}

	synthPrompt := provider.requests[2].Messages[1].Content
	for _, want := range []string{"GO-WITH-MODIFICATIONS", "NO-GO", "Executive Summary"} {
		if !strings.Contains(synthPrompt, want) {
			t.Errorf("idea synthesis prompt missing %q", want)
		}
	}
	// Idea document rides along in the shared context.
	if !strings.Contains(provider.requests[0].Messages[0].Content, "## Idea Under Review") {
		t.Error("idea context block missing from system prompt")
	}
}

func TestIdeaReviewFromFile(t *testing.T) {
	provider := newScriptedProvider("take", "synth")
	env := newTestEnv(t, provider, "cito")

	ideaPath := filepath.Join(t.TempDir(), "idea.md")
	if err := os.WriteFile(ideaPath, []byte("Ship a desktop client."), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := env.orch.NewMeeting("idea_review", "Desktop client",
		WithParticipants("cito"), WithFacilitator("cito"))
	if err != nil {
		t.Fatalf("NewMeeting: %v", err)
	}
	if _, err := m.RunIdeaReview(context.Background(), ideaPath, "", nil); err != nil {
		t.Fatalf("RunIdeaReview: %v", err)
	}
	if !strings.Contains(provider.requests[0].Messages[1].Content, "Ship a desktop client.") {
		t.Error("file content not in evaluation prompt")
	}

	m2, err := env.orch.NewMeeting("idea_review", "Missing",
		WithParticipants("cito"), WithFacilitator("cito"))
	if err != nil {
		t.Fatalf("NewMeeting: %v", err)
	}
	_, err = m2.RunIdeaReview(context.Background(), filepath.Join(t.TempDir(), "nope.md"), "", nil)
	if !errors.HasCode(err, errors.CodeIdeaContentMissing) {
		t.Errorf("missing file error: %v", err)
	}
}

func TestOneOnOne(t *testing.T) {
	provider := newScriptedProvider("candid take")
	env := newTestEnv(t, provider, "dev_lead", "pm")

	m, err := env.orch.NewMeeting("one_on_one", "Career growth",
		WithParticipants("dev_lead", "pm"), WithFacilitator("dev_lead"))
	if err != nil {
		t.Fatalf("NewMeeting: %v", err)
	}
	transcript, err := m.RunOneOnOne(context.Background(), "", nil)
	if err != nil {
		t.Fatalf("RunOneOnOne: %v", err)
	}

	// Participant list forced to one, no synthesis.
	if len(provider.requests) != 1 {
		t.Errorf("calls = %d, want 1", len(provider.requests))
	}
	if len(m.Responses()) != 1 || m.Responses()[0].AgentID != "dev_lead" {
		t.Errorf("responses = %+v", m.Responses())
	}
	if strings.Contains(transcript, "## Synthesis") {
		t.Error("one-on-one transcript has a synthesis section")
	}
	if strings.Contains(transcript, "**Participants:**") || strings.Contains(transcript, "**Facilitator:**") {
		t.Error("one-on-one transcript has participant metadata")
	}
	if !strings.Contains(provider.requests[0].Messages[1].Content, DefaultPrincipal) {
		t.Error("one-on-one prompt does not address the principal")
	}
}

func TestOneOnOneSubTopic(t *testing.T) {
	provider := newScriptedProvider("take")
	env := newTestEnv(t, provider, "pm")

	m, err := env.orch.NewMeeting("one_on_one", "Q3 check-in", WithParticipants("pm"), WithFacilitator("pm"))
	if err != nil {
		t.Fatalf("NewMeeting: %v", err)
	}
	if _, err := m.RunOneOnOne(context.Background(), "hiring plans", nil); err != nil {
		t.Fatalf("RunOneOnOne: %v", err)
	}
	if !strings.Contains(provider.requests[0].Messages[1].Content, "hiring plans") {
		t.Error("sub-topic missing from prompt")
	}
}

func TestProjectMeeting(t *testing.T) {
	provider := newScriptedProvider("status", "synth")
	env := newTestEnv(t, provider, "pm")

	m, err := env.orch.NewMeeting("project", "Atlas Migration",
		WithParticipants("pm"), WithFacilitator("pm"))
	if err != nil {
		t.Fatalf("NewMeeting: %v", err)
	}
	if _, err := m.RunProject(context.Background(), nil); err != nil {
		t.Fatalf("RunProject: %v", err)
	}

	system := provider.requests[0].Messages[0].Content
	if !strings.Contains(system, "## Project Focus") || !strings.Contains(system, "Atlas Migration") {
		t.Errorf("project focus block missing: %q", system)
	}
	prompt := provider.requests[0].Messages[1].Content
	for _, want := range []string{"**Status:**", "**Blockers:**", "**Dependencies:**", "**Asks:**"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("project prompt missing %q", want)
		}
	}
}

func TestRetrospectivePrompt(t *testing.T) {
	provider := newScriptedProvider("reflection", "synth")
	env := newTestEnv(t, provider, "pm")

	m, err := env.orch.NewMeeting("retro", "Atlas Migration",
		WithParticipants("pm"), WithFacilitator("pm"))
	if err != nil {
		t.Fatalf("NewMeeting: %v", err)
	}
	if _, err := m.RunRetrospective(context.Background(), nil); err != nil {
		t.Fatalf("RunRetrospective: %v", err)
	}
	prompt := provider.requests[0].Messages[1].Content
	for _, want := range []string{"What went well", "What didn't go well", "Lessons learned", "Action items"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("retro prompt missing %q", want)
		}
	}
}

func TestUnknownTypeFallsBackToCustom(t *testing.T) {
	provider := newScriptedProvider()
	env := newTestEnv(t, provider, "cito", "pm", "dev_lead")

	unknown, err := env.orch.NewMeeting("not_a_real_type", "Topic")
	if err != nil {
		t.Fatalf("unknown type errored: %v", err)
	}
	custom, err := env.orch.NewMeeting("custom", "Topic")
	if err != nil {
		t.Fatalf("NewMeeting custom: %v", err)
	}

	if strings.Join(unknown.Participants(), ",") != strings.Join(custom.Participants(), ",") {
		t.Errorf("participants differ: %v vs %v", unknown.Participants(), custom.Participants())
	}
	if unknown.Facilitator() != custom.Facilitator() {
		t.Errorf("facilitators differ: %q vs %q", unknown.Facilitator(), custom.Facilitator())
	}
}

func TestFacilitatorMustResolve(t *testing.T) {
	provider := newScriptedProvider()
	env := newTestEnv(t, provider, "pm")

	_, err := env.orch.NewMeeting("custom", "Topic",
		WithParticipants("pm"), WithFacilitator("ghost"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.HasCode(err, errors.CodePersonaNotFound) {
		t.Errorf("error code: %v", err)
	}
}

func TestProgressCallback(t *testing.T) {
	provider := newScriptedProvider()
	env := newTestEnv(t, provider, "a", "b")

	m, err := env.orch.NewMeeting("custom", "Topic",
		WithParticipants("a", "b"), WithFacilitator("a"))
	if err != nil {
		t.Fatalf("NewMeeting: %v", err)
	}
	var messages []string
	if _, err := m.RunDiscussion(context.Background(), func(msg string) {
		messages = append(messages, msg)
	}); err != nil {
		t.Fatalf("RunDiscussion: %v", err)
	}

	if len(messages) != 3 {
		t.Fatalf("progress messages = %v", messages)
	}
	if !strings.Contains(messages[0], "a") || !strings.Contains(messages[1], "b") {
		t.Errorf("participant progress order wrong: %v", messages)
	}
	if !strings.Contains(messages[2], "synthesis") {
		t.Errorf("missing synthesis progress: %v", messages)
	}
}

func TestContextLoading(t *testing.T) {
	contextDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(contextDir, "company.md"), []byte("company facts"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(contextDir, "active_projects.md"), []byte("project facts"), 0o644); err != nil {
		t.Fatal(err)
	}

	provider := newScriptedProvider()
	personas := t.TempDir()
	writeTestPersona(t, personas, "cito", "Cito")
	writeTestPersona(t, personas, "pm", "Pm")
	writeTestPersona(t, personas, "dev_lead", "DevLeadX")
	registry := agent.NewRegistry(persona.NewDirSource(personas), provider)
	orch := NewOrchestrator(registry, NewTranscriptStore(t.TempDir()),
		WithContextSource(NewDirContext(contextDir)))

	// strategy loads company + active_projects.
	m, err := orch.NewMeeting("strategy", "Roadmap")
	if err != nil {
		t.Fatalf("NewMeeting: %v", err)
	}
	if _, err := m.RunDiscussion(context.Background(), nil); err != nil {
		t.Fatalf("RunDiscussion: %v", err)
	}
	system := provider.requests[0].Messages[0].Content
	if !strings.Contains(system, "company facts") || !strings.Contains(system, "project facts") {
		t.Errorf("context not loaded: %q", system)
	}
	if !strings.Contains(system, contextSeparator) {
		t.Error("context categories not joined by separator")
	}
}

func TestRunDispatch(t *testing.T) {
	provider := newScriptedProvider()
	env := newTestEnv(t, provider, "pm", "dev_lead")

	// Standup dispatch: two participants, no synthesis call.
	if _, err := env.orch.Run(context.Background(), "standup", "Daily",
		nil, WithParticipants("pm", "dev_lead")); err != nil {
		t.Fatalf("Run standup: %v", err)
	}
	if len(provider.requests) != 2 {
		t.Errorf("standup calls = %d, want 2", len(provider.requests))
	}

	// Idea review dispatch honors WithIdeaContent.
	provider2 := newScriptedProvider("take", "synth")
	env2 := newTestEnv(t, provider2, "cito")
	if _, err := env2.orch.Run(context.Background(), "idea_review", "Widget",
		nil, WithParticipants("cito"), WithFacilitator("cito"), WithIdeaContent("Build a widget.")); err != nil {
		t.Fatalf("Run idea_review: %v", err)
	}
	if !strings.Contains(provider2.requests[0].Messages[1].Content, "Build a widget.") {
		t.Error("idea content not threaded through Run")
	}
}

func TestAddDecision(t *testing.T) {
	provider := newScriptedProvider()
	personas := t.TempDir()
	writeTestPersona(t, personas, "pm", "Pm")
	registry := agent.NewRegistry(persona.NewDirSource(personas), provider)

	logPath := filepath.Join(t.TempDir(), "decisions.json")
	orch := NewOrchestrator(registry, NewTranscriptStore(t.TempDir()),
		WithDecisionLog(NewDecisionLog(logPath)))

	m, err := orch.NewMeeting("custom", "Pricing", WithParticipants("pm"), WithFacilitator("pm"))
	if err != nil {
		t.Fatalf("NewMeeting: %v", err)
	}
	if err := m.AddDecision("Raise prices 10%", "margin pressure", "pm"); err != nil {
		t.Fatalf("AddDecision: %v", err)
	}

	decisions, err := NewDecisionLog(logPath).List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(decisions) != 1 {
		t.Fatalf("decisions = %d", len(decisions))
	}
	d := decisions[0]
	if d.ID != 1 || d.Topic != "Pricing" || d.Owner != "pm" || d.Status != "pending" {
		t.Errorf("decision = %+v", d)
	}
}
