package meeting

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestAuditStoreRecordAndList(t *testing.T) {
	store, err := OpenAuditStore(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("OpenAuditStore: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	base := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	events := []CallEvent{
		{MeetingType: "standup", TopicSlug: "daily", AgentID: "pm", Kind: "standup", Status: "ok", Duration: 420 * time.Millisecond, StartedAt: base},
		{MeetingType: "standup", TopicSlug: "daily", AgentID: "dev_lead", Kind: "standup", Status: "error", Error: "timeout", StartedAt: base.Add(time.Second)},
		{MeetingType: "strategy", TopicSlug: "roadmap", AgentID: "cito", Kind: "synthesis", Status: "ok", StartedAt: base.Add(2 * time.Second)},
	}
	for _, event := range events {
		if err := store.Record(ctx, event); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	all, err := store.List(ctx, CallFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("events = %d", len(all))
	}
	if all[0].AgentID != "pm" || all[2].AgentID != "cito" {
		t.Errorf("order wrong: %+v", all)
	}
	if all[0].Duration != 420*time.Millisecond {
		t.Errorf("duration = %v", all[0].Duration)
	}

	failed, err := store.List(ctx, CallFilter{Status: "error"})
	if err != nil {
		t.Fatalf("List filtered: %v", err)
	}
	if len(failed) != 1 || failed[0].Error != "timeout" {
		t.Errorf("failed = %+v", failed)
	}

	standups, err := store.List(ctx, CallFilter{MeetingType: "standup", Limit: 1})
	if err != nil {
		t.Fatalf("List limited: %v", err)
	}
	if len(standups) != 1 || standups[0].AgentID != "pm" {
		t.Errorf("standups = %+v", standups)
	}
}

func TestOrchestratorRecordsAudit(t *testing.T) {
	store, err := OpenAuditStore(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("OpenAuditStore: %v", err)
	}
	defer store.Close()

	provider := newScriptedProvider("update")
	env := newTestEnv(t, provider, "pm")
	env.orch.audit = store

	m, err := env.orch.NewMeeting("standup", "Daily", WithParticipants("pm"))
	if err != nil {
		t.Fatalf("NewMeeting: %v", err)
	}
	if _, err := m.RunStandup(context.Background(), nil); err != nil {
		t.Fatalf("RunStandup: %v", err)
	}

	events, err := store.List(context.Background(), CallFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("events = %d", len(events))
	}
	event := events[0]
	if event.MeetingType != "standup" || event.AgentID != "pm" || event.Kind != "standup" || event.Status != "ok" {
		t.Errorf("event = %+v", event)
	}
	if event.TopicSlug != "daily" {
		t.Errorf("topic slug = %q", event.TopicSlug)
	}
}
