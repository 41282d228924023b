package meeting

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jllopis/boardroom/pkg/agent"
	"github.com/jllopis/boardroom/pkg/errors"
	"github.com/jllopis/boardroom/pkg/telemetry"
)

// Response is one agent's contribution to a meeting, recorded in speaking
// order.
type Response struct {
	AgentID     string
	DisplayName string
	Text        string
}

// ProgressFunc receives human-readable progress messages before each model
// call. It is synchronous and purely observational.
type ProgressFunc func(message string)

func notify(progress ProgressFunc, message string) {
	if progress != nil {
		progress(message)
	}
}

// Orchestrator holds the shared dependencies for running meetings: the agent
// registry, type catalog, context sources, and transcript persistence.
type Orchestrator struct {
	registry    *agent.Registry
	catalog     *Catalog
	contexts    ContextSource
	transcripts *TranscriptStore
	decisions   *DecisionLog
	audit       *AuditStore
	metrics     *telemetry.MeetingMetrics
	logger      *slog.Logger
	principal   string
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithCatalog replaces the built-in meeting-type catalog.
func WithCatalog(c *Catalog) OrchestratorOption {
	return func(o *Orchestrator) { o.catalog = c }
}

// WithContextSource sets the background-context source.
func WithContextSource(s ContextSource) OrchestratorOption {
	return func(o *Orchestrator) { o.contexts = s }
}

// WithDecisionLog enables decision recording.
func WithDecisionLog(l *DecisionLog) OrchestratorOption {
	return func(o *Orchestrator) { o.decisions = l }
}

// WithAuditStore enables per-call audit recording.
func WithAuditStore(s *AuditStore) OrchestratorOption {
	return func(o *Orchestrator) { o.audit = s }
}

// WithMetrics enables meeting metrics.
func WithMetrics(m *telemetry.MeetingMetrics) OrchestratorOption {
	return func(o *Orchestrator) { o.metrics = m }
}

// WithLogger sets the orchestrator logger.
func WithLogger(l *slog.Logger) OrchestratorOption {
	return func(o *Orchestrator) { o.logger = l }
}

// WithPrincipal overrides the name of the human principal addressed in the
// prompt templates.
func WithPrincipal(name string) OrchestratorOption {
	return func(o *Orchestrator) { o.principal = name }
}

// NewOrchestrator creates an Orchestrator over a registry and transcript
// store.
func NewOrchestrator(registry *agent.Registry, transcripts *TranscriptStore, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		registry:    registry,
		transcripts: transcripts,
		catalog:     NewCatalog(),
		logger:      slog.Default(),
		principal:   DefaultPrincipal,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ListAvailableAgents returns the sorted agent ids the registry can resolve.
func (o *Orchestrator) ListAvailableAgents() []string {
	return o.registry.ListAvailable()
}

// Meeting is one meeting instance. Responses accumulate strictly in
// participant order; synthesis, when the protocol calls for it, happens only
// after every participant has responded.
type Meeting struct {
	orch *Orchestrator

	meetingType string
	topic       string
	typeName    string

	participantIDs []string
	facilitatorID  string
	contextCats    []string

	ideaFile    string
	ideaContent string

	startedAt time.Time
	responses []Response
	synthesis string
}

// MeetingOption configures one meeting instance.
type MeetingOption func(*Meeting)

// WithParticipants overrides the catalog's default participant list. Order
// is the speaking order.
func WithParticipants(ids ...string) MeetingOption {
	return func(m *Meeting) {
		if len(ids) > 0 {
			m.participantIDs = ids
		}
	}
}

// WithFacilitator overrides the catalog's default facilitator.
func WithFacilitator(id string) MeetingOption {
	return func(m *Meeting) {
		if id != "" {
			m.facilitatorID = id
		}
	}
}

// WithIdeaFile points an idea review at a file holding the idea document.
func WithIdeaFile(path string) MeetingOption {
	return func(m *Meeting) { m.ideaFile = path }
}

// WithIdeaContent supplies the idea document text directly.
func WithIdeaContent(content string) MeetingOption {
	return func(m *Meeting) { m.ideaContent = content }
}

// NewMeeting creates a meeting of the given type. An unrecognized type name
// resolves to the "custom" catalog entry. The facilitator must resolve to a
// known persona or construction fails.
func (o *Orchestrator) NewMeeting(meetingType, topic string, opts ...MeetingOption) (*Meeting, error) {
	cfg := o.catalog.Resolve(meetingType)
	if !o.catalog.Known(meetingType) {
		o.logger.Warn("unknown meeting type, using custom configuration", "meeting_type", meetingType)
	}

	m := &Meeting{
		orch:           o,
		meetingType:    meetingType,
		topic:          topic,
		typeName:       cfg.Name,
		participantIDs: cfg.DefaultParticipants,
		facilitatorID:  cfg.Facilitator,
		contextCats:    cfg.ContextCategories,
	}
	for _, opt := range opts {
		opt(m)
	}

	if !o.registry.Has(m.facilitatorID) {
		return nil, errors.New(errors.CodePersonaNotFound,
			"facilitator has no persona: "+m.facilitatorID, nil).
			WithContext("agent_id", m.facilitatorID).
			WithContext("meeting_type", meetingType)
	}
	return m, nil
}

// Responses returns the collected responses in speaking order.
func (m *Meeting) Responses() []Response { return m.responses }

// Synthesis returns the facilitator synthesis, empty for protocols without
// one.
func (m *Meeting) Synthesis() string { return m.synthesis }

// Participants returns the resolved participant ids in speaking order.
func (m *Meeting) Participants() []string { return m.participantIDs }

// Facilitator returns the resolved facilitator id.
func (m *Meeting) Facilitator() string { return m.facilitatorID }

func (m *Meeting) loadContext(extra string) string {
	text := loadContext(m.orch.contexts, m.contextCats)
	if extra != "" {
		if text != "" {
			text += contextSeparator
		}
		text += extra
	}
	return text
}

// priorDiscussion concatenates collected responses, each prefixed by the
// responding agent's display name, for inclusion in later prompts.
func (m *Meeting) priorDiscussion() string {
	if len(m.responses) == 0 {
		return ""
	}
	parts := make([]string, 0, len(m.responses))
	for _, resp := range m.responses {
		parts = append(parts, "### "+resp.DisplayName+"\n"+resp.Text)
	}
	return strings.Join(parts, "\n\n")
}

// callAgent runs one instrumented model call. Every path through a meeting
// goes through here so audit events and metrics stay consistent.
func (m *Meeting) callAgent(ctx context.Context, a *agent.Agent, kind string, call func() (string, error)) (string, error) {
	started := time.Now()
	text, err := call()
	elapsed := time.Since(started)

	m.orch.metrics.RecordModelCall(ctx, a.ID(), elapsed, err)
	if m.orch.audit != nil {
		event := CallEvent{
			MeetingType: m.meetingType,
			TopicSlug:   Slug(m.topic),
			AgentID:     a.ID(),
			Kind:        kind,
			Status:      "ok",
			Duration:    elapsed,
			StartedAt:   started,
		}
		if err != nil {
			event.Status = "error"
			event.Error = err.Error()
		}
		if auditErr := m.orch.audit.Record(ctx, event); auditErr != nil {
			m.orch.logger.Warn("audit record failed", "error", auditErr)
		}
	}
	return text, err
}

// collectResponses runs the per-participant loop: strictly sequential, in
// participant order, each prompt carrying all strictly-earlier responses.
func (m *Meeting) collectResponses(ctx context.Context, contextText string, promptFor func(agentID string) string, progress ProgressFunc) error {
	for _, id := range m.participantIDs {
		notify(progress, "Getting input from "+id+"...")

		a, err := m.orch.registry.Get(id)
		if err != nil {
			return err
		}
		prior := m.priorDiscussion()
		prompt := promptFor(id)

		text, err := m.callAgent(ctx, a, "response", func() (string, error) {
			return a.Respond(ctx, prompt, contextText, prior)
		})
		if err != nil {
			return err
		}
		m.responses = append(m.responses, Response{
			AgentID:     id,
			DisplayName: a.DisplayName(),
			Text:        text,
		})
	}
	return nil
}

// RunStandup runs the standup protocol: one Done/Doing/Blocked update per
// participant, no synthesis.
func (m *Meeting) RunStandup(ctx context.Context, progress ProgressFunc) (string, error) {
	m.startedAt = time.Now()
	contextText := m.loadContext("")

	for _, id := range m.participantIDs {
		notify(progress, "Getting update from "+id+"...")

		a, err := m.orch.registry.Get(id)
		if err != nil {
			m.orch.metrics.RecordMeeting(ctx, m.meetingType, false)
			return "", err
		}
		text, err := m.callAgent(ctx, a, "standup", func() (string, error) {
			return a.StandupUpdate(ctx, contextText)
		})
		if err != nil {
			m.orch.metrics.RecordMeeting(ctx, m.meetingType, false)
			return "", err
		}
		m.responses = append(m.responses, Response{
			AgentID:     id,
			DisplayName: a.DisplayName(),
			Text:        text,
		})
	}

	return m.finish(ctx)
}

// RunDiscussion runs the round-robin discussion protocol with a facilitator
// synthesis. The default prompt is built from the topic.
func (m *Meeting) RunDiscussion(ctx context.Context, progress ProgressFunc) (string, error) {
	prompt := discussionPrompt(strings.ToLower(m.typeName), m.topic)
	return m.runDiscussion(ctx, func(string) string { return prompt }, "",
		synthesisPrompt(m.topic, m.orch.principal), progress)
}

// RunOneOnOne runs a single-participant conversation with the principal.
// The participant list is forced to length one and no synthesis is produced.
func (m *Meeting) RunOneOnOne(ctx context.Context, subTopic string, progress ProgressFunc) (string, error) {
	if len(m.participantIDs) > 1 {
		m.participantIDs = m.participantIDs[:1]
	}
	m.startedAt = time.Now()
	contextText := m.loadContext("")
	prompt := oneOnOnePrompt(m.topic, subTopic, m.orch.principal)

	if err := m.collectResponses(ctx, contextText, func(string) string { return prompt }, progress); err != nil {
		m.orch.metrics.RecordMeeting(ctx, m.meetingType, false)
		return "", err
	}
	return m.finish(ctx)
}

// RunIdeaReview reviews an idea document. The idea text comes from ideaFile
// or directly from ideaContent; a missing or empty idea is a precondition
// failure raised before any model call. Each participant gets a
// role-specific evaluation checklist, and the synthesis requests an explicit
// GO / GO-WITH-MODIFICATIONS / NO-GO recommendation.
func (m *Meeting) RunIdeaReview(ctx context.Context, ideaFile, ideaContent string, progress ProgressFunc) (string, error) {
	if ideaFile != "" {
		raw, err := os.ReadFile(ideaFile)
		if err != nil || len(raw) == 0 {
			return "", errors.New(errors.CodeIdeaContentMissing,
				"idea file not found or empty: "+ideaFile, err).
				WithContext("idea_file", ideaFile)
		}
		ideaContent = string(raw)
	}
	if strings.TrimSpace(ideaContent) == "" {
		return "", errors.New(errors.CodeIdeaContentMissing,
			"either an idea file or idea content must be provided", nil)
	}

	extraContext := "## Idea Under Review\n\n" + ideaContent
	return m.runDiscussion(ctx,
		func(agentID string) string { return ideaReviewPrompt(m.topic, ideaContent, agentID) },
		extraContext,
		ideaSynthesisPrompt(m.topic, m.orch.principal),
		progress)
}

// RunProject runs a project meeting: the discussion protocol with a
// "Project Focus" context block and a status/blockers/dependencies/asks
// prompt. The topic names the project.
func (m *Meeting) RunProject(ctx context.Context, progress ProgressFunc) (string, error) {
	extraContext := "## Project Focus\n\nProject: " + m.topic
	prompt := projectPrompt(m.topic)
	return m.runDiscussion(ctx, func(string) string { return prompt }, extraContext,
		synthesisPrompt(m.topic, m.orch.principal), progress)
}

// RunRetrospective runs a retrospective for the project named by the topic.
func (m *Meeting) RunRetrospective(ctx context.Context, progress ProgressFunc) (string, error) {
	prompt := retrospectivePrompt(m.topic)
	return m.runDiscussion(ctx, func(string) string { return prompt }, "",
		synthesisPrompt(m.topic, m.orch.principal), progress)
}

func (m *Meeting) runDiscussion(ctx context.Context, promptFor func(agentID string) string, extraContext, synthPrompt string, progress ProgressFunc) (string, error) {
	m.startedAt = time.Now()
	contextText := m.loadContext(extraContext)

	m.orch.logger.Info("meeting started",
		"meeting_type", m.meetingType,
		"topic", m.topic,
		"participants", len(m.participantIDs),
	)

	if err := m.collectResponses(ctx, contextText, promptFor, progress); err != nil {
		m.orch.metrics.RecordMeeting(ctx, m.meetingType, false)
		return "", err
	}

	notify(progress, "Getting synthesis from "+m.facilitatorID+"...")
	facilitator, err := m.orch.registry.Get(m.facilitatorID)
	if err != nil {
		m.orch.metrics.RecordMeeting(ctx, m.meetingType, false)
		return "", err
	}
	prior := m.priorDiscussion()
	synthesis, err := m.callAgent(ctx, facilitator, "synthesis", func() (string, error) {
		return facilitator.Respond(ctx, synthPrompt, contextText, prior)
	})
	if err != nil {
		m.orch.metrics.RecordMeeting(ctx, m.meetingType, false)
		return "", err
	}
	m.synthesis = synthesis

	return m.finish(ctx)
}

// finish renders the transcript, persists it, and records the meeting as
// completed. Persistence only happens on full success.
func (m *Meeting) finish(ctx context.Context) (string, error) {
	participants := make([]string, 0, len(m.participantIDs))
	for _, id := range m.participantIDs {
		a, err := m.orch.registry.Get(id)
		if err != nil {
			return "", err
		}
		participants = append(participants, a.DisplayName())
	}
	facilitator, err := m.orch.registry.Get(m.facilitatorID)
	if err != nil {
		return "", err
	}

	transcript := renderTranscript(renderInput{
		MeetingName:     m.typeName,
		Topic:           m.topic,
		Responses:       m.responses,
		Synthesis:       m.synthesis,
		FacilitatorName: facilitator.DisplayName(),
		Participants:    participants,
		StartedAt:       m.startedAt,
		OneOnOne:        m.meetingType == "one_on_one",
	})

	path, err := m.orch.transcripts.Save(m.meetingType, m.topic, transcript, m.startedAt)
	if err != nil {
		m.orch.metrics.RecordMeeting(ctx, m.meetingType, false)
		return "", err
	}

	m.orch.metrics.RecordMeeting(ctx, m.meetingType, true)
	m.orch.logger.Info("meeting completed",
		"meeting_type", m.meetingType,
		"topic", m.topic,
		"responses", len(m.responses),
		"transcript", path,
	)
	return transcript, nil
}

// AddDecision records a decision reached in this meeting to the decision
// log. A no-op when the orchestrator has no log configured.
func (m *Meeting) AddDecision(decision, rationale, owner string) error {
	if m.orch.decisions == nil {
		return nil
	}
	date := time.Now()
	if !m.startedAt.IsZero() {
		date = m.startedAt
	}
	_, err := m.orch.decisions.Append(Decision{
		Date:        date.Format("2006-01-02"),
		Topic:       m.topic,
		Decision:    decision,
		Rationale:   rationale,
		Owner:       owner,
		Status:      "pending",
		MeetingType: m.meetingType,
	})
	return err
}

// Run dispatches to the protocol for the meeting's type: standup,
// one-on-one, idea review, project, and retrospective have dedicated
// protocols; everything else runs the discussion protocol.
func (o *Orchestrator) Run(ctx context.Context, meetingType, topic string, progress ProgressFunc, opts ...MeetingOption) (string, error) {
	m, err := o.NewMeeting(meetingType, topic, opts...)
	if err != nil {
		return "", err
	}
	switch meetingType {
	case "standup":
		return m.RunStandup(ctx, progress)
	case "one_on_one":
		return m.RunOneOnOne(ctx, "", progress)
	case "idea_review":
		return m.RunIdeaReview(ctx, m.ideaFile, m.ideaContent, progress)
	case "project":
		return m.RunProject(ctx, progress)
	case "retro":
		return m.RunRetrospective(ctx, progress)
	default:
		return m.RunDiscussion(ctx, progress)
	}
}
