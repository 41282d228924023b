// Package agent wraps one persona profile with a language-model provider.
package agent

import (
	"context"
	"strings"

	"github.com/jllopis/boardroom/pkg/errors"
	"github.com/jllopis/boardroom/pkg/llm"
	"github.com/jllopis/boardroom/pkg/persona"
)

// Agent is a persona-driven participant. It is immutable after construction;
// the provider may be shared across agents.
type Agent struct {
	profile     persona.Profile
	displayName string
	provider    llm.Provider
	model       string
	maxTokens   int
}

// Option configures an Agent instance.
type Option func(*Agent)

// WithModel overrides the model used for this agent's calls.
func WithModel(model string) Option {
	return func(a *Agent) { a.model = model }
}

// WithMaxTokens overrides the response token budget.
func WithMaxTokens(n int) Option {
	return func(a *Agent) { a.maxTokens = n }
}

// New creates an Agent from a parsed profile and a provider.
func New(profile persona.Profile, provider llm.Provider, opts ...Option) *Agent {
	a := &Agent{
		profile:     profile,
		displayName: profile.DisplayName(),
		provider:    provider,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ID returns the agent identifier.
func (a *Agent) ID() string { return a.profile.ID }

// DisplayName returns the human-facing name used in transcripts.
func (a *Agent) DisplayName() string { return a.displayName }

// Profile returns the persona profile.
func (a *Agent) Profile() persona.Profile { return a.profile }

// Respond asks the agent for a response to prompt. contextText, when
// non-empty, is appended to the system instruction as a "Current Context"
// block; priorDiscussion, when non-empty, precedes the prompt in the user
// message as a "Prior Discussion" block. The provider is invoked exactly
// once and its text is returned verbatim. No retries.
func (a *Agent) Respond(ctx context.Context, prompt, contextText, priorDiscussion string) (string, error) {
	system := a.profile.SystemPrompt
	if contextText != "" {
		system += "\n\n## Current Context\n\n" + contextText
	}

	var user strings.Builder
	if priorDiscussion != "" {
		user.WriteString("## Prior Discussion in This Meeting\n\n")
		user.WriteString(priorDiscussion)
		user.WriteString("\n\n---\n\n")
	}
	user.WriteString(prompt)

	resp, err := a.provider.Chat(ctx, llm.ChatRequest{
		Model: a.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: system},
			{Role: llm.RoleUser, Content: user.String()},
		},
		MaxTokens: a.maxTokens,
	})
	if err != nil {
		return "", errors.New(errors.CodeModelCall, "model call failed for agent "+a.profile.ID, err).
			WithContext("agent_id", a.profile.ID)
	}
	return resp.Content, nil
}

const standupPrompt = `Please provide your standup update in the following format:

**Done:** What you've completed recently
**Doing:** What you're currently working on
**Blocked:** Any blockers or issues (or "None" if no blockers)

Be specific and concise. Reference actual projects or initiatives where relevant.`

// StandupUpdate asks the agent for a Done/Doing/Blocked update. The raw text
// is returned without parsing.
func (a *Agent) StandupUpdate(ctx context.Context, contextText string) (string, error) {
	return a.Respond(ctx, standupPrompt, contextText, "")
}
