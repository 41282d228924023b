package actions

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jllopis/boardroom/pkg/errors"
	"github.com/jllopis/boardroom/pkg/persona"
	"github.com/jllopis/boardroom/pkg/records"
)

// Result is the outcome of one executed action.
type Result struct {
	Success    bool      `json:"success"`
	Message    string    `json:"message,omitempty"`
	Error      string    `json:"error,omitempty"`
	ExecutedAt time.Time `json:"executed_at"`
}

// Executor applies actions against the record stores.
type Executor struct {
	stores *records.Stores
}

// NewExecutor creates an executor over the given stores.
func NewExecutor(stores *records.Stores) *Executor {
	return &Executor{stores: stores}
}

func failure(err error) Result {
	return Result{Success: false, Error: err.Error(), ExecutedAt: time.Now().UTC()}
}

func success(message string) Result {
	return Result{Success: true, Message: message, ExecutedAt: time.Now().UTC()}
}

// Execute runs one action. Unknown action types fail without side effects.
func (e *Executor) Execute(action Action) Result {
	if _, ok := definitions[action.Type]; !ok {
		return failure(errors.New(errors.CodeInvalidInput,
			"unknown action type: "+string(action.Type), nil))
	}

	var (
		message string
		err     error
	)
	switch action.Type {
	case TypeUpdateAgentSettings:
		message, err = e.updateAgentSettings(action.Params)
	case TypeUpdateCompanySettings:
		message, err = e.updateCompanySettings(action.Params)
	case TypeCreateFeatureRequest:
		message, err = e.createFeatureRequest(action.Params)
	case TypeApproveFeatureRequest:
		message, err = e.approveFeatureRequest(action.Params)
	case TypeRejectFeatureRequest:
		message, err = e.rejectFeatureRequest(action.Params)
	case TypeUpdateIdeaStatus:
		message, err = e.updateIdeaStatus(action.Params)
	case TypeBroadcastToAgents:
		message, err = e.broadcastToAgents(action.Params)
	case TypeUpdateReportingStructure:
		message, err = e.updateReportingStructure(action.Params)
	}
	if err != nil {
		return failure(err)
	}
	return success(message)
}

// ExecuteAll runs every action in order, continuing past failures.
func (e *Executor) ExecuteAll(actions []Action) []Result {
	results := make([]Result, 0, len(actions))
	for _, action := range actions {
		results = append(results, e.Execute(action))
	}
	return results
}

func decode[T any](raw json.RawMessage) (T, error) {
	var params T
	if err := json.Unmarshal(raw, &params); err != nil {
		var zero T
		return zero, errors.New(errors.CodeInvalidInput, "invalid action parameters", err)
	}
	return params, nil
}

func (e *Executor) requireAgent(agentID string) (persona.Info, error) {
	info, ok := persona.Lookup(agentID)
	if !ok {
		return persona.Info{}, errors.New(errors.CodeInvalidInput,
			"unknown agent: "+agentID, nil).WithContext("agent_id", agentID)
	}
	return info, nil
}

func (e *Executor) updateAgentSettings(raw json.RawMessage) (string, error) {
	params, err := decode[struct {
		AgentID string                     `json:"agent_id"`
		Updates records.AgentCustomization `json:"updates"`
	}](raw)
	if err != nil {
		return "", err
	}
	info, err := e.requireAgent(params.AgentID)
	if err != nil {
		return "", err
	}
	_, err = e.stores.Customizations.Update(params.AgentID, func(c *records.AgentCustomization) {
		u := params.Updates
		if u.DisplayName != "" {
			c.DisplayName = u.DisplayName
		}
		if u.RoleTitle != "" {
			c.RoleTitle = u.RoleTitle
		}
		if u.Description != "" {
			c.Description = u.Description
		}
		if len(u.Responsibilities) > 0 {
			c.Responsibilities = u.Responsibilities
		}
		if len(u.Metrics) > 0 {
			c.Metrics = u.Metrics
		}
		if u.CustomInstructions != "" {
			c.CustomInstructions = u.CustomInstructions
		}
		if u.ReportsTo != "" {
			c.ReportsTo = u.ReportsTo
		}
		if len(u.DirectReports) > 0 {
			c.DirectReports = u.DirectReports
		}
	})
	if err != nil {
		return "", err
	}
	return "Updated " + info.DisplayName + " settings", nil
}

func (e *Executor) updateCompanySettings(raw json.RawMessage) (string, error) {
	params, err := decode[struct {
		Updates records.CompanySettings `json:"updates"`
	}](raw)
	if err != nil {
		return "", err
	}
	_, err = e.stores.Settings.Update(func(s *records.CompanySettings) {
		if params.Updates.CompanyName != "" {
			s.CompanyName = params.Updates.CompanyName
		}
		if params.Updates.CompanyTagline != "" {
			s.CompanyTagline = params.Updates.CompanyTagline
		}
		if params.Updates.Industry != "" {
			s.Industry = params.Updates.Industry
		}
	})
	if err != nil {
		return "", err
	}
	return "Updated company settings", nil
}

func (e *Executor) createFeatureRequest(raw json.RawMessage) (string, error) {
	params, err := decode[struct {
		AgentID     string `json:"agent_id"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Priority    string `json:"priority"`
		RequestType string `json:"request_type"`
	}](raw)
	if err != nil {
		return "", err
	}
	if _, err := e.requireAgent(params.AgentID); err != nil {
		return "", err
	}
	req, err := e.stores.Requests.Submit(records.FeatureRequest{
		AgentID:     params.AgentID,
		Title:       params.Title,
		Description: params.Description,
		Priority:    records.RequestPriority(params.Priority),
		RequestType: params.RequestType,
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Created feature request %s: %s", req.ID, req.Title), nil
}

func (e *Executor) approveFeatureRequest(raw json.RawMessage) (string, error) {
	params, err := decode[struct {
		RequestID string `json:"request_id"`
		Notes     string `json:"notes"`
	}](raw)
	if err != nil {
		return "", err
	}
	req, err := e.stores.Requests.Approve(params.RequestID, "CEO", params.Notes)
	if err != nil {
		return "", err
	}
	return "Approved feature request: " + req.Title, nil
}

func (e *Executor) rejectFeatureRequest(raw json.RawMessage) (string, error) {
	params, err := decode[struct {
		RequestID string `json:"request_id"`
		Reason    string `json:"reason"`
	}](raw)
	if err != nil {
		return "", err
	}
	req, err := e.stores.Requests.Reject(params.RequestID, "CEO", params.Reason)
	if err != nil {
		return "", err
	}
	return "Rejected feature request: " + req.Title, nil
}

func (e *Executor) updateIdeaStatus(raw json.RawMessage) (string, error) {
	params, err := decode[struct {
		IdeaID    string `json:"idea_id"`
		NewStatus string `json:"new_status"`
		Notes     string `json:"notes"`
	}](raw)
	if err != nil {
		return "", err
	}
	idea, err := e.stores.Ideas.UpdateStatus(params.IdeaID, records.IdeaStatus(params.NewStatus), params.Notes)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Idea %q is now %s", idea.Name, idea.Status), nil
}

func (e *Executor) broadcastToAgents(raw json.RawMessage) (string, error) {
	params, err := decode[struct {
		AgentIDs    json.RawMessage `json:"agent_ids"`
		Instruction string          `json:"instruction"`
		Append      bool            `json:"append"`
	}](raw)
	if err != nil {
		return "", err
	}

	// agent_ids is either the string "all" or a list of ids.
	var ids []string
	var all string
	if json.Unmarshal(params.AgentIDs, &all) == nil && all == "all" {
		for _, info := range persona.Roster() {
			ids = append(ids, info.ID)
		}
	} else if err := json.Unmarshal(params.AgentIDs, &ids); err != nil {
		return "", errors.New(errors.CodeInvalidInput, `agent_ids must be a list or "all"`, err)
	}

	for _, id := range ids {
		if _, err := e.requireAgent(id); err != nil {
			return "", err
		}
	}
	for _, id := range ids {
		_, err := e.stores.Customizations.Update(id, func(c *records.AgentCustomization) {
			if params.Append && c.CustomInstructions != "" {
				c.CustomInstructions += "\n" + params.Instruction
			} else {
				c.CustomInstructions = params.Instruction
			}
		})
		if err != nil {
			return "", err
		}
	}
	return fmt.Sprintf("Broadcast instruction to %d agents", len(ids)), nil
}

func (e *Executor) updateReportingStructure(raw json.RawMessage) (string, error) {
	params, err := decode[struct {
		AgentID       string   `json:"agent_id"`
		ReportsTo     string   `json:"reports_to"`
		DirectReports []string `json:"direct_reports"`
	}](raw)
	if err != nil {
		return "", err
	}
	if params.ReportsTo == "" && len(params.DirectReports) == 0 {
		return "", errors.New(errors.CodeInvalidInput,
			"at least one of reports_to or direct_reports is required", nil)
	}
	info, err := e.requireAgent(params.AgentID)
	if err != nil {
		return "", err
	}
	_, err = e.stores.Customizations.Update(params.AgentID, func(c *records.AgentCustomization) {
		if params.ReportsTo != "" {
			c.ReportsTo = params.ReportsTo
		}
		if len(params.DirectReports) > 0 {
			c.DirectReports = params.DirectReports
		}
	})
	if err != nil {
		return "", err
	}
	return "Updated reporting structure for " + info.DisplayName, nil
}
