// Package actions lets an executive agent propose structured changes inside
// its responses. Actions are embedded as
//
//	[ACTION: action_type]
//	{"parameter": "value"}
//	[/ACTION]
//
// blocks, parsed out of the response text, and executed against the record
// stores after the principal confirms them.
package actions

import (
	"encoding/json"
	"regexp"
)

// Type names one executable action. The set is closed: the executor rejects
// anything else.
type Type string

const (
	TypeUpdateAgentSettings      Type = "update_agent_settings"
	TypeUpdateCompanySettings    Type = "update_company_settings"
	TypeCreateFeatureRequest     Type = "create_feature_request"
	TypeApproveFeatureRequest    Type = "approve_feature_request"
	TypeRejectFeatureRequest     Type = "reject_feature_request"
	TypeUpdateIdeaStatus         Type = "update_idea_status"
	TypeBroadcastToAgents        Type = "broadcast_to_agents"
	TypeUpdateReportingStructure Type = "update_reporting_structure"
)

// definition describes one action for the prompt context.
type definition struct {
	Description string
	Parameters  map[string]string
	Example     string
}

var definitions = map[Type]definition{
	TypeUpdateAgentSettings: {
		Description: "Update an agent's settings (display name, role, description, responsibilities, metrics, custom instructions, reporting structure)",
		Parameters: map[string]string{
			"agent_id": "The agent to update",
			"updates":  "Object with the fields to change",
		},
		Example: `{"agent_id": "cfo", "updates": {"custom_instructions": "Focus on bootstrapped startups with limited runway"}}`,
	},
	TypeUpdateCompanySettings: {
		Description: "Update company-wide settings (company name, tagline, industry)",
		Parameters: map[string]string{
			"updates": "Object with company_name, company_tagline, or industry",
		},
		Example: `{"updates": {"company_name": "Acme Studios", "company_tagline": "Building the Future"}}`,
	},
	TypeCreateFeatureRequest: {
		Description: "Create a feature request for an agent to improve their capabilities",
		Parameters: map[string]string{
			"agent_id":     "The agent the request is for",
			"title":        "Short title for the request",
			"description":  "Detailed description of the feature",
			"priority":     "low, medium, high, or critical",
			"request_type": "feature, enhancement, bug, or content",
		},
		Example: `{"agent_id": "dev_lead", "title": "Add code review checklist", "description": "Create a standardized checklist for code reviews", "priority": "medium", "request_type": "feature"}`,
	},
	TypeApproveFeatureRequest: {
		Description: "Approve a pending feature request",
		Parameters: map[string]string{
			"request_id": "ID of the request to approve",
			"notes":      "Optional approval notes",
		},
	},
	TypeRejectFeatureRequest: {
		Description: "Reject a pending feature request with a reason",
		Parameters: map[string]string{
			"request_id": "ID of the request to reject",
			"reason":     "Reason for rejection",
		},
	},
	TypeUpdateIdeaStatus: {
		Description: "Update the status of an idea in the pipeline",
		Parameters: map[string]string{
			"idea_id":    "ID of the idea",
			"new_status": "submitted, under_review, approved, rejected, in_development, completed, on_hold",
			"notes":      "Optional status change notes",
		},
	},
	TypeBroadcastToAgents: {
		Description: "Add a custom instruction to multiple agents at once",
		Parameters: map[string]string{
			"agent_ids":   "List of agent IDs to update, or \"all\" for all agents",
			"instruction": "The instruction to add to each agent",
			"append":      "true to append to existing instructions, false to replace",
		},
		Example: `{"agent_ids": ["cfo", "sales", "pm"], "instruction": "Prioritize cost efficiency in all recommendations", "append": true}`,
	},
	TypeUpdateReportingStructure: {
		Description: "Change who an agent reports to or their direct reports",
		Parameters: map[string]string{
			"agent_id":       "The agent to update",
			"reports_to":     "Who this agent reports to",
			"direct_reports": "List of agents who report to this one",
		},
	},
}

// Action is one proposed action parsed from a response.
type Action struct {
	Type   Type
	Params json.RawMessage
}

var actionBlockRe = regexp.MustCompile(`(?s)\[ACTION:\s*(\w+)\]\s*(\{.*?\})\s*\[/ACTION\]`)

// Parse extracts action blocks from a response. Blocks with malformed JSON
// parameters are skipped rather than failing the whole parse.
func Parse(response string) []Action {
	var actions []Action
	for _, m := range actionBlockRe.FindAllStringSubmatch(response, -1) {
		raw := json.RawMessage(m[2])
		if !json.Valid(raw) {
			continue
		}
		actions = append(actions, Action{Type: Type(m[1]), Params: raw})
	}
	return actions
}
