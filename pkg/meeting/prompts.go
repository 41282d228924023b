package meeting

import "fmt"

// DefaultPrincipal is the human operator addressed throughout the prompt
// templates. It can be overridden per orchestrator.
const DefaultPrincipal = "the Architect"

func discussionPrompt(meetingName, topic string) string {
	return fmt.Sprintf(`We are having a %s to discuss:

**%s**

Please share your perspective on this topic from your role. Consider:
- Key points relevant to your expertise
- Potential concerns or risks
- Recommendations or suggestions
- Questions that need to be addressed

Be specific and actionable in your response.`, meetingName, topic)
}

func synthesisPrompt(topic, principal string) string {
	return fmt.Sprintf(`As the facilitator of this meeting, please synthesize the discussion.

**Meeting Topic:** %s

Please provide:

## Summary
A brief summary of the key points discussed.

## Decisions
List any decisions that were made or need to be made. Format as:
- **Decision:** [What was decided]
  - **Rationale:** [Why]
  - **Owner:** [Who is responsible]

## Action Items
List specific action items. Format as:
- [ ] @[Owner]: [Action item description]

## Next Steps
Any follow-up meetings or activities needed. Flag anything that requires a
call from %s.

Be specific and ensure all action items have clear owners.`, topic, principal)
}

// EvaluationTemplate is the closed set of role-specific checklists used in
// idea reviews. Every agent maps to exactly one template; agents without a
// role-specific one get Generic.
type EvaluationTemplate int

const (
	EvalGeneric EvaluationTemplate = iota
	EvalTechnical
	EvalFinancial
	EvalSales
	EvalLegal
	EvalProjectManagement
	EvalDesign
)

// templateFor selects the evaluation template for an agent. Total: unknown
// ids fall back to Generic.
func templateFor(agentID string) EvaluationTemplate {
	switch agentID {
	case "cito", "dev_lead", "qa_lead":
		return EvalTechnical
	case "cfo":
		return EvalFinancial
	case "sales", "marketing":
		return EvalSales
	case "legal":
		return EvalLegal
	case "pm":
		return EvalProjectManagement
	case "design_lead":
		return EvalDesign
	default:
		return EvalGeneric
	}
}

func (t EvaluationTemplate) checklist() string {
	switch t {
	case EvalTechnical:
		return `- Technical feasibility and architectural fit
- Implementation complexity and unknowns
- Testing, quality, and operational burden
- Technical risks and how they could be mitigated
- Build-vs-buy considerations`
	case EvalFinancial:
		return `- Development cost and ongoing operating cost
- Revenue potential and pricing implications
- Impact on runway and cash flow
- Break-even horizon and key financial assumptions
- Financial risks`
	case EvalSales:
		return `- Market demand and target customer fit
- Competitive positioning and differentiation
- Go-to-market effort required
- Likely objections from prospects
- Impact on existing pipeline`
	case EvalLegal:
		return `- Regulatory and compliance exposure
- Intellectual property considerations
- Contractual or licensing implications
- Data protection and privacy obligations
- Legal risks and required safeguards`
	case EvalProjectManagement:
		return `- Scope clarity and delivery phases
- Timeline and resourcing implications
- Dependencies on current projects
- Coordination and communication needs
- Delivery risks`
	case EvalDesign:
		return `- User experience and usability implications
- Design effort and research needs
- Consistency with the existing product
- Accessibility considerations
- Design risks`
	default:
		return `- Feasibility from your role's perspective
- Potential risks and concerns
- Resource and timeline implications
- Key questions that need answers
- Your recommendation (proceed, modify, or pass)`
	}
}

func ideaReviewPrompt(topic, ideaContent, agentID string) string {
	return fmt.Sprintf(`We are reviewing a new idea/proposal for potential development.

**Idea Summary:**
%s

**Full Proposal:**
%s

Please evaluate this idea from your role's perspective. Consider:
%s

Be specific and provide clear rationale for your assessment.`, topic, ideaContent, templateFor(agentID).checklist())
}

func ideaSynthesisPrompt(topic, principal string) string {
	return fmt.Sprintf(`As the facilitator of this idea review, please synthesize the evaluation.

**Idea Under Review:** %s

Please provide:

## Executive Summary
A brief summary of the idea and the team's overall assessment, written for %s.

## Recommendation
An explicit **GO**, **GO-WITH-MODIFICATIONS**, or **NO-GO** call, with a
confidence level (high/medium/low) and the reasoning behind it.

## Technical Assessment
Summary of feasibility, complexity, and technical risk raised in the review.

## Financial Assessment
Summary of cost, revenue potential, and financial risk.

## Timeline Assessment
Expected effort and how it fits against current commitments.

## Key Concerns
The most important unresolved concerns, with who raised them.

## Next Steps
Concrete next steps if the idea proceeds, or what would need to change for
reconsideration if it does not.`, topic, principal)
}

func oneOnOnePrompt(topic, subTopic, principal string) string {
	if subTopic != "" {
		return fmt.Sprintf(`You are in a one-on-one conversation with %s.

**Topic:** %s

%s would specifically like to discuss:

**%s**

Speak candidly from your role. Share your honest assessment, any concerns
you have been holding back, and what you need in order to do your best work.`, principal, topic, principal, subTopic)
	}
	return fmt.Sprintf(`You are in a one-on-one conversation with %s.

**Topic:** %s

Speak candidly from your role. Cover:
- How things are going in your area
- What is worrying you right now
- Where you need support or a decision
- Anything else %s should know

Be direct and specific.`, principal, topic, principal)
}

func projectPrompt(project string) string {
	return fmt.Sprintf(`We are having a project meeting for: **%s**

Please report from your role's perspective:

**Status:** Where your workstream stands right now
**Blockers:** Anything preventing progress, and who can unblock it
**Dependencies:** What you are waiting on, or others are waiting on from you
**Asks:** Specific help or decisions you need from this group

Keep it concrete. Reference actual work items where possible.`, project)
}

func retrospectivePrompt(project string) string {
	return fmt.Sprintf(`We are running a retrospective for the project: **%s**

Please reflect on this project from your role's perspective and share:

**What went well:**
- Things that worked effectively
- Successes worth celebrating

**What didn't go well:**
- Challenges and pain points
- Things that should have been done differently

**Lessons learned:**
- Key takeaways for future projects
- Process improvements to implement

**Action items:**
- Specific things to change going forward

Be honest and constructive. The goal is continuous improvement.`, project)
}
