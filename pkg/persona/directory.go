package persona

// Info aggregates the static per-agent facts that used to live in parallel
// lookup tables: display name, team, reporting line, and portal metadata.
// One record per id keeps the tables from drifting out of sync.
type Info struct {
	ID               string
	DisplayName      string
	FullTitle        string
	Team             string
	Description      string
	Responsibilities []string
	Metrics          []string
	ReportsTo        string
}

// directory is the canonical roster. Agents without a persona file on disk
// are still listed here so the web portal can describe them.
var directory = map[string]Info{
	"ceo": {
		ID:               "ceo",
		DisplayName:      "CEO",
		FullTitle:        "Chief Executive Officer",
		Team:             "executive",
		Description:      "Strategic leadership, vision setting, and overall company direction. Oversees all departments and makes final decisions on major initiatives.",
		Responsibilities: []string{"Company strategy", "Team leadership", "Client relationships", "Business development"},
		Metrics:          []string{"Revenue growth", "Client retention", "Team health"},
	},
	"cfo": {
		ID:               "cfo",
		DisplayName:      "CFO",
		FullTitle:        "Chief Financial Officer",
		Team:             "executive",
		Description:      "Financial planning, budgeting, and fiscal oversight. Manages company finances and ensures financial health.",
		Responsibilities: []string{"Budget management", "Financial reporting", "Cash flow", "Pricing strategy"},
		Metrics:          []string{"Profit margin", "Cash flow", "AR/AP health"},
		ReportsTo:        "ceo",
	},
	"cito": {
		ID:               "cito",
		DisplayName:      "CITO",
		FullTitle:        "Chief Information Technology Officer",
		Team:             "executive",
		Description:      "Technical strategy and architecture decisions. Leads technology direction and oversees engineering teams.",
		Responsibilities: []string{"Tech strategy", "Architecture decisions", "Technical hiring", "Innovation"},
		Metrics:          []string{"Tech debt ratio", "System uptime", "Idea conversion"},
		ReportsTo:        "ceo",
	},
	"sales": {
		ID:               "sales",
		DisplayName:      "Sales",
		FullTitle:        "Sales Director",
		Team:             "executive",
		Description:      "Business development and client acquisition. Manages sales pipeline and negotiates deals.",
		Responsibilities: []string{"Lead generation", "Client pitches", "Deal negotiation", "Pipeline management"},
		Metrics:          []string{"Pipeline value", "Conversion rate", "Deal velocity"},
		ReportsTo:        "ceo",
	},
	"legal": {
		ID:               "legal",
		DisplayName:      "Legal",
		FullTitle:        "Legal Counsel",
		Team:             "executive",
		Description:      "Contract review, compliance, and risk management. Protects company interests and ensures legal compliance.",
		Responsibilities: []string{"Contract review", "IP protection", "Compliance", "Risk assessment"},
		Metrics:          []string{"Contract turnaround", "Compliance status"},
		ReportsTo:        "ceo",
	},
	"dev_lead": {
		ID:               "dev_lead",
		DisplayName:      "DevLead",
		FullTitle:        "Development Lead",
		Team:             "technical",
		Description:      "Engineering team leadership and code quality. Oversees development processes and technical implementation.",
		Responsibilities: []string{"Code reviews", "Technical mentoring", "Sprint planning", "Architecture implementation"},
		Metrics:          []string{"Code quality", "Team velocity", "Bug rate"},
		ReportsTo:        "cito",
	},
	"design_lead": {
		ID:               "design_lead",
		DisplayName:      "DesignLead",
		FullTitle:        "Design Lead",
		Team:             "technical",
		Description:      "User experience and visual design direction. Creates and maintains design systems and standards.",
		Responsibilities: []string{"UX design", "Design systems", "User research", "Brand consistency"},
		Metrics:          []string{"Design consistency", "User satisfaction"},
		ReportsTo:        "cito",
	},
	"qa_lead": {
		ID:               "qa_lead",
		DisplayName:      "QALead",
		FullTitle:        "Quality Assurance Lead",
		Team:             "technical",
		Description:      "Quality standards and testing strategy. Ensures product quality through comprehensive testing.",
		Responsibilities: []string{"Test strategy", "QA processes", "Bug triage", "Release certification"},
		Metrics:          []string{"Bug escape rate", "Test coverage", "Release quality"},
		ReportsTo:        "cito",
	},
	"pm": {
		ID:               "pm",
		DisplayName:      "PM",
		FullTitle:        "Project Manager",
		Team:             "operations",
		Description:      "Project coordination and delivery management. Ensures projects are delivered on time and within scope.",
		Responsibilities: []string{"Project planning", "Resource allocation", "Stakeholder communication", "Risk management"},
		Metrics:          []string{"On-time delivery", "Scope creep", "Client satisfaction"},
		ReportsTo:        "ceo",
	},
	"customer_success": {
		ID:               "customer_success",
		DisplayName:      "CustomerSuccess",
		FullTitle:        "Customer Success Manager",
		Team:             "operations",
		Description:      "Client relationship management post-sale. Ensures client satisfaction and identifies growth opportunities.",
		Responsibilities: []string{"Client onboarding", "Success metrics", "Relationship building", "Upselling"},
		Metrics:          []string{"NPS score", "Retention rate", "Expansion revenue"},
		ReportsTo:        "pm",
	},
	"marketing": {
		ID:               "marketing",
		DisplayName:      "Marketing",
		FullTitle:        "Marketing Director",
		Team:             "operations",
		Description:      "Brand strategy and marketing campaigns. Drives awareness and generates leads for the sales team.",
		Responsibilities: []string{"Brand strategy", "Content marketing", "ASO/SEO", "Lead generation"},
		Metrics:          []string{"App rankings", "Traffic growth", "Lead conversion"},
		ReportsTo:        "ceo",
	},
	"support": {
		ID:               "support",
		DisplayName:      "Support",
		FullTitle:        "Support Lead",
		Team:             "operations",
		Description:      "Customer support and issue resolution. Manages support team and ensures timely issue resolution.",
		Responsibilities: []string{"Support operations", "Issue triage", "Knowledge base", "Escalation management"},
		Metrics:          []string{"Response time", "Resolution rate", "Satisfaction score"},
		ReportsTo:        "customer_success",
	},
}

// Lookup returns the directory record for an agent id.
func Lookup(id string) (Info, bool) {
	info, ok := directory[id]
	return info, ok
}

// Roster returns all directory records grouped by team, in a stable order.
func Roster() []Info {
	order := []string{
		"ceo", "cfo", "cito", "sales", "legal",
		"dev_lead", "design_lead", "qa_lead",
		"pm", "customer_success", "marketing", "support",
	}
	out := make([]Info, 0, len(order))
	for _, id := range order {
		out = append(out, directory[id])
	}
	return out
}
