package records

import (
	"path/filepath"
	"time"
)

// ProjectStatus tracks a project through its lifecycle.
type ProjectStatus string

const (
	ProjectPlanning    ProjectStatus = "planning"
	ProjectDesign      ProjectStatus = "design"
	ProjectDevelopment ProjectStatus = "development"
	ProjectQA          ProjectStatus = "qa"
	ProjectLaunch      ProjectStatus = "launch"
	ProjectMaintenance ProjectStatus = "maintenance"
	ProjectCompleted   ProjectStatus = "completed"
	ProjectOnHold      ProjectStatus = "on_hold"
)

// Milestone is one deliverable checkpoint within a project.
type Milestone struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	DueDate       string     `json:"due_date"`
	Deliverables  []string   `json:"deliverables,omitempty"`
	Completed     bool       `json:"completed"`
	CompletedDate *time.Time `json:"completed_date,omitempty"`
}

// ProjectFinancials tracks money attached to a project.
type ProjectFinancials struct {
	Invoiced           float64 `json:"invoiced"`
	Paid               float64 `json:"paid"`
	RevenueShareEarned float64 `json:"revenue_share_earned"`
	Expenses           float64 `json:"expenses"`
}

// Project is one development project.
type Project struct {
	Meta
	Name          string            `json:"name"`
	ClientID      string            `json:"client_id"`
	IdeaID        string            `json:"idea_id,omitempty"`
	Description   string            `json:"description,omitempty"`
	Platforms     []string          `json:"platforms,omitempty"`
	TechStack     []string          `json:"tech_stack,omitempty"`
	RevenueModel  string            `json:"revenue_model,omitempty"`
	ContractValue float64           `json:"contract_value"`
	StartDate     string            `json:"start_date,omitempty"`
	TargetLaunch  string            `json:"target_launch,omitempty"`
	ActualLaunch  string            `json:"actual_launch,omitempty"`
	Team          []string          `json:"team,omitempty"`
	Status        ProjectStatus     `json:"status"`
	Testers       []string          `json:"testers,omitempty"`
	Milestones    []Milestone       `json:"milestones,omitempty"`
	Financials    ProjectFinancials `json:"financials"`
}

// ProjectsStore manages development projects.
type ProjectsStore struct {
	*Collection[Project]
}

// NewProjectsStore creates the projects collection under dataDir.
func NewProjectsStore(dataDir string) *ProjectsStore {
	return &ProjectsStore{
		Collection: NewCollection(filepath.Join(dataDir, "projects.json"), func(p *Project) *Meta { return &p.Meta }),
	}
}

// Start records a new project in planning.
func (s *ProjectsStore) Start(project Project) (Project, error) {
	if project.Status == "" {
		project.Status = ProjectPlanning
	}
	if project.StartDate == "" {
		project.StartDate = time.Now().Format("2006-01-02")
	}
	if len(project.Team) == 0 {
		project.Team = []string{"pm", "dev_lead", "design_lead", "qa_lead"}
	}
	return s.Create(project)
}

// UpdateStatus moves a project to a new status, optionally noting why.
func (s *ProjectsStore) UpdateStatus(id string, status ProjectStatus, note string) (Project, error) {
	project, err := s.Update(id, func(p *Project) { p.Status = status })
	if err != nil {
		return Project{}, err
	}
	if note != "" {
		return s.AddNote(id, "PM", "Status changed to "+string(status)+": "+note)
	}
	return project, nil
}

// AddMilestone appends a milestone with its own short id.
func (s *ProjectsStore) AddMilestone(id string, m Milestone) (Project, error) {
	if m.ID == "" {
		m.ID = newID()
	}
	return s.Update(id, func(p *Project) {
		p.Milestones = append(p.Milestones, m)
	})
}

// CompleteMilestone marks a milestone done.
func (s *ProjectsStore) CompleteMilestone(id, milestoneID string) (Project, error) {
	return s.Update(id, func(p *Project) {
		for i := range p.Milestones {
			if p.Milestones[i].ID == milestoneID {
				now := time.Now().UTC()
				p.Milestones[i].Completed = true
				p.Milestones[i].CompletedDate = &now
				return
			}
		}
	})
}

// AssignTester puts a tester on the project.
func (s *ProjectsStore) AssignTester(id, testerID string) (Project, error) {
	return s.Update(id, func(p *Project) {
		for _, t := range p.Testers {
			if t == testerID {
				return
			}
		}
		p.Testers = append(p.Testers, testerID)
	})
}

// Active returns projects not yet completed, on hold, or in maintenance.
func (s *ProjectsStore) Active() ([]Project, error) {
	return s.Filter(func(p Project) bool {
		switch p.Status {
		case ProjectPlanning, ProjectDesign, ProjectDevelopment, ProjectQA, ProjectLaunch:
			return true
		}
		return false
	})
}
