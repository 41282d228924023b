package records

import (
	"path/filepath"
	"time"
)

// IdeaStatus tracks an idea submission through review and development.
type IdeaStatus string

const (
	IdeaSubmitted     IdeaStatus = "submitted"
	IdeaUnderReview   IdeaStatus = "under_review"
	IdeaApproved      IdeaStatus = "approved"
	IdeaRejected      IdeaStatus = "rejected"
	IdeaInDevelopment IdeaStatus = "in_development"
	IdeaCompleted     IdeaStatus = "completed"
	IdeaOnHold        IdeaStatus = "on_hold"
)

// Submitter identifies who submitted an idea.
type Submitter struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company,omitempty"`
}

// IdeaReview holds the outcome of an idea review meeting.
type IdeaReview struct {
	Date           time.Time `json:"date"`
	Recommendation string    `json:"recommendation"` // GO, GO_WITH_MODIFICATIONS, NO_GO
	Confidence     string    `json:"confidence"`     // high, medium, low
	TechSummary    string    `json:"tech_summary,omitempty"`
	FinanceSummary string    `json:"finance_summary,omitempty"`
	Timeline       string    `json:"timeline,omitempty"`
	Concerns       []string  `json:"concerns,omitempty"`
	NextSteps      []string  `json:"next_steps,omitempty"`
}

// Idea is one app idea submission.
type Idea struct {
	Meta
	Name            string      `json:"name"`
	Description     string      `json:"description"`
	Submitter       Submitter   `json:"submitter"`
	Platforms       []string    `json:"platforms,omitempty"`
	RevenueModel    string      `json:"revenue_model,omitempty"`
	Timeline        string      `json:"timeline,omitempty"`
	BudgetRange     string      `json:"budget_range,omitempty"`
	Features        []string    `json:"features,omitempty"`
	Competitors     string      `json:"competitors,omitempty"`
	Differentiation string      `json:"differentiation,omitempty"`
	Status          IdeaStatus  `json:"status"`
	Review          *IdeaReview `json:"review,omitempty"`
}

// IdeasStore manages idea submissions.
type IdeasStore struct {
	*Collection[Idea]
}

// NewIdeasStore creates the ideas collection under dataDir.
func NewIdeasStore(dataDir string) *IdeasStore {
	return &IdeasStore{
		Collection: NewCollection(filepath.Join(dataDir, "ideas.json"), func(i *Idea) *Meta { return &i.Meta }),
	}
}

// Submit records a new idea with submitted status.
func (s *IdeasStore) Submit(idea Idea) (Idea, error) {
	if idea.Status == "" {
		idea.Status = IdeaSubmitted
	}
	return s.Create(idea)
}

// UpdateStatus moves an idea to a new status, optionally noting why.
func (s *IdeasStore) UpdateStatus(id string, status IdeaStatus, note string) (Idea, error) {
	idea, err := s.Update(id, func(i *Idea) { i.Status = status })
	if err != nil {
		return Idea{}, err
	}
	if note != "" {
		return s.AddNote(id, "system", "Status changed to "+string(status)+": "+note)
	}
	return idea, nil
}

// AttachReview stores the outcome of an idea review meeting and moves the
// idea to under_review.
func (s *IdeasStore) AttachReview(id string, review IdeaReview) (Idea, error) {
	if review.Date.IsZero() {
		review.Date = time.Now().UTC()
	}
	return s.Update(id, func(i *Idea) {
		i.Review = &review
		i.Status = IdeaUnderReview
	})
}

// Pending returns ideas awaiting review.
func (s *IdeasStore) Pending() ([]Idea, error) {
	return s.Filter(func(i Idea) bool { return i.Status == IdeaSubmitted })
}
