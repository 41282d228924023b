package records

import (
	"fmt"
	"path/filepath"
)

// TesterStatus tracks a beta tester through the program.
type TesterStatus string

const (
	TesterApplied  TesterStatus = "applied"
	TesterApproved TesterStatus = "approved"
	TesterActive   TesterStatus = "active"
	TesterInactive TesterStatus = "inactive"
	TesterRejected TesterStatus = "rejected"
)

// Device describes one piece of tester hardware.
type Device struct {
	Type  string `json:"type"`
	Model string `json:"model,omitempty"`
	OS    string `json:"os,omitempty"`
}

// Payment holds how a tester gets paid.
type Payment struct {
	Method  string `json:"method"` // paypal, venmo, crypto
	Details string `json:"details"`
}

// Tester is one beta tester in the program.
type Tester struct {
	Meta
	Name            string       `json:"name"`
	Email           string       `json:"email"`
	Devices         []Device     `json:"devices,omitempty"`
	ExperienceLevel string       `json:"experience_level,omitempty"`
	HoursPerWeek    int          `json:"hours_per_week,omitempty"`
	Payment         Payment      `json:"payment"`
	Location        string       `json:"location,omitempty"`
	Languages       []string     `json:"languages,omitempty"`
	Status          TesterStatus `json:"status"`
	Projects        []string     `json:"projects,omitempty"`
	FeedbackCount   int          `json:"feedback_count"`
	TotalEarned     float64      `json:"total_earned"`
	Rating          float64      `json:"rating,omitempty"` // 1-5
}

// TestersStore manages the beta tester program.
type TestersStore struct {
	*Collection[Tester]
}

// NewTestersStore creates the testers collection under dataDir.
func NewTestersStore(dataDir string) *TestersStore {
	return &TestersStore{
		Collection: NewCollection(filepath.Join(dataDir, "testers.json"), func(t *Tester) *Meta { return &t.Meta }),
	}
}

// Register records a new tester application.
func (s *TestersStore) Register(tester Tester) (Tester, error) {
	if tester.Status == "" {
		tester.Status = TesterApplied
	}
	if len(tester.Languages) == 0 {
		tester.Languages = []string{"English"}
	}
	return s.Create(tester)
}

// Approve marks an application approved.
func (s *TestersStore) Approve(id, note string) (Tester, error) {
	tester, err := s.Update(id, func(t *Tester) { t.Status = TesterApproved })
	if err != nil {
		return Tester{}, err
	}
	if note != "" {
		return s.AddNote(id, "QALead", "Application approved: "+note)
	}
	return tester, nil
}

// Reject marks an application rejected with a reason.
func (s *TestersStore) Reject(id, reason string) (Tester, error) {
	if _, err := s.Update(id, func(t *Tester) { t.Status = TesterRejected }); err != nil {
		return Tester{}, err
	}
	return s.AddNote(id, "QALead", "Application rejected: "+reason)
}

// AssignToProject puts a tester on a project and marks them active.
func (s *TestersStore) AssignToProject(id, projectID string) (Tester, error) {
	return s.Update(id, func(t *Tester) {
		for _, p := range t.Projects {
			if p == projectID {
				t.Status = TesterActive
				return
			}
		}
		t.Projects = append(t.Projects, projectID)
		t.Status = TesterActive
	})
}

// RecordPayment adds a payment to the tester's running total.
func (s *TestersStore) RecordPayment(id string, amount float64, projectID string) (Tester, error) {
	if _, err := s.Update(id, func(t *Tester) { t.TotalEarned += amount }); err != nil {
		return Tester{}, err
	}
	return s.AddNote(id, "CFO", fmt.Sprintf("Payment of $%.2f for project %s", amount, projectID))
}

// Available returns testers who are approved or active.
func (s *TestersStore) Available() ([]Tester, error) {
	return s.Filter(func(t Tester) bool {
		return t.Status == TesterApproved || t.Status == TesterActive
	})
}
