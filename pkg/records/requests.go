package records

import (
	"path/filepath"
	"time"
)

// RequestStatus tracks an agent feature request through review.
type RequestStatus string

const (
	RequestSubmitted   RequestStatus = "submitted"
	RequestUnderReview RequestStatus = "under_review"
	RequestApproved    RequestStatus = "approved"
	RequestRejected    RequestStatus = "rejected"
	RequestInProgress  RequestStatus = "in_progress"
	RequestImplemented RequestStatus = "implemented"
	RequestDeferred    RequestStatus = "deferred"
)

// RequestPriority ranks feature requests.
type RequestPriority string

const (
	PriorityLow      RequestPriority = "low"
	PriorityMedium   RequestPriority = "medium"
	PriorityHigh     RequestPriority = "high"
	PriorityCritical RequestPriority = "critical"
)

// Vote is one agent's position on a request.
type Vote struct {
	AgentID   string    `json:"agent_id"`
	VoteType  string    `json:"vote_type"` // support, oppose, neutral
	Timestamp time.Time `json:"timestamp"`
}

// FeatureRequest is one request raised by an agent.
type FeatureRequest struct {
	Meta
	AgentID       string          `json:"agent_id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	RequestType   string          `json:"request_type"` // feature, bug, enhancement, content
	Priority      RequestPriority `json:"priority"`
	Justification string          `json:"justification,omitempty"`
	AffectedArea  string          `json:"affected_area,omitempty"`
	Status        RequestStatus   `json:"status"`
	ReviewedAt    *time.Time      `json:"reviewed_at,omitempty"`
	ReviewedBy    string          `json:"reviewed_by,omitempty"`
	ReviewNotes   string          `json:"review_notes,omitempty"`
	ImplementedAt *time.Time      `json:"implemented_at,omitempty"`
	Votes         []Vote          `json:"votes,omitempty"`
}

// RequestsStore manages agent feature requests.
type RequestsStore struct {
	*Collection[FeatureRequest]
}

// NewRequestsStore creates the requests collection under dataDir.
func NewRequestsStore(dataDir string) *RequestsStore {
	return &RequestsStore{
		Collection: NewCollection(filepath.Join(dataDir, "agent_requests.json"), func(r *FeatureRequest) *Meta { return &r.Meta }),
	}
}

// Submit records a new request.
func (s *RequestsStore) Submit(req FeatureRequest) (FeatureRequest, error) {
	if req.RequestType == "" {
		req.RequestType = "feature"
	}
	if req.Priority == "" {
		req.Priority = PriorityMedium
	}
	if req.Status == "" {
		req.Status = RequestSubmitted
	}
	return s.Create(req)
}

// SetStatus moves a request to a new status, stamping the reviewer.
func (s *RequestsStore) SetStatus(id string, status RequestStatus, reviewer, notes string) (FeatureRequest, error) {
	req, err := s.Update(id, func(r *FeatureRequest) {
		now := time.Now().UTC()
		r.Status = status
		r.ReviewedAt = &now
		r.ReviewedBy = reviewer
		if notes != "" {
			r.ReviewNotes = notes
		}
		if status == RequestImplemented {
			r.ImplementedAt = &now
		}
	})
	if err != nil {
		return FeatureRequest{}, err
	}
	if notes != "" {
		return s.AddNote(id, reviewer, "Status changed to "+string(status)+": "+notes)
	}
	return req, nil
}

// Approve approves a request.
func (s *RequestsStore) Approve(id, reviewer, notes string) (FeatureRequest, error) {
	return s.SetStatus(id, RequestApproved, reviewer, notes)
}

// Reject rejects a request with a reason.
func (s *RequestsStore) Reject(id, reviewer, reason string) (FeatureRequest, error) {
	return s.SetStatus(id, RequestRejected, reviewer, reason)
}

// CastVote records an agent's vote, replacing any earlier vote by the same
// agent.
func (s *RequestsStore) CastVote(id, agentID, voteType string) (FeatureRequest, error) {
	return s.Update(id, func(r *FeatureRequest) {
		kept := r.Votes[:0]
		for _, v := range r.Votes {
			if v.AgentID != agentID {
				kept = append(kept, v)
			}
		}
		r.Votes = append(kept, Vote{
			AgentID:   agentID,
			VoteType:  voteType,
			Timestamp: time.Now().UTC(),
		})
	})
}

// Pending returns requests awaiting review.
func (s *RequestsStore) Pending() ([]FeatureRequest, error) {
	return s.Filter(func(r FeatureRequest) bool {
		return r.Status == RequestSubmitted || r.Status == RequestUnderReview
	})
}

// ByAgent returns all requests from one agent.
func (s *RequestsStore) ByAgent(agentID string) ([]FeatureRequest, error) {
	return s.Filter(func(r FeatureRequest) bool { return r.AgentID == agentID })
}
