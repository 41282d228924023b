package records

import "path/filepath"

// Client is one client relationship.
type Client struct {
	Meta
	Name           string   `json:"name"`
	Company        string   `json:"company"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone,omitempty"`
	Address        string   `json:"address,omitempty"`
	BillingEmail   string   `json:"billing_email,omitempty"`
	PrimaryContact string   `json:"primary_contact,omitempty"`
	Source         string   `json:"source,omitempty"`
	Projects       []string `json:"projects,omitempty"`
	Ideas          []string `json:"ideas,omitempty"`
	TotalRevenue   float64  `json:"total_revenue"`
	TotalInvoiced  float64  `json:"total_invoiced"`
	TotalPaid      float64  `json:"total_paid"`
	Status         string   `json:"status"`
}

// ClientsStore manages client relationships.
type ClientsStore struct {
	*Collection[Client]
}

// NewClientsStore creates the clients collection under dataDir.
func NewClientsStore(dataDir string) *ClientsStore {
	return &ClientsStore{
		Collection: NewCollection(filepath.Join(dataDir, "clients.json"), func(c *Client) *Meta { return &c.Meta }),
	}
}

// Add records a new client, defaulting billing email and primary contact.
func (s *ClientsStore) Add(client Client) (Client, error) {
	if client.BillingEmail == "" {
		client.BillingEmail = client.Email
	}
	if client.PrimaryContact == "" {
		client.PrimaryContact = client.Name
	}
	if client.Status == "" {
		client.Status = "active"
	}
	return s.Create(client)
}

// LinkIdea associates an idea with the client.
func (s *ClientsStore) LinkIdea(clientID, ideaID string) (Client, error) {
	return s.Update(clientID, func(c *Client) {
		for _, id := range c.Ideas {
			if id == ideaID {
				return
			}
		}
		c.Ideas = append(c.Ideas, ideaID)
	})
}

// LinkProject associates a project with the client.
func (s *ClientsStore) LinkProject(clientID, projectID string) (Client, error) {
	return s.Update(clientID, func(c *Client) {
		for _, id := range c.Projects {
			if id == projectID {
				return
			}
		}
		c.Projects = append(c.Projects, projectID)
	})
}

// AddFinancials bumps the client's running financial totals.
func (s *ClientsStore) AddFinancials(clientID string, invoiced, paid, revenue float64) (Client, error) {
	return s.Update(clientID, func(c *Client) {
		c.TotalInvoiced += invoiced
		c.TotalPaid += paid
		c.TotalRevenue += revenue
	})
}
