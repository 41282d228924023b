package records

import (
	"path/filepath"
	"strings"
	"time"
)

// InvoiceStatus tracks an invoice from draft to settlement.
type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "draft"
	InvoiceSent      InvoiceStatus = "sent"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceOverdue   InvoiceStatus = "overdue"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

// PaymentType classifies money moving in or out.
type PaymentType string

const (
	PaymentClient     PaymentType = "client_payment"
	PaymentTester     PaymentType = "tester_payment"
	PaymentContractor PaymentType = "contractor_payment"
	PaymentRevShare   PaymentType = "revenue_share"
	PaymentExpense    PaymentType = "expense"
)

// LineItem is one billed line on an invoice.
type LineItem struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// Transaction is one row in the finances ledger: an invoice, payment,
// expense, or revenue-share entry, discriminated by Type.
type Transaction struct {
	Meta
	Type string `json:"type"` // invoice, payment, expense, revenue_share

	// Invoice fields.
	InvoiceNumber string        `json:"invoice_number,omitempty"`
	Status        InvoiceStatus `json:"status,omitempty"`
	DueDate       string        `json:"due_date,omitempty"`
	LineItems     []LineItem    `json:"line_items,omitempty"`
	SentDate      *time.Time    `json:"sent_date,omitempty"`
	PaidDate      *time.Time    `json:"paid_date,omitempty"`

	// Payment fields.
	PaymentType PaymentType `json:"payment_type,omitempty"`
	ReferenceID string      `json:"reference_id,omitempty"`
	InvoiceID   string      `json:"invoice_id,omitempty"`

	// Expense fields.
	Category string `json:"category,omitempty"`
	Vendor   string `json:"vendor,omitempty"`

	// Revenue-share fields.
	GrossRevenue    float64 `json:"gross_revenue,omitempty"`
	OurSharePercent float64 `json:"our_share_percent,omitempty"`
	OurShareAmount  float64 `json:"our_share_amount,omitempty"`
	Period          string  `json:"period,omitempty"` // e.g. "2026-08"

	// Shared.
	ClientID    string  `json:"client_id,omitempty"`
	ProjectID   string  `json:"project_id,omitempty"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description,omitempty"`
}

// PeriodSummary breaks revenue down for one period.
type PeriodSummary struct {
	ClientPayments float64
	RevenueShare   float64
	Expenses       float64
	Net            float64
}

// FinancesStore manages the transaction ledger.
type FinancesStore struct {
	*Collection[Transaction]
}

// NewFinancesStore creates the finances collection under dataDir.
func NewFinancesStore(dataDir string) *FinancesStore {
	return &FinancesStore{
		Collection: NewCollection(filepath.Join(dataDir, "finances.json"), func(t *Transaction) *Meta { return &t.Meta }),
	}
}

// CreateInvoice adds a draft invoice with a generated invoice number.
func (s *FinancesStore) CreateInvoice(tx Transaction) (Transaction, error) {
	tx.Type = "invoice"
	if tx.Status == "" {
		tx.Status = InvoiceDraft
	}
	if tx.InvoiceNumber == "" {
		tx.InvoiceNumber = "INV-" + time.Now().Format("20060102") + "-" + strings.ToUpper(newID()[:4])
	}
	if len(tx.LineItems) == 0 {
		tx.LineItems = []LineItem{{Description: tx.Description, Amount: tx.Amount}}
	}
	return s.Create(tx)
}

// RecordPayment adds a payment entry.
func (s *FinancesStore) RecordPayment(tx Transaction) (Transaction, error) {
	tx.Type = "payment"
	return s.Create(tx)
}

// RecordExpense adds an expense entry.
func (s *FinancesStore) RecordExpense(tx Transaction) (Transaction, error) {
	tx.Type = "expense"
	return s.Create(tx)
}

// RecordRevenueShare adds a revenue-share entry for a period.
func (s *FinancesStore) RecordRevenueShare(tx Transaction) (Transaction, error) {
	tx.Type = "revenue_share"
	return s.Create(tx)
}

// MarkInvoiceSent stamps an invoice sent.
func (s *FinancesStore) MarkInvoiceSent(id string) (Transaction, error) {
	return s.Update(id, func(t *Transaction) {
		now := time.Now().UTC()
		t.Status = InvoiceSent
		t.SentDate = &now
	})
}

// MarkInvoicePaid stamps an invoice paid.
func (s *FinancesStore) MarkInvoicePaid(id string) (Transaction, error) {
	return s.Update(id, func(t *Transaction) {
		now := time.Now().UTC()
		t.Status = InvoicePaid
		t.PaidDate = &now
	})
}

// Invoices returns invoices, optionally filtered by status.
func (s *FinancesStore) Invoices(status InvoiceStatus) ([]Transaction, error) {
	return s.Filter(func(t Transaction) bool {
		if t.Type != "invoice" {
			return false
		}
		return status == "" || t.Status == status
	})
}

// OutstandingBalance sums sent and overdue invoices for a client. An empty
// clientID sums across all clients.
func (s *FinancesStore) OutstandingBalance(clientID string) (float64, error) {
	invoices, err := s.Filter(func(t Transaction) bool {
		if t.Type != "invoice" || (t.Status != InvoiceSent && t.Status != InvoiceOverdue) {
			return false
		}
		return clientID == "" || t.ClientID == clientID
	})
	if err != nil {
		return 0, err
	}
	var total float64
	for _, inv := range invoices {
		total += inv.Amount
	}
	return total, nil
}

// RevenueByPeriod breaks revenue down for a period ("YYYY-MM").
func (s *FinancesStore) RevenueByPeriod(period string) (PeriodSummary, error) {
	all, err := s.List()
	if err != nil {
		return PeriodSummary{}, err
	}
	var summary PeriodSummary
	for _, tx := range all {
		switch tx.Type {
		case "payment":
			if tx.PaymentType == PaymentClient && tx.CreatedAt.Format("2006-01") == period {
				summary.ClientPayments += tx.Amount
			}
		case "revenue_share":
			if tx.Period == period {
				summary.RevenueShare += tx.OurShareAmount
			}
		case "expense":
			if tx.CreatedAt.Format("2006-01") == period {
				summary.Expenses += tx.Amount
			}
		}
	}
	summary.Net = summary.ClientPayments + summary.RevenueShare - summary.Expenses
	return summary, nil
}
