package invoice

import (
	"errors"
	"time"

	"github.com/frahmantamala/legal-practice/internal/access"
	clientDatamodel "github.com/frahmantamala/legal-practice/internal/core/datamodel/client"
	invoiceDatamodel "github.com/frahmantamala/legal-practice/internal/core/datamodel/invoice"
	"github.com/frahmantamala/legal-practice/internal/policy"
)

const (
	StatusDraft = "draft"
	StatusSent  = "sent"
	StatusPaid  = "paid"
	StatusVoid  = "void"
)

var (
	ErrInvoiceNotFound = errors.New("invoice not found")
	ErrClientNotFound  = errors.New("client not found")
	ErrCaseNotFound    = errors.New("case not found")
)

type ClientRef struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	TenantID *int64 `json:"tenant_id,omitempty"`
}

// CaseRef is the case an invoice may be billed against.
type CaseRef struct {
	ID       int64
	TenantID *int64
	ClientID *int64
}

type Invoice struct {
	ID            int64      `json:"id"`
	TenantID      *int64     `json:"tenant_id"`
	CreatedBy     int64      `json:"created_by"`
	ClientID      int64      `json:"client_id"`
	Client        *ClientRef `json:"client,omitempty"`
	CaseID        *int64     `json:"case_id,omitempty"`
	InvoiceNumber string     `json:"invoice_number"`
	AmountCents   int64      `json:"amount_cents"`
	Status        string     `json:"status"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	// TeamMemberIDs come from the invoice's case, or from every case of its client when there is none.
	TeamMemberIDs []int64   `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (i *Invoice) Target() policy.Target {
	t := policy.Target{
		Resource:      access.ResourceInvoices,
		TenantID:      i.TenantID,
		CreatedBy:     i.CreatedBy,
		TeamMemberIDs: i.TeamMemberIDs,
	}
	if i.Client != nil {
		t.ClientEmail = i.Client.Email
		t.ClientTenantID = i.Client.TenantID
	}
	return t
}

func ToDataModel(i *Invoice) *invoiceDatamodel.Invoice {
	return &invoiceDatamodel.Invoice{
		ID:            i.ID,
		TenantID:      i.TenantID,
		CreatedBy:     i.CreatedBy,
		ClientID:      i.ClientID,
		CaseID:        i.CaseID,
		InvoiceNumber: i.InvoiceNumber,
		AmountCents:   i.AmountCents,
		Status:        i.Status,
		DueDate:       i.DueDate,
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
	}
}

func FromDataModel(m *invoiceDatamodel.Invoice, team []int64) *Invoice {
	i := &Invoice{
		ID:            m.ID,
		TenantID:      m.TenantID,
		CreatedBy:     m.CreatedBy,
		ClientID:      m.ClientID,
		CaseID:        m.CaseID,
		InvoiceNumber: m.InvoiceNumber,
		AmountCents:   m.AmountCents,
		Status:        m.Status,
		DueDate:       m.DueDate,
		TeamMemberIDs: team,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if m.Client != nil {
		i.Client = ClientRefFromDataModel(m.Client)
	}
	return i
}

func ClientRefFromDataModel(m *clientDatamodel.Client) *ClientRef {
	return &ClientRef{ID: m.ID, Name: m.Name, Email: m.Email, TenantID: m.TenantID}
}
