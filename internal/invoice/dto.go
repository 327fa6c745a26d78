package invoice

import "time"

type ListFilter struct {
	Status   string
	ClientID int64
	CaseID   int64
	Limit    int
	Offset   int
}

type CreateInvoiceDTO struct {
	ClientID      int64      `json:"client_id" validate:"required,gt=0"`
	CaseID        *int64     `json:"case_id,omitempty" validate:"omitempty,gt=0"`
	InvoiceNumber string     `json:"invoice_number" validate:"required,max=64"`
	AmountCents   int64      `json:"amount_cents" validate:"gte=0"`
	Status        string     `json:"status,omitempty" validate:"omitempty,oneof=draft sent paid void"`
	DueDate       *time.Time `json:"due_date,omitempty"`
}

type UpdateInvoiceDTO struct {
	InvoiceNumber *string    `json:"invoice_number,omitempty" validate:"omitempty,min=1,max=64"`
	AmountCents   *int64     `json:"amount_cents,omitempty" validate:"omitempty,gte=0"`
	Status        *string    `json:"status,omitempty" validate:"omitempty,oneof=draft sent paid void"`
	DueDate       *time.Time `json:"due_date,omitempty"`
}
