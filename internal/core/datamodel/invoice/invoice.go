package invoice

import (
	"time"

	"github.com/frahmantamala/legal-practice/internal/core/datamodel/client"
)

type Invoice struct {
	ID            int64          `gorm:"primaryKey"`
	TenantID      *int64         `gorm:"column:tenant_id;index"`
	CreatedBy     int64          `gorm:"column:created_by;not null;index"`
	ClientID      int64          `gorm:"column:client_id;not null;index"`
	Client        *client.Client `gorm:"foreignKey:ClientID"`
	CaseID        *int64         `gorm:"column:case_id;index"`
	InvoiceNumber string         `gorm:"column:invoice_number;not null"`
	AmountCents   int64          `gorm:"column:amount_cents;not null"`
	Status        string         `gorm:"column:status;not null;default:draft"`
	DueDate       *time.Time     `gorm:"column:due_date"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (Invoice) TableName() string { return "invoices" }
