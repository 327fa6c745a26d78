package client

import "time"

type Client struct {
	ID        int64     `gorm:"primaryKey"`
	TenantID  *int64    `gorm:"column:tenant_id;index"`
	CreatedBy int64     `gorm:"column:created_by;not null;index"`
	Name      string    `gorm:"column:name;not null"`
	Email     string    `gorm:"column:email;not null;index"`
	Phone     *string   `gorm:"column:phone"`
	Status    string    `gorm:"column:status;not null;default:active"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Client) TableName() string { return "clients" }
