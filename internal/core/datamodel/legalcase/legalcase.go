package legalcase

import (
	"time"

	"github.com/frahmantamala/legal-practice/internal/core/datamodel/client"
)

type Case struct {
	ID          int64          `gorm:"primaryKey"`
	TenantID    *int64         `gorm:"column:tenant_id;index"`
	CreatedBy   int64          `gorm:"column:created_by;not null;index"`
	ClientID    *int64         `gorm:"column:client_id;index"`
	Client      *client.Client `gorm:"foreignKey:ClientID"`
	Title       string         `gorm:"column:title;not null"`
	CaseNumber  string         `gorm:"column:case_number"`
	Status      string         `gorm:"column:status;not null;default:open"`
	Description string         `gorm:"column:description"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (Case) TableName() string { return "cases" }

type CaseTeamMember struct {
	CaseID    int64     `gorm:"column:case_id;primaryKey;autoIncrement:false"`
	UserID    int64     `gorm:"column:user_id;primaryKey;autoIncrement:false;index"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (CaseTeamMember) TableName() string { return "case_team_members" }
