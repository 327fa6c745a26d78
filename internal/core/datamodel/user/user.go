package user

import "time"

const (
	TypeSuperAdmin = "superadmin"
	TypeCompany    = "company"
	TypeTeamMember = "team_member"
	TypeClient     = "client"

	StatusActive   = "active"
	StatusInactive = "inactive"
)

// User is any principal of the system. CreatedBy holds the company owner for team members and client users.
type User struct {
	ID           int64     `gorm:"primaryKey"`
	Name         string    `gorm:"column:name;not null"`
	Email        string    `gorm:"column:email;not null;index:idx_users_tenant_email"`
	Phone        *string   `gorm:"column:phone"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	Type         string    `gorm:"column:type;not null;index"`
	TenantID     *int64    `gorm:"column:tenant_id;index:idx_users_tenant_email"`
	CreatedBy    *int64    `gorm:"column:created_by;index"`
	Status       string    `gorm:"column:status;not null;default:active"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string { return "users" }

func (u User) IsActive() bool { return u.Status == StatusActive }

type Tenant struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Slug      string    `gorm:"column:slug;uniqueIndex;not null"`
	OwnerID   int64     `gorm:"column:owner_id;not null;index"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Tenant) TableName() string { return "tenants" }
