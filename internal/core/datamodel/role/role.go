package role

import "time"

const GuardWeb = "web"

// Role is unique per (name, guard_name, created_by). CreatedBy 0 marks a central role.
type Role struct {
	ID          int64     `gorm:"primaryKey"`
	Name        string    `gorm:"column:name;not null;uniqueIndex:idx_roles_scope"`
	GuardName   string    `gorm:"column:guard_name;not null;default:web;uniqueIndex:idx_roles_scope"`
	CreatedBy   int64     `gorm:"column:created_by;not null;default:0;uniqueIndex:idx_roles_scope"`
	Label       string    `gorm:"column:label"`
	Description string    `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Role) TableName() string { return "roles" }

type Permission struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"column:name;uniqueIndex;not null"`
	GuardName string    `gorm:"column:guard_name;not null;default:web"`
	Label     string    `gorm:"column:label"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Permission) TableName() string { return "permissions" }

type RoleHasPermission struct {
	RoleID       int64 `gorm:"column:role_id;primaryKey;autoIncrement:false"`
	PermissionID int64 `gorm:"column:permission_id;primaryKey;autoIncrement:false"`
}

func (RoleHasPermission) TableName() string { return "role_has_permissions" }

type ModelHasRole struct {
	UserID int64 `gorm:"column:user_id;primaryKey;autoIncrement:false"`
	RoleID int64 `gorm:"column:role_id;primaryKey;autoIncrement:false"`
}

func (ModelHasRole) TableName() string { return "model_has_roles" }

type ModelHasPermission struct {
	UserID       int64 `gorm:"column:user_id;primaryKey;autoIncrement:false"`
	PermissionID int64 `gorm:"column:permission_id;primaryKey;autoIncrement:false"`
}

func (ModelHasPermission) TableName() string { return "model_has_permissions" }
