package role

import (
	"errors"
	"time"

	roleDatamodel "github.com/frahmantamala/legal-practice/internal/core/datamodel/role"
)

var (
	ErrRoleNotFound = errors.New("role not found")
	ErrUserNotFound = errors.New("user not found")
)

type Role struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	GuardName   string    `json:"guard_name"`
	CreatedBy   int64     `json:"created_by"`
	Label       string    `json:"label,omitempty"`
	Description string    `json:"description,omitempty"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func FromDataModel(m *roleDatamodel.Role, permissions []string) *Role {
	if permissions == nil {
		permissions = []string{}
	}
	return &Role{
		ID:          m.ID,
		Name:        m.Name,
		GuardName:   m.GuardName,
		CreatedBy:   m.CreatedBy,
		Label:       m.Label,
		Description: m.Description,
		Permissions: permissions,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
