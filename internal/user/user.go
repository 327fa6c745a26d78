package user

import (
	"errors"
	"time"

	"github.com/frahmantamala/legal-practice/internal/access"
	userDatamodel "github.com/frahmantamala/legal-practice/internal/core/datamodel/user"
	"github.com/frahmantamala/legal-practice/internal/policy"
)

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        *string   `json:"phone,omitempty"`
	PasswordHash string    `json:"-"`
	Type         string    `json:"type"`
	TenantID     *int64    `json:"tenant_id,omitempty"`
	CreatedBy    *int64    `json:"created_by,omitempty"`
	Status       string    `json:"status"`
	Roles        []string  `json:"roles,omitempty"`
	Permissions  []string  `json:"permissions,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

var ErrNotFound = errors.New("user not found")

// Owner is the company that owns the user row; company and superadmin accounts own themselves.
func (u *User) Owner() int64 {
	if u.CreatedBy != nil {
		return *u.CreatedBy
	}
	return u.ID
}

// Target lets team members and client users reach their own record and nothing else.
func (u *User) Target() policy.Target {
	return policy.Target{
		Resource:       access.ResourceUsers,
		TenantID:       u.TenantID,
		CreatedBy:      u.Owner(),
		TeamMemberIDs:  []int64{u.ID},
		ClientEmail:    u.Email,
		ClientTenantID: u.TenantID,
	}
}

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Phone:        u.Phone,
		PasswordHash: u.PasswordHash,
		Type:         u.Type,
		TenantID:     u.TenantID,
		CreatedBy:    u.CreatedBy,
		Status:       u.Status,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Phone:        u.Phone,
		PasswordHash: u.PasswordHash,
		Type:         u.Type,
		TenantID:     u.TenantID,
		CreatedBy:    u.CreatedBy,
		Status:       u.Status,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
