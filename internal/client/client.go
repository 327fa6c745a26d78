package client

import (
	"errors"
	"time"

	"github.com/frahmantamala/legal-practice/internal/access"
	clientDatamodel "github.com/frahmantamala/legal-practice/internal/core/datamodel/client"
	"github.com/frahmantamala/legal-practice/internal/policy"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

var ErrClientNotFound = errors.New("client not found")

type Client struct {
	ID        int64   `json:"id"`
	TenantID  *int64  `json:"tenant_id"`
	CreatedBy int64   `json:"created_by"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone,omitempty"`
	Status    string  `json:"status"`
	// TeamMemberIDs are the users assigned to any case of this client.
	TeamMemberIDs []int64   `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Target describes the client to the policy chain. A client user matches their own record by email.
func (c *Client) Target() policy.Target {
	return policy.Target{
		Resource:       access.ResourceClients,
		TenantID:       c.TenantID,
		CreatedBy:      c.CreatedBy,
		TeamMemberIDs:  c.TeamMemberIDs,
		ClientEmail:    c.Email,
		ClientTenantID: c.TenantID,
	}
}

func ToDataModel(c *Client) *clientDatamodel.Client {
	return &clientDatamodel.Client{
		ID:        c.ID,
		TenantID:  c.TenantID,
		CreatedBy: c.CreatedBy,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Status:    c.Status,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func FromDataModel(m *clientDatamodel.Client, team []int64) *Client {
	return &Client{
		ID:            m.ID,
		TenantID:      m.TenantID,
		CreatedBy:     m.CreatedBy,
		Name:          m.Name,
		Email:         m.Email,
		Phone:         m.Phone,
		Status:        m.Status,
		TeamMemberIDs: team,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
