package legalcase

import (
	"errors"
	"time"

	"github.com/frahmantamala/legal-practice/internal/access"
	clientDatamodel "github.com/frahmantamala/legal-practice/internal/core/datamodel/client"
	caseDatamodel "github.com/frahmantamala/legal-practice/internal/core/datamodel/legalcase"
	"github.com/frahmantamala/legal-practice/internal/policy"
)

const (
	StatusOpen    = "open"
	StatusPending = "pending"
	StatusClosed  = "closed"
)

var Statuses = []string{StatusOpen, StatusPending, StatusClosed}

var (
	ErrCaseNotFound   = errors.New("case not found")
	ErrClientNotFound = errors.New("client not found")
)

// ClientRef is the part of the client record a case exposes and authorizes against.
type ClientRef struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	TenantID *int64 `json:"tenant_id,omitempty"`
}

type Case struct {
	ID            int64      `json:"id"`
	TenantID      *int64     `json:"tenant_id"`
	CreatedBy     int64      `json:"created_by"`
	ClientID      *int64     `json:"client_id,omitempty"`
	Client        *ClientRef `json:"client,omitempty"`
	Title         string     `json:"title"`
	CaseNumber    string     `json:"case_number,omitempty"`
	Status        string     `json:"status"`
	Description   string     `json:"description,omitempty"`
	TeamMemberIDs []int64    `json:"team_member_ids"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Target describes the case to the policy chain.
func (c *Case) Target() policy.Target {
	t := policy.Target{
		Resource:      access.ResourceCases,
		TenantID:      c.TenantID,
		CreatedBy:     c.CreatedBy,
		TeamMemberIDs: c.TeamMemberIDs,
	}
	if c.Client != nil {
		t.ClientEmail = c.Client.Email
		t.ClientTenantID = c.Client.TenantID
	}
	return t
}

func (c *Case) HasTeamMember(userID int64) bool {
	for _, id := range c.TeamMemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func ToDataModel(c *Case) *caseDatamodel.Case {
	return &caseDatamodel.Case{
		ID:          c.ID,
		TenantID:    c.TenantID,
		CreatedBy:   c.CreatedBy,
		ClientID:    c.ClientID,
		Title:       c.Title,
		CaseNumber:  c.CaseNumber,
		Status:      c.Status,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func FromDataModel(m *caseDatamodel.Case, team []int64) *Case {
	if team == nil {
		team = []int64{}
	}
	c := &Case{
		ID:            m.ID,
		TenantID:      m.TenantID,
		CreatedBy:     m.CreatedBy,
		ClientID:      m.ClientID,
		Title:         m.Title,
		CaseNumber:    m.CaseNumber,
		Status:        m.Status,
		Description:   m.Description,
		TeamMemberIDs: team,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if m.Client != nil {
		c.Client = ClientRefFromDataModel(m.Client)
	}
	return c
}

func ClientRefFromDataModel(m *clientDatamodel.Client) *ClientRef {
	return &ClientRef{ID: m.ID, Name: m.Name, Email: m.Email, TenantID: m.TenantID}
}
