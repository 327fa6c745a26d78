package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/legal-practice/internal/client"
	clientDatamodel "github.com/frahmantamala/legal-practice/internal/core/datamodel/client"
	caseDatamodel "github.com/frahmantamala/legal-practice/internal/core/datamodel/legalcase"
	invoiceDatamodel "github.com/frahmantamala/legal-practice/internal/core/datamodel/invoice"
	"github.com/frahmantamala/legal-practice/internal/policy"
)

type ClientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) scoped(ctx context.Context, scope policy.Scope) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&clientDatamodel.Client{})
	switch scope.Kind {
	case policy.ScopeAll:
		return q
	case policy.ScopeTenant:
		return q.Where("clients.tenant_id = ?", scope.TenantID)
	case policy.ScopeTeamMember:
		return q.Where("clients.id IN (?)", r.teamCases(ctx, scope.UserID))
	case policy.ScopeClient:
		return q.Where("clients.email = ? AND clients.tenant_id = ?", scope.Email, scope.TenantID)
	case policy.ScopeOwners:
		if len(scope.OwnerIDs) == 0 {
			return q.Where("1 = 0")
		}
		return q.Where("clients.created_by IN ?", scope.OwnerIDs)
	default:
		return q.Where("1 = 0")
	}
}

// teamCases selects the client ids of cases the user is assigned to.
func (r *ClientRepository) teamCases(ctx context.Context, userID int64) *gorm.DB {
	members := r.db.WithContext(ctx).Model(&caseDatamodel.CaseTeamMember{}).
		Select("case_id").Where("user_id = ?", userID)
	return r.db.WithContext(ctx).Model(&caseDatamodel.Case{}).
		Select("client_id").Where("id IN (?) AND client_id IS NOT NULL", members)
}

func (r *ClientRepository) List(ctx context.Context, scope policy.Scope, filter client.ListFilter) ([]*client.Client, int64, error) {
	query := func() *gorm.DB {
		q := r.scoped(ctx, scope)
		if filter.Status != "" {
			q = q.Where("clients.status = ?", filter.Status)
		}
		if filter.Search != "" {
			like := "%" + filter.Search + "%"
			q = q.Where("clients.name LIKE ? OR clients.email LIKE ?", like, like)
		}
		return q
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*clientDatamodel.Client
	q := query().Order("clients.name ASC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]*client.Client, 0, len(rows))
	for _, row := range rows {
		out = append(out, client.FromDataModel(row, nil))
	}
	return out, total, nil
}

func (r *ClientRepository) GetByID(ctx context.Context, id int64) (*client.Client, error) {
	var row clientDatamodel.Client
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, client.ErrClientNotFound
		}
		return nil, err
	}

	var team []int64
	err := r.db.WithContext(ctx).Model(&caseDatamodel.CaseTeamMember{}).
		Distinct("case_team_members.user_id").
		Joins("JOIN cases ON cases.id = case_team_members.case_id").
		Where("cases.client_id = ?", id).
		Pluck("case_team_members.user_id", &team).Error
	if err != nil {
		return nil, err
	}
	return client.FromDataModel(&row, team), nil
}

func (r *ClientRepository) Create(ctx context.Context, c *client.Client) error {
	row := client.ToDataModel(c)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	c.ID = row.ID
	c.CreatedAt = row.CreatedAt
	c.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *ClientRepository) Update(ctx context.Context, c *client.Client) error {
	row := client.ToDataModel(c)
	err := r.db.WithContext(ctx).Model(row).
		Select("name", "email", "phone", "status", "updated_at").
		Updates(row).Error
	if err != nil {
		return err
	}
	c.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *ClientRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&clientDatamodel.Client{}).Error
}

func (r *ClientRepository) InUse(ctx context.Context, id int64) (bool, error) {
	var cases, invoices int64
	if err := r.db.WithContext(ctx).Model(&caseDatamodel.Case{}).Where("client_id = ?", id).Count(&cases).Error; err != nil {
		return false, err
	}
	if err := r.db.WithContext(ctx).Model(&invoiceDatamodel.Invoice{}).Where("client_id = ?", id).Count(&invoices).Error; err != nil {
		return false, err
	}
	return cases+invoices > 0, nil
}
