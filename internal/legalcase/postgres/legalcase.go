package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/legal-practice/internal/core/datamodel/client"
	caseDatamodel "github.com/frahmantamala/legal-practice/internal/core/datamodel/legalcase"
	"github.com/frahmantamala/legal-practice/internal/legalcase"
	"github.com/frahmantamala/legal-practice/internal/policy"
)

type CaseRepository struct {
	db *gorm.DB
}

func NewCaseRepository(db *gorm.DB) *CaseRepository {
	return &CaseRepository{db: db}
}

// ApplyScope restricts a cases query to the rows the scope allows.
func ApplyScope(q *gorm.DB, scope policy.Scope) *gorm.DB {
	switch scope.Kind {
	case policy.ScopeAll:
		return q
	case policy.ScopeTenant:
		return q.Where("cases.tenant_id = ?", scope.TenantID)
	case policy.ScopeTeamMember:
		return q.Where("cases.id IN (?)",
			q.Session(&gorm.Session{NewDB: true}).Model(&caseDatamodel.CaseTeamMember{}).
				Select("case_id").Where("user_id = ?", scope.UserID))
	case policy.ScopeClient:
		return q.Where("cases.client_id IN (?)",
			q.Session(&gorm.Session{NewDB: true}).Model(&client.Client{}).
				Select("id").Where("email = ? AND tenant_id = ?", scope.Email, scope.TenantID))
	case policy.ScopeOwners:
		if len(scope.OwnerIDs) == 0 {
			return q.Where("1 = 0")
		}
		return q.Where("cases.created_by IN ?", scope.OwnerIDs)
	default:
		return q.Where("1 = 0")
	}
}

func (r *CaseRepository) List(ctx context.Context, scope policy.Scope, filter legalcase.ListFilter) ([]*legalcase.Case, int64, error) {
	query := func() *gorm.DB {
		q := ApplyScope(r.db.WithContext(ctx).Model(&caseDatamodel.Case{}), scope)
		if filter.Status != "" {
			q = q.Where("cases.status = ?", filter.Status)
		}
		if filter.ClientID > 0 {
			q = q.Where("cases.client_id = ?", filter.ClientID)
		}
		return q
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*caseDatamodel.Case
	q := query().Preload("Client").Order("cases.id DESC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	teams, err := r.teams(ctx, ids(rows))
	if err != nil {
		return nil, 0, err
	}
	out := make([]*legalcase.Case, 0, len(rows))
	for _, row := range rows {
		out = append(out, legalcase.FromDataModel(row, teams[row.ID]))
	}
	return out, total, nil
}

func (r *CaseRepository) GetByID(ctx context.Context, id int64) (*legalcase.Case, error) {
	var row caseDatamodel.Case
	err := r.db.WithContext(ctx).Preload("Client").Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, legalcase.ErrCaseNotFound
		}
		return nil, err
	}
	teams, err := r.teams(ctx, []int64{row.ID})
	if err != nil {
		return nil, err
	}
	return legalcase.FromDataModel(&row, teams[row.ID]), nil
}

func (r *CaseRepository) Create(ctx context.Context, c *legalcase.Case) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := legalcase.ToDataModel(c)
		if err := tx.Omit("Client").Create(row).Error; err != nil {
			return err
		}
		if err := insertTeam(tx, row.ID, c.TeamMemberIDs); err != nil {
			return err
		}
		c.ID = row.ID
		c.CreatedAt = row.CreatedAt
		c.UpdatedAt = row.UpdatedAt
		return nil
	})
}

func (r *CaseRepository) Update(ctx context.Context, c *legalcase.Case) error {
	row := legalcase.ToDataModel(c)
	err := r.db.WithContext(ctx).Model(row).
		Select("client_id", "title", "case_number", "status", "description", "updated_at").
		Updates(row).Error
	if err != nil {
		return err
	}
	c.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *CaseRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("case_id = ?", id).Delete(&caseDatamodel.CaseTeamMember{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&caseDatamodel.Case{}).Error
	})
}

func (r *CaseRepository) ReplaceTeam(ctx context.Context, caseID int64, userIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("case_id = ?", caseID).Delete(&caseDatamodel.CaseTeamMember{}).Error; err != nil {
			return err
		}
		return insertTeam(tx, caseID, userIDs)
	})
}

func (r *CaseRepository) GetClient(ctx context.Context, clientID int64) (*legalcase.ClientRef, error) {
	var row client.Client
	err := r.db.WithContext(ctx).Where("id = ?", clientID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, legalcase.ErrClientNotFound
		}
		return nil, err
	}
	return legalcase.ClientRefFromDataModel(&row), nil
}

func (r *CaseRepository) teams(ctx context.Context, caseIDs []int64) (map[int64][]int64, error) {
	out := make(map[int64][]int64, len(caseIDs))
	if len(caseIDs) == 0 {
		return out, nil
	}
	var members []caseDatamodel.CaseTeamMember
	err := r.db.WithContext(ctx).Where("case_id IN ?", caseIDs).Order("user_id").Find(&members).Error
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		out[m.CaseID] = append(out[m.CaseID], m.UserID)
	}
	return out, nil
}

func insertTeam(tx *gorm.DB, caseID int64, userIDs []int64) error {
	if len(userIDs) == 0 {
		return nil
	}
	rows := make([]caseDatamodel.CaseTeamMember, 0, len(userIDs))
	for _, id := range userIDs {
		rows = append(rows, caseDatamodel.CaseTeamMember{CaseID: caseID, UserID: id})
	}
	return tx.Create(&rows).Error
}

func ids(rows []*caseDatamodel.Case) []int64 {
	out := make([]int64, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ID)
	}
	return out
}
