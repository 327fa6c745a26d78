package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/legal-practice/internal/access"
	userDatamodel "github.com/frahmantamala/legal-practice/internal/core/datamodel/user"
	"github.com/frahmantamala/legal-practice/internal/policy"
	rolePostgres "github.com/frahmantamala/legal-practice/internal/role/postgres"
	"github.com/frahmantamala/legal-practice/internal/user"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

var _ user.Repository = (*UserRepository)(nil)

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	var row userDatamodel.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	return user.FromDataModel(&row), nil
}

func (r *UserRepository) List(ctx context.Context, scope policy.Scope, filter user.ListFilter) ([]*user.User, int64, error) {
	query := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&userDatamodel.User{})
		switch scope.Kind {
		case policy.ScopeAll:
		case policy.ScopeTenant:
			q = q.Where("tenant_id = ?", scope.TenantID)
		case policy.ScopeTeamMember:
			q = q.Where("id = ?", scope.UserID)
		case policy.ScopeClient:
			q = q.Where("email = ? AND tenant_id = ?", scope.Email, scope.TenantID)
		case policy.ScopeOwners:
			if len(scope.OwnerIDs) == 0 {
				q = q.Where("1 = 0")
			} else {
				q = q.Where("id IN ? OR created_by IN ?", scope.OwnerIDs, scope.OwnerIDs)
			}
		default:
			q = q.Where("1 = 0")
		}
		if filter.Type != "" {
			q = q.Where("type = ?", filter.Type)
		}
		if filter.Status != "" {
			q = q.Where("status = ?", filter.Status)
		}
		return q
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*userDatamodel.User
	q := query().Order("id ASC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]*user.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, user.FromDataModel(row))
	}
	return out, total, nil
}

func (r *UserRepository) Create(ctx context.Context, u *user.User, roleName string, scope int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := user.ToDataModel(u)
		if err := tx.Create(row).Error; err != nil {
			return err
		}

		var defaults []string
		for _, p := range access.DefaultRolePermissions()[roleName] {
			defaults = append(defaults, string(p))
		}
		role, err := rolePostgres.EnsureRole(tx, roleName, scope, defaults)
		if err != nil {
			return err
		}
		if err := rolePostgres.AssignRole(tx, row.ID, role.ID); err != nil {
			return err
		}

		u.ID = row.ID
		u.CreatedAt = row.CreatedAt
		u.UpdatedAt = row.UpdatedAt
		return nil
	})
}

func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	row := user.ToDataModel(u)
	err := r.db.WithContext(ctx).Model(row).
		Select("name", "email", "phone", "status", "updated_at").
		Updates(row).Error
	if err != nil {
		return err
	}
	u.UpdatedAt = row.UpdatedAt
	return nil
}
