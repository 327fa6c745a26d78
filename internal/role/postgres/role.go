package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/frahmantamala/legal-practice/internal/access"
	roleDatamodel "github.com/frahmantamala/legal-practice/internal/core/datamodel/role"
	userDatamodel "github.com/frahmantamala/legal-practice/internal/core/datamodel/user"
	"github.com/frahmantamala/legal-practice/internal/role"
)

type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) ListByScope(ctx context.Context, scope int64) ([]*role.Role, error) {
	var rows []roleDatamodel.Role
	err := r.db.WithContext(ctx).
		Where("created_by = ? AND guard_name = ?", scope, roleDatamodel.GuardWeb).
		Order("name").Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]*role.Role, 0, len(rows))
	for i := range rows {
		perms, err := permissionNames(r.db.WithContext(ctx), rows[i].ID)
		if err != nil {
			return nil, err
		}
		out = append(out, role.FromDataModel(&rows[i], perms))
	}
	return out, nil
}

func (r *RoleRepository) GetByID(ctx context.Context, id int64) (*role.Role, error) {
	var row roleDatamodel.Role
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, role.ErrRoleNotFound
		}
		return nil, err
	}
	perms, err := permissionNames(r.db.WithContext(ctx), row.ID)
	if err != nil {
		return nil, err
	}
	return role.FromDataModel(&row, perms), nil
}

func (r *RoleRepository) Create(ctx context.Context, rl *role.Role) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := roleDatamodel.Role{
			Name:        rl.Name,
			GuardName:   roleDatamodel.GuardWeb,
			CreatedBy:   rl.CreatedBy,
			Label:       rl.Label,
			Description: rl.Description,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		if err := syncPermissions(tx, row.ID, rl.Permissions); err != nil {
			return err
		}
		rl.ID = row.ID
		rl.GuardName = row.GuardName
		rl.CreatedAt = row.CreatedAt
		rl.UpdatedAt = row.UpdatedAt
		return nil
	})
}

func (r *RoleRepository) SyncPermissions(ctx context.Context, roleID int64, permissions []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return syncPermissions(tx, roleID, permissions)
	})
}

func (r *RoleRepository) Assign(ctx context.Context, userID, roleID int64) error {
	return AssignRole(r.db.WithContext(ctx), userID, roleID)
}

// Delete removes an unassigned role with its permission links. Callers check InUse first.
func (r *RoleRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", id).Delete(&roleDatamodel.RoleHasPermission{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&roleDatamodel.Role{}).Error
	})
}

func (r *RoleRepository) InUse(ctx context.Context, id int64) (bool, error) {
	var holders int64
	if err := r.db.WithContext(ctx).Model(&roleDatamodel.ModelHasRole{}).Where("role_id = ?", id).Count(&holders).Error; err != nil {
		return false, err
	}
	return holders > 0, nil
}

// GetSubject loads the user a role is about to be assigned to.
func (r *RoleRepository) GetSubject(ctx context.Context, userID int64) (*access.Subject, error) {
	var u userDatamodel.User
	if err := r.db.WithContext(ctx).Where("id = ?", userID).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, role.ErrUserNotFound
		}
		return nil, err
	}
	return &access.Subject{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Type:      u.Type,
		TenantID:  u.TenantID,
		CreatedBy: u.CreatedBy,
		Status:    u.Status,
	}, nil
}

// SyncCatalog makes sure a permission row exists for every name.
func (r *RoleRepository) SyncCatalog(ctx context.Context, names []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := permissionIDs(tx, names)
		return err
	})
}

// EnsureRole returns the (name, web, scope) role, creating it with the given permissions when absent.
func EnsureRole(tx *gorm.DB, name string, scope int64, permissions []string) (roleDatamodel.Role, error) {
	var row roleDatamodel.Role
	err := tx.Where("name = ? AND guard_name = ? AND created_by = ?", name, roleDatamodel.GuardWeb, scope).
		First(&row).Error
	if err == nil {
		return row, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return row, err
	}

	row = roleDatamodel.Role{Name: name, GuardName: roleDatamodel.GuardWeb, CreatedBy: scope}
	if err := tx.Create(&row).Error; err != nil {
		return row, fmt.Errorf("create role %q: %w", name, err)
	}
	if err := syncPermissions(tx, row.ID, permissions); err != nil {
		return row, err
	}
	return row, nil
}

// AssignRole attaches a role to a user inside an open transaction.
func AssignRole(tx *gorm.DB, userID, roleID int64) error {
	return tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&roleDatamodel.ModelHasRole{UserID: userID, RoleID: roleID}).Error
}

func syncPermissions(tx *gorm.DB, roleID int64, names []string) error {
	if err := tx.Where("role_id = ?", roleID).Delete(&roleDatamodel.RoleHasPermission{}).Error; err != nil {
		return err
	}
	ids, err := permissionIDs(tx, names)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	links := make([]roleDatamodel.RoleHasPermission, 0, len(ids))
	for _, id := range ids {
		links = append(links, roleDatamodel.RoleHasPermission{RoleID: roleID, PermissionID: id})
	}
	return tx.Create(&links).Error
}

func permissionIDs(tx *gorm.DB, names []string) ([]int64, error) {
	ids := make([]int64, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		p := roleDatamodel.Permission{Name: name, GuardName: roleDatamodel.GuardWeb}
		if err := tx.Where(roleDatamodel.Permission{Name: name}).FirstOrCreate(&p).Error; err != nil {
			return nil, fmt.Errorf("permission %q: %w", name, err)
		}
		ids = append(ids, p.ID)
	}
	return ids, nil
}

func permissionNames(db *gorm.DB, roleID int64) ([]string, error) {
	var names []string
	err := db.Model(&roleDatamodel.Permission{}).
		Joins("JOIN role_has_permissions ON role_has_permissions.permission_id = permissions.id").
		Where("role_has_permissions.role_id = ?", roleID).
		Order("permissions.name").
		Pluck("permissions.name", &names).Error
	return names, err
}

// GrantPermissions adds permissions to a role without touching the ones it already holds.
func GrantPermissions(tx *gorm.DB, roleID int64, names []string) error {
	ids, err := permissionIDs(tx, names)
	if err != nil {
		return err
	}
	for _, id := range ids {
		err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&roleDatamodel.RoleHasPermission{RoleID: roleID, PermissionID: id}).Error
		if err != nil {
			return err
		}
	}
	return nil
}
