package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/frahmantamala/legal-practice/internal/access"
)

// Store reads role grants with plain SQL. Queries are written with ? and rebound for the driver.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

var _ access.Store = (*Store)(nil)

type roleRow struct {
	Name       string         `db:"name"`
	Permission sql.NullString `db:"permission"`
}

// RolesForUser only returns roles whose created_by matches the scope owner, so a role
// named like another company's never contributes its permissions.
func (s *Store) RolesForUser(ctx context.Context, userID, scopeOwnerID int64) ([]access.RoleGrant, error) {
	query := s.db.Rebind(`
		SELECT r.name AS name, p.name AS permission
		FROM model_has_roles mhr
		JOIN roles r ON r.id = mhr.role_id
		LEFT JOIN role_has_permissions rhp ON rhp.role_id = r.id
		LEFT JOIN permissions p ON p.id = rhp.permission_id
		WHERE mhr.user_id = ? AND r.created_by = ? AND r.guard_name = ?
		ORDER BY r.name, p.name`)

	var rows []roleRow
	if err := s.db.SelectContext(ctx, &rows, query, userID, scopeOwnerID, access.GuardWeb); err != nil {
		return nil, fmt.Errorf("select roles: %w", err)
	}

	var grants []access.RoleGrant
	index := make(map[string]int)
	for _, row := range rows {
		i, ok := index[row.Name]
		if !ok {
			grants = append(grants, access.RoleGrant{Name: row.Name})
			i = len(grants) - 1
			index[row.Name] = i
		}
		if row.Permission.Valid {
			grants[i].Permissions = append(grants[i].Permissions, row.Permission.String)
		}
	}
	return grants, nil
}

func (s *Store) DirectPermissions(ctx context.Context, userID int64) ([]string, error) {
	query := s.db.Rebind(`
		SELECT p.name
		FROM model_has_permissions mhp
		JOIN permissions p ON p.id = mhp.permission_id
		WHERE mhp.user_id = ?
		ORDER BY p.name`)

	var names []string
	if err := s.db.SelectContext(ctx, &names, query, userID); err != nil {
		return nil, fmt.Errorf("select direct permissions: %w", err)
	}
	return names, nil
}

func (s *Store) TeamMemberIDs(ctx context.Context, ownerID int64) ([]int64, error) {
	query := s.db.Rebind(`SELECT id FROM users WHERE created_by = ? AND type = ? ORDER BY id`)

	var ids []int64
	if err := s.db.SelectContext(ctx, &ids, query, ownerID, access.TypeTeamMember); err != nil {
		return nil, fmt.Errorf("select team members: %w", err)
	}
	return ids, nil
}
