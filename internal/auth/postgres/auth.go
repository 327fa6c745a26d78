package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/frahmantamala/legal-practice/internal/access"
	"github.com/frahmantamala/legal-practice/internal/auth"
	userDatamodel "github.com/frahmantamala/legal-practice/internal/core/datamodel/user"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

var _ auth.UserRepository = (*Repository)(nil)

func (r *Repository) CredentialsByEmail(ctx context.Context, email, tenantSlug string) ([]auth.Credentials, error) {
	q := r.db.WithContext(ctx).Model(&userDatamodel.User{}).Where("users.email = ?", email)
	if tenantSlug != "" {
		q = q.Joins("JOIN tenants ON tenants.id = users.tenant_id").Where("tenants.slug = ?", tenantSlug)
	}

	var rows []userDatamodel.User
	if err := q.Order("users.id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find credentials: %w", err)
	}

	out := make([]auth.Credentials, 0, len(rows))
	for _, u := range rows {
		out = append(out, auth.Credentials{
			UserID:       u.ID,
			Email:        u.Email,
			PasswordHash: u.PasswordHash,
			TenantID:     u.TenantID,
			Status:       u.Status,
		})
	}
	return out, nil
}

func (r *Repository) GetSubject(ctx context.Context, userID int64) (*access.Subject, error) {
	var u userDatamodel.User
	if err := r.db.WithContext(ctx).First(&u, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user %d: %w", userID, err)
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
