package client

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/legal-practice/internal"
	"github.com/frahmantamala/legal-practice/internal/access"
	"github.com/frahmantamala/legal-practice/internal/core/common/validation"
	"github.com/frahmantamala/legal-practice/internal/policy"
)

type RepositoryAPI interface {
	List(ctx context.Context, scope policy.Scope, filter ListFilter) ([]*Client, int64, error)
	GetByID(ctx context.Context, id int64) (*Client, error)
	Create(ctx context.Context, c *Client) error
	Update(ctx context.Context, c *Client) error
	Delete(ctx context.Context, id int64) error
	// InUse reports whether cases or invoices still reference the client.
	InUse(ctx context.Context, id int64) (bool, error)
}

type ServiceAPI interface {
	List(ctx context.Context, filter ListFilter) ([]*Client, int64, error)
	Get(ctx context.Context, id int64) (*Client, error)
	Create(ctx context.Context, dto CreateClientDTO) (*Client, error)
	Update(ctx context.Context, id int64, dto UpdateClientDTO) (*Client, error)
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	repo   RepositoryAPI
	unique validation.UniqueChecker
	policy Policy
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, unique validation.UniqueChecker, logger *slog.Logger) *Service {
	return &Service{repo: repo, unique: unique, logger: logger}
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Client, int64, error) {
	scope := policy.ListScope(access.FromContext(ctx), access.ResourceClients)
	clients, total, err := s.repo.List(ctx, scope, filter)
	if err != nil {
		return nil, 0, internal.NewInternalError("failed to list clients", err)
	}
	return clients, total, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Client, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.View(ctx, c) {
		return nil, internal.ErrForbidden()
	}
	return c, nil
}

func (s *Service) Create(ctx context.Context, dto CreateClientDTO) (*Client, error) {
	rc := access.FromContext(ctx)
	if rc == nil || !rc.Actor.HasTenant() {
		return nil, internal.ErrTenantRequired()
	}
	if appErr := validateFields(dto.Name, dto.Email, dto.Phone); appErr != nil {
		return nil, appErr
	}
	if appErr := validation.CheckUnique(ctx, s.unique,
		validation.TenantUnique("clients", "email", dto.Email, rc.Actor.TenantID, nil),
	); appErr != nil {
		return nil, appErr
	}

	c := &Client{
		TenantID:  rc.Actor.TenantID,
		CreatedBy: rc.Actor.OwnerID,
		Name:      dto.Name,
		Email:     dto.Email,
		Phone:     dto.Phone,
		Status:    StatusActive,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		s.logger.ErrorContext(ctx, "failed to create client", "error", err, "user_id", rc.Actor.UserID)
		return nil, internal.NewInternalError("failed to create client", err)
	}

	s.logger.InfoContext(ctx, "client created", "client_id", c.ID, "tenant_id", *c.TenantID)
	return c, nil
}

func (s *Service) Update(ctx context.Context, id int64, dto UpdateClientDTO) (*Client, error) {
	if appErr := validation.ValidateStruct(dto); appErr != nil {
		return nil, appErr
	}
	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.Update(ctx, c) {
		return nil, internal.ErrForbidden()
	}

	if dto.Name != nil {
		c.Name = *dto.Name
	}
	if dto.Email != nil {
		c.Email = *dto.Email
	}
	if dto.Phone != nil {
		c.Phone = dto.Phone
	}
	if dto.Status != nil {
		c.Status = *dto.Status
	}
	if appErr := validateFields(c.Name, c.Email, c.Phone); appErr != nil {
		return nil, appErr
	}
	if dto.Email != nil {
		if appErr := validation.CheckUnique(ctx, s.unique,
			validation.TenantUnique("clients", "email", c.Email, c.TenantID, &c.ID),
		); appErr != nil {
			return nil, appErr
		}
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, internal.NewInternalError("failed to update client", err)
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	c, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !s.policy.Delete(ctx, c) {
		return internal.ErrForbidden()
	}

	inUse, err := s.repo.InUse(ctx, id)
	if err != nil {
		return internal.NewInternalError("failed to check client references", err)
	}
	if inUse {
		return internal.NewConflictError("Client still has cases or invoices", internal.ErrCodeClientInUse)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return internal.NewInternalError("failed to delete client", err)
	}
	s.logger.InfoContext(ctx, "client deleted", "client_id", id)
	return nil
}

func (s *Service) load(ctx context.Context, id int64) (*Client, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrClientNotFound) {
			return nil, internal.NewNotFoundError("Client not found", internal.ErrCodeClientNotFound)
		}
		return nil, internal.NewInternalError("failed to load client", err)
	}
	return c, nil
}

func validateFields(name, email string, phone *string) *internal.AppError {
	v := validation.NewValidator()
	v.Field("name", name).Required().MaxLength(255)
	v.Field("email", email).Required().Email()
	v.Field("phone", phone).Phone()
	return v.Validate()
}
