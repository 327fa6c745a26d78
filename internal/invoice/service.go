package invoice

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
	List(ctx context.Context, scope policy.Scope, filter ListFilter) ([]*Invoice, int64, error)
	GetByID(ctx context.Context, id int64) (*Invoice, error)
	Create(ctx context.Context, i *Invoice) error
	Update(ctx context.Context, i *Invoice) error
	Delete(ctx context.Context, id int64) error
	GetClient(ctx context.Context, id int64) (*ClientRef, error)
	GetCase(ctx context.Context, id int64) (*CaseRef, error)
}

type ServiceAPI interface {
	List(ctx context.Context, filter ListFilter) ([]*Invoice, int64, error)
	Get(ctx context.Context, id int64) (*Invoice, error)
	Create(ctx context.Context, dto CreateInvoiceDTO) (*Invoice, error)
	Update(ctx context.Context, id int64, dto UpdateInvoiceDTO) (*Invoice, error)
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

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Invoice, int64, error) {
	scope := policy.ListScope(access.FromContext(ctx), access.ResourceInvoices)
	invoices, total, err := s.repo.List(ctx, scope, filter)
	if err != nil {
		return nil, 0, internal.NewInternalError("failed to list invoices", err)
	}
	return invoices, total, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Invoice, error) {
	i, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.View(ctx, i) {
		return nil, internal.ErrForbidden()
	}
	return i, nil
}

// Create bills a client of the actor's tenant, optionally against one of that client's cases.
func (s *Service) Create(ctx context.Context, dto CreateInvoiceDTO) (*Invoice, error) {
	rc := access.FromContext(ctx)
	if rc == nil || !rc.Actor.HasTenant() {
		return nil, internal.ErrTenantRequired()
	}
	if appErr := validation.ValidateStruct(dto); appErr != nil {
		return nil, appErr
	}
	tenantID := rc.Actor.TenantID

	client, err := s.repo.GetClient(ctx, dto.ClientID)
	if err != nil && !errors.Is(err, ErrClientNotFound) {
		return nil, internal.NewInternalError("failed to load client", err)
	}
	if client == nil || !sameTenant(client.TenantID, tenantID) {
		return nil, internal.NewValidationFieldError("client_id", "client does not exist", internal.ErrCodeInvalidValue)
	}

	if dto.CaseID != nil {
		kase, err := s.repo.GetCase(ctx, *dto.CaseID)
		if err != nil && !errors.Is(err, ErrCaseNotFound) {
			return nil, internal.NewInternalError("failed to load case", err)
		}
		if kase == nil || !sameTenant(kase.TenantID, tenantID) {
			return nil, internal.NewValidationFieldError("case_id", "case does not exist", internal.ErrCodeInvalidValue)
		}
		if kase.ClientID == nil || *kase.ClientID != client.ID {
			return nil, internal.NewValidationFieldError("case_id", "case belongs to another client", internal.ErrCodeInvalidValue)
		}
	}

	if appErr := validation.CheckUnique(ctx, s.unique,
		validation.TenantUnique("invoices", "invoice_number", dto.InvoiceNumber, tenantID, nil),
	); appErr != nil {
		return nil, appErr
	}

	i := &Invoice{
		TenantID:      tenantID,
		CreatedBy:     rc.Actor.OwnerID,
		ClientID:      client.ID,
		Client:        client,
		CaseID:        dto.CaseID,
		InvoiceNumber: dto.InvoiceNumber,
		AmountCents:   dto.AmountCents,
		Status:        dto.Status,
		DueDate:       dto.DueDate,
	}
	if i.Status == "" {
		i.Status = StatusDraft
	}

	if err := s.repo.Create(ctx, i); err != nil {
		s.logger.ErrorContext(ctx, "failed to create invoice", "error", err, "user_id", rc.Actor.UserID)
		return nil, internal.NewInternalError("failed to create invoice", err)
	}

	s.logger.InfoContext(ctx, "invoice created", "invoice_id", i.ID, "client_id", i.ClientID, "amount_cents", i.AmountCents)
	return i, nil
}

func (s *Service) Update(ctx context.Context, id int64, dto UpdateInvoiceDTO) (*Invoice, error) {
	if appErr := validation.ValidateStruct(dto); appErr != nil {
		return nil, appErr
	}
	i, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.Update(ctx, i) {
		return nil, internal.ErrForbidden()
	}

	if dto.InvoiceNumber != nil && *dto.InvoiceNumber != i.InvoiceNumber {
		if appErr := validation.CheckUnique(ctx, s.unique,
			validation.TenantUnique("invoices", "invoice_number", *dto.InvoiceNumber, i.TenantID, &i.ID),
		); appErr != nil {
			return nil, appErr
		}
		i.InvoiceNumber = *dto.InvoiceNumber
	}
	if dto.AmountCents != nil {
		i.AmountCents = *dto.AmountCents
	}
	if dto.Status != nil {
		i.Status = *dto.Status
	}
	if dto.DueDate != nil {
		i.DueDate = dto.DueDate
	}

	if err := s.repo.Update(ctx, i); err != nil {
		return nil, internal.NewInternalError("failed to update invoice", err)
	}
	return i, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	i, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !s.policy.Delete(ctx, i) {
		return internal.ErrForbidden()
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return internal.NewInternalError("failed to delete invoice", err)
	}
	s.logger.InfoContext(ctx, "invoice deleted", "invoice_id", id)
	return nil
}

func (s *Service) load(ctx context.Context, id int64) (*Invoice, error) {
	i, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrInvoiceNotFound) {
			return nil, internal.NewNotFoundError("Invoice not found", internal.ErrCodeInvoiceNotFound)
		}
		return nil, internal.NewInternalError("failed to load invoice", err)
	}
	return i, nil
}

func sameTenant(a, b *int64) bool {
	return a != nil && b != nil && *a == *b
}
