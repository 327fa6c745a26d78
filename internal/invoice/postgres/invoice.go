package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	clientDatamodel "github.com/frahmantamala/legal-practice/internal/core/datamodel/client"
	invoiceDatamodel "github.com/frahmantamala/legal-practice/internal/core/datamodel/invoice"
	caseDatamodel "github.com/frahmantamala/legal-practice/internal/core/datamodel/legalcase"
	"github.com/frahmantamala/legal-practice/internal/invoice"
	"github.com/frahmantamala/legal-practice/internal/policy"
)

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

func (r *InvoiceRepository) scoped(ctx context.Context, scope policy.Scope) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&invoiceDatamodel.Invoice{})
	switch scope.Kind {
	case policy.ScopeAll:
		return q
	case policy.ScopeTenant:
		return q.Where("invoices.tenant_id = ?", scope.TenantID)
	case policy.ScopeTeamMember:
		teamCases := r.db.WithContext(ctx).Model(&caseDatamodel.CaseTeamMember{}).
			Select("case_id").Where("user_id = ?", scope.UserID)
		teamClients := r.db.WithContext(ctx).Model(&caseDatamodel.Case{}).
			Select("client_id").Where("id IN (?) AND client_id IS NOT NULL", teamCases)
		return q.Where("invoices.case_id IN (?) OR (invoices.case_id IS NULL AND invoices.client_id IN (?))",
			teamCases, teamClients)
	case policy.ScopeClient:
		return q.Where("invoices.client_id IN (?)",
			r.db.WithContext(ctx).Model(&clientDatamodel.Client{}).
				Select("id").Where("email = ? AND tenant_id = ?", scope.Email, scope.TenantID))
	case policy.ScopeOwners:
		if len(scope.OwnerIDs) == 0 {
			return q.Where("1 = 0")
		}
		return q.Where("invoices.created_by IN ?", scope.OwnerIDs)
	default:
		return q.Where("1 = 0")
	}
}

func (r *InvoiceRepository) List(ctx context.Context, scope policy.Scope, filter invoice.ListFilter) ([]*invoice.Invoice, int64, error) {
	query := func() *gorm.DB {
		q := r.scoped(ctx, scope)
		if filter.Status != "" {
			q = q.Where("invoices.status = ?", filter.Status)
		}
		if filter.ClientID > 0 {
			q = q.Where("invoices.client_id = ?", filter.ClientID)
		}
		if filter.CaseID > 0 {
			q = q.Where("invoices.case_id = ?", filter.CaseID)
		}
		return q
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*invoiceDatamodel.Invoice
	q := query().Preload("Client").Order("invoices.id DESC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]*invoice.Invoice, 0, len(rows))
	for _, row := range rows {
		out = append(out, invoice.FromDataModel(row, nil))
	}
	return out, total, nil
}

func (r *InvoiceRepository) GetByID(ctx context.Context, id int64) (*invoice.Invoice, error) {
	var row invoiceDatamodel.Invoice
	if err := r.db.WithContext(ctx).Preload("Client").Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invoice.ErrInvoiceNotFound
		}
		return nil, err
	}

	team, err := r.team(ctx, &row)
	if err != nil {
		return nil, err
	}
	return invoice.FromDataModel(&row, team), nil
}

// team returns the users assigned to the invoice's case, or to any case of its client.
func (r *InvoiceRepository) team(ctx context.Context, row *invoiceDatamodel.Invoice) ([]int64, error) {
	q := r.db.WithContext(ctx).Model(&caseDatamodel.CaseTeamMember{}).
		Distinct("case_team_members.user_id")
	if row.CaseID != nil {
		q = q.Where("case_team_members.case_id = ?", *row.CaseID)
	} else {
		q = q.Joins("JOIN cases ON cases.id = case_team_members.case_id").
			Where("cases.client_id = ?", row.ClientID)
	}

	var team []int64
	if err := q.Pluck("case_team_members.user_id", &team).Error; err != nil {
		return nil, err
	}
	return team, nil
}

func (r *InvoiceRepository) Create(ctx context.Context, i *invoice.Invoice) error {
	row := invoice.ToDataModel(i)
	if err := r.db.WithContext(ctx).Omit("Client").Create(row).Error; err != nil {
		return err
	}
	i.ID = row.ID
	i.CreatedAt = row.CreatedAt
	i.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *InvoiceRepository) Update(ctx context.Context, i *invoice.Invoice) error {
	row := invoice.ToDataModel(i)
	err := r.db.WithContext(ctx).Model(row).
		Select("invoice_number", "amount_cents", "status", "due_date", "updated_at").
		Updates(row).Error
	if err != nil {
		return err
	}
	i.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *InvoiceRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&invoiceDatamodel.Invoice{}).Error
}

func (r *InvoiceRepository) GetClient(ctx context.Context, id int64) (*invoice.ClientRef, error) {
	var row clientDatamodel.Client
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invoice.ErrClientNotFound
		}
		return nil, err
	}
	return invoice.ClientRefFromDataModel(&row), nil
}

func (r *InvoiceRepository) GetCase(ctx context.Context, id int64) (*invoice.CaseRef, error) {
	var row caseDatamodel.Case
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invoice.ErrCaseNotFound
		}
		return nil, err
	}
	return &invoice.CaseRef{ID: row.ID, TenantID: row.TenantID, ClientID: row.ClientID}, nil
}
