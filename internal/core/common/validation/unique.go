package validation

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	errors "github.com/frahmantamala/legal-practice/internal"
)

const DefaultScopeColumn = "tenant_id"

// UniqueRule describes a value that must be unique within a tenant.
// A nil ScopeID means central context and matches rows whose scope column IS NULL.
type UniqueRule struct {
	Field       string
	Table       string
	Column      string
	Value       interface{}
	ScopeColumn string
	ScopeID     *int64
	IgnoreID    *int64
}

// TenantUnique builds a rule scoped on tenant_id, reporting failures under the column name.
func TenantUnique(table, column string, value interface{}, tenantID, ignoreID *int64) UniqueRule {
	return UniqueRule{
		Field:    column,
		Table:    table,
		Column:   column,
		Value:    value,
		ScopeID:  tenantID,
		IgnoreID: ignoreID,
	}
}

type UniqueChecker interface {
	Exists(ctx context.Context, rule UniqueRule) (bool, error)
}

type GormUniqueChecker struct {
	db *gorm.DB
}

func NewGormUniqueChecker(db *gorm.DB) *GormUniqueChecker {
	return &GormUniqueChecker{db: db}
}

func (c *GormUniqueChecker) Exists(ctx context.Context, rule UniqueRule) (bool, error) {
	scopeColumn := rule.ScopeColumn
	if scopeColumn == "" {
		scopeColumn = DefaultScopeColumn
	}

	q := c.db.WithContext(ctx).Table(rule.Table).
		Where(clause.Eq{Column: clause.Column{Name: rule.Column}, Value: rule.Value})

	if rule.ScopeID != nil {
		q = q.Where(clause.Eq{Column: clause.Column{Name: scopeColumn}, Value: *rule.ScopeID})
	} else {
		q = q.Where(clause.Eq{Column: clause.Column{Name: scopeColumn}, Value: nil})
	}

	if rule.IgnoreID != nil {
		q = q.Where(clause.Neq{Column: clause.Column{Name: "id"}, Value: *rule.IgnoreID})
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("unique check on %s.%s: %w", rule.Table, rule.Column, err)
	}
	return count > 0, nil
}

// CheckUnique evaluates every rule and reports all taken values at once.
// Rules with an empty value are skipped. A storage failure aborts with an internal error.
func CheckUnique(ctx context.Context, checker UniqueChecker, rules ...UniqueRule) *errors.AppError {
	var violations []errors.ValidationError

	for _, rule := range rules {
		if isEmpty(rule.Value) {
			continue
		}
		taken, err := checker.Exists(ctx, rule)
		if err != nil {
			return errors.NewInternalError("failed to verify uniqueness", err)
		}
		if taken {
			field := rule.Field
			if field == "" {
				field = rule.Column
			}
			violations = append(violations, errors.ValidationError{
				Field:   field,
				Message: fmt.Sprintf("The %s has already been taken.", field),
				Code:    string(errors.ErrCodeNotUnique),
			})
		}
	}

	if len(violations) > 0 {
		return errors.NewValidationErrors(violations)
	}
	return nil
}

func isEmpty(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case *string:
		return x == nil || *x == ""
	}
	return false
}
