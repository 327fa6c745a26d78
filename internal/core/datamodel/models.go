package datamodel

import (
	"github.com/frahmantamala/legal-practice/internal/core/datamodel/client"
	"github.com/frahmantamala/legal-practice/internal/core/datamodel/invoice"
	"github.com/frahmantamala/legal-practice/internal/core/datamodel/legalcase"
	"github.com/frahmantamala/legal-practice/internal/core/datamodel/role"
	"github.com/frahmantamala/legal-practice/internal/core/datamodel/user"
)

// All lists every persisted model, in dependency order, for AutoMigrate in tests and the dev seeder.
func All() []interface{} {
	return []interface{}{
		&user.User{},
		&user.Tenant{},
		&role.Permission{},
		&role.Role{},
		&role.RoleHasPermission{},
		&role.ModelHasRole{},
		&role.ModelHasPermission{},
		&client.Client{},
		&legalcase.Case{},
		&legalcase.CaseTeamMember{},
		&invoice.Invoice{},
	}
}
