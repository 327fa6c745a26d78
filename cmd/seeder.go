package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/frahmantamala/legal-practice/internal/access"
	clientDatamodel "github.com/frahmantamala/legal-practice/internal/core/datamodel/client"
	invoiceDatamodel "github.com/frahmantamala/legal-practice/internal/core/datamodel/invoice"
	caseDatamodel "github.com/frahmantamala/legal-practice/internal/core/datamodel/legalcase"
	userDatamodel "github.com/frahmantamala/legal-practice/internal/core/datamodel/user"
	rolePostgres "github.com/frahmantamala/legal-practice/internal/role/postgres"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with the permission catalog, a superadmin and two demo law firms.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		if clearData {
			if err := clearSeedData(db); err != nil {
				log.Fatalf("failed to clear data: %v", err)
			}
			fmt.Println("Cleared existing data")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), cfg.Security.BCryptCost)
		if err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}

		ctx := context.Background()
		if err := rolePostgres.NewRoleRepository(db).SyncCatalog(ctx, access.NewPermissionSet(access.AllPermissions()...).Strings()); err != nil {
			log.Fatalf("failed to sync permissions: %v", err)
		}
		fmt.Println("Synced permission catalog")

		err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := seedSuperAdmin(tx, string(hash)); err != nil {
				return err
			}
			for _, firm := range demoFirms {
				if err := seedFirm(tx, firm, string(hash)); err != nil {
					return fmt.Errorf("firm %s: %w", firm.slug, err)
				}
			}
			return nil
		})
		if err != nil {
			log.Fatalf("failed to seed: %v", err)
		}

		fmt.Println("Seeding completed. Every demo account uses the password:", demoPassword)
	},
}

const demoPassword = "password"

type demoFirm struct {
	name, slug              string
	ownerEmail, memberEmail string
	clientName, clientEmail string
	caseTitle, caseNumber   string
	invoiceNumber           string
}

var demoFirms = []demoFirm{
	{
		name: "Hartley & Vance", slug: "hartley-vance",
		ownerEmail: "owner@hartley.test", memberEmail: "associate@hartley.test",
		clientName: "Marlow Shipping", clientEmail: "legal@marlow.test",
		caseTitle: "Marlow v. Harbor Authority", caseNumber: "HV-2024-001",
		invoiceNumber: "HV-INV-0001",
	},
	{
		name: "Okafor Legal", slug: "okafor-legal",
		ownerEmail: "owner@okafor.test", memberEmail: "paralegal@okafor.test",
		clientName: "Ndidi Estates", clientEmail: "office@ndidi.test",
		caseTitle: "Ndidi Estates lease dispute", caseNumber: "OK-2024-001",
		invoiceNumber: "OK-INV-0001",
	},
}

func clearSeedData(db *gorm.DB) error {
	tables := []string{
		"invoices", "case_team_members", "cases", "clients",
		"model_has_permissions", "model_has_roles", "role_has_permissions",
		"roles", "permissions", "tenants", "users",
	}
	for _, t := range tables {
		if err := db.Exec(fmt.Sprintf("DELETE FROM %s", t)).Error; err != nil {
			return fmt.Errorf("clear %s: %w", t, err)
		}
	}
	return nil
}

func seedSuperAdmin(tx *gorm.DB, hash string) error {
	admin, err := ensureUser(tx, userDatamodel.User{
		Name: "Platform Admin", Email: "admin@legal.test", PasswordHash: hash,
		Type: userDatamodel.TypeSuperAdmin, Status: userDatamodel.StatusActive,
	})
	if err != nil {
		return err
	}
	return ensureRoleFor(tx, admin.ID, access.RoleSuperAdmin, access.CentralScope)
}

func seedFirm(tx *gorm.DB, firm demoFirm, hash string) error {
	owner, err := ensureUser(tx, userDatamodel.User{
		Name: firm.name + " Owner", Email: firm.ownerEmail, PasswordHash: hash,
		Type: userDatamodel.TypeCompany, Status: userDatamodel.StatusActive,
	})
	if err != nil {
		return err
	}

	tenant := userDatamodel.Tenant{Name: firm.name, Slug: firm.slug, OwnerID: owner.ID}
	if err := tx.Where(userDatamodel.Tenant{Slug: firm.slug}).FirstOrCreate(&tenant).Error; err != nil {
		return err
	}
	if owner.TenantID == nil {
		if err := tx.Model(&owner).Update("tenant_id", tenant.ID).Error; err != nil {
			return err
		}
	}
	if err := ensureRoleFor(tx, owner.ID, access.RoleCompany, owner.ID); err != nil {
		return err
	}

	member, err := ensureUser(tx, userDatamodel.User{
		Name: "Associate", Email: firm.memberEmail, PasswordHash: hash,
		Type: userDatamodel.TypeTeamMember, Status: userDatamodel.StatusActive,
		TenantID: &tenant.ID, CreatedBy: &owner.ID,
	})
	if err != nil {
		return err
	}
	if err := ensureRoleFor(tx, member.ID, access.RoleTeamMember, owner.ID); err != nil {
		return err
	}

	clientUser, err := ensureUser(tx, userDatamodel.User{
		Name: firm.clientName, Email: firm.clientEmail, PasswordHash: hash,
		Type: userDatamodel.TypeClient, Status: userDatamodel.StatusActive,
		TenantID: &tenant.ID, CreatedBy: &owner.ID,
	})
	if err != nil {
		return err
	}
	if err := ensureRoleFor(tx, clientUser.ID, access.RoleClient, owner.ID); err != nil {
		return err
	}

	client := clientDatamodel.Client{
		TenantID: &tenant.ID, CreatedBy: owner.ID,
		Name: firm.clientName, Email: firm.clientEmail, Status: "active",
	}
	if err := tx.Where("tenant_id = ? AND email = ?", tenant.ID, firm.clientEmail).FirstOrCreate(&client).Error; err != nil {
		return err
	}

	lc := caseDatamodel.Case{
		TenantID: &tenant.ID, CreatedBy: owner.ID, ClientID: &client.ID,
		Title: firm.caseTitle, CaseNumber: firm.caseNumber, Status: "open",
	}
	if err := tx.Omit("Client").Where("tenant_id = ? AND case_number = ?", tenant.ID, firm.caseNumber).FirstOrCreate(&lc).Error; err != nil {
		return err
	}
	team := caseDatamodel.CaseTeamMember{CaseID: lc.ID, UserID: member.ID}
	if err := tx.Where(team).FirstOrCreate(&team).Error; err != nil {
		return err
	}

	due := time.Now().AddDate(0, 0, 30).Truncate(24 * time.Hour)
	inv := invoiceDatamodel.Invoice{
		TenantID: &tenant.ID, CreatedBy: owner.ID, ClientID: client.ID, CaseID: &lc.ID,
		InvoiceNumber: firm.invoiceNumber, AmountCents: 250000, Status: "sent", DueDate: &due,
	}
	if err := tx.Omit("Client").Where("tenant_id = ? AND invoice_number = ?", tenant.ID, firm.invoiceNumber).FirstOrCreate(&inv).Error; err != nil {
		return err
	}

	fmt.Printf("Seeded %s: owner=%s member=%s client=%s\n", firm.name, firm.ownerEmail, firm.memberEmail, firm.clientEmail)
	return nil
}

// ensureUser finds a user by email inside the same tenant, creating it when missing.
func ensureUser(tx *gorm.DB, u userDatamodel.User) (userDatamodel.User, error) {
	q := tx.Where("email = ?", u.Email)
	if u.TenantID != nil {
		q = q.Where("tenant_id = ?", *u.TenantID)
	}
	var existing userDatamodel.User
	err := q.First(&existing).Error
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return existing, err
	}
	if err := tx.Create(&u).Error; err != nil {
		return u, fmt.Errorf("create user %s: %w", u.Email, err)
	}
	return u, nil
}

func ensureRoleFor(tx *gorm.DB, userID int64, roleName string, scope int64) error {
	perms := access.NewPermissionSet(access.DefaultRolePermissions()[roleName]...).Strings()
	r, err := rolePostgres.EnsureRole(tx, roleName, scope, perms)
	if err != nil {
		return err
	}
	return rolePostgres.AssignRole(tx, userID, r.ID)
}
