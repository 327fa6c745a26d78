package cmd

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/frahmantamala/legal-practice/internal/access"
	accessPostgres "github.com/frahmantamala/legal-practice/internal/access/postgres"
	"github.com/frahmantamala/legal-practice/internal/core/events"
	rolePostgres "github.com/frahmantamala/legal-practice/internal/role/postgres"
	"github.com/frahmantamala/legal-practice/pkg/logger"
)

var roleCmd = &cobra.Command{
	Use:   "role",
	Short: "Role management commands",
	Long:  `Create roles, grant permissions and assign roles without going through the API`,
}

var permissionCmd = &cobra.Command{
	Use:   "permission",
	Short: "Permission catalog commands",
}

var roleScope int64

var roleCreateCmd = &cobra.Command{
	Use:   "create [name] [permission...]",
	Short: "Create a role in a company scope with an initial permission set",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCLI(func(ctx context.Context, db *gorm.DB, bus *events.EventBus) error {
			perms, err := knownPermissions(args[1:])
			if err != nil {
				return err
			}
			var roleID int64
			err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
				r, err := rolePostgres.EnsureRole(tx, args[0], roleScope, perms)
				roleID = r.ID
				return err
			})
			if err != nil {
				return err
			}
			fmt.Printf("role %q ready in scope %d (id=%d)\n", args[0], roleScope, roleID)
			return bus.Publish(ctx, events.NewRoleCreatedEvent(roleID, args[0], roleScope, 0))
		})
	},
}

var roleGrantCmd = &cobra.Command{
	Use:   "grant [name] [permission...]",
	Short: "Add permissions to an existing role",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCLI(func(ctx context.Context, db *gorm.DB, bus *events.EventBus) error {
			perms, err := knownPermissions(args[1:])
			if err != nil {
				return err
			}
			var roleID int64
			err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
				r, err := rolePostgres.EnsureRole(tx, args[0], roleScope, nil)
				if err != nil {
					return err
				}
				roleID = r.ID
				return rolePostgres.GrantPermissions(tx, r.ID, perms)
			})
			if err != nil {
				return err
			}
			fmt.Printf("granted %v to role %q\n", perms, args[0])
			return bus.Publish(ctx, events.NewRolePermissionsSyncedEvent(roleID, perms, 0))
		})
	},
}

var roleAssignCmd = &cobra.Command{
	Use:   "assign [name] [user-id]",
	Short: "Assign a role of the given scope to a user",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid user id %q", args[1])
		}
		return withCLI(func(ctx context.Context, db *gorm.DB, bus *events.EventBus) error {
			var roleID int64
			err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
				r, err := rolePostgres.EnsureRole(tx, args[0], roleScope, nil)
				if err != nil {
					return err
				}
				roleID = r.ID
				return rolePostgres.AssignRole(tx, userID, r.ID)
			})
			if err != nil {
				return err
			}
			fmt.Printf("assigned role %q to user %d\n", args[0], userID)
			if err := reportEffective(ctx, db, userID, args[0]); err != nil {
				return err
			}
			return bus.Publish(ctx, events.NewRoleAssignedEvent(roleID, userID, 0))
		})
	},
}

var permissionSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Insert every known permission into the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCLI(func(ctx context.Context, db *gorm.DB, _ *events.EventBus) error {
			names := access.NewPermissionSet(access.AllPermissions()...).Strings()
			if err := rolePostgres.NewRoleRepository(db).SyncCatalog(ctx, names); err != nil {
				return err
			}
			fmt.Printf("synced %d permissions\n", len(names))
			return nil
		})
	},
}

// withCLI opens the database and an audit-logged event bus for one command.
func withCLI(run func(ctx context.Context, db *gorm.DB, bus *events.EventBus) error) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	db, err := initDB(cfg.Database)
	if err != nil {
		log.Fatalf("failed to init db: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	lg := logger.LoggerWrapper()
	bus := events.NewEventBus(lg)
	events.RegisterAuditLog(bus, lg)

	ctx := context.Background()
	if err := run(ctx, db, bus); err != nil {
		return err
	}
	return bus.Wait(ctx)
}

// reportEffective warns when the assigned role sits outside the scope the user's roles are read from.
func reportEffective(ctx context.Context, db *gorm.DB, userID int64, roleName string) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	resolver := access.NewResolver(accessPostgres.NewStore(sqlx.NewDb(sqlDB, "pgx")), logger.LoggerWrapper(), 0)
	subject, err := rolePostgres.NewRoleRepository(db).GetSubject(ctx, userID)
	if err != nil {
		return err
	}
	if !resolver.HasRole(ctx, subject, roleName) {
		fmt.Printf("warning: user %d reads roles from scope %d, role %q in scope %d grants nothing\n",
			userID, subject.ScopeOwnerID(), roleName, roleScope)
		return nil
	}
	fmt.Printf("user %d now holds %d permissions\n", userID, resolver.EffectivePermissions(ctx, subject).Len())
	return nil
}

func knownPermissions(names []string) ([]string, error) {
	out := make([]string, 0, len(names))
	for _, n := range names {
		p := access.Permission(n)
		if !access.IsKnown(p) {
			return nil, fmt.Errorf("unknown permission %q", n)
		}
		out = append(out, string(p))
	}
	return out, nil
}

func init() {
	roleCmd.PersistentFlags().Int64Var(&roleScope, "scope", access.CentralScope, "company owner id the role belongs to (0 for central roles)")

	roleCmd.AddCommand(roleCreateCmd, roleGrantCmd, roleAssignCmd)
	permissionCmd.AddCommand(permissionSyncCmd)
}
