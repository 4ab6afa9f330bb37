package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/supplyoffice/backend/internal/domain/audit"
	"github.com/supplyoffice/backend/internal/domain/identity"
	"github.com/supplyoffice/backend/internal/domain/inventory"
	"github.com/supplyoffice/backend/internal/domain/notification"
	"github.com/supplyoffice/backend/internal/domain/release"
	"github.com/supplyoffice/backend/internal/domain/request"
	"github.com/supplyoffice/backend/internal/domain/shared"
	"github.com/supplyoffice/backend/internal/infrastructure/config"
	"github.com/supplyoffice/backend/internal/infrastructure/logger"
	"github.com/supplyoffice/backend/internal/infrastructure/persistence"
)

func main() {
	var logLevel string
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log, err := logger.New(&logger.Config{
		Level:  logLevel,
		Format: "console",
		Output: "stdout",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	switch command {
	case "up":
		if err := migrateUp(db); err != nil {
			log.Fatal("Migration failed", zap.Error(err))
		}
		log.Info("Schema is up to date")
	case "seed":
		if len(args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: migrate seed <name> <email> [role]")
			os.Exit(1)
		}
		role := identity.RoleAdmin
		if len(args) > 3 {
			role = identity.Role(args[3])
		}
		if err := seedUser(db, log, args[1], args[2], role); err != nil {
			log.Fatal("Seeding failed", zap.Error(err))
		}
	default:
		printUsage()
		os.Exit(1)
	}
}

// migrateUp creates or alters every table the application owns.
func migrateUp(db *persistence.Database) error {
	return db.DB.AutoMigrate(
		&identity.User{},
		&inventory.Category{},
		&inventory.CategoryHistoryEntry{},
		&inventory.Item{},
		&request.InventoryRequest{},
		&request.Item{},
		&release.ReleaseRequest{},
		&release.Item{},
		&release.ReleaseReport{},
		&release.ReportItem{},
		&notification.Notification{},
		&audit.Event{},
	)
}

// seedUser creates an account if the email is not yet taken.
func seedUser(db *persistence.Database, log *zap.Logger, name, email string, role identity.Role) error {
	ctx := context.Background()
	users := persistence.NewGormUserRepository(db.DB)

	if _, err := users.FindByEmail(ctx, email); err == nil {
		log.Info("User already exists, skipping", zap.String("email", email))
		return nil
	} else if !errors.Is(err, shared.ErrNotFound) {
		return err
	}

	user, err := identity.NewUser(name, email, role)
	if err != nil {
		return err
	}
	if err := users.Create(ctx, user); err != nil {
		return err
	}
	log.Info("User created",
		zap.String("id", user.ID.String()),
		zap.String("email", user.Email),
		zap.String("role", string(user.Role)),
	)
	return nil
}

func printUsage() {
	fmt.Println(`Usage: migrate [flags] <command>

Commands:
  up                          Apply the schema to the configured database
  seed <name> <email> [role]  Create a user account (role defaults to admin)

Flags:
  -log-level string   Log level (default "info")`)
}
