package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"owl-league/config"
	"owl-league/database"
	"owl-league/logging"
	"owl-league/migrations"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger := logging.New(cfg.LogLevel)

	db, err := database.Open(cfg, logger)
	if err != nil {
		logger.Error("database connection failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer database.Close(db)

	migrator, err := migrations.NewMigrator(db, logger)
	if err != nil {
		logger.Error("migrator setup failed", slog.Any("error", err))
		os.Exit(1)
	}
	for _, migration := range migrations.GetLeagueMigrations() {
		migrator.AddMigration(migration)
	}

	command := os.Args[1]

	switch command {
	case "migrate":
		err = migrator.Migrate()
	case "rollback":
		steps := 1
		if len(os.Args) > 2 {
			if s, convErr := strconv.Atoi(os.Args[2]); convErr == nil {
				steps = s
			}
		}
		err = migrator.Rollback(steps)
	case "status":
		err = showStatus(migrator)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		return
	}

	if err != nil {
		logger.Error(command+" failed", slog.Any("error", err))
		database.Close(db)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  go run ./cmd/migrate migrate          - Run pending migrations")
	fmt.Println("  go run ./cmd/migrate rollback [steps] - Rollback migrations (default: 1)")
	fmt.Println("  go run ./cmd/migrate status           - Show migration status")
}

func showStatus(migrator *migrations.Migrator) error {
	applied, err := migrator.Status()
	if err != nil {
		return err
	}
	pending, err := migrator.Pending()
	if err != nil {
		return err
	}

	if len(applied) == 0 {
		fmt.Println("No migrations have been run yet.")
	} else {
		fmt.Println("Migration Status:")
		fmt.Println("Batch | Name")
		fmt.Println("------|-----")
		for _, migration := range applied {
			fmt.Printf("%-5d | %s\n", migration.Batch, migration.Name)
		}
	}

	for _, name := range pending {
		fmt.Printf("pending | %s\n", name)
	}
	return nil
}
