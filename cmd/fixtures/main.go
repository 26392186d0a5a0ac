package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"owl-league/config"
	"owl-league/database"
	"owl-league/fixtures"
	"owl-league/logging"
	"owl-league/migrations"
)

func main() {
	weeks := flag.Int("weeks", 6, "weeks of history to generate")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	flag.Parse()

	if flag.NArg() < 1 {
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

	if err := migrations.Run(db, logger); err != nil {
		logger.Error("migrations failed", slog.Any("error", err))
		os.Exit(1)
	}

	fixtureManager := fixtures.NewFixtures(db, logger, *seed)
	ctx := context.Background()

	command := flag.Arg(0)

	switch command {
	case "generate":
		err = fixtureManager.GenerateTestData(ctx, *weeks, time.Now())
	case "clear":
		err = fixtureManager.ClearAllData()
	case "regenerate":
		if err = fixtureManager.ClearAllData(); err == nil {
			err = fixtureManager.GenerateTestData(ctx, *weeks, time.Now())
		}
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
	fmt.Printf("✅ %s done\n", command)
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  go run ./cmd/fixtures [-weeks N] [-seed S] generate    - Generate players and N weeks of history")
	fmt.Println("  go run ./cmd/fixtures clear                            - Clear all league data")
	fmt.Println("  go run ./cmd/fixtures [-weeks N] [-seed S] regenerate  - Clear and regenerate all data")
}
