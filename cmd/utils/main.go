package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/appetiteclub/apt"

	"github.com/edotat/edotat/cmd/utils/internal/commands"
)

const (
	appName    = "edotat-utils"
	appVersion = "0.1.0"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	config, err := apt.LoadConfig("UTILS", os.Args[2:])
	if err != nil {
		log.Fatalf("Cannot load config: %v", err)
	}

	logLevel, _ := config.GetString("log.level")
	if logLevel == "" {
		logLevel = "info"
	}
	logger := apt.NewLogger(logLevel)

	ctx := context.Background()
	command := os.Args[1]

	switch command {
	case "seed-demo":
		if err := commands.SeedDemo(ctx, config, logger); err != nil {
			log.Fatalf("❌ Demo seeding failed: %v", err)
		}
		logger.Info("✅ Demo seeding completed successfully")

	case "reset-db":
		if err := commands.ResetDB(ctx, config, logger); err != nil {
			log.Fatalf("❌ Database reset failed: %v", err)
		}
		logger.Info("✅ Database reset completed successfully")

	case "watch-events":
		watchCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := commands.WatchEvents(watchCtx, config, logger); err != nil {
			log.Fatalf("❌ Event watch failed: %v", err)
		}

	case "version":
		fmt.Printf("%s version %s\n", appName, appVersion)

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`%s - Edotat utility commands

Usage:
  %s <command> [options]

Commands:
  seed-demo     Apply demo seeding (demo restaurant catalog and diner account)
  reset-db      Full database reset (drops all databases - USE WITH CAUTION)
  watch-events  Tail ordering events from NATS (Ctrl-C to stop)
  version       Print version
  help          Show this help

Options:
  --mongo.url  MongoDB connection string (default: mongodb://localhost:27017)
  --nats.url   NATS connection string (default: nats://localhost:4222)
  --log.level  Log level (default: info)
`, appName, appName)
}
