// Command migrate manages the database schema.
//
//	migrate up           apply pending migrations
//	migrate down [N]     roll back N migrations (default 1)
//	migrate version      print the applied version
//	migrate force V      mark version V as applied and clean
package main

import (
	"fmt"
	"os"
	"strconv"

	"pocketplan/internal/config"
	"pocketplan/internal/database"
	"pocketplan/internal/logger"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(os.Args[1:]); err != nil {
		logger.Get().Fatalf("Migration error: %v", err)
	}
}

func run(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: migrate <up|down|version|force> [N]")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	mg, err := database.NewMigrator(database.NewConfig(cfg))
	if err != nil {
		return err
	}
	defer mg.Close()

	log := logger.Get()

	switch args[0] {
	case "up":
		if err := mg.Up(); err != nil {
			return err
		}
		log.Info("Migrations applied successfully")

	case "down":
		steps, err := intArg(args, 1)
		if err != nil {
			return fmt.Errorf("invalid step count: %w", err)
		}
		if err := mg.Down(steps); err != nil {
			return err
		}
		log.Infof("Rolled back %d migration(s)", steps)

	case "version":
		version, dirty, err := mg.Version()
		if err != nil {
			return fmt.Errorf("failed to get version: %w", err)
		}
		log.Infow("Schema version", "version", version, "dirty", dirty)

	case "force":
		if len(args) < 2 {
			return fmt.Errorf("usage: migrate force <version>")
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid version: %w", err)
		}
		if err := mg.Force(version); err != nil {
			return fmt.Errorf("force failed: %w", err)
		}
		log.Infof("Forced version %d", version)

	default:
		return fmt.Errorf("unknown command: %s (use up, down, version, or force)", args[0])
	}

	return nil
}

// intArg parses args[i], defaulting to 1 when absent.
func intArg(args []string, i int) (int, error) {
	if len(args) <= i {
		return 1, nil
	}
	return strconv.Atoi(args[i])
}
