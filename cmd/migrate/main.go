package main

import (
	"flag"
	"fmt"
	"os"

	gormlogger "gorm.io/gorm/logger"

	"github.com/prmhq/prm-backend/internal/config"
	"github.com/prmhq/prm-backend/internal/database"
	"github.com/prmhq/prm-backend/internal/migration"
	pkglogger "github.com/prmhq/prm-backend/pkg/logger"
)

func main() {
	// CLI flags
	configPath := flag.String("config", config.GetConfigPath(), "config file path")
	drop := flag.Bool("drop", false, "drop every table before migrating")
	dryRun := flag.Bool("dry-run", false, "list the tables that would be migrated without executing")
	verbose := flag.Bool("verbose", false, "verbose SQL logging")
	flag.Parse()

	config.LoadDotEnv()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	pkglogger.InitStructured(config.Env(), cfg.Log.Level)
	log := pkglogger.GetLogger()

	if *dryRun {
		for _, m := range migration.Models() {
			log.Info().Str("model", fmt.Sprintf("%T", m)).Msg("[dry-run] would migrate")
		}
		return
	}

	logLevel := gormlogger.Warn
	if *verbose {
		logLevel = gormlogger.Info
	}
	db, err := database.Open(cfg.Database, logLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	if *drop {
		log.Warn().Msg("dropping all tables")
		if err := migration.Drop(db); err != nil {
			log.Fatal().Err(err).Msg("drop failed")
		}
	}

	if err := migration.Run(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
	log.Info().Int("tables", len(migration.Models())).Msg("migration complete")
}
