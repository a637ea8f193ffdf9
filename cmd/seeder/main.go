package main

import (
	"context"
	"flag"
	"os"
	"sort"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/foxxcyber/turismo/internal/config"
	"github.com/foxxcyber/turismo/internal/database"
	"github.com/foxxcyber/turismo/internal/logger"
	"github.com/foxxcyber/turismo/internal/store"
)

func main() {
	// Command line flags
	group := flag.Bool("group", false, "Build the grouped community index from the primary store")
	groupBy := flag.String("by", string(store.GroupByDestination), "Community side to group by: 'to' or 'from'")
	mirror := flag.Bool("pg", false, "Mirror the primary store into Postgres (DATABASE_URL)")
	dryRun := flag.Bool("dry-run", false, "Preview changes without writing")
	flag.Parse()

	// Load .env
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	log := logger.New(logger.FromConfig(cfg))

	if !*group && !*mirror {
		log.Error("Nothing to do: pass -group and/or -pg")
		flag.Usage()
		os.Exit(2)
	}

	s := store.New(cfg.DataFile, cfg.GroupedFile, log)
	records := s.LoadAll()
	log.WithFields(logrus.Fields{"file": cfg.DataFile, "records": len(records)}).Info("Loaded primary store")

	if *group {
		by, err := store.ParseGroupKey(*groupBy)
		if err != nil {
			log.Fatalf("Invalid -by: %v", err)
		}

		idx := store.BuildGroupedIndex(records, by)
		names := make([]string, 0, len(idx))
		for name := range idx {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			log.WithFields(logrus.Fields{"community": name, "records": len(idx[name])}).Debug("Group")
		}

		if *dryRun {
			log.WithField("communities", len(idx)).Info("Dry run: grouped index not written")
		} else {
			if err := s.SaveGroupedIndex(idx); err != nil {
				log.Fatalf("Failed to write grouped index: %v", err)
			}
			log.WithFields(logrus.Fields{"file": cfg.GroupedFile, "communities": len(idx)}).Info("Grouped index written")
		}
	}

	if *mirror {
		if *dryRun {
			log.WithField("records", len(records)).Info("Dry run: Postgres mirror skipped")
			return
		}

		db, err := database.Connect(context.Background(), cfg.DatabaseURL, log)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		ctx := context.Background()
		if err := db.RunMigrations(ctx); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}

		res, err := db.MirrorTurismo(ctx, records)
		if err != nil {
			log.Fatalf("Failed to mirror records: %v", err)
		}
		total, err := db.CountTurismo(ctx)
		if err != nil {
			log.Fatalf("Failed to count records: %v", err)
		}
		log.WithFields(logrus.Fields{
			"upserted": res.Upserted,
			"deleted":  res.Deleted,
			"total":    total,
		}).Info("Postgres mirror complete")
	}
}
