// Package main applies the embedded PostgreSQL migrations.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"bubblemaps-bot/internal/config"
	"bubblemaps-bot/internal/logging"
	"bubblemaps-bot/internal/storage/migrations"
	pgstore "bubblemaps-bot/internal/storage/postgres"
)

func main() {
	if err := config.LoadEnvFile(""); err != nil {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
		os.Exit(1)
	}

	fs := flag.NewFlagSet("migrate", flag.ExitOnError)
	list := fs.Bool("list", false, "List embedded migrations without applying them")
	timeout := fs.Duration("timeout", time.Minute, "Overall migration timeout")

	cfg, err := config.Load(fs, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	log, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if *list {
		files, err := migrations.PostgresFiles()
		if err != nil {
			log.WithError(err).Fatal("Failed to read migrations")
		}
		for _, f := range files {
			fmt.Println(f)
		}
		return
	}

	if err := cfg.ValidateMigrate(); err != nil {
		log.WithError(err).Fatal("Invalid configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	applied, err := migrations.RunPostgresMigrations(ctx, pool)
	if err != nil {
		log.WithError(err).WithField("applied", applied).Error("Migration failed")
		pool.Close()
		os.Exit(1)
	}
	log.WithField("files", applied).Info("Migrations applied")
}
