package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pressgate/internal/accounts"
	"pressgate/internal/auth"
	"pressgate/internal/config"
	"pressgate/internal/content"
	"pressgate/internal/httpserver"
	"pressgate/internal/logging"
	"pressgate/internal/seed"
	"pressgate/internal/store/jsonfile"
	"pressgate/internal/store/postgres"
	"pressgate/internal/store/sqlite"
)

func main() {
	ctx := context.Background()
	logger := logging.New()

	cfg := config.Load()

	var (
		accountStore accounts.Store
		itemStore    content.Store
		dbConn       *sql.DB
	)
	switch cfg.StoreDriver {
	case "file":
		db, err := jsonfile.Open(cfg.StorePath)
		if err != nil {
			log.Fatalf("open store file: %v", err)
		}
		accountStore = db.Accounts()
		itemStore = db.Content()
	case "sqlite":
		db, err := sqlite.Open(ctx, cfg.StorePath)
		if err != nil {
			log.Fatalf("open sqlite store: %v", err)
		}
		dbConn = db
		accountStore = sqlite.NewAccountStore(db)
		itemStore = sqlite.NewItemStore(db)
	case "postgres":
		db, err := postgres.Open(ctx, cfg.StoreDSN)
		if err != nil {
			log.Fatalf("open postgres store: %v", err)
		}
		if err := postgres.RunMigrations(ctx, db, "sql"); err != nil {
			log.Fatalf("run migrations: %v", err)
		}
		dbConn = db
		accountStore = postgres.NewAccountStore(db)
		itemStore = postgres.NewItemStore(db)
	default:
		log.Fatalf("unknown store driver %q", cfg.StoreDriver)
	}
	if dbConn != nil {
		defer dbConn.Close()
	}

	seedFile, err := seed.Load(cfg.SeedPath)
	if err != nil {
		log.Fatalf("load seed: %v", err)
	}
	if err := seed.Apply(ctx, seedFile, accountStore, itemStore, logger); err != nil {
		log.Fatalf("apply seed: %v", err)
	}

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)

	handler := httpserver.NewRouter(logger, tokens, accountStore, itemStore)
	server := httpserver.New(cfg.HTTPAddr, handler, logger)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("http server: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
