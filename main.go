package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"

	"food-whatsapp/config"
	"food-whatsapp/db"
	"food-whatsapp/server"
	"food-whatsapp/services"
	"food-whatsapp/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if cfg.Merchant.PixKey == "" {
		fmt.Fprintln(os.Stderr, "PIX_KEY not set")
		os.Exit(1)
	}

	// Check for migrate subcommand
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		runMigrate(cfg)
		return
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	profiles, carts, err := buildStores(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "store:", err)
		os.Exit(1)
	}
	defer db.Close()

	srv := server.New(cfg, services.DefaultMenu(), profiles, carts, log)
	log.Info("starting", "backend", cfg.Store.Backend, "business", cfg.Merchant.BusinessName)
	if err := srv.ListenAndServe(); err != nil {
		fmt.Fprintln(os.Stderr, "server:", err)
		os.Exit(1)
	}
}

// buildStores picks the persistence backend. The file backend is the
// default: one JSON file, no external services, enough for a single
// kitchen's traffic.
func buildStores(cfg *config.Config) (store.ProfileStore, store.CartStore, error) {
	switch cfg.Store.Backend {
	case "memory":
		m := store.NewMemory()
		return m, m, nil
	case "file":
		f := store.NewFile(cfg.Store.FileDir)
		return f, f, nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		r := store.NewRedis(client)
		return r, r, nil
	case "postgres":
		if err := db.Init(cfg.DB); err != nil {
			return nil, nil, err
		}
		if v := strings.TrimSpace(os.Getenv("AUTO_MIGRATE")); v == "1" || strings.EqualFold(v, "true") {
			if err := applyMigrations(context.Background(), false); err != nil {
				return nil, nil, fmt.Errorf("migrate: %w", err)
			}
		}
		p := store.NewPostgres()
		return p, p, nil
	default:
		return nil, nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.Store.Backend)
	}
}

func runMigrate(cfg *config.Config) {
	if err := db.Init(cfg.DB); err != nil {
		fmt.Fprintln(os.Stderr, "db:", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := applyMigrations(context.Background(), true); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}
