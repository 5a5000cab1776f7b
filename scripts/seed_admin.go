package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/MoSamy004/Portfolio/adapters/persistence"
	"github.com/MoSamy004/Portfolio/internal/config"
	"github.com/MoSamy004/Portfolio/internal/domain/portfolio"
	"github.com/MoSamy004/Portfolio/pkg/auth"
	"github.com/MoSamy004/Portfolio/pkg/logger"
)

// Prints a bcrypt hash of ADMIN_PASSWORD for ADMIN_PASSWORD_HASH and, with
// -seed, writes the current (or default) profile so the document exists.
func main() {
	fmt.Println("preparing admin credentials...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		log.Fatal("ADMIN_PASSWORD is required")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("cannot hash password: %v", err)
	}
	fmt.Printf("ADMIN_PASSWORD_HASH=%s\n", hash)

	if len(os.Args) < 2 || os.Args[1] != "-seed" {
		return
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()

	repo, closeStore, err := persistence.NewPortfolioStore(cfg, appLogger)
	if err != nil {
		log.Fatalf("cannot open store: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	defer closeStore(ctx)

	current, err := repo.Fetch(ctx)
	if err != nil {
		log.Fatalf("cannot read portfolio: %v", err)
	}
	if err := repo.ReplaceProfile(ctx, current.Profile); err != nil {
		log.Fatalf("cannot seed portfolio: %v", err)
	}
	fmt.Printf("seeded portfolio document %q for %q\n", portfolio.DocumentID, current.Profile.Name)
}
