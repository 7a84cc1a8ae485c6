package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/emilythestrangee/civic-polls/backend/internal/config"
	"github.com/emilythestrangee/civic-polls/backend/internal/database"
	"github.com/emilythestrangee/civic-polls/backend/internal/seed"
	"github.com/emilythestrangee/civic-polls/backend/internal/store"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	counts := seed.DefaultCounts()
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	fs.IntVar(&counts.Users, "users", counts.Users, "Users to create")
	fs.IntVar(&counts.Organizations, "organizations", counts.Organizations, "Organizations to create")
	fs.IntVar(&counts.Memberships, "memberships", counts.Memberships, "Memberships to create")
	fs.IntVar(&counts.Polls, "polls", counts.Polls, "Polls to create")
	fs.IntVar(&counts.Votes, "votes", counts.Votes, "Votes to record")
	randSeed := fs.Uint64("seed", 0, "Random seed (0 picks one)")
	fs.Parse(os.Args[1:])

	cfg, err := config.Load(nil)
	if err != nil {
		slog.Error("Error parsing configuration", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	s := store.New(db.GetDB(), nil)
	if _, err := seed.New(s, *randSeed).Run(context.Background(), counts); err != nil {
		slog.Error("seeding failed", "error", err)
		os.Exit(1)
	}
}
