package main

import (
	"complaintdesk/backend/internal/config"
	"complaintdesk/backend/internal/jobs"
	"complaintdesk/backend/internal/scaffold"
	"complaintdesk/backend/internal/storage"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
)

const modulePath = "complaintdesk/backend"

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <command> [args]")
		fmt.Println("Commands: migrate, seed, prune-tokens, make-domain <name>")
		os.Exit(1)
	}

	command := os.Args[1]
	ctx := context.Background()

	switch command {
	case "migrate":
		s := openStorage()
		if err := storage.Migrate(s.DB); err != nil {
			log.Fatalf("Error running migrations: %v", err)
		}
		fmt.Println("Migrations complete.")
	case "seed":
		s := openStorage()
		if err := storage.Migrate(s.DB); err != nil {
			log.Fatalf("Error running migrations: %v", err)
		}
		n, err := storage.Seed(ctx, s.DB)
		if err != nil {
			log.Fatalf("Error seeding reference data: %v", err)
		}
		fmt.Printf("Seeded %d reference row(s).\n", n)
	case "prune-tokens":
		s := openStorage()
		n, err := jobs.NewTokenPruner(s).Run(ctx)
		if err != nil {
			log.Fatalf("Error pruning tokens: %v", err)
		}
		fmt.Printf("Removed %d expired access token(s).\n", n)
	case "make-domain":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin make-domain <name>")
			os.Exit(1)
		}
		if err := makeDomain(os.Args[2]); err != nil {
			log.Fatalf("Error creating domain: %v", err)
		}
	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
}

// openStorage connects to the database only; no admin command needs Redis.
func openStorage() *storage.Service {
	cfg := config.Load()
	db, err := storage.OpenDatabase(cfg)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	return storage.NewStorageService(db, nil)
}

func makeDomain(name string) error {
	d, err := scaffold.NewDomain(modulePath, name)
	if err != nil {
		return err
	}
	root, err := os.Getwd()
	if err != nil {
		return err
	}
	paths, err := scaffold.Generate(root, d)
	if err != nil {
		return err
	}

	fmt.Printf("Domain %s created:\n  %s\n", d.Type, strings.Join(paths, "\n  "))
	fmt.Printf("Remember to add &models.%s{} to storage.Migrate and mount handler.Register%sRoutes in cmd/main.go.\n", d.Type, d.Type)
	return nil
}
