package main

import (
	"fmt"
	"log"
	"os"

	"librarium/internal/catalog"
	"librarium/internal/config"
	"librarium/internal/entrypoint"
	"librarium/internal/persistence"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	// If no arguments or "serve" command, run the HTTP server
	if len(os.Args) < 2 || os.Args[1] == "serve" {
		cfg := config.NewConfig()
		entrypoint.Run(cfg, Version)
		return
	}

	switch os.Args[1] {
	case "seed":
		cfg := config.NewConfig()
		store, err := persistence.NewStore(cfg.Data.Dir)
		if err != nil {
			log.Fatalf("Failed to initialize data directory: %v", err)
		}
		cat, err := catalog.Open(store)
		if err != nil {
			log.Fatalf("Failed to load catalog: %v", err)
		}
		users, books := cat.Seed()
		if users == 0 && books == 0 {
			fmt.Println("Catalog is not empty, nothing seeded")
			return
		}
		fmt.Printf("Seeded %d users and %d books into %s\n", users, books, cfg.Data.Dir)

	case "-h", "--help", "help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  serve  Start the HTTP server (default if no command given)\n")
	fmt.Fprintf(os.Stderr, "  seed   Insert demo users and books into an empty catalog\n")
}
