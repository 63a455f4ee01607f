package main

import (
	"fmt"
	"os"

	"codeberg.org/techcorp/supportbot/internal/config"
	"codeberg.org/techcorp/supportbot/internal/logger"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: ingester <command> [options]")
		fmt.Println("Commands:")
		fmt.Println("  rebuild   - extract, chunk and index the company PDF")
		fmt.Println("  status    - print the index and knowledge base status")
		fmt.Println("  search    - run a query against the index and print the hits")
		fmt.Println("  token     - issue an admin JWT for the management endpoints")
		fmt.Println("\nRebuild options:")
		fmt.Println("  --path <path>  - PDF to index instead of the documents directory")
		fmt.Println("  --clear        - Drop the local snapshot before rebuilding")
		fmt.Println("\nToken options:")
		fmt.Println("  --subject <name>  - Subject written into the token")
		fmt.Println("  --ttl <duration>  - Token lifetime, e.g. 12h")
		os.Exit(1)
	}

	command := os.Args[1]

	// load environment variables
	cfg, err := config.LoadEnvironmentVariables()
	if err != nil {
		logger.Fatal("failed to load configuration", "error", err)
	}

	// route to appropriate command
	switch command {
	case "rebuild":
		flags := config.ParseRebuildFlags()
		if err := RebuildIndex(cfg, flags); err != nil {
			logger.Fatal("failed to rebuild index", "error", err)
		}

	case "status":
		if err := PrintStatus(cfg, os.Stdout); err != nil {
			logger.Fatal("failed to read status", "error", err)
		}

	case "search":
		if len(os.Args) < 3 {
			fmt.Println("Usage: ingester search <query>")
			os.Exit(1)
		}

		if err := SearchIndex(cfg, os.Args[2], os.Stdout); err != nil {
			logger.Fatal("failed to search index", "error", err)
		}

	case "token":
		flags := config.ParseTokenFlags()
		if err := IssueToken(flags, os.Stdout); err != nil {
			logger.Fatal("failed to issue token", "error", err)
		}

	default:
		fmt.Printf("Unknown command: %s\n", command)
		os.Exit(1)
	}
}
