// Command purge-users deletes every user record. Operational tool for
// resetting an environment; not part of the request path.
//
// Usage:
//
//	go run ./scripts/purge-users.go -database-url postgres://...
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/authd/authd/internal/repository"
)

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		confirm     = flag.Bool("yes", false, "Skip the confirmation prompt")
	)
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}

	if !*confirm {
		fmt.Print("This deletes ALL users. Type 'yes' to continue: ")
		var answer string
		if _, err := fmt.Scanln(&answer); err != nil || answer != "yes" {
			fmt.Fprintln(os.Stderr, "aborted")
			os.Exit(1)
		}
	}

	ctx := context.Background()

	repo, err := repository.New(ctx, *databaseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect to database: %v\n", err)
		os.Exit(1)
	}
	defer repo.Close()

	deleted, err := repo.DeleteAllUsers(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "delete users: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("deleted %d users\n", deleted)
}
