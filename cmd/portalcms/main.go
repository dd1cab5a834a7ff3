// Package main is the entry point for the portal CMS. The portalcms
// binary serves the public read API and carries the operational commands
// for migrations and seeding.
package main

import (
	"errors"
	"fmt"
	"os"

	"portalcms/internal/seed"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error: "+err.Error())
		if errors.Is(err, seed.ErrInput) {
			fmt.Fprintln(os.Stderr, "Check the --json-path flag or the SEED_* environment variables.")
		}
		os.Exit(1)
	}
}
