package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/tradelens/tradelens/internal/localstore"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose configuration, server and local mirror",
		Long:  "Run diagnostic checks against config, server and the local mirror",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd.Context())
		},
	}
}

type checkResult struct {
	Name   string
	Passed bool
	Detail string
	Hint   string
}

func runDoctor(ctx context.Context) error {
	fmt.Println("\nTradeLens Doctor")
	fmt.Println("================")

	results := doctorChecks(ctx)

	fmt.Println()
	allPassed := true
	for _, r := range results {
		mark := "✅"
		if !r.Passed {
			mark = "❌"
			allPassed = false
		}
		if r.Detail != "" {
			fmt.Printf("%s %s: %s\n", mark, r.Name, r.Detail)
		} else {
			fmt.Printf("%s %s\n", mark, r.Name)
		}
		if !r.Passed && r.Hint != "" {
			fmt.Printf("   Hint: %s\n", r.Hint)
		}
	}

	fmt.Println()
	if !allPassed {
		fmt.Println("❌ Some checks failed.")
		return fmt.Errorf("doctor found issues")
	}

	fmt.Println("✅ All checks passed!")
	return nil
}

func doctorChecks(ctx context.Context) []checkResult {
	var results []checkResult

	// 1. Config file. Missing is fine; defaults apply.
	dir, _ := configDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	if _, err := readConfigFile(); err != nil && !os.IsNotExist(err) {
		results = append(results, checkResult{
			Name: "Config file", Detail: cfgPath,
			Hint: fmt.Sprintf("The file could not be parsed (%v). Run: tradelens init", err),
		})
	} else {
		results = append(results, checkResult{Name: "Config file", Passed: true, Detail: cfgPath})
	}

	// 2. Local mirror.
	results = append(results, checkLocalMirror(ctx))

	if flagOffline {
		return results
	}

	// 3. Server reachable.
	hctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	health, err := apiClient.Health(hctx)
	if err != nil {
		results = append(results, checkResult{
			Name: "Server reachable", Detail: flagURL,
			Hint: fmt.Sprintf("Is the tradelens server running? Set --url or TRADELENS_URL.\n   Error: %v", err),
		})
		return results
	}
	results = append(results, checkResult{
		Name: "Server reachable", Passed: true,
		Detail: fmt.Sprintf("%s (version %s, %s storage)", flagURL, health.Version, health.Storage),
	})

	// 4. Server storage ready.
	if _, err := apiClient.Ready(hctx); err != nil {
		results = append(results, checkResult{
			Name: "Server storage",
			Hint: fmt.Sprintf("The server cannot reach its document store. Error: %v", err),
		})
	} else {
		results = append(results, checkResult{Name: "Server storage", Passed: true, Detail: "ready"})
	}

	// 5. Legacy dashboard routes.
	if _, err := apiClient.LoadLegacy(hctx); err != nil {
		results = append(results, checkResult{
			Name: "Dashboard routes",
			Hint: fmt.Sprintf("GET /api/load-data failed: %v", err),
		})
	} else {
		results = append(results, checkResult{Name: "Dashboard routes", Passed: true, Detail: "/api/load-data"})
	}

	return results
}

func checkLocalMirror(ctx context.Context) checkResult {
	if err := os.MkdirAll(filepath.Dir(flagLocalDB), 0o700); err != nil {
		return checkResult{Name: "Local mirror", Detail: flagLocalDB, Hint: err.Error()}
	}

	store, err := localstore.Open(ctx, flagLocalDB)
	if err != nil {
		return checkResult{
			Name: "Local mirror", Detail: flagLocalDB,
			Hint: fmt.Sprintf("Set --local-db or TRADELENS_LOCAL_DB to a writable path. Error: %v", err),
		}
	}
	defer store.Close() //nolint:errcheck // probe only.

	entries, err := store.List(ctx)
	if err != nil {
		return checkResult{Name: "Local mirror", Detail: flagLocalDB, Hint: err.Error()}
	}

	return checkResult{
		Name: "Local mirror", Passed: true,
		Detail: fmt.Sprintf("%s (%d datasets)", flagLocalDB, len(entries)),
	}
}
