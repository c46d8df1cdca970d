package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tradelens/tradelens/client"
)

// profileConfig holds connection settings for a single profile.
type profileConfig struct {
	URL     string `yaml:"url"`
	LocalDB string `yaml:"local_db,omitempty"`
}

// profilesFile is the config file structure written by init.
type profilesFile struct {
	Profiles      map[string]profileConfig `yaml:"profiles"`
	ActiveProfile string                   `yaml:"active_profile"`
}

func newInitCmd() *cobra.Command {
	var (
		initURL     string
		initLocalDB string
		skipCheck   bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Set up TradeLens CLI configuration",
		Long:  "Interactive setup wizard that creates ~/.tradelens/config.yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			nonInteractive := initURL != ""
			return runInit(initURL, initLocalDB, nonInteractive, skipCheck)
		},
	}

	cmd.Flags().StringVar(&initURL, "server", "", "Server URL (non-interactive mode)")
	cmd.Flags().StringVar(&initLocalDB, "mirror", "", "Local mirror path (default ~/.tradelens/local.db)")
	cmd.Flags().BoolVar(&skipCheck, "skip-check", false, "Save without contacting the server")
	return cmd
}

func runInit(url, localDB string, nonInteractive, skipCheck bool) error {
	if !nonInteractive {
		fmt.Println("\n  TradeLens Setup")
		fmt.Println("  ───────────────")
		fmt.Println()

		reader := bufio.NewReader(os.Stdin)

		fmt.Printf("  Server URL [%s]: ", defaultURL)
		line, _ := reader.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" {
			url = line
		}

		fmt.Print("  Local mirror [~/.tradelens/local.db]: ")
		line, _ = reader.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" {
			localDB = line
		}
	}

	if url == "" {
		url = defaultURL
	}

	if !skipCheck {
		if !nonInteractive {
			fmt.Print("\n  Testing connection... ")
		}

		ver, err := testConnection(url)
		if err != nil {
			if !nonInteractive {
				fmt.Println("✗")
			}
			return fmt.Errorf("connection failed: %w", err)
		}

		if !nonInteractive {
			fmt.Printf("✓ Connected (%s)\n", ver)
		}
	}

	cfgPath, err := writeConfig(url, localDB)
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	if nonInteractive {
		fmt.Printf("Config saved to %s\n", cfgPath)
	} else {
		fmt.Printf("\n  ✓ Config saved to %s\n", cfgPath)
		fmt.Println()
		fmt.Println("  Next steps:")
		fmt.Println("    tradelens doctor              # Full diagnostic check")
		fmt.Println("    tradelens template gdp        # Get an example upload")
		fmt.Println("    tradelens show macro          # View the current data")
		fmt.Println()
	}

	return nil
}

func testConnection(url string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	health, err := client.New(url).Health(ctx)
	if err != nil {
		return "", err
	}
	if health.Version == "" {
		return "unknown", nil
	}
	return health.Version, nil
}

func writeConfig(url, localDB string) (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}

	cfg := profilesFile{
		Profiles: map[string]profileConfig{
			"default": {URL: url, LocalDB: localDB},
		},
		ActiveProfile: "default",
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", err
	}

	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, data, 0o600); err != nil {
		return "", err
	}

	return cfgPath, nil
}
