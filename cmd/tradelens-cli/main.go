package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tradelens/tradelens/client"
)

// Build-time variables set via ldflags.
var (
	version   = "0.1.0"
	commit    = ""
	buildDate = ""
)

const defaultURL = "http://localhost:3030"

var (
	apiClient   *client.Client
	cliLog      = logrus.New()
	flagURL     string
	flagLocalDB string
	flagFmt     string
	flagTimeout time.Duration
	flagOffline bool
	flagVerbose bool
)

func versionString() string {
	if commit != "" && buildDate != "" {
		return fmt.Sprintf("tradelens version %s (commit: %s, built: %s)", version, commit, buildDate)
	}
	return fmt.Sprintf("tradelens version %s-dev", version)
}

type configFile struct {
	// Flat format
	URL     string `yaml:"url"`
	LocalDB string `yaml:"local_db"`
	// Profile format
	Profiles      map[string]profileConfig `yaml:"profiles"`
	ActiveProfile string                   `yaml:"active_profile"`
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "tradelens",
		Short:   "TradeLens CLI: ASEAN trade and tariff-impact datasets",
		Version: versionString(),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			resolveConfig()
			setupLogging()
			apiClient = client.New(flagURL,
				client.WithTimeout(flagTimeout),
				client.WithUserAgent("tradelens-cli/"+version),
			)
		},
		SilenceUsage: true,
	}
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&flagURL, "url", defaultURL, "TradeLens server URL (env: TRADELENS_URL)")
	rootCmd.PersistentFlags().StringVar(&flagLocalDB, "local-db", "", "Local mirror database (env: TRADELENS_LOCAL_DB, default ~/.tradelens/local.db)")
	rootCmd.PersistentFlags().StringVar(&flagFmt, "format", "table", "Output format: json|table|quiet")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 10*time.Second, "Server request timeout")
	rootCmd.PersistentFlags().BoolVar(&flagOffline, "offline", false, "Use only the local mirror")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log tier activity to stderr")

	initCmd := newInitCmd()
	initCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {} // skip client setup

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(newDoctorCmd())
	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newCountriesCmd())
	rootCmd.AddCommand(newUploadCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newTemplateCmd())
	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newLocalCmd())

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging() {
	cliLog.SetOutput(os.Stderr)
	cliLog.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if flagVerbose {
		cliLog.SetLevel(logrus.DebugLevel)
	} else {
		cliLog.SetLevel(logrus.WarnLevel)
	}
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".tradelens"), nil
}

func readConfigFile() (*configFile, error) {
	dir, err := configDir()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, "config.yaml")) //nolint:gosec // fixed path under $HOME.
	if err != nil {
		return nil, err
	}
	var cfg configFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// activeProfile flattens a profile-format config onto the flat fields.
func (c *configFile) activeProfile() (url, localDB string) {
	url, localDB = c.URL, c.LocalDB
	if c.Profiles == nil {
		return url, localDB
	}

	name := c.ActiveProfile
	if name == "" {
		name = "default"
	}
	if p, ok := c.Profiles[name]; ok {
		if p.URL != "" {
			url = p.URL
		}
		if p.LocalDB != "" {
			localDB = p.LocalDB
		}
	}
	return url, localDB
}

func resolveConfig() {
	// Flag takes precedence, then env, then config file.
	if flagURL == defaultURL {
		if v := os.Getenv("TRADELENS_URL"); v != "" {
			flagURL = v
		}
	}
	if flagLocalDB == "" {
		flagLocalDB = os.Getenv("TRADELENS_LOCAL_DB")
	}

	if cfg, err := readConfigFile(); err == nil {
		url, localDB := cfg.activeProfile()
		if flagURL == defaultURL && url != "" {
			flagURL = url
		}
		if flagLocalDB == "" && localDB != "" {
			flagLocalDB = localDB
		}
	}

	if flagLocalDB == "" {
		if dir, err := configDir(); err == nil {
			flagLocalDB = filepath.Join(dir, "local.db")
		}
	}
}
