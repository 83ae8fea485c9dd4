// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the study-scroller CLI. The serve
// command runs the web page; the other commands drive the same feed and
// library from the terminal.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/study-scroller/internal/httputil"
	"github.com/pdiddy/study-scroller/internal/secrets"
	"github.com/pdiddy/study-scroller/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// appName names the config file, the env prefix, and the data directory.
const appName = "study-scroller"

var (
	// loadedSecrets holds credentials loaded from .secrets/ at startup.
	loadedSecrets secrets.Secrets

	// logger is the root logger, configured from flags before any command runs.
	logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
)

// rootCmd is the base command for the study-scroller CLI.
var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Scroll a feed of research papers and drug facts",
	Long: `study-scroller builds a scrollable feed of study cards for a topic: research
works sampled from OpenAlex interleaved with drug labels from openFDA. Cards
can be saved to a local library.

Run "study-scroller serve" for the web page, or use the feed and library
commands from the terminal.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogger(cmd); err != nil {
			return err
		}
		s, err := secrets.Load(secrets.DefaultDir, logger)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			logger.Debug("loaded secrets", "keys", s.Keys())
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./study-scroller.yaml or ~/.config/study-scroller/study-scroller.yaml)")
	pf.Bool("debug", false, "enable debug logging")
	pf.String("log-format", "text", "log format: text or json")
	pf.String("data-dir", "", "library data directory (default: $XDG_DATA_HOME/study-scroller)")
	pf.String("backend", string(types.BackendSQLite), "library backend: sqlite or bolt")

	viper.BindPFlag("library.data_dir", pf.Lookup("data-dir"))
	viper.BindPFlag("library.backend", pf.Lookup("backend"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(appName)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", appName))
		}
	}

	viper.SetEnvPrefix("STUDY_SCROLLER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		logger.Debug("using config file", "path", viper.ConfigFileUsed())
	}
}

// setDefaults registers every config key so AutomaticEnv can override keys
// that appear in no config file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("feed.timeout", 15*time.Second)
	v.SetDefault("feed.user_agent", httputil.DefaultUserAgent)
	v.SetDefault("feed.sample_size", types.DefaultSampleSize)
	v.SetDefault("feed.drug_limit", types.DefaultDrugLimit)
	v.SetDefault("feed.text_limit", types.DefaultTextLimit)
	v.SetDefault("feed.openalex_email", "")
	v.SetDefault("library.backend", string(types.BackendSQLite))
	v.SetDefault("library.data_dir", "")
	v.SetDefault("library.slot", types.DefaultSlot)
	v.SetDefault("server.addr", types.DefaultAddr)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
}

// loadConfig decodes the merged configuration. The OpenAlex email falls back
// to the secrets directory and the data directory to the XDG data home.
func loadConfig(v *viper.Viper, s secrets.Secrets) (types.AppConfig, error) {
	var cfg types.AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Feed = cfg.Feed.WithDefaults()
	cfg.Feed.OpenAlexEmail = s.Or(secrets.OpenAlexEmail, cfg.Feed.OpenAlexEmail)
	cfg.Library = cfg.Library.WithDefaults()
	if cfg.Library.DataDir == "" {
		cfg.Library.DataDir = filepath.Join(xdg.DataHome, appName)
	}
	return cfg, nil
}

func setupLogger(cmd *cobra.Command) error {
	debug, _ := cmd.Flags().GetBool("debug")
	if debug {
		logger.SetLevel(log.DebugLevel)
	}

	format, _ := cmd.Flags().GetString("log-format")
	switch format {
	case "text", "":
		logger.SetFormatter(log.TextFormatter)
	case "json":
		logger.SetFormatter(log.JSONFormatter)
	default:
		return fmt.Errorf("unsupported log format %q: use text or json", format)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
