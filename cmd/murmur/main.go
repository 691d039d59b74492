package main

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/quellen/murmur/internal/api"
	"github.com/quellen/murmur/internal/config"
	"github.com/quellen/murmur/internal/debuglog"
	"github.com/quellen/murmur/internal/index"
	"github.com/quellen/murmur/internal/recording"
	"github.com/quellen/murmur/internal/server"
	"github.com/quellen/murmur/internal/tui"
	"github.com/quellen/murmur/internal/validation"
)

// Version is the version of the application, set at build time
var Version = "dev"

var (
	configPath string
	quiet      bool
)

var rootCmd = &cobra.Command{
	Use:   "murmur",
	Short: "Browse and search voice recordings from the terminal",
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		// Logging goes to a file; the terminal belongs to the TUI.
		if lvl := os.Getenv("MURMUR_DEBUG"); lvl != "" {
			return debuglog.Setup(debuglog.ParseLevel(lvl), "")
		}
		return nil
	},
	// Bare invocation behaves like browse.
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBrowse(cmd, args)
	},
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve recordings over HTTP",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		if dir, _ := cmd.Flags().GetString("recordings"); dir != "" {
			cfg.Server.RecordingsDir = dir
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Address = addr
		}

		cfg.Server.RecordingsDir, err = validation.NewExistingDirValidator().ValidateAndNormalize(cfg.Server.RecordingsDir)
		if err != nil {
			return fmt.Errorf("recordings directory: %w", err)
		}
		cfg.Server.CachePath, err = validation.NewDirPathValidator().ValidateAndNormalize(cfg.Server.CachePath)
		if err != nil {
			return fmt.Errorf("cache path: %w", err)
		}

		if err := os.MkdirAll(filepath.Dir(cfg.Server.CachePath), 0o755); err != nil {
			return fmt.Errorf("creating cache directory: %w", err)
		}
		cache, err := recording.OpenHashCache(cfg.Server.CachePath)
		if err != nil {
			return fmt.Errorf("opening hash cache: %w", err)
		}
		defer cache.Close()

		scanner := recording.NewScanner(cfg.Server.RecordingsDir, cache)
		ix, err := index.New(scanner)
		if err != nil {
			return fmt.Errorf("creating index: %w", err)
		}
		defer ix.Close()

		log.Printf("indexing recordings in %s", cfg.Server.RecordingsDir)
		if err := ix.Sync(); err != nil {
			return fmt.Errorf("initial index sync: %w", err)
		}

		log.Printf("murmur %s serving on %s", Version, cfg.Server.Address)
		return server.ListenAndServe(cfg.Server.Address, ix)
	},
}

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Open the conversation browser",
	RunE:  runBrowse,
}

func runBrowse(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	serverURL, _ := cmd.Flags().GetString("server")
	if serverURL != "" {
		cfg.Client.ServerURL = serverURL
	}

	shared := url.Values{}
	if link, _ := cmd.Flags().GetString("from-link"); link != "" {
		u, err := url.Parse(link)
		if err != nil {
			return fmt.Errorf("parsing share link: %w", err)
		}
		shared = u.Query()
	}

	client, err := api.NewClient(cfg.Client.ServerURL, cfg.Client.HTTPTimeout)
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}

	if !quiet {
		tui.ShowBanner(Version)
	}

	app := tui.NewApp(cfg, client, shared)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("murmur %s\n", Version)
		fmt.Println("Voice recording browser")
		fmt.Println("github.com/quellen/murmur")
	},
}

var generateConfigCmd = &cobra.Command{
	Use:   "generate-config",
	Short: "Generate a default config file",
	Run: func(_ *cobra.Command, _ []string) {
		home, _ := os.UserHomeDir()
		configFile := filepath.Join(home, ".config", "murmur", "config.toml")

		if err := config.GenerateDefaultConfig(configFile); err != nil {
			log.Fatalf("Failed to generate config: %v", err)
		}
		fmt.Printf("Generated default configuration at: %s\n", configFile)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to configuration file")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "Skip startup banner")

	serveCmd.Flags().String("recordings", "", "Recordings directory (overrides config)")
	serveCmd.Flags().String("addr", "", "Listen address (overrides config)")

	for _, c := range []*cobra.Command{rootCmd, browseCmd} {
		c.Flags().String("server", "", "Server URL (overrides config)")
		c.Flags().String("from-link", "", "Open with search and filters restored from a share link")
	}

	rootCmd.AddCommand(serveCmd, browseCmd, versionCmd, generateConfigCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
