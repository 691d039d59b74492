package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server Server      `mapstructure:"server"`
	Client Client      `mapstructure:"client"`
	UI     UIConfig    `mapstructure:"ui"`
	Media  MediaConfig `mapstructure:"media"`
	Keys   KeyConfig   `mapstructure:"keys"`
}

type Server struct {
	Address       string `mapstructure:"address"`
	RecordingsDir string `mapstructure:"recordings_dir"`
	CachePath     string `mapstructure:"cache_path"`
}

type Client struct {
	ServerURL      string        `mapstructure:"server_url"`
	HTTPTimeout    time.Duration `mapstructure:"http_timeout"`
	PageSize       int           `mapstructure:"page_size"`
	EdgeThreshold  int           `mapstructure:"edge_threshold"`
	ScrollDebounce time.Duration `mapstructure:"scroll_debounce"`
}

type UIConfig struct {
	Colors     UIColors         `mapstructure:"colors"`
	Transcript TranscriptConfig `mapstructure:"transcript"`
}

type UIColors struct {
	Primary    string `mapstructure:"primary"`
	Secondary  string `mapstructure:"secondary"`
	Accent     string `mapstructure:"accent"`
	Background string `mapstructure:"background"`
	Surface    string `mapstructure:"surface"`
	Text       string `mapstructure:"text"`
	Muted      string `mapstructure:"muted"`
	Error      string `mapstructure:"error"`
	Success    string `mapstructure:"success"`
}

type TranscriptConfig struct {
	WordWrapMaxWidth int `mapstructure:"word_wrap_max_width"`
	WordWrapMinWidth int `mapstructure:"word_wrap_min_width"`
}

type MediaConfig struct {
	Darwin        MediaPlayers `mapstructure:"darwin"`
	Linux         MediaPlayers `mapstructure:"linux"`
	Windows       MediaPlayers `mapstructure:"windows"`
	DefaultOpener string       `mapstructure:"default_opener"`
}

type MediaPlayers struct {
	Audio []string `mapstructure:"audio"`
}

type KeyConfig struct {
	Bindings KeyBindings `mapstructure:"bindings"`
}

type KeyBindings struct {
	Quit      string `mapstructure:"quit"`
	Search    string `mapstructure:"search"`
	Filter    string `mapstructure:"filter"`
	Refresh   string `mapstructure:"refresh"`
	PlayAudio string `mapstructure:"play_audio"`
	CopyLink  string `mapstructure:"copy_link"`
	Back      string `mapstructure:"back"`
	Help      string `mapstructure:"help"`
}

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Server: Server{
			Address:       "127.0.0.1:8970",
			RecordingsDir: filepath.Join(homeDir, "Documents", "superwhisper", "recordings"),
			CachePath:     filepath.Join(homeDir, ".murmur", "cache.db"),
		},
		Client: Client{
			ServerURL:      "http://127.0.0.1:8970",
			HTTPTimeout:    30 * time.Second,
			PageSize:       30,
			EdgeThreshold:  10,
			ScrollDebounce: 100 * time.Millisecond,
		},
		UI: UIConfig{
			Colors: UIColors{
				Primary:    "#FF6B6B",
				Secondary:  "#4ECDC4",
				Accent:     "#95E1D3",
				Background: "#1A1A2E",
				Surface:    "#16213E",
				Text:       "#EAEAEA",
				Muted:      "#94A3B8",
				Error:      "#F87171",
				Success:    "#4ADE80",
			},
			Transcript: TranscriptConfig{
				WordWrapMaxWidth: 120,
				WordWrapMinWidth: 40,
			},
		},
		Media: MediaConfig{
			Darwin: MediaPlayers{
				Audio: []string{"mpv", "vlc", "open"},
			},
			Linux: MediaPlayers{
				Audio: []string{"mpv", "vlc", "mplayer"},
			},
			Windows: MediaPlayers{
				Audio: []string{"mpv", "vlc"},
			},
			DefaultOpener: getDefaultOpener(),
		},
		Keys: KeyConfig{
			Bindings: KeyBindings{
				Quit:      "q",
				Search:    "/",
				Filter:    "f",
				Refresh:   "r",
				PlayAudio: "o",
				CopyLink:  "y",
				Back:      "esc",
				Help:      "?",
			},
		},
	}
}

func getDefaultOpener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "linux":
		return "xdg-open"
	case "windows":
		return "start"
	default:
		return "open"
	}
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	cfg := defaultConfig()
	v.SetDefault("server", cfg.Server)
	v.SetDefault("client", cfg.Client)
	v.SetDefault("ui", cfg.UI)
	v.SetDefault("media", cfg.Media)
	v.SetDefault("keys", cfg.Keys)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		homeDir, _ := os.UserHomeDir()
		configDir := filepath.Join(homeDir, ".config", "murmur")

		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("MURMUR")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Expand paths after loading
	expandPaths(&config)

	return &config, nil
}

// ExpandPath expands ~ to home directory and converts to absolute path
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

// expandPaths expands all paths in the config
func expandPaths(cfg *Config) {
	cfg.Server.RecordingsDir = ExpandPath(cfg.Server.RecordingsDir)
	cfg.Server.CachePath = ExpandPath(cfg.Server.CachePath)
}

func Save(config *Config, path string) error {
	v := viper.New()

	// Convert durations to strings for TOML readability
	clientCfg := map[string]interface{}{
		"server_url":      config.Client.ServerURL,
		"http_timeout":    config.Client.HTTPTimeout.String(),
		"page_size":       config.Client.PageSize,
		"edge_threshold":  config.Client.EdgeThreshold,
		"scroll_debounce": config.Client.ScrollDebounce.String(),
	}

	v.Set("server", config.Server)
	v.Set("client", clientCfg)
	v.Set("ui", config.UI)
	v.Set("media", config.Media)
	v.Set("keys", config.Keys)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}
