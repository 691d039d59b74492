package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	return &Config{
		Server: Server{
			Address:       "127.0.0.1:0",
			RecordingsDir: "testdata/recordings",
		},
		Client: Client{
			ServerURL:      "http://127.0.0.1:8970",
			HTTPTimeout:    5 * time.Second,
			PageSize:       30,
			EdgeThreshold:  10,
			ScrollDebounce: 100 * time.Millisecond,
		},
		UI:    defaultConfig().UI,
		Media: defaultConfig().Media,
		Keys:  defaultConfig().Keys,
	}
}
