package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	outC := make(chan string)
	go func() {
		var buf bytes.Buffer
		io.Copy(&buf, r)
		outC <- buf.String()
	}()

	fn()

	w.Close()
	os.Stdout = old
	return <-outC
}

func TestVersionCommand(t *testing.T) {
	out := captureStdout(t, func() {
		versionCmd.Run(nil, nil)
	})

	if !strings.Contains(out, "murmur dev") {
		t.Errorf("Expected version output to contain 'murmur dev', got: %s", out)
	}
	if !strings.Contains(out, "Voice recording browser") {
		t.Errorf("Expected version output to contain 'Voice recording browser', got: %s", out)
	}
	if !strings.Contains(out, "github.com/quellen/murmur") {
		t.Errorf("Expected version output to contain 'github.com/quellen/murmur', got: %s", out)
	}
}

func TestGenerateConfigCommand(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, ".config", "murmur", "config.toml")

	oldHome := os.Getenv("HOME")
	os.Setenv("HOME", tmpDir)
	defer os.Setenv("HOME", oldHome)

	out := captureStdout(t, func() {
		generateConfigCmd.Run(nil, nil)
	})

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		t.Errorf("Config file was not created at %s", configFile)
	}
	if !strings.Contains(out, "Generated default configuration at:") {
		t.Errorf("Expected output to contain 'Generated default configuration at:', got: %s", out)
	}
}

func TestBrowseRejectsBadShareLink(t *testing.T) {
	browseCmd.Flags().Set("from-link", "http://[::1")
	defer browseCmd.Flags().Set("from-link", "")

	tmpDir := t.TempDir()
	oldHome := os.Getenv("HOME")
	os.Setenv("HOME", tmpDir)
	defer os.Setenv("HOME", oldHome)

	err := runBrowse(browseCmd, nil)
	if err == nil {
		t.Fatal("expected error for malformed share link")
	}
	if !strings.Contains(err.Error(), "share link") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCommandsRegistered(t *testing.T) {
	for _, name := range []string{"serve", "browse", "version", "generate-config"} {
		found := false
		for _, c := range rootCmd.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("command %q not registered", name)
		}
	}
}
