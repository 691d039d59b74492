package media

import (
	"testing"

	"github.com/quellen/murmur/internal/config"
)

func TestNewLauncher(t *testing.T) {
	cfg := config.TestConfig()

	launcher := NewLauncher(cfg)
	if launcher == nil {
		t.Fatal("NewLauncher() returned nil")
	}
	if launcher.registry == nil {
		t.Error("launcher registry should not be nil")
	}
}

func TestNewLauncher_FallsBackToDefaultOpener(t *testing.T) {
	cfg := config.TestConfig()
	cfg.Media.Darwin.Audio = []string{"definitely-not-installed-player"}
	cfg.Media.Linux.Audio = []string{"definitely-not-installed-player"}
	cfg.Media.Windows.Audio = []string{"definitely-not-installed-player"}
	cfg.Media.DefaultOpener = "true"

	launcher := NewLauncher(cfg)
	if launcher.audioPlayer != "true" {
		t.Errorf("audioPlayer = %q, want fallback %q", launcher.audioPlayer, "true")
	}
}

func TestPlay_NoPlayerAvailable(t *testing.T) {
	launcher := &Launcher{
		registry: &PlayerRegistry{players: map[string]PlayerDefinition{}},
	}

	if err := launcher.Play("http://localhost/audio.wav"); err == nil {
		t.Error("Play() should fail without a player")
	}
}

func TestFindCommand(t *testing.T) {
	// "sh" exists on every unix test runner; the other never does.
	if got := findCommand("definitely-not-installed-player", "sh"); got != "sh" {
		t.Errorf("findCommand = %q, want sh", got)
	}
	if got := findCommand("definitely-not-installed-player"); got != "" {
		t.Errorf("findCommand = %q, want empty", got)
	}
}
