package media

import (
	"runtime"
	"strings"
	"testing"
)

func TestNewPlayerRegistry(t *testing.T) {
	registry, err := NewPlayerRegistry()
	if err != nil {
		t.Fatalf("NewPlayerRegistry() error = %v", err)
	}

	for _, name := range []string{"mpv", "vlc"} {
		if _, ok := registry.players[name]; !ok {
			t.Errorf("built-in player %q missing from registry", name)
		}
	}
}

func TestGetCommand_KnownPlayer(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("arg layout differs on windows")
	}

	registry, err := NewPlayerRegistry()
	if err != nil {
		t.Fatal(err)
	}

	cmd, err := registry.GetCommand("mpv", "http://localhost/audio.wav")
	if err != nil {
		t.Fatalf("GetCommand(mpv) error = %v", err)
	}

	joined := strings.Join(cmd.Args, " ")
	if !strings.Contains(joined, "--no-video") {
		t.Errorf("mpv command %q missing --no-video", joined)
	}
	if cmd.Args[len(cmd.Args)-1] != "http://localhost/audio.wav" {
		t.Errorf("URL must be the last argument, got %v", cmd.Args)
	}
}

func TestGetCommand_UnknownPlayerPassesThrough(t *testing.T) {
	registry := &PlayerRegistry{players: map[string]PlayerDefinition{}}

	cmd, err := registry.GetCommand("some-player", "file.wav")
	if err != nil {
		t.Fatalf("GetCommand() error = %v", err)
	}
	if len(cmd.Args) != 2 || cmd.Args[1] != "file.wav" {
		t.Errorf("unexpected args %v", cmd.Args)
	}
}

func TestGetCommand_WrongPlatform(t *testing.T) {
	registry := &PlayerRegistry{players: map[string]PlayerDefinition{
		"ghost": {Platforms: []string{"plan9"}, Audio: &AudioArgsConfig{}},
	}}

	if _, err := registry.GetCommand("ghost", "file.wav"); err == nil {
		t.Error("GetCommand() should reject unsupported platform")
	}
}

func TestGetArgs_PlatformOverride(t *testing.T) {
	registry := &PlayerRegistry{}
	cfg := &AudioArgsConfig{
		Args:        []string{"--generic"},
		ArgsDarwin:  []string{"--darwin"},
		ArgsLinux:   []string{"--linux"},
		ArgsWindows: []string{"--windows"},
	}

	args := registry.getArgs(cfg)
	switch runtime.GOOS {
	case "darwin":
		if args[0] != "--darwin" {
			t.Errorf("getArgs = %v", args)
		}
	case "linux":
		if args[0] != "--linux" {
			t.Errorf("getArgs = %v", args)
		}
	case "windows":
		if args[0] != "--windows" {
			t.Errorf("getArgs = %v", args)
		}
	default:
		if args[0] != "--generic" {
			t.Errorf("getArgs = %v", args)
		}
	}

	if got := registry.getArgs(&AudioArgsConfig{Args: []string{"--only"}}); got[0] != "--only" {
		t.Errorf("getArgs fallback = %v", got)
	}
	if got := registry.getArgs(nil); got != nil {
		t.Errorf("getArgs(nil) = %v", got)
	}
}

func TestFindAvailablePlayer(t *testing.T) {
	registry := &PlayerRegistry{players: map[string]PlayerDefinition{}}

	if got := registry.FindAvailablePlayer([]string{"definitely-not-installed", "sh"}); got != "sh" {
		t.Errorf("FindAvailablePlayer = %q, want sh", got)
	}
	if got := registry.FindAvailablePlayer(nil); got != "" {
		t.Errorf("FindAvailablePlayer(nil) = %q", got)
	}
}
