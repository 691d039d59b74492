// Package media launches an external audio player for a conversation's
// recording. Players run detached so the terminal UI keeps the tty.
package media

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/quellen/murmur/internal/config"
)

type Launcher struct {
	audioPlayer   string
	defaultOpener string
	registry      *PlayerRegistry
}

func NewLauncher(cfg *config.Config) *Launcher {
	registry, err := NewPlayerRegistry()
	if err != nil {
		// Continue with basic functionality if player definitions can't be loaded
		registry = &PlayerRegistry{players: make(map[string]PlayerDefinition)}
	}

	l := &Launcher{
		defaultOpener: cfg.Media.DefaultOpener,
		registry:      registry,
	}

	var players config.MediaPlayers
	switch runtime.GOOS {
	case "darwin":
		players = cfg.Media.Darwin
	case "linux":
		players = cfg.Media.Linux
	case "windows":
		players = cfg.Media.Windows
	default:
		players = cfg.Media.Darwin
	}

	if len(players.Audio) > 0 {
		l.audioPlayer = findCommand(players.Audio...)
	}
	if l.audioPlayer == "" {
		l.audioPlayer = l.defaultOpener
	}

	return l
}

// Play starts the configured audio player on a URL or file path.
func (l *Launcher) Play(url string) error {
	playerName := l.audioPlayer
	if playerName == "" {
		playerName = l.defaultOpener
	}
	if playerName == "" {
		return fmt.Errorf("no audio player found")
	}

	cmd, err := l.registry.GetCommand(playerName, url)
	if err != nil {
		cmd = exec.Command(playerName, url)
	}

	// Detached start; the player must not block the UI loop
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", playerName, err)
	}

	go func() {
		_ = cmd.Wait()
	}()

	return nil
}

func findCommand(commands ...string) string {
	for _, cmd := range commands {
		if _, err := exec.LookPath(cmd); err == nil {
			return cmd
		}
	}
	return ""
}
