package tui

import "fmt"

// StatusKind indicates severity for status messages.
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusSuccess
	StatusError
)

// Canonical short status messages used across the app.
const (
	MsgLoading      = "Loading…"
	MsgSyncing      = "Rescanning recordings…"
	MsgSynced       = "Recordings rescanned"
	MsgLinkCopied   = "Link copied"
	MsgAudioStarted = "Playing audio"
	MsgNoAudio      = "No audio for this version"
	MsgNoResults    = "No results"
	MsgFilterOff    = "Filter cleared"
)

func MsgResultsCount(n int) string {
	if n == 1 {
		return "1 result"
	}
	return fmt.Sprintf("%d results", n)
}

func MsgConversationCount(n int) string {
	if n == 1 {
		return "1 conversation"
	}
	return fmt.Sprintf("%d conversations", n)
}
