// Package conversation defines the wire and domain model shared by the
// murmur server and client: recordings grouped into conversations, each
// with one or more transcription versions of the same audio.
package conversation

import (
	"strings"
	"time"
)

// maxTitleLen bounds the generated conversation title.
const maxTitleLen = 50

// Segment is one timecoded slice of a transcript.
type Segment struct {
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
	Text      string  `json:"text"`
}

// Version is one transcription attempt of a conversation's audio.
type Version struct {
	VersionID           string    `json:"version_id"`
	Timestamp           int64     `json:"timestamp"`
	IsLatest            bool      `json:"is_latest"`
	RawTranscript       string    `json:"raw_transcript,omitempty"`
	ProcessedTranscript string    `json:"processed_transcript,omitempty"`
	LLMTranscript       string    `json:"llm_transcript,omitempty"`
	Segments            []Segment `json:"segments,omitempty"`
	Duration            float64   `json:"duration,omitempty"`
	Language            string    `json:"language,omitempty"`
	ModelName           string    `json:"model_name,omitempty"`
	ModeName            string    `json:"mode_name,omitempty"`
	HasAudio            bool      `json:"has_audio"`
	CreatedAt           time.Time `json:"created_at"`
}

// BestTranscript picks the most useful transcript text: processed beats
// raw beats the LLM rewrite.
func (v Version) BestTranscript() string {
	switch {
	case v.ProcessedTranscript != "":
		return v.ProcessedTranscript
	case v.RawTranscript != "":
		return v.RawTranscript
	default:
		return v.LLMTranscript
	}
}

// Conversation groups all transcription versions of one recording, newest
// first.
type Conversation struct {
	ConversationID string    `json:"conversation_id"`
	Title          string    `json:"title"`
	Versions       []Version `json:"versions"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Latest returns the most recent version, or nil for an empty conversation.
func (c *Conversation) Latest() *Version {
	if len(c.Versions) == 0 {
		return nil
	}
	return &c.Versions[0]
}

// Summary is the list-view projection of a conversation. MatchSnippets is
// populated in search responses only.
type Summary struct {
	ConversationID  string   `json:"conversation_id"`
	Title           string   `json:"title"`
	LatestTimestamp int64    `json:"latest_timestamp"`
	VersionCount    int      `json:"version_count"`
	MatchSnippets   []string `json:"match_snippets,omitempty"`
}

// Summarize projects a conversation onto its list item.
func (c *Conversation) Summarize() Summary {
	s := Summary{
		ConversationID: c.ConversationID,
		Title:          c.Title,
		VersionCount:   len(c.Versions),
	}
	if v := c.Latest(); v != nil {
		s.LatestTimestamp = v.Timestamp
	}
	return s
}

// TitleFor derives a conversation title from its newest version: the first
// characters of the best transcript, or a timestamp fallback when the
// recording produced no text.
func TitleFor(v Version) string {
	text := strings.TrimSpace(v.BestTranscript())
	if text != "" {
		runes := []rune(text)
		if len(runes) > maxTitleLen {
			return string(runes[:maxTitleLen]) + "…"
		}
		return text
	}
	if !v.CreatedAt.IsZero() {
		return v.CreatedAt.Format("Conversation on 2006-01-02 15:04:05")
	}
	return "Conversation " + v.VersionID
}

// Pagination carries listing totals alongside a page of summaries.
type Pagination struct {
	TotalPages int `json:"total_pages"`
	TotalItems int `json:"total_items"`
}

// PageEnvelope is the paged response shape of the listing and search
// endpoints.
type PageEnvelope struct {
	Items      []Summary  `json:"items"`
	Pagination Pagination `json:"pagination"`
}
