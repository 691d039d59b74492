package conversation

import (
	"strings"
	"testing"
	"time"
)

func TestBestTranscript(t *testing.T) {
	tests := []struct {
		name string
		v    Version
		want string
	}{
		{
			name: "processed wins",
			v:    Version{RawTranscript: "raw", ProcessedTranscript: "processed", LLMTranscript: "llm"},
			want: "processed",
		},
		{
			name: "raw beats llm",
			v:    Version{RawTranscript: "raw", LLMTranscript: "llm"},
			want: "raw",
		},
		{
			name: "llm as last resort",
			v:    Version{LLMTranscript: "llm"},
			want: "llm",
		},
		{
			name: "all empty",
			v:    Version{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.BestTranscript(); got != tt.want {
				t.Errorf("BestTranscript() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTitleFor(t *testing.T) {
	short := TitleFor(Version{ProcessedTranscript: "  Quick note about the launch  "})
	if short != "Quick note about the launch" {
		t.Errorf("short title = %q", short)
	}

	long := TitleFor(Version{RawTranscript: strings.Repeat("word ", 30)})
	if got := len([]rune(long)); got != maxTitleLen+1 {
		t.Errorf("long title length = %d runes, want %d plus ellipsis", got, maxTitleLen+1)
	}
	if !strings.HasSuffix(long, "…") {
		t.Errorf("long title not truncated: %q", long)
	}

	created := time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)
	fallback := TitleFor(Version{CreatedAt: created})
	if fallback != "Conversation on 2024-03-15 09:30:00" {
		t.Errorf("timestamp fallback = %q", fallback)
	}

	last := TitleFor(Version{VersionID: "1700000000"})
	if last != "Conversation 1700000000" {
		t.Errorf("id fallback = %q", last)
	}
}

func TestLatestAndSummarize(t *testing.T) {
	var empty Conversation
	if empty.Latest() != nil {
		t.Error("Latest() on empty conversation should be nil")
	}

	c := Conversation{
		ConversationID: "1700000000",
		Title:          "Standup recap",
		Versions: []Version{
			{VersionID: "1700000600", Timestamp: 1700000600, IsLatest: true},
			{VersionID: "1700000000", Timestamp: 1700000000},
		},
	}

	if got := c.Latest(); got == nil || got.VersionID != "1700000600" {
		t.Errorf("Latest() = %+v, want the newest version first", got)
	}

	s := c.Summarize()
	if s.ConversationID != "1700000000" || s.Title != "Standup recap" {
		t.Errorf("Summarize() = %+v", s)
	}
	if s.VersionCount != 2 || s.LatestTimestamp != 1700000600 {
		t.Errorf("Summarize() totals = %+v", s)
	}
	if s.MatchSnippets != nil {
		t.Error("Summarize() should not fabricate snippets")
	}
}
