package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/quellen/murmur/internal/conversation"
	"github.com/quellen/murmur/internal/paging"
)

type pageLoadedMsg struct {
	req *paging.LoadRequest
	res paging.PageResult
	err error
}

type debounceTickMsg struct {
	token uint64
}

type detailLoadedMsg struct {
	conv *conversation.Conversation
	err  error
}

type detailRenderedMsg struct {
	content string
}

type syncDoneMsg struct {
	err error
}

type statusMsg struct {
	text string
	kind StatusKind
}

// fetchPage runs one page fetch off the event loop. The request carries its
// own snapshot of mode, query and filter, so concurrent window changes
// cannot leak into it.
func (a *App) fetchPage(req *paging.LoadRequest) tea.Cmd {
	if req == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), a.config.Client.HTTPTimeout)
		defer cancel()
		res, err := a.window.Fetch(ctx, req)
		return pageLoadedMsg{req: req, res: res, err: err}
	}
}

// armDebounce starts the scroll quiescence timer for a fresh token. A newer
// scroll event invalidates the token before the tick lands.
func (a *App) armDebounce() tea.Cmd {
	token := a.debounce.Arm()
	return tea.Tick(a.config.Client.ScrollDebounce, func(time.Time) tea.Msg {
		return debounceTickMsg{token: token}
	})
}

// evaluateTriggers asks the sentinel whether either list edge needs another
// page and starts at most one load.
func (a *App) evaluateTriggers() tea.Cmd {
	for _, tr := range a.window.Evaluate() {
		if req := a.window.StartLoad(tr.Page, tr.Dir); req != nil {
			return a.fetchPage(req)
		}
	}
	return nil
}

func (a *App) loadDetail(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), a.config.Client.HTTPTimeout)
		defer cancel()
		conv, err := a.client.GetConversation(ctx, id)
		return detailLoadedMsg{conv: conv, err: wrapErr("loading conversation", err)}
	}
}

func (a *App) renderDetail() tea.Cmd {
	conv, idx := a.detail, a.detailVersion
	return func() tea.Msg {
		if conv == nil || idx >= len(conv.Versions) {
			return detailRenderedMsg{content: ""}
		}
		v := conv.Versions[idx]

		var md strings.Builder
		md.WriteString(fmt.Sprintf("# %s\n\n", conv.Title))
		md.WriteString(fmt.Sprintf("*%s*", v.CreatedAt.Format("Monday, Jan 2 2006 15:04")))
		if v.Duration > 0 {
			md.WriteString(fmt.Sprintf(" • *%.0fs*", v.Duration))
		}
		md.WriteString("\n\n")

		var tags []string
		if v.ModelName != "" {
			tags = append(tags, v.ModelName)
		}
		if v.ModeName != "" {
			tags = append(tags, v.ModeName)
		}
		if v.Language != "" {
			tags = append(tags, v.Language)
		}
		if len(tags) > 0 {
			md.WriteString("`" + strings.Join(tags, "` `") + "`\n\n")
		}

		md.WriteString("---\n\n")
		if text := v.BestTranscript(); text != "" {
			md.WriteString(text)
		} else {
			md.WriteString("*No transcript for this version.*")
		}
		md.WriteString("\n")

		r, err := a.getRenderer()
		if err != nil {
			return detailRenderedMsg{content: "Error initializing renderer: " + err.Error()}
		}
		rendered, err := r.Render(md.String())
		if err != nil {
			return detailRenderedMsg{content: md.String()}
		}
		return detailRenderedMsg{content: rendered}
	}
}

func (a *App) triggerSync() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), a.config.Client.HTTPTimeout)
		defer cancel()
		return syncDoneMsg{err: wrapErr("rescanning", a.client.TriggerSync(ctx))}
	}
}

func (a *App) playAudio(conv *conversation.Conversation, versionIdx int) tea.Cmd {
	return func() tea.Msg {
		if conv == nil || versionIdx >= len(conv.Versions) {
			return statusMsg{text: MsgNoAudio, kind: StatusError}
		}
		v := conv.Versions[versionIdx]
		if !v.HasAudio {
			return statusMsg{text: MsgNoAudio, kind: StatusError}
		}
		url := a.client.AudioURL(conv.ConversationID, v.VersionID)
		if err := a.launcher.Play(url); err != nil {
			return statusMsg{text: wrapErr("playing audio", err).Error(), kind: StatusError}
		}
		return statusMsg{text: MsgAudioStarted, kind: StatusSuccess}
	}
}

// copyShareLink puts a URL reproducing the current query and filter state
// on the system clipboard.
func (a *App) copyShareLink() tea.Cmd {
	link := a.window.ShareLink(a.client.BaseURL() + "/conversations")
	return func() tea.Msg {
		if err := clipboard.WriteAll(link); err != nil {
			return statusMsg{text: wrapErr("copying link", err).Error(), kind: StatusError}
		}
		return statusMsg{text: MsgLinkCopied, kind: StatusSuccess}
	}
}
