package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/quellen/murmur/internal/config"
	"github.com/quellen/murmur/internal/paging"
)

// KeyHandler routes key presses for the active view.
type KeyHandler struct {
	app  *App
	keys config.KeyBindings
}

func NewKeyHandler(app *App, cfg *config.Config) *KeyHandler {
	return &KeyHandler{app: app, keys: cfg.Keys.Bindings}
}

func (k *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return k.app, tea.Quit
	}

	switch k.app.view {
	case ViewList:
		return k.handleListKeys(msg)
	case ViewDetail:
		return k.handleDetailKeys(msg)
	case ViewSearch:
		return k.handleSearchKeys(msg)
	case ViewFilter:
		return k.handleFilterKeys(msg)
	}
	return k.app, nil
}

func (k *KeyHandler) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := k.app

	switch msg.String() {
	case k.keys.Quit:
		return a, tea.Quit

	case "up", "k":
		a.list.CursorUp()
		return a, a.armDebounce()

	case "down", "j":
		a.list.CursorDown()
		return a, a.armDebounce()

	case "pgup", "ctrl+u":
		a.list.PageUp()
		return a, a.armDebounce()

	case "pgdown", "ctrl+d":
		a.list.PageDown()
		return a, a.armDebounce()

	case "enter":
		if item, ok := a.list.Selected(); ok {
			a.loadingDetail = true
			a.view = ViewDetail
			return a, a.loadDetail(item.ID)
		}
		return a, nil

	case k.keys.Search:
		a.searchInput.SetValue(a.window.SearchQuery())
		a.searchInput.Focus()
		a.view = ViewSearch
		return a, nil

	case k.keys.Filter:
		f := a.window.Filter()
		a.filterStart.SetValue(f.Start)
		a.filterEnd.SetValue(f.End)
		a.filterFocus = 0
		a.filterStart.Focus()
		a.filterEnd.Blur()
		a.view = ViewFilter
		return a, nil

	case "ctrl+x":
		if a.window.Filter().Enabled {
			a.setStatus(MsgFilterOff, StatusInfo)
			return a, a.fetchPage(a.window.ClearFilter())
		}
		return a, nil

	case k.keys.Refresh:
		a.setStatus(MsgSyncing, StatusInfo)
		return a, a.triggerSync()

	case k.keys.CopyLink:
		return a, a.copyShareLink()

	case k.keys.Back:
		if a.window.Mode() == paging.ModeSearch {
			a.searchInput.SetValue("")
			return a, a.fetchPage(a.window.ClearSearch())
		}
		return a, nil
	}

	return a, nil
}

func (k *KeyHandler) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := k.app

	switch msg.String() {
	case k.keys.Quit:
		return a, tea.Quit

	case k.keys.Back:
		a.view = ViewList
		a.detail = nil
		return a, nil

	case "[", "left", "h":
		// Versions run newest first; left walks back in time.
		if a.detail != nil && a.detailVersion < len(a.detail.Versions)-1 {
			a.detailVersion++
			return a, a.renderDetail()
		}
		return a, nil

	case "]", "right", "l":
		if a.detailVersion > 0 {
			a.detailVersion--
			return a, a.renderDetail()
		}
		return a, nil

	case k.keys.PlayAudio:
		return a, a.playAudio(a.detail, a.detailVersion)

	case k.keys.CopyLink:
		return a, a.copyShareLink()
	}

	// Everything else scrolls the transcript.
	var cmd tea.Cmd
	a.detailView, cmd = a.detailView.Update(msg)
	return a, cmd
}

func (k *KeyHandler) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := k.app

	switch msg.String() {
	case "enter":
		query := strings.TrimSpace(a.searchInput.Value())
		a.searchInput.Blur()
		a.view = ViewList
		return a, a.fetchPage(a.window.SetSearch(query))

	case "esc":
		a.searchInput.Blur()
		a.view = ViewList
		return a, nil
	}

	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)
	return a, cmd
}

func (k *KeyHandler) handleFilterKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := k.app

	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		a.filterFocus = 1 - a.filterFocus
		if a.filterFocus == 0 {
			a.filterStart.Focus()
			a.filterEnd.Blur()
		} else {
			a.filterEnd.Focus()
			a.filterStart.Blur()
		}
		return a, nil

	case "enter":
		f := paging.Filter{
			Start: strings.TrimSpace(a.filterStart.Value()),
			End:   strings.TrimSpace(a.filterEnd.Value()),
		}
		req, err := a.window.ApplyFilter(f)
		if err != nil {
			// Stay on the form; the resident list is untouched.
			a.err = wrapErr("invalid filter", err)
			return a, nil
		}
		a.err = nil
		a.view = ViewList
		return a, a.fetchPage(req)

	case "ctrl+x":
		a.filterStart.SetValue("")
		a.filterEnd.SetValue("")
		a.err = nil
		a.view = ViewList
		a.setStatus(MsgFilterOff, StatusInfo)
		return a, a.fetchPage(a.window.ClearFilter())

	case "esc":
		a.err = nil
		a.view = ViewList
		return a, nil
	}

	var cmd tea.Cmd
	if a.filterFocus == 0 {
		a.filterStart, cmd = a.filterStart.Update(msg)
	} else {
		a.filterEnd, cmd = a.filterEnd.Update(msg)
	}
	return a, cmd
}

// GetHelpForCurrentView returns the status bar hints for the active view.
func (k *KeyHandler) GetHelpForCurrentView() []string {
	switch k.app.view {
	case ViewList:
		help := []string{
			"↑↓: navigate",
			"enter: open",
			k.keys.Search + ": search",
			k.keys.Filter + ": filter",
			k.keys.Refresh + ": rescan",
			k.keys.CopyLink + ": copy link",
			k.keys.Quit + ": quit",
		}
		if k.app.window.Mode() == paging.ModeSearch {
			help = append(help, k.keys.Back+": clear search")
		}
		return help
	case ViewDetail:
		return []string{
			"↑↓: scroll",
			"[ ]: versions",
			k.keys.PlayAudio + ": play audio",
			k.keys.CopyLink + ": copy link",
			k.keys.Back + ": back",
		}
	case ViewSearch, ViewFilter:
		return nil
	}
	return nil
}
