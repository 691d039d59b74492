package tui

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/quellen/murmur/internal/api"
	"github.com/quellen/murmur/internal/config"
	"github.com/quellen/murmur/internal/conversation"
	"github.com/quellen/murmur/internal/media"
	"github.com/quellen/murmur/internal/paging"
)

type App struct {
	config     *config.Config
	client     *api.Client
	window     *paging.Window
	list       *ListView
	launcher   *media.Launcher
	keyHandler *KeyHandler
	debounce   paging.Debouncer

	searchInput textinput.Model
	filterStart textinput.Model
	filterEnd   textinput.Model
	filterFocus int

	detailView    viewport.Model
	detail        *conversation.Conversation
	detailVersion int
	loadingDetail bool

	view   View
	width  int
	height int

	status     string
	statusKind StatusKind
	err        error

	shared url.Values

	glamourRenderer *glamour.TermRenderer
	rendererWidth   int
}

// NewApp wires the browser UI. shared carries query and filter parameters
// from a pasted share link; pass nil to start on the plain listing.
func NewApp(cfg *config.Config, client *api.Client, shared url.Values) *App {
	lv := NewListView()

	window := paging.NewWindow(
		api.NewListingSource(client),
		api.NewSearchSource(client),
		lv, lv,
		paging.Config{
			PageSize:      cfg.Client.PageSize,
			EdgeThreshold: cfg.Client.EdgeThreshold,
		},
	)

	si := textinput.New()
	si.Placeholder = "Search transcripts..."

	fs := textinput.New()
	fs.Placeholder = "2024-01-01T00:00"
	fs.CharLimit = 16

	fe := textinput.New()
	fe.Placeholder = "2024-12-31T23:59"
	fe.CharLimit = 16

	app := &App{
		config:      cfg,
		client:      client,
		window:      window,
		list:        lv,
		launcher:    media.NewLauncher(cfg),
		searchInput: si,
		filterStart: fs,
		filterEnd:   fe,
		detailView:  viewport.New(0, 0),
		view:        ViewList,
		shared:      shared,
	}

	app.keyHandler = NewKeyHandler(app, cfg)

	return app
}

func (a *App) getRenderer() (*glamour.TermRenderer, error) {
	wordWrapWidth := (a.width * 9) / 10
	if wordWrapWidth > a.config.UI.Transcript.WordWrapMaxWidth {
		wordWrapWidth = a.config.UI.Transcript.WordWrapMaxWidth
	}
	if wordWrapWidth < a.config.UI.Transcript.WordWrapMinWidth {
		wordWrapWidth = a.config.UI.Transcript.WordWrapMinWidth
	}
	if a.width < 50 {
		wordWrapWidth = a.width - 4
		if wordWrapWidth < 20 {
			wordWrapWidth = 20
		}
	}

	if a.glamourRenderer == nil || abs(a.rendererWidth-wordWrapWidth) > 10 {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wordWrapWidth),
		)
		if err != nil {
			return nil, err
		}
		a.glamourRenderer = r
		a.rendererWidth = wordWrapWidth
	}

	return a.glamourRenderer, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (a *App) Init() tea.Cmd {
	req := a.window.Init(a.shared)
	if a.window.SearchQuery() != "" {
		a.searchInput.SetValue(a.window.SearchQuery())
	}
	return tea.Batch(
		a.fetchPage(req),
		tea.EnterAltScreen,
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.list.SetSize(msg.Width, msg.Height-3)
		a.detailView.Width = msg.Width
		a.detailView.Height = msg.Height - 3

		inputWidth := msg.Width - 8
		if inputWidth < 20 {
			inputWidth = msg.Width - 2
		}
		a.searchInput.Width = inputWidth

	case tea.KeyMsg:
		return a.keyHandler.HandleKey(msg)

	case pageLoadedMsg:
		a.window.FinishLoad(msg.req, msg.res, msg.err)
		if msg.err == nil {
			a.err = nil
			a.setStatus(a.countStatus(), StatusInfo)
			// The first page may not fill the viewport; let the sentinel
			// top it up right away.
			if cmd := a.evaluateTriggers(); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}

	case debounceTickMsg:
		if a.debounce.Fire(msg.token) {
			if cmd := a.evaluateTriggers(); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}

	case detailLoadedMsg:
		a.loadingDetail = false
		if msg.err != nil {
			a.err = msg.err
			a.view = ViewList
		} else {
			a.detail = msg.conv
			a.detailVersion = 0
			a.view = ViewDetail
			cmds = append(cmds, a.renderDetail())
		}

	case detailRenderedMsg:
		if a.view == ViewDetail {
			a.detailView.SetContent(msg.content)
			a.detailView.GotoTop()
		}

	case syncDoneMsg:
		if msg.err != nil {
			a.err = msg.err
		} else {
			a.setStatus(MsgSynced, StatusSuccess)
			cmds = append(cmds, a.fetchPage(a.window.Reload()))
		}

	case statusMsg:
		a.setStatus(msg.text, msg.kind)
	}

	switch a.view {
	case ViewSearch:
		newInput, cmd := a.searchInput.Update(msg)
		a.searchInput = newInput
		cmds = append(cmds, cmd)
	case ViewFilter:
		newStart, cmd := a.filterStart.Update(msg)
		a.filterStart = newStart
		cmds = append(cmds, cmd)
		newEnd, endCmd := a.filterEnd.Update(msg)
		a.filterEnd = newEnd
		cmds = append(cmds, endCmd)
	case ViewDetail:
		switch msg.(type) {
		case tea.KeyMsg, tea.WindowSizeMsg, tea.MouseMsg:
			newViewport, cmd := a.detailView.Update(msg)
			a.detailView = newViewport
			cmds = append(cmds, cmd)
		}
	}

	return a, tea.Batch(cmds...)
}

func (a *App) setStatus(text string, kind StatusKind) {
	a.status = text
	a.statusKind = kind
}

func (a *App) countStatus() string {
	total := a.window.Cache().TotalItems()
	if a.window.Mode() == paging.ModeSearch {
		return MsgResultsCount(total)
	}
	return MsgConversationCount(total)
}

func (a *App) View() string {
	var content string

	switch a.view {
	case ViewList:
		content = a.viewList()
	case ViewDetail:
		content = a.viewDetail()
	case ViewSearch:
		content = a.viewSearch()
	case ViewFilter:
		content = a.viewFilter()
	}

	statusBar := a.statusBar()
	separatorWidth := a.width
	if separatorWidth < 0 {
		separatorWidth = 0
	}
	separator := SeparatorStyle.Render(strings.Repeat("─", separatorWidth))

	return lipgloss.JoinVertical(lipgloss.Top, content, separator, statusBar)
}

func (a *App) viewList() string {
	switch {
	case a.window.Failed():
		return a.centered(lipgloss.JoinVertical(
			lipgloss.Center,
			ErrorMessageStyle.Render("✗ Failed to load conversations"),
			"",
			HelpStyle.Render("Is the server running? Press r to retry"),
		))
	case a.list.ItemCount() == 0 && a.window.Loading():
		return a.centered(HelpStyle.Render(MsgLoading))
	case a.list.ItemCount() == 0 && a.window.Mode() == paging.ModeSearch:
		return a.centered(HelpStyle.Render(MsgNoResults + " for “" + a.window.SearchQuery() + "”"))
	case a.list.ItemCount() == 0:
		return a.centered(GetWelcomeMessage())
	}
	return a.list.View()
}

func (a *App) viewDetail() string {
	if a.loadingDetail || a.detail == nil {
		return a.centered(HelpStyle.Render(MsgLoading))
	}

	header := HeaderStyle.Render("› " + truncateEnd(a.detail.Title, a.width-20))
	if len(a.detail.Versions) > 1 {
		header += TimeStyle.Render(fmt.Sprintf("  version %d/%d", a.detailVersion+1, len(a.detail.Versions)))
	}

	return lipgloss.JoinVertical(lipgloss.Top, header, a.detailView.View())
}

func (a *App) viewSearch() string {
	inputBorderColor := MutedColor
	if a.searchInput.Focused() {
		inputBorderColor = AccentColor
	}

	input := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(inputBorderColor).
		Padding(0, 1).
		Width(a.searchInput.Width + 4).
		Render(a.searchInput.View())

	return a.centered(lipgloss.JoinVertical(
		lipgloss.Center,
		HeaderStyle.Render("› search"),
		"",
		input,
		"",
		HelpStyle.Render("Enter: search • Esc: cancel"),
	))
}

func (a *App) viewFilter() string {
	renderField := func(label string, ti textinput.Model, focused bool) string {
		borderColor := MutedColor
		if focused {
			borderColor = AccentColor
		}
		field := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 1).
			Render(ti.View())
		return lipgloss.JoinVertical(lipgloss.Left, HelpStyle.Render(label), field)
	}

	return a.centered(lipgloss.JoinVertical(
		lipgloss.Center,
		HeaderStyle.Render("› filter by date"),
		"",
		renderField("from", a.filterStart, a.filterFocus == 0),
		"",
		renderField("to", a.filterEnd, a.filterFocus == 1),
		"",
		HelpStyle.Render("Tab: switch field • Enter: apply • Ctrl+x: clear • Esc: cancel"),
	))
}

func (a *App) centered(content string) string {
	return lipgloss.NewStyle().
		Width(a.width).
		Height(a.height - 3).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

func (a *App) statusBar() string {
	if a.err != nil {
		return StatusBarStyle.Width(a.width).Render(
			ErrorMessageStyle.Render(fmt.Sprintf("✗ %v", a.err)))
	}

	left := ""
	if a.status != "" {
		switch a.statusKind {
		case StatusSuccess:
			left = StatusSuccessStyle.Render(a.status)
		case StatusError:
			left = StatusErrorStyle.Render(a.status)
		default:
			left = StatusInfoStyle.Render(a.status)
		}
	}

	badges := a.modeBadges()
	help := strings.Join(a.keyHandler.GetHelpForCurrentView(), " • ")

	parts := make([]string, 0, 3)
	if left != "" {
		parts = append(parts, left)
	}
	if badges != "" {
		parts = append(parts, badges)
	}
	if help != "" {
		parts = append(parts, HelpStyle.Render(help))
	}

	return StatusBarStyle.Width(a.width).Render(strings.Join(parts, "  "))
}

// modeBadges surfaces the active search query and date filter so shared or
// restored state is always visible.
func (a *App) modeBadges() string {
	var parts []string
	if a.window.Mode() == paging.ModeSearch {
		parts = append(parts, HeaderStyle.Render("search: "+truncateEnd(a.window.SearchQuery(), 24)))
	}
	if f := a.window.Filter(); f.Enabled {
		span := f.Start + "→" + f.End
		parts = append(parts, TitleStyle.Render("⧖ "+span))
	}
	return strings.Join(parts, " ")
}
