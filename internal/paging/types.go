// Package paging implements the windowed bidirectional pagination engine
// behind the conversation list: a bounded cache of resident pages, a
// single-flight page loader, edge-proximity scroll triggers, eviction of
// pages that leave the window, and scroll-position preservation across
// prepends. The package is headless; the TUI plugs in through the Source,
// Renderer and Viewport ports.
package paging

import (
	"context"
	"time"
)

// Direction of a page load relative to the rendered window.
type Direction int

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// Edge returns the list edge where this load's affordances belong.
func (d Direction) Edge() Edge {
	if d == Backward {
		return EdgeTop
	}
	return EdgeBottom
}

// Edge identifies one end of the rendered list.
type Edge int

const (
	EdgeTop Edge = iota
	EdgeBottom
)

// Mode selects the active data source.
type Mode int

const (
	ModeListing Mode = iota
	ModeSearch
)

func (m Mode) String() string {
	if m == ModeSearch {
		return "search"
	}
	return "listing"
}

// Phase is the per-window load state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseErrorShown
)

// Item is one conversation summary as returned by the backend. Items are
// immutable once fetched and owned by the page that fetched them.
type Item struct {
	ID           string
	Title        string
	UpdatedAt    time.Time
	VersionCount int
	Snippets     []string // search mode only, at most 3
}

// PageResult is one backend page plus the listing totals that accompany it.
type PageResult struct {
	Items      []Item
	TotalPages int
	TotalItems int
}

// Source fetches one page from a backend listing. Implementations must be
// safe for use from the goroutine that performs the fetch.
type Source interface {
	FetchPage(ctx context.Context, page, pageSize int, query string, f Filter) (PageResult, error)
}

// Renderer is the rendering port. The engine never touches the visual tree
// directly; it appends, prepends and strips whole pages, each rendered item
// staying tagged with its owning page number. ShowError must leave already
// rendered content intact.
type Renderer interface {
	Append(page int, items []Item)
	Prepend(page int, items []Item)
	RemoveByPage(page int)
	Clear()
	SetLoading(edge Edge, active bool)
	ShowError(edge Edge, err error)
}

// Viewport exposes the scroll geometry of the rendered list. Heights and
// offsets are in rows.
type Viewport interface {
	ContentHeight() int
	ViewportHeight() int
	Offset() int
	SetOffset(offset int)
}
