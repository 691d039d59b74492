package paging

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/quellen/murmur/internal/debuglog"
)

// Config tunes a Window.
type Config struct {
	// PageSize is the fixed backend page size.
	PageSize int
	// EdgeThreshold is the distance (rows) from a list edge below which the
	// sentinel requests another page.
	EdgeThreshold int
}

// LoadRequest describes one page fetch. It snapshots the mode, query and
// filter active when the load started, plus the context version, so a
// response arriving after a reset can be recognized as stale and dropped.
type LoadRequest struct {
	Page      int
	Dir       Direction
	Mode      Mode
	Query     string
	Filter    Filter
	PageSize  int
	version   uint64
	fromReset bool
}

// Window is the pagination context: one scrollable list, its cache, its two
// sources and its current mode and filter. All state lives here and every
// operation goes through it; nothing else mutates the cache.
//
// Loading is split-phase to fit an event-loop runtime: StartLoad claims the
// single in-flight slot and returns a request, the caller performs Fetch
// wherever it likes, and FinishLoad applies the outcome. The loading flag is
// set before any I/O and cleared unconditionally when the owning request
// finishes, so no two loads of the same context ever overlap.
type Window struct {
	cfg      Config
	cache    *Cache
	renderer Renderer
	view     Viewport
	listing  Source
	search   Source

	mode    Mode
	query   string
	filter  Filter
	loading bool
	phase   Phase
	version uint64
}

// NewWindow wires a window from its two sources and its ports.
func NewWindow(listing, search Source, r Renderer, vp Viewport, cfg Config) *Window {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 30
	}
	if cfg.EdgeThreshold <= 0 {
		cfg.EdgeThreshold = 10
	}
	return &Window{
		cfg:      cfg,
		cache:    NewCache(cfg.PageSize),
		renderer: r,
		view:     vp,
		listing:  listing,
		search:   search,
	}
}

func (w *Window) Cache() *Cache     { return w.cache }
func (w *Window) Mode() Mode        { return w.mode }
func (w *Window) SearchQuery() string { return w.query }
func (w *Window) Filter() Filter    { return w.filter }
func (w *Window) Loading() bool     { return w.loading }
func (w *Window) Phase() Phase      { return w.phase }

// Failed reports the explicit failed-to-load state: a reset load erred and
// nothing is rendered. Distinct from an empty result set.
func (w *Window) Failed() bool {
	return w.phase == PhaseErrorShown && w.cache.Len() == 0
}

// Init restores query and filter from shared address parameters and returns
// the implicit first load. Always non-nil: a fresh window has nothing
// resident and nothing in flight.
func (w *Window) Init(values url.Values) *LoadRequest {
	query, filter := DecodeQuery(values)
	w.query = strings.TrimSpace(query)
	if w.query != "" {
		w.mode = ModeSearch
	}
	if filter.Validate() == nil {
		w.filter = filter
	}
	req := w.StartLoad(1, Forward)
	if req != nil {
		req.fromReset = true
	}
	return req
}

// StartLoad claims the in-flight slot for page n. It is a no-op (nil) while
// another load is in flight, when the page is already resident, or when n
// is out of range.
func (w *Window) StartLoad(n int, dir Direction) *LoadRequest {
	if w.loading || n < 1 || w.cache.HasPage(n) {
		return nil
	}
	w.loading = true
	w.phase = PhaseLoading
	w.renderer.SetLoading(dir.Edge(), true)
	return &LoadRequest{
		Page:     n,
		Dir:      dir,
		Mode:     w.mode,
		Query:    w.query,
		Filter:   w.filter,
		PageSize: w.cfg.PageSize,
		version:  w.version,
	}
}

// Fetch performs the backend call for a request. It reads only the
// request's own snapshot, so it may run on another goroutine while the
// window keeps handling events.
func (w *Window) Fetch(ctx context.Context, req *LoadRequest) (PageResult, error) {
	src := w.listing
	if req.Mode == ModeSearch {
		src = w.search
	}
	return src.FetchPage(ctx, req.Page, req.PageSize, req.Query, req.Filter)
}

// FinishLoad applies the outcome of a request. Responses issued before the
// most recent reset no longer own the loading flag and are discarded.
//
// On success: totals, cache, render (with scroll anchoring for prepends),
// then eviction around the loaded page. On failure: the page stays absent,
// so the same trigger retries it later; rendered content is left intact.
func (w *Window) FinishLoad(req *LoadRequest, res PageResult, err error) {
	if req.version != w.version {
		debuglog.Debugf("dropping stale page %d response (%s)", req.Page, req.Mode)
		return
	}

	w.renderer.SetLoading(req.Dir.Edge(), false)
	w.loading = false

	if err != nil {
		debuglog.Errorf("loading page %d (%s): %v", req.Page, req.Mode, err)
		w.renderer.ShowError(req.Dir.Edge(), fmt.Errorf("loading page %d: %w", req.Page, err))
		w.phase = PhaseErrorShown
		return
	}

	w.cache.SetTotals(res.TotalPages, res.TotalItems)
	w.cache.AddPage(req.Page, res.Items)

	if req.Dir == Backward {
		var a Anchor
		a.Before(w.view)
		w.renderer.Prepend(req.Page, res.Items)
		a.Adjust(w.view)
	} else {
		w.renderer.Append(req.Page, res.Items)
	}

	w.evictAround(req.Page)
	w.phase = PhaseIdle
}

// evictAround strips every resident page more than two steps from the one
// just loaded, clamped to the known page range. Loads always extend the
// window by one, so the page the reader is on trails the loaded edge by
// one; this keeps that page plus one neighbor either side resident and
// bounds the window to three pages in steady state.
func (w *Window) evictAround(n int) {
	keep := make(map[int]bool, 5)
	for p := n - 2; p <= n+2; p++ {
		if p >= 1 && (w.cache.TotalPages() == 0 || p <= w.cache.TotalPages()) {
			keep[p] = true
		}
	}
	for _, page := range w.cache.EvictExcept(keep) {
		w.renderer.RemoveByPage(page)
	}
}

// reset invalidates the whole window: rendered list cleared, cache reset,
// context version bumped so in-flight responses are dropped, then page 1 of
// the now-active source is loaded.
func (w *Window) reset() *LoadRequest {
	w.version++
	w.loading = false
	w.phase = PhaseIdle
	w.renderer.Clear()
	w.cache.Reset()
	req := w.StartLoad(1, Forward)
	if req != nil {
		req.fromReset = true
	}
	return req
}

// Reload discards everything resident and reloads the current view with
// its mode, query and filter intact.
func (w *Window) Reload() *LoadRequest {
	return w.reset()
}

// SetSearch switches to search mode with the given query. Submitting the
// empty string falls back to the listing.
func (w *Window) SetSearch(query string) *LoadRequest {
	query = strings.TrimSpace(query)
	if query == "" {
		return w.ClearSearch()
	}
	w.mode = ModeSearch
	w.query = query
	return w.reset()
}

// ClearSearch returns to the plain listing.
func (w *Window) ClearSearch() *LoadRequest {
	w.mode = ModeListing
	w.query = ""
	return w.reset()
}

// ApplyFilter validates and applies a date range, resetting the window.
func (w *Window) ApplyFilter(f Filter) (*LoadRequest, error) {
	f.Enabled = true
	if err := f.Validate(); err != nil {
		return nil, err
	}
	w.filter = f
	return w.reset(), nil
}

// ClearFilter removes the date range, resetting the window.
func (w *Window) ClearFilter() *LoadRequest {
	w.filter = Filter{}
	return w.reset()
}

// QueryValues returns the shareable address parameters for the current
// query and filter state.
func (w *Window) QueryValues() url.Values {
	return EncodeQuery(w.mode, w.query, w.filter)
}

// ShareLink renders the current view state as a URL on the given base.
func (w *Window) ShareLink(base string) string {
	v := w.QueryValues()
	if len(v) == 0 {
		return base
	}
	return base + "?" + v.Encode()
}
