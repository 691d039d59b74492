package paging

// Debouncer coalesces a burst of scroll events into a single evaluation.
// Every event arms a new token; only the token still current when the
// quiescence timer fires wins. The timer itself lives with the caller (the
// TUI uses a tea.Tick), which keeps this deterministic under test.
type Debouncer struct {
	seq uint64
}

// Arm invalidates any pending token and returns a fresh one.
func (d *Debouncer) Arm() uint64 {
	d.seq++
	return d.seq
}

// Fire reports whether the token is still the latest, i.e. no further
// scroll event arrived during the quiescence window.
func (d *Debouncer) Fire(token uint64) bool {
	return token == d.seq
}

// Trigger is a page load the sentinel wants performed.
type Trigger struct {
	Page int
	Dir  Direction
}

// Evaluate inspects the scroll position and decides whether the window
// should grow at either edge. Skipped entirely while a load is in flight;
// forward growth is bounded by the total page count, backward growth by
// page 1. Both edges may trigger from one evaluation; the loader's
// single-flight guard means only the first will run, and the other edge is
// served by a later evaluation.
func (w *Window) Evaluate() []Trigger {
	if w.loading {
		return nil
	}

	var out []Trigger

	bottom := w.view.ContentHeight() - (w.view.Offset() + w.view.ViewportHeight())
	if bottom < w.cfg.EdgeThreshold && w.cache.MaxLoaded() < w.cache.TotalPages() {
		out = append(out, Trigger{Page: w.cache.MaxLoaded() + 1, Dir: Forward})
	}

	if w.view.Offset() < w.cfg.EdgeThreshold && w.cache.MinLoaded() > 1 {
		out = append(out, Trigger{Page: w.cache.MinLoaded() - 1, Dir: Backward})
	}

	return out
}
