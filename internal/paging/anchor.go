package paging

// Anchor preserves the scroll position across a prepend: measure the
// content height before insertion, re-measure after, and push the offset
// down by the difference so the row the user was looking at stays put.
// Appends need no correction since new content lands below the viewport.
type Anchor struct {
	before int
}

// Before records the content height prior to the prepend.
func (a *Anchor) Before(vp Viewport) {
	a.before = vp.ContentHeight()
}

// Adjust applies the height delta to the scroll offset.
func (a *Anchor) Adjust(vp Viewport) {
	delta := vp.ContentHeight() - a.before
	if delta <= 0 {
		return
	}
	vp.SetOffset(vp.Offset() + delta)
}
