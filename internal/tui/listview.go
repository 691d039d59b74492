package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/quellen/murmur/internal/paging"
)

type pageBlock struct {
	page  int
	items []paging.Item
}

// ListView renders the scrollable conversation list. It implements the
// pagination engine's Renderer and Viewport ports: pages arrive and leave
// as whole blocks, every rendered row stays owned by its page, and the
// scroll offset is exposed in rows so prepends and evictions can be
// anchored without visual jumps.
type ListView struct {
	vp     viewport.Model
	blocks []pageBlock

	loadingTop    bool
	loadingBottom bool
	errTop        string
	errBottom     string

	selected int // index into the flattened item list
	width    int
}

func NewListView() *ListView {
	return &ListView{vp: viewport.New(0, 0)}
}

func (l *ListView) SetSize(width, height int) {
	l.width = width
	l.vp.Width = width
	l.vp.Height = height
	l.refresh()
}

// Renderer port

func (l *ListView) Append(page int, items []paging.Item) {
	l.errTop, l.errBottom = "", ""
	l.blocks = append(l.blocks, pageBlock{page: page, items: items})
	l.refresh()
}

func (l *ListView) Prepend(page int, items []paging.Item) {
	l.errTop, l.errBottom = "", ""
	l.blocks = append([]pageBlock{{page: page, items: items}}, l.blocks...)
	l.selected += len(items)
	l.refresh()
}

func (l *ListView) RemoveByPage(page int) {
	offset := l.vp.YOffset
	rows := 0
	if l.loadingTop {
		rows++
	}

	kept := l.blocks[:0]
	itemsBefore := 0
	for _, b := range l.blocks {
		if b.page != page {
			for _, it := range b.items {
				rows += l.itemHeight(it)
			}
			itemsBefore += len(b.items)
			kept = append(kept, b)
			continue
		}
		removed := 0
		for _, it := range b.items {
			removed += l.itemHeight(it)
		}
		// Rows above the current offset disappear with the block; shift the
		// offset so the visible content does not jump.
		if rows < offset {
			offset -= min(removed, offset-rows)
		}
		if itemsBefore < l.selected {
			l.selected -= min(len(b.items), l.selected-itemsBefore)
		}
	}
	l.blocks = kept
	l.refresh()
	l.SetOffset(offset)
}

func (l *ListView) Clear() {
	l.blocks = nil
	l.selected = 0
	l.errTop, l.errBottom = "", ""
	l.loadingTop, l.loadingBottom = false, false
	l.refresh()
	l.vp.SetYOffset(0)
}

func (l *ListView) SetLoading(edge paging.Edge, active bool) {
	if active {
		l.errTop, l.errBottom = "", ""
	}
	if edge == paging.EdgeTop {
		l.loadingTop = active
	} else {
		l.loadingBottom = active
	}
	l.refresh()
}

func (l *ListView) ShowError(edge paging.Edge, err error) {
	msg := ErrorMessageStyle.Render("✗ " + err.Error())
	if edge == paging.EdgeTop {
		l.errTop = msg
	} else {
		l.errBottom = msg
	}
	l.refresh()
}

// Viewport port

func (l *ListView) ContentHeight() int {
	h := 0
	if l.loadingTop {
		h++
	}
	if l.errTop != "" {
		h++
	}
	for _, b := range l.blocks {
		for _, it := range b.items {
			h += l.itemHeight(it)
		}
	}
	if l.loadingBottom {
		h++
	}
	if l.errBottom != "" {
		h++
	}
	return h
}

func (l *ListView) ViewportHeight() int { return l.vp.Height }
func (l *ListView) Offset() int         { return l.vp.YOffset }

func (l *ListView) SetOffset(offset int) {
	max := l.ContentHeight() - l.vp.Height
	if max < 0 {
		max = 0
	}
	if offset > max {
		offset = max
	}
	if offset < 0 {
		offset = 0
	}
	l.vp.SetYOffset(offset)
}

// Cursor

// Items returns the flattened resident items in render order.
func (l *ListView) Items() []paging.Item {
	var items []paging.Item
	for _, b := range l.blocks {
		items = append(items, b.items...)
	}
	return items
}

func (l *ListView) ItemCount() int {
	n := 0
	for _, b := range l.blocks {
		n += len(b.items)
	}
	return n
}

// Selected returns the item under the cursor.
func (l *ListView) Selected() (paging.Item, bool) {
	idx := l.selected
	for _, b := range l.blocks {
		if idx < len(b.items) {
			return b.items[idx], true
		}
		idx -= len(b.items)
	}
	return paging.Item{}, false
}

func (l *ListView) CursorUp()   { l.moveCursor(-1) }
func (l *ListView) CursorDown() { l.moveCursor(1) }

// PageUp and PageDown move the cursor by one viewport height worth of items.
func (l *ListView) PageUp()   { l.moveCursor(-l.cursorStride()) }
func (l *ListView) PageDown() { l.moveCursor(l.cursorStride()) }

func (l *ListView) cursorStride() int {
	stride := l.vp.Height / 2
	if stride < 1 {
		stride = 1
	}
	return stride
}

func (l *ListView) moveCursor(delta int) {
	count := l.ItemCount()
	if count == 0 {
		return
	}
	l.selected += delta
	if l.selected < 0 {
		l.selected = 0
	}
	if l.selected >= count {
		l.selected = count - 1
	}
	l.refresh()
	l.ensureVisible()
}

func (l *ListView) ensureVisible() {
	row := l.cursorRow()
	if row < l.vp.YOffset {
		l.SetOffset(row)
	} else if row >= l.vp.YOffset+l.vp.Height {
		l.SetOffset(row - l.vp.Height + 1)
	}
}

// cursorRow returns the first rendered row of the selected item.
func (l *ListView) cursorRow() int {
	row := 0
	if l.loadingTop {
		row++
	}
	if l.errTop != "" {
		row++
	}
	idx := l.selected
	for _, b := range l.blocks {
		for _, it := range b.items {
			if idx == 0 {
				return row
			}
			idx--
			row += l.itemHeight(it)
		}
	}
	return row
}

// Rendering

func (l *ListView) itemHeight(it paging.Item) int {
	return 1 + len(it.Snippets)
}

func (l *ListView) renderItem(it paging.Item, selected bool) []string {
	w := l.width
	if w <= 0 {
		w = 80
	}

	meta := fmt.Sprintf("%s • %d", it.UpdatedAt.Format("Jan 2 15:04"), it.VersionCount)
	title := truncateEnd(it.Title, w-lipgloss.Width(meta)-4)

	var head string
	if selected {
		head = SelectedItemStyle.Render("› "+title) + " " + TimeStyle.Render(meta)
	} else {
		head = ItemTitleStyle.Render("  "+title) + " " + TimeStyle.Render(meta)
	}

	rows := []string{head}
	for _, sn := range it.Snippets {
		rows = append(rows, SnippetStyle.Render("    "+truncateEnd(plainSnippet(sn), w-6)))
	}
	return rows
}

func (l *ListView) refresh() {
	var rows []string
	if l.loadingTop {
		rows = append(rows, HelpStyle.Render("  "+MsgLoading))
	}
	if l.errTop != "" {
		rows = append(rows, l.errTop)
	}

	idx := 0
	for _, b := range l.blocks {
		for _, it := range b.items {
			rows = append(rows, l.renderItem(it, idx == l.selected)...)
			idx++
		}
	}

	if l.loadingBottom {
		rows = append(rows, HelpStyle.Render("  "+MsgLoading))
	}
	if l.errBottom != "" {
		rows = append(rows, l.errBottom)
	}

	l.vp.SetContent(strings.Join(rows, "\n"))
}

func (l *ListView) View() string {
	return l.vp.View()
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
