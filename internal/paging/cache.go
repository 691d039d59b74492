package paging

import "sort"

// Cache holds the currently resident pages and the window bounds derived
// from them. It has a single owner (the Window) and a single mutation
// protocol: add, then evict. In steady state at most three pages are
// resident; a fourth exists only in the instant between AddPage and the
// eviction that follows it.
type Cache struct {
	pageSize   int
	totalPages int
	totalItems int
	pages      map[int][]Item
	minPage    int
	maxPage    int
}

// NewCache returns an empty cache with bounds at (1,1).
func NewCache(pageSize int) *Cache {
	return &Cache{
		pageSize: pageSize,
		pages:    make(map[int][]Item),
		minPage:  1,
		maxPage:  1,
	}
}

func (c *Cache) PageSize() int   { return c.pageSize }
func (c *Cache) TotalPages() int { return c.totalPages }
func (c *Cache) TotalItems() int { return c.totalItems }
func (c *Cache) MinLoaded() int  { return c.minPage }
func (c *Cache) MaxLoaded() int  { return c.maxPage }
func (c *Cache) Len() int        { return len(c.pages) }

// SetTotals overwrites the listing totals. They are global, not per source:
// every successful response replaces them.
func (c *Cache) SetTotals(totalPages, totalItems int) {
	c.totalPages = totalPages
	c.totalItems = totalItems
}

// HasPage reports whether page n is resident.
func (c *Cache) HasPage(n int) bool {
	_, ok := c.pages[n]
	return ok
}

// Items returns the items of a resident page, or nil.
func (c *Cache) Items(n int) []Item {
	return c.pages[n]
}

// LoadedPages returns the resident page numbers in ascending order.
func (c *Cache) LoadedPages() []int {
	out := make([]int, 0, len(c.pages))
	for n := range c.pages {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// AddPage records a fetched page and recomputes the window bounds.
func (c *Cache) AddPage(n int, items []Item) {
	c.pages[n] = items
	c.recomputeBounds()
}

// EvictExcept removes every resident page not in keep, recomputes the
// bounds, and returns the evicted page numbers in ascending order.
func (c *Cache) EvictExcept(keep map[int]bool) []int {
	var evicted []int
	for n := range c.pages {
		if !keep[n] {
			delete(c.pages, n)
			evicted = append(evicted, n)
		}
	}
	sort.Ints(evicted)
	c.recomputeBounds()
	return evicted
}

// Reset drops all pages and returns the bounds to (1,1). Totals are kept;
// the next response overwrites them anyway.
func (c *Cache) Reset() {
	c.pages = make(map[int][]Item)
	c.minPage = 1
	c.maxPage = 1
}

func (c *Cache) recomputeBounds() {
	if len(c.pages) == 0 {
		c.minPage = 1
		c.maxPage = 1
		return
	}
	first := true
	for n := range c.pages {
		if first {
			c.minPage = n
			c.maxPage = n
			first = false
			continue
		}
		if n < c.minPage {
			c.minPage = n
		}
		if n > c.maxPage {
			c.maxPage = n
		}
	}
}
