// Package index holds the server-side conversation catalog: a sorted
// in-memory listing for paging plus a bleve full-text index over the
// transcripts.
package index

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveQuery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/quellen/murmur/internal/conversation"
	"github.com/quellen/murmur/internal/debuglog"
	"github.com/quellen/murmur/internal/recording"
)

// ErrSyncRunning reports that a rescan is already in flight. The caller
// simply waits for that one to land.
var ErrSyncRunning = errors.New("index sync already running")

const maxSnippets = 3

// Index is safe for concurrent readers and one syncing writer.
type Index struct {
	scanner *recording.Scanner

	mu    sync.RWMutex
	convs map[string]conversation.Conversation
	order []conversation.Summary // newest first
	audio map[string]string      // conversationID/versionID -> file path
	idx   bleve.Index

	syncing atomic.Bool
}

func New(scanner *recording.Scanner) (*Index, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("creating search index: %w", err)
	}
	return &Index{
		scanner: scanner,
		convs:   map[string]conversation.Conversation{},
		audio:   map[string]string{},
		idx:     idx,
	}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = standard.Name

	dm := bleve.NewDocumentMapping()

	title := bleve.NewTextFieldMapping()
	title.Analyzer = standard.Name
	title.Store = true
	title.IncludeTermVectors = true

	// Stored with term vectors so hits can carry highlighted fragments.
	transcript := bleve.NewTextFieldMapping()
	transcript.Analyzer = standard.Name
	transcript.Store = true
	transcript.IncludeTermVectors = true

	timestamp := bleve.NewNumericFieldMapping()
	timestamp.Store = false

	dm.AddFieldMappingsAt("title", title)
	dm.AddFieldMappingsAt("transcript", transcript)
	dm.AddFieldMappingsAt("timestamp", timestamp)

	im.DefaultMapping = dm
	return im
}

// Sync rescans the recordings directory and swaps in the fresh catalog.
// Only one sync runs at a time; concurrent calls get ErrSyncRunning.
func (ix *Index) Sync() error {
	if !ix.syncing.CompareAndSwap(false, true) {
		return ErrSyncRunning
	}
	defer ix.syncing.Store(false)

	recs, err := ix.scanner.Scan()
	if err != nil {
		return err
	}
	convs := recording.Group(recs)

	audioByRec := make(map[string]string, len(recs))
	for _, rec := range recs {
		if rec.AudioPath != "" {
			audioByRec[rec.ID] = rec.AudioPath
		}
	}
	audio := make(map[string]string, len(audioByRec))
	for _, c := range convs {
		for _, v := range c.Versions {
			if p, ok := audioByRec[v.VersionID]; ok {
				audio[c.ConversationID+"/"+v.VersionID] = p
			}
		}
	}

	byID := make(map[string]conversation.Conversation, len(convs))
	order := make([]conversation.Summary, 0, len(convs))
	batch := ix.idx.NewBatch()
	for _, c := range convs {
		byID[c.ConversationID] = c
		order = append(order, c.Summarize())

		var transcripts []string
		for _, v := range c.Versions {
			if text := v.BestTranscript(); text != "" {
				transcripts = append(transcripts, text)
			}
		}
		batch.Index(c.ConversationID, map[string]any{
			"title":      c.Title,
			"transcript": strings.Join(transcripts, "\n"),
			"timestamp":  float64(c.UpdatedAt.Unix()),
		})
	}

	// Drop documents for conversations that disappeared from disk.
	ix.mu.RLock()
	for id := range ix.convs {
		if _, still := byID[id]; !still {
			batch.Delete(id)
		}
	}
	ix.mu.RUnlock()

	if err := ix.idx.Batch(batch); err != nil {
		return fmt.Errorf("indexing conversations: %w", err)
	}

	ix.mu.Lock()
	ix.convs = byID
	ix.order = order
	ix.audio = audio
	ix.mu.Unlock()

	debuglog.Infof("Index sync complete: %d conversations from %d recordings", len(convs), len(recs))
	return nil
}

// SyncAsync kicks off a background sync unless one is already running.
func (ix *Index) SyncAsync() {
	go func() {
		if err := ix.Sync(); err != nil && !errors.Is(err, ErrSyncRunning) {
			debuglog.Errorf("Background index sync: %v", err)
		}
	}()
}

// Syncing reports whether a rescan is in flight.
func (ix *Index) Syncing() bool { return ix.syncing.Load() }

// Close releases the search index.
func (ix *Index) Close() error { return ix.idx.Close() }

func inRange(ts int64, start, end *int64) bool {
	if start != nil && ts < *start {
		return false
	}
	if end != nil && ts > *end {
		return false
	}
	return true
}

func paginate(total, page, pageSize int) (lo, hi int, pg conversation.Pagination) {
	pg.TotalItems = total
	pg.TotalPages = (total + pageSize - 1) / pageSize
	lo = (page - 1) * pageSize
	if lo > total {
		lo = total
	}
	hi = lo + pageSize
	if hi > total {
		hi = total
	}
	return lo, hi, pg
}

// List returns one page of the catalog, newest first, optionally bounded
// by epoch seconds.
func (ix *Index) List(page, pageSize int, start, end *int64) conversation.PageEnvelope {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	filtered := ix.order
	if start != nil || end != nil {
		filtered = make([]conversation.Summary, 0, len(ix.order))
		for _, s := range ix.order {
			if inRange(s.LatestTimestamp, start, end) {
				filtered = append(filtered, s)
			}
		}
	}

	lo, hi, pg := paginate(len(filtered), page, pageSize)
	return conversation.PageEnvelope{
		Items:      append([]conversation.Summary{}, filtered[lo:hi]...),
		Pagination: pg,
	}
}

// Search runs a full-text query over titles and transcripts and returns
// one page of matches, best first, each with up to three highlighted
// snippets.
func (ix *Index) Search(query string, page, pageSize int, start, end *int64) (conversation.PageEnvelope, error) {
	var env conversation.PageEnvelope
	if strings.TrimSpace(query) == "" {
		return env, nil
	}

	var qs []bleveQuery.Query
	for _, tok := range strings.Fields(query) {
		qt := bleve.NewMatchQuery(tok)
		qt.SetField("title")
		qt.SetBoost(3.0)
		qs = append(qs, qt)

		qtp := bleve.NewPrefixQuery(strings.ToLower(tok))
		qtp.SetField("title")
		qtp.SetBoost(2.5)
		qs = append(qs, qtp)

		qc := bleve.NewMatchQuery(tok)
		qc.SetField("transcript")
		qc.SetBoost(1.0)
		qs = append(qs, qc)

		qcp := bleve.NewPrefixQuery(strings.ToLower(tok))
		qcp.SetField("transcript")
		qcp.SetBoost(0.8)
		qs = append(qs, qcp)
	}

	var q bleveQuery.Query = bleve.NewDisjunctionQuery(qs...)
	if start != nil || end != nil {
		var min, max *float64
		if start != nil {
			f := float64(*start)
			min = &f
		}
		if end != nil {
			// Inclusive upper bound.
			f := float64(*end) + 1
			max = &f
		}
		rng := bleve.NewNumericRangeQuery(min, max)
		rng.SetField("timestamp")
		q = bleve.NewConjunctionQuery(q, rng)
	}

	srch := bleve.NewSearchRequestOptions(q, pageSize, (page-1)*pageSize, false)
	srch.Fields = []string{"title"}
	srch.Highlight = bleve.NewHighlight()
	srch.Highlight.AddField("transcript")

	res, err := ix.idx.Search(srch)
	if err != nil {
		return env, fmt.Errorf("searching: %w", err)
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	env.Items = make([]conversation.Summary, 0, len(res.Hits))
	for _, h := range res.Hits {
		c, ok := ix.convs[h.ID]
		if !ok {
			continue
		}
		s := c.Summarize()
		if frags, ok := h.Fragments["transcript"]; ok {
			n := len(frags)
			if n > maxSnippets {
				n = maxSnippets
			}
			s.MatchSnippets = frags[:n]
		}
		env.Items = append(env.Items, s)
	}

	total := int(res.Total)
	_, _, env.Pagination = paginate(total, page, pageSize)
	return env, nil
}

// Get returns the full conversation record.
func (ix *Index) Get(id string) (conversation.Conversation, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	c, ok := ix.convs[id]
	return c, ok
}

// AudioPath resolves a version's audio file on disk.
func (ix *Index) AudioPath(conversationID, versionID string) (string, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	p, ok := ix.audio[conversationID+"/"+versionID]
	return p, ok
}
