package api

import (
	"context"
	"time"

	"github.com/quellen/murmur/internal/conversation"
	"github.com/quellen/murmur/internal/paging"
)

// ListingSource adapts the listing endpoint to the pagination engine.
type ListingSource struct {
	client *Client
}

// SearchSource adapts the search endpoint. The engine passes the active
// query along with every page request.
type SearchSource struct {
	client *Client
}

func NewListingSource(c *Client) *ListingSource { return &ListingSource{client: c} }
func NewSearchSource(c *Client) *SearchSource   { return &SearchSource{client: c} }

func toResult(env conversation.PageEnvelope) paging.PageResult {
	items := make([]paging.Item, 0, len(env.Items))
	for _, s := range env.Items {
		items = append(items, paging.Item{
			ID:           s.ConversationID,
			Title:        s.Title,
			UpdatedAt:    time.Unix(s.LatestTimestamp, 0),
			VersionCount: s.VersionCount,
			Snippets:     s.MatchSnippets,
		})
	}
	return paging.PageResult{
		Items:      items,
		TotalPages: env.Pagination.TotalPages,
		TotalItems: env.Pagination.TotalItems,
	}
}

func (s *ListingSource) FetchPage(ctx context.Context, page, pageSize int, _ string, f paging.Filter) (paging.PageResult, error) {
	env, err := s.client.ListConversations(ctx, page, pageSize, f)
	if err != nil {
		return paging.PageResult{}, err
	}
	return toResult(env), nil
}

func (s *SearchSource) FetchPage(ctx context.Context, page, pageSize int, query string, f paging.Filter) (paging.PageResult, error) {
	env, err := s.client.SearchConversations(ctx, query, page, pageSize, f)
	if err != nil {
		return paging.PageResult{}, err
	}
	return toResult(env), nil
}
