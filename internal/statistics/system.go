package statistics

import (
	"context"
)

// System defines the tool surface exposed to the conversational layer.
type System interface {
	Handler() *Handler

	// FetchCategory retrieves a category's tables for an area, falling back
	// from municipality to prefecture level when necessary.
	FetchCategory(ctx context.Context, cmd FetchCommand) (*FetchResult, error)
	// FetchTable retrieves one explicit table id for an area, without
	// level fallback.
	FetchTable(ctx context.Context, cmd TableCommand) (*TableResult, error)
	// Search performs a free-text search over the upstream table catalog.
	Search(ctx context.Context, keyword string, limit, offset int) (*SearchResult, error)
	// AreaInfo returns basic information about an area.
	AreaInfo(code, name string) *AreaInfo
}

// FetchCommand identifies a category fetch: the category, the area the user
// asked about, and the prefecture that contains it (the fallback target).
type FetchCommand struct {
	CategoryID string `json:"category_id"`
	AreaCode   string `json:"area_code"`
	PrefCode   string `json:"pref_code"`
}

// TableCommand identifies an explicit table fetch.
type TableCommand struct {
	StatsDataID string `json:"stats_data_id"`
	AreaCode    string `json:"area_code"`
}
