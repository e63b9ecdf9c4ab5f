// Package estat provides access to the e-Stat statistical data API: query
// construction, transport, and decoding of its coded tabular payloads into
// labeled records.
package estat

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
)

// FetchOptions carries the optional filters of a stats data request.
// Zero values are omitted from the query.
type FetchOptions struct {
	Cat01         string
	Time          string
	StartPosition int
	Limit         int
}

// Client issues getStatsData and getStatsList requests against e-Stat.
// Language and format parameters are fixed by this service; callers only
// control table, area, and filters.
type Client struct {
	http         *http.Client
	baseURL      string
	appKey       string
	fetchLimit   int
	searchLimit  int
	DecodeRowCap int
	logger       *slog.Logger
}

// NewClient creates a Client from the given configuration.
func NewClient(cfg *Config, logger *slog.Logger) *Client {
	return &Client{
		http:         &http.Client{Timeout: cfg.TimeoutDuration()},
		baseURL:      cfg.BaseURL,
		appKey:       cfg.AppKey,
		fetchLimit:   cfg.FetchLimit,
		searchLimit:  cfg.SearchLimit,
		DecodeRowCap: cfg.DecodeRowCap,
		logger:       logger.With("system", "estat"),
	}
}

// FetchStatsData retrieves one statistical table restricted to the given
// normalized area code. Returns TransportError when the exchange fails,
// UpstreamError when e-Stat rejects the query, and ErrNoData when the
// response carries no statistical data block.
func (c *Client) FetchStatsData(
	ctx context.Context,
	statsDataID string,
	areaCode string,
	opts *FetchOptions,
) (*StatisticalData, error) {
	params := url.Values{
		"appId":       {c.appKey},
		"statsDataId": {statsDataID},
		"cdArea":      {areaCode},
		"lang":        {"J"},
		"metaGetFlg":  {"Y"},
	}

	limit := c.fetchLimit
	if opts != nil {
		if opts.Cat01 != "" {
			params.Set("cdCat01", opts.Cat01)
		}
		if opts.Time != "" {
			params.Set("cdTime", opts.Time)
		}
		if opts.StartPosition > 0 {
			params.Set("startPosition", strconv.Itoa(opts.StartPosition))
		}
		if opts.Limit > 0 {
			limit = opts.Limit
		}
	}
	params.Set("limit", strconv.Itoa(limit))

	var envelope statsDataEnvelope
	if err := c.get(ctx, "getStatsData", params, &envelope); err != nil {
		return nil, err
	}

	result := envelope.GetStatsData.Result
	if result.Status != 0 {
		return nil, &UpstreamError{Status: result.Status, Message: result.ErrorMsg}
	}

	data := envelope.GetStatsData.StatisticalData
	if data == nil {
		return nil, fmt.Errorf("%w: table %s, area %s", ErrNoData, statsDataID, areaCode)
	}

	c.logger.Debug(
		"stats data fetched",
		"table", statsDataID,
		"area", areaCode,
		"rows", len(data.DataInf.Values),
		"total", data.ResultInf.TotalNumber,
	)

	return data, nil
}

// SearchTables performs a free-text search over the e-Stat table catalog.
// Returns TransportError or UpstreamError on failure; an empty result is not
// an error.
func (c *Client) SearchTables(ctx context.Context, keyword string, limit, offset int) (*TableList, error) {
	if limit <= 0 {
		limit = c.searchLimit
	}

	params := url.Values{
		"appId": {c.appKey},
		"lang":  {"J"},
		"limit": {strconv.Itoa(limit)},
	}
	if keyword != "" {
		params.Set("searchWord", keyword)
	}
	if offset > 0 {
		params.Set("startPosition", strconv.Itoa(offset))
	}

	var envelope statsListEnvelope
	if err := c.get(ctx, "getStatsList", params, &envelope); err != nil {
		return nil, err
	}

	result := envelope.GetStatsList.Result
	if result.Status != 0 {
		return nil, &UpstreamError{Status: result.Status, Message: result.ErrorMsg}
	}

	list := envelope.GetStatsList.DataListInf
	if list == nil {
		return &TableList{}, nil
	}

	return list, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	u := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &TransportError{Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &TransportError{Status: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}

	return nil
}
