package statistics_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ymatsuda/toukei/internal/categories"
	"github.com/ymatsuda/toukei/internal/statistics"
)

// stubSystem lets handler tests script each operation independently.
type stubSystem struct {
	fetchCategory func(ctx context.Context, cmd statistics.FetchCommand) (*statistics.FetchResult, error)
	fetchTable    func(ctx context.Context, cmd statistics.TableCommand) (*statistics.TableResult, error)
	search        func(ctx context.Context, keyword string, limit, offset int) (*statistics.SearchResult, error)
}

func (s *stubSystem) Handler() *statistics.Handler {
	return statistics.NewHandler(s, discardLogger())
}

func (s *stubSystem) FetchCategory(ctx context.Context, cmd statistics.FetchCommand) (*statistics.FetchResult, error) {
	return s.fetchCategory(ctx, cmd)
}

func (s *stubSystem) FetchTable(ctx context.Context, cmd statistics.TableCommand) (*statistics.TableResult, error) {
	return s.fetchTable(ctx, cmd)
}

func (s *stubSystem) Search(ctx context.Context, keyword string, limit, offset int) (*statistics.SearchResult, error) {
	return s.search(ctx, keyword, limit, offset)
}

func (s *stubSystem) AreaInfo(code, name string) *statistics.AreaInfo {
	return &statistics.AreaInfo{AreaCode: code, AreaName: name, Note: "note"}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func TestFetchUnknownCategoryIsSoftError(t *testing.T) {
	sys := &stubSystem{
		fetchCategory: func(ctx context.Context, cmd statistics.FetchCommand) (*statistics.FetchResult, error) {
			return nil, fmt.Errorf("%w: %q", categories.ErrNotFound, cmd.CategoryID)
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/statistics/fetch",
		strings.NewReader(`{"category_id": "weather", "area_code": "13101", "pref_code": "13"}`))
	rec := httptest.NewRecorder()
	sys.Handler().Fetch(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (tool errors are payloads)", rec.Code)
	}
	body := decodeBody(t, rec)
	msg, _ := body["error"].(string)
	if !strings.Contains(msg, "weather") || !strings.Contains(msg, "見つかりません") {
		t.Errorf("error = %q, want category-not-found message naming weather", msg)
	}
}

func TestFetchBothLevelsFailedIsSoftError(t *testing.T) {
	sys := &stubSystem{
		fetchCategory: func(ctx context.Context, cmd statistics.FetchCommand) (*statistics.FetchResult, error) {
			return nil, fmt.Errorf("%w: municipality=boom, prefecture=boom", statistics.ErrBothLevelsFailed)
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/statistics/fetch",
		strings.NewReader(`{"category_id": "population", "area_code": "13101", "pref_code": "13"}`))
	rec := httptest.NewRecorder()
	sys.Handler().Fetch(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	msg, _ := decodeBody(t, rec)["error"].(string)
	if !strings.Contains(msg, "市区町村・都道府県ともに失敗") {
		t.Errorf("error = %q, want combined-failure message", msg)
	}
}

func TestFetchMalformedBodyIsBadRequest(t *testing.T) {
	sys := &stubSystem{
		fetchCategory: func(ctx context.Context, cmd statistics.FetchCommand) (*statistics.FetchResult, error) {
			t.Error("system must not be called on a malformed body")
			return nil, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/statistics/fetch", strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()
	sys.Handler().Fetch(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 (malformed request is a caller fault)", rec.Code)
	}
}

func TestFetchTableErrorPayload(t *testing.T) {
	sys := &stubSystem{
		fetchTable: func(ctx context.Context, cmd statistics.TableCommand) (*statistics.TableResult, error) {
			return nil, fmt.Errorf("upstream down")
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/statistics/table",
		strings.NewReader(`{"stats_data_id": "0003448299", "area_code": "13101"}`))
	rec := httptest.NewRecorder()
	sys.Handler().FetchTable(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	if msg, _ := body["error"].(string); !strings.Contains(msg, "データ取得エラー") {
		t.Errorf("error = %q, want fetch error message", msg)
	}
	if body["stats_data_id"] != "0003448299" {
		t.Errorf("stats_data_id = %v, want echoed back", body["stats_data_id"])
	}
	if body["area_code"] != "13101" {
		t.Errorf("area_code = %v, want echoed back", body["area_code"])
	}
}

func TestSearchErrorPayloadKeepsEmptyTables(t *testing.T) {
	sys := &stubSystem{
		search: func(ctx context.Context, keyword string, limit, offset int) (*statistics.SearchResult, error) {
			return nil, fmt.Errorf("upstream down")
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/statistics/search?keyword=人口", nil)
	rec := httptest.NewRecorder()
	sys.Handler().Search(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	if msg, _ := body["error"].(string); !strings.Contains(msg, "統計表の検索エラー") {
		t.Errorf("error = %q, want search error message", msg)
	}
	tables, ok := body["tables"].([]any)
	if !ok || len(tables) != 0 {
		t.Errorf("tables = %v, want empty list", body["tables"])
	}
}

func TestSearchQueryParams(t *testing.T) {
	var gotKeyword string
	var gotLimit, gotOffset int
	sys := &stubSystem{
		search: func(ctx context.Context, keyword string, limit, offset int) (*statistics.SearchResult, error) {
			gotKeyword, gotLimit, gotOffset = keyword, limit, offset
			return &statistics.SearchResult{Tables: []statistics.TableDescriptor{}}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/statistics/search?keyword=商業&limit=5&offset=10", nil)
	rec := httptest.NewRecorder()
	sys.Handler().Search(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotKeyword != "商業" || gotLimit != 5 || gotOffset != 10 {
		t.Errorf("search called with (%q, %d, %d), want (商業, 5, 10)", gotKeyword, gotLimit, gotOffset)
	}
}

func TestAreaEndpoint(t *testing.T) {
	sys := &stubSystem{}

	req := httptest.NewRequest(http.MethodGet, "/areas/info?code=13101&name=千代田区", nil)
	rec := httptest.NewRecorder()
	sys.Handler().Area(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["area_code"] != "13101" || body["area_name"] != "千代田区" {
		t.Errorf("body = %v, want code and name echoed", body)
	}
}
