package statistics

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ymatsuda/toukei/internal/categories"
	"github.com/ymatsuda/toukei/pkg/handlers"
	"github.com/ymatsuda/toukei/pkg/routes"
)

// Handler exposes the statistics tool surface over HTTP. Fetch and search
// failures are returned as result payloads with an error field, never as
// error statuses: the conversational consumer treats a failed tool call as
// a cue to try a different approach, not as a fault.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "statistics"),
	}
}

// Routes returns the route group definition for statistics endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/statistics",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/fetch", Handler: h.Fetch},
			{Method: "POST", Pattern: "/table", Handler: h.FetchTable},
			{Method: "GET", Pattern: "/search", Handler: h.Search},
		},
	}
}

// AreaRoutes returns the route group definition for area endpoints.
func (h *Handler) AreaRoutes() routes.Group {
	return routes.Group{
		Prefix: "/areas",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/info", Handler: h.Area},
		},
	}
}

// Fetch retrieves a category's statistics for an area with coverage fallback.
func (h *Handler) Fetch(w http.ResponseWriter, r *http.Request) {
	var cmd FetchCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.sys.FetchCategory(r.Context(), cmd)
	if err != nil {
		handlers.RespondJSON(w, http.StatusOK, fetchErrorPayload(cmd, err))
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// FetchTable retrieves one explicit table id for an area.
func (h *Handler) FetchTable(w http.ResponseWriter, r *http.Request) {
	var cmd TableCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.sys.FetchTable(r.Context(), cmd)
	if err != nil {
		handlers.RespondJSON(w, http.StatusOK, map[string]any{
			"error":         fmt.Sprintf("データ取得エラー: %v", err),
			"stats_data_id": cmd.StatsDataID,
			"area_code":     cmd.AreaCode,
		})
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Search performs a free-text search over the table catalog. A failed search
// yields an explicit error plus an empty table list.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("keyword")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	result, err := h.sys.Search(r.Context(), keyword, limit, offset)
	if err != nil {
		handlers.RespondJSON(w, http.StatusOK, map[string]any{
			"error":  fmt.Sprintf("統計表の検索エラー: %v", err),
			"tables": []TableDescriptor{},
		})
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Area returns basic information about an area.
func (h *Handler) Area(w http.ResponseWriter, r *http.Request) {
	info := h.sys.AreaInfo(
		r.URL.Query().Get("code"),
		r.URL.Query().Get("name"),
	)
	handlers.RespondJSON(w, http.StatusOK, info)
}

func fetchErrorPayload(cmd FetchCommand, err error) map[string]any {
	switch {
	case errors.Is(err, categories.ErrNotFound):
		return map[string]any{
			"error": fmt.Sprintf("カテゴリ '%s' が見つかりません", cmd.CategoryID),
		}
	case errors.Is(err, ErrBothLevelsFailed):
		return map[string]any{
			"error": fmt.Sprintf("データ取得エラー（市区町村・都道府県ともに失敗）: %v", err),
		}
	default:
		return map[string]any{
			"error": fmt.Sprintf("データ取得エラー: %v", err),
		}
	}
}
