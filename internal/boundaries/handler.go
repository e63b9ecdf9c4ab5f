package boundaries

import (
	"log/slog"
	"net/http"

	"github.com/ymatsuda/toukei/pkg/handlers"
	"github.com/ymatsuda/toukei/pkg/routes"
)

// Handler exposes boundary assembly over HTTP.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "boundaries"),
	}
}

// Routes returns the route group definition for boundary endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/boundaries",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/municipalities/{prefCode}", Handler: h.Municipalities},
		},
	}
}

// Municipalities returns the merged municipality boundaries of a prefecture.
func (h *Handler) Municipalities(w http.ResponseWriter, r *http.Request) {
	fc, err := h.sys.Municipalities(r.Context(), r.PathValue("prefCode"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, fc)
}
