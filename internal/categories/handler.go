package categories

import (
	"log/slog"
	"net/http"

	"github.com/ymatsuda/toukei/pkg/handlers"
	"github.com/ymatsuda/toukei/pkg/routes"
)

// Handler exposes the category catalog over HTTP.
type Handler struct {
	logger *slog.Logger
}

// NewHandler creates a Handler with the given logger.
func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{
		logger: logger.With("handler", "categories"),
	}
}

// Routes returns the route group definition for category endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/categories",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
		},
	}
}

// List returns every category in the catalog.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, List())
}

// Find returns a single category by id.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	category, err := GetByID(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusNotFound, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, category)
}
