package api

import (
	"net/http"

	"github.com/ymatsuda/toukei/internal/categories"
	"github.com/ymatsuda/toukei/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	runtime *Runtime,
) {
	statisticsHandler := domain.Statistics.Handler()

	routes.Register(
		mux,
		statisticsHandler.Routes(),
		statisticsHandler.AreaRoutes(),
		categories.NewHandler(runtime.Logger).Routes(),
		domain.Skills.Handler().Routes(),
		domain.Sessions.Handler().Routes(),
		domain.Boundaries.Handler().Routes(),
	)
}
