package api

import (
	"github.com/ymatsuda/toukei/internal/boundaries"
	"github.com/ymatsuda/toukei/internal/config"
	"github.com/ymatsuda/toukei/internal/estat"
	"github.com/ymatsuda/toukei/internal/infrastructure"
	"github.com/ymatsuda/toukei/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	EStat      *estat.Config
	Boundaries *boundaries.Config
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Agent:     cfg.Agent.ToAgent(),
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
		},
		Pagination: cfg.API.Pagination,
		EStat:      &cfg.EStat,
		Boundaries: &cfg.Boundaries,
	}
}
