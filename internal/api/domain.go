package api

import (
	"github.com/ymatsuda/toukei/internal/boundaries"
	"github.com/ymatsuda/toukei/internal/estat"
	"github.com/ymatsuda/toukei/internal/sessions"
	"github.com/ymatsuda/toukei/internal/skills"
	"github.com/ymatsuda/toukei/internal/statistics"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Statistics statistics.System
	Skills     skills.System
	Sessions   sessions.System
	Boundaries boundaries.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	client := estat.NewClient(runtime.EStat, runtime.Logger)

	statisticsSystem := statistics.New(client, runtime.Logger)

	skillsSystem := skills.New(
		runtime.Database.Connection(),
		runtime.Agent,
		runtime.Logger,
		runtime.Pagination,
	)

	sessionsSystem := sessions.New(
		runtime.Database.Connection(),
		runtime.Agent,
		runtime.Logger,
		runtime.Pagination,
	)

	boundariesSystem := boundaries.New(
		runtime.Boundaries,
		runtime.Storage,
		runtime.Logger,
	)

	return &Domain{
		Statistics: statisticsSystem,
		Skills:     skillsSystem,
		Sessions:   sessionsSystem,
		Boundaries: boundariesSystem,
	}
}
