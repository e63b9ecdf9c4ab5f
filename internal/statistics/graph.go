package statistics

import (
	"context"
	"fmt"
	"slices"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/ymatsuda/toukei/internal/categories"
	"github.com/ymatsuda/toukei/internal/estat"
)

// State keys for the coverage fallback graph.
const (
	KeyCategory       = "category"
	KeyAreaCode       = "area_code"
	KeyPrefCode       = "pref_code"
	KeyRequestedLevel = "requested_level"
	KeyPrimaryCode    = "primary_code"
	KeyPrimaryGroups  = "primary_groups"
	KeyPrimaryErr     = "primary_err"
	KeyFallbackCode   = "fallback_code"
	KeyFallbackGroups = "fallback_groups"
	KeyFallbackErr    = "fallback_err"
	KeyResult         = "result"
	KeyResultErr      = "result_err"
)

// buildFallbackGraph constructs the coverage fallback state machine:
//
//	primary → resolve            (primary fetch succeeded, or no fallback level exists)
//	primary → fallback → resolve (municipality fetch failed; retry at prefecture level)
//
// The fallback edge is strictly sequential with the primary fetch: the
// prefecture retry is issued only after the municipality outcome is known.
func (s *system) buildFallbackGraph() (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("coverage-fallback")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	if err := graph.AddNode("primary", s.primaryNode()); err != nil {
		return nil, err
	}
	if err := graph.AddNode("fallback", s.fallbackNode()); err != nil {
		return nil, err
	}
	if err := graph.AddNode("resolve", s.resolveNode()); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("primary", "fallback", needsFallback); err != nil {
		return nil, err
	}
	if err := graph.AddEdge("primary", "resolve", state.Not(needsFallback)); err != nil {
		return nil, err
	}
	if err := graph.AddEdge("fallback", "resolve", nil); err != nil {
		return nil, err
	}

	if err := graph.SetEntryPoint("primary"); err != nil {
		return nil, err
	}
	if err := graph.SetExitPoint("resolve"); err != nil {
		return nil, err
	}

	return graph, nil
}

// primaryNode fetches every table of the category at the level the caller
// asked for. A fetch failure is recorded in the state bag rather than
// aborting the graph, so the fallback edge can act on it.
func (s *system) primaryNode() state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, st state.State) (state.State, error) {
		category := mustCategory(st)
		areaCode, _ := st.Get(KeyAreaCode)
		level := estat.InferLevel(areaCode.(string))

		code, err := estat.NormalizeAreaCode(areaCode.(string), level)
		if err != nil {
			return st, err
		}

		st = st.Set(KeyRequestedLevel, level)
		st = st.Set(KeyPrimaryCode, code)

		if level == estat.LevelMunicipality && !publishesAt(category.Coverage, level) {
			// Prefecture-only category: the municipality rows do not exist
			// upstream, so route straight to the fallback instead of issuing
			// a fetch that cannot succeed.
			s.logger.InfoContext(
				ctx, "municipality level not published, skipping primary fetch",
				"category", category.ID,
				"area", code,
			)
			return st.Set(KeyPrimaryErr, fmt.Errorf(
				"category %s publishes prefecture-level data only", category.ID,
			)), nil
		}

		groups, err := s.fetchLevel(ctx, category.StatsIDs, code)
		if err != nil {
			s.logger.InfoContext(
				ctx, "primary fetch failed",
				"category", category.ID,
				"area", code,
				"level", level,
				"error", err,
			)
			return st.Set(KeyPrimaryErr, err), nil
		}

		return st.Set(KeyPrimaryGroups, groups), nil
	})
}

// fallbackNode retries the fetch at prefecture level after a failed
// municipality fetch.
func (s *system) fallbackNode() state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, st state.State) (state.State, error) {
		category := mustCategory(st)
		prefCode, _ := st.Get(KeyPrefCode)

		code, err := estat.NormalizeAreaCode(prefCode.(string), estat.LevelPrefecture)
		if err != nil {
			return st, err
		}

		st = st.Set(KeyFallbackCode, code)

		groups, err := s.fetchLevel(ctx, category.StatsIDs, code)
		if err != nil {
			s.logger.InfoContext(
				ctx, "fallback fetch failed",
				"category", category.ID,
				"area", code,
				"error", err,
			)
			return st.Set(KeyFallbackErr, err), nil
		}

		return st.Set(KeyFallbackGroups, groups), nil
	})
}

// resolveNode assembles the FetchResult from whichever level served data,
// flagging the coverage mismatch when prefecture data substituted for a
// municipality request. Terminal failures ride the state bag under
// KeyResultErr rather than aborting the graph, so sentinel matching with
// errors.Is survives execution untouched.
func (s *system) resolveNode() state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, st state.State) (state.State, error) {
		category := mustCategory(st)
		level := mustLevel(st)

		if groups, ok := st.Get(KeyPrimaryGroups); ok {
			code, _ := st.Get(KeyPrimaryCode)
			return st.Set(KeyResult, &FetchResult{
				CategoryID:       category.ID,
				Category:         category.Name,
				CategoryCoverage: category.Coverage,
				AreaCode:         code.(string),
				RequestedLevel:   level,
				ResolvedLevel:    level,
				CoverageMismatch: false,
				Data:             groups.([]TableGroup),
			}), nil
		}

		primaryErr := mustErr(st, KeyPrimaryErr)

		if level != estat.LevelMunicipality {
			// Prefecture requests have no coarser level to fall back to.
			return st.Set(KeyResultErr, primaryErr), nil
		}

		if fallbackErr, ok := st.Get(KeyFallbackErr); ok {
			return st.Set(KeyResultErr, bothLevelsError(primaryErr, fallbackErr.(error))), nil
		}

		groups, ok := st.Get(KeyFallbackGroups)
		if !ok {
			return st.Set(KeyResultErr, fmt.Errorf("fallback produced neither groups nor error")), nil
		}

		primaryCode, _ := st.Get(KeyPrimaryCode)
		fallbackCode, _ := st.Get(KeyFallbackCode)

		return st.Set(KeyResult, &FetchResult{
			CategoryID:       category.ID,
			Category:         category.Name,
			CategoryCoverage: category.Coverage,
			AreaCode:         fallbackCode.(string),
			RequestedLevel:   estat.LevelMunicipality,
			ResolvedLevel:    estat.LevelPrefecture,
			CoverageMismatch: true,
			Note: fmt.Sprintf(
				"市区町村レベル(%s)のデータが取得できないため、都道府県レベル(%s)のデータを返します。ユーザーにその旨を伝えてください。",
				primaryCode.(string),
				fallbackCode.(string),
			),
			Data: groups.([]TableGroup),
		}), nil
	})
}

func publishesAt(c categories.Coverage, level estat.Level) bool {
	return slices.Contains(c.Levels(), level)
}

func needsFallback(st state.State) bool {
	if _, failed := st.Get(KeyPrimaryErr); !failed {
		return false
	}
	return mustLevel(st) == estat.LevelMunicipality
}

func mustCategory(st state.State) *categories.Category {
	val, _ := st.Get(KeyCategory)
	return val.(*categories.Category)
}

func mustLevel(st state.State) estat.Level {
	val, _ := st.Get(KeyRequestedLevel)
	return val.(estat.Level)
}

func mustErr(st state.State, key string) error {
	val, _ := st.Get(key)
	return val.(error)
}
