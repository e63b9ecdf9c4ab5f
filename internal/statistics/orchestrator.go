// Package statistics implements the statistics retrieval core: category
// fetches with municipality→prefecture coverage fallback, explicit table
// fetches, and catalog search, all decoded into labeled records.
package statistics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
	"golang.org/x/sync/errgroup"

	"github.com/ymatsuda/toukei/internal/categories"
	"github.com/ymatsuda/toukei/internal/estat"
)

type system struct {
	client *estat.Client
	logger *slog.Logger
}

// New creates the statistics system over an e-Stat client.
func New(client *estat.Client, logger *slog.Logger) System {
	return &system{
		client: client,
		logger: logger.With("system", "statistics"),
	}
}

func (s *system) Handler() *Handler {
	return NewHandler(s, s.logger)
}

func (s *system) FetchCategory(ctx context.Context, cmd FetchCommand) (*FetchResult, error) {
	category, err := categories.GetByID(cmd.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, cmd.CategoryID)
	}

	graph, err := s.buildFallbackGraph()
	if err != nil {
		return nil, fmt.Errorf("build fallback graph: %w", err)
	}

	initial := state.New(nil)
	initial = initial.Set(KeyCategory, category)
	initial = initial.Set(KeyAreaCode, cmd.AreaCode)
	initial = initial.Set(KeyPrefCode, cmd.PrefCode)

	final, err := graph.Execute(ctx, initial)
	if err != nil {
		return nil, err
	}

	if val, ok := final.Get(KeyResultErr); ok {
		return nil, val.(error)
	}

	val, ok := final.Get(KeyResult)
	if !ok {
		return nil, fmt.Errorf("missing %s in final state", KeyResult)
	}

	result := val.(*FetchResult)
	s.logger.InfoContext(
		ctx, "category fetch resolved",
		"category", result.CategoryID,
		"area", result.AreaCode,
		"requested_level", result.RequestedLevel,
		"resolved_level", result.ResolvedLevel,
		"coverage_mismatch", result.CoverageMismatch,
	)

	return result, nil
}

func (s *system) FetchTable(ctx context.Context, cmd TableCommand) (*TableResult, error) {
	level := estat.InferLevel(cmd.AreaCode)
	code, err := estat.NormalizeAreaCode(cmd.AreaCode, level)
	if err != nil {
		return nil, err
	}

	data, err := s.client.FetchStatsData(ctx, cmd.StatsDataID, code, nil)
	if err != nil {
		return nil, err
	}

	values := estat.DecodeValues(data, s.client.DecodeRowCap)

	return &TableResult{
		StatsDataID:    cmd.StatsDataID,
		TableName:      data.TableInf.Title.Text,
		StatisticsName: data.TableInf.StatisticsName,
		SurveyDate:     data.TableInf.SurveyDate,
		AreaCode:       code,
		TotalCount:     data.ResultInf.TotalNumber,
		ShownCount:     len(values),
		Values:         values,
	}, nil
}

func (s *system) Search(ctx context.Context, keyword string, limit, offset int) (*SearchResult, error) {
	list, err := s.client.SearchTables(ctx, keyword, limit, offset)
	if err != nil {
		return nil, err
	}

	tables := make([]TableDescriptor, len(list.Tables))
	for i, t := range list.Tables {
		tables[i] = TableDescriptor{
			ID:             t.ID,
			StatisticsName: t.StatisticsName,
			Title:          t.Title.Text,
			GovOrg:         t.GovOrg.Text,
			Cycle:          t.Cycle,
			SurveyDate:     t.SurveyDate,
			TotalRecords:   t.TotalNumber,
		}
	}

	return &SearchResult{TotalCount: list.Number, Tables: tables}, nil
}

func (s *system) AreaInfo(code, name string) *AreaInfo {
	return &AreaInfo{
		AreaCode: code,
		AreaName: name,
		Note:     "詳細な面積・隣接情報は今後のアップデートで追加予定です。",
	}
}

// fetchLevel retrieves and decodes every table of a category at one area
// code, issuing the independent table requests concurrently. Each table
// failure is recorded in its own group; the level as a whole fails only when
// every table hard-fails, so partial data is never silently dropped.
func (s *system) fetchLevel(ctx context.Context, statsIDs []string, areaCode string) ([]TableGroup, error) {
	groups := make([]TableGroup, len(statsIDs))
	failures := make([]error, len(statsIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerCount(len(statsIDs)))

	for i, statsID := range statsIDs {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			data, err := s.client.FetchStatsData(gctx, statsID, areaCode, nil)
			switch {
			case errors.Is(err, estat.ErrNoData):
				groups[i] = TableGroup{StatsID: statsID, Error: "データなし", Values: []estat.StatRecord{}}
			case err != nil:
				groups[i] = TableGroup{StatsID: statsID, Error: err.Error(), Values: []estat.StatRecord{}}
				failures[i] = err
			default:
				values := estat.DecodeValues(data, s.client.DecodeRowCap)
				groups[i] = TableGroup{
					StatsID:        statsID,
					TableName:      data.TableInf.Title.Text,
					StatisticsName: data.TableInf.StatisticsName,
					SurveyDate:     data.TableInf.SurveyDate,
					TotalCount:     data.ResultInf.TotalNumber,
					ShownCount:     len(values),
					Values:         values,
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	hard := make([]error, 0, len(failures))
	for _, err := range failures {
		if err != nil {
			hard = append(hard, err)
		}
	}
	if len(hard) > 0 && len(hard) == len(statsIDs) {
		return nil, errors.Join(hard...)
	}

	return groups, nil
}

func workerCount(tableCount int) int {
	return max(min(runtime.NumCPU(), tableCount), 1)
}
