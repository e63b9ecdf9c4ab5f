// Package categories defines the static statistics category catalog: named
// topics of inquiry mapped to the e-Stat tables that answer them, with the
// geographic coverage each topic reliably publishes at.
package categories

import (
	"errors"

	"github.com/ymatsuda/toukei/internal/estat"
)

// ErrNotFound indicates an unknown category id.
var ErrNotFound = errors.New("category not found")

// Coverage is the finest geographic granularity a category's tables reliably
// publish data at.
type Coverage string

// Coverage levels declared per category.
const (
	CoverageMunicipality Coverage = "municipality"
	CoveragePrefecture   Coverage = "prefecture"
	CoverageMixed        Coverage = "mixed"
)

// Category is one named topic backed by one or more e-Stat tables.
type Category struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	StatsIDs     []string `json:"stats_ids"`
	Coverage     Coverage `json:"coverage"`
	CoverageNote string   `json:"coverage_note,omitempty"`
}

// Levels returns the coverage expressed as the set of fetchable levels.
func (c Coverage) Levels() []estat.Level {
	switch c {
	case CoveragePrefecture:
		return []estat.Level{estat.LevelPrefecture}
	case CoverageMunicipality:
		return []estat.Level{estat.LevelMunicipality}
	default:
		return []estat.Level{estat.LevelMunicipality, estat.LevelPrefecture}
	}
}

// The table ids reference the 2020 census, the commerce statistics industry
// tables, and the economic census base tables. Each can be re-verified via
// catalog search (the search operation exists for exactly that purpose).
var catalog = []Category{
	{
		ID:          "population",
		Name:        "人口統計",
		Description: "国勢調査による人口・年齢構成・世帯数などの情報（2020年調査）",
		StatsIDs:    []string{"0003448299"},
		Coverage:    CoverageMunicipality,
	},
	{
		ID:           "commerce",
		Name:         "商業統計",
		Description:  "小売業・卸売業の店舗数・売上高・従業者数などの商業情報",
		StatsIDs:     []string{"0003149505"},
		Coverage:     CoverageMixed,
		CoverageNote: "一部指標は市区町村別の集計が存在せず、都道府県レベルのみ提供されます。",
	},
	{
		ID:          "economy",
		Name:        "経済センサス",
		Description: "事業所数・従業員数・産業構造など経済活動の基本情報",
		StatsIDs:    []string{"0003353941"},
		Coverage:    CoverageMunicipality,
	},
}

// List returns all registered categories in declaration order.
func List() []Category {
	return catalog
}

// GetByID looks up a category by id.
func GetByID(id string) (*Category, error) {
	for i := range catalog {
		if catalog[i].ID == id {
			return &catalog[i], nil
		}
	}
	return nil, ErrNotFound
}
