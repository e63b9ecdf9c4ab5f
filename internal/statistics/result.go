package statistics

import (
	"github.com/ymatsuda/toukei/internal/categories"
	"github.com/ymatsuda/toukei/internal/estat"
)

// TableGroup is the decoded outcome of one table fetch inside a category.
// A table that failed carries its own Error instead of aborting the whole
// category; callers can tell which tables contributed data.
type TableGroup struct {
	StatsID        string             `json:"stats_id"`
	TableName      string             `json:"table_name,omitempty"`
	StatisticsName string             `json:"statistics_name,omitempty"`
	SurveyDate     int                `json:"survey_date,omitempty"`
	TotalCount     int                `json:"total_count"`
	ShownCount     int                `json:"shown_count"`
	Values         []estat.StatRecord `json:"values"`
	Error          string             `json:"error,omitempty"`
}

// FetchResult is the outcome of one category fetch. RequestedLevel and
// ResolvedLevel differ exactly when the municipality→prefecture fallback
// served coarser data than asked for; CoverageMismatch flags that case and
// Note explains it in terms the end user must see.
type FetchResult struct {
	CategoryID       string              `json:"category_id"`
	Category         string              `json:"category"`
	CategoryCoverage categories.Coverage `json:"category_coverage"`
	AreaCode         string              `json:"area_code"`
	RequestedLevel   estat.Level         `json:"requested_data_level"`
	ResolvedLevel    estat.Level         `json:"resolved_data_level"`
	CoverageMismatch bool                `json:"coverage_mismatch"`
	Note             string              `json:"note,omitempty"`
	Data             []TableGroup        `json:"data"`
}

// TableResult is the outcome of fetching one explicit table id.
type TableResult struct {
	StatsDataID    string             `json:"stats_data_id"`
	TableName      string             `json:"table_name"`
	StatisticsName string             `json:"statistics_name"`
	SurveyDate     int                `json:"survey_date"`
	AreaCode       string             `json:"area_code"`
	TotalCount     int                `json:"total_count"`
	ShownCount     int                `json:"shown_count"`
	Values         []estat.StatRecord `json:"values"`
}

// TableDescriptor summarizes one catalog search hit.
type TableDescriptor struct {
	ID             string `json:"id"`
	StatisticsName string `json:"statistics_name"`
	Title          string `json:"title"`
	GovOrg         string `json:"gov_org"`
	Cycle          string `json:"cycle"`
	SurveyDate     int    `json:"survey_date"`
	TotalRecords   int    `json:"total_records"`
}

// SearchResult is the outcome of a catalog search.
type SearchResult struct {
	TotalCount int               `json:"total_count"`
	Tables     []TableDescriptor `json:"tables"`
}

// AreaInfo is the static answer of the area info operation.
type AreaInfo struct {
	AreaCode string `json:"area_code"`
	AreaName string `json:"area_name"`
	Note     string `json:"note"`
}
