package skills

import (
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/ymatsuda/toukei/pkg/query"
	"github.com/ymatsuda/toukei/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "skills", "s").
	Project("id", "ID").
	Project("name", "Name").
	Project("description", "Description").
	Project("icon", "Icon").
	Project("parent_id", "ParentID").
	Project("system_prompt", "SystemPrompt").
	Project("extra_prompt", "ExtraPrompt").
	Project("stats_categories", "StatsCategories").
	Project("custom_stats_ids", "CustomStatsIDs").
	Project("form_config", "FormConfig").
	Project("active", "Active").
	Project("sort_order", "SortOrder")

var defaultSort = query.SortField{
	Field: "sort_order",
}

// Filters contains optional filtering criteria for skill queries.
// Nil fields are ignored. ParentID and Active use exact matching.
// Name uses case-insensitive contains matching.
type Filters struct {
	ParentID *uuid.UUID `json:"parent_id,omitempty"`
	Name     *string    `json:"name,omitempty"`
	Active   *bool      `json:"active,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("ParentID", f.ParentID).
		WhereContains("Name", f.Name).
		WhereEquals("Active", f.Active)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if p := values.Get("parent_id"); p != "" {
		if id, err := uuid.Parse(p); err == nil {
			f.ParentID = &id
		}
	}

	if n := values.Get("name"); n != "" {
		f.Name = &n
	}

	if a := values.Get("active"); a != "" {
		if v, err := strconv.ParseBool(a); err == nil {
			f.Active = &v
		}
	}

	return f
}

// jsonb columns round-trip as raw bytes through database/sql; the list
// columns decode into string slices on the way out.
func scanSkill(s repository.Scanner) (Skill, error) {
	var (
		sk         Skill
		categories []byte
		statsIDs   []byte
	)

	err := s.Scan(
		&sk.ID,
		&sk.Name,
		&sk.Description,
		&sk.Icon,
		&sk.ParentID,
		&sk.SystemPrompt,
		&sk.ExtraPrompt,
		&categories,
		&statsIDs,
		&sk.FormConfig,
		&sk.Active,
		&sk.SortOrder,
	)
	if err != nil {
		return sk, err
	}

	if err := decodeList(categories, &sk.StatsCategories); err != nil {
		return sk, err
	}
	if err := decodeList(statsIDs, &sk.CustomStatsIDs); err != nil {
		return sk, err
	}

	return sk, nil
}

func decodeList(data []byte, target *[]string) error {
	if len(data) == 0 {
		*target = []string{}
		return nil
	}
	return json.Unmarshal(data, target)
}

func encodeList(values []string) ([]byte, error) {
	if values == nil {
		values = []string{}
	}
	return json.Marshal(values)
}

func encodeForm(form json.RawMessage) []byte {
	if len(form) == 0 {
		return []byte("{}")
	}
	return form
}
