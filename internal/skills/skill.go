// Package skills implements the skill domain: named analysis presets that
// scope which statistics categories a conversation may draw on and what
// instructions steer it. Skills form a two-level hierarchy; a child skill
// inherits or overrides its parent's category scope and appends its own
// instructions.
package skills

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Skill represents an analysis preset. StatsCategories limits the category
// catalog visible to the conversation; an empty slice means the skill
// inherits its parent's scope (or all categories at the root). FormConfig
// holds an opaque client-side form definition.
type Skill struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Description     *string         `json:"description"`
	Icon            *string         `json:"icon"`
	ParentID        *uuid.UUID      `json:"parent_id"`
	SystemPrompt    *string         `json:"system_prompt"`
	ExtraPrompt     *string         `json:"extra_prompt"`
	StatsCategories []string        `json:"stats_categories"`
	CustomStatsIDs  []string        `json:"custom_stats_ids"`
	FormConfig      json.RawMessage `json:"form_config"`
	Active          bool            `json:"active"`
	SortOrder       int             `json:"sort_order"`
}

// CreateCommand carries the data needed to create a new skill.
type CreateCommand struct {
	Name            string          `json:"name"`
	Description     *string         `json:"description"`
	Icon            *string         `json:"icon"`
	ParentID        *uuid.UUID      `json:"parent_id"`
	SystemPrompt    *string         `json:"system_prompt"`
	ExtraPrompt     *string         `json:"extra_prompt"`
	StatsCategories []string        `json:"stats_categories"`
	CustomStatsIDs  []string        `json:"custom_stats_ids"`
	FormConfig      json.RawMessage `json:"form_config"`
	SortOrder       int             `json:"sort_order"`
}

// UpdateCommand carries the data needed to update an existing skill.
type UpdateCommand struct {
	Name            string          `json:"name"`
	Description     *string         `json:"description"`
	Icon            *string         `json:"icon"`
	ParentID        *uuid.UUID      `json:"parent_id"`
	SystemPrompt    *string         `json:"system_prompt"`
	ExtraPrompt     *string         `json:"extra_prompt"`
	StatsCategories []string        `json:"stats_categories"`
	CustomStatsIDs  []string        `json:"custom_stats_ids"`
	FormConfig      json.RawMessage `json:"form_config"`
	Active          bool            `json:"active"`
	SortOrder       int             `json:"sort_order"`
}

// Resolution is the effective scope and instruction set of a skill after
// applying hierarchy rules.
type Resolution struct {
	SkillID        uuid.UUID `json:"skill_id"`
	Name           string    `json:"name"`
	Categories     []string  `json:"categories"`
	CustomStatsIDs []string  `json:"custom_stats_ids"`
	Instructions   string    `json:"instructions"`
}

// GeneratedPrompt is the response type for system prompt generation.
type GeneratedPrompt struct {
	SkillID uuid.UUID `json:"skill_id"`
	Prompt  string    `json:"prompt"`
}
