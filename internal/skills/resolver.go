package skills

import "strings"

const sectionSeparator = "\n\n---\n\n"

// ResolveCategories applies the scope override rule: a child with its own
// non-empty category list replaces the parent's scope entirely, otherwise
// the parent's scope applies. A nil result means no restriction.
func ResolveCategories(parent, child *Skill) []string {
	if child != nil && len(child.StatsCategories) > 0 {
		return child.StatsCategories
	}
	if parent != nil && len(parent.StatsCategories) > 0 {
		return parent.StatsCategories
	}
	return nil
}

// ResolveStatsIDs merges explicit table ids the same way: a child's own
// list wins, otherwise the parent's.
func ResolveStatsIDs(parent, child *Skill) []string {
	if child != nil && len(child.CustomStatsIDs) > 0 {
		return child.CustomStatsIDs
	}
	if parent != nil && len(parent.CustomStatsIDs) > 0 {
		return parent.CustomStatsIDs
	}
	return nil
}

// ComposeInstructions concatenates the instruction layers in order: parent
// prompt, child prompt, then area context. Empty layers are skipped.
func ComposeInstructions(parent, child *Skill, areaContext string) string {
	var sections []string

	sections = appendPrompts(sections, parent)
	sections = appendPrompts(sections, child)

	if areaContext != "" {
		sections = append(sections, "## エリアコンテキスト\n"+areaContext)
	}

	return strings.Join(sections, sectionSeparator)
}

func appendPrompts(sections []string, sk *Skill) []string {
	if sk == nil {
		return sections
	}
	if sk.SystemPrompt != nil && *sk.SystemPrompt != "" {
		sections = append(sections, *sk.SystemPrompt)
	}
	if sk.ExtraPrompt != nil && *sk.ExtraPrompt != "" {
		sections = append(sections, *sk.ExtraPrompt)
	}
	return sections
}
