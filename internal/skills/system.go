package skills

import (
	"context"

	"github.com/google/uuid"

	"github.com/ymatsuda/toukei/pkg/pagination"
)

// System defines the public contract for skill domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Skill], error)

	Find(ctx context.Context, id uuid.UUID) (*Skill, error)
	Create(ctx context.Context, cmd CreateCommand) (*Skill, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Skill, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Resolve applies the hierarchy rules to produce the effective category
	// scope and instruction set for a skill.
	Resolve(ctx context.Context, id uuid.UUID, areaContext string) (*Resolution, error)
	// GeneratePrompt drafts a system prompt for a skill from its name and
	// description using the configured language model.
	GeneratePrompt(ctx context.Context, id uuid.UUID) (*GeneratedPrompt, error)
}
