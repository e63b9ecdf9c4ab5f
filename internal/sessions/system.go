package sessions

import (
	"context"

	"github.com/google/uuid"

	"github.com/ymatsuda/toukei/pkg/pagination"
)

// System defines the public contract for session domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Session], error)

	// Find returns a session with its messages in creation order.
	Find(ctx context.Context, id uuid.UUID) (*Conversation, error)
	Create(ctx context.Context, cmd CreateCommand) (*Session, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Append adds one message to a session and touches its updated_at.
	Append(ctx context.Context, id uuid.UUID, cmd AppendCommand) (*Message, error)
	// UpdateTitle replaces a session's title.
	UpdateTitle(ctx context.Context, id uuid.UUID, cmd TitleCommand) (*Session, error)
	// GenerateTitle derives a short Japanese title from the session's first
	// exchange using the configured language model.
	GenerateTitle(ctx context.Context, id uuid.UUID) (*Session, error)
}
