package sessions

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/ymatsuda/toukei/pkg/pagination"
	"github.com/ymatsuda/toukei/pkg/query"
	"github.com/ymatsuda/toukei/pkg/repository"
)

const sessionColumns = `id, skill_id, area_code, area_name, title, created_at, updated_at`
const messageColumns = `id, session_id, role, content, created_at`

type repo struct {
	db         *sql.DB
	agent      gaconfig.AgentConfig
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a session repository implementing the System interface.
func New(
	db *sql.DB,
	agent gaconfig.AgentConfig,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		agent:      agent,
		logger:     logger.With("system", "sessions"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Session], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Title", "AreaName")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count sessions: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	sessions, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanSession)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}

	result := pagination.NewPageResult(sessions, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Conversation, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	sess, err := repository.QueryOne(ctx, r.db, q, args, scanSession)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	messages, err := r.messages(ctx, id)
	if err != nil {
		return nil, err
	}

	return &Conversation{Session: sess, Messages: messages}, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Session, error) {
	q := fmt.Sprintf(`
		INSERT INTO sessions(skill_id, area_code, area_name, title)
		VALUES ($1, $2, $3, $4)
		RETURNING %s`, sessionColumns)

	title := cmd.Title
	if title == "" {
		title = "新しい会話"
	}

	args := []any{cmd.SkillID, cmd.AreaCode, cmd.AreaName, title}

	sess, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Session, error) {
		return repository.QueryOne(ctx, tx, q, args, scanSession)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("session created", "id", sess.ID, "skill", sess.SkillID)
	return &sess, nil
}

// Delete removes a session; its messages go with it via the cascading
// foreign key.
func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM sessions WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("session deleted", "id", id)
	return nil
}

func (r *repo) Append(ctx context.Context, id uuid.UUID, cmd AppendCommand) (*Message, error) {
	if _, err := ParseRole(string(cmd.Role)); err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`
		INSERT INTO messages(session_id, role, content)
		VALUES ($1, $2, $3)
		RETURNING %s`, messageColumns)

	msg, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Message, error) {
		m, err := repository.QueryOne(ctx, tx, q, []any{id, cmd.Role, cmd.Content}, scanMessage)
		if err != nil {
			return Message{}, err
		}

		_, err = tx.ExecContext(
			ctx,
			"UPDATE sessions SET updated_at = now() WHERE id = $1",
			id,
		)
		if err != nil {
			return Message{}, fmt.Errorf("touch session: %w", err)
		}

		return m, nil
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return &msg, nil
}

func (r *repo) UpdateTitle(ctx context.Context, id uuid.UUID, cmd TitleCommand) (*Session, error) {
	q := fmt.Sprintf(`
		UPDATE sessions SET title = $1, updated_at = now()
		WHERE id = $2
		RETURNING %s`, sessionColumns)

	sess, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Session, error) {
		return repository.QueryOne(ctx, tx, q, []any{cmd.Title, id}, scanSession)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("session title updated", "id", sess.ID, "title", sess.Title)
	return &sess, nil
}

func (r *repo) messages(ctx context.Context, sessionID uuid.UUID) ([]Message, error) {
	q := fmt.Sprintf(`
		SELECT %s FROM messages
		WHERE session_id = $1
		ORDER BY created_at`, messageColumns)

	messages, err := repository.QueryMany(ctx, r.db, q, []any{sessionID}, scanMessage)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	return messages, nil
}
