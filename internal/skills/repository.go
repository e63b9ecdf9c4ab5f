package skills

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

const skillColumns = `id, name, description, icon, parent_id, system_prompt,
	extra_prompt, stats_categories, custom_stats_ids, form_config, active, sort_order`

type repo struct {
	db         *sql.DB
	agent      gaconfig.AgentConfig
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a skill repository implementing the System interface.
func New(
	db *sql.DB,
	agent gaconfig.AgentConfig,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		agent:      agent,
		logger:     logger.With("system", "skills"),
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
) (*pagination.PageResult[Skill], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Name", "Description")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count skills: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	skills, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanSkill)
	if err != nil {
		return nil, fmt.Errorf("query skills: %w", err)
	}

	result := pagination.NewPageResult(skills, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Skill, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	sk, err := repository.QueryOne(ctx, r.db, q, args, scanSkill)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &sk, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Skill, error) {
	q := fmt.Sprintf(`
		INSERT INTO skills(name, description, icon, parent_id, system_prompt,
			extra_prompt, stats_categories, custom_stats_ids, form_config, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING %s`, skillColumns)

	categories, err := encodeList(cmd.StatsCategories)
	if err != nil {
		return nil, fmt.Errorf("encode stats_categories: %w", err)
	}
	statsIDs, err := encodeList(cmd.CustomStatsIDs)
	if err != nil {
		return nil, fmt.Errorf("encode custom_stats_ids: %w", err)
	}

	args := []any{
		cmd.Name, cmd.Description, cmd.Icon, cmd.ParentID, cmd.SystemPrompt,
		cmd.ExtraPrompt, categories, statsIDs, encodeForm(cmd.FormConfig), cmd.SortOrder,
	}

	sk, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Skill, error) {
		return repository.QueryOne(ctx, tx, q, args, scanSkill)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("skill created", "id", sk.ID, "name", sk.Name)
	return &sk, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Skill, error) {
	q := fmt.Sprintf(`
		UPDATE skills
		SET name = $1, description = $2, icon = $3, parent_id = $4,
			system_prompt = $5, extra_prompt = $6, stats_categories = $7,
			custom_stats_ids = $8, form_config = $9, active = $10, sort_order = $11
		WHERE id = $12
		RETURNING %s`, skillColumns)

	categories, err := encodeList(cmd.StatsCategories)
	if err != nil {
		return nil, fmt.Errorf("encode stats_categories: %w", err)
	}
	statsIDs, err := encodeList(cmd.CustomStatsIDs)
	if err != nil {
		return nil, fmt.Errorf("encode custom_stats_ids: %w", err)
	}

	args := []any{
		cmd.Name, cmd.Description, cmd.Icon, cmd.ParentID, cmd.SystemPrompt,
		cmd.ExtraPrompt, categories, statsIDs, encodeForm(cmd.FormConfig),
		cmd.Active, cmd.SortOrder, id,
	}

	sk, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Skill, error) {
		return repository.QueryOne(ctx, tx, q, args, scanSkill)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("skill updated", "id", sk.ID, "name", sk.Name)
	return &sk, nil
}

// Delete removes a skill. Skills that still have children are rejected so a
// child is never orphaned silently.
func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		var children int
		err := tx.QueryRowContext(
			ctx,
			"SELECT COUNT(*) FROM skills WHERE parent_id = $1",
			id,
		).Scan(&children)
		if err != nil {
			return struct{}{}, fmt.Errorf("count children: %w", err)
		}
		if children > 0 {
			return struct{}{}, fmt.Errorf("%w: %d children", ErrHasChildren, children)
		}

		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM skills WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("skill deleted", "id", id)
	return nil
}

func (r *repo) Resolve(ctx context.Context, id uuid.UUID, areaContext string) (*Resolution, error) {
	child, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	var parent *Skill
	if child.ParentID != nil {
		parent, err = r.Find(ctx, *child.ParentID)
		if err != nil {
			return nil, fmt.Errorf("resolve parent: %w", err)
		}
	}

	return &Resolution{
		SkillID:        child.ID,
		Name:           child.Name,
		Categories:     ResolveCategories(parent, child),
		CustomStatsIDs: ResolveStatsIDs(parent, child),
		Instructions:   ComposeInstructions(parent, child, areaContext),
	}, nil
}
