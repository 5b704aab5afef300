package prompts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/JaimeStill/steward/pkg/pagination"
	"github.com/JaimeStill/steward/pkg/query"
	"github.com/JaimeStill/steward/pkg/repository"
)

const (
	cacheTTL     = 5 * time.Minute
	cacheCleanup = 10 * time.Minute
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
	cache      *cache.Cache
	validate   *validator.Validate
}

// New creates the prompt System. Effective instructions are cached per stage
// and the cache is flushed on every write.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "prompts"),
		pagination: pagination,
		cache:      cache.New(cacheTTL, cacheCleanup),
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Prompt], error) {
	page.Normalize(r.pagination)

	qb := filters.Apply(
		query.NewBuilder(projection, defaultSort...).
			WhereSearch(page.Search, "Name", "Description", "Instructions"),
	)
	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count prompts: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanPrompt)
	if err != nil {
		return nil, fmt.Errorf("query prompts: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Prompt, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)
	p, err := repository.QueryOne(ctx, r.db, q, args, scanPrompt)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &p, nil
}

func (r *repo) Create(ctx context.Context, cmd Command) (*Prompt, error) {
	if err := r.validate.Struct(cmd); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	p, err := r.write(ctx,
		`INSERT INTO prompts (name, stage, instructions, description)
		VALUES ($1, $2, $3, $4)
		RETURNING `+returning,
		cmd.Name, cmd.Stage, cmd.Instructions, cmd.Description,
	)
	if err != nil {
		return nil, err
	}

	r.logger.Info("prompt created", "id", p.ID, "name", p.Name, "stage", p.Stage)
	return p, nil
}

// Update rewrites an override. Moving an active override to another stage
// deactivates it so the target stage keeps at most one active override.
func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd Command) (*Prompt, error) {
	if err := r.validate.Struct(cmd); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	p, err := r.write(ctx,
		`UPDATE prompts
		SET name = $1, stage = $2, instructions = $3, description = $4,
			active = active AND stage = $2, updated_at = now()
		WHERE id = $5
		RETURNING `+returning,
		cmd.Name, cmd.Stage, cmd.Instructions, cmd.Description, id,
	)
	if err != nil {
		return nil, err
	}

	r.logger.Info("prompt updated", "id", p.ID, "name", p.Name)
	return p, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(ctx, tx, "DELETE FROM prompts WHERE id = $1", id)
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.cache.Flush()
	r.logger.Info("prompt deleted", "id", id)
	return nil
}

// Activate makes id the active override for its stage, deactivating the
// previous one in the same transaction.
func (r *repo) Activate(ctx context.Context, id uuid.UUID) (*Prompt, error) {
	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Prompt, error) {
		var stage Stage
		if err := tx.QueryRowContext(ctx, "SELECT stage FROM prompts WHERE id = $1", id).Scan(&stage); err != nil {
			return Prompt{}, err
		}

		if _, err := tx.ExecContext(ctx,
			"UPDATE prompts SET active = false, updated_at = now() WHERE stage = $1 AND active AND id <> $2",
			stage, id,
		); err != nil {
			return Prompt{}, fmt.Errorf("deactivate current: %w", err)
		}

		return repository.QueryOne(ctx, tx,
			"UPDATE prompts SET active = true, updated_at = now() WHERE id = $1 RETURNING "+returning,
			[]any{id}, scanPrompt,
		)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.cache.Flush()
	r.logger.Info("prompt activated", "id", p.ID, "name", p.Name, "stage", p.Stage)
	return &p, nil
}

func (r *repo) Deactivate(ctx context.Context, id uuid.UUID) (*Prompt, error) {
	p, err := r.write(ctx,
		"UPDATE prompts SET active = false, updated_at = now() WHERE id = $1 RETURNING "+returning,
		id,
	)
	if err != nil {
		return nil, err
	}

	r.logger.Info("prompt deactivated", "id", p.ID, "name", p.Name, "stage", p.Stage)
	return p, nil
}

func (r *repo) Instructions(ctx context.Context, stage Stage) (string, error) {
	key := "instructions:" + string(stage)
	if v, ok := r.cache.Get(key); ok {
		return v.(string), nil
	}

	var text string
	err := r.db.QueryRowContext(ctx,
		"SELECT instructions FROM prompts WHERE stage = $1 AND active",
		stage,
	).Scan(&text)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		if text, err = Instructions(stage); err != nil {
			return "", err
		}
	case err != nil:
		return "", fmt.Errorf("query active prompt: %w", err)
	}

	r.cache.Set(key, text, cache.DefaultExpiration)
	return text, nil
}

func (r *repo) Spec(_ context.Context, stage Stage) (string, error) {
	return Spec(stage)
}

func (r *repo) Preview(ctx context.Context, stage Stage) (string, error) {
	instructions, err := r.Instructions(ctx, stage)
	if err != nil {
		return "", err
	}
	spec, err := Spec(stage)
	if err != nil {
		return "", err
	}
	return Compose(instructions, spec, ""), nil
}

// write runs a single-row statement returning a Prompt and flushes the
// instruction cache on success.
func (r *repo) write(ctx context.Context, q string, args ...any) (*Prompt, error) {
	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Prompt, error) {
		return repository.QueryOne(ctx, tx, q, args, scanPrompt)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.cache.Flush()
	return &p, nil
}
