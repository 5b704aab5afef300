package trainings

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/JaimeStill/steward/pkg/pagination"
	"github.com/JaimeStill/steward/pkg/query"
	"github.com/JaimeStill/steward/pkg/repository"
)

const (
	slugConstraint = "trainings_slug_key"
	maxSlugRetries = 5
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
	validate   *validator.Validate
}

// New creates a training repository implementing the System interface.
func New(
	db *sql.DB,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "trainings"),
		pagination: pagination,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Training], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Title", "Slug")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count trainings: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanTraining)
	if err != nil {
		return nil, fmt.Errorf("query trainings: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) ListPublished(ctx context.Context) ([]Training, error) {
	q, args := query.
		NewBuilder(projection, query.SortField{Field: "CreatedAt"}).
		WhereEquals("Published", true).
		Build()

	items, err := repository.QueryMany(ctx, r.db, q, args, scanTraining)
	if err != nil {
		return nil, fmt.Errorf("query published trainings: %w", err)
	}
	return items, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Training, error) {
	return r.findBy(ctx, r.db, "ID", id)
}

func (r *repo) FindBySlug(ctx context.Context, slug string) (*Training, error) {
	return r.findBy(ctx, r.db, "Slug", slug)
}

func (r *repo) FindByDocument(ctx context.Context, documentID uuid.UUID) (*Training, error) {
	return r.findBy(ctx, r.db, "DocumentID", documentID)
}

func (r *repo) Publish(ctx context.Context, cmd PublishCommand) (*PublishResult, error) {
	if err := r.validate.Struct(cmd); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	for range maxSlugRetries {
		result, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (*PublishResult, error) {
			return r.upsert(ctx, tx, cmd)
		})

		if repository.IsUniqueViolation(err, slugConstraint) {
			r.logger.Warn("slug collision, retrying", "document_id", cmd.DocumentID, "title", cmd.Title)
			continue
		}
		if err != nil {
			return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
		}

		r.logger.Info(
			"training published",
			"id", result.Training.ID,
			"slug", result.Training.Slug,
			"document_id", cmd.DocumentID,
			"lessons", len(result.Training.Lessons),
			"created", result.Created,
		)
		return result, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrSlugConflict, cmd.Title)
}

func (r *repo) upsert(ctx context.Context, tx *sql.Tx, cmd PublishCommand) (*PublishResult, error) {
	slug, err := r.nextSlug(ctx, tx, Slugify(cmd.Title))
	if err != nil {
		return nil, err
	}

	lessons, err := repository.JSON(cmd.Lessons)
	if err != nil {
		return nil, fmt.Errorf("marshal lessons: %w", err)
	}
	checks, err := repository.JSON(cmd.KnowledgeChecks)
	if err != nil {
		return nil, fmt.Errorf("marshal knowledge_checks: %w", err)
	}
	assessments, err := repository.JSON(cmd.Assessments)
	if err != nil {
		return nil, fmt.Errorf("marshal assessments: %w", err)
	}

	q := `
		INSERT INTO trainings(
			document_id, title, slug, audience, group_id, required, published,
			lessons, knowledge_checks, assessments,
			estimated_minutes, passing_score, reward_weight
		)
		VALUES ($1, $2, $3, $4, $5, $6, true, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (document_id) DO UPDATE
		SET title = EXCLUDED.title,
			audience = EXCLUDED.audience,
			group_id = EXCLUDED.group_id,
			required = EXCLUDED.required,
			published = true,
			lessons = EXCLUDED.lessons,
			knowledge_checks = EXCLUDED.knowledge_checks,
			assessments = EXCLUDED.assessments,
			estimated_minutes = EXCLUDED.estimated_minutes,
			passing_score = EXCLUDED.passing_score,
			reward_weight = EXCLUDED.reward_weight,
			updated_at = now()
		RETURNING id, (xmax = 0) AS inserted`

	args := []any{
		cmd.DocumentID, cmd.Title, slug, cmd.Audience, cmd.GroupID, cmd.Required,
		lessons, checks, assessments,
		EstimatedMinutes(len(cmd.Lessons)), cmd.PassingScore, cmd.RewardWeight,
	}

	var (
		id      uuid.UUID
		created bool
	)
	if err := tx.QueryRowContext(ctx, q, args...).Scan(&id, &created); err != nil {
		return nil, err
	}

	t, err := r.findBy(ctx, tx, "ID", id)
	if err != nil {
		return nil, err
	}

	return &PublishResult{Training: t, Created: created}, nil
}

// nextSlug resolves base against the slugs already stored. The result is
// only used when the upsert inserts a new row.
func (r *repo) nextSlug(ctx context.Context, tx *sql.Tx, base string) (string, error) {
	if base == "" {
		base = fallbackSlug
	}

	rows, err := tx.QueryContext(
		ctx,
		"SELECT slug FROM trainings WHERE slug = $1 OR slug LIKE $2",
		base, base+"-%",
	)
	if err != nil {
		return "", fmt.Errorf("query slugs: %w", err)
	}
	defer rows.Close()

	taken := make(map[string]bool)
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return "", err
		}
		taken[s] = true
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	return AssignSlug(base, taken), nil
}

func (r *repo) ReplaceLessons(ctx context.Context, id uuid.UUID, lessons []Lesson) (*Training, error) {
	data, err := repository.JSON(lessons)
	if err != nil {
		return nil, fmt.Errorf("marshal lessons: %w", err)
	}

	q := `
		UPDATE trainings
		SET lessons = $1, estimated_minutes = $2, updated_at = now()
		WHERE id = $3`

	t, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (*Training, error) {
		if err := repository.ExecExpectOne(ctx, tx, q, data, EstimatedMinutes(len(lessons)), id); err != nil {
			return nil, err
		}
		return r.findBy(ctx, tx, "ID", id)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("training lessons replaced", "id", id, "lessons", len(lessons))
	return t, nil
}

func (r *repo) findBy(ctx context.Context, q repository.Querier, field string, value any) (*Training, error) {
	stmt, args := query.NewBuilder(projection).BuildSingle(field, value)

	t, err := repository.QueryOne(ctx, q, stmt, args, scanTraining)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &t, nil
}
