package analyses

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/pkg/formatting"
	"github.com/JaimeStill/steward/pkg/pagination"
	"github.com/JaimeStill/steward/pkg/query"
	"github.com/JaimeStill/steward/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
	textLimit  int
}

// New creates an analysis repository implementing the System interface.
// Extracted text is truncated to textLimit runes before it is stored.
func New(
	db *sql.DB,
	logger *slog.Logger,
	pagination pagination.Config,
	textLimit int,
) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "analyses"),
		pagination: pagination,
		textLimit:  textLimit,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Analysis], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Summary", "Error")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count analyses: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanAnalysis)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Analysis, error) {
	return r.findBy(ctx, r.db, "ID", id)
}

func (r *repo) FindByDocument(ctx context.Context, documentID uuid.UUID) (*Analysis, error) {
	return r.findBy(ctx, r.db, "DocumentID", documentID)
}

func (r *repo) OpenForProcessing(ctx context.Context, documentID uuid.UUID) (*Analysis, error) {
	q := `
		INSERT INTO analyses(document_id, status)
		VALUES ($1, 'processing')
		ON CONFLICT (document_id) DO UPDATE
		SET status = 'processing', error = NULL, updated_at = now()
		RETURNING id`

	a, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (*Analysis, error) {
		var id uuid.UUID
		if err := tx.QueryRowContext(ctx, q, documentID).Scan(&id); err != nil {
			return nil, err
		}
		return r.findBy(ctx, tx, "ID", id)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("analysis opened", "id", a.ID, "document_id", documentID)
	return a, nil
}

func (r *repo) MarkCompleted(ctx context.Context, id uuid.UUID, cmd CompleteCommand) (*Analysis, error) {
	topics, err := repository.JSON(cmd.KeyTopics)
	if err != nil {
		return nil, fmt.Errorf("marshal key_topics: %w", err)
	}

	artifacts, err := repository.JSON(cmd.Artifacts)
	if err != nil {
		return nil, fmt.Errorf("marshal artifacts: %w", err)
	}

	text := cmd.ExtractedText
	if r.textLimit > 0 {
		text = formatting.Truncate(text, r.textLimit)
	}

	q := `
		UPDATE analyses
		SET status = 'completed',
			extracted_text = $1,
			summary = $2,
			key_topics = $3,
			artifacts = $4,
			error = NULL,
			generated_at = now(),
			updated_at = now()
		WHERE id = $5 AND status = 'processing'`

	a, err := r.close(ctx, id, q, text, cmd.Summary, topics, artifacts, id)
	if err != nil {
		return nil, err
	}

	r.logger.Info(
		"analysis completed",
		"id", a.ID,
		"document_id", a.DocumentID,
		"lessons", a.Artifacts.Lessons,
	)
	return a, nil
}

func (r *repo) MarkFailed(ctx context.Context, id uuid.UUID, reason string) (*Analysis, error) {
	q := `
		UPDATE analyses
		SET status = 'failed', error = $1, updated_at = now()
		WHERE id = $2 AND status = 'processing'`

	a, err := r.close(ctx, id, q, reason, id)
	if err != nil {
		return nil, err
	}

	r.logger.Warn("analysis failed", "id", a.ID, "document_id", a.DocumentID, "reason", reason)
	return a, nil
}

// close applies a terminal transition. A record that exists but is not
// processing reports ErrNotProcessing.
func (r *repo) close(ctx context.Context, id uuid.UUID, q string, args ...any) (*Analysis, error) {
	a, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (*Analysis, error) {
		if err := repository.ExecExpectOne(ctx, tx, q, args...); err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				return nil, err
			}
			if _, findErr := r.findBy(ctx, tx, "ID", id); findErr != nil {
				return nil, findErr
			}
			return nil, ErrNotProcessing
		}
		return r.findBy(ctx, tx, "ID", id)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return a, nil
}

func (r *repo) findBy(ctx context.Context, q repository.Querier, field string, value uuid.UUID) (*Analysis, error) {
	stmt, args := query.NewBuilder(projection).BuildSingle(field, value)

	a, err := repository.QueryOne(ctx, q, stmt, args, scanAnalysis)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &a, nil
}
