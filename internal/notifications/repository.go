package notifications

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/pkg/pagination"
	"github.com/JaimeStill/steward/pkg/query"
	"github.com/JaimeStill/steward/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a notification repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "notifications"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) FanOut(ctx context.Context, a Announcement) (int, error) {
	insert := `
		INSERT INTO notifications(user_id, training_id, kind, message)
		VALUES ($1, $2, $3, $4)`

	count, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (int, error) {
		members, err := repository.QueryMany(
			ctx, tx,
			`SELECT user_id, leader FROM group_members
			 WHERE group_id = $1 AND active
			 ORDER BY user_id`,
			[]any{a.GroupID},
			scanMember,
		)
		if err != nil {
			return 0, fmt.Errorf("query group members: %w", err)
		}

		batch := Compose(a, members)
		for _, n := range batch {
			if _, err := tx.ExecContext(ctx, insert, n.UserID, n.TrainingID, n.Kind, n.Message); err != nil {
				return 0, fmt.Errorf("insert notification: %w", err)
			}
		}
		return len(batch), nil
	})

	if err != nil {
		return 0, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info(
		"notifications sent",
		"training_id", a.TrainingID,
		"group_id", a.GroupID,
		"count", count,
	)
	return count, nil
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Notification], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Message")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count notifications: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanNotification)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) MarkRead(ctx context.Context, id uuid.UUID) (*Notification, error) {
	n, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Notification, error) {
		err := repository.ExecExpectOne(
			ctx, tx,
			"UPDATE notifications SET read_at = COALESCE(read_at, now()) WHERE id = $1",
			id,
		)
		if err != nil {
			return Notification{}, err
		}

		q, args := query.NewBuilder(projection).BuildSingle("ID", id)
		return repository.QueryOne(ctx, tx, q, args, scanNotification)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &n, nil
}

func scanMember(s repository.Scanner) (Member, error) {
	var m Member
	err := s.Scan(&m.UserID, &m.Leader)
	return m, err
}
