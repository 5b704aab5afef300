package trainings_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/steward/internal/classifier"
	"github.com/JaimeStill/steward/internal/trainings"
	"github.com/JaimeStill/steward/pkg/pagination"
)

var (
	slugScanSQL = regexp.QuoteMeta("SELECT slug FROM trainings WHERE slug = $1 OR slug LIKE $2")
	upsertSQL   = `^INSERT INTO trainings\(.+ON CONFLICT \(document_id\) DO UPDATE .+RETURNING id, \(xmax = 0\) AS inserted$`
	findByIDSQL = `^SELECT .+ WHERE \S*id = \$1$`
)

func newRepo(t *testing.T) (trainings.System, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sys := trainings.New(
		db,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		pagination.Config{DefaultPageSize: 20, MaxPageSize: 100},
	)
	return sys, mock
}

// table stands in for the stored slugs the LIKE scan sees.
type table struct {
	slugs map[uuid.UUID]string
}

func newTable(existing ...string) *table {
	tbl := &table{slugs: make(map[uuid.UUID]string)}
	for _, s := range existing {
		tbl.slugs[uuid.New()] = s
	}
	return tbl
}

func (tbl *table) scan(base string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"slug"})
	for _, s := range tbl.slugs {
		if s == base || strings.HasPrefix(s, base+"-") {
			rows.AddRow(s)
		}
	}
	return rows
}

func publishCmd(docID uuid.UUID, title string) trainings.PublishCommand {
	return trainings.PublishCommand{
		DocumentID:   docID,
		Title:        title,
		Audience:     classifier.AudienceAll,
		PassingScore: 80,
		RewardWeight: 1,
	}
}

func upsertArgs(slug string) []driver.Value {
	args := make([]driver.Value, 12)
	for i := range args {
		args[i] = sqlmock.AnyArg()
	}
	args[2] = slugArg(slug)
	return args
}

type slugArg string

func (s slugArg) Match(v driver.Value) bool {
	got, ok := v.(string)
	return ok && got == string(s)
}

func trainingRow(id, docID uuid.UUID, title, slug string) *sqlmock.Rows {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return sqlmock.NewRows([]string{
		"id", "document_id", "title", "slug", "audience", "group_id", "required", "published",
		"lessons", "knowledge_checks", "assessments", "lesson_count", "estimated_minutes",
		"passing_score", "reward_weight", "created_at", "updated_at",
	}).AddRow(
		id.String(), docID.String(), title, slug, "all", nil, false, true,
		[]byte("[]"), []byte("[]"), []byte("[]"), int64(0), int64(0),
		int64(80), int64(1), now, now,
	)
}

// expectPublish queues one successful transaction. The upsert must bind
// wantSlug, and the returned row carries storedSlug.
func expectPublish(mock sqlmock.Sqlmock, tbl *table, cmd trainings.PublishCommand, wantSlug, storedSlug string, created bool) uuid.UUID {
	id := uuid.New()
	base := trainings.Slugify(cmd.Title)

	mock.ExpectBegin()
	mock.ExpectQuery(slugScanSQL).
		WithArgs(base, base+"-%").
		WillReturnRows(tbl.scan(base))
	mock.ExpectQuery(upsertSQL).
		WithArgs(upsertArgs(wantSlug)...).
		WillReturnRows(sqlmock.NewRows([]string{"id", "inserted"}).AddRow(id.String(), created))
	mock.ExpectQuery(findByIDSQL).
		WillReturnRows(trainingRow(id, cmd.DocumentID, cmd.Title, storedSlug))
	mock.ExpectCommit()

	if created {
		tbl.slugs[cmd.DocumentID] = storedSlug
	}
	return id
}

func expectSlugViolation(mock sqlmock.Sqlmock, tbl *table, cmd trainings.PublishCommand, wantSlug string) {
	base := trainings.Slugify(cmd.Title)

	mock.ExpectBegin()
	mock.ExpectQuery(slugScanSQL).
		WithArgs(base, base+"-%").
		WillReturnRows(tbl.scan(base))
	mock.ExpectQuery(upsertSQL).
		WithArgs(upsertArgs(wantSlug)...).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "trainings_slug_key"})
	mock.ExpectRollback()
}

func TestPublishCreates(t *testing.T) {
	sys, mock := newRepo(t)
	tbl := newTable()
	cmd := publishCmd(uuid.New(), "Safe Sanctuary Policy")

	id := expectPublish(mock, tbl, cmd, "safe-sanctuary-policy", "safe-sanctuary-policy", true)

	result, err := sys.Publish(context.Background(), cmd)
	require.NoError(t, err)

	assert.True(t, result.Created)
	assert.Equal(t, id, result.Training.ID)
	assert.Equal(t, "safe-sanctuary-policy", result.Training.Slug)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPublishUpdateKeepsStoredSlug(t *testing.T) {
	sys, mock := newRepo(t)
	docID := uuid.New()
	tbl := newTable()
	tbl.slugs[docID] = "safe-sanctuary-policy"
	cmd := publishCmd(docID, "Safe Sanctuary Policy")

	// the candidate slug is computed but the conflict update leaves the row's slug alone
	expectPublish(mock, tbl, cmd, "safe-sanctuary-policy-1", "safe-sanctuary-policy", false)

	result, err := sys.Publish(context.Background(), cmd)
	require.NoError(t, err)

	assert.False(t, result.Created)
	assert.Equal(t, "safe-sanctuary-policy", result.Training.Slug)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPublishSharedBaseSlug(t *testing.T) {
	first := uuid.New()
	second := uuid.New()
	titles := map[uuid.UUID]string{
		first:  "Safe Sanctuary",
		second: "Safe Sanctuary!",
	}

	orders := []struct {
		name  string
		order []uuid.UUID
	}{
		{"first then second", []uuid.UUID{first, second}},
		{"second then first", []uuid.UUID{second, first}},
	}

	for _, o := range orders {
		t.Run(o.name, func(t *testing.T) {
			sys, mock := newRepo(t)
			// matches the LIKE pattern but not the numeric suffix scheme
			tbl := newTable("safe-sanctuary-policy")

			want := []string{"safe-sanctuary", "safe-sanctuary-1"}
			for i, docID := range o.order {
				cmd := publishCmd(docID, titles[docID])
				expectPublish(mock, tbl, cmd, want[i], want[i], true)

				result, err := sys.Publish(context.Background(), cmd)
				require.NoError(t, err)
				assert.True(t, result.Created)
				assert.Equal(t, want[i], result.Training.Slug)
			}

			assert.Equal(t, "safe-sanctuary", tbl.slugs[o.order[0]])
			assert.Equal(t, "safe-sanctuary-1", tbl.slugs[o.order[1]])
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPublishRetriesSlugCollision(t *testing.T) {
	sys, mock := newRepo(t)
	tbl := newTable()
	cmd := publishCmd(uuid.New(), "Greeter Ministry Manual")

	// a concurrent publish takes the base slug between the scan and the insert
	expectSlugViolation(mock, tbl, cmd, "greeter-ministry-manual")
	tbl.slugs[uuid.New()] = "greeter-ministry-manual"
	expectPublish(mock, tbl, cmd, "greeter-ministry-manual-1", "greeter-ministry-manual-1", true)

	result, err := sys.Publish(context.Background(), cmd)
	require.NoError(t, err)

	assert.True(t, result.Created)
	assert.Equal(t, "greeter-ministry-manual-1", result.Training.Slug)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPublishSlugRetriesExhausted(t *testing.T) {
	sys, mock := newRepo(t)
	tbl := newTable()
	cmd := publishCmd(uuid.New(), "Greeter Ministry Manual")

	for range 5 {
		expectSlugViolation(mock, tbl, cmd, "greeter-ministry-manual")
	}

	_, err := sys.Publish(context.Background(), cmd)
	assert.ErrorIs(t, err, trainings.ErrSlugConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPublishOtherUniqueViolation(t *testing.T) {
	sys, mock := newRepo(t)
	cmd := publishCmd(uuid.New(), "Greeter Ministry Manual")

	mock.ExpectBegin()
	mock.ExpectQuery(slugScanSQL).WillReturnRows(sqlmock.NewRows([]string{"slug"}))
	mock.ExpectQuery(upsertSQL).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "trainings_other_key"})
	mock.ExpectRollback()

	_, err := sys.Publish(context.Background(), cmd)
	assert.ErrorIs(t, err, trainings.ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPublishScanFailure(t *testing.T) {
	sys, mock := newRepo(t)
	cmd := publishCmd(uuid.New(), "Greeter Ministry Manual")

	mock.ExpectBegin()
	mock.ExpectQuery(slugScanSQL).WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	_, err := sys.Publish(context.Background(), cmd)
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.NoError(t, mock.ExpectationsWereMet())
}
