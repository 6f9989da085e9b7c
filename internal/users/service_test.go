package users

import (
	"context"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/teamdesk/calldesk-backend/internal/calls"
	"github.com/teamdesk/calldesk-backend/pkg/db/models"
	"github.com/teamdesk/calldesk-backend/pkg/enums"
	pkgerrors "github.com/teamdesk/calldesk-backend/pkg/errors"
)

type fakeUserRepo struct {
	rows map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{rows: map[string]*models.User{}}
}

func (f *fakeUserRepo) WithTx(_ *gorm.DB) Repository { return f }

func (f *fakeUserRepo) FindByName(_ context.Context, name string) (*models.User, error) {
	user, ok := f.rows[name]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUserRepo) List(_ context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(f.rows))
	for _, user := range f.rows {
		out = append(out, *user)
	}
	return out, nil
}

func (f *fakeUserRepo) Upsert(_ context.Context, user *models.User) (*models.User, error) {
	clone := *user
	f.rows[user.Name] = &clone
	return user, nil
}

func (f *fakeUserRepo) Update(_ context.Context, name string, updates map[string]any) error {
	row, ok := f.rows[name]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for field, value := range updates {
		switch field {
		case "is_admin":
			row.IsAdmin = value.(bool)
		case "is_line_prechecker":
			row.IsLinePrechecker = value.(bool)
		case "is_super_admin":
			row.IsSuperAdmin = value.(bool)
		case "profile_picture":
			v := value.(string)
			row.ProfilePicture = &v
		case "availability_status":
			row.Availability = enums.Availability(value.(string))
		case "non_working_days":
			row.NonWorkingDays = value.(pq.StringArray)
		case "available_products":
			row.AvailableProducts = value.(pq.StringArray)
		case "comment":
			row.Comment = value.(string)
		case "comment_updated_at":
			row.CommentUpdatedAt = value.(*time.Time)
		case "password":
			row.Password = value.(string)
		}
	}
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, name string) error {
	delete(f.rows, name)
	return nil
}

type fakeRewriter struct {
	calls    []string
	affected int64
}

func (f *fakeRewriter) RewriteRequester(_ context.Context, oldName, newName string) (int64, error) {
	f.calls = append(f.calls, oldName+"->"+newName)
	return f.affected, nil
}

type recordingPublisher struct {
	tables []string
}

func (r *recordingPublisher) PublishTableChange(_ context.Context, table string) {
	r.tables = append(r.tables, table)
}

func newTestService(t *testing.T) (*service, *fakeUserRepo, *fakeRewriter) {
	t.Helper()
	repo := newFakeUserRepo()
	rewriter := &fakeRewriter{affected: 1}
	svc, err := NewService(repo, rewriter, nil)
	require.NoError(t, err)
	impl := svc.(*service)
	impl.now = func() time.Time { return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC) }
	return impl, repo, rewriter
}

func TestUpsertAndGet(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	dto, err := svc.Upsert(ctx, UpsertInput{Name: " Alice ", IsAdmin: true})
	require.NoError(t, err)
	assert.Equal(t, "Alice", dto.Name, "names are trimmed")
	assert.True(t, dto.IsAdmin)
	assert.Equal(t, enums.AvailabilityAvailable, dto.Availability)

	got, err := svc.Get(ctx, "Alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
}

func TestUpsertRejectsBlankName(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Upsert(context.Background(), UpsertInput{Name: "   "})
	require.Error(t, err)
	var typed *pkgerrors.Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestDeleteRewritesRequester(t *testing.T) {
	svc, repo, rewriter := newTestService(t)
	ctx := context.Background()

	_, err := svc.Upsert(ctx, UpsertInput{Name: "Alice"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "Alice"))
	assert.Empty(t, repo.rows)
	assert.Equal(t, []string{"Alice->Alice (deleted)"}, rewriter.calls)
}

func TestDeleteAnnouncesRewrittenCalls(t *testing.T) {
	repo := newFakeUserRepo()
	rewriter := &fakeRewriter{affected: 2}
	pub := &recordingPublisher{}
	svc, err := NewService(repo, rewriter, pub)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.Upsert(ctx, UpsertInput{Name: "Alice"})
	require.NoError(t, err)
	pub.tables = nil

	require.NoError(t, svc.Delete(ctx, "Alice"))
	assert.Equal(t, []string{TableName, calls.TableName}, pub.tables,
		"rewritten requester rows must trigger a call_requests refetch")
}

func TestDeleteWithoutCallsPublishesUsersOnly(t *testing.T) {
	repo := newFakeUserRepo()
	rewriter := &fakeRewriter{affected: 0}
	pub := &recordingPublisher{}
	svc, err := NewService(repo, rewriter, pub)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.Upsert(ctx, UpsertInput{Name: "Bob"})
	require.NoError(t, err)
	pub.tables = nil

	require.NoError(t, svc.Delete(ctx, "Bob"))
	assert.Equal(t, []string{TableName}, pub.tables)
}

func TestDeleteMissingUser(t *testing.T) {
	svc, _, rewriter := newTestService(t)

	err := svc.Delete(context.Background(), "Nobody")
	require.Error(t, err)
	var typed *pkgerrors.Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	assert.Empty(t, rewriter.calls, "no rewrite for a missing user")
}

func TestUpdateCommentStampsTimestamp(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Upsert(ctx, UpsertInput{Name: "Alice"})
	require.NoError(t, err)

	dto, err := svc.UpdateComment(ctx, "Alice", "back at 15:00")
	require.NoError(t, err)
	assert.Equal(t, "back at 15:00", dto.Comment)
	require.NotNil(t, dto.CommentUpdatedAt)
	assert.Equal(t, time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC), *dto.CommentUpdatedAt)
}

func TestUpdateAvailability(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Upsert(ctx, UpsertInput{Name: "Alice"})
	require.NoError(t, err)

	dto, err := svc.UpdateAvailability(ctx, "Alice", enums.AvailabilityUnavailableToday)
	require.NoError(t, err)
	assert.Equal(t, enums.AvailabilityUnavailableToday, dto.Availability)

	_, err = svc.UpdateAvailability(ctx, "Alice", enums.Availability("gone_fishing"))
	require.Error(t, err)
}

func TestUpdateNonWorkingDays(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Upsert(ctx, UpsertInput{Name: "Alice"})
	require.NoError(t, err)

	dto, err := svc.UpdateNonWorkingDays(ctx, "Alice", []string{"2026-10-05", "2026-10-06"})
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-10-05", "2026-10-06"}, dto.NonWorkingDays)
}

func TestUpdatePassword(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Upsert(ctx, UpsertInput{Name: "Alice", Password: "old"})
	require.NoError(t, err)

	require.NoError(t, svc.UpdatePassword(ctx, "Alice", "new"))
	assert.Equal(t, "new", repo.rows["Alice"].Password)
}
