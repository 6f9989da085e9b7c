package views

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamdesk/calldesk-backend/pkg/enums"
)

type fakeKV struct {
	values map[string]string
}

func newFakeKV() *fakeKV {
	return &fakeKV{values: map[string]string{}}
}

func (f *fakeKV) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.values[key] = value.(string)
	return nil
}

func (f *fakeKV) GetOrEmpty(_ context.Context, key string) (string, error) {
	return f.values[key], nil
}

func (f *fakeKV) LastViewKey(userName, board string) string {
	return "cd:last_view:" + userName + ":" + board
}

func (f *fakeKV) NotifyPrefsKey(userName string) string {
	return "cd:notify_prefs:" + userName
}

func TestLastViewedRoundTrip(t *testing.T) {
	svc, err := NewService(newFakeKV())
	require.NoError(t, err)
	ctx := context.Background()

	// Never recorded: nil.
	at, err := svc.LastViewed(ctx, "Alice", BoardMine)
	require.NoError(t, err)
	assert.Nil(t, at)

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, svc.MarkViewed(ctx, "Alice", BoardMine, now))

	at, err = svc.LastViewed(ctx, "Alice", BoardMine)
	require.NoError(t, err)
	require.NotNil(t, at)
	assert.Equal(t, now.UnixMilli(), at.UnixMilli())

	// Boards are tracked independently.
	other, err := svc.LastViewed(ctx, "Alice", BoardPrecheck)
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestLastViewedRejectsUnknownBoard(t *testing.T) {
	svc, err := NewService(newFakeKV())
	require.NoError(t, err)

	_, err = svc.LastViewed(context.Background(), "Alice", Board("inbox"))
	assert.Error(t, err)
}

func TestNotificationSettingsDefaults(t *testing.T) {
	svc, err := NewService(newFakeKV())
	require.NoError(t, err)

	settings, err := svc.NotificationSettings(context.Background(), "Alice")
	require.NoError(t, err)
	assert.True(t, settings.Enabled)
	assert.Equal(t, []enums.NotifyTiming{enums.NotifyTimingExact}, settings.Timings)
}

func TestNotificationSettingsRoundTrip(t *testing.T) {
	svc, err := NewService(newFakeKV())
	require.NoError(t, err)
	ctx := context.Background()

	saved := NotificationSettings{
		Enabled: false,
		Timings: []enums.NotifyTiming{enums.NotifyTiming5Min, enums.NotifyTiming30Min},
	}
	require.NoError(t, svc.SaveNotificationSettings(ctx, "Alice", saved))

	loaded, err := svc.NotificationSettings(ctx, "Alice")
	require.NoError(t, err)
	assert.Equal(t, saved, *loaded)
}

func TestSaveNotificationSettingsValidatesTimings(t *testing.T) {
	svc, err := NewService(newFakeKV())
	require.NoError(t, err)

	bad := NotificationSettings{Enabled: true, Timings: []enums.NotifyTiming{"45min"}}
	assert.Error(t, svc.SaveNotificationSettings(context.Background(), "Alice", bad))
}
