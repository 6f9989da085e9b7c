package notifier

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamdesk/calldesk-backend/internal/calls"
	"github.com/teamdesk/calldesk-backend/internal/views"
	"github.com/teamdesk/calldesk-backend/pkg/config"
	"github.com/teamdesk/calldesk-backend/pkg/db/models"
	"github.com/teamdesk/calldesk-backend/pkg/enums"
)

type fakeLister struct {
	rows []models.CallRequest
}

func (f *fakeLister) ListByStatus(_ context.Context, status enums.CallStatus) ([]models.CallRequest, error) {
	out := make([]models.CallRequest, 0)
	for _, row := range f.rows {
		if row.Status == status {
			out = append(out, row)
		}
	}
	return out, nil
}

type fakeSettings struct {
	byUser  map[string]*views.NotificationSettings
	failFor string
}

func (f *fakeSettings) NotificationSettings(_ context.Context, userName string) (*views.NotificationSettings, error) {
	if f.failFor != "" && userName == f.failFor {
		return nil, errors.New("settings store down")
	}
	if settings, ok := f.byUser[userName]; ok {
		return settings, nil
	}
	defaults := views.DefaultNotificationSettings()
	return &defaults, nil
}

type fakeMarkers struct {
	seen       map[string]bool
	failSubstr string
}

func newFakeMarkers() *fakeMarkers {
	return &fakeMarkers{seen: map[string]bool{}}
}

func (f *fakeMarkers) SetNX(_ context.Context, key string, _ any, _ time.Duration) (bool, error) {
	if f.failSubstr != "" && strings.Contains(key, f.failSubstr) {
		return false, errors.New("marker store down")
	}
	if f.seen[key] {
		return false, nil
	}
	f.seen[key] = true
	return true, nil
}

func (f *fakeMarkers) NotifyMarkerKey(callID, timing string) string {
	return "cd:notify_sent:" + callID + ":" + timing
}

type fakeSink struct {
	notifications []string
}

func (f *fakeSink) PublishNotification(_ context.Context, target, title, _ string) {
	f.notifications = append(f.notifications, target+":"+title)
}

func inProgressCall(customerID, assignee, dateTime string) models.CallRequest {
	return models.CallRequest{
		ID:         uuid.New(),
		CustomerID: customerID,
		Requester:  "Alice",
		Assignee:   assignee,
		Rank:       enums.RankFollowUp,
		DateTime:   dateTime,
		Status:     enums.CallStatusInProgress,
	}
}

func newTestNotifier(t *testing.T, lister *fakeLister, settings *fakeSettings, now time.Time) (*Service, *fakeSink, *fakeMarkers) {
	t.Helper()
	if settings == nil {
		settings = &fakeSettings{byUser: map[string]*views.NotificationSettings{}}
	}
	sink := &fakeSink{}
	markers := newFakeMarkers()
	cfg := config.NotifierConfig{
		Interval:     15 * time.Second,
		FiringWindow: 30 * time.Second,
		MarkerTTL:    12 * time.Hour,
	}
	svc, err := NewService(lister, settings, markers, sink, nil, nil, cfg)
	require.NoError(t, err)
	svc.loc = time.UTC
	svc.now = func() time.Time { return now }
	return svc, sink, markers
}

func TestScanFiresInsideWindow(t *testing.T) {
	now := time.Date(2026, 9, 1, 11, 30, 10, 0, time.UTC)
	lister := &fakeLister{rows: []models.CallRequest{
		inProgressCall("C-100", "Bob", "2026-09-01T11:30"),
	}}
	svc, sink, _ := newTestNotifier(t, lister, nil, now)

	fired, err := svc.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, fired)
	assert.Equal(t, []string{"Bob:Call C-100"}, sink.notifications)
}

func TestScanFiresOncePerCallAndTiming(t *testing.T) {
	now := time.Date(2026, 9, 1, 11, 30, 10, 0, time.UTC)
	lister := &fakeLister{rows: []models.CallRequest{
		inProgressCall("C-100", "Bob", "2026-09-01T11:30"),
	}}
	svc, sink, _ := newTestNotifier(t, lister, nil, now)
	ctx := context.Background()

	fired, err := svc.Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, fired)

	// A second pass inside the same window must not refire.
	fired, err = svc.Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, fired)
	assert.Len(t, sink.notifications, 1)
}

func TestScanRespectsWindowEdges(t *testing.T) {
	lister := &fakeLister{rows: []models.CallRequest{
		inProgressCall("C-100", "Bob", "2026-09-01T11:30"),
	}}

	// One second before the target: nothing.
	early := time.Date(2026, 9, 1, 11, 29, 59, 0, time.UTC)
	svc, sink, _ := newTestNotifier(t, lister, nil, early)
	fired, err := svc.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, fired)
	assert.Empty(t, sink.notifications)

	// The window is half-open: exactly target+window no longer fires.
	late := time.Date(2026, 9, 1, 11, 30, 30, 0, time.UTC)
	svc, sink, _ = newTestNotifier(t, lister, nil, late)
	fired, err = svc.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, fired)
	assert.Empty(t, sink.notifications)
}

func TestScanSkipsSentinelTimes(t *testing.T) {
	now := time.Date(2026, 9, 1, 11, 30, 10, 0, time.UTC)
	lister := &fakeLister{rows: []models.CallRequest{
		inProgressCall("C-1", "Bob", "2026-09-01T"+calls.TokenUrgent),
		inProgressCall("C-2", "Bob", "2026-09-01T"+calls.TokenWaiting),
		inProgressCall("C-3", "Bob", "2026-09-01"),
	}}
	svc, sink, _ := newTestNotifier(t, lister, nil, now)

	fired, err := svc.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, fired)
	assert.Empty(t, sink.notifications)
}

func TestScanHonorsDisabledSettings(t *testing.T) {
	now := time.Date(2026, 9, 1, 11, 30, 10, 0, time.UTC)
	lister := &fakeLister{rows: []models.CallRequest{
		inProgressCall("C-100", "Bob", "2026-09-01T11:30"),
	}}
	settings := &fakeSettings{byUser: map[string]*views.NotificationSettings{
		"Bob": {Enabled: false, Timings: []enums.NotifyTiming{enums.NotifyTimingExact}},
	}}
	svc, sink, _ := newTestNotifier(t, lister, settings, now)

	fired, err := svc.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, fired)
	assert.Empty(t, sink.notifications)
}

func TestScanSurvivesSettingsFailure(t *testing.T) {
	now := time.Date(2026, 9, 1, 11, 30, 10, 0, time.UTC)
	lister := &fakeLister{rows: []models.CallRequest{
		inProgressCall("C-1", "Bob", "2026-09-01T11:30"),
		inProgressCall("C-2", "Carol", "2026-09-01T11:30"),
	}}
	settings := &fakeSettings{failFor: "Bob"}
	svc, sink, _ := newTestNotifier(t, lister, settings, now)

	fired, err := svc.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, fired)
	assert.Equal(t, []string{"Carol:Call C-2"}, sink.notifications,
		"one broken member must not block the others")
}

func TestScanSurvivesMarkerFailure(t *testing.T) {
	now := time.Date(2026, 9, 1, 11, 30, 10, 0, time.UTC)
	rows := []models.CallRequest{
		inProgressCall("C-1", "Bob", "2026-09-01T11:30"),
		inProgressCall("C-2", "Carol", "2026-09-01T11:30"),
	}
	lister := &fakeLister{rows: rows}
	svc, sink, markers := newTestNotifier(t, lister, nil, now)
	markers.failSubstr = rows[0].ID.String()

	fired, err := svc.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, fired)
	assert.Equal(t, []string{"Carol:Call C-2"}, sink.notifications)
}

func TestScanLeadTimings(t *testing.T) {
	// 11:25:10 with a 5 minute lead on an 11:30 call is inside the window.
	now := time.Date(2026, 9, 1, 11, 25, 10, 0, time.UTC)
	lister := &fakeLister{rows: []models.CallRequest{
		inProgressCall("C-100", "Bob", "2026-09-01T11:30"),
	}}
	settings := &fakeSettings{byUser: map[string]*views.NotificationSettings{
		"Bob": {Enabled: true, Timings: []enums.NotifyTiming{enums.NotifyTiming5Min}},
	}}
	svc, sink, markers := newTestNotifier(t, lister, settings, now)

	fired, err := svc.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, fired)
	assert.Len(t, sink.notifications, 1)
	assert.Len(t, markers.seen, 1)
}
