package calls

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/teamdesk/calldesk-backend/pkg/db/models"
	dbtypes "github.com/teamdesk/calldesk-backend/pkg/db/types"
	"github.com/teamdesk/calldesk-backend/pkg/enums"
)

func setupCallsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS call_requests (
  id TEXT PRIMARY KEY,
  customer_id TEXT NOT NULL,
  requester TEXT NOT NULL,
  assignee TEXT NOT NULL,
  list_type TEXT NOT NULL DEFAULT '',
  rank TEXT NOT NULL,
  date_time TEXT NOT NULL,
  notes TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT 'in_progress',
  absence_count INTEGER NOT NULL DEFAULT 0,
  prechecker TEXT,
  imported INTEGER NOT NULL DEFAULT 0,
  history TEXT NOT NULL DEFAULT '[]',
  completed_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, conn.Exec(ddl).Error)
	return conn
}

func seedCall(t *testing.T, repo Repository, customerID, assignee string, status enums.CallStatus, completedAt *time.Time) *models.CallRequest {
	t.Helper()
	row, err := repo.Create(context.Background(), &models.CallRequest{
		CustomerID:  customerID,
		Requester:   "Alice",
		Assignee:    assignee,
		Rank:        enums.RankFollowUp,
		DateTime:    "2026-09-01T11:30",
		Status:      status,
		History:     dbtypes.HistoryLog{},
		CompletedAt: completedAt,
	})
	require.NoError(t, err)
	return row
}

func TestRepositoryCreateAndFind(t *testing.T) {
	repo := NewRepository(setupCallsTestDB(t))
	created := seedCall(t, repo, "C-100", "Bob", enums.CallStatusInProgress, nil)
	require.NotEqual(t, uuid.Nil, created.ID)

	found, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "C-100", found.CustomerID)
	assert.Equal(t, enums.CallStatusInProgress, found.Status)
	assert.Empty(t, found.History)
}

func TestRepositoryUpdateHistoryRoundTrip(t *testing.T) {
	repo := NewRepository(setupCallsTestDB(t))
	created := seedCall(t, repo, "C-100", "Bob", enums.CallStatusInProgress, nil)

	entry := dbtypes.EditEntry{
		Editor:    "Alice",
		Timestamp: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		Changes:   []dbtypes.EditChange{{Field: "notes", OldValue: "", NewValue: "call back"}},
	}
	err := repo.Update(context.Background(), created.ID, map[string]any{
		"notes":   "call back",
		"history": created.History.Prepend(entry),
	})
	require.NoError(t, err)

	found, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "call back", found.Notes)
	require.Len(t, found.History, 1)
	assert.Equal(t, "Alice", found.History[0].Editor)
	require.Len(t, found.History[0].Changes, 1)
	assert.Equal(t, "notes", found.History[0].Changes[0].Field)
}

func TestRepositoryDeleteCompletedBefore(t *testing.T) {
	repo := NewRepository(setupCallsTestDB(t))

	old := time.Date(2026, 8, 30, 15, 0, 0, 0, time.UTC)
	recent := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	seedCall(t, repo, "expired", "Bob", enums.CallStatusDone, &old)
	seedCall(t, repo, "fresh", "Bob", enums.CallStatusDone, &recent)
	seedCall(t, repo, "open", "Bob", enums.CallStatusInProgress, nil)

	cutoff := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	deleted, err := repo.DeleteCompletedBefore(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	rows, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.NotEqual(t, "expired", row.CustomerID)
	}
}

func TestRepositoryRewriteRequester(t *testing.T) {
	repo := NewRepository(setupCallsTestDB(t))
	seedCall(t, repo, "C-1", "Bob", enums.CallStatusInProgress, nil)
	seedCall(t, repo, "C-2", "Bob", enums.CallStatusInProgress, nil)

	rewritten, err := repo.RewriteRequester(context.Background(), "Alice", "Alice (deleted)")
	require.NoError(t, err)
	assert.Equal(t, int64(2), rewritten)

	rows, err := repo.List(context.Background())
	require.NoError(t, err)
	for _, row := range rows {
		assert.Equal(t, "Alice (deleted)", row.Requester)
	}
}

func TestRepositoryListByStatus(t *testing.T) {
	repo := NewRepository(setupCallsTestDB(t))
	now := time.Now()
	seedCall(t, repo, "open-1", "Bob", enums.CallStatusInProgress, nil)
	seedCall(t, repo, "done-1", "Bob", enums.CallStatusDone, &now)

	open, err := repo.ListByStatus(context.Background(), enums.CallStatusInProgress)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "open-1", open[0].CustomerID)
}
