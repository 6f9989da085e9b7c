package calls

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamdesk/calldesk-backend/pkg/db/models"
	"github.com/teamdesk/calldesk-backend/pkg/enums"
)

func call(customerID, dateTime string, status enums.CallStatus) CallDTO {
	return CallDTO{
		CustomerID: customerID,
		DateTime:   dateTime,
		Status:     status,
	}
}

func TestSortCallsDoneAfterInProgress(t *testing.T) {
	rows := []CallDTO{
		call("a", "2026-01-01T09:00", enums.CallStatusDone),
		call("b", "2026-12-31T23:59", enums.CallStatusInProgress),
	}
	SortCalls(rows)

	assert.Equal(t, enums.CallStatusInProgress, rows[0].Status)
	assert.Equal(t, enums.CallStatusDone, rows[1].Status)
}

func TestSortCallsByDateThenTime(t *testing.T) {
	rows := []CallDTO{
		call("late", "2026-09-02T09:00", enums.CallStatusInProgress),
		call("no-time", "2026-09-01T"+TokenNoTime, enums.CallStatusInProgress),
		call("morning", "2026-09-01T09:05", enums.CallStatusInProgress),
		call("waiting", "2026-09-01T"+TokenWaiting, enums.CallStatusInProgress),
		call("noon", "2026-09-01T11:30", enums.CallStatusInProgress),
	}
	SortCalls(rows)

	got := make([]string, 0, len(rows))
	for _, row := range rows {
		got = append(got, row.CustomerID)
	}
	assert.Equal(t, []string{"waiting", "morning", "noon", "no-time", "late"}, got)
}

func TestDuplicateCustomerIDs(t *testing.T) {
	rows := []CallDTO{
		call("  C-100 ", "2026-09-01T09:00", enums.CallStatusInProgress),
		call("c-100", "2026-09-01T10:00", enums.CallStatusInProgress),
		call("C-200", "2026-09-01T11:00", enums.CallStatusInProgress),
		call("", "2026-09-01T12:00", enums.CallStatusInProgress),
		call("  ", "2026-09-01T13:00", enums.CallStatusInProgress),
	}

	dupes := DuplicateCustomerIDs(rows)
	assert.Equal(t, []string{"c-100"}, dupes)
}

func TestDuplicateCustomerIDsMembership(t *testing.T) {
	rows := []CallDTO{
		call("X", "2026-09-01T09:00", enums.CallStatusInProgress),
	}
	assert.Empty(t, DuplicateCustomerIDs(rows))

	rows = append(rows, call("x ", "2026-09-01T10:00", enums.CallStatusDone))
	assert.Equal(t, []string{"x"}, DuplicateCustomerIDs(rows))
}

func TestUnreadCount(t *testing.T) {
	base := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	rows := []CallDTO{
		{Assignee: "Alice", CreatedAt: base.Add(-time.Hour)},
		{Assignee: "Alice", CreatedAt: base.Add(time.Hour)},
		{Assignee: "Bob", CreatedAt: base.Add(time.Hour)},
	}
	mine := func(row CallDTO) bool { return row.Assignee == "Alice" }

	// No recorded view: every qualifying request is unread.
	assert.Equal(t, 2, UnreadCount(rows, nil, mine))

	// After marking viewed now, only later rows count.
	assert.Equal(t, 1, UnreadCount(rows, &base, mine))

	later := base.Add(2 * time.Hour)
	assert.Equal(t, 0, UnreadCount(rows, &later, mine))
}

func TestOverdueByAssignee(t *testing.T) {
	rows := []CallDTO{
		{Assignee: "Alice", DateTime: "2026-08-30T09:00", Status: enums.CallStatusInProgress},
		{Assignee: "Alice", DateTime: "2026-08-31T" + TokenUrgent, Status: enums.CallStatusInProgress},
		{Assignee: "Alice", DateTime: "2026-09-01T09:00", Status: enums.CallStatusInProgress},
		{Assignee: "Bob", DateTime: "2026-08-30T09:00", Status: enums.CallStatusDone},
		{Assignee: "Ghost", DateTime: "2026-08-30T09:00", Status: enums.CallStatusInProgress},
	}

	overdue := OverdueByAssignee(rows, "2026-09-01", map[string]bool{"Ghost": true})
	require.Len(t, overdue, 1)
	assert.Equal(t, "Alice", overdue[0].Assignee)
	assert.Len(t, overdue[0].Calls, 2)
}

func TestMissingNextMonthSchedule(t *testing.T) {
	users := []models.User{
		{Name: "Alice", NonWorkingDays: []string{"2026-10-05"}},
		{Name: "Bob", NonWorkingDays: []string{"2026-09-20"}},
		{Name: "Carol"},
	}

	// Before the 28th nothing is surfaced.
	early := time.Date(2026, 9, 15, 9, 0, 0, 0, time.UTC)
	assert.Nil(t, MissingNextMonthSchedule(users, early))

	late := time.Date(2026, 9, 28, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, []string{"Bob", "Carol"}, MissingNextMonthSchedule(users, late))
}
