package calls

import (
	"sort"
	"strings"
	"time"

	"github.com/teamdesk/calldesk-backend/pkg/db/models"
	"github.com/teamdesk/calldesk-backend/pkg/enums"
)

// SortCalls orders the board view: in-progress work before done, then by
// date ascending, then by intra-day time priority. The sort is stable so
// equal rows keep their stored order.
func SortCalls(rows []CallDTO) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Status.SortOrder() != b.Status.SortOrder() {
			return a.Status.SortOrder() < b.Status.SortOrder()
		}
		dateA, timeA := SplitDateTime(a.DateTime)
		dateB, timeB := SplitDateTime(b.DateTime)
		if dateA != dateB {
			return dateA < dateB
		}
		return TimePriority(timeA) < TimePriority(timeB)
	})
}

// FoldCustomerID normalizes a customer identifier for duplicate matching.
func FoldCustomerID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// DuplicateCustomerIDs returns the folded customer ids that appear on two
// or more of the given requests, sorted for stable output.
func DuplicateCustomerIDs(rows []CallDTO) []string {
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		folded := FoldCustomerID(row.CustomerID)
		if folded == "" {
			continue
		}
		counts[folded]++
	}
	out := make([]string, 0)
	for id, n := range counts {
		if n > 1 {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// UnreadCount counts qualifying requests created after lastViewed. With no
// recorded timestamp every qualifying request counts as unread.
func UnreadCount(rows []CallDTO, lastViewed *time.Time, qualifies func(CallDTO) bool) int {
	count := 0
	for _, row := range rows {
		if !qualifies(row) {
			continue
		}
		if lastViewed != nil && !row.CreatedAt.After(*lastViewed) {
			continue
		}
		count++
	}
	return count
}

// OverdueByAssignee groups in-progress requests dated before today by
// assignee. Names in exclude (deleted users) are skipped.
func OverdueByAssignee(rows []CallDTO, today string, exclude map[string]bool) []OverdueMember {
	grouped := map[string][]CallDTO{}
	for _, row := range rows {
		if row.Status != enums.CallStatusInProgress {
			continue
		}
		date, _ := SplitDateTime(row.DateTime)
		if date == "" || date >= today {
			continue
		}
		if exclude[row.Assignee] {
			continue
		}
		grouped[row.Assignee] = append(grouped[row.Assignee], row)
	}

	names := make([]string, 0, len(grouped))
	for name := range grouped {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]OverdueMember, 0, len(names))
	for _, name := range names {
		out = append(out, OverdueMember{Assignee: name, Calls: grouped[name]})
	}
	return out
}

// MissingNextMonthSchedule lists members with no off-day entries for the
// upcoming month. Surfaced only from the 28th onward, when schedules for
// the next month are expected to be in.
func MissingNextMonthSchedule(users []models.User, now time.Time) []string {
	if now.Day() < 28 {
		return nil
	}
	nextMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).
		AddDate(0, 1, 0).Format("2006-01")

	missing := make([]string, 0)
	for _, user := range users {
		found := false
		for _, day := range user.NonWorkingDays {
			if strings.HasPrefix(day, nextMonth) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, user.Name)
		}
	}
	sort.Strings(missing)
	return missing
}
