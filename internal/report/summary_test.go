package report

import (
	"testing"
	"time"

	"github.com/aglmct/tracker/internal/domain"
	"github.com/aglmct/tracker/internal/ptr"
	"github.com/aglmct/tracker/internal/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2025, 6, 15, 14, 0, 0, 0, time.UTC)

func daysAgo(n int) *time.Time {
	return ptr.To(today.AddDate(0, 0, -n).Add(-3 * time.Hour))
}

func TestSummarize(t *testing.T) {
	tasks := []domain.PPMTask{
		{ID: "1", DueDate: "2025-06-10", Status: domain.StatusNotStarted},
		{ID: "2", DueDate: "2025-06-10", Status: domain.StatusInProgress, Photos: []domain.Photo{{Name: "a"}}},
		{ID: "3", DueDate: "2025-06-10", Status: domain.StatusCompleted, LastCompleted: daysAgo(0)},
		{ID: "4", DueDate: "2025-06-20", Status: domain.StatusNotStarted, LastCompleted: daysAgo(7)},
		{ID: "5", DueDate: "2025-06-20", Status: domain.StatusNotStarted, LastCompleted: daysAgo(8)},
		{ID: "6", DueDate: "2025-06-15", Status: "Awaiting Parts", Photos: []domain.Photo{{Name: "b"}, {Name: "c"}}},
	}

	got := Summarize(tasks, today)
	assert.Equal(t, Summary{
		Total:             6,
		Completed:         1,
		InProgress:        1,
		NotStarted:        3,
		Overdue:           2,
		WithPhotos:        2,
		RecentlyCompleted: 2,
	}, got)
}

func TestSummarize_OverdueAgreesWithClassifier(t *testing.T) {
	var tasks []domain.PPMTask
	for offset := -5; offset <= 5; offset++ {
		due := domain.FormatDate(domain.DateOf(today).AddDate(0, 0, offset))
		for _, st := range []domain.ManualStatus{domain.StatusNotStarted, domain.StatusInProgress, domain.StatusCompleted} {
			tasks = append(tasks, domain.PPMTask{DueDate: due, Status: st})
		}
	}

	want := 0
	for _, c := range status.ClassifyAll(tasks, today) {
		if c.Status.Class == status.ClassOverdue {
			want++
		}
	}
	assert.Equal(t, want, Summarize(tasks, today).Overdue)
	assert.Equal(t, 10, want)
}

func TestCompletedRecently_FutureCompletionIsNotRecent(t *testing.T) {
	future := domain.PPMTask{LastCompleted: ptr.To(today.AddDate(0, 0, 2))}
	assert.False(t, CompletedRecently(future, today))
	assert.False(t, CompletedRecently(domain.PPMTask{}, today))
}

func TestRecentUpdates(t *testing.T) {
	tasks := []domain.PPMTask{
		{ID: "never"},
		{ID: "old", LastCompleted: daysAgo(30)},
		{ID: "new", LastCompleted: daysAgo(0)},
		{ID: "mid", LastCompleted: daysAgo(3)},
	}

	ids := func(ts []domain.PPMTask) []domain.TaskID {
		var out []domain.TaskID
		for _, t := range ts {
			out = append(out, t.ID)
		}
		return out
	}

	assert.Equal(t, []domain.TaskID{"new", "mid", "old"}, ids(RecentUpdates(tasks, 0)))
	assert.Equal(t, []domain.TaskID{"new", "mid"}, ids(RecentUpdates(tasks, 2)))
	assert.Empty(t, RecentUpdates(nil, 5))
}

func TestFilterByDueRange(t *testing.T) {
	tasks := []domain.PPMTask{
		{ID: "before", DueDate: "2025-05-31"},
		{ID: "start", DueDate: "2025-06-01"},
		{ID: "inside", DueDate: "2025-06-15"},
		{ID: "end", DueDate: "2025-06-30"},
		{ID: "after", DueDate: "2025-07-01"},
	}

	got, err := FilterByDueRange(tasks, "2025-06-01", "2025-06-30")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, domain.TaskID("start"), got[0].ID)
	assert.Equal(t, domain.TaskID("end"), got[2].ID)

	single, err := FilterByDueRange(tasks, "2025-06-15", "2025-06-15")
	require.NoError(t, err)
	assert.Len(t, single, 1)
}

func TestFilterByDueRange_Validation(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
	}{
		{"reversed", "2025-06-30", "2025-06-01"},
		{"invalid start", "2025-06-31", "2025-07-01"},
		{"invalid end", "2025-06-01", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FilterByDueRange(nil, tt.from, tt.to)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestCurrentMonth(t *testing.T) {
	tests := []struct {
		now      time.Time
		from, to string
	}{
		{today, "2025-06-01", "2025-06-30"},
		{time.Date(2024, 2, 29, 23, 59, 0, 0, time.UTC), "2024-02-01", "2024-02-29"},
		{time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), "2025-12-01", "2025-12-31"},
	}
	for _, tt := range tests {
		from, to := CurrentMonth(tt.now)
		assert.Equal(t, tt.from, from)
		assert.Equal(t, tt.to, to)
	}
}

func TestTimeAgo(t *testing.T) {
	assert.Equal(t, "Today", TimeAgo(0))
	assert.Equal(t, "Yesterday", TimeAgo(1))
	assert.Equal(t, "4 days ago", TimeAgo(4))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 45))
	long := "PPM for Approach Lighting System Unit 14 at Runway 08L Threshold"
	got := truncate(long, 45)
	assert.Len(t, []rune(got), 45)
	assert.Equal(t, long[:42]+"...", got)
	assert.Equal(t, "ééé...", truncate("éééééééé", 6))
}
