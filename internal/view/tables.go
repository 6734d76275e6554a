package view

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aglmct/tracker/internal/application/maintenance"
	"github.com/aglmct/tracker/internal/domain"
	"github.com/aglmct/tracker/internal/photo"
	"github.com/aglmct/tracker/internal/report"
	"github.com/aglmct/tracker/internal/status"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var ppmHeaders = []string{"ID", "Shift", "Description", "Type", "Due Date", "Frequency", "Status", "Day Shift", "Night Shift", "Photos"}

// statusCol is the index of the Status column in ppmHeaders.
const statusCol = 6

var cmHeaders = []string{"ID", "Work Order", "Description", "Location", "Reported By", "Reported", "Priority", "Assigned To", "Status"}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorBorder)).
		Headers(headers...)
}

// PPMTable renders classified tasks in the given order.
func PPMTable(tasks []status.Classified) string {
	if len(tasks) == 0 {
		return HelpStyle.Render("No tasks found")
	}

	rows := make([][]string, len(tasks))
	for i, c := range tasks {
		t := c.Task
		rows[i] = []string{
			ShortID(t.ID),
			domain.OrNA(t.ShiftType),
			domain.OrDefault(t.Description, "No description"),
			domain.OrNA(t.Type),
			domain.DisplayDate(t.DueDate),
			domain.OrDefault(t.Frequency, "N/A"),
			c.Status.Label(),
			domain.OrNA(t.DayShift),
			domain.OrNA(t.NightShift),
			photoCount(len(t.Photos)),
		}
	}

	return newTable(ppmHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return tableHeaderStyle
			case col == statusCol:
				return StatusStyle(tasks[row].Status.Class)
			case col == 4 && tasks[row].Status.Priority == status.PriorityOverdue:
				return cellStyle.Bold(true).Foreground(ColorRed)
			default:
				return cellStyle
			}
		}).
		String()
}

// CMTable renders work orders in the given order.
func CMTable(tasks []domain.CMTask) string {
	if len(tasks) == 0 {
		return HelpStyle.Render("No work orders found")
	}

	rows := make([][]string, len(tasks))
	for i, t := range tasks {
		rows[i] = []string{
			ShortID(t.ID),
			domain.OrNA(t.WorkOrder),
			domain.OrDefault(t.Description, "No description"),
			domain.OrNA(t.Location),
			domain.OrNA(t.ReportedBy),
			domain.DisplayDate(t.DateReported),
			domain.OrNA(t.Priority),
			domain.OrNA(t.AssignedTo),
			string(t.Status),
		}
	}

	return newTable(cmHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return tableHeaderStyle
			case col == len(cmHeaders)-1:
				return CMStatusStyle(tasks[row].Status)
			default:
				return cellStyle
			}
		}).
		String()
}

// DashboardView renders the headline counters.
func DashboardView(d maintenance.Dashboard) string {
	card := func(label string, n int, color lipgloss.AdaptiveColor) string {
		return lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(color).
			Padding(0, 2).
			Align(lipgloss.Center).
			Render(lipgloss.NewStyle().Bold(true).Foreground(color).Render(strconv.Itoa(n)) + "\n" + label)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		card("Due Today", d.DueToday, ColorOrange),
		card("Overdue", d.Overdue, ColorRed),
		card("In Progress", d.InProgress, ColorBlue),
		card("Open CM", d.OpenCM, ColorYellow),
	)
}

// TaskDetail renders every field of one task, its display status and photos.
func TaskDetail(c status.Classified, now time.Time) string {
	t := c.Task
	lastCompleted := "Never"
	if t.LastCompleted != nil {
		lastCompleted = t.LastCompleted.In(now.Location()).Format("1/2/2006, 3:04:05 PM")
	}

	lines := [][2]string{
		{"ID", string(t.ID)},
		{"Description", domain.OrDefault(t.Description, "No description")},
		{"Shift", domain.OrNA(t.ShiftType)},
		{"Type", domain.OrNA(t.Type)},
		{"Due Date", domain.DisplayDate(t.DueDate)},
		{"Frequency", domain.OrDefault(t.Frequency, "N/A")},
		{"Status", StatusStyle(c.Status.Class).UnsetPadding().Render(c.Status.Label())},
		{"Day Shift", domain.OrNA(t.DayShift)},
		{"Night Shift", domain.OrNA(t.NightShift)},
		{"Last Completed", lastCompleted},
		{"Updates", report.UpdateLine(t, now)},
	}

	var b strings.Builder
	b.WriteString(HeaderStyle.Render("PPM Task"))
	b.WriteByte('\n')
	label := lipgloss.NewStyle().Bold(true).Width(16)
	for _, l := range lines {
		b.WriteString(label.Render(l[0]) + l[1] + "\n")
	}
	for i, p := range t.Photos {
		fmt.Fprintf(&b, "  [%d] %s %s (uploaded %s)\n", i, p.Name, photo.MediaType(p), p.Timestamp.In(now.Location()).Format("1/2/2006, 3:04:05 PM"))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// SummaryView renders report counters.
func SummaryView(s report.Summary, from, to string) string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render(fmt.Sprintf("Report %s to %s", domain.DisplayDate(from), domain.DisplayDate(to))))
	b.WriteByte('\n')
	rows := [][2]string{
		{"Total Tasks", strconv.Itoa(s.Total)},
		{"Completed", strconv.Itoa(s.Completed)},
		{"In Progress", strconv.Itoa(s.InProgress)},
		{"Not Started", strconv.Itoa(s.NotStarted)},
		{"Overdue", strconv.Itoa(s.Overdue)},
		{"Tasks with Photos", strconv.Itoa(s.WithPhotos)},
		{"Completed (7 days)", strconv.Itoa(s.RecentlyCompleted)},
	}
	label := lipgloss.NewStyle().Width(20)
	for _, r := range rows {
		b.WriteString(label.Render(r[0]) + r[1] + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// HistoryTable renders recent completions with their age.
func HistoryTable(tasks []domain.PPMTask, now time.Time) string {
	if len(tasks) == 0 {
		return HelpStyle.Render("No completions recorded")
	}

	rows := make([][]string, len(tasks))
	for i, t := range tasks {
		ago := ""
		if days, ok := report.DaysSinceCompleted(t, now); ok {
			ago = report.TimeAgo(days)
		}
		rows[i] = []string{
			ShortID(t.ID),
			domain.OrDefault(t.Description, "No description"),
			t.LastCompleted.In(now.Location()).Format("1/2/2006, 3:04:05 PM"),
			ago,
			domain.DisplayDate(t.DueDate),
		}
	}
	return newTable("ID", "Description", "Completed", "When", "Next Due").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return cellStyle
		}).
		String()
}

// ShortID abbreviates long generated ids for table display. Generated ids
// share their leading timestamp bits, so the random tail is shown.
func ShortID(id domain.TaskID) string {
	s := string(id)
	if len(s) > shortIDLen {
		return s[len(s)-shortIDLen:]
	}
	return s
}

const shortIDLen = 8

func photoCount(n int) string {
	if n == 0 {
		return "No photos"
	}
	return fmt.Sprintf("📷 %d", n)
}
