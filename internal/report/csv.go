package report

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/aglmct/tracker/internal/domain"
)

// csvHeader lists the export columns in order.
var csvHeader = []string{
	"Shift Type", "Description", "Type", "Due Date", "Frequency",
	"Status", "Day Shift", "Night Shift", "Photo Count", "Last Completed",
}

// timestampLayout renders completion instants in reports.
const timestampLayout = "1/2/2006, 3:04:05 PM"

// CSVFileName is the name of the CSV export generated on the given day.
func CSVFileName(now time.Time) string {
	return "AGL_Maintenance_Report_" + domain.Today(now) + ".csv"
}

// WriteCSV writes one row per task with every cell quoted.
// Completion timestamps are rendered in now's location.
func WriteCSV(w io.Writer, tasks []domain.PPMTask, now time.Time) error {
	bw := bufio.NewWriter(w)

	writeCSVRow(bw, csvHeader)
	for _, t := range tasks {
		lastCompleted := "N/A"
		if t.LastCompleted != nil {
			lastCompleted = t.LastCompleted.In(now.Location()).Format(timestampLayout)
		}
		writeCSVRow(bw, []string{
			domain.OrNA(t.ShiftType),
			domain.OrDefault(t.Description, "No description"),
			domain.OrNA(t.Type),
			domain.OrNA(t.DueDate),
			domain.OrDefault(t.Frequency, "N/A"),
			domain.OrDefault(t.Status, "N/A"),
			domain.OrNA(t.DayShift),
			domain.OrNA(t.NightShift),
			strconv.Itoa(len(t.Photos)),
			lastCompleted,
		})
	}
	return bw.Flush()
}

// writeCSVRow quotes every cell and doubles embedded quotes.
// bufio.Writer keeps the first error, which Flush reports.
func writeCSVRow(w *bufio.Writer, cells []string) {
	for i, c := range cells {
		if i > 0 {
			w.WriteByte(',')
		}
		w.WriteByte('"')
		w.WriteString(strings.ReplaceAll(c, `"`, `""`))
		w.WriteByte('"')
	}
	w.WriteByte('\n')
}
