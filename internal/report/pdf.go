package report

import (
	"fmt"
	"io"
	"time"

	"github.com/aglmct/tracker/internal/domain"
	"github.com/aglmct/tracker/internal/status"
	"github.com/go-pdf/fpdf"
)

const (
	coreFamily = "Helvetica"
	utf8Family = "TrackerSans"

	marginX      = 14.0
	topY         = 20.0
	bottomGap    = 40.0
	taskBoxH     = 30.0
	recentDescN  = 45
	detailDescN  = 55
	confidential = "AGL MCT Airfield - Confidential"
)

// RGB is a text colour.
type RGB struct{ R, G, B int }

// StatusColor maps a display status class to the severity colour used in PDF reports.
func StatusColor(class string) RGB {
	switch class {
	case status.ClassOverdue:
		return RGB{220, 53, 69}
	case status.ClassDueToday:
		return RGB{255, 153, 0}
	case status.ClassCompleted:
		return RGB{40, 167, 69}
	case status.ClassInProgress:
		return RGB{0, 123, 255}
	case status.ClassUpcoming:
		return RGB{255, 193, 7}
	default:
		return RGB{108, 117, 125}
	}
}

// PDFFileName is the name of the PDF export for a date range.
func PDFFileName(from, to string) string {
	return fmt.Sprintf("AGL_Maintenance_Report_%s_to_%s.pdf", from, to)
}

// pdfFormatter typesets reports. It is built once by Exporter and reused.
type pdfFormatter struct {
	// ttf is an optional TrueType font; nil means the core Helvetica with
	// cp1252 translation, which cannot show status badges.
	ttf []byte
	tr  func(string) string
}

func newPDFFormatter(font []byte) (*pdfFormatter, error) {
	probe := fpdf.New("P", "mm", "A4", "")
	f := &pdfFormatter{ttf: font}
	if font != nil {
		probe.AddUTF8FontFromBytes(utf8Family, "", font)
		probe.SetFont(utf8Family, "", 10)
		f.tr = func(s string) string { return s }
	} else {
		f.tr = probe.UnicodeTranslatorFromDescriptor("")
	}
	if err := probe.Error(); err != nil {
		return nil, err
	}
	return f, nil
}

// pdfDoc carries the document being written and the vertical cursor.
type pdfDoc struct {
	*pdfFormatter
	pdf  *fpdf.Fpdf
	w, h float64
	y    float64
}

func (f *pdfFormatter) newDoc(now time.Time) *pdfDoc {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AliasNbPages("")
	pdf.SetCreationDate(now)
	pdf.SetTitle("AGL MCT Maintenance Tracker Report", true)
	if f.ttf != nil {
		pdf.AddUTF8FontFromBytes(utf8Family, "", f.ttf)
		pdf.AddUTF8FontFromBytes(utf8Family, "B", f.ttf)
	}
	w, h := pdf.GetPageSize()
	d := &pdfDoc{pdfFormatter: f, pdf: pdf, w: w, h: h, y: topY}

	pdf.SetFooterFunc(func() {
		d.font("", 8)
		d.pdf.SetTextColor(0, 0, 0)
		d.centered(h-10, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()))
		d.text(marginX, h-10, confidential)
	})
	pdf.AddPage()
	return d
}

func (d *pdfDoc) font(style string, size float64) {
	family := coreFamily
	if d.ttf != nil {
		family = utf8Family
	}
	d.pdf.SetFont(family, style, size)
}

func (d *pdfDoc) text(x, y float64, s string) {
	d.pdf.Text(x, y, d.tr(s))
}

func (d *pdfDoc) centered(y float64, s string) {
	s = d.tr(s)
	d.pdf.Text((d.w-d.pdf.GetStringWidth(s))/2, y, s)
}

// label prefixes s with a symbol when the font can render it.
func (d *pdfDoc) label(symbol, s string) string {
	if d.ttf == nil {
		return s
	}
	return symbol + " " + s
}

func (d *pdfDoc) field(x, valueX float64, name, value string) {
	d.font("B", 8)
	d.text(x, d.y, name)
	d.font("", 8)
	d.text(valueX, d.y, value)
}

// write renders the full report for tasks already filtered to [from, to].
func (f *pdfFormatter) write(w io.Writer, tasks []domain.PPMTask, from, to string, now time.Time) error {
	d := f.newDoc(now)
	sum := Summarize(tasks, now)

	d.header(from, to, now, len(tasks))
	d.summary(sum)
	if sum.RecentlyCompleted > 0 {
		d.recentUpdates(tasks, now)
	}
	d.details(tasks, now)

	if err := d.pdf.Error(); err != nil {
		return fmt.Errorf("failed to render PDF: %w", err)
	}
	return d.pdf.Output(w)
}

func (d *pdfDoc) header(from, to string, now time.Time, total int) {
	d.font("B", 18)
	d.centered(d.y, "AGL MCT AIRFIELD")
	d.y += 8

	d.font("B", 16)
	d.centered(d.y, "MAINTENANCE TRACKER REPORT")
	d.y += 15

	d.font("", 10)
	d.text(marginX, d.y, fmt.Sprintf("Report Period: %s to %s", domain.DisplayDate(from), domain.DisplayDate(to)))
	d.y += 6
	d.text(marginX, d.y, "Generated: "+now.Format(timestampLayout))
	d.y += 6
	d.text(marginX, d.y, fmt.Sprintf("Total Tasks: %d", total))
	d.y += 10
}

func (d *pdfDoc) summary(sum Summary) {
	d.font("B", 12)
	d.text(marginX, d.y, "SUMMARY")
	d.y += 8

	d.font("", 10)
	lines := []struct {
		symbol, text string
	}{
		{"✓", fmt.Sprintf("Completed: %d", sum.Completed)},
		{"⏳", fmt.Sprintf("In Progress: %d", sum.InProgress)},
		{"○", fmt.Sprintf("Not Started: %d", sum.NotStarted)},
		{"⚠", fmt.Sprintf("Overdue: %d", sum.Overdue)},
		{"📷", fmt.Sprintf("Tasks with Photos: %d", sum.WithPhotos)},
		{"✅", fmt.Sprintf("Recently Completed (Last %d days): %d", RecentWindowDays, sum.RecentlyCompleted)},
	}
	for _, l := range lines {
		d.text(marginX, d.y, d.label(l.symbol, l.text))
		d.y += 6
	}
	d.y += 6
}

func (d *pdfDoc) recentUpdates(tasks []domain.PPMTask, now time.Time) {
	d.font("B", 12)
	d.text(marginX, d.y, "RECENT UPDATES")
	d.y += 8

	d.font("", 8)
	for _, t := range RecentUpdates(tasks, DefaultRecentUpdates) {
		days, _ := DaysSinceCompleted(t, now)
		desc := truncate(domain.OrDefault(t.Description, "No description"), recentDescN)
		d.text(marginX, d.y, fmt.Sprintf("• %s: %s", TimeAgo(days), desc))
		d.y += 5
	}
	d.y += 7
}

func (d *pdfDoc) details(tasks []domain.PPMTask, now time.Time) {
	d.font("B", 12)
	d.text(marginX, d.y, "TASK DETAILS")
	d.y += 8

	for i, t := range tasks {
		if d.y > d.h-bottomGap {
			d.pdf.AddPage()
			d.y = topY
		}
		d.task(i+1, t, now)
	}
}

func (d *pdfDoc) task(n int, t domain.PPMTask, now time.Time) {
	smart := status.ClassifyTask(t, now)

	d.font("B", 10)
	d.text(marginX, d.y, fmt.Sprintf("TASK %d", n))
	d.y += 6

	d.pdf.SetDrawColor(200, 200, 200)
	d.pdf.SetLineWidth(0.3)
	d.pdf.Rect(marginX, d.y-2, d.w-2*marginX, taskBoxH, "D")

	d.field(16, 42, "Description:", truncate(domain.OrDefault(t.Description, "No description"), detailDescN))
	d.y += 5

	d.field(16, 42, "Shift:", domain.OrNA(t.ShiftType))
	d.field(70, 85, "Type:", domain.OrNA(t.Type))
	d.field(110, 135, "Frequency:", domain.OrDefault(t.Frequency, "N/A"))
	d.y += 5

	d.font("B", 8)
	d.text(16, d.y, "Status:")
	c := StatusColor(smart.Class)
	d.pdf.SetTextColor(c.R, c.G, c.B)
	d.text(42, d.y, d.label(smart.Badge, smart.Text))
	d.pdf.SetTextColor(0, 0, 0)
	d.field(110, 135, "Due Date:", domain.DisplayDate(t.DueDate))
	d.y += 5

	d.font("B", 8)
	d.text(16, d.y, "Assignments:")
	d.font("", 8)
	d.text(42, d.y, "Day: "+domain.OrDefault(t.DayShift, "Not assigned"))
	d.text(110, d.y, "Night: "+domain.OrDefault(t.NightShift, "Not assigned"))
	d.y += 5

	d.field(16, 42, "Photos:", fmt.Sprintf("%d photo(s) attached", len(t.Photos)))
	if t.LastCompleted != nil {
		d.field(110, 145, "Last Completed:", t.LastCompleted.In(now.Location()).Format("1/2/2006"))
	}
	d.y += 5

	d.font("", 7)
	d.pdf.SetTextColor(100, 100, 100)
	d.text(16, d.y, UpdateLine(t, now))
	d.pdf.SetTextColor(0, 0, 0)

	d.y += 8
}

// UpdateLine summarises the latest activity on a task for the detail block.
func UpdateLine(t domain.PPMTask, now time.Time) string {
	var info string
	if days, ok := DaysSinceCompleted(t, now); ok {
		info = "Last update: Completed " + lowerAgo(days)
	}

	if n := len(t.Photos); n > 0 {
		if info != "" {
			info += " | "
		}
		latest, _ := t.LatestPhoto()
		if !latest.Timestamp.IsZero() {
			days := domain.DaysBetween(latest.Timestamp.In(now.Location()), now)
			info += "Latest photo uploaded " + lowerAgo(days)
		} else {
			info += fmt.Sprintf("%d photo(s) attached", n)
		}
	}

	if info == "" {
		return "No recent updates"
	}
	return info
}

func lowerAgo(days int) string {
	switch days {
	case 0:
		return "today"
	case 1:
		return "yesterday"
	default:
		return TimeAgo(days)
	}
}
