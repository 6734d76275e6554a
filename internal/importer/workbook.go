// Package importer converts maintenance workbooks into PPM tasks.
package importer

import (
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/aglmct/tracker/internal/domain"
	"github.com/aglmct/tracker/internal/recurring"
	"github.com/xuri/excelize/v2"
)

// staggerCycle bounds how far apart due dates within one sheet are spread.
const staggerCycle = 30

// importedShift is the shift assigned to every imported task.
const importedShift = "Both"

// SheetResult reports how many tasks one sheet produced.
type SheetResult struct {
	Name  string
	Tasks int
}

// Batch is the outcome of reading a workbook.
type Batch struct {
	Tasks  []domain.PPMTask
	Sheets []SheetResult
	Start  string
}

// Count is a label with the number of imported tasks carrying it.
type Count struct {
	Label string
	N     int
}

// ByFrequency counts tasks per frequency, sorted by label.
func (b Batch) ByFrequency() []Count {
	return countBy(b.Tasks, func(t domain.PPMTask) string { return string(t.Frequency) })
}

// ByType counts tasks per type, sorted by label.
func (b Batch) ByType() []Count {
	return countBy(b.Tasks, func(t domain.PPMTask) string { return t.Type })
}

func countBy(tasks []domain.PPMTask, label func(domain.PPMTask) string) []Count {
	counts := map[string]int{}
	for _, t := range tasks {
		counts[label(t)]++
	}
	out := make([]Count, 0, len(counts))
	for _, l := range slices.Sorted(maps.Keys(counts)) {
		out = append(out, Count{Label: l, N: counts[l]})
	}
	return out
}

// Read parses every sheet of the workbook in r. Row 1 of each sheet is a
// header; from row 2 on, column A holds the task description and blank
// descriptions are skipped. Due dates are staggered from start per sheet.
// Imported tasks carry no id; the store assigns one on admission.
func Read(r io.Reader, start time.Time, logger *slog.Logger) (Batch, error) {
	if logger == nil {
		logger = slog.Default()
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return Batch{}, fmt.Errorf("%w: open workbook: %w", domain.ErrValidation, err)
	}
	defer f.Close()

	batch := Batch{Start: domain.Today(start)}
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return Batch{}, fmt.Errorf("read sheet %q: %w", sheet, err)
		}

		n := 0
		for i, row := range rows {
			if i == 0 || len(row) == 0 || strings.TrimSpace(row[0]) == "" {
				continue
			}
			batch.Tasks = append(batch.Tasks, newTask(row[0], start, n))
			n++
		}
		batch.Sheets = append(batch.Sheets, SheetResult{Name: sheet, Tasks: n})
		logger.Info("sheet imported", "sheet", sheet, "tasks", n)
	}
	return batch, nil
}

// ReadFile is Read for a workbook on disk.
func ReadFile(path string, start time.Time, logger *slog.Logger) (Batch, error) {
	file, err := os.Open(path)
	if err != nil {
		return Batch{}, err
	}
	defer file.Close()
	return Read(file, start, logger)
}

func newTask(description string, start time.Time, n int) domain.PPMTask {
	frequency := InferFrequency(description)
	return domain.PPMTask{
		ShiftType:   importedShift,
		Description: description,
		Type:        InferType(description),
		DueDate:     domain.FormatDate(recurring.Staggered(start, frequency, n%staggerCycle)),
		Frequency:   frequency,
		Status:      domain.StatusNotStarted,
		Photos:      []domain.Photo{},
	}
}
