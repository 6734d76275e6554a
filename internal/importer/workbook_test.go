package importer

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aglmct/tracker/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var start = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

// buildWorkbook creates a workbook with one sheet per entry, each cell of
// the given column A values written from row 1.
func buildWorkbook(t *testing.T, sheets []string, columns map[string][]string) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, name := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", name))
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for row, v := range columns[name] {
			cell, err := excelize.CoordinatesToCellName(1, row+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(name, cell, v))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestRead(t *testing.T) {
	buf := buildWorkbook(t, []string{"Runway", "Taxiway"}, map[string][]string{
		"Runway": {
			"Task",
			"PPM for Edge Lights at Runway 08L",
			"",
			"Monthly inspect PAPI at Runway 26R",
			"   ",
			"Clean approach lights",
		},
		"Taxiway": {
			"Task",
			"Annual CCR test at Substation A",
		},
	})

	batch, err := Read(buf, start, nil)
	require.NoError(t, err)

	assert.Equal(t, "2025-06-15", batch.Start)
	assert.Equal(t, []SheetResult{{"Runway", 3}, {"Taxiway", 1}}, batch.Sheets)
	require.Len(t, batch.Tasks, 4)

	edge := batch.Tasks[0]
	assert.Equal(t, "PPM for Edge Lights at Runway 08L", edge.Description)
	assert.Equal(t, "Both", edge.ShiftType)
	assert.Equal(t, "Service", edge.Type)
	assert.Equal(t, domain.FrequencyWeekly, edge.Frequency)
	assert.Equal(t, domain.StatusNotStarted, edge.Status)
	assert.Equal(t, "2025-06-15", edge.DueDate)
	assert.Empty(t, edge.ID)
	assert.NotNil(t, edge.Photos)
	assert.Nil(t, edge.LastCompleted)

	papi := batch.Tasks[1]
	assert.Equal(t, "Inspection", papi.Type)
	assert.Equal(t, domain.FrequencyMonthly, papi.Frequency)
	assert.Equal(t, "2025-07-15", papi.DueDate)

	lights := batch.Tasks[2]
	assert.Equal(t, "Cleaning", lights.Type)
	assert.Equal(t, "2025-06-29", lights.DueDate)

	// Staggering restarts on every sheet.
	ccr := batch.Tasks[3]
	assert.Equal(t, domain.FrequencyYearly, ccr.Frequency)
	assert.Equal(t, "Testing", ccr.Type)
	assert.Equal(t, "2025-06-15", ccr.DueDate)
}

func TestRead_StaggerWrapsEveryThirtyRows(t *testing.T) {
	rows := []string{"Task"}
	for range 31 {
		rows = append(rows, "Daily runway sweep")
	}
	batch, err := Read(buildWorkbook(t, []string{"Daily"}, map[string][]string{"Daily": rows}), start, nil)
	require.NoError(t, err)
	require.Len(t, batch.Tasks, 31)

	assert.Equal(t, "2025-06-15", batch.Tasks[0].DueDate)
	assert.Equal(t, "2025-07-14", batch.Tasks[29].DueDate)
	assert.Equal(t, "2025-06-15", batch.Tasks[30].DueDate)
}

func TestRead_Counts(t *testing.T) {
	buf := buildWorkbook(t, []string{"All"}, map[string][]string{"All": {
		"Task",
		"Weekly inspect signs",
		"Daily clean lenses",
		"Weekly repair cable",
	}})
	batch, err := Read(buf, start, nil)
	require.NoError(t, err)

	assert.Equal(t, []Count{{"Daily", 1}, {"Weekly", 2}}, batch.ByFrequency())
	assert.Equal(t, []Count{{"Cleaning", 1}, {"Inspection", 1}, {"Repair", 1}}, batch.ByType())
}

func TestRead_NotAWorkbook(t *testing.T) {
	_, err := Read(bytes.NewBufferString("description\nnot excel"), start, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.xlsx")
	buf := buildWorkbook(t, []string{"Apron"}, map[string][]string{"Apron": {"Task", "Inspect floodlights"}})
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	batch, err := ReadFile(path, start, nil)
	require.NoError(t, err)
	assert.Len(t, batch.Tasks, 1)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.xlsx"), start, nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
