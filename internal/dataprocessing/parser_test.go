package dataprocessing

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/transform"

	cellerrors "cellcli/internal/errors"
	"cellcli/internal/shared/testutil"
	"cellcli/pkg/contracts/domain"
)

const stepCSV = `工步,工步種類,日期時間,工步執行時間(秒),截止電壓(V),截止電流(A),能量(Wh),截止電量(Ah),總電量(Ah),功率(W),Aux T1
1,靜置,2024-01-02 08:00:00,600,3.30,0,0,0,0,0,25.1
2,CC充電,2024-01-02 08:10:00,3600,4.20,4.25,35.7,8.5,8.5,17.8,25.4
2,CC充電,2024-01-02 10:00:00,60,9.99,9.99,9.99,9.99,9.99,9.99,99.9
3,CC放電,2024-01-02 09:10:00,3600,2.80,-4.25,-35.7,-8.5,0,17.8,25.9
合計,,,,,,,,,,
`

const detailCSV = `工步,執行時間(秒),工步執行時間(秒),電壓(V),電流(A),Aux T1,電量(Ah),能量(Wh)
1,0,0,3.30,0,25.1,0,0
1,630,30,3.30,0,25.1,0,0
2,660,0,3.32,4.25,25.2,0,0
2,720,60,3.45,4.25,25.3,0.07,0.24
2,690,30,3.40,4.25,25.2,0.04,0.12
`

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParseStepFile(t *testing.T) {
	parser := NewParser(nil)

	steps, warning, err := parser.ParseStepFile(writeFixture(t, "step.csv", stepCSV))
	require.NoError(t, err)
	assert.Nil(t, warning, "exact header match should not warn")
	require.Len(t, steps, 3, "duplicate and summary rows should be dropped")

	assert.Equal(t, domain.StepTypeRest, steps[0].StepType)
	assert.Equal(t, domain.StepTypeCharge, steps[1].StepType)
	assert.Equal(t, domain.StepTypeDischarge, steps[2].StepType)
	assert.Equal(t, "CC放電", steps[2].OriginalStepType)

	// Deduplication keeps the first occurrence of step 2.
	require.NotNil(t, steps[1].VoltageEnd)
	assert.InDelta(t, 4.20, *steps[1].VoltageEnd, 1e-9)

	// End time backfilled from start + duration.
	require.NotNil(t, steps[0].EndTime)
	want := time.Date(2024, 1, 2, 8, 10, 0, 0, time.UTC)
	assert.True(t, steps[0].EndTime.Equal(want), "end_time should be start_time + duration")

	// Starting voltage carries over from the previous step's cutoff.
	assert.Nil(t, steps[0].VoltageStart)
	require.NotNil(t, steps[1].VoltageStart)
	assert.InDelta(t, 3.30, *steps[1].VoltageStart, 1e-9)
	require.NotNil(t, steps[2].VoltageStart)
	assert.InDelta(t, 4.20, *steps[2].VoltageStart, 1e-9)
}

func TestParseStepFileMissingHeader(t *testing.T) {
	parser := NewParser(nil)

	// No step-type column and nothing its keywords could match.
	csv := "工步,日期時間,工步執行時間(秒),截止電壓(V),能量(Wh),截止電量(Ah),總電量(Ah),功率(W),Aux T1\n" +
		"1,2024-01-02 08:00:00,600,3.30,0,0,0,0,25.1\n"

	_, _, err := parser.ParseStepFile(writeFixture(t, "step.csv", csv))
	var missing *cellerrors.MissingHeaderError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "step", missing.Table)
	assert.Contains(t, missing.Missing, "工步種類")
}

func TestParseStepFileSemanticHeaders(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	parser := NewParser(logger)

	// English voltage header misses exactly but hits the "volt" keyword.
	csv := `工步,工步種類,日期時間,工步執行時間(秒),Voltage(V),能量(Wh),截止電量(Ah),總電量(Ah),功率(W),Aux T1
1,CC放電,2024-01-02 08:00:00,600,2.85,-3.5,-3.4,0,10.0,25.1
`
	steps, warning, err := parser.ParseStepFile(writeFixture(t, "step.csv", csv))
	require.NoError(t, err)
	require.NotNil(t, warning)
	assert.Equal(t, "Voltage(V)", warning.Matched["截止電壓(V)"])
	testutil.AssertLogContains(t, logs, slog.LevelWarn, "matched only semantically")

	require.Len(t, steps, 1)
	require.NotNil(t, steps[0].VoltageEnd, "semantically matched column should still be extracted")
	assert.InDelta(t, 2.85, *steps[0].VoltageEnd, 1e-9)
}

func TestParseDetailFile(t *testing.T) {
	parser := NewParser(nil)

	details, warning, err := parser.ParseDetailFile(writeFixture(t, "detail.csv", detailCSV))
	require.NoError(t, err)
	assert.Nil(t, warning)
	require.Len(t, details, 5)

	// Sorted by step then execution time; the per-step column wins over
	// the cumulative one.
	assert.Equal(t, 1, details[0].StepNumber)
	assert.Equal(t, 2, details[2].StepNumber)
	assert.InDelta(t, 0.0, details[2].ExecutionTime, 1e-9)
	assert.InDelta(t, 30.0, details[3].ExecutionTime, 1e-9)
	assert.InDelta(t, 60.0, details[4].ExecutionTime, 1e-9)

	require.NotNil(t, details[4].Voltage)
	assert.InDelta(t, 3.45, *details[4].Voltage, 1e-9)
}

func TestParseStepFileBig5(t *testing.T) {
	parser := NewParser(nil)

	utf8Path := writeFixture(t, "step_utf8.csv", stepCSV)

	encoded, _, err := transform.Bytes(traditionalchinese.Big5.NewEncoder(), []byte(stepCSV))
	require.NoError(t, err)
	big5Path := filepath.Join(t.TempDir(), "step_big5.csv")
	require.NoError(t, os.WriteFile(big5Path, encoded, 0644))

	want, _, err := parser.ParseStepFile(utf8Path)
	require.NoError(t, err)
	got, _, err := parser.ParseStepFile(big5Path)
	require.NoError(t, err)

	assert.Equal(t, want, got, "Big5 export should parse identically to its UTF-8 twin")
}

func TestParseStepFileXLSX(t *testing.T) {
	parser := NewParser(nil)

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"工步", "工步種類", "日期時間", "工步執行時間(秒)", "截止電壓(V)", "截止電流(A)", "能量(Wh)", "截止電量(Ah)", "總電量(Ah)", "功率(W)", "Aux T1"},
		{"1", "靜置", "2024-01-02 08:00:00", "600", "3.30", "0", "0", "0", "0", "0", "25.1"},
		{"2", "CC充電", "2024-01-02 08:10:00", "3600", "4.20", "4.25", "35.7", "8.5", "8.5", "17.8", "25.4"},
		{"2", "CC充電", "2024-01-02 10:00:00", "60", "9.99", "9.99", "9.99", "9.99", "9.99", "9.99", "99.9"},
		{"3", "CC放電", "2024-01-02 09:10:00", "3600", "2.80", "-4.25", "-35.7", "-8.5", "0", "17.8", "25.9"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	xlsxPath := filepath.Join(t.TempDir(), "step.xlsx")
	require.NoError(t, f.SaveAs(xlsxPath))

	want, _, err := parser.ParseStepFile(writeFixture(t, "step.csv", stepCSV))
	require.NoError(t, err)
	got, _, err := parser.ParseStepFile(xlsxPath)
	require.NoError(t, err)

	assert.Equal(t, want, got, "XLSX export should parse identically to the CSV")
}

func TestParseStepFileReadErrors(t *testing.T) {
	parser := NewParser(nil)

	_, _, err := parser.ParseStepFile(filepath.Join(t.TempDir(), "missing.csv"))
	var appErr *cellerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, cellerrors.ErrTypeParsing, appErr.Type)
}
