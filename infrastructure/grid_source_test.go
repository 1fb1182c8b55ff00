package infrastructure

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Vaflel/spo-schedule/domain"
)

// writeWorkbook создаёт книгу с листом расписания в формате колледжа
func writeWorkbook(t *testing.T) *excelize.File {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	cells := map[string]any{
		"A1": "Расписание занятий\n2-й семестр 2024-2025\nс 3 по 9 марта 2025 года",
		"C3": "41ИС",
		"D3": "Каб",
		"E3": "41ИТ",
		"F3": "Каб",
		"A4": "Понедельник",
		"B4": 1,
		"C4": "  Математика ",
		"D4": 12,
		"C5": "Математика",
		"D5": 12,
		"E5": "Физика Иванов А.Б.",
		"F5": "5",
	}
	for cell, value := range cells {
		require.NoError(t, f.SetCellValue(sheet, cell, value))
	}
	return f
}

func TestXLSXGridSource(t *testing.T) {
	f := writeWorkbook(t)
	path := filepath.Join(t.TempDir(), "schedule.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	source, err := NewFileGridSource(path, "")
	require.NoError(t, err)

	grid, err := source.LoadGrid()
	require.NoError(t, err)

	assert.Equal(t, []string{"41ИС", "41ИТ"}, domain.Groups(grid))
	assert.Equal(t, "Математика", grid.Cell(3, 2))
	assert.Equal(t, "12", grid.Cell(3, 3))
	assert.Equal(t, "", grid.Cell(1, 5))
	assert.Equal(t, "с 3 по 9 марта 2025", domain.WeekRange(grid))

	days, err := domain.BuildGroupSchedule(grid, "41ИС")
	require.NoError(t, err)
	assert.Equal(t, []string{"Математика (Каб. 12)"}, days[0].Lessons)
}

func TestReadXLSXGrid(t *testing.T) {
	f := writeWorkbook(t)
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	grid, err := ReadXLSXGrid(buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"Иванов А.Б."}, domain.Teachers(grid))
}

func TestXLSGridSource(t *testing.T) {
	// во второй строке листа нет ни одной записи
	source, err := NewFileGridSource("testdata/schedule.xls", "")
	require.NoError(t, err)

	grid, err := source.LoadGrid()
	require.NoError(t, err)

	require.Len(t, grid, 5)
	assert.Empty(t, grid[1])
	assert.Equal(t, []string{"41ИС"}, domain.Groups(grid))
	assert.Equal(t, "с 3 по 9 марта 2025", domain.WeekRange(grid))
	assert.Equal(t, "2-й семестр 2024-2025", domain.SemesterLabel(grid, time.Now()))

	days, err := domain.BuildGroupSchedule(grid, "41ИС")
	require.NoError(t, err)
	assert.Equal(t, []domain.DaySchedule{
		{Day: "Понедельник", Lessons: []string{"Математика (Каб. 12)"}, StartPair: 1, Pairs: []int{1}},
	}, days)
}

func TestXLSGridSourceRejectsOtherFiles(t *testing.T) {
	_, err := NewXLSGridSource("testdata/news.html", "").LoadGrid()
	assert.Error(t, err)
}

func TestNewFileGridSource(t *testing.T) {
	source, err := NewFileGridSource("old.XLS", "")
	require.NoError(t, err)
	assert.IsType(t, &XLSGridSource{}, source)

	_, err = NewFileGridSource("schedule.csv", "")
	assert.Error(t, err)

	_, err = NewXLSXGridSource(filepath.Join(t.TempDir(), "missing.xlsx")).LoadGrid()
	assert.Error(t, err)
}
