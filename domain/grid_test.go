package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Vaflel/spo-schedule/domain"
)

func TestNewGridCoercesCells(t *testing.T) {
	g := domain.NewGrid([][]any{
		{" Расписание ", nil, 12.0, 5, true},
		nil,
		{"", "  41ИС\n"},
	})

	assert.Equal(t, "Расписание", g.Cell(0, 0))
	assert.Equal(t, "", g.Cell(0, 1))
	assert.Equal(t, "12", g.Cell(0, 2))
	assert.Equal(t, "5", g.Cell(0, 3))
	assert.Equal(t, "true", g.Cell(0, 4))
	assert.Equal(t, "41ИС", g.Cell(2, 1))
}

func TestCellOutOfRange(t *testing.T) {
	g := domain.GridFromRows([][]string{{"a", "b"}, {"c"}})

	for _, pos := range [][2]int{{-1, 0}, {0, -1}, {0, 2}, {1, 1}, {5, 0}} {
		assert.Equal(t, "", g.Cell(pos[0], pos[1]), pos)
	}
	assert.Equal(t, "", domain.Grid(nil).Cell(0, 0))
	assert.Equal(t, 0, domain.Grid(nil).Width(3))
}

func TestSemesterLabel(t *testing.T) {
	tests := []struct {
		name   string
		header string
		now    time.Time
		want   string
	}{
		{"from header", "РАСПИСАНИЕ 2-Й СЕМЕСТР 2024-2025", time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC), "2-й семестр 2024-2025"},
		{"header with line breaks", "Расписание\n1-й   семестр\n2025-2026", time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), "1-й семестр 2025-2026"},
		{"spring fallback", "Расписание", time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC), "2-й семестр 2024-2025"},
		{"june fallback", "", time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC), "2-й семестр 2024-2025"},
		{"july fallback", "", time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC), "1-й семестр 2024-2025"},
		{"autumn fallback", "", time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC), "1-й семестр 2025-2026"},
		{"january fallback", "", time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC), "1-й семестр 2025-2026"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := domain.GridFromRows([][]string{{tt.header}})
			assert.Equal(t, tt.want, domain.SemesterLabel(g, tt.now))
		})
	}
}

func TestWeekRange(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Расписание занятий с 3 по 9 марта 2025 года", "с 3 по 9 марта 2025"},
		{"РАСПИСАНИЕ\nС  17  ПО 22\nМАРТА 2025 г.", "с 17 по 22 марта 2025"},
		{"Расписание на неделю", domain.WeekRangeUnknown},
		{"", domain.WeekRangeUnknown},
	}

	for _, tt := range tests {
		g := domain.GridFromRows([][]string{{tt.header}})
		assert.Equal(t, tt.want, domain.WeekRange(g), tt.header)
	}

	assert.Equal(t, domain.WeekRangeUnknown, domain.WeekRange(nil))
	assert.Equal(t, "даты недели не указаны", domain.WeekRangeUnknown)
}

func TestGroups(t *testing.T) {
	g := domain.GridFromRows([][]string{
		{header},
		{},
		{"", "", "41ИС", "Каб", "", "Каб", "Каб.", "", "41ИТ", "Каб", "41ИС", "Каб", "Каб"},
	})

	assert.Equal(t, []string{"41ИС", "41ИТ"}, domain.Groups(g))
	assert.Empty(t, domain.Groups(domain.GridFromRows([][]string{{header}})))
}

func TestTeachers(t *testing.T) {
	g := sheet(
		[]string{"Понедельник", "1", "Физика Иванов А.Б.", "5", "Химия Петров В.Г.", "8", "Основы философии", "3"},
		[]string{"", "1", "Физика Иванов А.Б.", "5", "Классный час", "8", "История Ёлкина Е.Ж.", "3"},
		[]string{"", "2", "Практика Иванов А. Б.", "5", "Physics Smith J.K.", "8"},
	)

	assert.Equal(t, []string{"Ёлкина Е.Ж.", "Иванов А.Б.", "Петров В.Г."}, domain.Teachers(g))
}
