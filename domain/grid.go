package domain

import (
	"fmt"
	"strings"
)

// Фиксированная разметка листа расписания
const (
	headerRow      = 0 // заголовок с семестром и датами недели
	identityRow    = 2 // названия групп
	firstLessonRow = 3
	dayColumn      = 0
	firstGroupCol  = 2
	groupColStride = 2 // за колонкой группы следует колонка кабинета
)

// Grid позиционная таблица ячеек листа расписания.
// Строки могут быть разной длины, отсутствующая ячейка считается пустой строкой.
type Grid [][]string

// NewGrid приводит сырые значения ячеек любого типа к обрезанным строкам
func NewGrid(raw [][]any) Grid {
	grid := make(Grid, len(raw))
	for i, row := range raw {
		cells := make([]string, len(row))
		for j, value := range row {
			cells[j] = cellString(value)
		}
		grid[i] = cells
	}
	return grid
}

// GridFromRows копирует строковые строки с обрезкой пробелов
func GridFromRows(rows [][]string) Grid {
	grid := make(Grid, len(rows))
	for i, row := range rows {
		cells := make([]string, len(row))
		for j, value := range row {
			cells[j] = strings.TrimSpace(value)
		}
		grid[i] = cells
	}
	return grid
}

func cellString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// Cell возвращает значение ячейки или "" при любом выходе за границы
func (g Grid) Cell(row, col int) string {
	if row < 0 || row >= len(g) || col < 0 || col >= len(g[row]) {
		return ""
	}
	return strings.TrimSpace(g[row][col])
}

// Width возвращает длину строки row
func (g Grid) Width(row int) int {
	if row < 0 || row >= len(g) {
		return 0
	}
	return len(g[row])
}

// identityColumns перечисляет колонки групп в строке идентификаторов
func (g Grid) identityColumns() []int {
	var cols []int
	for col := firstGroupCol; col < g.Width(identityRow); col += groupColStride {
		cols = append(cols, col)
	}
	return cols
}
