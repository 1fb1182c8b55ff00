package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	firstSemester  = "1-й семестр"
	secondSemester = "2-й семестр"

	// WeekRangeUnknown признак «даты не указаны»: возвращается, если в заголовке нет диапазона дат
	WeekRangeUnknown = "даты недели не указаны"
)

var (
	reSemester  = regexp.MustCompile(`(?i)\d+-й\s+семестр\s+\d{4}-\d{4}`)
	reWeekRange = regexp.MustCompile(`(?i)(?:^|[^\p{L}])с\s+(\d{1,2})\s+по\s+(\d{1,2})\s+([а-яё]+)\s+(\d{4})`)
)

// headerText склеивает переносы строк и повторные пробелы заголовка
func headerText(g Grid) string {
	return strings.Join(strings.Fields(g.Cell(headerRow, 0)), " ")
}

// SemesterLabel извлекает подпись семестра из заголовка листа.
// Если подписи нет, семестр вычисляется по дате now: с февраля по июнь второй,
// в остальные месяцы первый; учебный год начинается в августе.
func SemesterLabel(g Grid, now time.Time) string {
	if match := reSemester.FindString(headerText(g)); match != "" {
		return strings.ToLower(match)
	}
	return fallbackSemester(now)
}

func fallbackSemester(now time.Time) string {
	semester := firstSemester
	if now.Month() >= time.February && now.Month() <= time.June {
		semester = secondSemester
	}

	start := now.Year()
	if now.Month() < time.August {
		start--
	}
	return fmt.Sprintf("%s %d-%d", semester, start, start+1)
}

// WeekRange возвращает диапазон дат недели в виде "с 3 по 9 марта 2025"
func WeekRange(g Grid) string {
	m := reWeekRange.FindStringSubmatch(headerText(g))
	if m == nil {
		return WeekRangeUnknown
	}
	return fmt.Sprintf("с %s по %s %s %s", m[1], m[2], strings.ToLower(m[3]), m[4])
}
