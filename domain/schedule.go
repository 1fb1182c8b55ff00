package domain

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	classHourMarker = "классный час"
	roomUnknown     = "не указан"
	parallelSep     = " / "
)

// entry — одна запись половины пары. groups заполняется только в режиме преподавателя.
type entry struct {
	core   string
	groups []string
}

// slot — содержимое одной строки таблицы (половины пары); пустой slot означает окно
type slot []entry

// Build строит расписание в нужном режиме
func Build(g Grid, mode Mode, identity string) ([]DaySchedule, error) {
	if mode == ModeTeacher {
		return BuildTeacherSchedule(g, identity)
	}
	return BuildGroupSchedule(g, identity)
}

// BuildGroupSchedule строит расписание группы по её паре колонок (урок, кабинет).
// Возвращает NotFoundError, если группы нет в строке групп.
func BuildGroupSchedule(g Grid, group string) ([]DaySchedule, error) {
	col, ok := findGroupColumn(g, group)
	if !ok {
		return nil, &NotFoundError{Mode: ModeGroup, Identity: group}
	}

	return walkDays(g, func(row int) slot {
		lesson := normalizeText(g.Cell(row, col))
		if lesson == "" {
			return nil
		}
		return slot{{core: formatLesson(lesson, g.Cell(row, col+1), "")}}
	}), nil
}

// BuildTeacherSchedule собирает нагрузку преподавателя по всем группам.
// Одинаковые занятия разных групп в одной паре объединяются в одну запись со списком групп.
// Возвращает NotFoundError, если преподаватель не встретился ни в одной ячейке.
func BuildTeacherSchedule(g Grid, teacher string) ([]DaySchedule, error) {
	teacher = strings.TrimSpace(teacher)
	if teacher == "" {
		return nil, &NotFoundError{Mode: ModeTeacher, Identity: teacher}
	}
	reName := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(teacher))

	var cols []int
	for _, col := range g.identityColumns() {
		if !roomLabels[g.Cell(identityRow, col)] {
			cols = append(cols, col)
		}
	}

	days := walkDays(g, func(row int) slot {
		var s slot
		for _, col := range cols {
			lesson := normalizeText(g.Cell(row, col))
			if lesson == "" || !reName.MatchString(lesson) {
				continue
			}

			e := entry{core: formatLesson(stripTeacher(lesson, reName), g.Cell(row, col+1), roomUnknown)}
			if group := g.Cell(identityRow, col); group != "" {
				e.groups = []string{group}
			}
			s = append(s, e)
		}
		return mergeEntries(s)
	})

	result := make([]DaySchedule, 0, len(days))
	for _, day := range days {
		if len(day.Lessons) > 0 {
			result = append(result, day)
		}
	}
	if len(result) == 0 {
		return nil, &NotFoundError{Mode: ModeTeacher, Identity: teacher}
	}

	return result, nil
}

// stripTeacher убирает из урока завершающие "Фамилия И.О.", если это выбранный преподаватель.
// Остальной текст ячейки не меняется.
func stripTeacher(lesson string, reName *regexp.Regexp) string {
	name, ok := teacherOf(lesson)
	if !ok || !reName.MatchString(name) {
		return lesson
	}

	core := strings.TrimRight(strings.TrimSuffix(lesson, name), " ,;:-–")
	if core == "" {
		return lesson
	}
	return core
}

// walkDays проходит строки уроков, режет их на дни по непустой ячейке дня
// и сворачивает половины пар каждого дня.
func walkDays(g Grid, halfSlot func(row int) slot) []DaySchedule {
	days := []DaySchedule{}

	var (
		current string
		started bool
		slots   []slot
	)

	for row := firstLessonRow; row < len(g); row++ {
		if label := g.Cell(row, dayColumn); label != "" && (!started || label != current) {
			if started {
				days = append(days, reduceDay(current, slots))
			}
			current = label
			started = true
			slots = nil
		}
		// строки до первого дня не относятся ни к какому дню
		if !started {
			continue
		}
		slots = append(slots, halfSlot(row))
	}

	if started {
		days = append(days, reduceDay(current, slots))
	}

	return days
}

// reduceDay объединяет половины пар дня в пары.
// Классный час в первой строке выводится отдельно с номером 0.
// Ведущие пустые пары пропускаются, сдвигая номер первой пары.
func reduceDay(day string, slots []slot) DaySchedule {
	ds := DaySchedule{
		Day:       day,
		Lessons:   []string{},
		Pairs:     []int{},
		StartPair: 1,
	}

	cursor := 0
	if len(slots) > 0 && isClassHour(slots[0]) {
		ds.Lessons = append(ds.Lessons, renderPeriod(slots[0], nil))
		ds.Pairs = append(ds.Pairs, 0)
		cursor = 1
	}

	for cursor < len(slots) && periodEmpty(slots, cursor) {
		cursor += 2
		ds.StartPair++
	}

	pair := ds.StartPair
	regular := false
	for i := cursor; i < len(slots); i += 2 {
		var second slot
		if i+1 < len(slots) {
			second = slots[i+1]
		}
		if text := renderPeriod(slots[i], second); text != "" {
			ds.Lessons = append(ds.Lessons, text)
			ds.Pairs = append(ds.Pairs, pair)
			regular = true
		}
		pair++
	}

	// без обычных пар нумеровать нечего, даже если был классный час
	if !regular {
		ds.StartPair = 1
	}

	return ds
}

func periodEmpty(slots []slot, i int) bool {
	if len(slots[i]) > 0 {
		return false
	}
	return i+1 >= len(slots) || len(slots[i+1]) == 0
}

func isClassHour(s slot) bool {
	for _, e := range s {
		if strings.Contains(strings.ToLower(e.core), classHourMarker) {
			return true
		}
	}
	return false
}

// renderPeriod сводит две половины пары: одинаковые записи выводятся один раз,
// разные — через " / ".
func renderPeriod(first, second slot) string {
	merged := mergeEntries(append(append(slot{}, first...), second...))

	parts := make([]string, 0, len(merged))
	for _, e := range merged {
		parts = append(parts, e.render())
	}
	return strings.Join(parts, parallelSep)
}

// mergeEntries объединяет записи с одинаковым текстом, сохраняя порядок появления
// и объединяя списки групп без повторов.
func mergeEntries(s slot) slot {
	if len(s) == 0 {
		return nil
	}

	var merged slot
	index := make(map[string]int)

	for _, e := range s {
		i, ok := index[e.core]
		if !ok {
			index[e.core] = len(merged)
			merged = append(merged, entry{core: e.core, groups: appendUnique(nil, e.groups...)})
			continue
		}
		merged[i].groups = appendUnique(merged[i].groups, e.groups...)
	}

	return merged
}

func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		found := false
		for _, existing := range dst {
			if existing == v {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, v)
		}
	}
	return dst
}

func (e entry) render() string {
	switch len(e.groups) {
	case 0:
		return e.core
	case 1:
		return fmt.Sprintf("%s (Группа: %s)", e.core, e.groups[0])
	default:
		return fmt.Sprintf("%s (Группы: %s)", e.core, strings.Join(e.groups, ", "))
	}
}

// formatLesson добавляет кабинет; без кабинета подставляется missingRoom, если он задан
func formatLesson(lesson, room, missingRoom string) string {
	room = strings.TrimSpace(room)
	if room == "" {
		if missingRoom == "" {
			return lesson
		}
		room = missingRoom
	}
	return fmt.Sprintf("%s (Каб. %s)", lesson, room)
}

func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
