package domain

import (
	"regexp"
	"sort"
	"strings"
)

// Подписи колонки кабинета в строке групп
var roomLabels = map[string]bool{
	"Каб":  true,
	"Каб.": true,
}

// Фамилия и инициалы: "Иванов А.Б."
var reTeacher = regexp.MustCompile(`^[А-ЯЁ][а-яё]+ [А-ЯЁ]\.[А-ЯЁ]\.$`)

// Groups возвращает названия групп из строки идентификаторов в порядке колонок
func Groups(g Grid) []string {
	groups := []string{}
	seen := make(map[string]bool)

	for _, col := range g.identityColumns() {
		name := g.Cell(identityRow, col)
		if name == "" || roomLabels[name] || seen[name] {
			continue
		}
		seen[name] = true
		groups = append(groups, name)
	}

	return groups
}

// Teachers собирает преподавателей, упомянутых в ячейках уроков.
// Преподаватель определяется по двум последним словам ячейки, совпадающие с шаблоном "Фамилия И.О.".
// Результат отсортирован по алфавиту.
func Teachers(g Grid) []string {
	set := make(map[string]struct{})

	for row := firstLessonRow; row < len(g); row++ {
		for _, col := range g.identityColumns() {
			if name, ok := teacherOf(g.Cell(row, col)); ok {
				set[name] = struct{}{}
			}
		}
	}

	teachers := make([]string, 0, len(set))
	for name := range set {
		teachers = append(teachers, name)
	}
	sort.Strings(teachers)

	return teachers
}

func teacherOf(lesson string) (string, bool) {
	words := strings.Fields(lesson)
	if len(words) < 2 {
		return "", false
	}
	candidate := words[len(words)-2] + " " + words[len(words)-1]
	if !reTeacher.MatchString(candidate) {
		return "", false
	}
	return candidate, true
}

// findGroupColumn ищет колонку группы без учёта регистра
func findGroupColumn(g Grid, group string) (int, bool) {
	group = strings.TrimSpace(group)
	if group == "" {
		return 0, false
	}
	for _, col := range g.identityColumns() {
		name := g.Cell(identityRow, col)
		if roomLabels[name] {
			continue
		}
		if strings.EqualFold(name, group) {
			return col, true
		}
	}
	return 0, false
}
