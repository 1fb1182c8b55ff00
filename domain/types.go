package domain

import (
	"fmt"
	"strings"
)

// Mode определяет, чьё расписание строится: группы или преподавателя
type Mode string

const (
	ModeGroup   Mode = "group"
	ModeTeacher Mode = "teacher"
)

// ParseMode разбирает режим; пустая строка означает режим группы
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeGroup:
		return ModeGroup, nil
	case ModeTeacher:
		return ModeTeacher, nil
	default:
		return "", fmt.Errorf("неизвестный режим %q", s)
	}
}

// DaySchedule расписание одного дня
type DaySchedule struct {
	Day       string   `json:"day" yaml:"day"`             // подпись дня как в таблице
	Lessons   []string `json:"lessons" yaml:"lessons"`     // отформатированные пары по порядку
	StartPair int      `json:"startPair" yaml:"startPair"` // номер первой непустой пары, с 1
	Pairs     []int    `json:"pairs" yaml:"pairs"`         // номер пары для каждого элемента Lessons, 0 для классного часа
}

// Preferences хранит выбор пользователя между запусками
type Preferences struct {
	Mode    Mode   `yaml:"mode" json:"mode"`
	Group   string `yaml:"group" json:"group"`
	Teacher string `yaml:"teacher" json:"teacher"`
}

// Identity возвращает выбранную группу или преподавателя в зависимости от режима
func (p Preferences) Identity() string {
	if p.Mode == ModeTeacher {
		return p.Teacher
	}
	return p.Group
}

// NewsItem новость с главной страницы колледжа
type NewsItem struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	Image       string `json:"image"`
	Description string `json:"description"`
}
