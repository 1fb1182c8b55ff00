package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrGroupNotFound   = errors.New("группа не найдена")
	ErrTeacherNotFound = errors.New("преподаватель не найден")
)

// NotFoundError описывает выбранную группу или преподавателя, которых нет в текущем расписании.
// Suggestions содержит похожие варианты из актуального списка.
type NotFoundError struct {
	Mode        Mode
	Identity    string
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.sentinel(), e.Identity)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (возможно: %s)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

func (e *NotFoundError) Is(target error) bool {
	return target == e.sentinel()
}

func (e *NotFoundError) sentinel() error {
	if e.Mode == ModeTeacher {
		return ErrTeacherNotFound
	}
	return ErrGroupNotFound
}
