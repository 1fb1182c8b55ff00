package usecases

import (
	"context"

	"github.com/Vaflel/spo-schedule/domain"
)

// GridSource отдаёт разобранный лист расписания
type GridSource interface {
	LoadGrid() (domain.Grid, error)
}

// GridCache хранит последний успешно разобранный лист между запусками
type GridCache interface {
	Load() (domain.Grid, error)
	Save(grid domain.Grid) error
}

// PreferencesRepository определяет интерфейс для хранения выбора пользователя
type PreferencesRepository interface {
	Load() (domain.Preferences, error)
	Save(prefs domain.Preferences) error
}

type NewsSource interface {
	Fetch(ctx context.Context) ([]domain.NewsItem, error)
}

type MealsRepository interface {
	LoadPlan() (domain.MealPlan, error)
	LoadCalories() (map[string]float64, error)
}
