package usecases

import (
	"fmt"
	"time"

	"github.com/Vaflel/spo-schedule/domain"
)

const defaultMealSize = "200г"

// MealsService выбирает меню текущего дня цикла и оценивает калорийность блюд
type MealsService struct {
	repo        MealsRepository
	reference   time.Time
	cycleLength int
}

// DailyMenu меню на конкретную дату
type DailyMenu struct {
	Date     string        `json:"date"`
	CycleDay int           `json:"cycleDay"`
	Label    string        `json:"label"`
	Meals    []domain.Meal `json:"meals"`
}

func NewMealsService(repo MealsRepository, reference time.Time, cycleLength int) *MealsService {
	return &MealsService{
		repo:        repo,
		reference:   reference,
		cycleLength: cycleLength,
	}
}

// ForDate возвращает меню дня цикла, в который попадает date.
// Если день цикла отсутствует в плане, список блюд пуст.
func (s *MealsService) ForDate(date time.Time) (DailyMenu, error) {
	plan, err := s.repo.LoadPlan()
	if err != nil {
		return DailyMenu{}, fmt.Errorf("не удалось загрузить меню: %w", err)
	}

	calories, err := s.repo.LoadCalories()
	if err != nil {
		return DailyMenu{}, fmt.Errorf("не удалось загрузить базу калорийности: %w", err)
	}

	n := domain.CycleDay(date, s.reference, s.cycleLength)
	menu := DailyMenu{
		Date:     date.Format("2006-01-02"),
		CycleDay: n,
		Label:    fmt.Sprintf("День %d", n),
		Meals:    []domain.Meal{},
	}

	day, ok := plan.Day(n)
	if !ok {
		return menu, nil
	}

	for _, meal := range day.Meals {
		if meal.Meal == "" || meal.Description == "" {
			continue
		}
		meal.Calories = domain.EstimateCalories(meal.Description, meal.Size, calories)
		// вес по умолчанию только для отображения, оценка без веса даёт 300 ккал
		if meal.Size == "" {
			meal.Size = defaultMealSize
		}
		menu.Meals = append(menu.Meals, meal)
	}

	return menu, nil
}
