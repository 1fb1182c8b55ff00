package infrastructure

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/Vaflel/spo-schedule/domain"
)

// JSONMealsRepository читает меню столовой и базу калорийности из JSON-файлов.
// База калорийности хранится как объект {"ингредиент": ккал на 100 г}.
type JSONMealsRepository struct {
	planFile     string
	caloriesFile string
}

func NewJSONMealsRepository(planFile, caloriesFile string) *JSONMealsRepository {
	return &JSONMealsRepository{
		planFile:     planFile,
		caloriesFile: caloriesFile,
	}
}

func (r *JSONMealsRepository) LoadPlan() (domain.MealPlan, error) {
	var plan domain.MealPlan
	if err := readJSON(r.planFile, &plan); err != nil {
		return domain.MealPlan{}, err
	}
	return plan, nil
}

// LoadCalories возвращает базу с ключами в нижнем регистре; без файла база пуста
func (r *JSONMealsRepository) LoadCalories() (map[string]float64, error) {
	if r.caloriesFile == "" {
		return map[string]float64{}, nil
	}

	var raw map[string]float64
	if err := readJSON(r.caloriesFile, &raw); err != nil {
		return nil, err
	}

	db := make(map[string]float64, len(raw))
	for k, v := range raw {
		db[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return db, nil
}

func readJSON(filename string, v any) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("не удалось прочитать файл: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("не удалось распарсить %s: %w", filename, err)
	}
	return nil
}
