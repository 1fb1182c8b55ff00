package domain

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"
)

const (
	defaultCalories   = 300
	defaultMealWeight = 200
)

// Meal блюдо из меню столовой
type Meal struct {
	Meal        string `json:"meal"`
	Description string `json:"description"`
	Size        string `json:"size"`
	ImageURL    string `json:"image_url"`
	Calories    int    `json:"calories"`
}

// MealDay меню одного дня цикла, Day хранит номер дня строкой ("1".."14")
type MealDay struct {
	Day   string `json:"day"`
	Meals []Meal `json:"meals"`
}

// MealPlan циклическое меню столовой
type MealPlan struct {
	Meals []MealDay `json:"meals"`
}

// CycleDay возвращает номер дня цикла (с 1) для даты now.
// reference задаёт первый день цикла; даты до него тоже попадают в цикл.
func CycleDay(now, reference time.Time, length int) int {
	if length <= 0 {
		return 1
	}
	nowDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	refDate := time.Date(reference.Year(), reference.Month(), reference.Day(), 0, 0, 0, 0, time.UTC)

	days := int(math.Floor(nowDate.Sub(refDate).Hours() / 24))
	pos := days % length
	if pos < 0 {
		pos += length
	}
	return pos + 1
}

// Day возвращает меню дня цикла
func (p MealPlan) Day(n int) (MealDay, bool) {
	key := strconv.Itoa(n)
	for _, d := range p.Meals {
		if d.Day == key {
			return d, true
		}
	}
	return MealDay{}, false
}

// EstimateCalories оценивает калорийность блюда по составу и весу.
// Вес делится поровну между ингредиентами, для каждого берётся самое длинное
// совпавшее название из базы (ккал на 100 г). Без совпадений 300 ккал.
func EstimateCalories(description, size string, db map[string]float64) int {
	if strings.TrimSpace(description) == "" || strings.TrimSpace(size) == "" {
		return defaultCalories
	}

	weight := leadingInt(size)
	if weight <= 0 {
		weight = defaultMealWeight
	}

	keys := make([]string, 0, len(db))
	for k := range db {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	ingredients := strings.Split(strings.ToLower(description), ", ")
	perIngredient := float64(weight) / float64(len(ingredients))

	total := 0.0
	for _, ingredient := range ingredients {
		ingredient = strings.TrimSpace(ingredient)
		for _, key := range keys {
			if strings.Contains(ingredient, key) {
				total += perIngredient / 100 * db[key]
				break
			}
		}
	}

	if calories := int(math.Round(total)); calories > 0 {
		return calories
	}
	return defaultCalories
}

// leadingInt разбирает число в начале строки: "250г" -> 250
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && unicode.IsDigit(rune(s[end])) {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
