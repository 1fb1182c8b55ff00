package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vaflel/spo-schedule/domain"
)

type fakeSource struct {
	grid  domain.Grid
	err   error
	calls int
}

func (f *fakeSource) LoadGrid() (domain.Grid, error) {
	f.calls++
	return f.grid, f.err
}

type memCache struct {
	grid  domain.Grid
	saved int
}

func (c *memCache) Load() (domain.Grid, error) {
	if c.grid == nil {
		return nil, errors.New("кэш пуст")
	}
	return c.grid, nil
}

func (c *memCache) Save(grid domain.Grid) error {
	c.grid = grid
	c.saved++
	return nil
}

type memPrefs struct {
	prefs domain.Preferences
}

func (p *memPrefs) Load() (domain.Preferences, error) {
	return p.prefs, nil
}

func (p *memPrefs) Save(prefs domain.Preferences) error {
	p.prefs = prefs
	return nil
}

func testGrid() domain.Grid {
	return domain.GridFromRows([][]string{
		{"Расписание с 3 по 9 марта 2025 года"},
		{},
		{"", "", "41ИС", "Каб", "41ИТ", "Каб", "42ИС", "Каб"},
		{"Понедельник", "1", "Физика Иванов А.Б.", "5", "Физика Иванов А.Б.", "5", "Химия Петров В.Г.", "8"},
		{"", "1", "Физика Иванов А.Б.", "5", "Физика Иванов А.Б.", "5", "Химия Петров В.Г.", "8"},
	})
}

func newTestService(source GridSource, cache GridCache, prefs PreferencesRepository) *ScheduleService {
	s := NewScheduleService(source, cache, prefs)
	s.now = func() time.Time { return time.Date(2025, time.March, 20, 10, 0, 0, 0, time.UTC) }
	return s
}

func TestRefreshStoresGridAndCache(t *testing.T) {
	source := &fakeSource{grid: testGrid()}
	cache := &memCache{}
	s := newTestService(source, cache, nil)

	_, err := s.Groups()
	assert.ErrorIs(t, err, ErrNoGrid)

	require.NoError(t, s.Refresh())
	assert.Equal(t, 1, cache.saved)

	groups, err := s.Groups()
	require.NoError(t, err)
	assert.Equal(t, []string{"41ИС", "41ИТ", "42ИС"}, groups)

	teachers, err := s.Teachers()
	require.NoError(t, err)
	assert.Equal(t, []string{"Иванов А.Б.", "Петров В.Г."}, teachers)

	meta, err := s.Meta()
	require.NoError(t, err)
	assert.Equal(t, Meta{Semester: "2-й семестр 2024-2025", WeekRange: "с 3 по 9 марта 2025"}, meta)
}

func TestRefreshFallsBackToCache(t *testing.T) {
	source := &fakeSource{err: errors.New("нет сети")}
	cache := &memCache{grid: testGrid()}
	s := newTestService(source, cache, nil)

	require.NoError(t, s.Refresh())
	groups, err := s.Groups()
	require.NoError(t, err)
	assert.Len(t, groups, 3)

	empty := newTestService(source, &memCache{}, nil)
	err = empty.Refresh()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "нет сети")
}

func TestScheduleModes(t *testing.T) {
	s := newTestService(&fakeSource{}, nil, nil)
	s.SetGrid(testGrid())

	byGroup, err := s.Schedule(domain.ModeGroup, "41ИС")
	require.NoError(t, err)
	assert.Equal(t, "с 3 по 9 марта 2025", byGroup.WeekRange)
	require.Len(t, byGroup.Days, 1)
	assert.Equal(t, []string{"Физика Иванов А.Б. (Каб. 5)"}, byGroup.Days[0].Lessons)
	assert.Equal(t, []domain.DayLoad{{Day: "Понедельник", Pairs: 1, Hours: 2}}, byGroup.Load)

	byTeacher, err := s.Schedule(domain.ModeTeacher, "Иванов А.Б.")
	require.NoError(t, err)
	assert.Equal(t, []string{"Физика (Каб. 5) (Группы: 41ИС, 41ИТ)"}, byTeacher.Days[0].Lessons)
}

func TestScheduleNotFoundSuggests(t *testing.T) {
	s := newTestService(&fakeSource{}, nil, nil)
	s.SetGrid(testGrid())

	_, err := s.Schedule(domain.ModeGroup, "41И")
	require.ErrorIs(t, err, domain.ErrGroupNotFound)

	var nf *domain.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.ElementsMatch(t, []string{"41ИС", "41ИТ"}, nf.Suggestions)

	_, err = s.Schedule(domain.ModeTeacher, "Иваноф А.Б.")
	require.ErrorIs(t, err, domain.ErrTeacherNotFound)
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, []string{"Иванов А.Б."}, nf.Suggestions)
}

func TestPreferences(t *testing.T) {
	prefs := &memPrefs{}
	s := newTestService(&fakeSource{}, nil, prefs)
	s.SetGrid(testGrid())

	err := s.SavePreferences(domain.Preferences{Group: "99ZZ"})
	require.ErrorIs(t, err, domain.ErrGroupNotFound)
	assert.Equal(t, domain.Preferences{}, prefs.prefs)

	require.NoError(t, s.SavePreferences(domain.Preferences{Mode: domain.ModeTeacher, Teacher: "Петров В.Г."}))

	result, err := s.ForPreferences()
	require.NoError(t, err)
	assert.Equal(t, domain.ModeTeacher, result.Mode)
	assert.Equal(t, []string{"Химия (Каб. 8) (Группа: 42ИС)"}, result.Days[0].Lessons)
}

type fakeNews struct {
	items []domain.NewsItem
	err   error
}

func (f fakeNews) Fetch(ctx context.Context) ([]domain.NewsItem, error) {
	return f.items, f.err
}

func TestNewsService(t *testing.T) {
	items := []domain.NewsItem{{Title: "День открытых дверей", Date: "20.03.2025"}}

	got, err := NewNewsService(fakeNews{items: items}).Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, items, got)

	_, err = NewNewsService(fakeNews{err: errors.New("timeout")}).Latest(context.Background())
	assert.ErrorContains(t, err, "timeout")
}

type memMeals struct {
	plan     domain.MealPlan
	calories map[string]float64
}

func (m memMeals) LoadPlan() (domain.MealPlan, error) {
	return m.plan, nil
}

func (m memMeals) LoadCalories() (map[string]float64, error) {
	return m.calories, nil
}

func TestMealsForDate(t *testing.T) {
	repo := memMeals{
		plan: domain.MealPlan{Meals: []domain.MealDay{
			{Day: "4", Meals: []domain.Meal{
				{Meal: "Обед", Description: "рис, курица"},
				{Meal: "Ужин", Description: "рис, курица", Size: "200г"},
				{Meal: "", Description: "без названия"},
			}},
		}},
		calories: map[string]float64{"рис": 130, "курица": 200},
	}
	ref := time.Date(2025, time.March, 17, 0, 0, 0, 0, time.UTC)
	s := NewMealsService(repo, ref, 14)

	menu, err := s.ForDate(time.Date(2025, time.March, 20, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 4, menu.CycleDay)
	assert.Equal(t, "День 4", menu.Label)
	require.Len(t, menu.Meals, 2)
	// без веса калорийность не оценивается, вес подставляется только для показа
	assert.Equal(t, "200г", menu.Meals[0].Size)
	assert.Equal(t, 300, menu.Meals[0].Calories)
	assert.Equal(t, 330, menu.Meals[1].Calories)

	menu, err = s.ForDate(ref)
	require.NoError(t, err)
	assert.Empty(t, menu.Meals)
}
