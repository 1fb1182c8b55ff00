package usecases

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/Vaflel/spo-schedule/domain"
)

// Сколько похожих вариантов предлагать, если группа или преподаватель не найдены
const maxSuggestions = 3

var ErrNoGrid = errors.New("расписание ещё не загружено")

// ScheduleService хранит последний загруженный лист и строит по нему расписания.
// Лист не изменяется после загрузки, каждый Refresh целиком заменяет снимок.
type ScheduleService struct {
	source GridSource
	cache  GridCache
	prefs  PreferencesRepository
	limits domain.LoadLimits
	now    func() time.Time

	mu   sync.RWMutex
	grid domain.Grid
}

// Meta содержит подписи из заголовка листа
type Meta struct {
	Semester  string `json:"semester"`
	WeekRange string `json:"weekRange"`
}

// ScheduleResult расписание выбранной группы или преподавателя
type ScheduleResult struct {
	Meta
	Mode     domain.Mode          `json:"mode"`
	Identity string               `json:"identity"`
	Days     []domain.DaySchedule `json:"days"`
	Load     []domain.DayLoad     `json:"load"`
}

// NewScheduleService создает новый экземпляр сервиса; cache и prefs могут быть nil
func NewScheduleService(source GridSource, cache GridCache, prefs PreferencesRepository) *ScheduleService {
	return &ScheduleService{
		source: source,
		cache:  cache,
		prefs:  prefs,
		limits: domain.DefaultLoadLimits,
		now:    time.Now,
	}
}

// WithLoadLimits задаёт пороги дневной нагрузки
func (s *ScheduleService) WithLoadLimits(limits domain.LoadLimits) *ScheduleService {
	s.limits = limits
	return s
}

// Refresh перечитывает лист из источника и сохраняет его в кэш.
// Если источник недоступен, используется кэш.
func (s *ScheduleService) Refresh() error {
	grid, err := s.source.LoadGrid()
	if err != nil {
		log.Printf("Ошибка загрузки расписания: %v", err)
		return s.restoreFromCache(err)
	}

	if s.cache != nil {
		if err := s.cache.Save(grid); err != nil {
			log.Printf("Не удалось сохранить кэш расписания: %v", err)
		}
	}

	s.setGrid(grid)
	log.Printf("Расписание загружено: %d строк", len(grid))
	return nil
}

func (s *ScheduleService) restoreFromCache(loadErr error) error {
	if s.cache == nil {
		return fmt.Errorf("не удалось загрузить расписание: %w", loadErr)
	}

	grid, err := s.cache.Load()
	if err != nil {
		return fmt.Errorf("не удалось загрузить расписание: %w (кэш: %v)", loadErr, err)
	}

	s.setGrid(grid)
	log.Printf("Расписание восстановлено из кэша: %d строк", len(grid))
	return nil
}

// SetGrid подменяет текущий снимок листа
func (s *ScheduleService) SetGrid(grid domain.Grid) {
	s.setGrid(grid)
}

func (s *ScheduleService) setGrid(grid domain.Grid) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grid = grid
}

func (s *ScheduleService) snapshot() (domain.Grid, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.grid == nil {
		return nil, ErrNoGrid
	}
	return s.grid, nil
}

func (s *ScheduleService) Groups() ([]string, error) {
	grid, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return domain.Groups(grid), nil
}

func (s *ScheduleService) Teachers() ([]string, error) {
	grid, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return domain.Teachers(grid), nil
}

func (s *ScheduleService) Meta() (Meta, error) {
	grid, err := s.snapshot()
	if err != nil {
		return Meta{}, err
	}
	return metaOf(grid, s.now()), nil
}

func metaOf(grid domain.Grid, now time.Time) Meta {
	return Meta{
		Semester:  domain.SemesterLabel(grid, now),
		WeekRange: domain.WeekRange(grid),
	}
}

// Schedule строит расписание группы или преподавателя по текущему листу.
// Для ненайденного идентификатора возвращает *domain.NotFoundError с похожими вариантами.
func (s *ScheduleService) Schedule(mode domain.Mode, identity string) (ScheduleResult, error) {
	grid, err := s.snapshot()
	if err != nil {
		return ScheduleResult{}, err
	}

	days, err := domain.Build(grid, mode, identity)
	if err != nil {
		var nf *domain.NotFoundError
		if errors.As(err, &nf) {
			nf.Suggestions = suggest(identity, candidates(grid, mode))
		}
		return ScheduleResult{}, err
	}

	return ScheduleResult{
		Meta:     metaOf(grid, s.now()),
		Mode:     mode,
		Identity: identity,
		Days:     days,
		Load:     domain.SummarizeLoad(days, s.limits),
	}, nil
}

// ForPreferences строит расписание для сохранённого выбора пользователя
func (s *ScheduleService) ForPreferences() (ScheduleResult, error) {
	prefs, err := s.Preferences()
	if err != nil {
		return ScheduleResult{}, err
	}
	mode := prefs.Mode
	if mode == "" {
		mode = domain.ModeGroup
	}
	return s.Schedule(mode, prefs.Identity())
}

func (s *ScheduleService) Preferences() (domain.Preferences, error) {
	if s.prefs == nil {
		return domain.Preferences{Mode: domain.ModeGroup}, nil
	}
	return s.prefs.Load()
}

// SavePreferences сохраняет выбор, если группа или преподаватель есть в текущем листе
func (s *ScheduleService) SavePreferences(prefs domain.Preferences) error {
	if s.prefs == nil {
		return errors.New("хранилище настроек не настроено")
	}
	if prefs.Mode == "" {
		prefs.Mode = domain.ModeGroup
	}
	if _, err := s.Schedule(prefs.Mode, prefs.Identity()); err != nil {
		return err
	}
	return s.prefs.Save(prefs)
}

func candidates(grid domain.Grid, mode domain.Mode) []string {
	if mode == domain.ModeTeacher {
		return domain.Teachers(grid)
	}
	return domain.Groups(grid)
}

// suggest подбирает похожие названия: сначала нечёткие совпадения, затем по расстоянию Левенштейна
func suggest(identity string, options []string) []string {
	if identity == "" {
		return nil
	}

	ranks := fuzzy.RankFindNormalizedFold(identity, options)
	if len(ranks) == 0 {
		for _, option := range options {
			distance := fuzzy.LevenshteinDistance(strings.ToLower(identity), strings.ToLower(option))
			if distance <= len([]rune(identity))/2 {
				ranks = append(ranks, fuzzy.Rank{Target: option, Distance: distance})
			}
		}
	}
	sort.Stable(ranks)

	result := make([]string, 0, maxSuggestions)
	for _, r := range ranks {
		if len(result) == maxSuggestions {
			break
		}
		result = append(result, r.Target)
	}
	return result
}
