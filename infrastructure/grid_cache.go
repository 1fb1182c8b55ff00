package infrastructure

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Vaflel/spo-schedule/domain"
)

// JSONGridCache хранит последний разобранный лист в JSON-файле как массив строк.
// При чтении допускаются числа и null в ячейках: они приводятся к строкам.
// Доступ к файлу синхронизирован мьютексом.
type JSONGridCache struct {
	filename string
	mu       sync.RWMutex
}

// NewJSONGridCache создаёт кэш в указанном файле
func NewJSONGridCache(filename string) *JSONGridCache {
	return &JSONGridCache{filename: filename}
}

// Load читает лист из кэша
func (c *JSONGridCache) Load() (domain.Grid, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.filename)
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать кэш: %w", err)
	}

	var raw [][]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("не удалось распарсить кэш: %w", err)
	}

	return domain.NewGrid(raw), nil
}

// Save атомарно перезаписывает кэш: сначала во временный файл, затем переименование
func (c *JSONGridCache) Save(grid domain.Grid) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := json.Marshal(grid)
	if err != nil {
		return fmt.Errorf("не удалось сериализовать лист: %w", err)
	}

	if dir := filepath.Dir(c.filename); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("не удалось создать каталог кэша: %w", err)
		}
	}

	tmp := c.filename + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("не удалось записать кэш: %w", err)
	}

	if err := os.Rename(tmp, c.filename); err != nil {
		return fmt.Errorf("не удалось записать кэш: %w", err)
	}

	return nil
}
