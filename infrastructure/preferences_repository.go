package infrastructure

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/Vaflel/spo-schedule/domain"
)

// PreferencesConfig структура для загрузки из YAML
type PreferencesConfig struct {
	Preferences domain.Preferences `yaml:"preferences"`
}

// YAMLPreferencesRepository хранит выбранный режим, группу и преподавателя в YAML-файле
type YAMLPreferencesRepository struct {
	filename string
	mutex    sync.RWMutex
}

// NewYAMLPreferencesRepository создает новый экземпляр репозитория
func NewYAMLPreferencesRepository(filename string) *YAMLPreferencesRepository {
	return &YAMLPreferencesRepository{
		filename: filename,
	}
}

// Load загружает настройки; отсутствующий файл означает настройки по умолчанию
func (r *YAMLPreferencesRepository) Load() (domain.Preferences, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return r.loadUnsafe()
}

// Save сохраняет настройки, обрезая пробелы вокруг названий
func (r *YAMLPreferencesRepository) Save(prefs domain.Preferences) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	prefs.Group = strings.TrimSpace(prefs.Group)
	prefs.Teacher = strings.TrimSpace(prefs.Teacher)
	if prefs.Mode == "" {
		prefs.Mode = domain.ModeGroup
	}

	return r.saveUnsafe(prefs)
}

// loadUnsafe загружает настройки без блокировки (внутренний метод)
func (r *YAMLPreferencesRepository) loadUnsafe() (domain.Preferences, error) {
	defaults := domain.Preferences{Mode: domain.ModeGroup}

	data, err := os.ReadFile(r.filename)
	if errors.Is(err, os.ErrNotExist) {
		return defaults, nil
	}
	if err != nil {
		return defaults, fmt.Errorf("не удалось прочитать файл: %w", err)
	}

	var config PreferencesConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return defaults, fmt.Errorf("не удалось распарсить YAML: %w", err)
	}

	prefs := config.Preferences
	mode, err := domain.ParseMode(string(prefs.Mode))
	if err != nil {
		return defaults, err
	}
	prefs.Mode = mode
	prefs.Group = strings.TrimSpace(prefs.Group)
	prefs.Teacher = strings.TrimSpace(prefs.Teacher)

	return prefs, nil
}

// saveUnsafe сохраняет настройки в YAML файл без блокировки (внутренний метод)
func (r *YAMLPreferencesRepository) saveUnsafe(prefs domain.Preferences) error {
	data, err := yaml.Marshal(PreferencesConfig{Preferences: prefs})
	if err != nil {
		return fmt.Errorf("не удалось сериализовать YAML: %w", err)
	}

	if err := os.WriteFile(r.filename, data, 0644); err != nil {
		return fmt.Errorf("не удалось записать файл: %w", err)
	}

	return nil
}
