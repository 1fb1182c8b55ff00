package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Vaflel/spo-schedule/domain"
)

const (
	envPrefix  = "SPO"
	dateLayout = "2006-01-02"
)

// Config содержит настройки приложения.
// Значения берутся из умолчаний, необязательного файла spo-schedule.yaml
// в рабочем каталоге и переменных окружения с префиксом SPO_ (например SPO_PORT).
type Config struct {
	Port            int
	OpenBrowser     bool
	LogFile         string
	ScheduleFile    string
	XLSCharset      string
	CacheFile       string
	PreferencesFile string
	MealsFile       string
	CaloriesFile    string
	MealReference   time.Time
	MealCycleLength int
	NewsURL         string
	NewsProxyURL    string
	HTTPTimeout     time.Duration
	Limits          domain.LoadLimits
}

func defaults(v *viper.Viper) {
	v.SetDefault("port", 8060)
	v.SetDefault("open_browser", false)
	v.SetDefault("log_file", "logs/app.log")
	v.SetDefault("schedule_file", "schedule.xlsx")
	v.SetDefault("xls_charset", "windows-1251")
	v.SetDefault("cache_file", "schedule.json")
	v.SetDefault("preferences_file", "preferences.yaml")
	v.SetDefault("meals_file", "meals.json")
	v.SetDefault("calories_file", "calorieDatabase.json")
	v.SetDefault("meal_reference", "2025-03-17")
	v.SetDefault("meal_cycle_length", 14)
	v.SetDefault("news_url", "https://spo-13.mskobr.ru/")
	v.SetDefault("news_proxy_url", "")
	v.SetDefault("http_timeout", 30*time.Second)
	v.SetDefault("max_daily_hours", domain.DefaultLoadLimits.MaxHours)
	v.SetDefault("max_windows", domain.DefaultLoadLimits.MaxWindows)
}

// Load читает настройки. dotEnvPath указывает на .env файл; если файла нет, он пропускается.
func Load(dotEnvPath string) (*Config, error) {
	if dotEnvPath != "" {
		if _, err := os.Stat(dotEnvPath); err == nil {
			if err := godotenv.Load(dotEnvPath); err != nil {
				return nil, fmt.Errorf("не удалось прочитать %s: %w", dotEnvPath, err)
			}
			log.Printf("Загружены переменные окружения из %s", dotEnvPath)
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("не удалось проверить %s: %w", dotEnvPath, err)
		}
	}

	v := viper.New()
	v.SetTypeByDefaultValue(true)
	defaults(v)

	v.SetConfigName("spo-schedule")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("не удалось прочитать файл настроек: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	reference, err := time.Parse(dateLayout, v.GetString("meal_reference"))
	if err != nil {
		return nil, fmt.Errorf("некорректная дата начала цикла меню: %w", err)
	}

	cfg := &Config{
		Port:            v.GetInt("port"),
		OpenBrowser:     v.GetBool("open_browser"),
		LogFile:         v.GetString("log_file"),
		ScheduleFile:    v.GetString("schedule_file"),
		XLSCharset:      v.GetString("xls_charset"),
		CacheFile:       v.GetString("cache_file"),
		PreferencesFile: v.GetString("preferences_file"),
		MealsFile:       v.GetString("meals_file"),
		CaloriesFile:    v.GetString("calories_file"),
		MealReference:   reference,
		MealCycleLength: v.GetInt("meal_cycle_length"),
		NewsURL:         v.GetString("news_url"),
		NewsProxyURL:    v.GetString("news_proxy_url"),
		HTTPTimeout:     v.GetDuration("http_timeout"),
		Limits: domain.LoadLimits{
			MaxHours:   v.GetInt("max_daily_hours"),
			MaxWindows: v.GetInt("max_windows"),
		},
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("некорректный порт %d", cfg.Port)
	}
	if cfg.MealCycleLength <= 0 {
		return nil, fmt.Errorf("длина цикла меню должна быть больше нуля")
	}

	return cfg, nil
}
