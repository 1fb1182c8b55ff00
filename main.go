package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/Vaflel/spo-schedule/config"
	"github.com/Vaflel/spo-schedule/infrastructure"
	"github.com/Vaflel/spo-schedule/usecases"
	"github.com/Vaflel/spo-schedule/web"
)

var dotEnv = flag.String("env", ".env", "path to .env file")

// openBrowser opens the specified URL in the default browser on Windows
func openBrowser(url string) {
	err := exec.Command("cmd", "/c", "start", url).Start()
	if err != nil {
		log.Printf("Не удалось открыть браузер: %v", err)
		log.Printf("Откройте вручную: %s", url)
	}
}

// setupLog пишет журнал в файл; если файл открыть не удалось, остаётся stderr
func setupLog(path string) {
	if path == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Printf("Не удалось создать каталог журнала: %v", err)
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Printf("Не удалось открыть файл журнала: %v", err)
		return
	}
	log.SetOutput(f)
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)
}

func main() {
	flag.Parse()

	cfg, err := config.Load(*dotEnv)
	if err != nil {
		log.Fatalf("Ошибка загрузки настроек: %v", err)
	}
	setupLog(cfg.LogFile)

	source, err := infrastructure.NewFileGridSource(cfg.ScheduleFile, cfg.XLSCharset)
	if err != nil {
		log.Fatalf("Ошибка настройки источника расписания: %v", err)
	}

	schedule := usecases.NewScheduleService(
		source,
		infrastructure.NewJSONGridCache(cfg.CacheFile),
		infrastructure.NewYAMLPreferencesRepository(cfg.PreferencesFile),
	).WithLoadLimits(cfg.Limits)

	if err := schedule.Refresh(); err != nil {
		// сервер всё равно стартует: лист можно загрузить позже через /refresh
		log.Printf("Расписание не загружено: %v", err)
	}

	news := usecases.NewNewsService(infrastructure.NewNewsParser(cfg.NewsURL, cfg.NewsProxyURL, cfg.HTTPTimeout))
	meals := usecases.NewMealsService(
		infrastructure.NewJSONMealsRepository(cfg.MealsFile, cfg.CaloriesFile),
		cfg.MealReference,
		cfg.MealCycleLength,
	)

	server := web.NewServer(schedule, news, meals)

	if cfg.OpenBrowser {
		go func() {
			time.Sleep(500 * time.Millisecond)
			url := fmt.Sprintf("http://localhost:%d/schedule", cfg.Port)
			log.Printf("Открываем браузер: %s\n", url)
			openBrowser(url)
		}()
	}

	if err := server.Start(cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Ошибка запуска веб-сервера: %v", err)
	}
	log.Println("Сервер остановлен")
}
