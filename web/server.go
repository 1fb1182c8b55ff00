package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/Vaflel/spo-schedule/domain"
	"github.com/Vaflel/spo-schedule/infrastructure"
	"github.com/Vaflel/spo-schedule/usecases"
)

const dateLayout = "2006-01-02"

type Server struct {
	schedule *usecases.ScheduleService
	news     *usecases.NewsService
	meals    *usecases.MealsService
	now      func() time.Time

	mu           sync.Mutex
	isProcessing bool
	lastError    string
	refreshedAt  time.Time
	server       *http.Server
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type StatusResponse struct {
	IsProcessing bool       `json:"isProcessing"`
	LastError    string     `json:"lastError,omitempty"`
	RefreshedAt  *time.Time `json:"refreshedAt,omitempty"`
}

// ErrorResponse тело ответа с ошибкой; Suggestions заполняется для ненайденной группы или преподавателя
type ErrorResponse struct {
	Error       string   `json:"error"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// NewServer создаёт сервер; news и meals могут быть nil, тогда их маршруты отвечают 503
func NewServer(schedule *usecases.ScheduleService, news *usecases.NewsService, meals *usecases.MealsService) *Server {
	return &Server{
		schedule: schedule,
		news:     news,
		meals:    meals,
		now:      time.Now,
	}
}

// Handler возвращает маршрутизатор со всеми обработчиками
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/groups", s.handleGroups)
	mux.HandleFunc("/teachers", s.handleTeachers)
	mux.HandleFunc("/meta", s.handleMeta)
	mux.HandleFunc("/schedule", s.handleSchedule)
	mux.HandleFunc("/schedule.csv", s.handleScheduleCSV)
	mux.HandleFunc("/preferences", s.handlePreferences)
	mux.HandleFunc("/refresh", s.handleRefresh)
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/news", s.handleNews)
	mux.HandleFunc("/meals", s.handleMeals)
	mux.HandleFunc("/shutdown", s.handleShutdown)
	return mux
}

func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Printf("🚀 Сервер запущен на http://localhost%s", addr)
	return s.server.ListenAndServe()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Ошибка записи ответа: %v", err)
	}
}

// writeError переводит ошибку сервиса в HTTP-статус
func writeError(w http.ResponseWriter, err error) {
	var nf *domain.NotFoundError
	switch {
	case errors.As(err, &nf):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error(), Suggestions: nf.Suggestions})
	case errors.Is(err, usecases.ErrNoGrid):
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()})
	default:
		log.Printf("Ошибка обработки запроса: %v", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Ошибка сервера"})
	}
}

func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "Метод не разрешен"})
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGroups(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	groups, err := s.schedule.Groups()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

func (s *Server) handleTeachers(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	teachers, err := s.schedule.Teachers()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, teachers)
}

func (s *Server) handleMeta(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	meta, err := s.schedule.Meta()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, meta)
}

// resolveSchedule строит расписание по параметрам запроса.
// Без identity используется сохранённый выбор пользователя; если mode указан,
// из настроек берётся группа или преподаватель для этого режима.
func (s *Server) resolveSchedule(w http.ResponseWriter, r *http.Request) (usecases.ScheduleResult, bool) {
	q := r.URL.Query()
	mode, err := domain.ParseMode(q.Get("mode"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return usecases.ScheduleResult{}, false
	}

	var result usecases.ScheduleResult
	switch identity := q.Get("identity"); {
	case identity != "":
		result, err = s.schedule.Schedule(mode, identity)
	case q.Get("mode") != "":
		var prefs domain.Preferences
		if prefs, err = s.schedule.Preferences(); err != nil {
			break
		}
		prefs.Mode = mode
		if prefs.Identity() == "" {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Не указана группа или преподаватель"})
			return usecases.ScheduleResult{}, false
		}
		result, err = s.schedule.Schedule(mode, prefs.Identity())
	default:
		result, err = s.schedule.ForPreferences()
	}
	if err != nil {
		writeError(w, err)
		return usecases.ScheduleResult{}, false
	}
	return result, true
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	result, ok := s.resolveSchedule(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleScheduleCSV(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	result, ok := s.resolveSchedule(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="schedule.csv"`)
	if err := infrastructure.WriteScheduleCSV(w, result.Days); err != nil {
		log.Printf("Ошибка выгрузки CSV: %v", err)
	}
}

func (s *Server) handlePreferences(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		prefs, err := s.schedule.Preferences()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, prefs)

	case http.MethodPost:
		var prefs domain.Preferences
		if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Неверный формат запроса"})
			return
		}
		mode, err := domain.ParseMode(string(prefs.Mode))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		prefs.Mode = mode
		if prefs.Identity() == "" {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Не указана группа или преподаватель"})
			return
		}

		if err := s.schedule.SavePreferences(prefs); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, prefs)

	default:
		writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "Метод не разрешен"})
	}
}

// handleRefresh запускает перечитывание листа в фоне; ход обработки отдаёт /status
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	s.mu.Lock()
	if s.isProcessing {
		s.mu.Unlock()
		writeJSON(w, http.StatusTooManyRequests, ErrorResponse{Error: "Обработка уже выполняется"})
		return
	}
	s.isProcessing = true
	s.mu.Unlock()

	go func() {
		err := s.schedule.Refresh()

		s.mu.Lock()
		defer s.mu.Unlock()

		s.isProcessing = false
		if err != nil {
			log.Printf("Ошибка обработки расписания: %v", err)
			s.lastError = err.Error()
			return
		}
		s.lastError = ""
		s.refreshedAt = s.now()
	}()

	writeJSON(w, http.StatusAccepted, MessageResponse{
		Success: true,
		Message: "Обработка запущена",
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	response := StatusResponse{
		IsProcessing: s.isProcessing,
		LastError:    s.lastError,
	}
	if !s.refreshedAt.IsZero() {
		at := s.refreshedAt
		response.RefreshedAt = &at
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	if s.news == nil {
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: "Новости не настроены"})
		return
	}

	items, err := s.news.Latest(r.Context())
	if err != nil {
		log.Printf("Ошибка загрузки новостей: %v", err)
		writeJSON(w, http.StatusBadGateway, ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleMeals(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	if s.meals == nil {
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: "Меню не настроено"})
		return
	}

	date := s.now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Дата должна быть в формате ГГГГ-ММ-ДД"})
			return
		}
		date = parsed
	}

	menu, err := s.meals.ForDate(date)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, menu)
}

func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Success: true, Message: "Сервер завершает работу"})

	if s.server == nil {
		return
	}
	go func() {
		log.Println("Завершение работы сервера...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(ctx); err != nil {
			log.Printf("Ошибка при завершении работы: %v", err)
		}
	}()
}
