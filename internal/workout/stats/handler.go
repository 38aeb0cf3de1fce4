package stats

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/trainlog/internal/auth"
	"github.com/2beens/trainlog/internal/telemetry/tracing"
	"github.com/2beens/trainlog/internal/workout/engine"
	"github.com/2beens/trainlog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const (
	defaultRangeDays = 7
	maxRangeDays     = 366
)

type DailyResponse struct {
	Labels      []string                `json:"labels"`
	Series      []engine.Series         `json:"series"`
	CategoryMap map[int]engine.Category `json:"categoryMap"`
	HasData     bool                    `json:"hasData"`
	Warnings    []string                `json:"warnings,omitempty"`
}

type CategoriesResponse struct {
	Labels   []string                      `json:"labels"`
	Daily    map[engine.Category][]float64 `json:"daily"`
	Totals   map[engine.Category]float64   `json:"totals"`
	Shares   map[engine.Category]float64   `json:"shares"`
	Colors   map[engine.Category]string    `json:"colors"`
	Total    float64                       `json:"total"`
	HasData  bool                          `json:"hasData"`
	Warnings []string                      `json:"warnings,omitempty"`
}

type ProgressResponse struct {
	From       string                      `json:"from"`
	To         string                      `json:"to"`
	WindowDays int                         `json:"windowDays"`
	Tier       engine.DifficultyTier       `json:"tier,omitempty"`
	Multiplier float64                     `json:"multiplier"`
	Totals     map[engine.Category]float64 `json:"totals"`
	Targets    map[engine.Category]float64 `json:"targets"`
	Scores     map[engine.Category]int     `json:"scores"`
	HasData    bool                        `json:"hasData"`
}

type CalendarResponse struct {
	Month          string   `json:"month"`
	Year           int      `json:"year"`
	MonthNumber    int      `json:"monthNumber"`
	FirstDayOfWeek string   `json:"firstDayOfWeek"`
	Weeks          [][7]int `json:"weeks"`
	Prev           string   `json:"prev"`
	Next           string   `json:"next"`
	FilledDays     []int    `json:"filledDays"`
}

type Handler struct {
	service *Service
	// today is replaced in tests
	today func() time.Time
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
		today:   pkg.Today,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/workout/stats/daily", handler.HandleDaily).Methods("GET", "OPTIONS").Name("stats-daily")
	router.HandleFunc("/workout/stats/categories", handler.HandleCategories).Methods("GET", "OPTIONS").Name("stats-categories")
	router.HandleFunc("/workout/stats/progress", handler.HandleProgress).Methods("GET", "OPTIONS").Name("stats-progress")
	router.HandleFunc("/workout/stats/week", handler.HandleWeek).Methods("GET", "OPTIONS").Name("stats-week")
	router.HandleFunc("/workout/calendar/{year}/{month}", handler.HandleCalendar).Methods("GET", "OPTIONS").Name("workout-calendar")
}

func (handler *Handler) HandleDaily(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.stats.daily")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	from, to, ok := handler.rangeFromQuery(w, r)
	if !ok {
		return
	}
	reverse := r.URL.Query().Get("reverse") == "true"

	resp := DailyResponse{
		Series:      []engine.Series{},
		CategoryMap: map[int]engine.Category{},
	}
	daily, err := handler.service.Daily(ctx, userID, from, to, reverse)
	switch {
	case errors.Is(err, engine.ErrNoData):
		resp.Labels = dayLabels(from, to)
	case err != nil:
		log.Errorf("failed to get daily stats of user %d: %s", userID, err)
		http.Error(w, "failed to get daily stats", http.StatusInternalServerError)
		return
	default:
		resp.Labels = daily.Labels()
		resp.Series = daily.Series
		resp.CategoryMap = daily.CategoryOf
		resp.HasData = daily.HasData
		resp.Warnings = warningMessages(daily.Warnings)
	}

	handler.writeJSON(w, resp, "daily stats")
}

func (handler *Handler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.stats.categories")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	from, to, ok := handler.rangeFromQuery(w, r)
	if !ok {
		return
	}

	summary, err := handler.service.Categories(ctx, userID, from, to)
	if err != nil {
		log.Errorf("failed to get category stats of user %d: %s", userID, err)
		http.Error(w, "failed to get category stats", http.StatusInternalServerError)
		return
	}

	handler.writeJSON(w, newCategoriesResponse(summary), "category stats")
}

func (handler *Handler) HandleWeek(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.stats.week")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	date := handler.today()
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		d, err := pkg.ParseDay(dateStr)
		if err != nil {
			http.Error(w, "error, invalid date", http.StatusBadRequest)
			return
		}
		date = d
	}

	summary, err := handler.service.Week(ctx, userID, date)
	if err != nil {
		log.Errorf("failed to get week stats of user %d: %s", userID, err)
		http.Error(w, "failed to get week stats", http.StatusInternalServerError)
		return
	}

	handler.writeJSON(w, newCategoriesResponse(summary), "week stats")
}

func (handler *Handler) HandleProgress(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.stats.progress")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	windowDays := engine.TargetWindowDays
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		days, err := strconv.Atoi(daysStr)
		if err != nil || days < 1 || days > maxRangeDays {
			http.Error(w, "error, invalid days", http.StatusBadRequest)
			return
		}
		windowDays = days
	}

	progress, err := handler.service.Progress(ctx, userID, windowDays, handler.today())
	if err != nil {
		log.Errorf("failed to get progress of user %d: %s", userID, err)
		http.Error(w, "failed to get progress", http.StatusInternalServerError)
		return
	}

	handler.writeJSON(w, ProgressResponse{
		From:       pkg.FormatDay(progress.From),
		To:         pkg.FormatDay(progress.To),
		WindowDays: progress.WindowDays,
		Tier:       progress.Profile.Tier,
		Multiplier: progress.Multiplier,
		Totals:     progress.Totals,
		Targets:    progress.Targets,
		Scores:     progress.Scores,
		HasData:    progress.HasData,
	}, "progress")
}

func (handler *Handler) HandleCalendar(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.stats.calendar")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	year, err := strconv.Atoi(vars["year"])
	if err != nil || year < 1 {
		http.Error(w, "error, invalid year", http.StatusBadRequest)
		return
	}
	month, err := strconv.Atoi(vars["month"])
	if err != nil {
		http.Error(w, "error, invalid month", http.StatusBadRequest)
		return
	}

	calendar, err := handler.service.Calendar(ctx, userID, year, month)
	if err != nil {
		if errors.Is(err, engine.ErrInvalidMonth) {
			http.Error(w, "error, invalid month", http.StatusBadRequest)
			return
		}
		log.Errorf("failed to get calendar %d-%d of user %d: %s", year, month, userID, err)
		http.Error(w, "failed to get calendar", http.StatusInternalServerError)
		return
	}

	filled := calendar.FilledDays
	if filled == nil {
		filled = []int{}
	}
	handler.writeJSON(w, CalendarResponse{
		Month:          calendar.YearMonth.String(),
		Year:           calendar.Year,
		MonthNumber:    int(calendar.Month),
		FirstDayOfWeek: calendar.FirstDayOfWeek.String(),
		Weeks:          calendar.Weeks,
		Prev:           calendar.Prev.String(),
		Next:           calendar.Next.String(),
		FilledDays:     filled,
	}, "calendar")
}

func (handler *Handler) rangeFromQuery(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	query := r.URL.Query()
	from, to, err := pkg.DayRange(query.Get("from"), query.Get("to"), defaultRangeDays, handler.today())
	if err != nil {
		http.Error(w, "error, invalid range: "+err.Error(), http.StatusBadRequest)
		return time.Time{}, time.Time{}, false
	}
	if int(to.Sub(from).Hours()/24)+1 > maxRangeDays {
		http.Error(w, "error, range too long", http.StatusBadRequest)
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

func (handler *Handler) writeJSON(w http.ResponseWriter, resp any, what string) {
	respJson, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("failed to marshal %s: %s", what, err)
		http.Error(w, "failed to get "+what, http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func newCategoriesResponse(summary *engine.CategorySummary) CategoriesResponse {
	colors := make(map[engine.Category]string, len(engine.Categories))
	for _, c := range engine.Categories {
		colors[c] = c.Color()
	}
	return CategoriesResponse{
		Labels:   summary.Labels(),
		Daily:    summary.Daily,
		Totals:   summary.Totals,
		Shares:   summary.Shares(),
		Colors:   colors,
		Total:    summary.Total(),
		HasData:  summary.HasData,
		Warnings: warningMessages(summary.Warnings),
	}
}

func dayLabels(from, to time.Time) []string {
	days := engine.DaysBetween(from, to)
	labels := make([]string, len(days))
	for i, d := range days {
		labels[i] = pkg.FormatDay(d)
	}
	return labels
}

func warningMessages(warnings []engine.MissingExerciseWarning) []string {
	if len(warnings) == 0 {
		return nil
	}
	messages := make([]string, len(warnings))
	for i, w := range warnings {
		messages[i] = w.Error()
	}
	return messages
}
