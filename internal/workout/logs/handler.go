package logs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/2beens/trainlog/internal/auth"
	"github.com/2beens/trainlog/internal/telemetry/metrics"
	"github.com/2beens/trainlog/internal/telemetry/tracing"
	"github.com/2beens/trainlog/internal/workout/engine"
	"github.com/2beens/trainlog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=logs_mocks_test.go -package=logs_test

type logsRepo interface {
	Add(ctx context.Context, entry LogEntry) (*LogEntry, error)
	Delete(ctx context.Context, userID, id int) error
	ListRange(ctx context.Context, userID int, from, to time.Time) ([]LogEntry, error)
	ListDay(ctx context.Context, userID int, day time.Time) ([]LogEntry, error)
}

type catalogProvider interface {
	Catalog(ctx context.Context, userID int) (engine.Catalog, error)
}

const (
	defaultRangeDays = 7
	// characters, not bytes
	maxCommentLength = 500
)

type LogRequest struct {
	Date       string  `json:"date"`
	ExerciseID int     `json:"exerciseId"`
	Sets       int     `json:"sets"`
	Reps       int     `json:"reps"`
	Weight     float64 `json:"weight"`
	Comment    string  `json:"comment"`
}

// EntryView is a log entry joined with the exercise it references.
type EntryView struct {
	LogEntry
	Date     string          `json:"date"`
	Exercise string          `json:"exercise"`
	Category engine.Category `json:"category"`
	Load     float64         `json:"load"`
}

type DayResponse struct {
	Date      string      `json:"date"`
	Entries   []EntryView `json:"entries"`
	TotalLoad float64     `json:"totalLoad"`
}

type RangeResponse struct {
	From    string      `json:"from"`
	To      string      `json:"to"`
	Entries []EntryView `json:"entries"`
}

type Handler struct {
	repo           logsRepo
	catalog        catalogProvider
	metricsManager *metrics.Manager
}

func NewHandler(repo logsRepo, catalog catalogProvider, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		repo:           repo,
		catalog:        catalog,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/workout/logs", handler.HandleAdd).Methods("POST", "OPTIONS").Name("new-workout-log")
	router.HandleFunc("/workout/logs", handler.HandleList).Methods("GET", "OPTIONS").Name("list-workout-logs")
	router.HandleFunc("/workout/logs/day/{date}", handler.HandleDay).Methods("GET", "OPTIONS").Name("day-workout-logs")
	router.HandleFunc("/workout/logs/{id}", handler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-workout-log")
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.logs.new")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req LogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("new workout log, unmarshal json params: %s", err)
		http.Error(w, "add workout log failed", http.StatusBadRequest)
		return
	}

	day, err := pkg.ParseDay(req.Date)
	if err != nil {
		http.Error(w, "error, invalid date", http.StatusBadRequest)
		return
	}

	comment := strings.TrimSpace(req.Comment)
	if !utf8.ValidString(comment) || strings.ContainsRune(comment, 0) {
		http.Error(w, "error, invalid comment", http.StatusBadRequest)
		return
	}
	if utf8.RuneCountInString(comment) > maxCommentLength {
		http.Error(w, "error, comment too long", http.StatusBadRequest)
		return
	}

	entry := LogEntry{
		UserID:     userID,
		ExerciseID: req.ExerciseID,
		Date:       day,
		Sets:       req.Sets,
		Reps:       req.Reps,
		Weight:     req.Weight,
		Comment:    comment,
	}
	if err := entry.Engine().Validate(); err != nil {
		http.Error(w, "error, "+err.Error(), http.StatusBadRequest)
		return
	}

	catalog, err := handler.catalog.Catalog(ctx, userID)
	if err != nil {
		log.Errorf("failed to get exercise catalog of user %d: %s", userID, err)
		http.Error(w, "error, failed to add workout log", http.StatusInternalServerError)
		return
	}
	info, found := catalog[req.ExerciseID]
	if !found || !info.IsActive() {
		http.Error(w, "error, exercise not found", http.StatusNotFound)
		return
	}

	added, err := handler.repo.Add(ctx, entry)
	if err != nil {
		if errors.Is(err, ErrUnknownExercise) {
			http.Error(w, "error, exercise not found", http.StatusNotFound)
			return
		}
		if errors.Is(err, ErrRejectedEntry) {
			http.Error(w, "error, invalid workout log", http.StatusBadRequest)
			return
		}
		log.Errorf("failed to add workout log for user %d: %s", userID, err)
		http.Error(w, "error, failed to add workout log", http.StatusInternalServerError)
		return
	}
	handler.metricsManager.CounterWorkoutLogs.Inc()
	span.SetAttributes(attribute.Int("log.id", added.ID))

	addedJson, err := json.Marshal(toView(*added, catalog))
	if err != nil {
		log.Errorf("failed to marshal new workout log: %s", err)
		http.Error(w, "error, failed to add workout log", http.StatusInternalServerError)
		return
	}

	log.Debugf("new workout log added: %s", addedJson)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedJson, http.StatusCreated)
}

func (handler *Handler) HandleDay(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.logs.day")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	day, err := pkg.ParseDay(mux.Vars(r)["date"])
	if err != nil {
		http.Error(w, "error, invalid date", http.StatusBadRequest)
		return
	}

	entries, err := handler.repo.ListDay(ctx, userID, day)
	if err != nil {
		log.Errorf("failed to list workout logs of user %d for %s: %s", userID, pkg.FormatDay(day), err)
		http.Error(w, "failed to get workout logs", http.StatusInternalServerError)
		return
	}

	catalog, err := handler.catalog.Catalog(ctx, userID)
	if err != nil {
		log.Errorf("failed to get exercise catalog of user %d: %s", userID, err)
		http.Error(w, "failed to get workout logs", http.StatusInternalServerError)
		return
	}

	resp := DayResponse{
		Date:    pkg.FormatDay(day),
		Entries: toViews(entries, catalog),
	}
	for _, e := range resp.Entries {
		resp.TotalLoad += e.Load
	}

	respJson, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("failed to marshal workout logs: %s", err)
		http.Error(w, "failed to get workout logs", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.logs.list")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	query := r.URL.Query()
	from, to, err := pkg.DayRange(query.Get("from"), query.Get("to"), defaultRangeDays, pkg.Today())
	if err != nil {
		http.Error(w, "error, invalid range: "+err.Error(), http.StatusBadRequest)
		return
	}

	entries, err := handler.repo.ListRange(ctx, userID, from, to)
	if err != nil {
		log.Errorf("failed to list workout logs of user %d: %s", userID, err)
		http.Error(w, "failed to get workout logs", http.StatusInternalServerError)
		return
	}

	catalog, err := handler.catalog.Catalog(ctx, userID)
	if err != nil {
		log.Errorf("failed to get exercise catalog of user %d: %s", userID, err)
		http.Error(w, "failed to get workout logs", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(RangeResponse{
		From:    pkg.FormatDay(from),
		To:      pkg.FormatDay(to),
		Entries: toViews(entries, catalog),
	})
	if err != nil {
		log.Errorf("failed to marshal workout logs: %s", err)
		http.Error(w, "failed to get workout logs", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.logs.delete")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	idStr := mux.Vars(r)["id"]
	if idStr == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, ErrLogEntryNotFound) {
			http.Error(w, "workout log not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete workout log %d: %s", id, err)
		http.Error(w, "failed to delete workout log", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, `{"deletedId":`+strconv.Itoa(id)+`}`)
}

func toView(e LogEntry, catalog engine.Catalog) EntryView {
	view := EntryView{
		LogEntry: e,
		Date:     pkg.FormatDay(e.Date),
		Load:     e.Engine().Load(),
	}
	if info, ok := catalog[e.ExerciseID]; ok {
		view.Exercise = info.Name
		view.Category = info.Category
	}
	return view
}

func toViews(entries []LogEntry, catalog engine.Catalog) []EntryView {
	views := make([]EntryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, toView(e, catalog))
	}
	return views
}
