package exercises

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/2beens/trainlog/internal/auth"
	"github.com/2beens/trainlog/internal/telemetry/tracing"
	"github.com/2beens/trainlog/internal/workout/engine"
	"github.com/2beens/trainlog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=exercises_mocks_test.go -package=exercises_test

type exercisesRepo interface {
	Add(ctx context.Context, exercise Exercise) (*Exercise, error)
	Get(ctx context.Context, userID, id int) (*Exercise, error)
	ListActive(ctx context.Context, userID int) ([]Exercise, error)
	Update(ctx context.Context, exercise *Exercise) error
	SoftDelete(ctx context.Context, userID, id int) error
	Reorder(ctx context.Context, userID int, items []OrderItem) error
}

type catalogInvalidator interface {
	Invalidate(userID int)
}

const maxNameLength = 100

type ExerciseRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Detail   string `json:"detail"`
}

func (req ExerciseRequest) validate() (engine.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return "", errors.New("name empty")
	}
	if len(name) > maxNameLength {
		return "", errors.New("name too long")
	}
	return engine.ParseCategory(req.Category)
}

type ListResponse struct {
	Groups []CategoryGroup `json:"groups"`
	Total  int             `json:"total"`
}

type DeleteExerciseResponse struct {
	DeletedID int `json:"deletedId"`
}

type ReorderResponse struct {
	Reordered int `json:"reordered"`
}

type Handler struct {
	repo  exercisesRepo
	cache catalogInvalidator
}

func NewHandler(repo exercisesRepo, cache catalogInvalidator) *Handler {
	return &Handler{
		repo:  repo,
		cache: cache,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/workout/exercises", handler.HandleAdd).Methods("POST", "OPTIONS").Name("new-exercise")
	router.HandleFunc("/workout/exercises", handler.HandleList).Methods("GET", "OPTIONS").Name("list-exercises")
	router.HandleFunc("/workout/exercises/reorder", handler.HandleReorder).Methods("POST", "OPTIONS").Name("reorder-exercises")
	router.HandleFunc("/workout/exercises/{id}", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-exercise")
	router.HandleFunc("/workout/exercises/{id}", handler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-exercise")
	router.HandleFunc("/workout/exercises/{id}", handler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-exercise")
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.new")
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

	var req ExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("new exercise, unmarshal json params: %s", err)
		http.Error(w, "add exercise failed", http.StatusBadRequest)
		return
	}

	category, err := req.validate()
	if err != nil {
		http.Error(w, "error, invalid exercise: "+err.Error(), http.StatusBadRequest)
		return
	}

	added, err := handler.repo.Add(ctx, Exercise{
		UserID:   userID,
		Name:     strings.TrimSpace(req.Name),
		Category: category,
		Detail:   strings.TrimSpace(req.Detail),
	})
	if err != nil {
		log.Errorf("failed to add new exercise [%s] for user %d: %s", req.Name, userID, err)
		http.Error(w, "error, failed to add new exercise", http.StatusInternalServerError)
		return
	}
	handler.cache.Invalidate(userID)
	span.SetAttributes(attribute.Int("exercise.id", added.ID))

	addedJson, err := json.Marshal(added)
	if err != nil {
		log.Errorf("failed to marshal new exercise: %s", err)
		http.Error(w, "error, failed to add new exercise", http.StatusInternalServerError)
		return
	}

	log.Debugf("new exercise added: %s", addedJson)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedJson, http.StatusCreated)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.list")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	exercises, err := handler.repo.ListActive(ctx, userID)
	if err != nil {
		log.Errorf("failed to list exercises of user %d: %s", userID, err)
		http.Error(w, "failed to get exercises", http.StatusInternalServerError)
		return
	}

	listJson, err := json.Marshal(ListResponse{
		Groups: GroupByCategory(exercises),
		Total:  len(exercises),
	})
	if err != nil {
		log.Errorf("failed to marshal exercises: %s", err)
		http.Error(w, "failed to get exercises", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, listJson, http.StatusOK)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.get")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, ok := exerciseIDFromPath(w, r)
	if !ok {
		return
	}

	e, err := handler.repo.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, ErrExerciseNotFound) {
			http.Error(w, "exercise not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get exercise %d: %s", id, err)
		http.Error(w, "failed to get exercise", http.StatusInternalServerError)
		return
	}

	exJson, err := json.Marshal(e)
	if err != nil {
		log.Errorf("failed to marshal exercise: %s", err)
		http.Error(w, "failed to marshal exercise", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, exJson, http.StatusOK)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.update")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, ok := exerciseIDFromPath(w, r)
	if !ok {
		return
	}

	var req ExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("update exercise, unmarshal json params: %s", err)
		http.Error(w, "update exercise failed", http.StatusBadRequest)
		return
	}

	category, err := req.validate()
	if err != nil {
		http.Error(w, "error, invalid exercise: "+err.Error(), http.StatusBadRequest)
		return
	}

	exercise := &Exercise{
		ID:       id,
		UserID:   userID,
		Name:     strings.TrimSpace(req.Name),
		Category: category,
		Detail:   strings.TrimSpace(req.Detail),
	}
	if err := handler.repo.Update(ctx, exercise); err != nil {
		if errors.Is(err, ErrExerciseNotFound) {
			http.Error(w, "exercise not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to update exercise %d: %s", id, err)
		http.Error(w, "failed to update exercise", http.StatusInternalServerError)
		return
	}
	handler.cache.Invalidate(userID)

	pkg.WriteJSONResponseOK(w, `{"updatedId":`+strconv.Itoa(id)+`}`)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.delete")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, ok := exerciseIDFromPath(w, r)
	if !ok {
		return
	}

	if err := handler.repo.SoftDelete(ctx, userID, id); err != nil {
		if errors.Is(err, ErrExerciseNotFound) {
			http.Error(w, "exercise not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete exercise %d: %s", id, err)
		http.Error(w, "failed to delete exercise", http.StatusInternalServerError)
		return
	}
	handler.cache.Invalidate(userID)

	respJson, err := json.Marshal(DeleteExerciseResponse{DeletedID: id})
	if err != nil {
		log.Errorf("failed to marshal delete response: %s", err)
		http.Error(w, "failed to delete exercise", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func (handler *Handler) HandleReorder(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.reorder")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var items []OrderItem
	if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
		log.Tracef("reorder exercises, unmarshal json params: %s", err)
		http.Error(w, "reorder failed", http.StatusBadRequest)
		return
	}
	if len(items) == 0 {
		http.Error(w, "error, nothing to reorder", http.StatusBadRequest)
		return
	}

	seen := make(map[int]bool, len(items))
	for _, item := range items {
		if item.ID <= 0 || item.Order < 0 {
			http.Error(w, "error, invalid reorder item", http.StatusBadRequest)
			return
		}
		if seen[item.ID] {
			http.Error(w, "error, duplicate exercise id", http.StatusBadRequest)
			return
		}
		seen[item.ID] = true
	}

	if err := handler.repo.Reorder(ctx, userID, items); err != nil {
		if errors.Is(err, ErrExerciseNotFound) {
			http.Error(w, "exercise not found", http.StatusNotFound)
			return
		}
		if errors.Is(err, ErrDuplicateOrder) {
			http.Error(w, "error, two exercises of a category share an order", http.StatusBadRequest)
			return
		}
		log.Errorf("failed to reorder exercises of user %d: %s", userID, err)
		http.Error(w, "failed to reorder exercises", http.StatusInternalServerError)
		return
	}
	handler.cache.Invalidate(userID)

	respJson, err := json.Marshal(ReorderResponse{Reordered: len(items)})
	if err != nil {
		log.Errorf("failed to marshal reorder response: %s", err)
		http.Error(w, "failed to reorder exercises", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func exerciseIDFromPath(w http.ResponseWriter, r *http.Request) (int, bool) {
	idStr := mux.Vars(r)["id"]
	if idStr == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return 0, false
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
