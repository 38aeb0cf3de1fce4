package bodyweight

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/2beens/trainlog/internal/auth"
	"github.com/2beens/trainlog/internal/telemetry/tracing"
	"github.com/2beens/trainlog/internal/workout/engine"
	"github.com/2beens/trainlog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=bodyweight_test

type service interface {
	Record(ctx context.Context, userID int, date time.Time, weightKg float64) (*Record, int, error)
	List(ctx context.Context, userID int, from, to time.Time) ([]Record, error)
	Week(ctx context.Context, userID int) ([]Record, error)
}

const defaultRangeDays = 30

type RecordRequest struct {
	// Date defaults to today when empty.
	Date     string  `json:"date"`
	WeightKg float64 `json:"weightKg"`
}

type RecordResponse struct {
	Record    RecordView `json:"record"`
	GapFilled int        `json:"gapFilled"`
}

type Handler struct {
	service service
}

func NewHandler(service service) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/bodyweight", handler.HandleRecord).Methods("POST", "OPTIONS").Name("record-bodyweight")
	router.HandleFunc("/bodyweight", handler.HandleList).Methods("GET", "OPTIONS").Name("list-bodyweight")
	router.HandleFunc("/bodyweight/week", handler.HandleWeek).Methods("GET", "OPTIONS").Name("week-bodyweight")
}

func (handler *Handler) HandleRecord(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.bodyweight.record")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req RecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("record body weight, unmarshal json params: %s", err)
		http.Error(w, "record body weight failed", http.StatusBadRequest)
		return
	}

	date := pkg.Today()
	if req.Date != "" {
		d, err := pkg.ParseDay(req.Date)
		if err != nil {
			http.Error(w, "error, invalid date", http.StatusBadRequest)
			return
		}
		date = d
	}

	record, gapFilled, err := handler.service.Record(ctx, userID, date, req.WeightKg)
	if err != nil {
		if errors.Is(err, ErrInvalidWeight) {
			http.Error(w, "error, invalid weight", http.StatusBadRequest)
			return
		}
		if errors.Is(err, engine.ErrGapTooLong) {
			http.Error(w, "error, date too far from the latest record", http.StatusBadRequest)
			return
		}
		log.Errorf("failed to record body weight of user %d: %s", userID, err)
		http.Error(w, "failed to record body weight", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(RecordResponse{
		Record:    record.View(),
		GapFilled: gapFilled,
	})
	if err != nil {
		log.Errorf("failed to marshal body weight record: %s", err)
		http.Error(w, "failed to record body weight", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusCreated)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.bodyweight.list")
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

	records, err := handler.service.List(ctx, userID, from, to)
	if err != nil {
		log.Errorf("failed to list body weight of user %d: %s", userID, err)
		http.Error(w, "failed to get body weight", http.StatusInternalServerError)
		return
	}

	handler.writeRecords(w, records)
}

func (handler *Handler) HandleWeek(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.bodyweight.week")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	records, err := handler.service.Week(ctx, userID)
	if err != nil {
		log.Errorf("failed to get body weight week of user %d: %s", userID, err)
		http.Error(w, "failed to get body weight", http.StatusInternalServerError)
		return
	}

	handler.writeRecords(w, records)
}

func (handler *Handler) writeRecords(w http.ResponseWriter, records []Record) {
	respJson, err := json.Marshal(views(records))
	if err != nil {
		log.Errorf("failed to marshal body weight records: %s", err)
		http.Error(w, "failed to get body weight", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}
