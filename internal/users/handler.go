package users

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/2beens/trainlog/internal/auth"
	"github.com/2beens/trainlog/internal/bodyweight"
	"github.com/2beens/trainlog/internal/middleware"
	"github.com/2beens/trainlog/internal/telemetry/metrics"
	"github.com/2beens/trainlog/internal/telemetry/tracing"
	"github.com/2beens/trainlog/internal/workout/engine"
	"github.com/2beens/trainlog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=users_mocks_test.go -package=users_test

type usersRepo interface {
	Add(ctx context.Context, user User) (*User, error)
	Get(ctx context.Context, id int) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateDifficulty(ctx context.Context, userID int, profile engine.DifficultyProfile) error
}

type sessionManager interface {
	Login(ctx context.Context, userID int, createdAt time.Time) (string, error)
	Logout(ctx context.Context, token string) (bool, error)
}

type weightRecorder interface {
	Record(ctx context.Context, userID int, date time.Time, weightKg float64) (*bodyweight.Record, int, error)
}

const (
	loginResultOK    = "ok"
	loginResultWrong = "wrong_credentials"
	loginResultError = "error"
)

type LoginResponse struct {
	Token  string `json:"token"`
	UserID int    `json:"userId"`
}

type ProfileResponse struct {
	User       *User   `json:"user"`
	Multiplier float64 `json:"multiplier"`
}

type Handler struct {
	repo           usersRepo
	sessions       sessionManager
	weights        weightRecorder
	metricsManager *metrics.Manager
}

func NewHandler(
	repo usersRepo,
	sessions sessionManager,
	weights weightRecorder,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		repo:           repo,
		sessions:       sessions,
		weights:        weights,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	allowedPerMin int,
) {
	mainRouter.HandleFunc("/profile", handler.HandleProfile).Methods("GET", "OPTIONS").Name("profile")
	mainRouter.HandleFunc("/profile/difficulty", handler.HandleUpdateDifficulty).Methods("PUT", "OPTIONS").Name("profile-difficulty")

	loginSubrouter := mainRouter.PathPrefix("/a").Subrouter()
	loginSubrouter.
		HandleFunc("/register", handler.HandleRegister).
		Methods("POST", "OPTIONS").Name("register")
	loginSubrouter.
		HandleFunc("/login", handler.HandleLogin).
		Methods("POST", "OPTIONS").Name("login")
	loginSubrouter.
		HandleFunc("/logout", handler.HandleLogout).
		Methods("GET", "OPTIONS").Name("logout")

	// rate limit the /a/* endpoints to slow down credential guessing
	loginSubrouter.Use(middleware.RateLimit(rateLimiter, "login", allowedPerMin, handler.metricsManager))
}

func (handler *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.register")
	defer span.End()

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("register, unmarshal json params: %s", err)
		http.Error(w, "register failed", http.StatusBadRequest)
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if err := validate.Struct(req); err != nil {
		http.Error(w, "error, "+validationError(err).Error(), http.StatusBadRequest)
		return
	}

	passwordHash, err := pkg.HashPassword(req.Password)
	if err != nil {
		log.Errorf("failed to hash password: %s", err)
		http.Error(w, "register failed", http.StatusInternalServerError)
		return
	}

	user, err := handler.repo.Add(ctx, User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
		HeightCm:     req.HeightCm,
	})
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			http.Error(w, "error, email already registered", http.StatusConflict)
			return
		}
		log.Errorf("failed to add user [%s]: %s", req.Email, err)
		http.Error(w, "register failed", http.StatusInternalServerError)
		return
	}
	span.SetAttributes(attribute.Int("user.id", user.ID))

	if _, _, err := handler.weights.Record(ctx, user.ID, pkg.Today(), req.WeightKg); err != nil {
		// the account exists already, the weight can be reported again later
		log.Errorf("failed to record initial weight of user %d: %s", user.ID, err)
	}

	userJson, err := json.Marshal(user)
	if err != nil {
		log.Errorf("failed to marshal user: %s", err)
		http.Error(w, "register failed", http.StatusInternalServerError)
		return
	}

	log.Debugf("new user registered: %d", user.ID)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, userJson, http.StatusCreated)
}

func (handler *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.login")
	defer span.End()

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("login, unmarshal json params: %s", err)
		http.Error(w, "login failed", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, "error, "+validationError(err).Error(), http.StatusBadRequest)
		return
	}

	user, err := handler.repo.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		handler.metricsManager.CounterLogins.WithLabelValues(loginResultError).Inc()
		log.Errorf("login failed, get user: %s", err)
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}
	if user == nil || !pkg.CheckPasswordHash(req.Password, user.PasswordHash) {
		handler.metricsManager.CounterLogins.WithLabelValues(loginResultWrong).Inc()
		log.Tracef("failed login attempt for: %s", req.Email)
		http.Error(w, "error, wrong credentials", http.StatusUnauthorized)
		return
	}

	token, err := handler.sessions.Login(ctx, user.ID, time.Now())
	if err != nil {
		handler.metricsManager.CounterLogins.WithLabelValues(loginResultError).Inc()
		log.Errorf("login failed, generate token error: %s", err)
		http.Error(w, "generate token error", http.StatusInternalServerError)
		return
	}

	handler.metricsManager.CounterLogins.WithLabelValues(loginResultOK).Inc()
	respJson, err := json.Marshal(LoginResponse{Token: token, UserID: user.ID})
	if err != nil {
		log.Errorf("failed to marshal login response: %s", err)
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}

	log.Tracef("new login success for user %d", user.ID)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func (handler *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.logout")
	defer span.End()

	authToken := r.Header.Get(middleware.TokenHeader)
	if authToken == "" {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	loggedOut, err := handler.sessions.Logout(ctx, authToken)
	if err != nil {
		log.Errorf("logout failed: %s", err)
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}
	if !loggedOut {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	pkg.WriteTextResponseOK(w, "logged-out")
}

func (handler *Handler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.profile")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := handler.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get user %d: %s", userID, err)
		http.Error(w, "failed to get profile", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(ProfileResponse{
		User:       user,
		Multiplier: user.Difficulty.Multiplier(),
	})
	if err != nil {
		log.Errorf("failed to marshal profile: %s", err)
		http.Error(w, "failed to get profile", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func (handler *Handler) HandleUpdateDifficulty(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.update_difficulty")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req DifficultyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("update difficulty, unmarshal json params: %s", err)
		http.Error(w, "update difficulty failed", http.StatusBadRequest)
		return
	}
	req.Tier = strings.ToLower(strings.TrimSpace(req.Tier))
	if err := validate.Struct(req); err != nil {
		http.Error(w, "error, "+validationError(err).Error(), http.StatusBadRequest)
		return
	}

	profile := engine.DifficultyProfile{
		Tier:             engine.DifficultyTier(req.Tier),
		CustomMultiplier: req.CustomMultiplier,
	}
	if err := profile.Validate(); err != nil {
		http.Error(w, "error, "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := handler.repo.UpdateDifficulty(ctx, userID, profile); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to update difficulty of user %d: %s", userID, err)
		http.Error(w, "failed to update difficulty", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(struct {
		Difficulty engine.DifficultyProfile `json:"difficulty"`
		Multiplier float64                  `json:"multiplier"`
	}{
		Difficulty: profile,
		Multiplier: profile.Multiplier(),
	})
	if err != nil {
		log.Errorf("failed to marshal difficulty: %s", err)
		http.Error(w, "failed to update difficulty", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}
