package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/2beens/trainlog/internal/telemetry/tracing"
	"github.com/2beens/trainlog/internal/workout/engine"
	"github.com/2beens/trainlog/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

const userColumns = `id, username, email, password_hash, height_cm, difficulty_tier, custom_multiplier, created_at`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, user User) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	err = r.db.QueryRow(
		ctx,
		`INSERT INTO app_user (username, email, password_hash, height_cm)
			VALUES ($1, $2, $3, $4)
		RETURNING id, created_at;`,
		user.Username, strings.ToLower(user.Email), user.PasswordHash, user.HeightCm,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	user.Email = strings.ToLower(user.Email)
	span.SetAttributes(attribute.Int("user.id", user.ID))
	return &user, nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", id))

	return r.queryOne(ctx, `SELECT `+userColumns+` FROM app_user WHERE id = $1;`, id)
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.get_by_email")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return r.queryOne(ctx, `SELECT `+userColumns+` FROM app_user WHERE lower(email) = lower($1);`, email)
}

func (r *Repo) DifficultyProfile(ctx context.Context, userID int) (engine.DifficultyProfile, error) {
	user, err := r.Get(ctx, userID)
	if err != nil {
		return engine.DifficultyProfile{}, err
	}
	return user.Difficulty, nil
}

func (r *Repo) UpdateDifficulty(ctx context.Context, userID int, profile engine.DifficultyProfile) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.update_difficulty")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	var tier *string
	if profile.Tier != "" {
		t := string(profile.Tier)
		tier = &t
	}

	tag, err := r.db.Exec(
		ctx,
		`UPDATE app_user SET difficulty_tier = $1, custom_multiplier = $2 WHERE id = $3;`,
		tier, profile.CustomMultiplier, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *Repo) queryOne(ctx context.Context, query string, args ...any) (*User, error) {
	var (
		user   User
		tier   *string
		custom *float64
	)
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.HeightCm, &tier, &custom, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if tier != nil {
		user.Difficulty.Tier = engine.DifficultyTier(*tier)
	}
	user.Difficulty.CustomMultiplier = custom
	return &user, nil
}
