package logs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/trainlog/internal/telemetry/tracing"
	"github.com/2beens/trainlog/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrLogEntryNotFound = errors.New("workout log entry not found")
	ErrUnknownExercise  = errors.New("unknown exercise")
	ErrRejectedEntry    = errors.New("workout log entry rejected by db constraints")
)

const logColumns = `id, user_id, exercise_id, log_date, sets, reps, weight, comment, created_at`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, entry LogEntry) (_ *LogEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.logs.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var comment *string
	if entry.Comment != "" {
		comment = &entry.Comment
	}

	err = r.db.QueryRow(
		ctx,
		`INSERT INTO workout_log (user_id, exercise_id, log_date, sets, reps, weight, comment)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at;`,
		entry.UserID, entry.ExerciseID, entry.Date, entry.Sets, entry.Reps, entry.Weight, comment,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		switch {
		case pkg.IsForeignKeyViolationError(err):
			return nil, fmt.Errorf("%w: %d", ErrUnknownExercise, entry.ExerciseID)
		case pkg.IsCheckViolationError(err):
			return nil, fmt.Errorf("%w: %w", ErrRejectedEntry, err)
		}
		return nil, fmt.Errorf("insert workout log: %w", err)
	}

	span.SetAttributes(attribute.Int("log.id", entry.ID))
	return &entry, nil
}

func (r *Repo) Get(ctx context.Context, userID, id int) (_ *LogEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.logs.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	rows, err := r.db.Query(
		ctx,
		`SELECT `+logColumns+` FROM workout_log WHERE id = $1 AND user_id = $2;`,
		id, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries, err := r.rows2entries(rows)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrLogEntryNotFound
	}
	return &entries[0], nil
}

func (r *Repo) Delete(ctx context.Context, userID, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.logs.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM workout_log WHERE id = $1 AND user_id = $2;`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrLogEntryNotFound
	}
	return nil
}

// ListRange returns the user's entries logged in [from, to], both days inclusive.
func (r *Repo) ListRange(ctx context.Context, userID int, from, to time.Time) (_ []LogEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.logs.list_range")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int("user.id", userID),
		attribute.String("from", from.Format(time.DateOnly)),
		attribute.String("to", to.Format(time.DateOnly)),
	)

	rows, err := r.db.Query(
		ctx,
		`SELECT `+logColumns+` FROM workout_log
			WHERE user_id = $1 AND log_date >= $2 AND log_date <= $3
			ORDER BY log_date, id;`,
		userID, from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries, err := r.rows2entries(rows)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("entries", len(entries)))
	return entries, nil
}

func (r *Repo) ListDay(ctx context.Context, userID int, day time.Time) ([]LogEntry, error) {
	return r.ListRange(ctx, userID, day, day)
}

func (r *Repo) rows2entries(rows pgx.Rows) ([]LogEntry, error) {
	var entries []LogEntry
	for rows.Next() {
		var e LogEntry
		var comment *string
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.ExerciseID, &e.Date, &e.Sets, &e.Reps, &e.Weight, &comment, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		if comment != nil {
			e.Comment = *comment
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
