package bodyweight

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/trainlog/internal/telemetry/tracing"
	"github.com/2beens/trainlog/internal/workout/engine"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrUnknownUser = errors.New("unknown user")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// Upsert stores the weight of the given day, overwriting an existing record of that day.
// Days skipped since the latest record are filled with synthetic zero records first.
// Returns the stored record and the number of filled days.
func (r *Repo) Upsert(ctx context.Context, userID int, date time.Time, weightKg float64) (_ *Record, _ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.bodyweight.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	// serializes concurrent reports of the same user
	record := &Record{UserID: userID, Date: date, WeightKg: weightKg}
	if err = tx.QueryRow(
		ctx,
		`SELECT height_cm FROM app_user WHERE id = $1 FOR UPDATE;`,
		userID,
	).Scan(&record.HeightCm); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, 0, fmt.Errorf("%w: %d", ErrUnknownUser, userID)
		}
		return nil, 0, fmt.Errorf("lock user: %w", err)
	}

	dates, err := r.datesDescending(ctx, tx, userID)
	if err != nil {
		return nil, 0, err
	}

	gaps, err := engine.FillMissingDays(dates, date)
	if err != nil {
		return nil, 0, err
	}
	if len(gaps) > 0 {
		gapDates := make([]time.Time, len(gaps))
		for i, gap := range gaps {
			gapDates[i] = gap.Date
		}
		if _, err = tx.Exec(
			ctx,
			`INSERT INTO body_weight (user_id, log_date, weight_kg, synthetic)
				SELECT $1, d, 0, true FROM unnest($2::date[]) AS d
			ON CONFLICT (user_id, log_date) DO NOTHING;`,
			userID, gapDates,
		); err != nil {
			return nil, 0, fmt.Errorf("insert %d gap days: %w", len(gaps), err)
		}
	}

	if err = tx.QueryRow(
		ctx,
		`INSERT INTO body_weight (user_id, log_date, weight_kg, synthetic)
			VALUES ($1, $2, $3, false)
		ON CONFLICT (user_id, log_date) DO UPDATE
			SET weight_kg = EXCLUDED.weight_kg, synthetic = false
		RETURNING id;`,
		userID, date, weightKg,
	).Scan(&record.ID); err != nil {
		return nil, 0, fmt.Errorf("upsert body weight: %w", err)
	}

	span.SetAttributes(attribute.Int("gaps", len(gaps)))
	return record, len(gaps), nil
}

func (r *Repo) datesDescending(ctx context.Context, tx pgx.Tx, userID int) ([]time.Time, error) {
	rows, err := tx.Query(
		ctx,
		`SELECT log_date FROM body_weight WHERE user_id = $1 ORDER BY log_date DESC;`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list dates: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

func (r *Repo) List(ctx context.Context, userID int, from, to time.Time) (_ []Record, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.bodyweight.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	rows, err := r.db.Query(
		ctx,
		`SELECT bw.id, bw.user_id, bw.log_date, bw.weight_kg, bw.synthetic, u.height_cm
			FROM body_weight bw
			JOIN app_user u ON u.id = bw.user_id
		WHERE bw.user_id = $1 AND bw.log_date >= $2 AND bw.log_date <= $3
		ORDER BY bw.log_date;`,
		userID, from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return rows2records(rows)
}

// Latest returns the n most recent records, oldest first.
func (r *Repo) Latest(ctx context.Context, userID int, n int) (_ []Record, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.bodyweight.latest")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	rows, err := r.db.Query(
		ctx,
		`SELECT * FROM (
			SELECT bw.id, bw.user_id, bw.log_date, bw.weight_kg, bw.synthetic, u.height_cm
				FROM body_weight bw
				JOIN app_user u ON u.id = bw.user_id
			WHERE bw.user_id = $1
			ORDER BY bw.log_date DESC
			LIMIT $2
		) latest ORDER BY log_date;`,
		userID, n,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return rows2records(rows)
}

func rows2records(rows pgx.Rows) ([]Record, error) {
	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.UserID, &r.Date, &r.WeightKg, &r.Synthetic, &r.HeightCm); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
