package exercises

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/trainlog/internal/telemetry/tracing"
	"github.com/2beens/trainlog/internal/workout/engine"
	"github.com/2beens/trainlog/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrDuplicateOrder   = errors.New("display order already taken in category")
)

const exerciseColumns = `id, user_id, name, category, detail, display_order, status, created_at`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// Add appends the exercise at the end of its category.
func (r *Repo) Add(ctx context.Context, exercise Exercise) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var detail *string
	if exercise.Detail != "" {
		detail = &exercise.Detail
	}

	err = r.db.QueryRow(
		ctx,
		`INSERT INTO exercise_definition (user_id, name, category, detail, display_order, status)
			VALUES (
				$1, $2, $3, $4,
				COALESCE((SELECT MAX(display_order) + 1 FROM exercise_definition WHERE user_id = $1 AND category = $3), 0),
				'active'
			)
		RETURNING id, display_order, created_at;`,
		exercise.UserID, exercise.Name, string(exercise.Category), detail,
	).Scan(&exercise.ID, &exercise.DisplayOrder, &exercise.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert exercise: %w", err)
	}

	span.SetAttributes(attribute.Int("exercise.id", exercise.ID))
	exercise.Status = engine.StatusActive
	return &exercise, nil
}

func (r *Repo) Get(ctx context.Context, userID, id int) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	rows, err := r.db.Query(
		ctx,
		`SELECT `+exerciseColumns+` FROM exercise_definition WHERE id = $1 AND user_id = $2;`,
		id, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exercises, err := r.rows2exercises(rows)
	if err != nil {
		return nil, err
	}
	if len(exercises) == 0 {
		return nil, ErrExerciseNotFound
	}
	return &exercises[0], nil
}

// ListActive returns the user's active exercises in display order.
func (r *Repo) ListActive(ctx context.Context, userID int) (_ []Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.list_active")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	rows, err := r.db.Query(
		ctx,
		`SELECT `+exerciseColumns+` FROM exercise_definition
			WHERE user_id = $1 AND status = 'active'
			ORDER BY display_order, id;`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exercises, err := r.rows2exercises(rows)
	if err != nil {
		return nil, err
	}
	SortForDisplay(exercises)
	return exercises, nil
}

// Catalog returns all the user's exercises, soft deleted included.
func (r *Repo) Catalog(ctx context.Context, userID int) (_ engine.Catalog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.catalog")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	rows, err := r.db.Query(
		ctx,
		`SELECT `+exerciseColumns+` FROM exercise_definition WHERE user_id = $1;`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exercises, err := r.rows2exercises(rows)
	if err != nil {
		return nil, err
	}

	catalog := make(engine.Catalog, len(exercises))
	for _, e := range exercises {
		catalog[e.ID] = e.Info()
	}
	span.SetAttributes(attribute.Int("catalog.size", len(catalog)))
	return catalog, nil
}

// Update changes name, detail and category of an active exercise. Moving it to another
// category appends it at the end of that category.
func (r *Repo) Update(ctx context.Context, exercise *Exercise) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", exercise.ID))

	var detail *string
	if exercise.Detail != "" {
		detail = &exercise.Detail
	}

	err = r.db.QueryRow(
		ctx,
		`UPDATE exercise_definition SET
			name = $1,
			category = $2,
			detail = $3,
			display_order = CASE
				WHEN category = $2 THEN display_order
				ELSE COALESCE((SELECT MAX(display_order) + 1 FROM exercise_definition WHERE user_id = $5 AND category = $2), 0)
			END
		WHERE id = $4 AND user_id = $5 AND status = 'active'
		RETURNING display_order;`,
		exercise.Name, string(exercise.Category), detail, exercise.ID, exercise.UserID,
	).Scan(&exercise.DisplayOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrExerciseNotFound
		}
		return err
	}
	return nil
}

// SoftDelete marks the exercise deleted. Its logs stay and keep aggregating.
func (r *Repo) SoftDelete(ctx context.Context, userID, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.soft_delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE exercise_definition SET status = 'deleted'
			WHERE id = $1 AND user_id = $2 AND status = 'active';`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrExerciseNotFound
	}
	return nil
}

// Reorder applies all items in one transaction. If any item is not an exercise of the
// user, or two active exercises of a category end up at the same position, nothing is
// changed.
func (r *Repo) Reorder(ctx context.Context, userID int, items []OrderItem) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.reorder")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("items", len(items)))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
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

	for _, item := range items {
		tag, err := tx.Exec(
			ctx,
			`UPDATE exercise_definition SET display_order = $1 WHERE id = $2 AND user_id = $3;`,
			item.Order, item.ID, userID,
		)
		if err != nil {
			return fmt.Errorf("update order of %d: %w", item.ID, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("reorder %d: %w", item.ID, ErrExerciseNotFound)
		}
	}

	// check the deferred order constraint now, so a clash is reported as such
	if _, err = tx.Exec(ctx, `SET CONSTRAINTS ex_exercise_definition_order IMMEDIATE;`); err != nil {
		if pkg.IsExclusionViolationError(err) {
			return ErrDuplicateOrder
		}
		return fmt.Errorf("check display order: %w", err)
	}
	return nil
}

func (r *Repo) rows2exercises(rows pgx.Rows) ([]Exercise, error) {
	var exercises []Exercise
	for rows.Next() {
		var e Exercise
		var category, status string
		var detail *string
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.Name, &category, &detail, &e.DisplayOrder, &status, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		e.Category = engine.Category(category)
		e.Status = engine.ExerciseStatus(status)
		if detail != nil {
			e.Detail = *detail
		}
		exercises = append(exercises, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return exercises, nil
}
