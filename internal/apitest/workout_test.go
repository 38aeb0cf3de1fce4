//go:build integration_test || all_tests

package apitest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/2beens/trainlog/internal/workout/engine"
	"github.com/2beens/trainlog/internal/workout/exercises"
	"github.com/2beens/trainlog/internal/workout/logs"
	"github.com/2beens/trainlog/internal/workout/stats"
	"github.com/2beens/trainlog/pkg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) addExercise(ctx context.Context, token, name string, category engine.Category) exercises.Exercise {
	t := s.T()
	resp := s.doJSON(ctx, "POST", "/workout/exercises", token, exercises.ExerciseRequest{
		Name:     name,
		Category: string(category),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var ex exercises.Exercise
	decodeBody(t, resp, &ex)
	require.Positive(t, ex.ID)
	return ex
}

func (s *IntegrationTestSuite) addLog(ctx context.Context, token string, req logs.LogRequest) logs.EntryView {
	t := s.T()
	resp := s.doJSON(ctx, "POST", "/workout/logs", token, req)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var view logs.EntryView
	decodeBody(t, resp, &view)
	return view
}

func (s *IntegrationTestSuite) TestWorkoutLogsAndStats() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	u := s.registerAndLogin(ctx, 90)
	today := pkg.Today()
	yesterday := today.AddDate(0, 0, -1)

	bench := s.addExercise(ctx, u.Token, "Bench Press", engine.CategoryChest)
	squat := s.addExercise(ctx, u.Token, "Squat", engine.CategoryLeg)

	benchLog := s.addLog(ctx, u.Token, logs.LogRequest{
		Date: pkg.FormatDay(today), ExerciseID: bench.ID, Sets: 3, Reps: 10, Weight: 100,
	})
	assert.Equal(t, 3000.0, benchLog.Load)
	assert.Equal(t, engine.CategoryChest, benchLog.Category)
	s.addLog(ctx, u.Token, logs.LogRequest{
		Date: pkg.FormatDay(yesterday), ExerciseID: squat.ID, Sets: 5, Reps: 5, Weight: 120, Comment: "felt heavy",
	})

	// another user cannot log against this catalog
	other := s.registerAndLogin(ctx, 60)
	resp := s.doJSON(ctx, "POST", "/workout/logs", other.Token, logs.LogRequest{
		Date: pkg.FormatDay(today), ExerciseID: bench.ID, Sets: 1, Reps: 1, Weight: 1,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = s.doJSON(ctx, "GET", "/workout/logs/day/"+pkg.FormatDay(today), u.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var day logs.DayResponse
	decodeBody(t, resp, &day)
	require.Len(t, day.Entries, 1)
	assert.Equal(t, 3000.0, day.TotalLoad)

	rangeQuery := fmt.Sprintf("?from=%s&to=%s", pkg.FormatDay(yesterday), pkg.FormatDay(today))

	resp = s.doJSON(ctx, "GET", "/workout/stats/daily"+rangeQuery, u.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var daily stats.DailyResponse
	decodeBody(t, resp, &daily)
	assert.True(t, daily.HasData)
	assert.Len(t, daily.Labels, 2)
	require.Len(t, daily.Series, 2)
	assert.Equal(t, engine.CategoryChest, daily.CategoryMap[bench.ID])
	assert.Equal(t, engine.CategoryLeg, daily.CategoryMap[squat.ID])

	resp = s.doJSON(ctx, "GET", "/workout/stats/categories"+rangeQuery, u.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cats stats.CategoriesResponse
	decodeBody(t, resp, &cats)
	assert.Equal(t, 6000.0, cats.Total)
	assert.Equal(t, 3000.0, cats.Totals[engine.CategoryChest])
	assert.Equal(t, 3000.0, cats.Totals[engine.CategoryLeg])
	assert.Equal(t, 50.0, cats.Shares[engine.CategoryChest])

	resp = s.doJSON(ctx, "GET", "/workout/stats/progress?days=14", u.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var progress stats.ProgressResponse
	decodeBody(t, resp, &progress)
	assert.True(t, progress.HasData)
	assert.Equal(t, 0.5, progress.Multiplier)
	// 3000 of 9000 * 0.5
	assert.Equal(t, 67, progress.Scores[engine.CategoryChest])
	// 3000 of 15000 * 0.5
	assert.Equal(t, 40, progress.Scores[engine.CategoryLeg])
	assert.Equal(t, 0, progress.Scores[engine.CategoryBack])

	resp = s.doJSON(ctx, "GET", fmt.Sprintf("/workout/calendar/%d/%d", today.Year(), int(today.Month())), u.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var calendar stats.CalendarResponse
	decodeBody(t, resp, &calendar)
	assert.Contains(t, calendar.FilledDays, today.Day())

	resp = s.doJSON(ctx, "DELETE", fmt.Sprintf("/workout/logs/%d", benchLog.ID), u.Token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = s.doJSON(ctx, "DELETE", fmt.Sprintf("/workout/logs/%d", benchLog.ID), u.Token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func (s *IntegrationTestSuite) TestDeletedExerciseKeepsHistory() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	u := s.registerAndLogin(ctx, 75)
	curl := s.addExercise(ctx, u.Token, "Curl", engine.CategoryArm)
	today := pkg.Today()
	s.addLog(ctx, u.Token, logs.LogRequest{
		Date: pkg.FormatDay(today), ExerciseID: curl.ID, Sets: 3, Reps: 12, Weight: 15,
	})

	resp := s.doJSON(ctx, "DELETE", fmt.Sprintf("/workout/exercises/%d", curl.ID), u.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// soft deleted, the row is still there
	var status string
	require.NoError(t, s.DB.QueryRowContext(ctx, `SELECT status FROM exercise_definition WHERE id = $1`, curl.ID).Scan(&status))
	assert.Equal(t, "deleted", status)

	resp = s.doJSON(ctx, "POST", "/workout/logs", u.Token, logs.LogRequest{
		Date: pkg.FormatDay(today), ExerciseID: curl.ID, Sets: 1, Reps: 1, Weight: 1,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = s.doJSON(ctx, "GET", "/workout/logs/day/"+pkg.FormatDay(today), u.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var day logs.DayResponse
	decodeBody(t, resp, &day)
	require.Len(t, day.Entries, 1)
	assert.Equal(t, "Curl", day.Entries[0].Exercise)
	assert.Equal(t, engine.CategoryArm, day.Entries[0].Category)
}

func (s *IntegrationTestSuite) TestReorderExercises() {
	t := s.T()
	ctx := context.Background()

	u := s.registerAndLogin(ctx, 80)
	squat := s.addExercise(ctx, u.Token, "Squat", engine.CategoryLeg)
	lunge := s.addExercise(ctx, u.Token, "Lunge", engine.CategoryLeg)

	resp := s.doJSON(ctx, "POST", "/workout/exercises/reorder", u.Token, []exercises.OrderItem{
		{ID: squat.ID, Order: 2},
		{ID: lunge.ID, Order: 1},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var reorderResp exercises.ReorderResponse
	decodeBody(t, resp, &reorderResp)
	assert.Equal(t, 2, reorderResp.Reordered)

	resp = s.doJSON(ctx, "GET", "/workout/exercises", u.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list exercises.ListResponse
	decodeBody(t, resp, &list)
	require.Len(t, list.Groups, 1)
	require.Len(t, list.Groups[0].Exercises, 2)
	assert.Equal(t, lunge.ID, list.Groups[0].Exercises[0].ID)
	assert.Equal(t, squat.ID, list.Groups[0].Exercises[1].ID)

	// an id owned by someone else fails the whole batch
	other := s.registerAndLogin(ctx, 70)
	foreign := s.addExercise(ctx, other.Token, "Deadlift", engine.CategoryBack)
	resp = s.doJSON(ctx, "POST", "/workout/exercises/reorder", u.Token, []exercises.OrderItem{
		{ID: squat.ID, Order: 1},
		{ID: foreign.ID, Order: 2},
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	var order int
	require.NoError(t, s.DB.QueryRowContext(ctx, `SELECT display_order FROM exercise_definition WHERE id = $1`, squat.ID).Scan(&order))
	assert.Equal(t, 2, order)

	// two leg exercises at the same position
	resp = s.doJSON(ctx, "POST", "/workout/exercises/reorder", u.Token, []exercises.OrderItem{
		{ID: squat.ID, Order: 0},
		{ID: lunge.ID, Order: 0},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
	require.NoError(t, s.DB.QueryRowContext(ctx, `SELECT display_order FROM exercise_definition WHERE id = $1`, squat.ID).Scan(&order))
	assert.Equal(t, 2, order)

	// swapping positions passes the order check
	resp = s.doJSON(ctx, "POST", "/workout/exercises/reorder", u.Token, []exercises.OrderItem{
		{ID: squat.ID, Order: 1},
		{ID: lunge.ID, Order: 2},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// moving to another category appends at its end
	press := s.addExercise(ctx, u.Token, "Shoulder Press", engine.CategoryShoulder)
	require.Equal(t, 0, press.DisplayOrder)
	resp = s.doJSON(ctx, "PUT", fmt.Sprintf("/workout/exercises/%d", lunge.ID), u.Token, exercises.ExerciseRequest{
		Name:     "Lunge",
		Category: string(engine.CategoryShoulder),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	var category string
	require.NoError(t, s.DB.QueryRowContext(ctx,
		`SELECT category, display_order FROM exercise_definition WHERE id = $1`, lunge.ID,
	).Scan(&category, &order))
	assert.Equal(t, string(engine.CategoryShoulder), category)
	assert.Equal(t, 1, order)
}

func (s *IntegrationTestSuite) TestFractionalWeightRoundTrip() {
	t := s.T()
	ctx := context.Background()

	u := s.registerAndLogin(ctx, 71.3)
	row := s.addExercise(ctx, u.Token, "Cable Row", engine.CategoryBack)
	today := pkg.FormatDay(pkg.Today())
	s.addLog(ctx, u.Token, logs.LogRequest{Date: today, ExerciseID: row.ID, Sets: 3, Reps: 10, Weight: 22.7})

	resp := s.doJSON(ctx, "GET", "/workout/logs/day/"+today, u.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var day logs.DayResponse
	decodeBody(t, resp, &day)
	require.Len(t, day.Entries, 1)
	assert.Equal(t, 22.7, day.Entries[0].Weight)
	assert.InDelta(t, 681.0, day.TotalLoad, 1e-9)

	var weightKg float64
	require.NoError(t, s.DB.QueryRowContext(ctx,
		`SELECT weight_kg FROM body_weight WHERE user_id = $1`, u.ID,
	).Scan(&weightKg))
	assert.Equal(t, 71.3, weightKg)
}
