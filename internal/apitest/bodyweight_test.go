//go:build integration_test || all_tests

package apitest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/2beens/trainlog/internal/bodyweight"
	"github.com/2beens/trainlog/pkg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestBodyWeightGapFill() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// registration records today's weight
	u := s.registerAndLogin(ctx, 82)
	today := pkg.Today()
	inThreeDays := today.AddDate(0, 0, 3)

	resp := s.doJSON(ctx, "POST", "/bodyweight", u.Token, bodyweight.RecordRequest{
		Date:     pkg.FormatDay(inThreeDays),
		WeightKg: 81.2,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var recorded bodyweight.RecordResponse
	decodeBody(t, resp, &recorded)
	assert.Equal(t, 2, recorded.GapFilled)
	assert.False(t, recorded.Record.Synthetic)
	assert.Positive(t, recorded.Record.BMI)

	var synthetic int
	require.NoError(t, s.DB.QueryRowContext(ctx,
		`SELECT count(*) FROM body_weight WHERE user_id = $1 AND synthetic AND weight_kg = 0`, u.ID,
	).Scan(&synthetic))
	assert.Equal(t, 2, synthetic)

	// reporting a filled day replaces the placeholder
	resp = s.doJSON(ctx, "POST", "/bodyweight", u.Token, bodyweight.RecordRequest{
		Date:     pkg.FormatDay(today.AddDate(0, 0, 1)),
		WeightKg: 81.9,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	decodeBody(t, resp, &recorded)
	assert.Equal(t, 0, recorded.GapFilled)

	require.NoError(t, s.DB.QueryRowContext(ctx,
		`SELECT count(*) FROM body_weight WHERE user_id = $1 AND synthetic`, u.ID,
	).Scan(&synthetic))
	assert.Equal(t, 1, synthetic)

	query := fmt.Sprintf("?from=%s&to=%s", pkg.FormatDay(today), pkg.FormatDay(inThreeDays))
	resp = s.doJSON(ctx, "GET", "/bodyweight"+query, u.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var records []bodyweight.RecordView
	decodeBody(t, resp, &records)
	require.Len(t, records, 4)
	assert.Equal(t, pkg.FormatDay(today), records[0].Date)
	assert.True(t, records[2].Synthetic)
	assert.Zero(t, records[2].BMI)

	resp = s.doJSON(ctx, "POST", "/bodyweight", u.Token, bodyweight.RecordRequest{WeightKg: -3})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// a far away date is rejected before anything is written
	resp = s.doJSON(ctx, "POST", "/bodyweight", u.Token, bodyweight.RecordRequest{
		Date:     "9999-12-31",
		WeightKg: 80,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	var total int
	require.NoError(t, s.DB.QueryRowContext(ctx,
		`SELECT count(*) FROM body_weight WHERE user_id = $1`, u.ID,
	).Scan(&total))
	assert.Equal(t, 4, total)
}
