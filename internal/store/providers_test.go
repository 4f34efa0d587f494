package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fantasyedge/internal/domain"
	"fantasyedge/pkg/logger"
)

func TestNewsRepository_ListSince_FiltersByWatermark(t *testing.T) {
	repo := NewNewsRepository(openTestDB(t), logger.New(logger.Config{Level: "error"}))
	base := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Add(domain.NewsItem{
		ID: "old", PlayerID: "p1", Type: domain.NewsTeam,
		Headline: "Old note", Timestamp: base.Add(-time.Hour),
	}))
	require.NoError(t, repo.Add(domain.NewsItem{
		ID: "new", PlayerID: "p1", Type: domain.NewsInjury,
		Headline: "Fresh injury", Timestamp: base.Add(time.Hour),
	}))

	items, err := repo.ListSince(base)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "new", items[0].ID)
	assert.Equal(t, domain.NewsInjury, items[0].Type)
	assert.True(t, items[0].Timestamp.Equal(base.Add(time.Hour)))
}

func TestNewsRepository_ListForPlayer_ScopedToPlayer(t *testing.T) {
	repo := NewNewsRepository(openTestDB(t), logger.New(logger.Config{Level: "error"}))
	base := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Add(domain.NewsItem{
		ID: "n1", PlayerID: "p1", Type: domain.NewsRoleChange,
		Headline: "Role shift", Timestamp: base,
	}))
	require.NoError(t, repo.Add(domain.NewsItem{
		ID: "n2", PlayerID: "p2", Type: domain.NewsRoleChange,
		Headline: "Other player", Timestamp: base,
	}))

	items, err := repo.ListForPlayer("p1", base.Add(-time.Minute))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "n1", items[0].ID)
}

func TestVenueRepository_StatsAndWeather(t *testing.T) {
	repo := NewVenueRepository(openTestDB(t), logger.New(logger.Config{Level: "error"}))

	require.NoError(t, repo.SetBias("MCG", domain.PositionMidfielder, 1.1))
	require.NoError(t, repo.SetBias("MCG", domain.PositionForward, 0.9))

	stats, err := repo.Stats("MCG")
	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, 1.1, stats.PositionBias[domain.PositionMidfielder])
	assert.Equal(t, 0.9, stats.PositionBias[domain.PositionForward])

	unknown, err := repo.Stats("nowhere")
	require.NoError(t, err)
	assert.Nil(t, unknown, "venues without history yield nil, not an empty map")

	require.NoError(t, repo.SetWeather(domain.WeatherForecast{
		Venue: "MCG", Raining: true, WindKph: 35, TempC: 12, Forecast: "showers",
	}))

	weather, err := repo.Weather("MCG")
	require.NoError(t, err)
	require.NotNil(t, weather)
	assert.True(t, weather.Raining)
	assert.Equal(t, 35.0, weather.WindKph)

	noForecast, err := repo.Weather("nowhere")
	require.NoError(t, err)
	assert.Nil(t, noForecast)
}

func TestDVPRepository_GetSet(t *testing.T) {
	repo := NewDVPRepository(openTestDB(t), logger.New(logger.Config{Level: "error"}))

	require.NoError(t, repo.Set(domain.DVPStats{
		Team: "t1", Position: domain.PositionRuck, PointsAllowed: 104.5,
	}))

	got, err := repo.Get("t1", domain.PositionRuck)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 104.5, got.PointsAllowed)

	absent, err := repo.Get("t1", domain.PositionDefender)
	require.NoError(t, err)
	assert.Nil(t, absent)
}

func TestLiveScoreRepository_ListSinceAndUpsert(t *testing.T) {
	repo := NewLiveScoreRepository(openTestDB(t), logger.New(logger.Config{Level: "error"}))
	base := time.Date(2026, 5, 10, 15, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Upsert(domain.LiveScore{
		PlayerID: "p1", Round: 9, Points: 54, UpdatedAt: base,
	}))
	// Same player/round updates in place.
	require.NoError(t, repo.Upsert(domain.LiveScore{
		PlayerID: "p1", Round: 9, Points: 88, UpdatedAt: base.Add(time.Minute),
	}))

	scores, err := repo.ListSince(base.Add(-time.Minute))
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, 88, scores[0].Points)

	stale, err := repo.ListSince(base.Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, stale)
}
