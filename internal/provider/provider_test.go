package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pitch-prophet/internal/models"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return log
}

func testClient(t *testing.T) *RateLimitedHTTPClient {
	t.Helper()
	cfg := DefaultHTTPClientConfig()
	cfg.MaxRetries = 0
	cfg.RateLimit = 1000
	client := NewRateLimitedHTTPClient(cfg, quietLogger())
	t.Cleanup(func() { _ = client.Close() })
	return client
}

const matchInfoBody = `{
	"id": "26631", "date": "2024-10-05", "league": "EPL", "season": "2024",
	"team_h": "Arsenal", "team_a": "Chelsea",
	"h_goals": "2", "a_goals": "1",
	"h_xg": "1.73", "a_xg": "1.12",
	"h_w": "0.45", "h_d": "0.27", "h_l": "0.28",
	"h_shot": "14", "a_shot": "9",
	"h_shotOnTarget": "6", "a_shotOnTarget": "4",
	"h_deep": "8", "a_deep": "5",
	"h_ppda": "9.11", "a_ppda": "12.30"
}`

func TestGetLeagueTable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/league/EPL/table", r.URL.Path)
		assert.Equal(t, "2024", r.URL.Query().Get("season"))
		assert.Equal(t, "2024-11-01", r.URL.Query().Get("end_date"))
		assert.Empty(t, r.URL.Query().Get("start_date"))

		w.Write([]byte(`{
			"metrics": ["xG", "PTS"],
			"rows": [
				{"team": "Arsenal", "values": {"xG": 22.1, "PTS": 24}},
				{"team": "Chelsea", "values": {"xG": 19.4, "PTS": 21}}
			]
		}`))
	}))
	defer server.Close()

	p := NewHTTPProvider(server.URL, testClient(t), quietLogger())
	table, err := p.GetLeagueTable(context.Background(), "EPL", "2024",
		time.Time{}, time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, "EPL", table.League)
	assert.Equal(t, 2, table.TeamCount())
	row, ok := table.Row("Chelsea")
	require.True(t, ok)
	assert.Equal(t, 19.4, row.Values["xG"])
}

func TestGetLeagueTableEmptyIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"metrics": [], "rows": []}`))
	}))
	defer server.Close()

	p := NewHTTPProvider(server.URL, testClient(t), quietLogger())
	_, err := p.GetLeagueTable(context.Background(), "EPL", "2024", time.Time{}, time.Time{})
	assert.Error(t, err)
}

func TestGetTeamMatchHistory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/team/Arsenal/matches", r.URL.Path)
		w.Write([]byte(`[
			{"id": "100", "datetime": "2024-09-07 15:00:00", "h": {"title": "Arsenal"}, "a": {"title": "Chelsea"}},
			{"id": "101", "datetime": "2024-09-14", "h": {"title": "Everton"}, "a": {"title": "Arsenal"}}
		]`))
	}))
	defer server.Close()

	p := NewHTTPProvider(server.URL, testClient(t), quietLogger())
	history, err := p.GetTeamMatchHistory(context.Background(), "Arsenal", "2024")
	require.NoError(t, err)
	require.Len(t, history, 2)

	assert.Equal(t, "100", history[0].ID)
	assert.Equal(t, 15, history[0].Date.Hour())
	// Bare-date fallback for postponed fixtures
	assert.Equal(t, time.Date(2024, 9, 14, 0, 0, 0, 0, time.UTC), history[1].Date)
}

func TestGetMatchInfoParsesStringNumerics(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/match/26631/info", r.URL.Path)
		w.Write([]byte(matchInfoBody))
	}))
	defer server.Close()

	p := NewHTTPProvider(server.URL, testClient(t), quietLogger())
	info, err := p.GetMatchInfo(context.Background(), "26631")
	require.NoError(t, err)

	assert.Equal(t, 2, info.Home.Goals)
	assert.Equal(t, 1.73, info.Home.XG)
	assert.Equal(t, 0.45, info.HomeWinProb)
	assert.Equal(t, 0.28, info.AwayWinProb)
	assert.Equal(t, 12.30, info.Away.PPDA)
}

func TestGetMatchInfoMalformedField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"team_h": "Arsenal", "team_a": "Chelsea", "date": "2024-10-05",
			"h_goals": "two", "a_goals": "1",
			"h_xg": "1.73", "a_xg": "1.12",
			"h_w": "0.45", "h_d": "0.27", "h_l": "0.28",
			"h_shot": "14", "a_shot": "9",
			"h_shotOnTarget": "6", "a_shotOnTarget": "4",
			"h_deep": "8", "a_deep": "5",
			"h_ppda": "9.11", "a_ppda": "12.30"
		}`))
	}))
	defer server.Close()

	p := NewHTTPProvider(server.URL, testClient(t), quietLogger())
	_, err := p.GetMatchInfo(context.Background(), "26631")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "h_goals")
}

func TestGetRosterData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"h": {"556": {"player": "Saka", "position": "AMR", "time": "90", "goals": "1", "shots": "4", "xG": "0.62", "assists": "0", "xA": "0.11", "key_passes": "2", "xGChain": "0.88"}},
			"a": {"881": {"player": "Palmer", "position": "AMC", "time": "90", "goals": "0", "shots": "3", "xG": "0.41", "assists": "1", "xA": "0.33", "key_passes": "3", "xGChain": "0.75"}}
		}`))
	}))
	defer server.Close()

	p := NewHTTPProvider(server.URL, testClient(t), quietLogger())
	roster, err := p.GetRosterData(context.Background(), "26631")
	require.NoError(t, err)

	require.Len(t, roster[models.SideHome], 1)
	saka := roster[models.SideHome][0]
	assert.Equal(t, "Saka", saka.Name)
	assert.Equal(t, 90, saka.Minutes)
	assert.Equal(t, 0.62, saka.XG)
	assert.Equal(t, 2, saka.KeyPasses)
}

func TestGetShotDataMissingSide(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"h": [{"minute": "23", "player": "Saka", "result": "Goal", "xG": "0.62", "X": "0.92", "Y": "0.50"}]}`))
	}))
	defer server.Close()

	p := NewHTTPProvider(server.URL, testClient(t), quietLogger())
	_, err := p.GetShotData(context.Background(), "26631")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing side "a"`)
}

func TestGetLineupFromRoster(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/match/26631/roster", r.URL.Path)
		w.Write([]byte(`{
			"h": {"556": {"player": "Saka", "position": "AMR", "time": "90", "goals": "0", "shots": "0", "xG": "0", "assists": "0", "xA": "0", "key_passes": "0", "xGChain": "0"}},
			"a": {}
		}`))
	}))
	defer server.Close()

	p := NewHTTPProvider(server.URL, testClient(t), quietLogger())
	lineup, err := p.GetLineup(context.Background(), "26631")
	require.NoError(t, err)
	require.Len(t, lineup[models.SideHome], 1)
	assert.Equal(t, "Saka", lineup[models.SideHome][0].Player)
	assert.Empty(t, lineup[models.SideAway])
}

func TestUpstreamErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	p := NewHTTPProvider(server.URL, testClient(t), quietLogger())
	_, err := p.GetMatchInfo(context.Background(), "999")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestCachedProviderServesSecondLookupFromCache(t *testing.T) {
	var fetches int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&fetches, 1)
		w.Write([]byte(`{"metrics": ["xG"], "rows": [{"team": "Arsenal", "values": {"xG": 22.1}}]}`))
	}))
	defer server.Close()

	inner := NewHTTPProvider(server.URL, testClient(t), quietLogger())
	cached := NewCachedProvider(inner, time.Minute, quietLogger())

	end := time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)
	first, err := cached.GetLeagueTable(context.Background(), "EPL", "2024", time.Time{}, end)
	require.NoError(t, err)
	second, err := cached.GetLeagueTable(context.Background(), "EPL", "2024", time.Time{}, end)
	require.NoError(t, err)

	assert.Equal(t, int64(1), atomic.LoadInt64(&fetches))
	assert.Same(t, first, second)

	hits, misses, ratio := cached.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
	assert.Equal(t, 0.5, ratio)
}

func TestCachedProviderKeyIncludesDateBounds(t *testing.T) {
	var fetches int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&fetches, 1)
		w.Write([]byte(`{"metrics": ["xG"], "rows": [{"team": "Arsenal", "values": {"xG": 22.1}}]}`))
	}))
	defer server.Close()

	inner := NewHTTPProvider(server.URL, testClient(t), quietLogger())
	cached := NewCachedProvider(inner, time.Minute, quietLogger())

	_, err := cached.GetLeagueTable(context.Background(), "EPL", "2024", time.Time{},
		time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	_, err = cached.GetLeagueTable(context.Background(), "EPL", "2024", time.Time{},
		time.Date(2024, 11, 8, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, int64(2), atomic.LoadInt64(&fetches))
}

func TestCachedProviderInvalidate(t *testing.T) {
	var fetches int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&fetches, 1)
		w.Write([]byte(`{"metrics": ["xG"], "rows": [{"team": "Arsenal", "values": {"xG": 22.1}}]}`))
	}))
	defer server.Close()

	inner := NewHTTPProvider(server.URL, testClient(t), quietLogger())
	cached := NewCachedProvider(inner, time.Minute, quietLogger())

	end := time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)
	_, err := cached.GetLeagueTable(context.Background(), "EPL", "2024", time.Time{}, end)
	require.NoError(t, err)

	cached.Invalidate("EPL", "2024")

	_, err = cached.GetLeagueTable(context.Background(), "EPL", "2024", time.Time{}, end)
	require.NoError(t, err)
	assert.Equal(t, int64(2), atomic.LoadInt64(&fetches))
}

func TestHTTPClientCircuitOpens(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer server.Close()

	cfg := DefaultHTTPClientConfig()
	cfg.MaxRetries = 0
	cfg.RateLimit = 1000
	cfg.CircuitBreakerMax = 2
	client := NewRateLimitedHTTPClient(cfg, quietLogger())
	defer client.Close()

	for i := 0; i < 2; i++ {
		resp, err := client.Get(context.Background(), server.URL)
		if err == nil {
			resp.Body.Close()
		}
	}

	_, err := client.Get(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker")
}

// Exercises the breaker state from parallel fetches the way the aggregator's
// match normalization does; run with -race.
func TestHTTPClientConcurrentUse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := testClient(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				resp, err := client.Get(context.Background(), server.URL)
				require.NoError(t, err)
				resp.Body.Close()
			}
		}()
	}
	wg.Wait()

	resp, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	resp.Body.Close()
}
