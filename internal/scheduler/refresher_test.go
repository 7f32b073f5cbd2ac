package scheduler

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pitch-prophet/internal/provider"
	"github.com/yourusername/pitch-prophet/internal/seasonfile"
)

func testRefresher(t *testing.T) *Refresher {
	t.Helper()
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	client := provider.NewRateLimitedHTTPClient(provider.DefaultHTTPClientConfig(), log)
	t.Cleanup(func() { _ = client.Close() })

	dir := t.TempDir()
	downloader := seasonfile.NewDownloader("http://127.0.0.1:0/index.php", "E", dir, client, log)
	loader := seasonfile.NewLoader(dir, time.Minute, log)
	return NewRefresher(downloader, loader, 1, log)
}

func TestScheduleRejectsBadExpression(t *testing.T) {
	r := testRefresher(t)
	assert.Error(t, r.Schedule("not a cron"))
}

func TestStartRequiresScheduledJob(t *testing.T) {
	r := testRefresher(t)
	assert.Error(t, r.Start())
}

func TestStartStopLifecycle(t *testing.T) {
	r := testRefresher(t)
	require.NoError(t, r.Schedule("0 6 * * *"))
	require.NoError(t, r.Start())

	// Double start is an error, double stop is a no-op
	assert.Error(t, r.Start())
	r.Stop()
	r.Stop()
}

func TestScheduleWhileRunning(t *testing.T) {
	r := testRefresher(t)
	require.NoError(t, r.Schedule("0 6 * * *"))
	require.NoError(t, r.Start())
	defer r.Stop()

	assert.Error(t, r.Schedule("30 6 * * *"))
}
