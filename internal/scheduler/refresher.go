// Package scheduler keeps downloaded season files current.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitch-prophet/internal/metrics"
	"github.com/yourusername/pitch-prophet/internal/seasonfile"
)

// Refresher periodically re-downloads the configured league's season file
// and invalidates the loader's cache so the next fixture request sees fresh
// bookmaker data
type Refresher struct {
	cron          *cron.Cron
	downloader    *seasonfile.Downloader
	loader        *seasonfile.Loader
	logger        *logrus.Logger
	downloadLimit int

	mu        sync.Mutex
	isRunning bool
	jobIDs    []cron.EntryID
}

// NewRefresher creates a refresher. downloadLimit bounds how many of the
// newest CSV links each refresh pulls.
func NewRefresher(downloader *seasonfile.Downloader, loader *seasonfile.Loader, downloadLimit int, logger *logrus.Logger) *Refresher {
	return &Refresher{
		cron:          cron.New(cron.WithLocation(time.UTC)),
		downloader:    downloader,
		loader:        loader,
		logger:        logger,
		downloadLimit: downloadLimit,
	}
}

// Schedule registers the refresh job with the given cron expression
func (r *Refresher) Schedule(cronExpression string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.isRunning {
		return fmt.Errorf("cannot schedule job while refresher is running")
	}

	entryID, err := r.cron.AddFunc(cronExpression, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		r.refresh(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to add refresh job: %w", err)
	}

	r.jobIDs = append(r.jobIDs, entryID)
	r.logger.WithField("cron", cronExpression).Info("Season file refresh scheduled")
	return nil
}

// refresh downloads the newest files and flushes the loader cache
func (r *Refresher) refresh(ctx context.Context) {
	count, err := r.downloader.Run(ctx, r.downloadLimit)
	if err != nil {
		r.logger.WithError(err).Error("Season file refresh failed")
		return
	}

	r.loader.Clear()
	metrics.SeasonFileRefreshesTotal.Inc()
	r.logger.WithField("files", count).Info("Season files refreshed")
}

// Start starts the cron loop
func (r *Refresher) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.isRunning {
		return fmt.Errorf("refresher is already running")
	}
	if len(r.jobIDs) == 0 {
		return fmt.Errorf("no refresh jobs scheduled")
	}

	r.cron.Start()
	r.isRunning = true
	return nil
}

// Stop waits for any in-flight refresh to finish
func (r *Refresher) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.isRunning {
		return
	}

	<-r.cron.Stop().Done()
	r.isRunning = false
	r.logger.Info("Season file refresher stopped")
}
