package jobs

import (
	"context"

	"github.com/wonny/superinvestor/internal/cache"
	"github.com/wonny/superinvestor/pkg/logger"
)

// StaleCleaner evicts expired cache entries (satisfied by *cache.Memory)
type StaleCleaner interface {
	CleanStale() int
	Stats() cache.Stats
}

// CacheCleanupJob cleans expired entries from the in-memory cache
type CacheCleanupJob struct {
	cache  StaleCleaner
	logger *logger.Logger
}

// NewCacheCleanupJob creates a new cache cleanup job
func NewCacheCleanupJob(c StaleCleaner, log *logger.Logger) *CacheCleanupJob {
	return &CacheCleanupJob{
		cache:  c,
		logger: log.WithComponent("cache_cleanup"),
	}
}

// Name returns the job name
func (j *CacheCleanupJob) Name() string {
	return "cache_cleanup"
}

// Schedule returns the cron schedule (every 5 minutes)
func (j *CacheCleanupJob) Schedule() string {
	return "0 */5 * * * *" // Every 5 minutes
}

// Run executes the cache cleanup
func (j *CacheCleanupJob) Run(ctx context.Context) error {
	j.logger.Debug("Starting scheduled cache cleanup")

	count := j.cache.CleanStale()

	if count > 0 {
		j.logger.WithField("removed", count).Info("Cache cleanup completed")
	}

	stats := j.cache.Stats()
	j.logger.WithFields(map[string]interface{}{
		"entries": stats.TotalCount,
		"fresh":   stats.FreshCount,
	}).Debug("Cache size after cleanup")

	return nil
}
