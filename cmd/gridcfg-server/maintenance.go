package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"gridcfg.io/console/internal/service"
	"gridcfg.io/console/internal/session"
)

// maintain periodically prunes idle sessions and old export records until
// ctx is done.
func maintain(ctx context.Context, config *Config, sessions *session.SQLStore, exports *service.ExportService, logger *zap.Logger) {
	ticker := time.NewTicker(config.MaintenanceInterval)
	defer ticker.Stop()

	for {
		if n, err := sessions.Prune(ctx, config.SessionTTL); err != nil {
			logger.Warn("failed to prune sessions", zap.Error(err))
		} else if n > 0 {
			logger.Info("pruned idle sessions", zap.Int64("count", n))
		}

		if n, err := exports.Prune(ctx, config.ExportRetention); err != nil {
			logger.Warn("failed to prune export history", zap.Error(err))
		} else if n > 0 {
			logger.Info("pruned export history", zap.Int64("count", n))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
