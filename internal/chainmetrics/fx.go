package chainmetrics

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/teleretail/salespoint/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const pushInterval = 15 * time.Minute

var registerOnce sync.Once

var Module = fx.Module("chainmetrics",
	fx.Provide(NewPusher),
	fx.Invoke(Register),
)

// Register wires the push worker. Failures are logged and never block
// selling; a store without chain reporting keeps working.
func Register(lc fx.Lifecycle, cfg config.Config, pusher Pusher, logger *zap.Logger, db *gorm.DB) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if pusher == nil {
		return
	}

	store := cfg.ChainMetrics.StoreID
	if store == "" {
		store = cfg.AppName
	}

	registerOnce.Do(func() {
		registry := prometheus.NewRegistry()
		rec := &recorder{metrics: newMetrics(registry), store: store}
		setRecorder(rec)

		ctx, cancel := context.WithCancel(context.Background())
		lc.Append(fx.Hook{
			OnStart: func(context.Context) error {
				logger.Info("starting chain metrics push worker",
					zap.String("store", store),
					zap.Duration("interval", pushInterval))
				go func() {
					ticker := time.NewTicker(pushInterval)
					defer ticker.Stop()

					push := func() {
						updateSystemMetrics(rec)
						updateCatalogSizes(ctx, rec, db)
						if err := pusher.Push(ctx, registry); err != nil {
							logger.Error("chain metrics push failed", zap.Error(err))
						}
					}

					push()
					for {
						select {
						case <-ticker.C:
							push()
						case <-ctx.Done():
							logger.Info("stopping chain metrics push worker")
							return
						}
					}
				}()
				return nil
			},
			OnStop: func(context.Context) error {
				cancel()
				return nil
			},
		})
	})
}

func updateSystemMetrics(rec Recorder) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	rec.SetMemoryUsage(m.Sys)
}

func updateCatalogSizes(ctx context.Context, rec Recorder, db *gorm.DB) {
	if db == nil {
		return
	}
	for _, table := range []string{"subscriptions", "phones", "orders"} {
		var count int64
		if err := db.WithContext(ctx).Table(table).Count(&count).Error; err != nil {
			continue
		}
		rec.SetCatalogSize(table, count)
	}
}
