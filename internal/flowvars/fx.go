package flowvars

import (
	"context"
	"time"

	appconfig "github.com/atendely/flowhook/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module initializes the store at process start; no request-path code
// lazily creates it.
var Module = fx.Module("flowvars",
	fx.Provide(provideStore),
	fx.Invoke(startJanitor),
)

func provideStore(cfg appconfig.Config) *Store {
	return NewStore(Config{
		TTL:        cfg.FlowVarTTL,
		MaxEntries: cfg.FlowVarMaxEntries,
	})
}

func startJanitor(lc fx.Lifecycle, store *Store, cfg appconfig.Config, log *zap.Logger) {
	interval := cfg.FlowVarTTL / 2
	if interval < time.Minute {
		interval = time.Minute
	}

	done := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ticker := time.NewTicker(interval)
				defer ticker.Stop()
				for {
					select {
					case <-done:
						return
					case now := <-ticker.C:
						store.Sweep(now.UTC())
					}
				}
			}()
			log.Info("flow variable store initialized",
				zap.Duration("ttl", cfg.FlowVarTTL),
				zap.Int("max_entries", cfg.FlowVarMaxEntries))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			close(done)
			return nil
		},
	})
}
