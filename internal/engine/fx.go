package engine

import (
	"github.com/atendely/flowhook/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("engine",
	fx.Provide(func(cfg config.Config, log *zap.Logger) Engine {
		if cfg.FlowEngineURL == "" {
			return NewNoopEngine(log)
		}
		return NewHTTPEngine(cfg.FlowEngineURL, log)
	}),
)
