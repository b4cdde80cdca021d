package flow

import (
	"github.com/atendely/flowhook/internal/flow/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("flow",
	fx.Provide(repository.Provide),
)
