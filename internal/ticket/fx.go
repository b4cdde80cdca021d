package ticket

import (
	"github.com/atendely/flowhook/internal/ticket/repository"
	"github.com/atendely/flowhook/internal/ticket/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ticket.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
