package contact

import (
	"github.com/atendely/flowhook/internal/contact/repository"
	"github.com/atendely/flowhook/internal/contact/service"
	"go.uber.org/fx"
)

var Module = fx.Module("contact.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
