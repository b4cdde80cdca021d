package webhook

import (
	"github.com/atendely/flowhook/internal/webhook/dispatch"
	"github.com/atendely/flowhook/internal/webhook/extractors"
	"github.com/atendely/flowhook/internal/webhook/extractors/braip"
	"github.com/atendely/flowhook/internal/webhook/extractors/cacto"
	"github.com/atendely/flowhook/internal/webhook/extractors/eduzz"
	"github.com/atendely/flowhook/internal/webhook/extractors/generic"
	"github.com/atendely/flowhook/internal/webhook/extractors/hotmart"
	"github.com/atendely/flowhook/internal/webhook/extractors/kiwify"
	"github.com/atendely/flowhook/internal/webhook/extractors/monetizze"
	"github.com/atendely/flowhook/internal/webhook/extractors/perfectpay"
	"github.com/atendely/flowhook/internal/webhook/repository"
	"github.com/atendely/flowhook/internal/webhook/service"
	"go.uber.org/fx"
)

var Module = fx.Module("webhook.service",
	fx.Provide(NewExtractorRegistry),
	fx.Provide(repository.Provide),
	fx.Provide(dispatch.New),
	fx.Provide(service.New),
)

// NewExtractorRegistry registers every dedicated platform extractor;
// unmatched platforms fall through to the generic one.
func NewExtractorRegistry() *extractors.Registry {
	return extractors.NewRegistry(
		generic.New(),
		kiwify.New(),
		hotmart.New(),
		braip.New(),
		monetizze.New(),
		cacto.New(),
		perfectpay.New(),
		eduzz.New(),
	)
}
