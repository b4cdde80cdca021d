// Package extractors normalizes provider-specific payment payloads
// into the canonical event schema. Extractors are registered at
// startup; unknown platforms fall through to the generic extractor.
package extractors

import (
	"strings"

	"github.com/atendely/flowhook/internal/webhook/domain"
)

// Extractor maps one provider's raw payload to the canonical event.
// Implementations never fail: absent fields degrade to empty-string
// defaults.
type Extractor interface {
	Platform() string
	Extract(payload []byte) domain.PaymentEvent
	EventType(payload []byte) string
}

// Aliaser lets an extractor claim additional platform spellings
// (e.g. "perfect_pay" for "perfectpay").
type Aliaser interface {
	Aliases() []string
}

type Registry struct {
	extractors map[string]Extractor
	generic    Extractor
}

func NewRegistry(generic Extractor, extractors ...Extractor) *Registry {
	registry := &Registry{
		extractors: map[string]Extractor{},
		generic:    generic,
	}
	for _, extractor := range extractors {
		if extractor == nil {
			continue
		}
		register := func(name string) {
			name = strings.ToLower(strings.TrimSpace(name))
			if name == "" {
				return
			}
			registry.extractors[name] = extractor
		}
		register(extractor.Platform())
		if aliaser, ok := extractor.(Aliaser); ok {
			for _, alias := range aliaser.Aliases() {
				register(alias)
			}
		}
	}
	return registry
}

// Lookup returns the extractor for the platform, or the generic
// fallback when the platform is not registered.
func (r *Registry) Lookup(platform string) Extractor {
	platform = strings.ToLower(strings.TrimSpace(platform))
	if extractor, ok := r.extractors[platform]; ok {
		return extractor
	}
	return r.generic
}

// PlatformExists reports whether a dedicated extractor is registered.
func (r *Registry) PlatformExists(platform string) bool {
	platform = strings.ToLower(strings.TrimSpace(platform))
	_, ok := r.extractors[platform]
	return ok
}
