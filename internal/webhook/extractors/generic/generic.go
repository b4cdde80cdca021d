// Package generic probes common field-name aliases for platforms
// without a dedicated extractor.
package generic

import (
	"github.com/atendely/flowhook/internal/webhook/domain"
	"github.com/atendely/flowhook/internal/webhook/extractors"
)

type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (*Extractor) Platform() string { return "generic" }

func (*Extractor) EventType(payload []byte) string {
	if event := extractors.Str(payload, "event", "type", "action"); event != "" {
		return event
	}
	return domain.EventTypeUnknown
}

func (*Extractor) Extract(payload []byte) domain.PaymentEvent {
	name := extractors.Str(payload, "customer.name", "buyer.name", "client.name")
	return domain.PaymentEvent{
		CustomerName:      name,
		CustomerFirstName: extractors.FirstName(name),
		CustomerEmail:     extractors.Str(payload, "customer.email", "buyer.email", "client.email"),
		CustomerPhone:     extractors.Str(payload, "customer.phone", "buyer.phone", "client.phone"),
		CustomerTaxID:     extractors.Str(payload, "customer.document", "buyer.document"),

		ProductName: extractors.Str(payload, "product.name", "item.name"),
		ProductID:   extractors.Str(payload, "product.id", "item.id"),

		TransactionID:     extractors.Str(payload, "transaction_id", "order_id", "id"),
		TransactionAmount: extractors.Str(payload, "amount", "value", "price"),
		TransactionStatus: extractors.Str(payload, "status"),
		TransactionDate:   extractors.DateOrNow(extractors.Str(payload, "date", "created_at")),
		PaymentMethod:     extractors.Str(payload, "payment_method", "payment_type"),

		EventType: eventType(payload),
		Currency:  currency(payload),
		Platform:  "generic",
		AccessURL: extractors.Str(payload, "access_url"),

		PayloadOriginal: string(payload),
	}
}

func eventType(payload []byte) string {
	if event := extractors.Str(payload, "event", "type"); event != "" {
		return event
	}
	return domain.EventTypeGeneric
}

func currency(payload []byte) string {
	if c := extractors.Str(payload, "currency"); c != "" {
		return c
	}
	return extractors.DefaultCurrency
}
