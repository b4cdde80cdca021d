package hotmart

import (
	"github.com/atendely/flowhook/internal/webhook/domain"
	"github.com/atendely/flowhook/internal/webhook/extractors"
)

type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (*Extractor) Platform() string { return "hotmart" }

func (*Extractor) EventType(payload []byte) string {
	if event := extractors.Str(payload, "event", "action"); event != "" {
		return event
	}
	return domain.EventTypeUnknown
}

func (*Extractor) Extract(payload []byte) domain.PaymentEvent {
	name := extractors.Str(payload, "data.buyer.name", "buyer.name")

	return domain.PaymentEvent{
		CustomerName:      name,
		CustomerFirstName: extractors.FirstName(name),
		CustomerEmail:     extractors.Str(payload, "data.buyer.email", "buyer.email"),
		CustomerPhone:     phone(payload),
		CustomerTaxID:     extractors.Str(payload, "data.buyer.document", "buyer.document"),

		ProductName: extractors.Str(payload, "data.product.name", "product.name"),
		ProductID:   extractors.Str(payload, "data.product.id", "product.id"),

		TransactionID:     extractors.Str(payload, "data.purchase.transaction", "transaction.id"),
		TransactionAmount: extractors.Str(payload, "data.purchase.price.value", "price.value"),
		TransactionStatus: extractors.Str(payload, "data.purchase.status", "status"),
		TransactionDate:   extractors.DateOrNow(extractors.Str(payload, "data.purchase.approved_date", "purchase_date")),
		PaymentMethod:     extractors.Str(payload, "data.purchase.payment.method", "payment.type"),

		EventType: extractors.Str(payload, "event", "action"),
		Currency:  currency(payload),
		Platform:  "hotmart",
		AccessURL: extractors.Str(payload, "data.product.access_url"),

		CommissionAmount: extractors.Str(payload, "data.commissions.value"),

		PayloadOriginal: string(payload),
	}
}

// Hotmart splits the buyer phone into an area code and a local number;
// both are digit-stripped before concatenation.
func phone(payload []byte) string {
	code := extractors.Str(payload, "data.buyer.checkout_phone_code", "buyer.checkout_phone_code")
	number := extractors.Str(payload, "data.buyer.checkout_phone", "buyer.checkout_phone")
	if code != "" && number != "" {
		return extractors.Digits(code) + extractors.Digits(number)
	}
	return extractors.Str(payload, "data.buyer.phone", "buyer.phone")
}

func currency(payload []byte) string {
	if c := extractors.Str(payload, "data.purchase.price.currency_value"); c != "" {
		return c
	}
	return extractors.DefaultCurrency
}
