package cacto

import (
	"github.com/atendely/flowhook/internal/webhook/domain"
	"github.com/atendely/flowhook/internal/webhook/extractors"
)

type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (*Extractor) Platform() string { return "cacto" }

func (*Extractor) EventType(payload []byte) string {
	if event := extractors.Str(payload, "event"); event != "" {
		return event
	}
	return domain.EventTypeUnknown
}

func (*Extractor) Extract(payload []byte) domain.PaymentEvent {
	name := extractors.Str(payload, "customer.name")

	return domain.PaymentEvent{
		CustomerName:      name,
		CustomerFirstName: extractors.FirstName(name),
		CustomerEmail:     extractors.Str(payload, "customer.email"),
		CustomerPhone:     extractors.Str(payload, "customer.phone"),
		CustomerTaxID:     extractors.Str(payload, "customer.cpf"),

		ProductName: extractors.Str(payload, "product.name"),
		ProductID:   extractors.Str(payload, "product.id"),

		TransactionID:     extractors.Str(payload, "transaction.id"),
		TransactionAmount: extractors.Str(payload, "transaction.amount"),
		TransactionStatus: extractors.Str(payload, "transaction.status"),
		TransactionDate:   extractors.DateOrNow(extractors.Str(payload, "transaction.created_at")),
		PaymentMethod:     extractors.Str(payload, "transaction.payment_method"),

		EventType: extractors.Str(payload, "event"),
		Currency:  currency(payload),
		Platform:  "cacto",
		AccessURL: extractors.Str(payload, "product.access_url"),

		PixCode:       extractors.Str(payload, "transaction.pix_code"),
		PixExpiration: extractors.Str(payload, "transaction.pix_expiration"),

		BoletoURL:     extractors.Str(payload, "transaction.boleto_url"),
		BoletoBarcode: extractors.Str(payload, "transaction.boleto_barcode"),

		CommissionAmount: extractors.Str(payload, "transaction.commission"),

		PayloadOriginal: string(payload),
	}
}

func currency(payload []byte) string {
	if c := extractors.Str(payload, "transaction.currency"); c != "" {
		return c
	}
	return extractors.DefaultCurrency
}
