package braip

import (
	"github.com/atendely/flowhook/internal/webhook/domain"
	"github.com/atendely/flowhook/internal/webhook/extractors"
)

type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (*Extractor) Platform() string { return "braip" }

func (*Extractor) EventType(payload []byte) string {
	if event := extractors.Str(payload, "type_postback"); event != "" {
		return event
	}
	return domain.EventTypeUnknown
}

func (*Extractor) Extract(payload []byte) domain.PaymentEvent {
	name := extractors.Str(payload, "client_name")

	return domain.PaymentEvent{
		CustomerName:      name,
		CustomerFirstName: extractors.FirstName(name),
		CustomerEmail:     extractors.Str(payload, "client_email"),
		CustomerPhone:     extractors.Str(payload, "client_cel", "client_phone"),
		CustomerTaxID:     extractors.Str(payload, "client_document"),

		ProductName: extractors.Str(payload, "product_name"),
		ProductID:   extractors.Str(payload, "product_id"),

		TransactionID:     extractors.Str(payload, "trans_cod", "transaction_id"),
		TransactionAmount: extractors.Str(payload, "trans_value", "price"),
		TransactionStatus: extractors.Str(payload, "trans_status"),
		TransactionDate:   extractors.DateOrNow(extractors.Str(payload, "trans_createdate")),
		PaymentMethod:     extractors.Str(payload, "trans_payment"),

		EventType: extractors.Str(payload, "type_postback"),
		Currency:  currency(payload),
		Platform:  "braip",

		CommissionAmount: extractors.Str(payload, "commission_value"),

		PayloadOriginal: string(payload),
	}
}

func currency(payload []byte) string {
	if c := extractors.Str(payload, "currency_code"); c != "" {
		return c
	}
	return extractors.DefaultCurrency
}
