package eduzz

import (
	"github.com/atendely/flowhook/internal/webhook/domain"
	"github.com/atendely/flowhook/internal/webhook/extractors"
)

type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (*Extractor) Platform() string { return "eduzz" }

func (*Extractor) EventType(payload []byte) string {
	if event := extractors.Str(payload, "trans_status"); event != "" {
		return event
	}
	return domain.EventTypeUnknown
}

func (*Extractor) Extract(payload []byte) domain.PaymentEvent {
	name := extractors.Str(payload, "cus_name")

	return domain.PaymentEvent{
		CustomerName:      name,
		CustomerFirstName: extractors.FirstName(name),
		CustomerEmail:     extractors.Str(payload, "cus_email"),
		CustomerPhone:     extractors.Str(payload, "cus_tel"),
		CustomerTaxID:     extractors.Str(payload, "cus_taxnumber"),

		ProductName: extractors.Str(payload, "product_name"),
		ProductID:   extractors.Str(payload, "product_cod"),

		TransactionID:     extractors.Str(payload, "trans_cod"),
		TransactionAmount: extractors.Str(payload, "trans_value"),
		TransactionStatus: extractors.Str(payload, "trans_status"),
		TransactionDate:   extractors.DateOrNow(extractors.Str(payload, "trans_createdate")),
		PaymentMethod:     extractors.Str(payload, "trans_payment"),

		EventType: extractors.Str(payload, "trans_status"),
		Currency:  currency(payload),
		Platform:  "eduzz",

		CommissionAmount: extractors.Str(payload, "aff_value"),

		PayloadOriginal: string(payload),
	}
}

func currency(payload []byte) string {
	if c := extractors.Str(payload, "trans_currency"); c != "" {
		return c
	}
	return extractors.DefaultCurrency
}
