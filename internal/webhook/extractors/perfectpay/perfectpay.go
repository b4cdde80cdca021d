package perfectpay

import (
	"github.com/atendely/flowhook/internal/webhook/domain"
	"github.com/atendely/flowhook/internal/webhook/extractors"
)

type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (*Extractor) Platform() string { return "perfectpay" }

// Aliases registers the underscored spelling some installations use.
func (*Extractor) Aliases() []string { return []string{"perfect_pay"} }

func (*Extractor) EventType(payload []byte) string {
	if event := extractors.Str(payload, "sale_status_enum"); event != "" {
		return event
	}
	return domain.EventTypeUnknown
}

func (*Extractor) Extract(payload []byte) domain.PaymentEvent {
	name := extractors.Str(payload, "customer_name")

	return domain.PaymentEvent{
		CustomerName:      name,
		CustomerFirstName: extractors.FirstName(name),
		CustomerEmail:     extractors.Str(payload, "customer_email"),
		CustomerPhone:     extractors.Str(payload, "customer_phone"),
		CustomerTaxID:     extractors.Str(payload, "customer_doc"),

		ProductName: extractors.Str(payload, "product_name"),
		ProductID:   extractors.Str(payload, "product_id"),

		TransactionID:     extractors.Str(payload, "sale_code", "transaction_id"),
		TransactionAmount: extractors.Str(payload, "sale_amount", "amount"),
		TransactionStatus: extractors.Str(payload, "sale_status"),
		TransactionDate:   extractors.DateOrNow(extractors.Str(payload, "sale_date")),
		PaymentMethod:     extractors.Str(payload, "payment_type"),

		EventType: extractors.Str(payload, "sale_status_enum", "event"),
		Currency:  extractors.DefaultCurrency,
		Platform:  "perfectpay",
		AccessURL: extractors.Str(payload, "access_url"),

		CommissionAmount: extractors.Str(payload, "commission_amount"),

		PayloadOriginal: string(payload),
	}
}
