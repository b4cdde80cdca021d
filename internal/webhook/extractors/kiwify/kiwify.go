package kiwify

import (
	"github.com/atendely/flowhook/internal/webhook/domain"
	"github.com/atendely/flowhook/internal/webhook/extractors"
)

type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (*Extractor) Platform() string { return "kiwify" }

func (*Extractor) EventType(payload []byte) string {
	if event := extractors.Str(payload, "webhook_event_type"); event != "" {
		return event
	}
	return domain.EventTypeUnknown
}

func (*Extractor) Extract(payload []byte) domain.PaymentEvent {
	name := extractors.Str(payload, "Customer.full_name", "Customer.first_name")

	return domain.PaymentEvent{
		CustomerName:      name,
		CustomerFirstName: extractors.Str(payload, "Customer.first_name"),
		CustomerEmail:     extractors.Str(payload, "Customer.email"),
		CustomerPhone:     extractors.Str(payload, "Customer.mobile"),
		CustomerTaxID:     extractors.Str(payload, "Customer.CPF"),

		ProductName: extractors.Str(payload, "Product.product_name"),
		ProductID:   extractors.Str(payload, "Product.product_id"),

		TransactionID:     extractors.Str(payload, "order_id"),
		TransactionAmount: extractors.Str(payload, "Commissions.charge_amount"),
		TransactionStatus: extractors.Str(payload, "order_status"),
		TransactionDate:   extractors.DateOrNow(extractors.Str(payload, "created_at")),
		PaymentMethod:     extractors.Str(payload, "payment_method"),

		EventType: extractors.Str(payload, "webhook_event_type"),
		Currency:  currency(payload),
		Platform:  "kiwify",
		AccessURL: extractors.Str(payload, "access_url"),

		PixCode:       extractors.Str(payload, "pix_code"),
		PixExpiration: extractors.Str(payload, "pix_expiration"),

		BoletoURL:     extractors.Str(payload, "boleto_URL"),
		BoletoBarcode: extractors.Str(payload, "boleto_barcode"),

		CommissionAmount: extractors.Str(payload, "Commissions.my_commission"),

		PayloadOriginal: string(payload),
	}
}

func currency(payload []byte) string {
	if c := extractors.Str(payload, "Commissions.currency"); c != "" {
		return c
	}
	return extractors.DefaultCurrency
}
