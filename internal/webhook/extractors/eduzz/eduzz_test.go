package eduzz_test

import (
	"testing"

	"github.com/atendely/flowhook/internal/webhook/extractors/eduzz"
)

const samplePayload = `{
	"trans_cod": 88112233,
	"trans_value": "229.90",
	"trans_status": "3",
	"trans_createdate": "2024-01-05 11:20:00",
	"trans_payment": "pix",
	"trans_currency": "BRL",
	"cus_name": "Bruno Rocha",
	"cus_email": "bruno@example.com",
	"cus_tel": "51944443333",
	"cus_taxnumber": "22233344455",
	"product_name": "Curso Eduzz",
	"product_cod": 9911,
	"aff_value": "45.98"
}`

func TestExtract(t *testing.T) {
	event := eduzz.New().Extract([]byte(samplePayload))

	if event.CustomerName != "Bruno Rocha" {
		t.Errorf("customer name = %q", event.CustomerName)
	}
	if event.CustomerPhone != "51944443333" {
		t.Errorf("phone = %q", event.CustomerPhone)
	}
	if event.ProductID != "9911" {
		t.Errorf("product id = %q", event.ProductID)
	}
	if event.TransactionID != "88112233" {
		t.Errorf("transaction id = %q", event.TransactionID)
	}
	if event.TransactionAmount != "229.90" {
		t.Errorf("amount = %q", event.TransactionAmount)
	}
	if event.EventType != "3" {
		t.Errorf("event type = %q", event.EventType)
	}
	if event.CommissionAmount != "45.98" {
		t.Errorf("commission = %q", event.CommissionAmount)
	}
}

func TestEventType(t *testing.T) {
	x := eduzz.New()
	if got := x.EventType([]byte(samplePayload)); got != "3" {
		t.Errorf("event type = %q", got)
	}
	if got := x.EventType([]byte(`{}`)); got != "unknown" {
		t.Errorf("fallback event type = %q", got)
	}
}
