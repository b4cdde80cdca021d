package braip_test

import (
	"testing"

	"github.com/atendely/flowhook/internal/webhook/extractors/braip"
)

const samplePayload = `{
	"type_postback": "sale_approved",
	"client_name": "Carlos Souza",
	"client_email": "carlos@example.com",
	"client_cel": "11977776666",
	"client_document": "11122233344",
	"product_name": "Ebook Pro",
	"product_id": "br-9",
	"trans_cod": "BRP-555",
	"trans_value": "97.00",
	"trans_status": "approved",
	"trans_createdate": "2024-03-12 09:00:00",
	"trans_payment": "boleto",
	"commission_value": "19.40",
	"currency_code": "BRL"
}`

func TestExtract(t *testing.T) {
	event := braip.New().Extract([]byte(samplePayload))

	if event.CustomerName != "Carlos Souza" {
		t.Errorf("customer name = %q", event.CustomerName)
	}
	if event.CustomerFirstName != "Carlos" {
		t.Errorf("first name = %q", event.CustomerFirstName)
	}
	if event.CustomerPhone != "11977776666" {
		t.Errorf("phone = %q", event.CustomerPhone)
	}
	if event.TransactionID != "BRP-555" {
		t.Errorf("transaction id = %q", event.TransactionID)
	}
	if event.TransactionAmount != "97.00" {
		t.Errorf("amount = %q", event.TransactionAmount)
	}
	if event.EventType != "sale_approved" {
		t.Errorf("event type = %q", event.EventType)
	}
	if event.CommissionAmount != "19.40" {
		t.Errorf("commission = %q", event.CommissionAmount)
	}
	if event.Platform != "braip" {
		t.Errorf("platform = %q", event.Platform)
	}
}

func TestEventType(t *testing.T) {
	x := braip.New()
	if got := x.EventType([]byte(samplePayload)); got != "sale_approved" {
		t.Errorf("event type = %q", got)
	}
	if got := x.EventType([]byte(`{}`)); got != "unknown" {
		t.Errorf("fallback event type = %q", got)
	}
}
