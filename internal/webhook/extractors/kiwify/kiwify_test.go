package kiwify_test

import (
	"testing"

	"github.com/atendely/flowhook/internal/webhook/extractors/kiwify"
)

const samplePayload = `{
	"order_id": "KW-1001",
	"order_status": "paid",
	"payment_method": "pix",
	"webhook_event_type": "order_approved",
	"created_at": "2024-05-01T10:00:00Z",
	"Customer": {
		"full_name": "Maria da Silva",
		"first_name": "Maria",
		"email": "maria@example.com",
		"mobile": "+55 11 99999-9999",
		"CPF": "12345678901"
	},
	"Product": {
		"product_name": "Curso de Vendas",
		"product_id": "prod-77"
	},
	"Commissions": {
		"charge_amount": 197.9,
		"my_commission": 30.5,
		"currency": "BRL"
	},
	"pix_code": "0002012658br.gov.bcb.pix",
	"boleto_URL": "https://pay.example.com/boleto/1"
}`

func TestExtract(t *testing.T) {
	event := kiwify.New().Extract([]byte(samplePayload))

	checks := map[string]string{
		"customer name":   event.CustomerName,
		"first name":      event.CustomerFirstName,
		"email":           event.CustomerEmail,
		"phone":           event.CustomerPhone,
		"cpf":             event.CustomerTaxID,
		"product name":    event.ProductName,
		"product id":      event.ProductID,
		"transaction id":  event.TransactionID,
		"amount":          event.TransactionAmount,
		"status":          event.TransactionStatus,
		"payment method":  event.PaymentMethod,
		"event type":      event.EventType,
		"currency":        event.Currency,
		"pix code":        event.PixCode,
		"boleto url":      event.BoletoURL,
		"transaction dte": event.TransactionDate,
	}
	for field, value := range checks {
		if value == "" {
			t.Errorf("%s is empty", field)
		}
	}

	if event.CustomerName != "Maria da Silva" {
		t.Errorf("customer name = %q", event.CustomerName)
	}
	if event.CustomerFirstName != "Maria" {
		t.Errorf("first name = %q", event.CustomerFirstName)
	}
	if event.TransactionID != "KW-1001" {
		t.Errorf("transaction id = %q", event.TransactionID)
	}
	if event.TransactionAmount != "197.9" {
		t.Errorf("amount = %q", event.TransactionAmount)
	}
	if event.CommissionAmount != "30.5" {
		t.Errorf("commission = %q", event.CommissionAmount)
	}
	if event.Platform != "kiwify" {
		t.Errorf("platform = %q", event.Platform)
	}
	if event.PayloadOriginal != samplePayload {
		t.Error("payload original not preserved")
	}
}

func TestExtractDegradesToEmptyFields(t *testing.T) {
	event := kiwify.New().Extract([]byte(`{"unexpected": true}`))

	if event.CustomerName != "" || event.TransactionID != "" {
		t.Errorf("expected empty fields, got name=%q tx=%q", event.CustomerName, event.TransactionID)
	}
	if event.Currency != "BRL" {
		t.Errorf("currency fallback = %q, want BRL", event.Currency)
	}
	if event.TransactionDate == "" {
		t.Error("transaction date should fall back to now")
	}
}

func TestEventType(t *testing.T) {
	x := kiwify.New()
	if got := x.EventType([]byte(samplePayload)); got != "order_approved" {
		t.Errorf("event type = %q", got)
	}
	if got := x.EventType([]byte(`{}`)); got != "unknown" {
		t.Errorf("fallback event type = %q", got)
	}
}
