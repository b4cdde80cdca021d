package cacto_test

import (
	"testing"

	"github.com/atendely/flowhook/internal/webhook/extractors/cacto"
)

const samplePayload = `{
	"event": "purchase.approved",
	"customer": {
		"name": "Paulo Mendes",
		"email": "paulo@example.com",
		"phone": "31966665555",
		"cpf": "33344455566"
	},
	"product": {
		"name": "Comunidade VIP",
		"id": "cacto-12",
		"access_url": "https://app.example.com/vip"
	},
	"transaction": {
		"id": "CT-331",
		"amount": "59.90",
		"status": "approved",
		"created_at": "2024-07-01T08:15:00Z",
		"payment_method": "pix",
		"currency": "BRL",
		"pix_code": "000201pix",
		"pix_expiration": "2024-07-01T09:15:00Z",
		"boleto_url": "",
		"commission": "5.99"
	}
}`

func TestExtract(t *testing.T) {
	event := cacto.New().Extract([]byte(samplePayload))

	if event.CustomerName != "Paulo Mendes" {
		t.Errorf("customer name = %q", event.CustomerName)
	}
	if event.TransactionID != "CT-331" {
		t.Errorf("transaction id = %q", event.TransactionID)
	}
	if event.TransactionAmount != "59.90" {
		t.Errorf("amount = %q", event.TransactionAmount)
	}
	if event.PixCode != "000201pix" {
		t.Errorf("pix code = %q", event.PixCode)
	}
	if event.PixExpiration != "2024-07-01T09:15:00Z" {
		t.Errorf("pix expiration = %q", event.PixExpiration)
	}
	if event.BoletoURL != "" {
		t.Errorf("boleto url = %q, want empty", event.BoletoURL)
	}
	if event.AccessURL != "https://app.example.com/vip" {
		t.Errorf("access url = %q", event.AccessURL)
	}
	if event.EventType != "purchase.approved" {
		t.Errorf("event type = %q", event.EventType)
	}
}

func TestEventType(t *testing.T) {
	if got := cacto.New().EventType([]byte(`{}`)); got != "unknown" {
		t.Errorf("fallback event type = %q", got)
	}
}
