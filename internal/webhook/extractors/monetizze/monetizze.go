package monetizze

import (
	"github.com/atendely/flowhook/internal/webhook/domain"
	"github.com/atendely/flowhook/internal/webhook/extractors"
)

type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (*Extractor) Platform() string { return "monetizze" }

func (*Extractor) EventType(payload []byte) string {
	if event := extractors.Str(payload, "tipoEvento"); event != "" {
		return event
	}
	return domain.EventTypeUnknown
}

func (*Extractor) Extract(payload []byte) domain.PaymentEvent {
	name := extractors.Str(payload, "comprador.nome")

	return domain.PaymentEvent{
		CustomerName:      name,
		CustomerFirstName: extractors.FirstName(name),
		CustomerEmail:     extractors.Str(payload, "comprador.email"),
		CustomerPhone:     extractors.Str(payload, "comprador.telefone", "comprador.cnpj_cpf"),
		CustomerTaxID:     extractors.Str(payload, "comprador.cnpj_cpf"),

		ProductName: extractors.Str(payload, "produto.nome"),
		ProductID:   extractors.Str(payload, "produto.codigo"),

		TransactionID:     extractors.Str(payload, "venda.codigo"),
		TransactionAmount: extractors.Str(payload, "venda.valor"),
		TransactionStatus: extractors.Str(payload, "venda.status"),
		TransactionDate:   extractors.DateOrNow(extractors.Str(payload, "venda.dataInicio")),
		PaymentMethod:     extractors.Str(payload, "venda.formaPagamento"),

		EventType: extractors.Str(payload, "tipoEvento"),
		Currency:  extractors.DefaultCurrency,
		Platform:  "monetizze",

		CommissionAmount: extractors.Str(payload, "venda.comissao"),

		PayloadOriginal: string(payload),
	}
}
