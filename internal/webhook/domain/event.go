package domain

// PaymentEvent is the canonical event every platform extractor
// produces. All fields default to the empty string rather than being
// omitted; downstream flow steps index variables by name and must not
// fail on absence.
type PaymentEvent struct {
	CustomerName      string
	CustomerFirstName string
	CustomerEmail     string
	CustomerPhone     string
	CustomerTaxID     string

	ProductName string
	ProductID   string

	TransactionID     string
	TransactionAmount string
	TransactionStatus string
	TransactionDate   string
	PaymentMethod     string

	EventType string
	Currency  string
	Platform  string
	AccessURL string

	PixCode       string
	PixExpiration string

	BoletoURL     string
	BoletoBarcode string

	CommissionAmount string

	PayloadOriginal string
}

// Variables returns the binding map consumed by flow steps, keyed by
// the canonical variable names.
func (e PaymentEvent) Variables() map[string]string {
	return map[string]string{
		"customer_name":       e.CustomerName,
		"customer_first_name": e.CustomerFirstName,
		"customer_email":      e.CustomerEmail,
		"customer_phone":      e.CustomerPhone,
		"customer_cpf":        e.CustomerTaxID,
		"product_name":        e.ProductName,
		"product_id":          e.ProductID,
		"transaction_id":      e.TransactionID,
		"transaction_amount":  e.TransactionAmount,
		"transaction_status":  e.TransactionStatus,
		"transaction_date":    e.TransactionDate,
		"payment_method":      e.PaymentMethod,
		"event_type":          e.EventType,
		"currency":            e.Currency,
		"platform":            e.Platform,
		"access_url":          e.AccessURL,
		"pix_code":            e.PixCode,
		"pix_expiration":      e.PixExpiration,
		"boleto_url":          e.BoletoURL,
		"boleto_barcode":      e.BoletoBarcode,
		"commission_amount":   e.CommissionAmount,
		"payload_original":    e.PayloadOriginal,
	}
}
