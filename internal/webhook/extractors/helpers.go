package extractors

import (
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// DefaultCurrency applies when a provider omits the currency field;
// every supported provider settles in BRL.
const DefaultCurrency = "BRL"

// Str returns the first path that resolves to a non-empty value,
// coerced to its string form. Numbers come back as their decimal
// representation so downstream handling is uniform.
func Str(payload []byte, paths ...string) string {
	for _, path := range paths {
		result := gjson.GetBytes(payload, path)
		if !result.Exists() {
			continue
		}
		value := strings.TrimSpace(result.String())
		if value != "" {
			return value
		}
	}
	return ""
}

// FirstName returns the first whitespace-separated token of a full
// name.
func FirstName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return strings.Fields(name)[0]
}

// DateOrNow falls back to the current UTC time in RFC 3339 when the
// provider sent no transaction date.
func DateOrNow(value string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return time.Now().UTC().Format(time.RFC3339)
}

// Digits strips every non-digit rune.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
