package notify

import "strings"

// NormalizePhone converts a customer-entered phone number to E.164.
// Numbers already carrying a "+" prefix pass through unchanged, "00" is the
// international dial prefix, and anything else is treated as a domestic number
// in the configured home country with its local trunk "0" stripped.
func NormalizePhone(raw string, defaultCountryCode string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')':
			return -1
		}
		return r
	}, strings.TrimSpace(raw))

	switch {
	case cleaned == "":
		return ""
	case strings.HasPrefix(cleaned, "+"):
		return cleaned
	case strings.HasPrefix(cleaned, "00"):
		return "+" + cleaned[2:]
	case strings.HasPrefix(cleaned, "0"):
		return "+" + defaultCountryCode + cleaned[1:]
	default:
		return "+" + defaultCountryCode + cleaned
	}
}
