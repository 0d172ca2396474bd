// Package validate holds the per-field predicates and input formatters used
// by the intake wizards. Every function is pure; validators return an error
// message or "" when the value is acceptable.
package validate

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\(\d{3}\) \d{3}-\d{4}$`)
	npiPattern   = regexp.MustCompile(`^\d{10}$`)
)

// Required returns message when the trimmed value is empty.
func Required(value, message string) string {
	if strings.TrimSpace(value) == "" {
		return message
	}
	return ""
}

// IsEmail reports whether value has a local@domain.tld shape without
// embedded whitespace.
func IsEmail(value string) bool {
	v := strings.TrimSpace(value)
	if v == "" {
		return false
	}
	return emailPattern.MatchString(v)
}

// IsPhone reports whether value is in the canonical (###) ###-#### shape.
func IsPhone(value string) bool {
	v := strings.TrimSpace(value)
	if v == "" {
		return false
	}
	return phonePattern.MatchString(v)
}

// FormatPhone strips everything but digits, keeps the first ten and
// re-inserts the punctuation as digits accumulate.
func FormatPhone(raw string) string {
	d := digits(raw, 10)
	switch {
	case len(d) == 0:
		return ""
	case len(d) < 4:
		return "(" + d
	case len(d) < 7:
		return "(" + d[:3] + ") " + d[3:]
	default:
		return "(" + d[:3] + ") " + d[3:6] + "-" + d[6:]
	}
}

// IsNPI reports whether value is exactly ten digits.
func IsNPI(value string) bool {
	return npiPattern.MatchString(strings.TrimSpace(value))
}

// NormalizeNPI keeps only digits, at most ten.
func NormalizeNPI(raw string) string { return digits(raw, 10) }

// FormatZip keeps only digits, at most five.
func FormatZip(raw string) string { return digits(raw, 5) }

// FormatCity keeps letters, whitespace, apostrophes and hyphens.
func FormatCity(raw string) string {
	return strings.Map(func(r rune) rune {
		if (r < unicode.MaxASCII && unicode.IsLetter(r)) || unicode.IsSpace(r) || r == '\'' || r == '-' {
			return r
		}
		return -1
	}, raw)
}

// MinSelected returns message when nothing is selected.
func MinSelected(selected []string, message string) string {
	if len(selected) == 0 {
		return message
	}
	return ""
}

// Chosen returns message when no option has been picked. A picked option
// is never treated as missing, whatever its value.
func Chosen(picked bool, message string) string {
	if !picked {
		return message
	}
	return ""
}

func digits(raw string, max int) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			if b.Len() == max {
				break
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}
