package model

import (
	"errors"
	"strconv"
	"strings"
)

// ErrUnparseablePrice is returned when a non-empty price string contains
// no recognizable amount. Callers treat this as a degraded field, not a
// failure: the price is simply recorded absent.
var ErrUnparseablePrice = errors.New("model: unparseable price")

// Price is a parsed monetary value.
type Price struct {
	// Amount is the numeric value. Zero when Free is set.
	Amount float64

	// Currency is the trailing currency token as it appeared on the
	// page ("zł", "PLN", "€", ...). Empty when the page showed none.
	Currency string

	// Negotiable reports whether the ad marked the price negotiable.
	Negotiable bool

	// Free reports a "free / za darmo" price. Free and Negotiable are
	// mutually exclusive on the source site.
	Free bool
}

// freeMarkers are the "give away" price texts across the site's locales.
var freeMarkers = []string{"free", "za darmo", "darmo", "безкоштовно", "бесплатно"}

// negotiableMarkers flag a negotiable price. They appear as a suffix
// after the amount and are stripped before numeric parsing.
var negotiableMarkers = []string{"do negocjacji", "negotiable", "договірна", "торг"}

// ParsePrice parses the price text of an ad card or detail page.
//
// Recognized forms:
//   - "Za darmo" / "Free"            -> Free price, amount 0
//   - "1 200 zł"                     -> amount with thousands separators
//   - "1.200,50 zł do negocjacji"    -> decimal comma, negotiable suffix
//   - "350 USD"                      -> plain amount with currency token
//
// Empty input and input without digits return ErrUnparseablePrice.
func ParsePrice(s string) (*Price, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrUnparseablePrice
	}

	lower := strings.ToLower(s)
	for _, marker := range freeMarkers {
		if lower == marker {
			return &Price{Free: true}, nil
		}
	}

	p := &Price{}
	for _, marker := range negotiableMarkers {
		if idx := strings.Index(lower, marker); idx >= 0 {
			p.Negotiable = true
			s = strings.TrimSpace(s[:idx] + s[idx+len(marker):])
			break
		}
	}

	amount, rest, ok := splitAmount(s)
	if !ok {
		return nil, ErrUnparseablePrice
	}
	p.Amount = amount
	p.Currency = strings.TrimSpace(rest)
	return p, nil
}

// splitAmount extracts the leading numeric amount from s and returns the
// remainder (the currency token, if any). Space, non-breaking space and
// apostrophe group separators are dropped; a trailing comma or dot group
// of one or two digits is treated as the decimal part, any other comma
// or dot as a thousands separator.
func splitAmount(s string) (float64, string, bool) {
	start := strings.IndexFunc(s, func(r rune) bool { return r >= '0' && r <= '9' })
	if start < 0 {
		return 0, "", false
	}

	end := start
	for end < len(s) {
		c := s[end]
		if c >= '0' && c <= '9' || c == '.' || c == ',' || c == ' ' || c == '\'' {
			end++
			continue
		}
		// Non-breaking space (U+00A0) is a common group separator.
		if end+1 < len(s) && c == 0xC2 && s[end+1] == 0xA0 {
			end += 2
			continue
		}
		break
	}

	raw := strings.TrimRight(s[start:end], " .,'")
	normalized := normalizeAmount(raw)
	amount, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0, "", false
	}
	return amount, s[end:], true
}

// normalizeAmount rewrites a localized amount into strconv form.
func normalizeAmount(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch r {
		case ' ', '\u00a0', '\'':
			// group separator
		default:
			b.WriteRune(r)
		}
	}
	s := b.String()

	// With both separators present the last one is the decimal mark.
	lastComma := strings.LastIndexByte(s, ',')
	lastDot := strings.LastIndexByte(s, '.')
	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		// A single comma followed by one or two digits is a decimal
		// mark ("1199,99"); otherwise it groups thousands ("1,200").
		if len(s)-lastComma-1 <= 2 {
			s = s[:lastComma] + "." + s[lastComma+1:]
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastDot >= 0:
		if len(s)-lastDot-1 > 2 {
			s = strings.ReplaceAll(s, ".", "")
		}
	}
	return s
}

// String renders the price in the canonical stream form. ParsePrice
// accepts everything String produces, so records round-trip through the
// record stream. Amounts carry at most two decimals: a lone dot
// followed by three or more digits reads as a thousands separator, so
// longer fractions would not survive a re-parse.
func (p *Price) String() string {
	if p == nil {
		return ""
	}
	if p.Free {
		return "free"
	}
	out := strconv.FormatFloat(p.Amount, 'f', 2, 64)
	out = strings.TrimRight(out, "0")
	out = strings.TrimRight(out, ".")
	if p.Currency != "" {
		out += " " + p.Currency
	}
	if p.Negotiable {
		out += " negotiable"
	}
	return out
}
