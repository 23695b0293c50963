package order

import (
	"strconv"
	"strings"
	"time"

	"github.com/example/ordens/internal/core/errs"
)

// Date layouts.
const (
	DisplayLayout = "02/01/2006"
	StorageLayout = "2006-01-02"
)

// ParseDate accepts DD/MM/YYYY or ISO YYYY-MM-DD and returns the ISO form.
// Blank input means "no date" and yields "".
func ParseDate(field, value string) (string, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return "", nil
	}
	for _, layout := range []string{DisplayLayout, StorageLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(StorageLayout), nil
		}
	}
	return "", &errs.FormatError{Entity: "service order", Field: field, Value: value, Expected: "DD/MM/YYYY"}
}

// FormatDate renders an ISO date as DD/MM/YYYY; unparseable input is returned as-is.
func FormatDate(iso string) string {
	if iso == "" {
		return ""
	}
	t, err := time.Parse(StorageLayout, iso)
	if err != nil {
		return iso
	}
	return t.Format(DisplayLayout)
}

// ParseAmount parses a money string such as "R$ 1.234,56", "1234,56" or "123.45".
// With a comma present, dots are thousands separators and the comma is the
// decimal mark. Without a comma, a single dot is the decimal mark and several
// dots are thousands separators. Blank input yields nil.
func ParseAmount(field, value string) (*float64, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return nil, nil
	}
	s = strings.TrimSpace(strings.ReplaceAll(s, "R$", ""))
	s = strings.ReplaceAll(s, " ", "")

	switch {
	case strings.Contains(s, ","):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case strings.Count(s, ".") > 1:
		s = strings.ReplaceAll(s, ".", "")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, &errs.FormatError{Entity: "service order", Field: field, Value: value, Expected: "123.45 or 1.234,56"}
	}
	return &v, nil
}

// FormatAmount renders an amount as 1.234,56; nil renders as "".
func FormatAmount(v *float64) string {
	if v == nil {
		return ""
	}
	raw := strconv.FormatFloat(*v, 'f', 2, 64)
	neg := strings.HasPrefix(raw, "-")
	raw = strings.TrimPrefix(raw, "-")

	intPart, frac, _ := strings.Cut(raw, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	out := b.String() + "," + frac
	if neg {
		out = "-" + out
	}
	return out
}
