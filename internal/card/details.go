package card

import "strings"

// detailsSentinel separates tagged segments in a SAP task-details string,
// e.g. "#$# Company Code : ACME #$# Amount : 10,00 EUR".
const detailsSentinel = "#$#"

const detailUnset = "N/A"

// Details are the sub-fields embedded in a task-details string. A field
// whose tag is absent holds "N/A".
type Details struct {
	DocumentType string
	CompanyCode  string
	Amount       string
}

// ParseDetails splits the details string on the sentinel token and reads
// each segment as a "Key : Value" pair. Unknown keys and malformed
// segments are skipped.
func ParseDetails(s string) Details {
	d := Details{
		DocumentType: detailUnset,
		CompanyCode:  detailUnset,
		Amount:       detailUnset,
	}

	for _, seg := range strings.Split(s, detailsSentinel) {
		key, value, ok := strings.Cut(seg, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		switch strings.TrimSpace(key) {
		case "Document Type":
			d.DocumentType = value
		case "Company Code":
			d.CompanyCode = value
		case "Amount":
			d.Amount = value
		}
	}
	return d
}

// HasAny reports whether at least one sub-field was present.
func (d Details) HasAny() bool {
	return d.DocumentType != detailUnset || d.CompanyCode != detailUnset || d.Amount != detailUnset
}
