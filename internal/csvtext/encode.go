package csvtext

import "strings"

// EscapeField quotes a field when it contains a comma, quote, or
// newline, doubling any internal quotes. Applying ParseLine to the
// output recovers the original value exactly, which keeps the
// template → edit → decode round trip lossless.
func EscapeField(field string) string {
	if strings.ContainsAny(field, ",\"\n") {
		return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
	}
	return field
}

// EncodeLine renders one row of fields as a CSV line.
func EncodeLine(fields []string) string {
	escaped := make([]string, len(fields))
	for i, f := range fields {
		escaped[i] = EscapeField(f)
	}
	return strings.Join(escaped, ",")
}

// Encode renders a header row plus data rows as CSV text. Each record
// is emitted in header order; missing keys become empty fields.
func Encode(headers []string, records []Record) string {
	var b strings.Builder
	b.WriteString(EncodeLine(headers))
	for _, rec := range records {
		row := make([]string, len(headers))
		for i, h := range headers {
			row[i] = rec[h]
		}
		b.WriteByte('\n')
		b.WriteString(EncodeLine(row))
	}
	b.WriteByte('\n')
	return b.String()
}
