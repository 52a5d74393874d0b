// Package csvtext decodes and encodes the comma-separated text that
// administrators paste into the bulk import form.
//
// The format is deliberately simpler than full RFC 4180: the first line
// is the header, every following line is one record, and a quoted field
// cannot span lines. Each line is parsed independently, so a newline
// inside quotes starts a new record. This is a documented limitation of
// the paste-based transport, not a bug.
package csvtext

import (
	"errors"
	"strings"
)

// ErrTooFewLines is returned when the input has no header or no data.
var ErrTooFewLines = errors.New("csv must have at least a header row and one data row")

// Record maps a header name to the raw string value for one row.
type Record map[string]string

// Document is the decoded form of pasted CSV text: the header list in
// input order plus one Record per data line. Row numbers reported
// downstream are 1-indexed over data lines (the header is line 0).
type Document struct {
	Headers []string
	Records []Record
}

// Decode parses raw CSV text into a Document.
//
// The first line is the header; each following line becomes one Record
// keyed by header name. A record with fewer values than headers leaves
// the missing fields as empty strings; values beyond the header count
// are dropped. Blank lines are skipped entirely, wherever they appear:
// an interior blank line produces no record (and therefore no
// validation error) and does not advance row numbering.
func Decode(text string) (*Document, error) {
	lines := splitLines(strings.TrimSpace(text))
	if len(lines) < 2 {
		return nil, ErrTooFewLines
	}

	headers := ParseLine(lines[0])
	doc := &Document{
		Headers: headers,
		Records: make([]Record, 0, len(lines)-1),
	}

	for _, line := range lines[1:] {
		values := ParseLine(line)
		rec := make(Record, len(headers))
		for i, h := range headers {
			if i < len(values) {
				rec[h] = values[i]
			} else {
				rec[h] = ""
			}
		}
		doc.Records = append(doc.Records, rec)
	}

	return doc, nil
}

// ParseLine splits one line into fields.
//
// A double quote toggles quoted mode; inside quotes a doubled quote is a
// literal quote. A comma outside quotes ends the field. Fields are
// trimmed of surrounding whitespace.
func ParseLine(line string) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				current.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case ch == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteByte(ch)
		}
	}
	fields = append(fields, strings.TrimSpace(current.String()))

	return fields
}

// splitLines splits on \n, tolerating \r\n endings and skipping blank
// lines so trailing newlines do not produce phantom records. Interior
// blank lines are skipped the same way, not decoded as empty records.
func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimRight(l, "\r")
		if strings.TrimSpace(l) == "" {
			continue
		}
		lines = append(lines, l)
	}
	return lines
}
