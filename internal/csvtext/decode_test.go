package csvtext

import (
	"errors"
	"strings"
	"testing"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{
			name: "plain fields",
			line: "a,b,c",
			want: []string{"a", "b", "c"},
		},
		{
			name: "whitespace trimmed",
			line: " a , b ,c ",
			want: []string{"a", "b", "c"},
		},
		{
			name: "quoted comma",
			line: `"Open Water, Cup",open-water,Vigo`,
			want: []string{"Open Water, Cup", "open-water", "Vigo"},
		},
		{
			name: "doubled quote inside quotes",
			line: `"say ""hola""",x`,
			want: []string{`say "hola"`, "x"},
		},
		{
			name: "empty fields",
			line: "a,,c,",
			want: []string{"a", "", "c", ""},
		},
		{
			name: "single field",
			line: "solo",
			want: []string{"solo"},
		},
		{
			name: "quoted empty field",
			line: `"",b`,
			want: []string{"", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseLine(tt.line)
			if len(got) != len(tt.want) {
				t.Fatalf("ParseLine(%q) = %v, want %v", tt.line, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("field %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDecode(t *testing.T) {
	text := "title,discipline,city\nEvent A,swimming,Madrid\nEvent B,diving,Sevilla"

	doc, err := Decode(text)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if len(doc.Headers) != 3 {
		t.Fatalf("Headers = %v, want 3 entries", doc.Headers)
	}
	if len(doc.Records) != 2 {
		t.Fatalf("Records = %d, want 2", len(doc.Records))
	}
	if doc.Records[0]["title"] != "Event A" {
		t.Errorf("record 0 title = %q", doc.Records[0]["title"])
	}
	if doc.Records[1]["discipline"] != "diving" {
		t.Errorf("record 1 discipline = %q", doc.Records[1]["discipline"])
	}
}

func TestDecode_AllHeaderKeysPresent(t *testing.T) {
	// Short rows must still yield every header key, as empty strings.
	doc, err := Decode("a,b,c\n1\n1,2,3,4")
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	for i, rec := range doc.Records {
		for _, h := range doc.Headers {
			if _, ok := rec[h]; !ok {
				t.Errorf("record %d missing key %q", i, h)
			}
		}
	}

	if doc.Records[0]["b"] != "" || doc.Records[0]["c"] != "" {
		t.Errorf("short row should have empty strings: %v", doc.Records[0])
	}
	// Extra fourth value is dropped.
	if len(doc.Records[1]) != 3 {
		t.Errorf("long row should be capped at header count: %v", doc.Records[1])
	}
}

func TestDecode_TooFewLines(t *testing.T) {
	for _, text := range []string{"", "just-a-header", "header\n", "  \n  "} {
		if _, err := Decode(text); !errors.Is(err, ErrTooFewLines) {
			t.Errorf("Decode(%q) error = %v, want ErrTooFewLines", text, err)
		}
	}
}

func TestDecode_CRLFAndBlankLines(t *testing.T) {
	doc, err := Decode("a,b\r\n1,2\r\n\r\n3,4\r\n")
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(doc.Records) != 2 {
		t.Fatalf("Records = %d, want 2 (blank line skipped)", len(doc.Records))
	}
	if doc.Records[1]["b"] != "4" {
		t.Errorf("record 1 b = %q, want 4", doc.Records[1]["b"])
	}
}

func TestDecode_InteriorBlankLinesProduceNoRecord(t *testing.T) {
	// A blank line between data rows is skipped, not decoded as an
	// all-empty record, so downstream row numbering counts only real
	// rows: the row after the gap is row 2, not row 3.
	doc, err := Decode("a,b\n1,2\n\n   \n3,4")
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(doc.Records) != 2 {
		t.Fatalf("Records = %d, want 2", len(doc.Records))
	}
	if doc.Records[1]["a"] != "3" {
		t.Errorf("record after blank lines a = %q, want 3", doc.Records[1]["a"])
	}
}

func TestDecode_NoMultilineQuotedFields(t *testing.T) {
	// A quoted field spanning a newline is NOT supported: each line is
	// parsed on its own. The second physical line becomes its own record.
	doc, err := Decode("a,b\n\"line one,still a\nline two\",x")
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(doc.Records) != 2 {
		t.Fatalf("Records = %d, want 2 independent lines", len(doc.Records))
	}
}

func TestEscapeField(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"has,comma", `"has,comma"`},
		{`has"quote`, `"has""quote"`},
		{"has\nnewline", "\"has\nnewline\""},
	}
	for _, tt := range tests {
		if got := EscapeField(tt.in); got != tt.want {
			t.Errorf("EscapeField(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	// Encoding a tricky value then decoding it must recover the original.
	values := []string{
		"Open Water, Cup",
		`the "big" race`,
		"plain",
		"a, b, and \"c\"",
	}

	for _, v := range values {
		line := EncodeLine([]string{v, "x"})
		got := ParseLine(line)
		if got[0] != v {
			t.Errorf("round trip of %q = %q", v, got[0])
		}
	}
}

func TestEncodeDecodeDocument(t *testing.T) {
	headers := []string{"title", "city"}
	records := []Record{
		{"title": "Copa, Invierno", "city": "Gijón"},
		{"title": "Trofeo", "city": "Bilbao"},
	}

	text := Encode(headers, records)
	doc, err := Decode(text)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if len(doc.Records) != len(records) {
		t.Fatalf("Records = %d, want %d", len(doc.Records), len(records))
	}
	for i, rec := range records {
		for _, h := range headers {
			if doc.Records[i][h] != rec[h] {
				t.Errorf("record %d %s = %q, want %q", i, h, doc.Records[i][h], rec[h])
			}
		}
	}

	if strings.Count(text, "\n") != 3 {
		t.Errorf("encoded text should have 3 newlines, got %q", text)
	}
}
