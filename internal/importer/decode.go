package importer

// decode.go turns raw CSV records into ParsedRows.
//
// Delimiters and newlines are ASCII in every supported code page, so the file
// is split into records first and each cell is decoded afterwards. Cell bytes
// above 0x7F travel unchanged inside Go strings until the decoder maps them
// to UTF-8. A cell that cannot be decoded fails the whole run, not just the
// row: a wrong code page would silently corrupt every remaining row.

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

// RowDecoder decodes data records against a normalized header.
type RowDecoder struct {
	fields   []string // normalized, lowercased header fields
	codepage string
	enc      encoding.Encoding
	line     int
}

// NewRowDecoder resolves the code page by IANA name and prepares a decoder
// for the given header fields. An empty codepage selects DefaultCodepage.
func NewRowDecoder(headerFields []string, codepage string) (*RowDecoder, error) {
	if codepage == "" {
		codepage = DefaultCodepage
	}
	enc, err := ianaindex.IANA.Encoding(codepage)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("unknown code page %q", codepage)
	}
	return &RowDecoder{
		fields:   headerFields,
		codepage: codepage,
		enc:      enc,
	}, nil
}

// Decode maps one raw record onto the header fields, decoding and trimming
// each cell. Records shorter than the header leave trailing fields empty.
// A decode failure returns a *CodePageError carrying the offending record.
func (d *RowDecoder) Decode(record []string) (ParsedRow, error) {
	d.line++
	row := ParsedRow{
		Fields: make(map[string]string, len(d.fields)),
		Line:   d.line,
	}

	for i, hf := range d.fields {
		cell := ""
		if i < len(record) {
			cell = record[i]
		}
		decoded, err := d.decodeCell(cell)
		if err != nil {
			return ParsedRow{}, &CodePageError{Row: record, Err: err}
		}
		row.Fields[hf] = strings.TrimSpace(decoded)
	}

	// Scan fields in reverse: a '#' prefix on the last field marks the whole
	// row as a comment; an empty field terminates the scan early.
	for i := len(d.fields) - 1; i >= 0; i-- {
		v := row.Fields[d.fields[i]]
		if i == len(d.fields)-1 && strings.HasPrefix(v, "#") {
			row.Skip = true
			break
		}
		if v == "" {
			break
		}
	}

	return row, nil
}

// decodeCell decodes a single cell from the configured code page.
func (d *RowDecoder) decodeCell(cell string) (string, error) {
	if isASCII(cell) {
		return cell, nil
	}

	out, err := d.enc.NewDecoder().String(cell)
	if err != nil {
		return "", err
	}
	if !utf8.ValidString(out) {
		return "", fmt.Errorf("invalid byte sequence for code page %s", d.codepage)
	}
	// Decoders substitute U+FFFD for bytes the code page does not define.
	// Byte-level Contains here: ContainsRune(cell, RuneError) would match any
	// invalid UTF-8 sequence, and undecoded cell bytes are exactly that.
	if strings.ContainsRune(out, utf8.RuneError) && !strings.Contains(cell, "�") {
		return "", fmt.Errorf("byte not defined in code page %s", d.codepage)
	}
	return out, nil
}

// isASCII is a fast path: most price files are plain ASCII.
func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
