package importer

// preprocess.go prepares raw file text for row parsing:
//
//   - NormalizeNewlines unifies Windows and classic Mac line endings
//   - StripLeading skips blank/comment lines and locates the header row
//   - NormalizeHeader trims trailing comment columns off the header
//
// The text handled here may still contain undecoded single-byte code page
// data; all scanning sticks to ASCII delimiters so that is safe.

import "strings"

// NormalizeNewlines converts \r\n and bare \r line endings to \n.
func NormalizeNewlines(data []byte) string {
	s := strings.ReplaceAll(string(data), "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// StripLeading removes leading blank or comment lines and returns the
// remaining text plus the header line. A line counts as skippable when it is
// empty or starts with the delimiter or '#'. The header is lowercased so
// field lookups are case-insensitive; everything after it is returned
// verbatim. Returns ErrNoHeader when every line is skippable.
func StripLeading(text string, delimiter rune) (body, header string, err error) {
	rest := text
	for rest != "" {
		line, tail, found := strings.Cut(rest, "\n")
		if !found {
			tail = ""
		}
		if line == "" || rune(line[0]) == delimiter || line[0] == '#' {
			rest = tail
			continue
		}
		return tail, strings.ToLower(line), nil
	}
	return "", "", ErrNoHeader
}

// NormalizeHeader truncates the header at its first empty cell: header cells
// after a blank column are annotations, not columns. A header without empty
// cells is returned unchanged.
func NormalizeHeader(fields []string) []string {
	for i, f := range fields {
		if f == "" {
			return fields[:i]
		}
	}
	return fields
}
