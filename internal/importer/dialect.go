package importer

// dialect.go infers the CSV delimiter from file content.
//
// Supported delimiters are ';' and ','. Sniffing counts occurrences inside a
// small leading window; a clear majority wins. Ties (including all-zero) fall
// back to inspecting the text just past the window, preferring ',' when
// present. An explicit user-chosen separator always overrides the sniffed
// result - that decision lives with the caller, not here.

import "strings"

// sniffWindow is how much leading text delimiter sniffing looks at.
const sniffWindow = 128

// DetectDelimiter infers the delimiter of cleaned (newline-normalized) text.
func DetectDelimiter(text string) rune {
	window := text
	if len(window) > sniffWindow {
		window = window[:sniffWindow]
	}

	semis := strings.Count(window, ";")
	commas := strings.Count(window, ",")
	switch {
	case semis > commas:
		return ';'
	case commas > semis:
		return ','
	}

	// Counting is not always reliable; look past the window instead.
	rest := ""
	if len(text) > sniffWindow {
		rest = text[sniffWindow:]
	}
	if strings.ContainsRune(rest, ',') {
		return ','
	}
	return ';'
}

// DefaultDecimalSep returns the decimal separator that usually accompanies a
// delimiter: semicolon-delimited files are commonly European with comma
// decimals, comma-delimited files use dot decimals.
func DefaultDecimalSep(delimiter rune) rune {
	if delimiter == ';' {
		return ','
	}
	return '.'
}
