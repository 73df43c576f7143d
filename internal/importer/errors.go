package importer

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoHeader is returned when every input line is blank or a comment, so no
// header row can be located. It aborts the run before any row is processed.
var ErrNoHeader = errors.New("no header line found in the input file")

// ErrRuleNotFound is returned by stores when an update targets a price rule
// that no longer exists.
var ErrRuleNotFound = errors.New("price rule not found")

// CodePageError reports a row whose bytes could not be decoded with the
// configured code page. It is fatal: the run stops at the offending row.
type CodePageError struct {
	Row []string // raw record as read from the file
	Err error    // underlying decode diagnostic
}

func (e *CodePageError) Error() string {
	return fmt.Sprintf("wrong code page while processing line %q: %v",
		strings.Join(e.Row, ","), e.Err)
}

func (e *CodePageError) Unwrap() error {
	return e.Err
}
