package errors

import (
	goerrors "errors"

	"github.com/pipe01/tagtree/internal/lexer"
)

type SituatedErr interface {
	Unwrap() error
	At() lexer.Location
}

// Situate returns the innermost located error in err's chain, if any.
func Situate(err error) (SituatedErr, bool) {
	var poserr SituatedErr

	if !goerrors.As(err, &poserr) {
		return nil, false
	}

	return poserr, true
}

// IndentationWidth returns the offending width if err was caused by
// malformed indentation.
func IndentationWidth(err error) (int, bool) {
	var indentErr *lexer.MalformedIndentationError

	if !goerrors.As(err, &indentErr) {
		return 0, false
	}

	return indentErr.Width, true
}
