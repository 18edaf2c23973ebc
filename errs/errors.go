// Package errs defines the typed failures that cross the tokenizer,
// parser, and formatter API boundaries. Internal call sites may wrap
// context onto these with github.com/pkg/errors before returning them;
// callers always receive one of the four types below, never a generic
// wrapped error.
package errs

import "fmt"

// TokenizeError reports a lexical failure: a byte sequence the tokenizer
// could not turn into a lexeme.
type TokenizeError struct {
	Offset  int
	Message string
}

func (e *TokenizeError) Error() string {
	return fmt.Sprintf("tokenize error at offset %d: %s", e.Offset, e.Message)
}

// ParseError reports a syntactic failure at a specific lexeme.
type ParseError struct {
	Offset   int
	Expected string // short description of the alternatives accepted here
	Found    string // the offending lexeme's text, or "end of input"
	Context  string // production breadcrumb, e.g. "select > from > join"
}

func (e *ParseError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("parse error at offset %d in %s: expected %s, found %s",
			e.Offset, e.Context, e.Expected, e.Found)
	}
	return fmt.Sprintf("parse error at offset %d: expected %s, found %s",
		e.Offset, e.Expected, e.Found)
}

// FormatError reports an invariant violation in a tree handed to the
// formatter — always a programmer error, never something user SQL text
// can trigger (e.g. a FunctionCall with both OverWindow and WithinGroup
// set). The formatter never silently "fixes" an invalid tree.
type FormatError struct {
	Message string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("format error: %s", e.Message)
}

// PresetError reports an unrecognized dialect preset name.
type PresetError struct {
	Name string
}

func (e *PresetError) Error() string {
	return fmt.Sprintf("unknown preset %q", e.Name)
}
