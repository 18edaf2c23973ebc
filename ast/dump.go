package ast

import "github.com/alecthomas/repr"

// Dump renders a Node as a human-readable, field-by-field representation,
// for use in tests and ad hoc inspection without writing a visitor.
func Dump(n Node) string {
	return repr.String(n, repr.Indent("  "), repr.OmitEmpty(true))
}
