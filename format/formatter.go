// Package format renders a parsed query back to SQL text through a
// two-stage pipeline: lowering an ast.Query to a PrintToken tree
// (lower.go), then a line printer (printer.go) that turns the tree into
// text under a set of Options (options.go).
package format

import (
	"github.com/mk3008/carbunqlex-go/ast"
	"github.com/mk3008/carbunqlex-go/errs"
	"github.com/mk3008/carbunqlex-go/internal/obs"
)

var log = obs.Component("format")

// Result is the output of formatting a query: the rendered SQL text and
// the bind parameters it references, in a shape that depends on
// Options.ParameterStyle — an ordered slice for indexed/anonymous
// parameters (first-use order), a name-keyed map for named ones.
type Result struct {
	SQL    string
	Params any
}

// Formatter renders ast.Query values to text under a fixed Options.
type Formatter struct {
	opts Options
}

// New creates a Formatter configured by opts.
func New(opts Options) *Formatter {
	return &Formatter{opts: opts}
}

// Format lowers q to print tokens and renders them to SQL text, returning
// the formatted SQL alongside its parameter bag.
func (f *Formatter) Format(q ast.Query) (Result, error) {
	if q == nil {
		return Result{}, &errs.FormatError{Message: "cannot format a nil query"}
	}
	lw := newLowerer(f.opts)
	root, err := lw.lowerQuery(q)
	if err != nil {
		log.WithFields(map[string]any{"error": err.Error()}).Debug("lowering failed")
		return Result{}, err
	}
	p := newPrinter(f.opts)
	sql := p.print(root)

	var params any
	if f.opts.ParameterStyle == ParamStyleNamed {
		resolved := lw.params.params()
		m := make(map[string]int, len(resolved))
		for i, p := range resolved {
			m[p.Name] = i
		}
		params = m
	} else {
		params = lw.params.params()
	}
	return Result{SQL: sql, Params: params}, nil
}

// String formats q under DefaultOptions, discarding the parameter bag.
// It is a convenience wrapper for callers (tests, REPLs) that don't need
// the parameters, mirroring the teacher's package-level String helper.
func String(q ast.Query) string {
	res, err := New(DefaultOptions()).Format(q)
	if err != nil {
		return ""
	}
	return res.SQL
}
