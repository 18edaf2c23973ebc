package format

import (
	"io"

	"github.com/mk3008/carbunqlex-go/errs"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// ParamStyle selects how a bind parameter is rendered in formatted output,
// independent of how it was written in the source text.
type ParamStyle int

const (
	ParamStyleIndexed ParamStyle = iota
	ParamStyleAnonymous
	ParamStyleNamed
)

// KeywordCase selects the letter case applied to keywords. Function names
// are identifiers and are emitted as written.
type KeywordCase int

const (
	KeywordLower KeywordCase = iota
	KeywordUpper
	KeywordAsWritten
)

// BreakMode selects where a line break lands relative to a comma or AND
// operator, when pretty-printing is active.
type BreakMode int

const (
	BreakNone BreakMode = iota
	BreakBefore
	BreakAfter
)

// EscapePair is the open/close identifier-quoting pair for a dialect, e.g.
// `"`/`"` for PostgreSQL or `` ` ``/`` ` `` for MySQL.
type EscapePair struct {
	Open  string
	Close string
}

// Preset names a built-in dialect default bundle.
type Preset string

const (
	PresetPostgres  Preset = "postgres"
	PresetMySQL     Preset = "mysql"
	PresetSQLite    Preset = "sqlite"
	PresetSQLServer Preset = "sqlserver"
)

// Options configures both stages of the formatter. Every field here is the
// full set of knobs the formatter understands; there is no open-ended
// option bag, so an unrecognized key in a loaded preset is an error rather
// than being ignored.
type Options struct {
	Preset                 Preset
	IdentifierEscape       EscapePair
	ParameterSymbol        string
	ParameterStyle         ParamStyle
	IndentChar             string
	IndentSize             int
	Newline                string
	KeywordCase            KeywordCase
	CommaBreak             BreakMode
	AndBreak               BreakMode
	ExportComment          bool
	StrictCommentPlacement bool
	CTEOneline             bool
	CTEOnelineDependency   bool
}

// DefaultOptions returns the formatter's baseline configuration: single-line
// output, lower-case keywords, double-quoted identifiers, indexed
// parameters rendered as `$1`, `$2`, ... This matches the formatter's
// documented defaults (`select * from "users"`, not `SELECT`).
func DefaultOptions() Options {
	return Options{
		Preset:                 PresetPostgres,
		IdentifierEscape:       EscapePair{Open: `"`, Close: `"`},
		ParameterSymbol:        "$",
		ParameterStyle:         ParamStyleIndexed,
		IndentChar:             " ",
		IndentSize:             2,
		Newline:                " ",
		KeywordCase:            KeywordLower,
		CommaBreak:             BreakNone,
		AndBreak:               BreakNone,
		ExportComment:          false,
		StrictCommentPlacement: false,
		CTEOneline:             false,
		CTEOnelineDependency:   false,
	}
}

var presetDefaults = map[Preset]Options{
	PresetPostgres: DefaultOptions(),
	PresetMySQL: func() Options {
		o := DefaultOptions()
		o.Preset = PresetMySQL
		o.IdentifierEscape = EscapePair{Open: "`", Close: "`"}
		o.ParameterSymbol = "?"
		o.ParameterStyle = ParamStyleAnonymous
		return o
	}(),
	PresetSQLite: func() Options {
		o := DefaultOptions()
		o.Preset = PresetSQLite
		o.ParameterSymbol = "?"
		o.ParameterStyle = ParamStyleAnonymous
		return o
	}(),
	PresetSQLServer: func() Options {
		o := DefaultOptions()
		o.Preset = PresetSQLServer
		o.IdentifierEscape = EscapePair{Open: "[", Close: "]"}
		o.ParameterSymbol = "@"
		o.ParameterStyle = ParamStyleNamed
		return o
	}(),
}

// LoadPreset loads Options from an Options-shaped YAML document, starting
// from the named preset's defaults and overriding with whatever fields the
// document sets. Unknown fields are rejected rather than silently ignored.
func LoadPreset(r io.Reader) (Options, error) {
	var doc struct {
		Preset                 *string `yaml:"preset"`
		IdentifierEscapeOpen   *string `yaml:"identifierEscapeOpen"`
		IdentifierEscapeClose  *string `yaml:"identifierEscapeClose"`
		ParameterSymbol        *string `yaml:"parameterSymbol"`
		ParameterStyle         *string `yaml:"parameterStyle"`
		IndentChar             *string `yaml:"indentChar"`
		// Decoded as a string so "2" and 2 are both accepted: hand-edited
		// preset files commonly quote small integers.
		IndentSize *string `yaml:"indentSize"`
		Newline                *string `yaml:"newline"`
		KeywordCase            *string `yaml:"keywordCase"`
		CommaBreak             *string `yaml:"commaBreak"`
		AndBreak               *string `yaml:"andBreak"`
		ExportComment          *bool   `yaml:"exportComment"`
		StrictCommentPlacement *bool   `yaml:"strictCommentPlacement"`
		CTEOneline             *bool   `yaml:"cteOneline"`
		CTEOnelineDependency   *bool   `yaml:"cteOnelineDependency"`
	}

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		wrapped := errors.Wrap(err, "decode formatter preset")
		return Options{}, &errs.FormatError{Message: wrapped.Error()}
	}

	preset := PresetPostgres
	if doc.Preset != nil {
		preset = Preset(*doc.Preset)
	}
	opts, ok := presetDefaults[preset]
	if !ok {
		return Options{}, &errs.PresetError{Name: string(preset)}
	}

	if doc.IdentifierEscapeOpen != nil {
		opts.IdentifierEscape.Open = *doc.IdentifierEscapeOpen
	}
	if doc.IdentifierEscapeClose != nil {
		opts.IdentifierEscape.Close = *doc.IdentifierEscapeClose
	}
	if doc.ParameterSymbol != nil {
		opts.ParameterSymbol = *doc.ParameterSymbol
	}
	if doc.ParameterStyle != nil {
		style, err := parseParamStyle(*doc.ParameterStyle)
		if err != nil {
			return Options{}, err
		}
		opts.ParameterStyle = style
	}
	if doc.IndentChar != nil {
		opts.IndentChar = *doc.IndentChar
	}
	if doc.IndentSize != nil {
		size, err := cast.ToIntE(*doc.IndentSize)
		if err != nil {
			wrapped := errors.Wrap(err, "decode indentSize")
			return Options{}, &errs.FormatError{Message: wrapped.Error()}
		}
		opts.IndentSize = size
	}
	if doc.Newline != nil {
		opts.Newline = *doc.Newline
	}
	if doc.KeywordCase != nil {
		kc, err := parseKeywordCase(*doc.KeywordCase)
		if err != nil {
			return Options{}, err
		}
		opts.KeywordCase = kc
	}
	if doc.CommaBreak != nil {
		bm, err := parseBreakMode(*doc.CommaBreak)
		if err != nil {
			return Options{}, err
		}
		opts.CommaBreak = bm
	}
	if doc.AndBreak != nil {
		bm, err := parseBreakMode(*doc.AndBreak)
		if err != nil {
			return Options{}, err
		}
		opts.AndBreak = bm
	}
	if doc.ExportComment != nil {
		opts.ExportComment = *doc.ExportComment
	}
	if doc.StrictCommentPlacement != nil {
		opts.StrictCommentPlacement = *doc.StrictCommentPlacement
	}
	if doc.CTEOneline != nil {
		opts.CTEOneline = *doc.CTEOneline
	}
	if doc.CTEOnelineDependency != nil {
		opts.CTEOnelineDependency = *doc.CTEOnelineDependency
	}
	return opts, nil
}

func parseParamStyle(s string) (ParamStyle, error) {
	switch s {
	case "indexed":
		return ParamStyleIndexed, nil
	case "anonymous":
		return ParamStyleAnonymous, nil
	case "named":
		return ParamStyleNamed, nil
	default:
		return 0, &errs.FormatError{Message: "unknown parameterStyle: " + s}
	}
}

func parseKeywordCase(s string) (KeywordCase, error) {
	switch s {
	case "lower":
		return KeywordLower, nil
	case "upper":
		return KeywordUpper, nil
	case "none", "asWritten":
		return KeywordAsWritten, nil
	default:
		return 0, &errs.FormatError{Message: "unknown keywordCase: " + s}
	}
}

func parseBreakMode(s string) (BreakMode, error) {
	switch s {
	case "none":
		return BreakNone, nil
	case "before":
		return BreakBefore, nil
	case "after":
		return BreakAfter, nil
	default:
		return 0, &errs.FormatError{Message: "unknown break mode: " + s}
	}
}
