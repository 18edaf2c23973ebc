package format

// Kind classifies a PrintToken's role in the output stream.
type Kind int

const (
	KindKeyword Kind = iota
	KindIdentifier
	KindLiteral
	KindOperator
	KindComma
	KindParameter
	KindComment
	KindContainer
)

// ContainerKind tags a structural PrintToken with the grammar production it
// lowers from. The printer uses it to decide indentation: a container in
// the indent-incrementing set opens its body on a new line one level
// deeper than its own keyword, in pretty-print mode.
type ContainerKind int

const (
	ContainerNone ContainerKind = iota
	ContainerSelectClause
	ContainerFromClause
	ContainerWhereClause
	ContainerGroupByClause
	ContainerHavingClause
	ContainerOrderByClause
	ContainerWindowClause
	ContainerLimitClause
	ContainerOffsetClause
	ContainerForClause
	ContainerWithClause
	ContainerValues
	ContainerBinarySelect
	ContainerSubQuerySource
	ContainerCase
	ContainerGeneric // plain grouping with no indent semantics of its own
)

func (k ContainerKind) indentIncrementing() bool {
	switch k {
	case ContainerSelectClause, ContainerFromClause, ContainerWhereClause,
		ContainerGroupByClause, ContainerHavingClause, ContainerOrderByClause,
		ContainerWindowClause, ContainerLimitClause, ContainerOffsetClause,
		ContainerWithClause, ContainerBinarySelect, ContainerValues,
		ContainerSubQuerySource, ContainerCase:
		return true
	default:
		return false
	}
}

// PrintToken is the intermediate node between an AST and formatted text.
// A leaf token (keyword/identifier/literal/operator/comma/parameter/
// comment) carries Text; a container carries no text of its own and
// structures its Children for the line printer.
//
// NoSpaceBefore suppresses the separator the printer would otherwise
// place before this token (closing punctuation, the token right after a
// dot, ...). ForceNewline marks a token that always
// starts a fresh line in pretty-print mode regardless of comma/AND break
// settings — a clause keyword following the first clause of a query, a
// JOIN entry, a CASE sub-keyword, a set-operator keyword. IsAndBreak marks
// the AND operator token of a Binary so the printer can apply andBreak.
type PrintToken struct {
	Kind          Kind
	Text          string
	Container     ContainerKind
	Children      []PrintToken
	NoSpaceBefore bool
	NoSpaceAfter  bool // suppress the separator the printer would place after this token (an opening paren/bracket)
	ForceNewline  bool
	IsAndBreak    bool
	ForceOneline  bool // print this subtree space-joined regardless of Options.Newline
	Comments      []string
}

func kw(text string) PrintToken    { return PrintToken{Kind: KindKeyword, Text: text} }
func ident(text string) PrintToken { return PrintToken{Kind: KindIdentifier, Text: text} }
func lit(text string) PrintToken   { return PrintToken{Kind: KindLiteral, Text: text} }
func op(text string) PrintToken    { return PrintToken{Kind: KindOperator, Text: text} }
func param(text string) PrintToken { return PrintToken{Kind: KindParameter, Text: text} }

func tight(t PrintToken) PrintToken {
	t.NoSpaceBefore = true
	return t
}

// openDelim builds an opening paren/bracket token: tight against whatever
// precedes it (a function name, a keyword) and against whatever follows it
// inside the group, since neither boundary ever takes a separator.
func openDelim(text string) PrintToken {
	return PrintToken{Kind: KindOperator, Text: text, NoSpaceBefore: true, NoSpaceAfter: true}
}

func commaTok() PrintToken { return PrintToken{Kind: KindComma, Text: ","} }

func container(k ContainerKind, children ...PrintToken) PrintToken {
	return PrintToken{Kind: KindContainer, Container: k, Children: children}
}

// join glues tokens with a comma between each. The commas are ordinary
// KindComma tokens, so the printer applies CommaBreak to them as to any
// other comma.
func join(tokens ...PrintToken) []PrintToken {
	if len(tokens) == 0 {
		return nil
	}
	out := make([]PrintToken, 0, len(tokens)*2-1)
	for i, t := range tokens {
		if i > 0 {
			out = append(out, commaTok())
		}
		out = append(out, t)
	}
	return out
}
