package format

import "strings"

// printer is the line-printer stage: it walks a PrintToken tree and
// produces text, deciding indentation and line breaks from Options.
// Stage 1 (lower.go) decides WHAT structure exists; the printer decides
// HOW that structure is laid out on lines.
type printer struct {
	opts     Options
	sb       strings.Builder
	pretty   bool
	justWrap bool // true right after a line break: suppress the leading separator
}

func newPrinter(opts Options) *printer {
	return &printer{opts: opts, pretty: opts.Newline != " " && opts.Newline != ""}
}

func (p *printer) print(root PrintToken) string {
	p.printToken(0, root)
	return p.sb.String()
}

func (p *printer) breakLine(level int) {
	p.sb.WriteString(p.opts.Newline)
	p.sb.WriteString(strings.Repeat(p.opts.IndentChar, maxInt(0, p.opts.IndentSize)*level))
	p.justWrap = true
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func (p *printer) writeRaw(text string) {
	p.sb.WriteString(text)
	p.justWrap = false
}

// beforeToken decides the separator placed before t, given the previous
// sibling token (or zero-value PrintToken when t is first in its
// sequence, in which case no separator is written at all).
func (p *printer) beforeToken(level int, hasPrev bool, prev, t PrintToken) {
	if !hasPrev || p.justWrap {
		return
	}
	switch {
	case t.NoSpaceBefore, prev.NoSpaceAfter:
		return
	case t.Kind == KindComma:
		if p.pretty && p.opts.CommaBreak == BreakBefore {
			p.breakLine(level)
		}
		return
	case prev.Kind == KindComma:
		if p.pretty && p.opts.CommaBreak == BreakAfter {
			p.breakLine(level)
			return
		}
		p.sb.WriteString(" ")
		p.justWrap = false
	case t.IsAndBreak && p.pretty && p.opts.AndBreak == BreakBefore:
		p.breakLine(level)
	case t.ForceNewline && p.pretty:
		p.breakLine(level)
	default:
		p.sb.WriteString(" ")
		p.justWrap = false
	}
}

func (p *printer) afterToken(level int, t PrintToken) {
	switch {
	case t.Kind == KindComma:
		if p.pretty && p.opts.CommaBreak == BreakAfter {
			p.breakLine(level)
		}
	case t.IsAndBreak:
		if p.pretty && p.opts.AndBreak == BreakAfter {
			p.breakLine(level)
		}
	}
}

// printSeq prints tokens as siblings at level, applying comma/and/
// force-newline break rules between them. prev, if hasPrev, is the
// token immediately preceding tokens[0] in the enclosing sequence (used
// when tokens is a sub-slice whose first separator still needs a
// predecessor to compare against).
func (p *printer) printSeq(level int, hasPrev bool, prev PrintToken, tokens []PrintToken) {
	for i, t := range tokens {
		if i == 0 {
			p.beforeToken(level, hasPrev, prev, t)
		} else {
			p.beforeToken(level, true, tokens[i-1], t)
		}
		p.printToken(level, t)
		p.afterToken(level, t)
	}
}

func (p *printer) printToken(level int, t PrintToken) {
	p.emitLeadingComments(level, t)
	if t.ForceOneline && p.pretty {
		saved := p.pretty
		p.pretty = false
		defer func() { p.pretty = saved }()
	}
	switch t.Kind {
	case KindContainer:
		p.printContainer(level, t)
	case KindKeyword:
		p.writeRaw(applyCase(t.Text, p.opts.KeywordCase))
	default:
		p.writeRaw(t.Text)
	}
}

func (p *printer) emitLeadingComments(level int, t PrintToken) {
	if !p.opts.ExportComment {
		return
	}
	for _, c := range t.Comments {
		if p.pretty {
			p.breakLine(level)
		} else if p.sb.Len() > 0 {
			p.sb.WriteString(" ")
		}
		p.sb.WriteString(c)
		p.justWrap = false
		if p.opts.StrictCommentPlacement && !p.pretty {
			p.sb.WriteString(" ")
		}
	}
}

// printContainer prints a container whose first child is a lead keyword
// phrase (or, for ContainerGeneric sequences with no lead semantics of
// their own, whatever their first child is) and whose remaining children
// are its body, indented one level deeper when the container is in the
// indent-incrementing set and pretty-print mode is active.
func (p *printer) printContainer(level int, c PrintToken) {
	if len(c.Children) == 0 {
		return
	}
	p.printToken(level, c.Children[0])
	if len(c.Children) == 1 {
		return
	}
	bodyLevel := level
	first := c.Children[1]
	switch {
	case first.NoSpaceBefore, c.Children[0].NoSpaceAfter:
		// tight attachment: no separator at all, no indent bump.
	case p.pretty && c.Container.indentIncrementing():
		p.breakLine(level + 1)
		bodyLevel = level + 1
	default:
		p.beforeToken(level, true, c.Children[0], first)
	}
	p.printToken(bodyLevel, first)
	p.afterToken(bodyLevel, first)
	p.printSeq(bodyLevel, true, first, c.Children[2:])
}

func applyCase(text string, kc KeywordCase) string {
	switch kc {
	case KeywordUpper:
		return strings.ToUpper(text)
	case KeywordLower, KeywordAsWritten:
		return strings.ToLower(text)
	default:
		return text
	}
}
