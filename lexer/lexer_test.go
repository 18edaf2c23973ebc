package lexer

import (
	"testing"

	"github.com/mk3008/carbunqlex-go/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lexAll(t *testing.T, sql string) []token.Item {
	t.Helper()
	l := New(sql)
	var items []token.Item
	for {
		it := l.Next()
		items = append(items, it)
		if it.Type == token.EOF {
			break
		}
	}
	return items
}

func TestScanIdentifiersAndKeywords(t *testing.T) {
	items := lexAll(t, "select id from users")
	require.Len(t, items, 5) // select, id, from, users, EOF
	assert.Equal(t, token.SELECT, items[0].Type)
	assert.Equal(t, token.IDENT, items[1].Type)
	assert.Equal(t, "id", items[1].Value)
	assert.Equal(t, token.FROM, items[2].Type)
	assert.Equal(t, token.IDENT, items[3].Type)
}

func TestScanQuotedIdentifierUnescapesDoubledQuote(t *testing.T) {
	items := lexAll(t, `"a""b"`)
	require.NotEmpty(t, items)
	assert.Equal(t, token.IDENT, items[0].Type)
	assert.Equal(t, `a"b`, items[0].Value)
}

func TestScanBacktickIdentifier(t *testing.T) {
	items := lexAll(t, "`my col`")
	require.NotEmpty(t, items)
	assert.Equal(t, token.IDENT, items[0].Type)
	assert.Equal(t, "my col", items[0].Value)
}

func TestScanBracketDistinguishesIdentifierFromSubscript(t *testing.T) {
	idents := lexAll(t, "[my col]")
	assert.Equal(t, token.IDENT, idents[0].Type)

	subscript := lexAll(t, "[1]")
	assert.Equal(t, token.LBRACKET, subscript[0].Type)
}

func TestScanStringInterpretsEscapesAndDoubledQuotes(t *testing.T) {
	items := lexAll(t, `'it''s \n ok'`)
	require.NotEmpty(t, items)
	assert.Equal(t, token.STRING, items[0].Type)
	assert.Equal(t, "it's \n ok", items[0].Value)
}

func TestScanDollarQuotedString(t *testing.T) {
	items := lexAll(t, "$tag$hello 'world'$tag$")
	require.NotEmpty(t, items)
	assert.Equal(t, token.STRING, items[0].Type)
	assert.Equal(t, "hello 'world'", items[0].Value)
}

func TestScanPositionalAndNamedParameters(t *testing.T) {
	items := lexAll(t, "$1 :name ?")
	require.Len(t, items, 4)
	assert.Equal(t, token.PARAM, items[0].Type)
	assert.Equal(t, "$1", items[0].Value)
	assert.Equal(t, token.PARAM, items[1].Type)
	assert.Equal(t, ":name", items[1].Value)
	assert.Equal(t, token.PARAM, items[2].Type)
	assert.Equal(t, "?", items[2].Value)
}

func TestScanMultiCharOperators(t *testing.T) {
	cases := map[string]token.Token{
		"<=":  token.LTE,
		">=":  token.GTE,
		"<>":  token.NEQ,
		"!=":  token.NEQ,
		"||":  token.CONCAT,
		"->":  token.ARROW,
		"->>": token.DARROW,
		"#>":  token.HASHGT,
		"#>>": token.HASHDGT,
		"::":  token.DCOLON,
	}
	for text, want := range cases {
		items := lexAll(t, text)
		require.NotEmptyf(t, items, "scanning %q", text)
		assert.Equalf(t, want, items[0].Type, "scanning %q", text)
	}
}

func TestScanBareHashIsBitwiseXorOperator(t *testing.T) {
	items := lexAll(t, "a # b")
	require.Len(t, items, 4)
	assert.Equal(t, token.IDENT, items[0].Type)
	assert.Equal(t, token.HASHOP, items[1].Type)
	assert.Equal(t, "#", items[1].Value)
	assert.Equal(t, token.IDENT, items[2].Type)
}

func TestScanDoubleHashWithoutIdentIsComment(t *testing.T) {
	items := lexAll(t, "select 1 ## ignored")
	require.NotEmpty(t, items)
	assert.Equal(t, token.SELECT, items[0].Type)
}

func TestLineCommentIsAttachedToFollowingLexeme(t *testing.T) {
	items := lexAll(t, "-- comment\nselect 1")
	require.NotEmpty(t, items)
	assert.Equal(t, token.SELECT, items[0].Type)
	assert.Equal(t, []string{"-- comment"}, items[0].Comments)
}

func TestBlockCommentIsAttachedToFollowingLexeme(t *testing.T) {
	items := lexAll(t, "/* c1 */ /* c2 */ select 1")
	require.NotEmpty(t, items)
	assert.Equal(t, token.SELECT, items[0].Type)
	assert.Equal(t, []string{"/* c1 */", "/* c2 */"}, items[0].Comments)
}

func TestMultiWordPhraseFusion(t *testing.T) {
	items := lexAll(t, "group by x")
	require.GreaterOrEqual(t, len(items), 1)
	assert.Equal(t, token.GROUP_BY, items[0].Type)
	assert.Equal(t, "group by", items[0].Value)
}

func TestPhraseFusionBacktracksOnMismatch(t *testing.T) {
	items := lexAll(t, "group zzz")
	require.GreaterOrEqual(t, len(items), 2)
	assert.Equal(t, token.GROUP, items[0].Type)
	assert.Equal(t, token.IDENT, items[1].Type)
	assert.Equal(t, "zzz", items[1].Value)
}

func TestIllegalCharacterIsReported(t *testing.T) {
	items := lexAll(t, "select \x00")
	require.NotEmpty(t, items)
	var sawIllegal bool
	for _, it := range items {
		if it.Type == token.ILLEGAL {
			sawIllegal = true
		}
	}
	assert.True(t, sawIllegal)
}

func TestPeekDoesNotConsume(t *testing.T) {
	l := New("select id")
	first := l.Peek()
	assert.Equal(t, token.SELECT, first.Type)
	assert.Equal(t, token.SELECT, l.Next().Type)
	assert.Equal(t, token.IDENT, l.Next().Type)
}

func TestPeekNLooksAhead(t *testing.T) {
	l := New("select id from users")
	assert.Equal(t, token.FROM, l.PeekN(2).Type)
	assert.Equal(t, token.SELECT, l.Next().Type) // PeekN must not consume
}

func TestGetPutPoolRoundTrip(t *testing.T) {
	l := Get("select 1")
	assert.Equal(t, token.SELECT, l.Next().Type)
	Put(l)

	l2 := Get("select 2")
	assert.Equal(t, token.SELECT, l2.Next().Type)
	lit := l2.Next()
	assert.Equal(t, "2", lit.Value)
	Put(l2)
}
