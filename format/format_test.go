package format

import (
	"strings"
	"testing"

	"github.com/mk3008/carbunqlex-go/ast"
	"github.com/mk3008/carbunqlex-go/errs"
	"github.com/mk3008/carbunqlex-go/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, sql string) ast.Query {
	t.Helper()
	p := parser.New(sql)
	q, err := p.ParseQuery()
	require.NoError(t, err)
	return q
}

func TestFormatDefaultOptions(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want string
	}{
		{"star", "select * from users", `select * from "users"`},
		{"function call stays tight", "select count(*) from users", `select count(*) from "users"`},
		{"qualified column with alias", "select u.id from users u", `select "u"."id" from "users" "u"`},
		{"where binary", "select id from users where id = 1", `select "id" from "users" where "id" = 1`},
		{"and chain", "select id from users where a = 1 and b = 2", `select "id" from "users" where "a" = 1 and "b" = 2`},
		{"order by with direction", "select id from users order by id desc", `select "id" from "users" order by "id" desc`},
		{"limit offset", "select id from users limit 10 offset 5", `select "id" from "users" limit 10 offset 5`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := mustParse(t, tt.sql)
			res, err := New(DefaultOptions()).Format(q)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.SQL)
		})
	}
}

func TestFormatIndexedParametersAreStableAcrossOccurrences(t *testing.T) {
	q := mustParse(t, "select id from users where a = $1 and b = $1 and c = $2")
	res, err := New(DefaultOptions()).Format(q)
	require.NoError(t, err)
	assert.Equal(t, `select "id" from "users" where "a" = $1 and "b" = $1 and "c" = $2`, res.SQL)
	params, ok := res.Params.([]Param)
	require.True(t, ok)
	assert.Len(t, params, 2)
}

func TestFormatAnonymousParametersNeverShareIdentity(t *testing.T) {
	opts := DefaultOptions()
	opts.ParameterSymbol = "?"
	opts.ParameterStyle = ParamStyleAnonymous
	q := mustParse(t, "select id from users where a = ? and b = ?")
	res, err := New(opts).Format(q)
	require.NoError(t, err)
	assert.Equal(t, `select "id" from "users" where "a" = ? and "b" = ?`, res.SQL)
	params, ok := res.Params.([]Param)
	require.True(t, ok)
	assert.Len(t, params, 2, "every anonymous occurrence gets its own identity")
}

func TestFormatKeywordCaseUpper(t *testing.T) {
	opts := DefaultOptions()
	opts.KeywordCase = KeywordUpper
	q := mustParse(t, "select id from users where id = 1")
	res, err := New(opts).Format(q)
	require.NoError(t, err)
	assert.Equal(t, `SELECT "id" FROM "users" WHERE "id" = 1`, res.SQL)
}

func TestFormatPrettyPrintIndentsClauses(t *testing.T) {
	opts := DefaultOptions()
	opts.Newline = "\n"
	opts.IndentChar = " "
	opts.IndentSize = 2
	q := mustParse(t, "select id, name from users where id = 1")
	res, err := New(opts).Format(q)
	require.NoError(t, err)
	want := "select\n  \"id\", \"name\"\nfrom\n  \"users\"\nwhere\n  \"id\" = 1"
	assert.Equal(t, want, res.SQL)
}

func TestFormatMySQLPresetUsesBacktickQuotingAndAnonymousParams(t *testing.T) {
	opts := presetDefaults[PresetMySQL]
	q := mustParse(t, "select id from users where id = ?")
	res, err := New(opts).Format(q)
	require.NoError(t, err)
	assert.Equal(t, "select `id` from `users` where `id` = ?", res.SQL)
}

func TestFormatRejectsNilQuery(t *testing.T) {
	_, err := New(DefaultOptions()).Format(nil)
	require.Error(t, err)
	var fe *errs.FormatError
	assert.ErrorAs(t, err, &fe)
}

func TestStringHelperMatchesFormat(t *testing.T) {
	q := mustParse(t, "select * from users")
	assert.Equal(t, `select * from "users"`, String(q))
}

func TestFormatCTEOnelineDependencyCollapsesLeavesNotDependencies(t *testing.T) {
	sql := `with base_users as (select id from users where active = true), ` +
		`enriched as (select b.id from base_users b) select * from enriched`
	opts := DefaultOptions()
	opts.Newline = "\n"
	opts.IndentChar = " "
	opts.IndentSize = 2
	opts.CTEOnelineDependency = true
	q := mustParse(t, sql)
	res, err := New(opts).Format(q)
	require.NoError(t, err)

	lines := strings.Split(res.SQL, "\n")
	var baseUsersLine, enrichedLine int = -1, -1
	for i, line := range lines {
		if strings.Contains(line, `"base_users" as`) {
			baseUsersLine = i
		}
		if strings.Contains(line, `"enriched" as`) {
			enrichedLine = i
		}
	}
	require.NotEqual(t, -1, baseUsersLine, "base_users CTE not found in output:\n%s", res.SQL)
	require.NotEqual(t, -1, enrichedLine, "enriched CTE not found in output:\n%s", res.SQL)

	// enriched is a leaf (nothing depends on it): collapsed to one line.
	assert.Contains(t, lines[enrichedLine], "select", "enriched should be a one-liner: %q", lines[enrichedLine])
	assert.Contains(t, lines[enrichedLine], ")", "enriched should close its body on the same line: %q", lines[enrichedLine])

	// base_users is depended on by enriched: stays expanded across lines.
	assert.NotContains(t, lines[baseUsersLine], "from", "base_users should stay multi-line: %q", lines[baseUsersLine])
}
