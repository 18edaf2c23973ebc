package format

import (
	"testing"

	"github.com/mk3008/carbunqlex-go/ast"
	"github.com/mk3008/carbunqlex-go/parser"
)

var formatBenchQueries = map[string]string{
	"simple":    "select 1",
	"columns":   "select id, name, email, created_at from users",
	"where":     "select * from users where status = 'active' and age > 18",
	"join":      "select u.id, o.total from users u join orders o on u.id = o.user_id",
	"aggregate": "select status, count(*), avg(age) from users group by status having count(*) > 10",
	"cte": `with active_users as (
		select id, name from users where status = 'active'
	)
	select a.id, a.name
	from active_users a`,
}

func BenchmarkFormatByQuery(b *testing.B) {
	stmts := make(map[string]ast.Query, len(formatBenchQueries))
	for name, query := range formatBenchQueries {
		q, err := parser.New(query).ParseQuery()
		if err != nil {
			b.Fatalf("parse %s: %v", name, err)
		}
		stmts[name] = q
	}

	opts := DefaultOptions()
	for name, q := range stmts {
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_, _ = New(opts).Format(q)
			}
		})
	}
}

func BenchmarkRoundTrip(b *testing.B) {
	opts := DefaultOptions()
	for name, query := range formatBenchQueries {
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				q, _ := parser.New(query).ParseQuery()
				_, _ = New(opts).Format(q)
			}
		})
	}
}
