package parser

import "testing"

var benchQueries = map[string]string{
	"simple":    "select 1",
	"columns":   "select id, name, email, created_at from users",
	"where":     "select * from users where status = 'active' and age > 18",
	"join":      "select u.id, o.total from users u join orders o on u.id = o.user_id",
	"subquery":  "select * from users where id in (select user_id from orders where total > 100)",
	"aggregate": "select status, count(*), avg(age) from users group by status having count(*) > 10",
	"window":    "select id, row_number() over (partition by status order by created_at desc) as rn from users",
	"cte": `with active_users as (
		select id, name from users where status = 'active'
	), user_orders as (
		select user_id, count(*) as cnt from orders group by user_id
	)
	select a.id, a.name, coalesce(o.cnt, 0) as orders
	from active_users a
	left join user_orders o on a.id = o.user_id`,
	"union_complex": `select id, name, 'user' as type from users where active = true
		union all
		select id, title, 'product' as type from products where in_stock = true
		order by type, name
		limit 100`,
	"recursive_cte": `with recursive subordinates as (
			select id, name, manager_id, 1 as level
			from employees
			where manager_id is null
			union all
			select e.id, e.name, e.manager_id, s.level + 1
			from employees e
			inner join subordinates s on e.manager_id = s.id
		)
		select * from subordinates order by level, name`,
}

func BenchmarkParseByQuery(b *testing.B) {
	for name, query := range benchQueries {
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_, _ = New(query).ParseQuery()
			}
		})
	}
}

func BenchmarkParseWithRelease(b *testing.B) {
	query := benchQueries["cte"]
	for i := 0; i < 100; i++ {
		p := Get(query)
		_, _ = p.ParseQuery()
		Put(p)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p := Get(query)
		_, _ = p.ParseQuery()
		Put(p)
	}
}

func BenchmarkParseWithoutRelease(b *testing.B) {
	query := benchQueries["cte"]
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = New(query).ParseQuery()
	}
}
