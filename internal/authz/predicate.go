package authz

import "gorm.io/gorm"

// Clause is one disjunct of a scope predicate: a SQL fragment with
// positional placeholders.
type Clause struct {
	Expr string
	Args []interface{}
}

// Predicate is a declarative row filter: the OR of its clauses, meant to be
// ANDed into any query over the resource it was built for. A predicate with
// no clauses matches nothing; absence of an explicit grant denies, it never
// widens into an unrestricted query.
type Predicate struct {
	Resource ResourceType
	Clauses  []Clause
}

// MatchNone returns a predicate that matches zero rows.
func MatchNone(resource ResourceType) Predicate {
	return Predicate{Resource: resource}
}

// Or appends a disjunct and returns the extended predicate.
func (p Predicate) Or(expr string, args ...interface{}) Predicate {
	p.Clauses = append(p.Clauses, Clause{Expr: expr, Args: args})
	return p
}

// IsMatchNone reports whether the predicate can never match a row.
func (p Predicate) IsMatchNone() bool {
	return len(p.Clauses) == 0
}

// Apply ANDs the predicate into the query. The clause group is wrapped so
// caller-side business filters compose conjunctively with it.
func (p Predicate) Apply(db *gorm.DB) *gorm.DB {
	if p.IsMatchNone() {
		return db.Where("1 = 0")
	}

	group := db.Session(&gorm.Session{NewDB: true}).Where(p.Clauses[0].Expr, p.Clauses[0].Args...)
	for _, c := range p.Clauses[1:] {
		group = group.Or(c.Expr, c.Args...)
	}
	return db.Where(group)
}
