package orm

import "gorm.io/gorm"

// Relation describes how rows of a related model belong to a parent row,
// in the shape WhereHas needs to correlate an EXISTS subquery.
type Relation struct {
	// Model is the related model; its table and default scopes apply.
	Model interface{}
	// Join is an optional JOIN clause, e.g. through a pivot table.
	Join string
	// On correlates the related rows with the parent table.
	On   string
	Args []interface{}
}

// WhereHas keeps parent rows that have at least one related row matching
// the constraints added by fn. fn may be nil.
func (q *Query) WhereHas(rel Relation, fn func(*Query) *Query) *Query {
	return &Query{db: q.db.Where("EXISTS (?)", rel.subquery(q.db, fn))}
}

// WhereDoesntHave is the negation of WhereHas.
func (q *Query) WhereDoesntHave(rel Relation, fn func(*Query) *Query) *Query {
	return &Query{db: q.db.Where("NOT EXISTS (?)", rel.subquery(q.db, fn))}
}

func (r Relation) subquery(parent *gorm.DB, fn func(*Query) *Query) *gorm.DB {
	sub := parent.Session(&gorm.Session{NewDB: true}).Model(r.Model)
	if r.Join != "" {
		sub = sub.Joins(r.Join)
	}
	if r.On != "" {
		sub = sub.Where(r.On, r.Args...)
	}
	if fn != nil {
		sub = fn(&Query{db: sub}).db
	}
	return sub
}
