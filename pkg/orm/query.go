// Package orm is a small Eloquent-flavoured query builder over gorm.
//
// A Query follows gorm's chaining rules: methods extend the statement they
// are called on, so start every independent statement from New or DB.
//
//	var products []models.Product
//	err := orm.New(db).Model(&models.Product{}).
//	    Where("bazar_products.name LIKE ?", "shoe%").
//	    OrderBy("bazar_products.created_at", "desc").
//	    Get(ctx, &products)
package orm

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/bazar/pkg/cache"
)

// ErrRecordNotFound is returned by Find when no row matches.
var ErrRecordNotFound = gorm.ErrRecordNotFound

type Query struct {
	db *gorm.DB
}

// New starts a query on db.
func New(db *gorm.DB) *Query {
	return &Query{db: db}
}

func (q *Query) Model(v interface{}) *Query {
	return &Query{db: q.db.Model(v)}
}

func (q *Query) Where(query interface{}, args ...interface{}) *Query {
	return &Query{db: q.db.Where(query, args...)}
}

func (q *Query) OrWhere(query interface{}, args ...interface{}) *Query {
	return &Query{db: q.db.Or(query, args...)}
}

// WhereGroup adds the conditions built by fn as one parenthesised group.
//
//	q.WhereGroup(func(g *orm.Query) *orm.Query {
//	    return g.Where("name LIKE ?", t).OrWhere("email LIKE ?", t)
//	})
func (q *Query) WhereGroup(fn func(*Query) *Query) *Query {
	group := fn(&Query{db: q.db.Session(&gorm.Session{NewDB: true})})
	return &Query{db: q.db.Where(group.db)}
}

func (q *Query) WhereIn(column string, values interface{}) *Query {
	return &Query{db: q.db.Where(column+" IN ?", values)}
}

func (q *Query) WhereNotIn(column string, values interface{}) *Query {
	return &Query{db: q.db.Where(column+" NOT IN ?", values)}
}

// WithTrashed lifts the soft-delete scope.
func (q *Query) WithTrashed() *Query {
	return &Query{db: q.db.Unscoped()}
}

// OnlyTrashed keeps only soft-deleted rows of table.
func (q *Query) OnlyTrashed(table string) *Query {
	return &Query{db: q.db.Unscoped().Where(qualify(table, "deleted_at") + " IS NOT NULL")}
}

// OrderBy sorts by column; direction is "asc" unless it equals "desc".
func (q *Query) OrderBy(column, direction string) *Query {
	return &Query{db: q.db.Order(clause.OrderByColumn{
		Column: clause.Column{Name: column},
		Desc:   strings.EqualFold(direction, "desc"),
	})}
}

func (q *Query) Preload(relation string, args ...interface{}) *Query {
	return &Query{db: q.db.Preload(relation, args...)}
}

// Get loads every matching row into dest.
func (q *Query) Get(ctx context.Context, dest interface{}) error {
	return q.db.WithContext(ctx).Find(dest).Error
}

// Find loads the row with primary key id into dest.
func (q *Query) Find(ctx context.Context, dest interface{}, id interface{}) error {
	return q.db.WithContext(ctx).First(dest, id).Error
}

// Pluck loads a single column of the matching rows into dest.
func (q *Query) Pluck(ctx context.Context, column string, dest interface{}) error {
	return q.db.WithContext(ctx).Pluck(column, dest).Error
}

func (q *Query) Create(ctx context.Context, value interface{}) error {
	return q.db.WithContext(ctx).Create(value).Error
}

// Update sets column on the rows matched by the query.
func (q *Query) Update(ctx context.Context, column string, value interface{}) error {
	return q.db.WithContext(ctx).Update(column, value).Error
}

func (q *Query) Delete(ctx context.Context, value interface{}) error {
	return q.db.WithContext(ctx).Delete(value).Error
}

// Cache serves dest from the cache under key, querying on a miss.
func (q *Query) Cache(ctx context.Context, key string, ttl time.Duration, dest interface{}) error {
	return cache.Remember(ctx, key, ttl, dest, func() error {
		return q.Get(ctx, dest)
	})
}

// ToSQL renders the SELECT the query would run against dest, with bound
// values inlined. Nothing is executed.
func (q *Query) ToSQL(dest interface{}) string {
	stmt := q.db.Session(&gorm.Session{DryRun: true}).Find(dest).Statement
	return q.db.Dialector.Explain(stmt.SQL.String(), stmt.Vars...)
}

func qualify(table, column string) string {
	if table == "" {
		return column
	}
	return table + "." + column
}
