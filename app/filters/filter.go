package filters

import (
	"strings"

	"github.com/samber/lo"

	"github.com/shashiranjanraj/bazar/pkg/metrics"
	"github.com/shashiranjanraj/bazar/pkg/orm"
)

// Definition declares how one model is filtered.
type Definition struct {
	// Name labels the model in metrics, e.g. "product".
	Name  string
	Table string
	// SoftDeletes enables the state parameter.
	SoftDeletes bool
	// Search receives the prefix pattern ("term%"); nil disables searching.
	Search   func(q *orm.Query, like string) *orm.Query
	Sortable []string
	Facets   []Facet
}

// Facet is a model-specific parameter.
type Facet struct {
	Param string
	Set   func(p Params) bool
	Apply func(q *orm.Query, p Params) *orm.Query
}

// Apply layers the constraints selected by p onto q, always in the order
// search, state, exclude, sort, then the facets as declared.
func (d Definition) Apply(q *orm.Query, p Params) *orm.Query {
	if term := strings.TrimSpace(p.Search); term != "" && d.Search != nil {
		q = d.Search(q, term+"%")
		d.observe("search")
	}

	if d.SoftDeletes {
		switch p.State {
		case StateAll:
			q = q.WithTrashed()
			d.observe("state")
		case StateTrashed:
			q = q.OnlyTrashed(d.Table)
			d.observe("state")
		}
	}

	if ids := lo.Uniq(p.Exclude); len(ids) > 0 {
		q = q.WhereNotIn(d.Column("id"), ids)
		d.observe("exclude")
	}

	if d.Sorts(p.SortBy) {
		q = q.OrderBy(d.Column(p.SortBy), p.SortOrder)
		d.observe("sort")
	}

	for _, f := range d.Facets {
		if f.Set(p) {
			q = f.Apply(q, p)
			d.observe(f.Param)
		}
	}
	return q
}

// Column qualifies column with the model's table.
func (d Definition) Column(column string) string {
	return d.Table + "." + column
}

// Sorts reports whether column is whitelisted for sorting.
func (d Definition) Sorts(column string) bool {
	return column != "" && lo.Contains(d.Sortable, column)
}

func (d Definition) observe(param string) {
	metrics.FilterApplications.WithLabelValues(d.Name, param).Inc()
}

// like builds a search over one column.
func like(column string) func(*orm.Query, string) *orm.Query {
	return func(q *orm.Query, pattern string) *orm.Query {
		return q.Where(column+" LIKE ?", pattern)
	}
}

// likeAny builds a search matching any of columns, as one group.
func likeAny(columns ...string) func(*orm.Query, string) *orm.Query {
	return func(q *orm.Query, pattern string) *orm.Query {
		return q.WhereGroup(func(g *orm.Query) *orm.Query {
			for i, c := range columns {
				if i == 0 {
					g = g.Where(c+" LIKE ?", pattern)
				} else {
					g = g.OrWhere(c+" LIKE ?", pattern)
				}
			}
			return g
		})
	}
}
