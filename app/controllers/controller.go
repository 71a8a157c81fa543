// Package controllers holds the HTTP handlers of the shop's JSON API.
package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/bazar/app/filters"
	"github.com/shashiranjanraj/bazar/app/repositories"
	"github.com/shashiranjanraj/bazar/pkg/ctx"
	"github.com/shashiranjanraj/bazar/pkg/resource"
	"github.com/shashiranjanraj/bazar/pkg/validate"
)

// params reads the filter parameters, answering 400 or 422 when they are
// unusable.
func params(c *ctx.Context) (filters.Params, bool) {
	p, errs, err := filters.FromRequest(c.R)
	if err != nil {
		c.Error(http.StatusBadRequest, err.Error())
		return p, false
	}
	if validate.HasErrors(errs) {
		c.ValidationError(errs)
		return p, false
	}
	return p, true
}

// index answers one filtered page of repo.
func index[T any](c *ctx.Context, repo *repositories.Repository[T], fn resource.Transformer[T]) {
	p, ok := params(c)
	if !ok {
		return
	}
	items, page, err := repo.List(c.Context(), p)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Paginated(resource.Collection(items, fn), page)
}

// show answers the row named by the {id} route parameter.
func show[T any](c *ctx.Context, repo *repositories.Repository[T], fn resource.Transformer[T]) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.NotFound()
		return
	}
	item, err := repo.Find(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(resource.Item(item, fn))
}
