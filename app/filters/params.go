// Package filters turns whitelisted request parameters into query
// constraints for each listable model.
package filters

import (
	"net/http"

	"github.com/shashiranjanraj/bazar/pkg/bind"
)

// Trashed-state values accepted by the state parameter.
const (
	StateAll     = "all"
	StateTrashed = "trashed"
)

// Params are the request parameters a filter reads. Anything else in the
// query string is ignored. Facet fields are only read by the models that
// declare them.
type Params struct {
	Search    string `query:"search"`
	State     string `query:"state"`
	Exclude   []uint `query:"exclude"`
	SortBy    string `query:"sort[by]"`
	SortOrder string `query:"sort[order]" validate:"nullable,in=asc|desc|ASC|DESC"`

	Category uint   `query:"category"`
	Status   string `query:"status"`
	User     uint   `query:"user"`
	Type     string `query:"type"`
	Product  uint   `query:"product"`

	Page    int `query:"page" validate:"gte=0"`
	PerPage int `query:"per_page" validate:"gte=0"`
}

// FromRequest binds and validates the filter parameters of r. A non-nil
// map holds field validation failures.
func FromRequest(r *http.Request) (Params, map[string]string, error) {
	var p Params
	errs, err := bind.Query(r, &p)
	return p, errs, err
}
