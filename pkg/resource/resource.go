// Package resource shapes models into API output.
//
//	func Product(p models.Product) resource.Map {
//	    return resource.Map{"id": p.ID, "name": p.Name}
//	}
//
//	c.Paginated(resource.Collection(products, Product), page)
package resource

import (
	"github.com/samber/lo"
)

// Map is the JSON object a transformer produces.
type Map = map[string]interface{}

// Transformer converts one model into its API shape.
type Transformer[T any] func(T) Map

// Item transforms a single model.
func Item[T any](v T, fn Transformer[T]) Map {
	return fn(v)
}

// Collection transforms every element of items. It never returns nil, so an
// empty page encodes as [].
func Collection[T any](items []T, fn Transformer[T]) []Map {
	if len(items) == 0 {
		return []Map{}
	}
	return lo.Map(items, func(v T, _ int) Map { return fn(v) })
}

// Optional transforms v when it is non-nil and returns nil otherwise.
func Optional[T any](v *T, fn Transformer[T]) interface{} {
	if v == nil {
		return nil
	}
	return fn(*v)
}

// Merge copies extra into m, overwriting existing keys.
func Merge(m Map, extra Map) Map {
	for k, v := range extra {
		m[k] = v
	}
	return m
}
