// Package resources shapes the shop's models for the JSON API.
package resources

import (
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/bazar/app/contracts"
	"github.com/shashiranjanraj/bazar/app/models"
	"github.com/shashiranjanraj/bazar/pkg/resource"
)

func money(d decimal.Decimal) string { return d.StringFixed(2) }

func timestamps(m models.Model) resource.Map {
	return resource.Map{
		"created_at": m.CreatedAt.UTC().Format(time.RFC3339),
		"updated_at": m.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func net(total, discount decimal.Decimal) decimal.Decimal {
	if n := total.Sub(discount); n.IsPositive() {
		return n
	}
	return decimal.Zero
}

// Product includes the discount the registry grants on the product's price.
func Product(discounts contracts.DiscountRepository) resource.Transformer[models.Product] {
	return func(p models.Product) resource.Map {
		discount := discounts.Calculate(p)
		return resource.Merge(resource.Map{
			"id":          p.ID,
			"name":        p.Name,
			"slug":        p.Slug,
			"description": p.Description,
			"price":       money(p.Price),
			"discount":    money(discount),
			"net_price":   money(net(p.Price, discount)),
			"inventory":   p.Inventory,
			"categories":  resource.Collection(p.Categories, Category),
			"trashed":     p.Trashed(),
		}, timestamps(p.Model))
	}
}

func Variant(v models.Variant) resource.Map {
	return resource.Merge(resource.Map{
		"id":         v.ID,
		"product_id": v.ProductID,
		"alias":      v.Alias,
		"price":      money(v.Total()),
		"option":     lo.Ternary(v.Option == nil, map[string]string{}, v.Option),
		"inventory":  v.Inventory,
		"trashed":    v.Trashed(),
	}, timestamps(v.Model))
}

func Category(c models.Category) resource.Map {
	return resource.Merge(resource.Map{
		"id":          c.ID,
		"name":        c.Name,
		"slug":        c.Slug,
		"description": c.Description,
	}, timestamps(c.Model))
}

// Order carries the stored discount and the totals derived from it.
func Order(o models.Order) resource.Map {
	return resource.Merge(resource.Map{
		"id":        o.ID,
		"token":     o.Token,
		"status":    o.Status,
		"currency":  o.Currency,
		"total":     money(o.Total()),
		"tax":       money(o.Tax()),
		"discount":  money(o.Discount),
		"net_total": money(o.NetTotal()),
		"items":     resource.Collection(o.Items, Item),
		"shipping":  resource.Optional(o.Shipping, Shipping),
		"address":   resource.Optional(o.Address, Address),
		"user":      resource.Optional(o.User, User),
		"trashed":   o.Trashed(),
	}, timestamps(o.Model))
}

func Item(i models.Item) resource.Map {
	return resource.Map{
		"id":         i.ID,
		"product_id": i.ProductID,
		"variant_id": i.VariantID,
		"name":       i.Name,
		"price":      money(i.Price),
		"tax":        money(i.Tax),
		"quantity":   i.Quantity,
		"total":      money(i.Total()),
	}
}

func Shipping(s models.Shipping) resource.Map {
	return resource.Map{
		"driver": s.Driver,
		"cost":   money(s.Cost),
		"tax":    money(s.Tax),
		"total":  money(s.Total()),
	}
}

func Address(a models.Address) resource.Map {
	return resource.Map{
		"id":                a.ID,
		"alias":             a.Alias,
		"name":              a.Name(),
		"first_name":        a.FirstName,
		"last_name":         a.LastName,
		"company":           a.Company,
		"country":           a.Country,
		"state":             a.State,
		"city":              a.City,
		"postcode":          a.Postcode,
		"address":           a.Address,
		"address_secondary": a.AddressSecondary,
		"email":             a.Email,
		"phone":             a.Phone,
		"default":           a.Default,
	}
}

// User never exposes the password hash.
func User(u models.User) resource.Map {
	return resource.Merge(resource.Map{
		"id":      u.ID,
		"name":    u.Name,
		"email":   u.Email,
		"trashed": u.Trashed(),
	}, timestamps(u.Model))
}

// Medium adds the public URL of the stored file.
func Medium(url func(models.Medium) string) resource.Transformer[models.Medium] {
	return func(m models.Medium) resource.Map {
		return resource.Merge(resource.Map{
			"id":        m.ID,
			"name":      m.Name,
			"file_name": m.FileName,
			"mime_type": m.MimeType,
			"type":      m.Type(),
			"is_image":  m.IsImage(),
			"size":      m.Size,
			"disk":      m.Disk,
			"url":       url(m),
			"width":     m.Width,
			"height":    m.Height,
		}, timestamps(m.Model))
	}
}
