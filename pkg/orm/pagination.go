package orm

import (
	"context"
	"math"

	"gorm.io/gorm"
)

// Pagination is the page metadata returned next to a page of rows.
type Pagination struct {
	Total       int64 `json:"total"`
	PerPage     int   `json:"per_page"`
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
	From        int   `json:"from"`
	To          int   `json:"to"`
}

// Paginate counts the matching rows and loads page (1-based) into dest.
func (q *Query) Paginate(ctx context.Context, dest interface{}, page, perPage int) (Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 15
	}

	var total int64
	counter := q.db.Session(&gorm.Session{Context: ctx})
	counter.Statement.Preloads = nil
	if err := counter.Count(&total).Error; err != nil {
		return Pagination{}, err
	}

	offset := (page - 1) * perPage
	res := q.db.Session(&gorm.Session{Context: ctx}).Offset(offset).Limit(perPage).Find(dest)
	if res.Error != nil {
		return Pagination{}, res.Error
	}

	p := Pagination{
		Total:       total,
		PerPage:     perPage,
		CurrentPage: page,
		LastPage:    int(math.Max(1, math.Ceil(float64(total)/float64(perPage)))),
	}
	if res.RowsAffected > 0 {
		p.From = offset + 1
		p.To = offset + int(res.RowsAffected)
	}
	return p, nil
}
