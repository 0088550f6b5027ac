// Package paging holds the page/limit/sort parameters shared by every admin
// listing endpoint and the pagination block returned with each page.
package paging

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	// MaxPage keeps (Page-1)*Limit inside an int32 OFFSET.
	MaxPage = math.MaxInt32 / MaxLimit

	SortAsc  = "asc"
	SortDesc = "desc"

	DefaultSortBy = "createdAt"
)

type Params struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type Page[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// FromQuery reads page, limit, sortBy and sortOrder. Unparseable or out of
// range values fall back to the defaults.
func FromQuery(q url.Values) Params {
	p := Params{
		Page:      atoiOr(q.Get("page"), DefaultPage),
		Limit:     atoiOr(q.Get("limit"), DefaultLimit),
		SortBy:    q.Get("sortBy"),
		SortOrder: strings.ToLower(q.Get("sortOrder")),
	}
	return p.Normalize(nil)
}

// Normalize clamps page and limit and restricts SortBy to the allowed fields.
// A nil allow-list keeps SortBy as given (it is validated later by the store).
func (p Params) Normalize(allowedSort map[string]string) Params {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.SortOrder != SortAsc {
		p.SortOrder = SortDesc
	}
	if p.SortBy == "" {
		p.SortBy = DefaultSortBy
	}
	if allowedSort != nil {
		if _, ok := allowedSort[p.SortBy]; !ok {
			p.SortBy = DefaultSortBy
		}
	}
	return p
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Window returns the [start, end) slice bounds of the page within total items.
func (p Params) Window(total int) (int, int) {
	start := p.Offset()
	if start < 0 || start > total {
		start = total
	}
	end := start + p.Limit
	if end > total {
		end = total
	}
	return start, end
}

func NewPagination(p Params, total int) Pagination {
	return Pagination{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(p.Limit))),
	}
}

func NewPage[T any](p Params, data []T, total int) Page[T] {
	if data == nil {
		data = []T{}
	}
	return Page[T]{Data: data, Pagination: NewPagination(p, total)}
}

func atoiOr(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
