package paging_test

import (
	"math"
	"net/url"
	"testing"

	"github.com/jrsteele09/storefront-server/internal/paging"
	"github.com/stretchr/testify/require"
)

func TestFromQuery_Defaults(t *testing.T) {
	p := paging.FromQuery(url.Values{})
	require.Equal(t, 1, p.Page)
	require.Equal(t, 10, p.Limit)
	require.Equal(t, "createdAt", p.SortBy)
	require.Equal(t, "desc", p.SortOrder)
}

func TestFromQuery_ClampsValues(t *testing.T) {
	p := paging.FromQuery(url.Values{"page": {"-3"}, "limit": {"1000"}, "sortOrder": {"ASC"}})
	require.Equal(t, 1, p.Page)
	require.Equal(t, paging.MaxLimit, p.Limit)
	require.Equal(t, "asc", p.SortOrder)
}

func TestNormalize_RejectsUnknownSortField(t *testing.T) {
	p := paging.Params{SortBy: "password_hash; drop table"}.Normalize(map[string]string{"createdAt": "created_at"})
	require.Equal(t, "createdAt", p.SortBy)
}

func TestNewPagination_TotalPages(t *testing.T) {
	p := paging.Params{Page: 2, Limit: 10}
	require.Equal(t, 3, paging.NewPagination(p, 21).TotalPages)
	require.Equal(t, 0, paging.NewPagination(p, 0).TotalPages)
	require.Equal(t, 1, paging.NewPagination(p, 10).TotalPages)
}

func TestWindow(t *testing.T) {
	p := paging.Params{Page: 3, Limit: 4}
	start, end := p.Window(10)
	require.Equal(t, 8, start)
	require.Equal(t, 10, end)

	start, end = paging.Params{Page: 5, Limit: 4}.Window(10)
	require.Equal(t, 10, start)
	require.Equal(t, 10, end)
}

func TestFromQuery_ClampsHugePage(t *testing.T) {
	p := paging.FromQuery(url.Values{"page": {"9223372036854775807"}, "limit": {"100"}})
	require.Equal(t, paging.MaxPage, p.Page)
	require.GreaterOrEqual(t, p.Offset(), 0)
	require.LessOrEqual(t, p.Offset(), math.MaxInt32)

	start, end := p.Window(25)
	require.Equal(t, 25, start)
	require.Equal(t, 25, end)
}

func TestWindow_OverflowedOffsetIsEmpty(t *testing.T) {
	start, end := paging.Params{Page: math.MaxInt, Limit: 10}.Window(7)
	require.Equal(t, 7, start)
	require.Equal(t, 7, end)
}
