package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromQuery(t *testing.T) {
	p := FromQuery("3", "10")
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 10, p.PerPage)
	assert.Equal(t, 20, p.Offset())

	p = FromQuery("-1", "500")
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, maxPerPage, p.PerPage)

	p = FromQuery("", "abc")
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, defaultPerPage, p.PerPage)
}

func TestNewPagination(t *testing.T) {
	pag := NewPagination(2, 25, 60)
	assert.Equal(t, 3, pag.TotalPages)
	assert.True(t, pag.HasNext)
	assert.True(t, pag.HasPrev)

	pag = NewPagination(1, 25, 0)
	assert.Equal(t, 0, pag.TotalPages)
	assert.False(t, pag.HasNext)
	assert.False(t, pag.HasPrev)
}

func TestNewPaginatedResultNeverNil(t *testing.T) {
	res := NewPaginatedResult[int](nil, NewPagination(1, 25, 0))
	assert.NotNil(t, res.Items)
	assert.Empty(t, res.Items)
}
