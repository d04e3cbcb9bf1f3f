package response

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 20, 45)

	assert.Equal(t, int64(3), p.TotalPages)
	assert.True(t, p.HasMore)
	assert.Equal(t, 21, p.From)
	assert.Equal(t, 40, p.To)

	last := NewPagination(3, 20, 45)
	assert.False(t, last.HasMore)
	assert.Equal(t, 41, last.From)
	assert.Equal(t, 45, last.To)
}

func TestNewPaginationEmpty(t *testing.T) {
	p := NewPagination(1, 20, 0)

	assert.Equal(t, int64(0), p.TotalPages)
	assert.False(t, p.HasMore)
	assert.Equal(t, 0, p.From)
	assert.Equal(t, 0, p.To)
}
