package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateOffsetLimit(t *testing.T) {
	t.Run("Should compute the offset from a 1-based page", func(t *testing.T) {
		offset, limit := CalculateOffsetLimit(3, 20)
		assert.Equal(t, uint64(40), offset)
		assert.Equal(t, 20, limit)
	})

	t.Run("Should default an invalid size", func(t *testing.T) {
		_, limit := CalculateOffsetLimit(1, 0)
		assert.Equal(t, DefaultPageSize, limit)

		_, limit = CalculateOffsetLimit(1, MaxPageSize+1)
		assert.Equal(t, DefaultPageSize, limit)
	})

	t.Run("Should clamp an invalid page to the first", func(t *testing.T) {
		offset, _ := CalculateOffsetLimit(0, 10)
		assert.Equal(t, uint64(0), offset)

		offset, _ = CalculateOffsetLimit(-5, 10)
		assert.Equal(t, uint64(0), offset)
	})
}

func TestNewPaginationInfo(t *testing.T) {
	t.Run("Should round total pages up", func(t *testing.T) {
		info := NewPaginationInfo(21, 1, 10)
		assert.Equal(t, 3, info.TotalPages)
		assert.Equal(t, int64(21), info.TotalItems)
	})

	t.Run("Should count an empty first page as one page", func(t *testing.T) {
		info := NewPaginationInfo(0, 1, 10)
		assert.Equal(t, 1, info.TotalPages)
		assert.Equal(t, 1, info.CurrentPage)
	})

	t.Run("Should clamp the current page to the last page", func(t *testing.T) {
		info := NewPaginationInfo(15, 9, 10)
		assert.Equal(t, 2, info.TotalPages)
		assert.Equal(t, 2, info.CurrentPage)
	})
}
