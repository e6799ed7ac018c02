package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPaginationInfo_RoundsPagesUp(t *testing.T) {
	info := NewPaginationInfo(17, 1, 8)

	assert.Equal(t, 3, info.TotalPages)
	assert.Equal(t, 17, info.TotalCount)
	assert.Equal(t, 8, info.Limit)
	assert.True(t, info.HasNextPage)
	assert.False(t, info.HasPrevPage)
}

func TestNewPaginationInfo_ExactDivision(t *testing.T) {
	info := NewPaginationInfo(16, 2, 8)

	assert.Equal(t, 2, info.TotalPages)
	assert.False(t, info.HasNextPage)
	assert.True(t, info.HasPrevPage)
}

func TestNewPaginationInfo_LastPartialPage(t *testing.T) {
	info := NewPaginationInfo(17, 3, 8)

	assert.Equal(t, 3, info.TotalPages)
	assert.False(t, info.HasNextPage)
	assert.True(t, info.HasPrevPage)
}

func TestNewPaginationInfo_EmptyCollection(t *testing.T) {
	info := NewPaginationInfo(0, 1, 10)

	assert.Equal(t, 0, info.TotalPages)
	assert.Equal(t, 0, info.TotalCount)
	assert.False(t, info.HasNextPage)
	assert.False(t, info.HasPrevPage)
}

func TestNewPaginationInfo_PageBeyondTotalKeepsTrueTotals(t *testing.T) {
	// Страница за пределами диапазона не считается ошибкой:
	// метаданные отражают реальные итоги.
	info := NewPaginationInfo(17, 9, 8)

	assert.Equal(t, 9, info.CurrentPage)
	assert.Equal(t, 3, info.TotalPages)
	assert.False(t, info.HasNextPage)
	assert.True(t, info.HasPrevPage)
}

func TestSearchFilter_IsEmpty(t *testing.T) {
	assert.True(t, SearchFilter{}.IsEmpty())
	assert.False(t, SearchFilter{Text: "sky"}.IsEmpty())
}
