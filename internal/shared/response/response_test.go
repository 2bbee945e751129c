package response_test

import (
	"testing"

	"go-incident-tracker/internal/shared/response"

	"github.com/stretchr/testify/assert"
)

func TestNewPaginationMeta(t *testing.T) {
	meta := response.NewPaginationMeta(21, 2, 10)

	assert.Equal(t, int64(21), meta.Total)
	assert.Equal(t, 3, meta.TotalPages)
	assert.Equal(t, 2, meta.Page)
}

func TestPaginate(t *testing.T) {
	start, end := response.Paginate(25, 3, 10)
	assert.Equal(t, 20, start)
	assert.Equal(t, 25, end)

	start, end = response.Paginate(5, 4, 10)
	assert.Equal(t, 5, start)
	assert.Equal(t, 5, end)

	start, end = response.Paginate(5, 0, 0)
	assert.Equal(t, 0, start)
	assert.Equal(t, 5, end)
}
