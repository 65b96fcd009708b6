package utils

import (
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecordID_Format(t *testing.T) {
	at := time.UnixMilli(1721650000123)
	id, err := newRecordIDAt("task_", at)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^task_1721650000123[0-9a-z]{8}$`), id)
}

func TestNewRecordID_UniqueWithinSameMillisecond(t *testing.T) {
	at := time.Now()
	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		id, err := newRecordIDAt("task_", at)
		require.NoError(t, err)
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}

func TestGetPaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/api/tasks?page=3&limit=2", nil)

	params := GetPaginationParams(c)
	assert.Equal(t, PaginationParams{Page: 3, Limit: 2, Offset: 4}, params)

	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/api/tasks?page=-1&limit=1000", nil)
	params = GetPaginationParams(c)
	assert.Equal(t, 1, params.Page)
	assert.Equal(t, 20, params.Limit)
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	assert.Equal(t, []int{3, 4}, Paginate(items, PaginationParams{Page: 2, Limit: 2, Offset: 2}))
	assert.Equal(t, []int{5}, Paginate(items, PaginationParams{Page: 3, Limit: 2, Offset: 4}))
	assert.Empty(t, Paginate(items, PaginationParams{Page: 4, Limit: 2, Offset: 6}))
}
