package utils

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func contextFor(target string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", target, nil)
	return c
}

func TestParsePagination(t *testing.T) {
	p, err := ParsePagination(contextFor("/posts"))
	require.NoError(t, err)
	require.Equal(t, Pagination{Page: 1}, p)

	p, err = ParsePagination(contextFor("/posts?page=3&limit=20"))
	require.NoError(t, err)
	require.Equal(t, Pagination{Page: 3, Limit: 20}, p)

	p, err = ParsePagination(contextFor("/posts?limit=500"))
	require.NoError(t, err)
	require.Equal(t, MaxPageSize, p.Limit)

	for _, bad := range []string{"/posts?page=0", "/posts?page=x", "/posts?limit=-1"} {
		_, err = ParsePagination(contextFor(bad))
		require.Error(t, err, bad)
	}
}

func TestParseID(t *testing.T) {
	c := contextFor("/posts/12")
	c.Params = gin.Params{{Key: "id", Value: "12"}}
	id, ok := ParseID(c, "id")
	require.True(t, ok)
	require.Equal(t, uint(12), id)

	for _, bad := range []string{"", "0", "-3", "abc"} {
		c.Params = gin.Params{{Key: "id", Value: bad}}
		_, ok = ParseID(c, "id")
		require.False(t, ok, bad)
	}
}

func TestIsValidUserID(t *testing.T) {
	require.True(t, IsValidUserID("user_2abc"))
	require.False(t, IsValidUserID(""))
	require.False(t, IsValidUserID("has space"))
	require.False(t, IsValidUserID(strings.Repeat("x", 192)))
}
