// File: /utils/validators.go
package utils

import (
	"errors"
	"strconv"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
)

const (
	MaxPageSize  = 50
	maxUserIDLen = 191
)

// Pagination is the parsed page/limit pair. A zero Limit means the caller
// asked for the whole list.
type Pagination struct {
	Page  int
	Limit int
}

// ParsePagination reads ?page= and ?limit=. page defaults to 1 and limit
// is capped at MaxPageSize.
func ParsePagination(c *gin.Context) (Pagination, error) {
	p := Pagination{Page: 1}

	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return p, errors.New("page must be a positive integer")
		}
		p.Page = page
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return p, errors.New("limit must be a positive integer")
		}
		if limit > MaxPageSize {
			limit = MaxPageSize
		}
		p.Limit = limit
	}
	return p, nil
}

// ParseID reads a numeric path parameter.
func ParseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// IsValidUserID accepts the opaque ids issued by the identity provider.
func IsValidUserID(id string) bool {
	if id == "" || len(id) > maxUserIDLen {
		return false
	}
	return strings.IndexFunc(id, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	}) < 0
}
