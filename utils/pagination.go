package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

type Pagination struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PerPage
}

type PageMeta struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

func NewPageMeta(p Pagination, total int64) PageMeta {
	pages := int((total + int64(p.PerPage) - 1) / int64(p.PerPage))
	return PageMeta{Page: p.Page, PerPage: p.PerPage, Total: total, TotalPages: pages}
}

// ParsePagination reads ?page=&per_page=. ok is false when the caller did
// not ask for a page, in which case the full list is returned.
func ParsePagination(c *gin.Context) (p Pagination, ok bool) {
	raw := c.Query("page")
	if raw == "" {
		return Pagination{}, false
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		page = 1
	}
	perPage, err := strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(DefaultPerPage)))
	if err != nil || perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return Pagination{Page: page, PerPage: perPage}, true
}
