package utils

import (
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestValidatePhone(t *testing.T) {
	valid := []string{"+5511999990001", "(11) 99999-0001", "11 3333 4444", "+1 555 000 0000"}
	for _, p := range valid {
		assert.True(t, ValidatePhone(p), p)
	}
	invalid := []string{"", "123", "0119999999", "+55abc99999", "+1234567890123456"}
	for _, p := range invalid {
		assert.False(t, ValidatePhone(p), p)
	}
	assert.Equal(t, "+5511999990001", NormalizePhone(" +55 (11) 99999-0001 "))
}

func TestGenerateQRCode(t *testing.T) {
	pattern := regexp.MustCompile(`^QR[0-9A-F]{8}$`)
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code := GenerateQRCode()
		assert.Regexp(t, pattern, code)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 45)
}

func TestParsePagination(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		query string
		want  Pagination
		ok    bool
	}{
		{"", Pagination{}, false},
		{"page=2", Pagination{Page: 2, PerPage: DefaultPerPage}, true},
		{"page=0&per_page=5", Pagination{Page: 1, PerPage: 5}, true},
		{"page=3&per_page=1000", Pagination{Page: 3, PerPage: MaxPerPage}, true},
	}
	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/?"+tt.query, nil)
		got, ok := ParsePagination(c)
		assert.Equal(t, tt.ok, ok, tt.query)
		assert.Equal(t, tt.want, got, tt.query)
	}

	meta := NewPageMeta(Pagination{Page: 2, PerPage: 20}, 41)
	assert.Equal(t, 3, meta.TotalPages)
	assert.Equal(t, 20, Pagination{Page: 2, PerPage: 20}.Offset())
}
