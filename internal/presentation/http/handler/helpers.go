package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/tienda-api/internal/presentation/http/dto/request"
	"github.com/sangkips/tienda-api/internal/presentation/http/dto/response"
	"github.com/sangkips/tienda-api/pkg/pagination"
)

// invoiceNumber parses the :number path parameter, writing a 400 when invalid
func invoiceNumber(c *gin.Context) (uint, bool) {
	n, err := strconv.ParseUint(c.Param("number"), 10, 32)
	if err != nil || n == 0 {
		response.BadRequest(c, "Invalid invoice number")
		return 0, false
	}
	return uint(n), true
}

// pageParams reads page and per_page from the query string
func pageParams(c *gin.Context) *pagination.PaginationParams {
	return pagination.FromQuery(c.Query("page"), c.Query("per_page"))
}

// dateQuery parses an optional YYYY-MM-DD query parameter, writing a 400 when invalid
func dateQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := request.ParseDate(raw)
	if err != nil {
		response.BadRequest(c, name+": "+err.Error())
		return nil, false
	}
	return &t, true
}

// bindJSON binds the body, writing a 400 when it does not parse
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return false
	}
	return true
}
