package api

import (
	"net/http"
	"strconv"

	"mobile-store/internal/store"

	"github.com/gin-gonic/gin"
)

// listProducts handles the filtered, sorted, paginated catalog listing.
func (h *Handler) listProducts(c *gin.Context) {
	f := store.ProductFilter{
		Brand:     c.Query("brand"),
		Storage:   c.Query("storage"),
		Color:     c.Query("color"),
		Search:    c.Query("search"),
		Platforms: c.QueryArray("platform"),
		Sort:      c.DefaultQuery("sort", "name"),
		Order:     c.DefaultQuery("order", "ASC"),
	}

	if v := c.Query("minPrice"); v != "" {
		if p, err := strconv.ParseFloat(v, 64); err == nil {
			f.MinPrice = &p
		}
	}
	if v := c.Query("maxPrice"); v != "" {
		if p, err := strconv.ParseFloat(v, 64); err == nil {
			f.MaxPrice = &p
		}
	}
	f.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	f.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	page, err := h.catalog.ListProducts(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// getProduct handles a single product read
func (h *Handler) getProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	product, err := h.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}
