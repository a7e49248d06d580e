package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/tmall-storefront/internal/domain/product"
)

type productResponse struct {
	ID        int64            `json:"id"`
	Name      string           `json:"name"`
	Title     string           `json:"title,omitempty"`
	Price     decimal.Decimal  `json:"price"`
	SalePrice *decimal.Decimal `json:"salePrice,omitempty"`
	Image     string           `json:"image,omitempty"`
}

func toProductResponse(p product.Product) productResponse {
	return productResponse{
		ID:        p.ID,
		Name:      p.Name,
		Title:     p.Title,
		Price:     p.Price,
		SalePrice: p.SalePrice,
		Image:     p.Image,
	}
}

func (h *Handler) listProducts(c *gin.Context) {
	products, err := h.products.List(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}

	out := make([]productResponse, len(products))
	for i, p := range products {
		out[i] = toProductResponse(p)
	}
	ok(c, http.StatusOK, "products listed", out)
}

func (h *Handler) getProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid product id")
		return
	}

	p, err := h.products.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			fail(c, http.StatusNotFound, "product not found")
			return
		}
		failErr(c, err)
		return
	}
	if !p.Enabled {
		fail(c, http.StatusNotFound, "product not found")
		return
	}
	ok(c, http.StatusOK, "product found", toProductResponse(*p))
}
