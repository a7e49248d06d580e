package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/xenking/tmall-storefront/internal/domain/cart"
)

type addToCartRequest struct {
	ProductID int64  `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

type updateCartRequest struct {
	Quantity int `json:"quantity"`
}

type cartLineResponse struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"productId"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
}

type cartViewResponse struct {
	cartLineResponse
	ProductName  string           `json:"productName"`
	ProductTitle string           `json:"productTitle,omitempty"`
	Price        decimal.Decimal  `json:"price"`
	SalePrice    *decimal.Decimal `json:"salePrice,omitempty"`
	Image        string           `json:"image,omitempty"`
}

func toCartLineResponse(l cart.Line) cartLineResponse {
	return cartLineResponse{
		ID:        l.ID,
		ProductID: l.ProductID,
		Quantity:  l.Quantity,
		Size:      l.Size,
		Color:     l.Color,
	}
}

func (h *Handler) listCart(c *gin.Context) {
	views, err := h.carts.List(c.Request.Context(), callerID(c))
	if err != nil {
		failErr(c, err)
		return
	}

	out := make([]cartViewResponse, len(views))
	for i, v := range views {
		out[i] = cartViewResponse{
			cartLineResponse: toCartLineResponse(v.Line),
			ProductName:      v.ProductName,
			ProductTitle:     v.ProductTitle,
			Price:            v.Price,
			SalePrice:        v.SalePrice,
			Image:            v.Image,
		}
	}
	ok(c, http.StatusOK, "cart listed", out)
}

func (h *Handler) addToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid cart request: "+err.Error())
		return
	}

	line, err := h.carts.AddOrMerge(c.Request.Context(), callerID(c),
		req.ProductID, req.Quantity, req.Size, req.Color)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, "added to cart", toCartLineResponse(*line))
}

func (h *Handler) updateCartItem(c *gin.Context) {
	lineID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid cart item id")
		return
	}

	var req updateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid cart request: "+err.Error())
		return
	}

	line, err := h.carts.UpdateQuantity(c.Request.Context(), callerID(c), lineID, req.Quantity)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, "cart updated", toCartLineResponse(*line))
}

func (h *Handler) removeCartItem(c *gin.Context) {
	lineID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid cart item id")
		return
	}

	if err := h.carts.Remove(c.Request.Context(), callerID(c), lineID); err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, "removed from cart", nil)
}
