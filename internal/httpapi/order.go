package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/xenking/tmall-storefront/internal/domain/order"
)

type placeOrderRequest struct {
	Items         []orderLineRequest `json:"items" binding:"required"`
	Receiver      string             `json:"receiver"`
	Mobile        string             `json:"mobile"`
	DetailAddress string             `json:"detailAddress"`
	AddressCode   string             `json:"addressCode"`
	PostCode      string             `json:"postCode"`
	PaymentMethod string             `json:"paymentMethod"`
	CartItemIDs   []int64            `json:"cartItemIds"`
}

type orderLineRequest struct {
	ProductID int64           `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Size      string          `json:"size"`
	Color     string          `json:"color"`
	Message   string          `json:"message"`
}

type updateStatusRequest struct {
	Status *int `json:"status" binding:"required"`
}

type placeOrderResponse struct {
	OrderID     int64           `json:"orderId"`
	OrderCode   string          `json:"orderCode"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      int             `json:"status"`
}

type orderResponse struct {
	ID            int64               `json:"id"`
	Code          string              `json:"code"`
	Receiver      string              `json:"receiver"`
	Mobile        string              `json:"mobile"`
	AddressCode   string              `json:"addressCode"`
	DetailAddress string              `json:"detailAddress"`
	PostalCode    string              `json:"postalCode,omitempty"`
	PaymentMethod string              `json:"paymentMethod"`
	TotalAmount   decimal.Decimal     `json:"totalAmount"`
	Status        int                 `json:"status"`
	StatusLabel   string              `json:"statusLabel"`
	CreatedAt     time.Time           `json:"createdAt"`
	PaidAt        *time.Time          `json:"paidAt,omitempty"`
	ShippedAt     *time.Time          `json:"shippedAt,omitempty"`
	DeliveredAt   *time.Time          `json:"deliveredAt,omitempty"`
	Items         []orderLineResponse `json:"items"`
}

type orderLineResponse struct {
	ID           int64           `json:"id"`
	ProductID    int64           `json:"productId"`
	ProductName  string          `json:"productName,omitempty"`
	ProductImage string          `json:"productImage,omitempty"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
	Size         string          `json:"size,omitempty"`
	Color        string          `json:"color,omitempty"`
	Message      string          `json:"message,omitempty"`
}

func toOrderResponse(o order.Order) orderResponse {
	items := make([]orderLineResponse, len(o.Lines))
	for i, l := range o.Lines {
		items[i] = orderLineResponse{
			ID:           l.ID,
			ProductID:    l.ProductID,
			ProductName:  l.ProductName,
			ProductImage: l.ProductImage,
			Price:        l.Price,
			Quantity:     l.Quantity,
			Size:         l.Size,
			Color:        l.Color,
			Message:      l.Note,
		}
	}
	return orderResponse{
		ID:            o.ID,
		Code:          o.Code,
		Receiver:      o.Shipping.Receiver,
		Mobile:        o.Shipping.Mobile,
		AddressCode:   o.Shipping.AddressCode,
		DetailAddress: o.Shipping.DetailAddress,
		PostalCode:    o.Shipping.PostalCode,
		PaymentMethod: o.PaymentMethod,
		TotalAmount:   o.Total,
		Status:        int(o.Status),
		StatusLabel:   o.Status.String(),
		CreatedAt:     o.CreatedAt,
		PaidAt:        o.PaidAt,
		ShippedAt:     o.ShippedAt,
		DeliveredAt:   o.DeliveredAt,
		Items:         items,
	}
}

func (h *Handler) placeOrder(c *gin.Context) {
	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid order request: "+err.Error())
		return
	}

	lines := make([]order.LineInput, len(req.Items))
	for i, item := range req.Items {
		lines[i] = order.LineInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.Price,
			Size:      item.Size,
			Color:     item.Color,
			Note:      item.Message,
		}
	}

	result, err := h.orders.PlaceOrder(c.Request.Context(), callerID(c), order.PlaceOrderRequest{
		Lines: lines,
		Shipping: order.ShippingInfo{
			Receiver:      req.Receiver,
			Mobile:        req.Mobile,
			AddressCode:   req.AddressCode,
			DetailAddress: req.DetailAddress,
			PostalCode:    req.PostCode,
		},
		PaymentMethod: req.PaymentMethod,
		CartItemIDs:   req.CartItemIDs,
	})
	if err != nil {
		failErr(c, err)
		return
	}

	ok(c, http.StatusCreated, "order created", placeOrderResponse{
		OrderID:     result.OrderID,
		OrderCode:   result.Code,
		TotalAmount: result.Total,
		Status:      int(result.Status),
	})
}

func (h *Handler) listOrders(c *gin.Context) {
	var statusFilter *order.Status
	if raw := c.Query("status"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			fail(c, http.StatusBadRequest, "invalid status filter")
			return
		}
		s, err := order.ParseStatus(v)
		if err != nil {
			fail(c, http.StatusBadRequest, "invalid status filter")
			return
		}
		statusFilter = &s
	}

	orders, err := h.orders.ListOrders(c.Request.Context(), callerID(c), statusFilter)
	if err != nil {
		failErr(c, err)
		return
	}

	out := make([]orderResponse, len(orders))
	for i, o := range orders {
		out[i] = toOrderResponse(o)
	}
	ok(c, http.StatusOK, "orders listed", out)
}

func (h *Handler) getOrder(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid order id")
		return
	}

	o, err := h.orders.GetOrder(c.Request.Context(), callerID(c), orderID)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, "order found", toOrderResponse(*o))
}

func (h *Handler) updateOrderStatus(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid order id")
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid status request: "+err.Error())
		return
	}
	next, err := order.ParseStatus(*req.Status)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	o, err := h.orders.TransitionStatus(c.Request.Context(), callerID(c), orderID, next)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, "order status updated", toOrderResponse(*o))
}
