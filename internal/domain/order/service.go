package order

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Defaults applied when the checkout request omits optional shipping fields.
const (
	defaultAddressCode   = "000000"
	defaultPaymentMethod = "cod"
)

// InvalidLineError indicates a malformed checkout line item.
type InvalidLineError struct {
	ProductID int64
	Reason    string
}

func (e *InvalidLineError) Error() string {
	return fmt.Sprintf("invalid line for product %d: %s", e.ProductID, e.Reason)
}

// MissingFieldError indicates a required shipping field was empty.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// LineInput is one checkout line item as submitted by the client. UnitPrice
// is the price shown at checkout; the engine persists it as-is and never
// re-reads the live catalog (price integrity at order time).
type LineInput struct {
	ProductID int64
	Quantity  int
	UnitPrice decimal.Decimal
	Size      string
	Color     string
	Note      string
}

// PlaceOrderRequest holds the input for placing an order. CartItemIDs lists
// the cart rows consumed by this checkout; it is empty for the buy-now flow.
type PlaceOrderRequest struct {
	Lines         []LineInput
	Shipping      ShippingInfo
	PaymentMethod string
	CartItemIDs   []int64
}

// PlaceOrderResult is the outcome of a successful checkout.
type PlaceOrderResult struct {
	OrderID int64
	Code    string
	Total   decimal.Decimal
	Status  Status
}

// Service encapsulates the order placement and lifecycle logic.
type Service struct {
	orders Repository
	cart   CartCleaner
	now    func() time.Time
}

// NewService creates an order Service backed by the given repository. The
// cart cleaner consumes cart rows after checkout.
func NewService(orders Repository, cart CartCleaner) *Service {
	return &Service{
		orders: orders,
		cart:   cart,
		now:    time.Now,
	}
}

// PlaceOrder validates the checkout request, computes the total from the
// submitted line prices, persists the order with its lines atomically, and
// consumes the listed cart rows. Cart cleanup failure is logged but never
// rolls back the order: the order is the authoritative outcome and a stale
// cart row is recoverable.
func (s *Service) PlaceOrder(ctx context.Context, userID int64, req PlaceOrderRequest) (*PlaceOrderResult, error) {
	if userID <= 0 {
		return nil, ErrUnauthenticated
	}
	if len(req.Lines) == 0 {
		return nil, ErrNoLines
	}

	total := decimal.Zero
	lines := make([]Line, len(req.Lines))
	for i, in := range req.Lines {
		if in.Quantity < 1 {
			return nil, &InvalidLineError{ProductID: in.ProductID, Reason: "quantity must be at least 1"}
		}
		if in.UnitPrice.IsNegative() {
			return nil, &InvalidLineError{ProductID: in.ProductID, Reason: "unit price must not be negative"}
		}
		lines[i] = Line{
			ProductID: in.ProductID,
			Price:     in.UnitPrice,
			Quantity:  in.Quantity,
			Size:      in.Size,
			Color:     in.Color,
			Note:      in.Note,
		}
		total = total.Add(in.UnitPrice.Mul(decimal.NewFromInt(int64(in.Quantity))))
	}
	total = total.Round(2)

	shipping, err := normalizeShipping(req.Shipping)
	if err != nil {
		return nil, err
	}

	payment := req.PaymentMethod
	if payment == "" {
		payment = defaultPaymentMethod
	}

	o := &Order{
		UserID:        userID,
		Shipping:      shipping,
		PaymentMethod: payment,
		Total:         total,
		Status:        StatusPending,
		Lines:         lines,
	}

	// The date+random code scheme can collide under concurrent load; the
	// unique index is authoritative and we retry with a fresh suffix.
	for attempt := 0; ; attempt++ {
		o.Code = NewCode(s.now())
		err = s.orders.Create(ctx, o)
		if err == nil {
			break
		}
		if errors.Is(err, ErrCodeTaken) && attempt < codeAttempts-1 {
			continue
		}
		return nil, errors.Wrap(err, "create order")
	}

	if len(req.CartItemIDs) > 0 {
		if err := s.cart.DeleteByIDs(ctx, userID, req.CartItemIDs); err != nil {
			zctx.From(ctx).Warn("cart cleanup after checkout failed",
				zap.Int64("order_id", o.ID),
				zap.Int64s("cart_item_ids", req.CartItemIDs),
				zap.Error(err),
			)
		}
	}

	return &PlaceOrderResult{
		OrderID: o.ID,
		Code:    o.Code,
		Total:   o.Total,
		Status:  o.Status,
	}, nil
}

// TransitionStatus moves the caller's order to next if the edge is legal,
// stamping the matching timestamp. Terminal states reject every transition.
func (s *Service) TransitionStatus(ctx context.Context, userID, orderID int64, next Status) (*Order, error) {
	if userID <= 0 {
		return nil, ErrUnauthenticated
	}

	o, err := s.orders.GetByID(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if !o.Status.CanTransitionTo(next) {
		return nil, &InvalidTransitionError{From: o.Status, To: next}
	}

	at := s.now()
	if err := s.orders.UpdateStatus(ctx, userID, orderID, o.Status, next, at); err != nil {
		return nil, err
	}
	return s.orders.GetByID(ctx, userID, orderID)
}

// ListOrders returns the caller's orders newest first, optionally filtered
// by status.
func (s *Service) ListOrders(ctx context.Context, userID int64, status *Status) ([]Order, error) {
	if userID <= 0 {
		return nil, ErrUnauthenticated
	}
	return s.orders.ListByUser(ctx, userID, status)
}

// GetOrder returns a single order with its lines, ownership-checked.
func (s *Service) GetOrder(ctx context.Context, userID, orderID int64) (*Order, error) {
	if userID <= 0 {
		return nil, ErrUnauthenticated
	}
	return s.orders.GetByID(ctx, userID, orderID)
}

// normalizeShipping validates required fields and applies sentinels for the
// optional ones.
func normalizeShipping(in ShippingInfo) (ShippingInfo, error) {
	switch {
	case in.Receiver == "":
		return in, &MissingFieldError{Field: "receiver"}
	case in.Mobile == "":
		return in, &MissingFieldError{Field: "mobile"}
	case in.DetailAddress == "":
		return in, &MissingFieldError{Field: "detail address"}
	}
	if in.AddressCode == "" {
		in.AddressCode = defaultAddressCode
	}
	return in, nil
}
