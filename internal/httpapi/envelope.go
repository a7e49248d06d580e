package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/tmall-storefront/internal/domain/cart"
	"github.com/xenking/tmall-storefront/internal/domain/order"
)

// Envelope is the uniform response shape of every endpoint. Error carries
// diagnostic text only; clients branch on the HTTP status, never on Error.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func ok(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope{Success: false, Message: message})
}

// failErr translates a domain error into the envelope and status code of the
// error taxonomy. Unexpected errors are logged and reported as 500 with the
// raw text in the diagnostic field.
func failErr(c *gin.Context, err error) {
	var (
		invalidLine  *order.InvalidLineError
		missingField *order.MissingFieldError
		badEdge      *order.InvalidTransitionError
	)
	switch {
	case errors.Is(err, order.ErrUnauthenticated), errors.Is(err, cart.ErrUnauthenticated):
		fail(c, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, order.ErrNotFound), errors.Is(err, cart.ErrNotFound):
		// Absent and forbidden are the same answer so existence never leaks.
		fail(c, http.StatusNotFound, "not found or no permission")
	case errors.Is(err, cart.ErrProductUnavailable):
		fail(c, http.StatusBadRequest, "product unavailable")
	case errors.Is(err, order.ErrNoLines),
		errors.As(err, &invalidLine),
		errors.As(err, &missingField),
		errors.As(err, &badEdge):
		fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, order.ErrStale):
		fail(c, http.StatusConflict, "order changed concurrently, retry")
	default:
		zctx.From(c.Request.Context()).Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Envelope{
			Success: false,
			Message: "internal error",
			Error:   err.Error(),
		})
	}
}
