package order

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// codeAttempts bounds how many fresh codes PlaceOrder tries when the
// generated code collides with an existing order.
const codeAttempts = 3

// NewCode returns a human-readable order code: the order date as YYYYMMDD
// followed by a four-digit random suffix. The scheme alone does not
// guarantee uniqueness; the orders table enforces it and callers retry on
// collision.
func NewCode(now time.Time) string {
	return now.Format("20060102") + fmt.Sprintf("%04d", rand.IntN(10000))
}
