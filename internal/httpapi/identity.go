package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const identityKey = "httpapi.userID"

// requireIdentity resolves the bearer credential into a user ID and aborts
// with 401 when it is missing or malformed. Handlers downstream read the
// identity with callerID.
func (h *Handler) requireIdentity(c *gin.Context) {
	credential := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	userID, authenticated := h.resolver.Resolve(credential)
	if !authenticated {
		fail(c, http.StatusUnauthorized, "authentication required")
		c.Abort()
		return
	}
	c.Set(identityKey, userID)
	c.Next()
}

// callerID returns the identity stored by requireIdentity. Zero means the
// middleware did not run; domain services reject that on their own.
func callerID(c *gin.Context) int64 {
	id, _ := c.Get(identityKey)
	userID, _ := id.(int64)
	return userID
}
