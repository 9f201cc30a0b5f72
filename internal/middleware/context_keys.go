package middleware

import (
	"github.com/SscSPs/vaultline/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// userIDKey is the key used to store the authenticated user's ID.
// Using a custom type prevents collisions.
const userIDKey = contextKey("userID")

// principalKey holds the *domain.Principal resolved from an API key.
const principalKey = contextKey("principal")

// decisionKey holds the domain.LimitDecision made for the current request.
const decisionKey = contextKey("limitDecision")

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if v, exists := c.Get(string(userIDKey)); exists {
		userID, ok := v.(string)
		return userID, ok && userID != ""
	}
	// check in the request context as well
	if userID, ok := c.Request.Context().Value(userIDKey).(string); ok && userID != "" {
		return userID, true
	}
	return "", false
}

// GetPrincipalFromContext returns the API key principal set by APIKeyAuth.
func GetPrincipalFromContext(c *gin.Context) (*domain.Principal, bool) {
	v, exists := c.Get(string(principalKey))
	if !exists {
		return nil, false
	}
	p, ok := v.(*domain.Principal)
	return p, ok && p != nil
}

// GetLimitDecisionFromContext returns the quota decision made by Quota, if any.
func GetLimitDecisionFromContext(c *gin.Context) (domain.LimitDecision, bool) {
	v, exists := c.Get(string(decisionKey))
	if !exists {
		return domain.LimitDecision{}, false
	}
	d, ok := v.(domain.LimitDecision)
	return d, ok
}
