package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/conduit/internal/server/auth"
	"github.com/dmitrijs2005/conduit/internal/server/metrics"
)

const (
	// RequestIDHeader is the header carrying the request id.
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"

	userIDKey   = "user_id"
	usernameKey = "username"

	// tokenScheme is the Authorization scheme word expected before the JWT.
	tokenScheme = "Token"
)

// RequestID propagates the client's X-Request-ID or assigns a fresh UUID.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(requestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}

// Metrics records Prometheus request metrics: totals by method/path/status,
// a latency histogram, and the in-flight gauge.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		// skip the metrics endpoint itself
		if c.FullPath() == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()

		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(duration)
	}
}

// extractToken pulls the JWT out of the Authorization header. The header
// must split into exactly two fields with the scheme word "Token"; any other
// shape reads as "no token present".
func extractToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != tokenScheme {
		return "", false
	}
	return parts[1], true
}

func setIdentity(c *gin.Context, claims *auth.Claims) {
	c.Set(userIDKey, claims.UserID)
	c.Set(usernameKey, claims.Username)
}

// RequireAuth rejects requests without a valid token. Extraction or
// verification failure both end the request with 401; nothing falls through
// anonymously.
func RequireAuth(tm *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := extractToken(c.Request)
		if !ok {
			metrics.AuthFailures.WithLabelValues("missing_token").Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"errors": gin.H{"message": "authorization required"},
			})
			return
		}

		claims, err := tm.Parse(token)
		if err != nil {
			metrics.AuthFailures.WithLabelValues("invalid_token").Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"errors": gin.H{"message": "invalid or expired token"},
			})
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}

// OptionalAuth resolves an identity when a token is present and lets
// anonymous requests through. A token that is present but invalid is still
// a 401: it is never downgraded to anonymous.
func OptionalAuth(tm *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := extractToken(c.Request)
		if !ok {
			c.Next()
			return
		}

		claims, err := tm.Parse(token)
		if err != nil {
			metrics.AuthFailures.WithLabelValues("invalid_token").Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"errors": gin.H{"message": "invalid or expired token"},
			})
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}

// currentUserID returns the authenticated user's id, if any.
func currentUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get(userIDKey)
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}
