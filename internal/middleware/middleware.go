package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joshua-takyi/devnet/internal/helpers"
	"github.com/joshua-takyi/devnet/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TokenHeader is the header clients send their token in. A standard
// "Authorization: Bearer <token>" header is accepted as well.
const TokenHeader = "x-auth-token"

// TokenVerifier resolves a token to the subject it was issued for.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// RequestID middleware adds a unique request ID to each request
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// StructuredLogger provides structured logging middleware
func StructuredLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		requestID, _ := c.Get("request_id")
		attrs := []any{
			"request_id", requestID,
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if identity, ok := c.Get("user"); ok {
			attrs = append(attrs, "user_id", identity.(*helpers.Identity).UserID.Hex())
		}
		logger.Info("HTTP Request", attrs...)
	}
}

// ErrorHandler logs errors handlers attached with c.Error and answers a
// generic 500 when the handler did not write a response itself.
func ErrorHandler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last()
		requestID, _ := c.Get("request_id")

		logger.Error("Request error",
			"request_id", requestID,
			"error", err.Error(),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)

		if c.Writer.Written() {
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success":    false,
			"error":      "Internal server error",
			"request_id": requestID,
		})
	}
}

// AuthMiddleware rejects requests without a valid token and stores the
// caller's identity under "user". The user record itself is not loaded.
func AuthMiddleware(verifier TokenVerifier, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse("No token, authorization denied"))
			return
		}

		subject, err := verifier.Verify(token)
		if err != nil {
			logger.Debug("token rejected", "error", err, "path", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse("Token is not valid"))
			return
		}

		userID, err := primitive.ObjectIDFromHex(subject)
		if err != nil {
			logger.Warn("token subject is not a user id", "subject", subject)
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse("Token is not valid"))
			return
		}

		c.Set("user", &helpers.Identity{UserID: userID})
		c.Next()
	}
}

func tokenFromRequest(c *gin.Context) string {
	if token := strings.TrimSpace(c.GetHeader(TokenHeader)); token != "" {
		return token
	}
	auth := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}
