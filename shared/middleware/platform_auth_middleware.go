package middleware

import (
	"errors"
	"net/http"
	"strings"

	"drivethru-server/shared/interfaces"
	"drivethru-server/shared/models"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var platformTokenVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "drivethru_platform_token_verifications_total",
		Help: "Total number of platform token verification attempts by status.",
	},
	[]string{"status"},
)

// PlatformAuthMiddleware проверяет Bearer-токен голосовой платформы и кладёт skill id в контекст.
func PlatformAuthMiddleware(verifier interfaces.TokenVerifier, logger *zap.Logger) gin.HandlerFunc {
	log := logger.Named("PlatformAuth")
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Warn("Authorization header missing", zap.String("path", c.Request.URL.Path))
			abortUnauthorized(c, models.ErrCodeUnauthorized, "Authorization header missing")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
			log.Warn("Invalid Authorization header format")
			abortUnauthorized(c, models.ErrCodeTokenInvalid, "Invalid Authorization header format")
			return
		}

		claims, err := verifier.VerifyPlatformToken(c.Request.Context(), parts[1])
		if err != nil {
			switch {
			case errors.Is(err, models.ErrTokenExpired):
				abortUnauthorized(c, models.ErrCodeTokenExpired, "Token has expired")
			case errors.Is(err, models.ErrTokenInvalid), errors.Is(err, models.ErrTokenMalformed):
				abortUnauthorized(c, models.ErrCodeTokenInvalid, "Token is invalid or malformed")
			default:
				log.Error("Unexpected platform token verification error", zap.Error(err))
				platformTokenVerificationsTotal.WithLabelValues("error").Inc()
				c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
					Code:    models.ErrCodeInternal,
					Message: "Internal server error during token verification",
				})
			}
			return
		}

		platformTokenVerificationsTotal.WithLabelValues("success").Inc()
		c.Set(string(models.SkillIDContextKey), claims.Subject)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, code int, msg string) {
	platformTokenVerificationsTotal.WithLabelValues("failure").Inc()
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Code: code, Message: msg})
}
