package main

import (
	"net/http"
	"time"

	"drivethru-server/shared/models"

	rateli "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// rateLimitKey ограничивает запросы по skill id, без токена по IP.
func rateLimitKey(c *gin.Context) string {
	if skillID := c.GetString(string(models.SkillIDContextKey)); skillID != "" {
		return skillID
	}
	return c.ClientIP()
}

func rateLimitExceeded(c *gin.Context, info rateli.Info) {
	zap.L().Warn("Rate limit exceeded",
		zap.String("skillID", c.GetString(string(models.SkillIDContextKey))),
		zap.Time("resetTime", info.ResetTime),
	)
	c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse{
		Code:    models.ErrCodeTooManyRequests,
		Message: "Too many requests. Try again in " + time.Until(info.ResetTime).Round(time.Second).String(),
	})
}
