package handler

import (
	"errors"
	"net/http"

	"drivethru-server/internal/service"
	"drivethru-server/shared/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// textStorageApology произносится, когда ход диалога не удалось сохранить.
const textStorageApology = "Sorry, I'm having trouble keeping score right now. Please try again in a moment."

// handleServiceError отвечает на ошибки запросов к таблице лидеров.
func handleServiceError(c *gin.Context, err error) {
	if errors.Is(err, models.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, models.ErrorResponse{Code: models.ErrCodeNotFound, Message: "Game not found"})
		return
	}
	zap.L().Error("Unhandled internal error in handleServiceError", zap.Error(err))
	c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
		Code:    models.ErrCodeInternal,
		Message: "An unexpected internal error occurred",
	})
}

// handleDialogueError отвечает платформе в её формате: речь с извинением и закрытая сессия.
func handleDialogueError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrStorage) {
		zap.L().Error("Dialogue turn failed on storage", zap.Error(err))
	} else {
		zap.L().Error("Dialogue turn failed", zap.Error(err))
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, models.NewTellResponse(textStorageApology, true, nil))
}
