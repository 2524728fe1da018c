package handler

import (
	"net/http"

	"drivethru-server/internal/service"
	"drivethru-server/shared/interfaces"
	"drivethru-server/shared/middleware"
	"drivethru-server/shared/models"
	"drivethru-server/shared/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DialogueHandler - HTTP-адаптер между голосовой платформой и DialogueService.
type DialogueHandler struct {
	dialogueService service.DialogueService
	verifier        interfaces.TokenVerifier
	logger          *zap.Logger
}

func NewDialogueHandler(dialogueService service.DialogueService, verifier interfaces.TokenVerifier, logger *zap.Logger) *DialogueHandler {
	registerValidators()
	return &DialogueHandler{
		dialogueService: dialogueService,
		verifier:        verifier,
		logger:          logger.Named("DialogueHandler"),
	}
}

// RegisterRoutes регистрирует маршруты. eventMiddleware выполняется после проверки токена
// платформы, поэтому skill id уже лежит в контексте (используется rate limiter'ом).
func (h *DialogueHandler) RegisterRoutes(router *gin.Engine, eventMiddleware ...gin.HandlerFunc) {
	router.GET("/health", h.health)
	router.HEAD("/health", h.health)

	eventChain := []gin.HandlerFunc{middleware.PlatformAuthMiddleware(h.verifier, h.logger)}
	eventChain = append(eventChain, eventMiddleware...)
	eventChain = append(eventChain, h.handleEvent)

	v1 := router.Group("/v1")
	{
		v1.POST("/events", eventChain...)
		v1.GET("/games/:id/leaderboard", h.getLeaderboard)
	}
}

func (h *DialogueHandler) health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// handleEvent принимает одно событие диалога и возвращает ответ навыка.
func (h *DialogueHandler) handleEvent(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dialogueEventsTotal.WithLabelValues("invalid", "bad_request").Inc()
		errResp := models.ErrorResponse{Code: models.ErrCodeBadRequest, Message: "Invalid request data: " + err.Error()}
		c.AbortWithStatusJSON(http.StatusBadRequest, errResp)
		return
	}

	event := req.toEvent()
	h.logger.Debug("Dialogue event received",
		zap.String("sessionID", event.SessionID),
		zap.String("intent", event.Intent),
		zap.String("skillID", c.GetString(string(models.SkillIDContextKey))),
	)

	resp, err := h.dialogueService.HandleEvent(c.Request.Context(), event)
	if err != nil {
		dialogueEventsTotal.WithLabelValues(intentLabel(event.Intent), "error").Inc()
		handleDialogueError(c, err)
		return
	}

	outcome := "ok"
	if resp.ShouldEndSession {
		outcome = "ended"
		sessionsEndedTotal.Inc()
	}
	dialogueEventsTotal.WithLabelValues(intentLabel(event.Intent), outcome).Inc()
	c.JSON(http.StatusOK, resp)
}

// getLeaderboard отдаёт текущую таблицу лидеров игры для внешних табло.
func (h *DialogueHandler) getLeaderboard(c *gin.Context) {
	gameID := c.Param("id")
	game, err := h.dialogueService.GetGame(c.Request.Context(), gameID)
	if err != nil {
		leaderboardRequestsTotal.WithLabelValues("error").Inc()
		handleServiceError(c, err)
		return
	}

	leaderboardRequestsTotal.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, leaderboardResponse{
		GameID:  game.ID,
		Players: game.Players,
		Card:    utils.LeaderboardCard(game.Players),
	})
}
