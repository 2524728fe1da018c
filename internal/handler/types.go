package handler

import (
	"sync"

	"drivethru-server/shared/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var registerValidatorsOnce sync.Once

// registerValidators добавляет в валидатор gin правило notblank (строка не из одних пробелов).
func registerValidators() {
	registerValidatorsOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("notblank", validators.NotBlank)
		}
	})
}

type eventRequest struct {
	SessionID string            `json:"sessionId" binding:"required,notblank,max=256"`
	Intent    string            `json:"intent" binding:"required,notblank"`
	Slots     map[string]string `json:"slots"`
}

func (r eventRequest) toEvent() models.Event {
	return models.Event{
		SessionID: r.SessionID,
		Intent:    r.Intent,
		Slots:     r.Slots,
	}
}

type leaderboardResponse struct {
	GameID  string               `json:"gameId"`
	Players []models.PlayerScore `json:"players"`
	Card    *models.Card         `json:"card"`
}
