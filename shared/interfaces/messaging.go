package interfaces

import (
	"context"

	"drivethru-server/shared/models"
)

// ScoreEventPublisher публикует события об изменении игры для внешних потребителей
// (табло, аналитика). Публикация best-effort: источник истины - GameRepository.
type ScoreEventPublisher interface {
	PublishScoreEvent(ctx context.Context, event models.ScoreEvent) error
}
