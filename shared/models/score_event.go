package models

import "time"

// ScoreEventType - тип события об изменении игры.
type ScoreEventType string

const (
	ScoreEventPlayerAdded  ScoreEventType = "player_added"
	ScoreEventScoreUpdated ScoreEventType = "score_updated"
	ScoreEventGameStarted  ScoreEventType = "game_started"
)

// ScoreEvent - сообщение, уходящее в очередь после успешного сохранения игры.
type ScoreEvent struct {
	Type       ScoreEventType `json:"type"`
	GameID     string         `json:"gameId"`
	SessionID  string         `json:"sessionId"`
	PlayerName string         `json:"playerName,omitempty"`
	Delta      int64          `json:"delta,omitempty"`
	Score      int64          `json:"score"`
	Players    []PlayerScore  `json:"players"`
	OccurredAt time.Time      `json:"occurredAt"`
}
