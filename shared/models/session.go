package models

import "time"

// DialogueState - состояние диалога в рамках одной сессии.
type DialogueState string

const (
	StateAwaitingName  DialogueState = "awaiting_name"
	StateAwaitingScore DialogueState = "awaiting_score"
	StateInGame        DialogueState = "in_game"
	StateEnded         DialogueState = "ended"
)

// Session - временный контекст одного разговора поверх Game.
// Хранится в Redis с TTL, между разговорами не переиспользуется.
type Session struct {
	ID                string        `json:"id"`
	GameID            string        `json:"gameId,omitempty"`
	State             DialogueState `json:"state"`
	PendingPlayerName string        `json:"pendingPlayerName,omitempty"`
	// NeedsMoreHelp остаётся true, пока пользователь не начислил первые очки.
	NeedsMoreHelp bool `json:"needsMoreHelp"`
	// HelpCount - сколько раз в этой сессии уже выдавалась справка.
	HelpCount int       `json:"helpCount"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewSession создает сессию в начальном состоянии.
func NewSession(id string) *Session {
	return &Session{
		ID:            id,
		State:         StateAwaitingName,
		NeedsMoreHelp: true,
		UpdatedAt:     time.Now().UTC(),
	}
}

// IsLive возвращает true для сессии, которая не была завершена через Exit.
func (s *Session) IsLive() bool {
	return s != nil && s.State != StateEnded
}

// HasGame сообщает, привязана ли к сессии игра.
func (s *Session) HasGame() bool {
	return s != nil && s.GameID != ""
}
