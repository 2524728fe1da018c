package models

import (
	"math"
	"strings"
	"time"
)

// MaxPlayersForSpeech - максимальное число игроков, для которых при начислении очков
// зачитываются очки всех участников.
const MaxPlayersForSpeech = 3

// PlayerScore - один игрок и его текущий счёт.
type PlayerScore struct {
	Name  string `json:"name" db:"name"`
	Score int64  `json:"score" db:"score"`
}

// Game - одна игра (drive-thru сессия подсчёта очков).
//
// Players хранится срезом, а не map: порядок добавления игроков является
// порядком вывода и в речи, и в таблице лидеров. Имена уникальны с учётом регистра.
type Game struct {
	ID        string        `json:"id" db:"id"`
	Players   []PlayerScore `json:"players"`
	CreatedAt time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time     `json:"updatedAt" db:"updated_at"`
}

// NewGame создает пустую игру с указанным идентификатором.
func NewGame(id string) *Game {
	now := time.Now().UTC()
	return &Game{
		ID:        id,
		Players:   make([]PlayerScore, 0),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Len возвращает количество игроков.
func (g *Game) Len() int {
	return len(g.Players)
}

func (g *Game) indexOf(name string) int {
	for i, p := range g.Players {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// HasPlayer сообщает, зарегистрирован ли игрок с таким именем.
func (g *Game) HasPlayer(name string) bool {
	return g.indexOf(name) >= 0
}

// AddPlayer добавляет игрока в конец списка со счётом 0.
func (g *Game) AddPlayer(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyPlayerName
	}
	if g.HasPlayer(name) {
		return ErrPlayerAlreadyExists
	}
	g.Players = append(g.Players, PlayerScore{Name: name})
	return nil
}

// AddScore прибавляет delta к счёту игрока и возвращает новый счёт.
// Отрицательные значения допускаются. Если сумма не помещается в int64,
// возвращается ErrScoreOverflow и счёт не меняется.
func (g *Game) AddScore(name string, delta int64) (int64, error) {
	i := g.indexOf(name)
	if i < 0 {
		return 0, ErrPlayerNotFound
	}
	score := g.Players[i].Score
	if (delta > 0 && score > math.MaxInt64-delta) || (delta < 0 && score < math.MinInt64-delta) {
		return score, ErrScoreOverflow
	}
	g.Players[i].Score += delta
	return g.Players[i].Score, nil
}

// Score возвращает текущий счёт игрока.
func (g *Game) Score(name string) (int64, bool) {
	i := g.indexOf(name)
	if i < 0 {
		return 0, false
	}
	return g.Players[i].Score, true
}
