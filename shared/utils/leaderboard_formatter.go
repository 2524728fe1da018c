package utils

import (
	"fmt"
	"strings"

	"drivethru-server/shared/models"
)

const (
	LeaderboardCardTitle = "Leaderboard"
	SessionCardTitle     = "Session"
)

// FormatLeaderboard строит тело карточки лидеров: "No. <rank> - <name> : <score>" по строке на игрока.
// Место определяется порядком добавления игрока, а не количеством очков.
func FormatLeaderboard(players []models.PlayerScore) string {
	var sb strings.Builder
	for i, p := range players {
		fmt.Fprintf(&sb, "No. %d - %s : %d\n", i+1, p.Name, p.Score)
	}
	return sb.String()
}

// LeaderboardCard возвращает карточку "Leaderboard" со всеми игроками.
func LeaderboardCard(players []models.PlayerScore) *models.Card {
	return &models.Card{
		Title: LeaderboardCardTitle,
		Body:  FormatLeaderboard(players),
	}
}

// SessionCard - простая карточка, дублирующая произнесённый текст.
func SessionCard(speech string) *models.Card {
	return &models.Card{
		Title: SessionCardTitle,
		Body:  speech,
	}
}
