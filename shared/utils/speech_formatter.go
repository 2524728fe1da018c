package utils

import (
	"strconv"
	"strings"

	"drivethru-server/shared/models"
)

// PointsWord возвращает "point" только для ровно одного очка, иначе "points" (включая 0 и отрицательные).
func PointsWord(score int64) string {
	if score == 1 {
		return "point"
	}
	return "points"
}

// FormatPlayerScore формирует фразу "<name> has <score> point(s), ".
func FormatPlayerScore(p models.PlayerScore) string {
	return p.Name + " has " + strconv.FormatInt(p.Score, 10) + " " + PointsWord(p.Score) + ", "
}

// FormatScoresSpeech перечисляет очки всех игроков в порядке их добавления.
// Перед последним игроком (если игроков больше одного) вставляется "and".
// Функция чистая: одинаковый вход всегда дает одинаковый текст.
func FormatScoresSpeech(players []models.PlayerScore) string {
	var sb strings.Builder
	for i, p := range players {
		if len(players) > 1 && i == len(players)-1 {
			// предыдущая фраза уже заканчивается на ", "
			sb.WriteString("and ")
		}
		sb.WriteString(FormatPlayerScore(p))
	}
	return sb.String()
}
