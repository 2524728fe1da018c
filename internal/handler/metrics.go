package handler

import (
	"drivethru-server/shared/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	dialogueEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drivethru_dialogue_events_total",
			Help: "Total number of dialogue events by intent and outcome.",
		},
		[]string{"intent", "outcome"},
	)

	sessionsEndedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "drivethru_sessions_ended_total",
		Help: "Total number of dialogue sessions closed by the user.",
	})

	leaderboardRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drivethru_leaderboard_requests_total",
			Help: "Total number of leaderboard lookups by status.",
		},
		[]string{"status"},
	)
)

// intentLabel ограничивает метку intent известными интентами.
func intentLabel(intent string) string {
	switch intent {
	case models.IntentLaunch, models.IntentProvideName, models.IntentAddScore,
		models.IntentTellScores, models.IntentNewGame, models.IntentHelp,
		models.IntentStop, models.IntentCancel:
		return intent
	default:
		return "unknown"
	}
}
