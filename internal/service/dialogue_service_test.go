package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"

	sharedMocks "drivethru-server/shared/interfaces/mocks"
	"drivethru-server/shared/models"
	"drivethru-server/shared/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memoryStore - простая реализация обоих репозиториев для сценарных тестов.
// Хранит копии, чтобы сервис не мог изменить сохранённое состояние в обход Save.
type memoryStore struct {
	mu       sync.Mutex
	games    map[string]models.Game
	sessions map[string]models.Session

	// Количество следующих Save, которые завершатся ошибкой.
	failGameSaves    int
	failSessionSaves int
}

var errStoreDown = errors.New("store down")

func newMemoryStore() *memoryStore {
	return &memoryStore{
		games:    make(map[string]models.Game),
		sessions: make(map[string]models.Session),
	}
}

type memoryGames struct{ *memoryStore }
type memorySessions struct{ *memoryStore }

func (m memoryGames) GetByID(_ context.Context, id string) (*models.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	g.Players = append([]models.PlayerScore(nil), g.Players...)
	return &g, nil
}

func (m memoryGames) Save(_ context.Context, g *models.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGameSaves > 0 {
		m.failGameSaves--
		return errStoreDown
	}
	cp := *g
	cp.Players = append([]models.PlayerScore(nil), g.Players...)
	m.games[g.ID] = cp
	return nil
}

func (m memorySessions) GetByID(_ context.Context, id string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &s, nil
}

func (m memorySessions) Save(_ context.Context, s *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSessionSaves > 0 {
		m.failSessionSaves--
		return errStoreDown
	}
	m.sessions[s.ID] = *s
	return nil
}

func (m *memoryStore) game(id string) (models.Game, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[id]
	return g, ok
}

func (m *memoryStore) failNext(games, sessions int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failGameSaves = games
	m.failSessionSaves = sessions
}

func (m *memoryStore) session(id string) (models.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

func newTestService(games *memoryStore) *dialogueServiceImpl {
	svc := NewDialogueService(memoryGames{games}, memorySessions{games}, nil, zap.NewNop()).(*dialogueServiceImpl)
	n := 0
	svc.newGameID = func() string {
		n++
		return fmt.Sprintf("game-%d", n)
	}
	return svc
}

func nameEvent(sessionID, name string) models.Event {
	return models.Event{
		SessionID: sessionID,
		Intent:    models.IntentProvideName,
		Slots:     map[string]string{models.SlotPlayerName: name},
	}
}

func scoreEvent(sessionID, name, score string) models.Event {
	return models.Event{
		SessionID: sessionID,
		Intent:    models.IntentAddScore,
		Slots:     map[string]string{models.SlotPlayerName: name, models.SlotScoreNumber: score},
	}
}

func TestLaunch(t *testing.T) {
	ctx := context.Background()

	t.Run("No session greets and does not write", func(t *testing.T) {
		games := new(sharedMocks.GameRepository)
		sessions := new(sharedMocks.SessionRepository)
		svc := NewDialogueService(games, sessions, nil, zap.NewNop())

		sessions.On("GetByID", ctx, "s1").Return(nil, models.ErrNotFound).Once()

		resp, err := svc.Launch(ctx, models.Event{SessionID: "s1", Intent: models.IntentLaunch})
		require.NoError(t, err)
		assert.Equal(t, textLaunch, resp.SpeechText)
		assert.Equal(t, textLaunchReprompt, resp.RepromptText)
		assert.False(t, resp.ShouldEndSession)
		require.NotNil(t, resp.Card)
		assert.Equal(t, utils.SessionCardTitle, resp.Card.Title)

		sessions.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		games.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		sessions.AssertExpectations(t)
	})

	t.Run("Existing game mentions player count", func(t *testing.T) {
		store := newMemoryStore()
		svc := newTestService(store)

		_, err := svc.ProvideName(ctx, nameEvent("s1", "A"))
		require.NoError(t, err)
		_, err = svc.ProvideName(ctx, nameEvent("s1", "B"))
		require.NoError(t, err)

		resp, err := svc.Launch(ctx, models.Event{SessionID: "s1", Intent: models.IntentLaunch})
		require.NoError(t, err)
		assert.Equal(t, "Good Evening..., there are 2 players in your game. May I know the next name ?", resp.SpeechText)
	})

	t.Run("Repeated launch is idempotent", func(t *testing.T) {
		store := newMemoryStore()
		svc := newTestService(store)

		first, err := svc.Launch(ctx, models.Event{SessionID: "s1"})
		require.NoError(t, err)
		second, err := svc.Launch(ctx, models.Event{SessionID: "s1"})
		require.NoError(t, err)
		assert.Equal(t, first, second)
		_, ok := store.session("s1")
		assert.False(t, ok)
	})
}

func TestProvideName(t *testing.T) {
	ctx := context.Background()

	t.Run("First name creates game and session", func(t *testing.T) {
		games := new(sharedMocks.GameRepository)
		sessions := new(sharedMocks.SessionRepository)
		publisher := new(sharedMocks.ScoreEventPublisher)
		svc := NewDialogueService(games, sessions, publisher, zap.NewNop())

		sessions.On("GetByID", ctx, "s1").Return(nil, models.ErrNotFound).Once()

		var savedGameID string
		games.On("Save", ctx, mock.MatchedBy(func(g *models.Game) bool {
			return assert.Len(t, g.Players, 1) && assert.Equal(t, "Ann", g.Players[0].Name)
		})).Run(func(args mock.Arguments) {
			savedGameID = args.Get(1).(*models.Game).ID
		}).Return(nil).Once()

		sessions.On("Save", ctx, mock.MatchedBy(func(s *models.Session) bool {
			return s.ID == "s1" &&
				s.State == models.StateAwaitingScore &&
				s.PendingPlayerName == "Ann" &&
				s.NeedsMoreHelp &&
				s.GameID != ""
		})).Return(nil).Once()

		publisher.On("PublishScoreEvent", ctx, mock.MatchedBy(func(e models.ScoreEvent) bool {
			return e.Type == models.ScoreEventPlayerAdded && e.PlayerName == "Ann" && e.SessionID == "s1"
		})).Return(nil).Once()

		resp, err := svc.ProvideName(ctx, nameEvent("s1", "  Ann "))
		require.NoError(t, err)
		assert.Equal(t, "Thank you, Ann. Can you please give me your order ?", resp.SpeechText)
		assert.Equal(t, textOrderPrompt, resp.RepromptText)
		assert.False(t, resp.ShouldEndSession)
		assert.NotEmpty(t, savedGameID)

		games.AssertExpectations(t)
		sessions.AssertExpectations(t)
		publisher.AssertExpectations(t)
	})

	t.Run("Duplicate name asks again without writes", func(t *testing.T) {
		games := new(sharedMocks.GameRepository)
		sessions := new(sharedMocks.SessionRepository)
		svc := NewDialogueService(games, sessions, nil, zap.NewNop())

		session := models.NewSession("s1")
		session.GameID = "g1"
		game := models.NewGame("g1")
		require.NoError(t, game.AddPlayer("Ann"))

		sessions.On("GetByID", ctx, "s1").Return(session, nil).Once()
		games.On("GetByID", ctx, "g1").Return(game, nil).Once()

		resp, err := svc.ProvideName(ctx, nameEvent("s1", "Ann"))
		require.NoError(t, err)
		assert.Equal(t, "Ann is already in the game. May I know your name ?", resp.SpeechText)
		assert.False(t, resp.ShouldEndSession)

		games.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		sessions.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("Empty name asks again", func(t *testing.T) {
		games := new(sharedMocks.GameRepository)
		sessions := new(sharedMocks.SessionRepository)
		svc := NewDialogueService(games, sessions, nil, zap.NewNop())

		resp, err := svc.ProvideName(ctx, nameEvent("s1", "   "))
		require.NoError(t, err)
		assert.Equal(t, textAskNameAgain, resp.SpeechText)
		sessions.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("Names accumulate in insertion order", func(t *testing.T) {
		store := newMemoryStore()
		svc := newTestService(store)
		for _, name := range []string{"B", "A", "C"} {
			_, err := svc.ProvideName(ctx, nameEvent("s1", name))
			require.NoError(t, err)
		}
		game, err := svc.GetGame(ctx, "game-1")
		require.NoError(t, err)
		assert.Equal(t, []models.PlayerScore{{Name: "B"}, {Name: "A"}, {Name: "C"}}, game.Players)
	})
}

func TestHelp(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	svc := newTestService(store)

	first, err := svc.Help(ctx, models.Event{SessionID: "s1", Intent: models.IntentHelp})
	require.NoError(t, err)
	assert.Equal(t, textCompleteHelp+textHelpPrompt, first.SpeechText)
	assert.Equal(t, textNextHelp, first.RepromptText)
	assert.False(t, first.ShouldEndSession)

	second, err := svc.Help(ctx, models.Event{SessionID: "s1", Intent: models.IntentHelp})
	require.NoError(t, err)
	assert.Equal(t, textNextHelp, second.SpeechText)

	session, ok := store.session("s1")
	require.True(t, ok)
	assert.Equal(t, 2, session.HelpCount)
	assert.True(t, session.NeedsMoreHelp)
}

func TestExit(t *testing.T) {
	ctx := context.Background()

	t.Run("Before any score nudges and keeps session open", func(t *testing.T) {
		store := newMemoryStore()
		svc := newTestService(store)
		_, err := svc.ProvideName(ctx, nameEvent("s1", "Ann"))
		require.NoError(t, err)

		resp, err := svc.Exit(ctx, models.Event{SessionID: "s1", Intent: models.IntentStop})
		require.NoError(t, err)
		assert.Equal(t, textExitNudge, resp.SpeechText)
		assert.False(t, resp.ShouldEndSession)

		session, _ := store.session("s1")
		assert.Equal(t, models.StateAwaitingScore, session.State)
	})

	t.Run("After a score ends the session", func(t *testing.T) {
		store := newMemoryStore()
		svc := newTestService(store)
		_, err := svc.ProvideName(ctx, nameEvent("s1", "Ann"))
		require.NoError(t, err)
		_, err = svc.AddScore(ctx, scoreEvent("s1", "Ann", "2"))
		require.NoError(t, err)

		resp, err := svc.HandleEvent(ctx, models.Event{SessionID: "s1", Intent: models.IntentCancel})
		require.NoError(t, err)
		assert.Empty(t, resp.SpeechText)
		assert.True(t, resp.ShouldEndSession)
		assert.Nil(t, resp.Card)

		session, _ := store.session("s1")
		assert.Equal(t, models.StateEnded, session.State)

		// Завершённая сессия не принимает очки.
		resp, err = svc.AddScore(ctx, scoreEvent("s1", "Ann", "1"))
		require.NoError(t, err)
		assert.Equal(t, textStartFirst, resp.SpeechText)
	})

	t.Run("No session nudges", func(t *testing.T) {
		games := new(sharedMocks.GameRepository)
		sessions := new(sharedMocks.SessionRepository)
		svc := NewDialogueService(games, sessions, nil, zap.NewNop())
		sessions.On("GetByID", ctx, "s1").Return(nil, models.ErrNotFound).Once()

		resp, err := svc.Exit(ctx, models.Event{SessionID: "s1"})
		require.NoError(t, err)
		assert.Equal(t, textExitNudge, resp.SpeechText)
		sessions.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestAddScore(t *testing.T) {
	ctx := context.Background()

	t.Run("Three players hear every score", func(t *testing.T) {
		store := newMemoryStore()
		svc := newTestService(store)
		for _, name := range []string{"A", "B", "C"} {
			_, err := svc.ProvideName(ctx, nameEvent("s1", name))
			require.NoError(t, err)
		}

		_, err := svc.AddScore(ctx, scoreEvent("s1", "A", "5"))
		require.NoError(t, err)
		_, err = svc.AddScore(ctx, scoreEvent("s1", "B", "3"))
		require.NoError(t, err)
		resp, err := svc.AddScore(ctx, scoreEvent("s1", "C", "5"))
		require.NoError(t, err)

		assert.Equal(t, "5 points for C. A has 5 points, B has 3 points, and C has 5 points, ", resp.SpeechText)
		assert.False(t, resp.ShouldEndSession)
		require.NotNil(t, resp.Card)
		assert.Equal(t, utils.LeaderboardCardTitle, resp.Card.Title)
		assert.Equal(t, "No. 1 - A : 5\nNo. 2 - B : 3\nNo. 3 - C : 5\n", resp.Card.Body)

		session, _ := store.session("s1")
		assert.False(t, session.NeedsMoreHelp)
		assert.Equal(t, models.StateInGame, session.State)
		assert.Empty(t, session.PendingPlayerName)
	})

	t.Run("Four players hear only the updated score", func(t *testing.T) {
		store := newMemoryStore()
		svc := newTestService(store)
		for _, name := range []string{"A", "B", "C", "D"} {
			_, err := svc.ProvideName(ctx, nameEvent("s1", name))
			require.NoError(t, err)
		}

		resp, err := svc.AddScore(ctx, scoreEvent("s1", "B", "1"))
		require.NoError(t, err)
		assert.Equal(t, "1 point for B. B has 1 point, ", resp.SpeechText)
		assert.Equal(t, "No. 1 - A : 0\nNo. 2 - B : 1\nNo. 3 - C : 0\nNo. 4 - D : 0\n", resp.Card.Body)
	})

	t.Run("Negative delta is applied as is", func(t *testing.T) {
		store := newMemoryStore()
		svc := newTestService(store)
		_, err := svc.ProvideName(ctx, nameEvent("s1", "A"))
		require.NoError(t, err)

		resp, err := svc.AddScore(ctx, scoreEvent("s1", "A", "-3"))
		require.NoError(t, err)
		assert.Equal(t, "-3 points for A. A has -3 points, ", resp.SpeechText)
	})

	t.Run("Missing name falls back to pending player", func(t *testing.T) {
		store := newMemoryStore()
		svc := newTestService(store)
		_, err := svc.ProvideName(ctx, nameEvent("s1", "Ann"))
		require.NoError(t, err)

		resp, err := svc.AddScore(ctx, models.Event{
			SessionID: "s1",
			Intent:    models.IntentAddScore,
			Slots:     map[string]string{models.SlotScoreNumber: "4"},
		})
		require.NoError(t, err)
		assert.Equal(t, "4 points for Ann. Ann has 4 points, ", resp.SpeechText)
	})

	t.Run("Non-integer score asks again", func(t *testing.T) {
		store := newMemoryStore()
		svc := newTestService(store)
		_, err := svc.ProvideName(ctx, nameEvent("s1", "Ann"))
		require.NoError(t, err)

		resp, err := svc.AddScore(ctx, scoreEvent("s1", "Ann", "lots"))
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf(textAskScore, "Ann"), resp.SpeechText)
		assert.False(t, resp.ShouldEndSession)

		game, err := svc.GetGame(ctx, "game-1")
		require.NoError(t, err)
		assert.Equal(t, int64(0), game.Players[0].Score)
	})

	t.Run("Overflowing score asks again", func(t *testing.T) {
		store := newMemoryStore()
		svc := newTestService(store)
		_, err := svc.ProvideName(ctx, nameEvent("s1", "Ann"))
		require.NoError(t, err)
		_, err = svc.AddScore(ctx, scoreEvent("s1", "Ann", "9223372036854775807"))
		require.NoError(t, err)

		resp, err := svc.AddScore(ctx, scoreEvent("s1", "Ann", "1"))
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf(textAskScore, "Ann"), resp.SpeechText)

		game, _ := store.game("game-1")
		assert.Equal(t, int64(math.MaxInt64), game.Players[0].Score)
	})

	t.Run("Unknown player asks again", func(t *testing.T) {
		store := newMemoryStore()
		svc := newTestService(store)
		_, err := svc.ProvideName(ctx, nameEvent("s1", "Ann"))
		require.NoError(t, err)

		resp, err := svc.AddScore(ctx, scoreEvent("s1", "Bob", "2"))
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf(textUnknownPlayer, "Bob"), resp.SpeechText)
	})

	t.Run("No game asks to start", func(t *testing.T) {
		store := newMemoryStore()
		svc := newTestService(store)
		resp, err := svc.AddScore(ctx, scoreEvent("s1", "Ann", "2"))
		require.NoError(t, err)
		assert.Equal(t, textStartFirst, resp.SpeechText)
	})

	t.Run("Publisher failure does not fail the turn", func(t *testing.T) {
		games := new(sharedMocks.GameRepository)
		sessions := new(sharedMocks.SessionRepository)
		publisher := new(sharedMocks.ScoreEventPublisher)
		svc := NewDialogueService(games, sessions, publisher, zap.NewNop())

		session := models.NewSession("s1")
		session.GameID = "g1"
		game := models.NewGame("g1")
		require.NoError(t, game.AddPlayer("Ann"))

		sessions.On("GetByID", ctx, "s1").Return(session, nil).Once()
		games.On("GetByID", ctx, "g1").Return(game, nil).Once()
		games.On("Save", ctx, game).Return(nil).Once()
		sessions.On("Save", ctx, session).Return(nil).Once()
		publisher.On("PublishScoreEvent", ctx, mock.MatchedBy(func(e models.ScoreEvent) bool {
			return e.Type == models.ScoreEventScoreUpdated && e.Delta == 2 && e.Score == 2
		})).Return(errors.New("broker down")).Once()

		resp, err := svc.AddScore(ctx, scoreEvent("s1", "Ann", "2"))
		require.NoError(t, err)
		assert.Equal(t, "2 points for Ann. Ann has 2 points, ", resp.SpeechText)
		games.AssertExpectations(t)
		sessions.AssertExpectations(t)
		publisher.AssertExpectations(t)
	})
}

func TestTellScores(t *testing.T) {
	ctx := context.Background()

	t.Run("Lists up to three players", func(t *testing.T) {
		store := newMemoryStore()
		svc := newTestService(store)
		for _, name := range []string{"B", "A"} {
			_, err := svc.ProvideName(ctx, nameEvent("s1", name))
			require.NoError(t, err)
		}
		_, err := svc.AddScore(ctx, scoreEvent("s1", "B", "10"))
		require.NoError(t, err)
		_, err = svc.AddScore(ctx, scoreEvent("s1", "A", "2"))
		require.NoError(t, err)

		resp, err := svc.TellScores(ctx, models.Event{SessionID: "s1", Intent: models.IntentTellScores})
		require.NoError(t, err)
		assert.Equal(t, "B has 10 points, and A has 2 points, ", resp.SpeechText)
		assert.Equal(t, "No. 1 - B : 10\nNo. 2 - A : 2\n", resp.Card.Body)
	})

	t.Run("More than three points to the card", func(t *testing.T) {
		store := newMemoryStore()
		svc := newTestService(store)
		for _, name := range []string{"A", "B", "C", "D"} {
			_, err := svc.ProvideName(ctx, nameEvent("s1", name))
			require.NoError(t, err)
		}
		resp, err := svc.TellScores(ctx, models.Event{SessionID: "s1"})
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf(textTooManyToList, 4), resp.SpeechText)
		assert.Equal(t, utils.LeaderboardCardTitle, resp.Card.Title)
	})
}

func TestNewGame(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	svc := newTestService(store)

	_, err := svc.ProvideName(ctx, nameEvent("s1", "Ann"))
	require.NoError(t, err)

	resp, err := svc.NewGame(ctx, models.Event{SessionID: "s1", Intent: models.IntentNewGame})
	require.NoError(t, err)
	assert.Equal(t, textNewGameStarted, resp.SpeechText)

	session, _ := store.session("s1")
	assert.Equal(t, "game-2", session.GameID)
	assert.Equal(t, models.StateAwaitingName, session.State)

	// Старая игра не тронута, новая пуста.
	old, err := svc.GetGame(ctx, "game-1")
	require.NoError(t, err)
	assert.Len(t, old.Players, 1)
	fresh, err := svc.GetGame(ctx, "game-2")
	require.NoError(t, err)
	assert.Empty(t, fresh.Players)

	// Имя снова можно использовать в новой игре.
	resp, err = svc.ProvideName(ctx, nameEvent("s1", "Ann"))
	require.NoError(t, err)
	assert.Equal(t, "Thank you, Ann. Can you please give me your order ?", resp.SpeechText)
}

func TestHandleEvent_UnknownIntent(t *testing.T) {
	svc := newTestService(newMemoryStore())
	resp, err := svc.HandleEvent(context.Background(), models.Event{SessionID: "s1", Intent: "SomethingElse"})
	require.NoError(t, err)
	assert.Equal(t, textUnknownIntent+textNextHelp, resp.SpeechText)
	assert.False(t, resp.ShouldEndSession)
}

func TestStorageErrors(t *testing.T) {
	ctx := context.Background()
	dbErr := errors.New("connection refused")

	t.Run("Session load failure", func(t *testing.T) {
		games := new(sharedMocks.GameRepository)
		sessions := new(sharedMocks.SessionRepository)
		svc := NewDialogueService(games, sessions, nil, zap.NewNop())
		sessions.On("GetByID", ctx, "s1").Return(nil, dbErr).Once()

		resp, err := svc.AddScore(ctx, scoreEvent("s1", "Ann", "1"))
		assert.Nil(t, resp)
		assert.ErrorIs(t, err, ErrStorage)
		assert.ErrorIs(t, err, dbErr)
	})

	t.Run("Game save failure", func(t *testing.T) {
		games := new(sharedMocks.GameRepository)
		sessions := new(sharedMocks.SessionRepository)
		svc := NewDialogueService(games, sessions, nil, zap.NewNop())
		sessions.On("GetByID", ctx, "s1").Return(nil, models.ErrNotFound).Once()
		sessions.On("Save", ctx, mock.Anything).Return(nil).Once()
		games.On("Save", ctx, mock.Anything).Return(dbErr).Once()

		resp, err := svc.ProvideName(ctx, nameEvent("s1", "Ann"))
		assert.Nil(t, resp)
		assert.ErrorIs(t, err, ErrStorage)
		sessions.AssertExpectations(t)
	})

	t.Run("Session save failure keeps score untouched", func(t *testing.T) {
		store := newMemoryStore()
		svc := newTestService(store)
		_, err := svc.ProvideName(ctx, nameEvent("s1", "Ann"))
		require.NoError(t, err)

		store.failNext(0, 1)
		resp, err := svc.AddScore(ctx, scoreEvent("s1", "Ann", "5"))
		assert.Nil(t, resp)
		require.ErrorIs(t, err, ErrStorage)
		game, _ := store.game("game-1")
		assert.Equal(t, int64(0), game.Players[0].Score)

		resp, err = svc.AddScore(ctx, scoreEvent("s1", "Ann", "5"))
		require.NoError(t, err)
		assert.Equal(t, "5 points for Ann. Ann has 5 points, ", resp.SpeechText)
		game, _ = store.game("game-1")
		assert.Equal(t, int64(5), game.Players[0].Score)
	})

	t.Run("Game save failure on AddScore applies score once on retry", func(t *testing.T) {
		store := newMemoryStore()
		svc := newTestService(store)
		_, err := svc.ProvideName(ctx, nameEvent("s1", "Ann"))
		require.NoError(t, err)

		store.failNext(1, 0)
		_, err = svc.AddScore(ctx, scoreEvent("s1", "Ann", "5"))
		require.ErrorIs(t, err, ErrStorage)

		resp, err := svc.AddScore(ctx, scoreEvent("s1", "Ann", "5"))
		require.NoError(t, err)
		assert.Equal(t, "5 points for Ann. Ann has 5 points, ", resp.SpeechText)
		game, _ := store.game("game-1")
		assert.Equal(t, int64(5), game.Players[0].Score)
	})

	t.Run("Session save failure on ProvideName writes no game", func(t *testing.T) {
		store := newMemoryStore()
		svc := newTestService(store)

		store.failNext(0, 1)
		_, err := svc.ProvideName(ctx, nameEvent("s1", "Ann"))
		require.ErrorIs(t, err, ErrStorage)
		_, ok := store.game("game-1")
		assert.False(t, ok)
		_, ok = store.session("s1")
		assert.False(t, ok)
	})

	t.Run("Game save failure on ProvideName recovers on retry", func(t *testing.T) {
		store := newMemoryStore()
		svc := newTestService(store)

		store.failNext(1, 0)
		_, err := svc.ProvideName(ctx, nameEvent("s1", "Ann"))
		require.ErrorIs(t, err, ErrStorage)

		resp, err := svc.ProvideName(ctx, nameEvent("s1", "Ann"))
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf(textAskOrder, "Ann"), resp.SpeechText)

		session, ok := store.session("s1")
		require.True(t, ok)
		game, ok := store.game(session.GameID)
		require.True(t, ok)
		assert.Equal(t, []models.PlayerScore{{Name: "Ann"}}, game.Players)
	})

	t.Run("GetGame unknown id", func(t *testing.T) {
		games := new(sharedMocks.GameRepository)
		svc := NewDialogueService(games, new(sharedMocks.SessionRepository), nil, zap.NewNop())
		games.On("GetByID", ctx, "missing").Return(nil, models.ErrNotFound).Once()

		_, err := svc.GetGame(ctx, "missing")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}
