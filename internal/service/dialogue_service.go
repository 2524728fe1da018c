package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"drivethru-server/shared/interfaces"
	"drivethru-server/shared/models"
	"drivethru-server/shared/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DialogueService - конечный автомат диалога: по одному методу на тип события.
// Ошибку возвращают только сбои хранилища (обёрнуты в ErrStorage), всё остальное
// превращается в переспрос.
type DialogueService interface {
	HandleEvent(ctx context.Context, event models.Event) (*models.Response, error)

	Launch(ctx context.Context, event models.Event) (*models.Response, error)
	ProvideName(ctx context.Context, event models.Event) (*models.Response, error)
	Help(ctx context.Context, event models.Event) (*models.Response, error)
	Exit(ctx context.Context, event models.Event) (*models.Response, error)
	AddScore(ctx context.Context, event models.Event) (*models.Response, error)
	TellScores(ctx context.Context, event models.Event) (*models.Response, error)
	NewGame(ctx context.Context, event models.Event) (*models.Response, error)

	// GetGame возвращает игру для внешних табло. Returns models.ErrNotFound for unknown ids.
	GetGame(ctx context.Context, gameID string) (*models.Game, error)
}

type dialogueServiceImpl struct {
	games     interfaces.GameRepository
	sessions  interfaces.SessionRepository
	publisher interfaces.ScoreEventPublisher // может быть nil: события отключены
	newGameID func() string
	logger    *zap.Logger
}

// NewDialogueService создает новый сервис диалога.
func NewDialogueService(
	games interfaces.GameRepository,
	sessions interfaces.SessionRepository,
	publisher interfaces.ScoreEventPublisher,
	logger *zap.Logger,
) DialogueService {
	return &dialogueServiceImpl{
		games:     games,
		sessions:  sessions,
		publisher: publisher,
		newGameID: uuid.NewString,
		logger:    logger.Named("DialogueService"),
	}
}

// HandleEvent выбирает обработчик по имени интента.
func (s *dialogueServiceImpl) HandleEvent(ctx context.Context, event models.Event) (*models.Response, error) {
	switch event.Intent {
	case models.IntentLaunch:
		return s.Launch(ctx, event)
	case models.IntentProvideName:
		return s.ProvideName(ctx, event)
	case models.IntentHelp:
		return s.Help(ctx, event)
	case models.IntentStop, models.IntentCancel:
		return s.Exit(ctx, event)
	case models.IntentAddScore:
		return s.AddScore(ctx, event)
	case models.IntentTellScores:
		return s.TellScores(ctx, event)
	case models.IntentNewGame:
		return s.NewGame(ctx, event)
	default:
		s.logger.Info("Unknown intent", zap.String("intent", event.Intent), zap.String("sessionID", event.SessionID))
		return askResponse(textUnknownIntent+textNextHelp, textNextHelp), nil
	}
}

// Launch приветствует пользователя и спрашивает имя. Ничего не сохраняет.
func (s *dialogueServiceImpl) Launch(ctx context.Context, event models.Event) (*models.Response, error) {
	session, err := s.loadLiveSession(ctx, event.SessionID)
	if err != nil {
		return nil, err
	}
	game, err := s.loadGame(ctx, session)
	if err != nil {
		return nil, err
	}

	if game != nil && game.Len() > 0 {
		verb, noun := "is", "player"
		if game.Len() != 1 {
			verb, noun = "are", "players"
		}
		return askResponse(fmt.Sprintf(textLaunchWithPlayers, verb, game.Len(), noun), textLaunchReprompt), nil
	}
	return askResponse(textLaunch, textLaunchReprompt), nil
}

// ProvideName регистрирует игрока. Первое имя в сессии создает игру.
func (s *dialogueServiceImpl) ProvideName(ctx context.Context, event models.Event) (*models.Response, error) {
	log := s.logger.With(zap.String("sessionID", event.SessionID))

	name := strings.TrimSpace(event.Slot(models.SlotPlayerName))
	if name == "" {
		log.Debug("Empty player name slot, asking again")
		return askResponse(textAskNameAgain, textLaunchReprompt), nil
	}

	session, err := s.loadLiveSession(ctx, event.SessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		session = models.NewSession(event.SessionID)
	}
	game, err := s.loadGame(ctx, session)
	if err != nil {
		return nil, err
	}
	if game == nil {
		game = models.NewGame(s.newGameID())
		session.GameID = game.ID
		log.Info("Creating new game for session", zap.String("gameID", game.ID))
	}

	if game.HasPlayer(name) {
		log.Debug("Player already registered, asking again", zap.String("player", name))
		return askResponse(fmt.Sprintf(textNameTaken, name), textLaunchReprompt), nil
	}
	if err := game.AddPlayer(name); err != nil {
		return askResponse(textAskNameAgain, textLaunchReprompt), nil
	}

	// Сессия сохраняется первой: запись игры завершает ход. Сессия, ссылающаяся
	// на несохранённую игру, при следующем ходе считается сессией без игры.
	session.PendingPlayerName = name
	session.State = models.StateAwaitingScore
	if err := s.saveSession(ctx, session); err != nil {
		return nil, err
	}
	if err := s.saveGame(ctx, game); err != nil {
		return nil, err
	}

	s.publish(ctx, models.ScoreEvent{
		Type:       models.ScoreEventPlayerAdded,
		GameID:     game.ID,
		SessionID:  session.ID,
		PlayerName: name,
		Players:    game.Players,
	})
	log.Info("Player registered", zap.String("gameID", game.ID), zap.String("player", name), zap.Int("players", game.Len()))

	return askResponse(fmt.Sprintf(textAskOrder, name), textOrderPrompt), nil
}

// Help выдает полную справку при первом запросе в сессии и короткую подсказку при последующих.
func (s *dialogueServiceImpl) Help(ctx context.Context, event models.Event) (*models.Response, error) {
	session, err := s.loadLiveSession(ctx, event.SessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		session = models.NewSession(event.SessionID)
	}

	var resp *models.Response
	if session.HelpCount == 0 {
		resp = askResponse(textCompleteHelp+textHelpPrompt, textNextHelp)
	} else {
		resp = askResponse(textNextHelp, textNextHelp)
	}

	session.HelpCount++
	if err := s.saveSession(ctx, session); err != nil {
		return nil, err
	}
	return resp, nil
}

// Exit завершает сессию, если пользователь уже начислял очки. Иначе подбадривает продолжить.
func (s *dialogueServiceImpl) Exit(ctx context.Context, event models.Event) (*models.Response, error) {
	session, err := s.loadLiveSession(ctx, event.SessionID)
	if err != nil {
		return nil, err
	}
	if session == nil || session.NeedsMoreHelp {
		return askResponse(textExitNudge, textNextHelp), nil
	}

	session.State = models.StateEnded
	session.PendingPlayerName = ""
	if err := s.saveSession(ctx, session); err != nil {
		return nil, err
	}
	s.logger.Info("Session ended", zap.String("sessionID", session.ID), zap.String("gameID", session.GameID))
	return models.NewTellResponse("", true, nil), nil
}

// AddScore прибавляет очки игроку и зачитывает результат.
func (s *dialogueServiceImpl) AddScore(ctx context.Context, event models.Event) (*models.Response, error) {
	log := s.logger.With(zap.String("sessionID", event.SessionID))

	session, err := s.loadLiveSession(ctx, event.SessionID)
	if err != nil {
		return nil, err
	}
	game, err := s.loadGame(ctx, session)
	if err != nil {
		return nil, err
	}
	if game == nil {
		log.Debug("AddScore without a game, asking to start first")
		return askResponse(textStartFirst, textLaunchReprompt), nil
	}

	name := strings.TrimSpace(event.Slot(models.SlotPlayerName))
	if name == "" {
		name = session.PendingPlayerName
	}
	if name == "" {
		return askResponse(textWhichPlayer, textWhichPlayer), nil
	}
	if !game.HasPlayer(name) {
		log.Debug("Unknown player in AddScore", zap.String("player", name))
		return askResponse(fmt.Sprintf(textUnknownPlayer, name), textWhichPlayer), nil
	}

	delta, err := strconv.ParseInt(strings.TrimSpace(event.Slot(models.SlotScoreNumber)), 10, 64)
	if err != nil {
		log.Debug("Score slot is not an integer", zap.String("value", event.Slot(models.SlotScoreNumber)))
		prompt := fmt.Sprintf(textAskScore, name)
		return askResponse(prompt, prompt), nil
	}

	newScore, err := game.AddScore(name, delta)
	if errors.Is(err, models.ErrScoreOverflow) {
		log.Debug("Score delta overflows player score", zap.String("player", name), zap.Int64("delta", delta))
		prompt := fmt.Sprintf(textAskScore, name)
		return askResponse(prompt, prompt), nil
	}
	if err != nil {
		return askResponse(fmt.Sprintf(textUnknownPlayer, name), textWhichPlayer), nil
	}

	// Изменения сессии идемпотентны, поэтому она пишется до игры: при сбое
	// на любом шаге повтор хода начисляет очки ровно один раз.
	session.PendingPlayerName = ""
	session.NeedsMoreHelp = false
	session.State = models.StateInGame
	if err := s.saveSession(ctx, session); err != nil {
		return nil, err
	}
	if err := s.saveGame(ctx, game); err != nil {
		return nil, err
	}

	s.publish(ctx, models.ScoreEvent{
		Type:       models.ScoreEventScoreUpdated,
		GameID:     game.ID,
		SessionID:  session.ID,
		PlayerName: name,
		Delta:      delta,
		Score:      newScore,
		Players:    game.Players,
	})
	log.Info("Score added",
		zap.String("gameID", game.ID),
		zap.String("player", name),
		zap.Int64("delta", delta),
		zap.Int64("score", newScore),
	)

	speech := fmt.Sprintf(textScoreConfirm, delta, utils.PointsWord(delta), name)
	if game.Len() <= models.MaxPlayersForSpeech {
		speech += utils.FormatScoresSpeech(game.Players)
	} else {
		speech += utils.FormatPlayerScore(models.PlayerScore{Name: name, Score: newScore})
	}
	return models.NewTellResponse(speech, false, utils.LeaderboardCard(game.Players)), nil
}

// TellScores зачитывает текущие очки без изменения состояния.
func (s *dialogueServiceImpl) TellScores(ctx context.Context, event models.Event) (*models.Response, error) {
	session, err := s.loadLiveSession(ctx, event.SessionID)
	if err != nil {
		return nil, err
	}
	game, err := s.loadGame(ctx, session)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return askResponse(textStartFirst, textLaunchReprompt), nil
	}
	if game.Len() == 0 {
		return askResponse(textNoPlayersYet, textLaunchReprompt), nil
	}

	speech := fmt.Sprintf(textTooManyToList, game.Len())
	if game.Len() <= models.MaxPlayersForSpeech {
		speech = utils.FormatScoresSpeech(game.Players)
	}
	resp := models.NewAskResponse(speech, textAnythingElse, utils.LeaderboardCard(game.Players))
	return resp, nil
}

// NewGame начинает новую пустую игру в текущей сессии.
func (s *dialogueServiceImpl) NewGame(ctx context.Context, event models.Event) (*models.Response, error) {
	session, err := s.loadLiveSession(ctx, event.SessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		session = models.NewSession(event.SessionID)
	}

	game := models.NewGame(s.newGameID())
	if err := s.saveGame(ctx, game); err != nil {
		return nil, err
	}
	previousGameID := session.GameID
	session.GameID = game.ID
	session.State = models.StateAwaitingName
	session.PendingPlayerName = ""
	if err := s.saveSession(ctx, session); err != nil {
		return nil, err
	}

	s.publish(ctx, models.ScoreEvent{
		Type:      models.ScoreEventGameStarted,
		GameID:    game.ID,
		SessionID: session.ID,
		Players:   game.Players,
	})
	s.logger.Info("New game started",
		zap.String("sessionID", session.ID),
		zap.String("gameID", game.ID),
		zap.String("previousGameID", previousGameID),
	)
	return askResponse(textNewGameStarted, textLaunchReprompt), nil
}

// GetGame возвращает игру по ID.
func (s *dialogueServiceImpl) GetGame(ctx context.Context, gameID string) (*models.Game, error) {
	game, err := s.games.GetByID(ctx, gameID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("%w: ошибка загрузки игры %s: %w", ErrStorage, gameID, err)
	}
	return game, nil
}

// --- helpers --- //

// loadLiveSession возвращает nil, если сессии нет или она завершена через Exit.
func (s *dialogueServiceImpl) loadLiveSession(ctx context.Context, sessionID string) (*models.Session, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, nil
		}
		s.logger.Error("Failed to load session", zap.String("sessionID", sessionID), zap.Error(err))
		return nil, fmt.Errorf("%w: ошибка загрузки сессии %s: %w", ErrStorage, sessionID, err)
	}
	if !session.IsLive() {
		return nil, nil
	}
	return session, nil
}

// loadGame возвращает nil, если к сессии не привязана игра или запись игры пропала.
func (s *dialogueServiceImpl) loadGame(ctx context.Context, session *models.Session) (*models.Game, error) {
	if !session.HasGame() {
		return nil, nil
	}
	game, err := s.games.GetByID(ctx, session.GameID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Warn("Session references missing game", zap.String("sessionID", session.ID), zap.String("gameID", session.GameID))
			return nil, nil
		}
		s.logger.Error("Failed to load game", zap.String("gameID", session.GameID), zap.Error(err))
		return nil, fmt.Errorf("%w: ошибка загрузки игры %s: %w", ErrStorage, session.GameID, err)
	}
	return game, nil
}

func (s *dialogueServiceImpl) saveGame(ctx context.Context, game *models.Game) error {
	game.UpdatedAt = time.Now().UTC()
	if err := s.games.Save(ctx, game); err != nil {
		s.logger.Error("Failed to save game", zap.String("gameID", game.ID), zap.Error(err))
		return fmt.Errorf("%w: ошибка сохранения игры %s: %w", ErrStorage, game.ID, err)
	}
	return nil
}

func (s *dialogueServiceImpl) saveSession(ctx context.Context, session *models.Session) error {
	session.UpdatedAt = time.Now().UTC()
	if err := s.sessions.Save(ctx, session); err != nil {
		s.logger.Error("Failed to save session", zap.String("sessionID", session.ID), zap.Error(err))
		return fmt.Errorf("%w: ошибка сохранения сессии %s: %w", ErrStorage, session.ID, err)
	}
	return nil
}

// publish отправляет событие, не влияя на результат хода: игра уже сохранена.
func (s *dialogueServiceImpl) publish(ctx context.Context, event models.ScoreEvent) {
	if s.publisher == nil {
		return
	}
	event.OccurredAt = time.Now().UTC()
	if err := s.publisher.PublishScoreEvent(ctx, event); err != nil {
		s.logger.Warn("Failed to publish score event",
			zap.String("type", string(event.Type)),
			zap.String("gameID", event.GameID),
			zap.Error(err),
		)
	}
}

// askResponse - переспрос с карточкой "Session", как у остальных не-score ответов.
func askResponse(speech, reprompt string) *models.Response {
	return models.NewAskResponse(speech, reprompt, utils.SessionCard(speech))
}
