package models

// Названия интентов, приходящих от голосовой платформы.
const (
	IntentLaunch      = "LaunchRequest"
	IntentProvideName = "ProvideNameIntent"
	IntentAddScore    = "AddScoreIntent"
	IntentTellScores  = "TellScoresIntent"
	IntentNewGame     = "NewGameIntent"
	IntentHelp        = "AMAZON.HelpIntent"
	IntentStop        = "AMAZON.StopIntent"
	IntentCancel      = "AMAZON.CancelIntent"
)

// Названия слотов.
const (
	SlotPlayerName  = "PlayerName"
	SlotScoreNumber = "ScoreNumber"
)

// Event - входящее событие: интент с уже распознанными слотами.
type Event struct {
	SessionID string            `json:"sessionId"`
	Intent    string            `json:"intent"`
	Slots     map[string]string `json:"slots,omitempty"`
}

// Slot возвращает значение слота или пустую строку.
func (e Event) Slot(name string) string {
	if e.Slots == nil {
		return ""
	}
	return e.Slots[name]
}

// Card - визуальная карточка, сопровождающая ответ.
type Card struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Response - ответ на одно событие.
// RepromptText заполняется только когда ожидается продолжение диалога.
type Response struct {
	SpeechText       string `json:"speechText"`
	RepromptText     string `json:"repromptText,omitempty"`
	ShouldEndSession bool   `json:"shouldEndSession"`
	Card             *Card  `json:"card,omitempty"`
}

// NewAskResponse - ответ с переспросом, сессия остаётся открытой.
func NewAskResponse(speech, reprompt string, card *Card) *Response {
	return &Response{
		SpeechText:   speech,
		RepromptText: reprompt,
		Card:         card,
	}
}

// NewTellResponse - ответ без переспроса.
func NewTellResponse(speech string, endSession bool, card *Card) *Response {
	return &Response{
		SpeechText:       speech,
		ShouldEndSession: endSession,
		Card:             card,
	}
}
