package models

// contextKey - приватный тип для ключей контекста, чтобы избежать коллизий.
type contextKey string

const (
	// SkillIDContextKey - ключ gin-контекста с идентификатором навыка из проверенного токена.
	SkillIDContextKey contextKey = "skillID"
	// RequestIDContextKey - ключ gin-контекста с X-Request-ID.
	RequestIDContextKey contextKey = "requestID"
)
