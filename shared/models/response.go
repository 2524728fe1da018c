package models

// Коды ошибок API.
const (
	ErrCodeBadRequest      = 40001
	ErrCodeUnauthorized    = 40101
	ErrCodeTokenInvalid    = 40102
	ErrCodeTokenExpired    = 40103
	ErrCodeNotFound        = 40401
	ErrCodeTooManyRequests = 42901
	ErrCodeInternal        = 50001
)

// ErrorResponse - стандартная структура для ответа об ошибке в формате JSON.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
