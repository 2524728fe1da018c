package models

import "errors"

// Application-wide standard errors
var (
	// Common Resource/DB Errors
	ErrNotFound = errors.New("resource not found") // General not found

	// Game state errors
	ErrPlayerAlreadyExists = errors.New("player with this name already exists in the game")
	ErrPlayerNotFound      = errors.New("player not found in the game")
	ErrEmptyPlayerName     = errors.New("player name is empty")
	ErrScoreOverflow       = errors.New("score is out of range")

	// Token Errors (platform requests)
	ErrTokenInvalid   = errors.New("token is invalid")
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenExpired   = errors.New("token has expired")
)
