package models

import "github.com/golang-jwt/jwt/v5"

// PlatformClaims - поля JWT, которым голосовая платформа подписывает входящие запросы.
// Subject содержит идентификатор навыка (skill id).
type PlatformClaims struct {
	DeviceID             string `json:"device_id,omitempty"`
	jwt.RegisteredClaims        // Issuer, Subject, Audience, ExpiresAt, NotBefore, IssuedAt, ID (JTI)
}
