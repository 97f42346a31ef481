package model

import "time"

// TokenManager generates and validates access tokens.
type TokenManager interface {
	GenerateAccessToken(principal Principal, ttl time.Duration) (string, error)
	ParseAccessToken(token string) (Principal, error)
}
