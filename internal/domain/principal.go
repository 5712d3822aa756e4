package domain

// AuthMethod describes how a caller authenticated with the API.
type AuthMethod string

const (
	AuthMethodJWT AuthMethod = "jwt"
)

// Principal captures the authenticated caller.
type Principal struct {
	ID         string
	Name       string
	AuthMethod AuthMethod
}
