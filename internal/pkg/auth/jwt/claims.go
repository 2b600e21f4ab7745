/*
Package jwt issues and validates the HS256 session tokens that identify the
current player. Credentials themselves never pass through here; handlers
verify passwords and then mint a token carrying the player identity.
*/
package jwt

import "github.com/golang-jwt/jwt"

// Payload defines the claims carried by a session token.
type Payload struct {
	// StandardClaims embeds Exp, Iat and Iss, used for validity checks.
	jwt.StandardClaims `json:"standard_claims"`

	// ID is the player's unique identifier.
	ID string `json:"id"`

	// Handle is the player's unique display/login name.
	Handle string `json:"handle"`
}
