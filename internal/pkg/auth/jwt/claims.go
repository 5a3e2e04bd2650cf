package jwt

import (
	"errors"

	"github.com/golang-jwt/jwt"
)

// ErrMissingUsername is returned for an otherwise valid token that names nobody.
var ErrMissingUsername = errors.New("token carries no username")

// Payload defines the JWT claims the relay trusts as a verified identity.
// The relay does not authenticate anyone itself; whoever signs these tokens
// vouches for the username, and the socket layer only checks the signature.
type Payload struct {
	jwt.StandardClaims `json:"standard_claims"`

	// ID is the identity subject, stable across reconnects of the same user.
	ID string `json:"id"`

	// Username is the verified display name the holder must join with.
	Username string `json:"username"`

	// UserType is "guest" for tokens issued by the relay's own session endpoint.
	UserType string `json:"user_type"`
}

// Valid checks expiry and issue time, then requires a username.
func (p *Payload) Valid() error {
	if err := p.StandardClaims.Valid(); err != nil {
		return err
	}
	if p.Username == "" {
		return ErrMissingUsername
	}
	return nil
}
