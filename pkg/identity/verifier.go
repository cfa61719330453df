package identity

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the verified claim set the rest of the system consumes.
// The IdP protocol behind it is a black box: all the core needs back is
// a trustworthy email and display name.
type Identity struct {
	Email string
	Name  string
}

// Verifier resolves a raw SSO assertion into a verified Identity.
type Verifier interface {
	Verify(assertion string) (*Identity, error)
}

type jwksVerifier struct {
	provider *Provider
	issuer   string
}

// NewVerifier builds a Verifier that checks RS256 assertions against the
// IdP's published JWKS. When issuer is non-empty the iss claim must match.
func NewVerifier(provider *Provider, issuer string) Verifier {
	return &jwksVerifier{provider: provider, issuer: issuer}
}

func (v *jwksVerifier) Verify(assertion string) (*Identity, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"RS256"})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	token, err := jwt.Parse(assertion, v.provider.KeyFunc, opts...)
	if err != nil {
		return nil, fmt.Errorf("sso assertion rejected: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("sso assertion invalid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("sso assertion has no claims")
	}

	email, _ := claims["email"].(string)
	if email == "" {
		return nil, fmt.Errorf("sso assertion missing email claim")
	}

	name, _ := claims["name"].(string)
	if name == "" {
		// Some IdPs split the display name
		given, _ := claims["given_name"].(string)
		family, _ := claims["family_name"].(string)
		if given != "" || family != "" {
			name = given
			if family != "" {
				if name != "" {
					name += " "
				}
				name += family
			}
		}
	}

	return &Identity{Email: email, Name: name}, nil
}
