// Package videotoken mints and checks the short lived tokens that gate
// the secure video player.
package videotoken

import (
	"fmt"
	"time"

	"sankalp/apperr"
	"sankalp/models"

	"github.com/golang-jwt/jwt/v4"
)

var (
	ErrInvalidToken   = apperr.New(apperr.Forbidden, "Access denied: Invalid or expired token")
	ErrModuleMismatch = apperr.New(apperr.Forbidden, "Access denied: Token not valid for this video")
)

// Claims identify the viewer either by email and account kind (web) or
// by student id (mobile).
type Claims struct {
	Email    string             `json:"email,omitempty"`
	UserID   uint               `json:"userId,omitempty"`
	Kind     models.AccountKind `json:"kind,omitempty"`
	ModuleID uint               `json:"moduleId"`
	jwt.RegisteredClaims
}

// Viewer is the identity shown in the player watermark.
func (c *Claims) Viewer() string {
	if c.Email != "" {
		return c.Email
	}
	return fmt.Sprintf("student #%d", c.UserID)
}

// Issuer signs HS256 video tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Sign stamps issue and expiry times on claims and signs them.
func (i *Issuer) Sign(claims Claims) (string, error) {
	now := i.now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(i.ttl))
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Verify checks signature and expiry against the issuer's clock and that
// the token was minted for moduleID.
func (i *Issuer) Verify(tokenString string, moduleID uint) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithoutClaimsValidation())
	_, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return i.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !claims.VerifyExpiresAt(i.now(), true) {
		return nil, ErrInvalidToken
	}
	if claims.ModuleID != moduleID {
		return nil, ErrModuleMismatch
	}
	return claims, nil
}
