// Package referral generates the 8 character codes that identify a
// referrer on pending registrations.
package referral

import (
	"context"
	"crypto/rand"
	"math/big"

	"sankalp/apperr"
)

const (
	CodeLength  = 8
	MaxAttempts = 100
	alphabet    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

var ErrGenerationExhausted = apperr.New(apperr.Internal, "Could not generate a unique referral code")

// ExistsFunc reports whether code is already taken.
type ExistsFunc func(ctx context.Context, code string) (bool, error)

type Generator struct {
	attempts int
	random   func() (string, error)
}

func NewGenerator() *Generator {
	return &Generator{attempts: MaxAttempts, random: randomCode}
}

// Generate draws codes until exists reports one as free.
func (g *Generator) Generate(ctx context.Context, exists ExistsFunc) (string, error) {
	for i := 0; i < g.attempts; i++ {
		code, err := g.random()
		if err != nil {
			return "", err
		}
		taken, err := exists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", ErrGenerationExhausted
}

func randomCode() (string, error) {
	max := big.NewInt(int64(len(alphabet)))
	buf := make([]byte, CodeLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = alphabet[n.Int64()]
	}
	return string(buf), nil
}
