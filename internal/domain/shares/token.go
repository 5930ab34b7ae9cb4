package shares

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
)

const (
	TokenLength  = 8
	tokenCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// maxGenerateAttempts acota el loop de reintentos por colisión.
	maxGenerateAttempts = 5
)

var tokenPattern = regexp.MustCompile(`^[A-Z0-9]{8}$`)

// TokenGenerator permite reemplazar la fuente en tests (colisiones forzadas).
type TokenGenerator func() (string, error)

// GenerateToken arma un token de 8 caracteres [A-Z0-9] con crypto/rand.
func GenerateToken() (string, error) {
	max := big.NewInt(int64(len(tokenCharset)))
	out := make([]byte, TokenLength)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate token: %w", err)
		}
		out[i] = tokenCharset[n.Int64()]
	}
	return string(out), nil
}

// IsWellFormedToken valida el formato público del token.
func IsWellFormedToken(s string) bool {
	return tokenPattern.MatchString(s)
}
