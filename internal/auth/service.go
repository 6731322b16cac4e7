package auth

import (
	"fmt"
	"strings"

	appErrors "github.com/fatali-fataliyev/budget_assistant/customErrors"
	"golang.org/x/crypto/bcrypt"
)

const MAX_TOKEN_LENGTH = 72

func HashToken(token string) (string, error) {
	if len(token) > MAX_TOKEN_LENGTH {
		return "", fmt.Errorf("%w", appErrors.New(appErrors.ErrInvalidInput, "Token so long, maximum length is %d", MAX_TOKEN_LENGTH))
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash plain token: %w", err)
	}
	return string(hashed), nil
}

func CompareToken(hashedToken string, plainToken string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedToken), []byte(plainToken))
	return err == nil
}

// Verifier checks bearer tokens against a single configured bcrypt hash.
// An empty hash disables verification.
type Verifier struct {
	hash string
}

func NewVerifier(hash string) *Verifier {
	return &Verifier{hash: strings.TrimSpace(hash)}
}

func (v *Verifier) Enabled() bool {
	return v.hash != ""
}

func (v *Verifier) Verify(authorizationHeader string) error {
	if !v.Enabled() {
		return nil
	}
	token := strings.TrimSpace(authorizationHeader)
	if token == "" {
		return appErrors.New(appErrors.ErrAuth, "Authorization header is required.")
	}
	if len(token) > 7 && strings.EqualFold(token[:7], "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	if !CompareToken(v.hash, token) {
		return appErrors.New(appErrors.ErrAuth, "Invalid token.")
	}
	return nil
}
