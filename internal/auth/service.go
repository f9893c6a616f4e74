package auth

import (
	"context"
	"errors"
)

var ErrNotAdmin = errors.New("admin verification failed")

// Verifier checks an admin password with the authoritative store; the
// terminal never stores credentials of its own.
type Verifier interface {
	VerifyAdmin(ctx context.Context, password string) (bool, error)
}

type Service struct {
	verifier Verifier
}

func NewService(verifier Verifier) *Service {
	return &Service{verifier: verifier}
}

// Authorize verifies the password upstream and, on success, issues a
// short-lived admin token for the terminal's gated operations.
func (s *Service) Authorize(ctx context.Context, password string) (string, error) {
	if password == "" {
		return "", ErrNotAdmin
	}

	ok, err := s.verifier.VerifyAdmin(ctx, password)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrNotAdmin
	}

	return GenerateAdminToken()
}
