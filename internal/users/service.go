package users

import (
	"context"
	"crypto/subtle"
	"strings"

	"github.com/TamerJohn/literate-spoon/pkg/metrics"
)

// Service encapsulates credential checks
type Service struct {
	repo UserRepository
}

func NewService(r UserRepository) *Service {
	return &Service{repo: r}
}

// Authenticate reports whether password matches the stored one for username.
// Blank usernames never match. Wrong credentials are (false, nil); an error
// means the credential source itself could not be read.
func (s *Service) Authenticate(ctx context.Context, username, password string) (bool, error) {
	if strings.TrimSpace(username) == "" {
		metrics.LoginAttempts.WithLabelValues("rejected").Inc()
		return false, nil
	}
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		return false, err
	}
	if u == nil || subtle.ConstantTimeCompare([]byte(u.Password), []byte(password)) != 1 {
		metrics.LoginAttempts.WithLabelValues("rejected").Inc()
		return false, nil
	}
	metrics.LoginAttempts.WithLabelValues("success").Inc()
	return true, nil
}
