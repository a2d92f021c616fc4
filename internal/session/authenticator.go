package session

import (
	"context"
	"strings"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/google/uuid"
)

// DefaultDelay stands in for a network round trip to an identity backend.
const DefaultDelay = time.Second

// sessionNamespace scopes the name-based ids derived from email addresses.
var sessionNamespace = uuid.MustParse("6f1c7a52-3b1e-4f4e-9c55-8a1d2e0b7c11")

// Authenticator is the identity backend the store talks to.
// Implementations return an error wrapping ErrAuthenticationFailed when they
// reject the credentials.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*domain.Session, error)
	Register(ctx context.Context, name, email, password string) (*domain.Session, error)
}

// StubAuthenticator accepts every credential after a fixed delay.
type StubAuthenticator struct {
	Delay  time.Duration
	Avatar string
}

func NewStubAuthenticator(delay time.Duration, avatar string) *StubAuthenticator {
	return &StubAuthenticator{Delay: delay, Avatar: avatar}
}

func (a *StubAuthenticator) Login(ctx context.Context, email, _ string) (*domain.Session, error) {
	if err := sleep(ctx, a.Delay); err != nil {
		return nil, err
	}
	return newSession(nameFromEmail(email), email, a.Avatar), nil
}

func (a *StubAuthenticator) Register(ctx context.Context, name, email, _ string) (*domain.Session, error) {
	if err := sleep(ctx, a.Delay); err != nil {
		return nil, err
	}
	return newSession(name, email, a.Avatar), nil
}

func newSession(name, email, avatar string) *domain.Session {
	return &domain.Session{
		ID:     sessionID(email),
		Name:   name,
		Email:  email,
		Avatar: avatar,
	}
}

// sessionID is stable per email so repeated logins yield the same identity.
func sessionID(email string) string {
	return uuid.NewSHA1(sessionNamespace, []byte(strings.ToLower(email))).String()
}

func nameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
