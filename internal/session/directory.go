package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/fjod/go_cart/storefront/internal/domain"
)

type account struct {
	session domain.Session
	hash    string
}

// DirectoryAuthenticator keeps registered accounts in memory and checks
// passwords against argon2id hashes. Unlike the stub it rejects unknown
// emails and wrong passwords.
type DirectoryAuthenticator struct {
	mu       sync.RWMutex
	accounts map[string]account // lowercased email -> account

	delay  time.Duration
	avatar string
	params *argon2id.Params
}

func NewDirectoryAuthenticator(delay time.Duration, avatar string, params *argon2id.Params) *DirectoryAuthenticator {
	if params == nil {
		params = argon2id.DefaultParams
	}
	return &DirectoryAuthenticator{
		accounts: make(map[string]account),
		delay:    delay,
		avatar:   avatar,
		params:   params,
	}
}

func (d *DirectoryAuthenticator) Register(ctx context.Context, name, email, password string) (*domain.Session, error) {
	if err := sleep(ctx, d.delay); err != nil {
		return nil, err
	}

	hash, err := argon2id.CreateHash(password, d.params)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	key := strings.ToLower(email)
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.accounts[key]; exists {
		return nil, fmt.Errorf("%w: email already registered", ErrAuthenticationFailed)
	}

	s := newSession(name, email, d.avatar)
	d.accounts[key] = account{session: *s, hash: hash}
	return s, nil
}

func (d *DirectoryAuthenticator) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	if err := sleep(ctx, d.delay); err != nil {
		return nil, err
	}

	d.mu.RLock()
	acc, ok := d.accounts[strings.ToLower(email)]
	d.mu.RUnlock()
	if !ok {
		return nil, ErrAuthenticationFailed
	}

	match, err := argon2id.ComparePasswordAndHash(password, acc.hash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !match {
		return nil, ErrAuthenticationFailed
	}

	s := acc.session
	return &s, nil
}
