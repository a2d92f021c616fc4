// Package session holds the identity state container: at most one signed-in
// user, set by login/register against an Authenticator and cleared by logout.
package session

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/metrics"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Snapshot is what listeners and readers see of the store.
type Snapshot struct {
	State          domain.SessionState `json:"state"`
	Session        *domain.Session     `json:"session,omitempty"`
	Authenticating bool                `json:"authenticating"`
}

// Result is the outcome of an asynchronous login or register.
type Result struct {
	Session *domain.Session
	Err     error
}

type Listener func(Snapshot)

type loginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Store is the session container. Only one login or register may be in
// flight at a time; a concurrent attempt fails fast with ErrAuthInProgress
// and leaves the in-flight call to decide the outcome.
type Store struct {
	mu             sync.RWMutex
	current        *domain.Session
	authenticating bool
	version        uint64

	subMu     sync.Mutex
	listeners map[int]Listener
	nextID    int

	deliverMu sync.Mutex
	delivered uint64

	auth     Authenticator
	validate *validator.Validate
	log      zerolog.Logger
}

func NewStore(auth Authenticator, log zerolog.Logger) *Store {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	return &Store{
		listeners: make(map[int]Listener),
		auth:      auth,
		validate:  v,
		log:       log.With().Str("component", "session").Logger(),
	}
}

// Login authenticates with email and password and blocks until the backend
// answers. Both fields must be non-empty.
func (s *Store) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	run, err := s.prepareLogin(email, password)
	if err != nil {
		return nil, err
	}
	return run(ctx)
}

// Register creates an account and signs it in.
func (s *Store) Register(ctx context.Context, name, email, password string) (*domain.Session, error) {
	run, err := s.prepareRegister(name, email, password)
	if err != nil {
		return nil, err
	}
	return run(ctx)
}

// LoginAsync validates and marks the store busy before returning, then
// completes the login in the background. The channel yields one Result and
// is closed.
func (s *Store) LoginAsync(ctx context.Context, email, password string) <-chan Result {
	run, err := s.prepareLogin(email, password)
	return start(ctx, run, err)
}

func (s *Store) RegisterAsync(ctx context.Context, name, email, password string) <-chan Result {
	run, err := s.prepareRegister(name, email, password)
	return start(ctx, run, err)
}

// Logout clears the session. Without a session it does nothing.
func (s *Store) Logout() {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return
	}
	s.log.Info().Str("email", s.current.Email).Msg("logged out")
	s.current = nil
	s.publishLocked()
}

// Authenticating reports whether a login or register call is in flight.
func (s *Store) Authenticating() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticating
}

// Current returns a copy of the active session, or nil.
func (s *Store) Current() *domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySession(s.current)
}

func (s *Store) State() domain.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return stateOf(s.current)
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Subscribe registers fn for state changes. Snapshots arrive in order; one
// superseded before it could be delivered is skipped.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.listeners, id)
			s.subMu.Unlock()
		})
	}
}

type authFunc func(ctx context.Context) (*domain.Session, error)

func (s *Store) prepareLogin(email, password string) (authFunc, error) {
	email = strings.TrimSpace(email)
	if err := s.check(loginInput{Email: email, Password: password}); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "invalid").Inc()
		return nil, err
	}
	return s.begin("login", func(ctx context.Context) (*domain.Session, error) {
		return s.auth.Login(ctx, email, password)
	})
}

func (s *Store) prepareRegister(name, email, password string) (authFunc, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if err := s.check(registerInput{Name: name, Email: email, Password: password}); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "invalid").Inc()
		return nil, err
	}
	return s.begin("register", func(ctx context.Context) (*domain.Session, error) {
		return s.auth.Register(ctx, name, email, password)
	})
}

// begin flips the busy flag and returns the call that completes the attempt.
func (s *Store) begin(kind string, call authFunc) (authFunc, error) {
	s.mu.Lock()
	if s.authenticating {
		s.mu.Unlock()
		metrics.AuthAttemptsTotal.WithLabelValues(kind, "busy").Inc()
		return nil, ErrAuthInProgress
	}
	s.authenticating = true
	s.publishLocked()

	return func(ctx context.Context) (*domain.Session, error) {
		sess, err := call(ctx)
		if err == nil && sess == nil {
			err = fmt.Errorf("%w: no session returned", ErrAuthenticationFailed)
		}
		if err != nil && ctx.Err() == nil && !errors.Is(err, ErrAuthenticationFailed) {
			err = fmt.Errorf("%w: %w", ErrAuthenticationFailed, err)
		}

		s.mu.Lock()
		s.authenticating = false
		if err == nil {
			s.current = copySession(sess)
		}
		s.publishLocked()

		if err != nil {
			metrics.AuthAttemptsTotal.WithLabelValues(kind, "failed").Inc()
			s.log.Warn().Err(err).Str("kind", kind).Msg("authentication failed")
			return nil, err
		}
		metrics.AuthAttemptsTotal.WithLabelValues(kind, "success").Inc()
		s.log.Info().Str("kind", kind).Str("email", sess.Email).Msg("authenticated")
		return copySession(sess), nil
	}, nil
}

func (s *Store) check(in any) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &ValidationError{Field: verrs[0].Field(), Reason: "must not be empty"}
	}
	return err
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		State:          stateOf(s.current),
		Session:        copySession(s.current),
		Authenticating: s.authenticating,
	}
}

// publishLocked must be called with s.mu held; it releases it.
func (s *Store) publishLocked() {
	s.version++
	v := s.version
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()
	if v <= s.delivered {
		return
	}
	s.delivered = v
	s.notify(snap)
}

func (s *Store) notify(snap Snapshot) {
	s.subMu.Lock()
	fns := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

func start(ctx context.Context, run authFunc, err error) <-chan Result {
	ch := make(chan Result, 1)
	if err != nil {
		ch <- Result{Err: err}
		close(ch)
		return ch
	}
	go func() {
		defer close(ch)
		sess, err := run(ctx)
		ch <- Result{Session: sess, Err: err}
	}()
	return ch
}

func stateOf(s *domain.Session) domain.SessionState {
	if s == nil {
		return domain.SessionAnonymous
	}
	return domain.SessionAuthenticated
}

func copySession(s *domain.Session) *domain.Session {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
