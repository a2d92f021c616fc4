// Package circuitbreaker builds gobreaker circuit breakers with the
// storefront's defaults and logging.
package circuitbreaker

import (
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
)

// ErrUnavailable is returned while the breaker is open or saturated.
var ErrUnavailable = errors.New("dependency unavailable")

type Settings struct {
	Name string
	// MaxRequests allowed through while half-open.
	MaxRequests uint32
	// Interval clears the failure counts while closed; zero never clears.
	Interval time.Duration
	// Timeout is how long the breaker stays open.
	Timeout time.Duration
	// ConsecutiveFailures trips the breaker.
	ConsecutiveFailures uint32
	// IsSuccessful classifies errors; nil means only nil errors succeed.
	IsSuccessful func(err error) bool
}

func DefaultSettings(name string) Settings {
	return Settings{
		Name:                name,
		MaxRequests:         1,
		Interval:            time.Minute,
		Timeout:             30 * time.Second,
		ConsecutiveFailures: 5,
	}
}

func New[T any](s Settings, log zerolog.Logger) *gobreaker.CircuitBreaker[T] {
	threshold := s.ConsecutiveFailures
	if threshold == 0 {
		threshold = 5
	}
	return gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: s.IsSuccessful,
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	})
}

// Translate maps the breaker's own rejections onto ErrUnavailable.
func Translate(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return errors.Join(ErrUnavailable, err)
	}
	return err
}
