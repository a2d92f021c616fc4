package domain

type Session struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar,omitempty"`
}

// SessionState is the state of the identity store.
type SessionState string

const (
	SessionAnonymous     SessionState = "ANONYMOUS"
	SessionAuthenticated SessionState = "AUTHENTICATED"
)

// String representation (for logging)
func (s SessionState) String() string {
	return string(s)
}
