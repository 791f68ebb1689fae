package identity

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	SessionCookieName = "anon_session_id"

	maxSessionIDLength = 32
)

// Millisecond timestamp, underscore, nine lowercase base36 characters. Ids
// minted here only use the hex subset.
var sessionIDPattern = regexp.MustCompile(`^[0-9]{1,19}_[0-9a-z]{9}$`)

// ValidSessionID reports whether id has the shape of a generated session id.
func ValidSessionID(id string) bool {
	return len(id) <= maxSessionIDLength && sessionIDPattern.MatchString(id)
}

// Session is the anonymous browsing session. Its identifier is generated on
// first access and cached for the rest of the session.
type Session struct {
	mu        sync.Mutex
	id        string
	generated bool
	now       func() time.Time
}

// NewSession seeds the session with an identifier carried over from an earlier
// request. An empty id leaves the session uninitialized.
func NewSession(existingID string) *Session {
	return &Session{id: existingID, now: time.Now}
}

func (s *Session) AnonymousID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.id == "" {
		s.id = newAnonymousID(s.now())
		s.generated = true
	}
	return s.id
}

// Generated reports whether this request minted the identifier, meaning it
// still has to be handed back to the client.
func (s *Session) Generated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generated
}

func newAnonymousID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("%d_%s", now.UnixMilli(), suffix)
}

type sessionKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFromContext never returns nil; a request without session middleware
// gets a fresh, uninitialized session.
func SessionFromContext(ctx context.Context) *Session {
	if s, ok := ctx.Value(sessionKey{}).(*Session); ok && s != nil {
		return s
	}
	return NewSession("")
}
