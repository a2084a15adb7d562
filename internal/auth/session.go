package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/framehq/frame/internal/org"
	apperrors "github.com/framehq/frame/internal/platform/errors"
)

// SessionTTL is how long a browser session lives before re-login.
const SessionTTL = 30 * 24 * time.Hour

// Session is a server-side login record keyed by an opaque token.
type Session struct {
	ID        string
	Token     string
	UserID    string
	OrgID     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// SessionStore is the persistence surface the session service needs.
type SessionStore interface {
	CreateSession(ctx context.Context, session Session) error
	GetSessionByToken(ctx context.Context, token string) (Session, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context, before time.Time) error
}

// UserGetter resolves users for session principals.
type UserGetter interface {
	GetUser(ctx context.Context, orgID, userID string) (org.User, error)
	GetUserByEmail(ctx context.Context, email string) (org.User, error)
}

// Sender delivers magic links out of band. Production wires an email
// provider; development logs the link.
type Sender interface {
	SendMagicLink(ctx context.Context, email, link string) error
}

// Service issues magic links and manages login sessions.
type Service struct {
	sessions SessionStore
	users    UserGetter
	sender   Sender
	config   MagicLinkConfig
	baseURL  string
	now      func() time.Time
}

// NewService creates an auth service.
func NewService(sessions SessionStore, users UserGetter, sender Sender, config MagicLinkConfig, baseURL string) *Service {
	now := config.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		sessions: sessions,
		users:    users,
		sender:   sender,
		config:   config,
		baseURL:  baseURL,
		now:      now,
	}
}

// RequestMagicLink sends a sign-in link to the address when it belongs
// to an active user. Unknown addresses are silently accepted so the
// endpoint does not reveal which emails have accounts.
func (s *Service) RequestMagicLink(ctx context.Context, email string) error {
	email = org.NormalizeEmail(email)
	if email == "" {
		return apperrors.New(apperrors.CodeUserEmailEmpty, "email is required")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return err
	}
	if !user.Active {
		return nil
	}

	token, err := IssueMagicLink(email, s.config)
	if err != nil {
		return err
	}
	link := fmt.Sprintf("%s/auth/verify?token=%s", s.baseURL, token)
	return s.sender.SendMagicLink(ctx, email, link)
}

// VerifyMagicLink exchanges a sign-in token for a session.
func (s *Service) VerifyMagicLink(ctx context.Context, token string) (Session, org.User, error) {
	claims, err := ValidateMagicLink(token, s.config)
	if err != nil {
		return Session{}, org.User{}, err
	}

	user, err := s.users.GetUserByEmail(ctx, claims.Email)
	if err != nil {
		if isNotFound(err) {
			return Session{}, org.User{}, apperrors.New(apperrors.CodeAuthTokenInvalid, "sign-in token does not match a user")
		}
		return Session{}, org.User{}, err
	}
	if !user.Active {
		return Session{}, org.User{}, apperrors.New(apperrors.CodeUserInactive, "account is deactivated")
	}

	now := s.now().UTC()
	session := Session{
		ID:        uuid.NewString(),
		Token:     newSessionToken(),
		UserID:    user.ID,
		OrgID:     user.OrgID,
		CreatedAt: now,
		ExpiresAt: now.Add(SessionTTL),
	}
	if err := s.sessions.CreateSession(ctx, session); err != nil {
		return Session{}, org.User{}, err
	}
	return session, user, nil
}

// Authenticate resolves a session token to its user. Expired sessions
// are deleted on sight.
func (s *Service) Authenticate(ctx context.Context, token string) (org.User, error) {
	if token == "" {
		return org.User{}, apperrors.New(apperrors.CodeUnauthenticated, "authentication required")
	}

	session, err := s.sessions.GetSessionByToken(ctx, token)
	if err != nil {
		if isNotFound(err) {
			return org.User{}, apperrors.New(apperrors.CodeUnauthenticated, "authentication required")
		}
		return org.User{}, err
	}
	if !session.ExpiresAt.After(s.now().UTC()) {
		_ = s.sessions.DeleteSession(ctx, token)
		return org.User{}, apperrors.New(apperrors.CodeSessionExpired, "session is expired")
	}

	user, err := s.users.GetUser(ctx, session.OrgID, session.UserID)
	if err != nil {
		return org.User{}, err
	}
	if !user.Active {
		return org.User{}, apperrors.New(apperrors.CodeUserInactive, "account is deactivated")
	}
	return user, nil
}

// Logout deletes the session behind a token. Unknown tokens are a no-op.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	err := s.sessions.DeleteSession(ctx, token)
	if err != nil && !isNotFound(err) {
		return err
	}
	return nil
}

// PurgeExpired removes sessions past their expiry.
func (s *Service) PurgeExpired(ctx context.Context) error {
	return s.sessions.DeleteExpiredSessions(ctx, s.now().UTC())
}

func newSessionToken() string {
	buf := make([]byte, 32)
	rand.Read(buf)
	return hex.EncodeToString(buf)
}

func isNotFound(err error) bool {
	return errors.Is(err, apperrors.New(apperrors.CodeNotFound, ""))
}
