package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/framehq/frame/internal/org"
	apperrors "github.com/framehq/frame/internal/platform/errors"
)

var testConfig = MagicLinkConfig{
	Issuer:   "frame",
	Audience: "frame-web",
	Secret:   []byte("test-secret"),
}

func TestMagicLinkRoundTrip(t *testing.T) {
	token, err := IssueMagicLink("ana@example.com", testConfig)
	if err != nil {
		t.Fatalf("IssueMagicLink() error = %v", err)
	}

	claims, err := ValidateMagicLink(token, testConfig)
	if err != nil {
		t.Fatalf("ValidateMagicLink() error = %v", err)
	}
	if claims.Email != "ana@example.com" {
		t.Errorf("Email = %q, want ana@example.com", claims.Email)
	}
	if claims.JWTID == "" {
		t.Error("expected a jti")
	}
}

func TestValidateMagicLinkExpired(t *testing.T) {
	issued := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	cfg := testConfig
	cfg.Now = func() time.Time { return issued }

	token, err := IssueMagicLink("ana@example.com", cfg)
	if err != nil {
		t.Fatalf("IssueMagicLink() error = %v", err)
	}

	cfg.Now = func() time.Time { return issued.Add(MagicLinkTTL + time.Second) }
	_, err = ValidateMagicLink(token, cfg)
	if !errors.Is(err, apperrors.New(apperrors.CodeAuthTokenExpired, "")) {
		t.Errorf("ValidateMagicLink() error = %v, want AUTH_TOKEN_EXPIRED", err)
	}
}

func TestValidateMagicLinkWrongSecret(t *testing.T) {
	token, err := IssueMagicLink("ana@example.com", testConfig)
	if err != nil {
		t.Fatalf("IssueMagicLink() error = %v", err)
	}

	cfg := testConfig
	cfg.Secret = []byte("other-secret")
	_, err = ValidateMagicLink(token, cfg)
	if !errors.Is(err, apperrors.New(apperrors.CodeAuthTokenInvalid, "")) {
		t.Errorf("ValidateMagicLink() error = %v, want AUTH_TOKEN_INVALID", err)
	}
}

func TestValidateMagicLinkGarbage(t *testing.T) {
	for _, token := range []string{"", "   ", "not.a.jwt"} {
		if _, err := ValidateMagicLink(token, testConfig); err == nil {
			t.Errorf("ValidateMagicLink(%q) expected error", token)
		}
	}
}

type fakeSessionStore struct {
	sessions map[string]Session
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]Session)}
}

func (f *fakeSessionStore) CreateSession(_ context.Context, session Session) error {
	f.sessions[session.Token] = session
	return nil
}

func (f *fakeSessionStore) GetSessionByToken(_ context.Context, token string) (Session, error) {
	session, ok := f.sessions[token]
	if !ok {
		return Session{}, apperrors.New(apperrors.CodeNotFound, "session not found")
	}
	return session, nil
}

func (f *fakeSessionStore) DeleteSession(_ context.Context, token string) error {
	if _, ok := f.sessions[token]; !ok {
		return apperrors.New(apperrors.CodeNotFound, "session not found")
	}
	delete(f.sessions, token)
	return nil
}

func (f *fakeSessionStore) DeleteExpiredSessions(_ context.Context, before time.Time) error {
	for token, session := range f.sessions {
		if !session.ExpiresAt.After(before) {
			delete(f.sessions, token)
		}
	}
	return nil
}

type fakeUserStore struct {
	users map[string]org.User
}

func (f *fakeUserStore) GetUser(_ context.Context, orgID, userID string) (org.User, error) {
	for _, user := range f.users {
		if user.OrgID == orgID && user.ID == userID {
			return user, nil
		}
	}
	return org.User{}, apperrors.New(apperrors.CodeNotFound, "user not found")
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (org.User, error) {
	user, ok := f.users[email]
	if !ok {
		return org.User{}, apperrors.New(apperrors.CodeNotFound, "user not found")
	}
	return user, nil
}

type fakeSender struct {
	emails []string
	links  []string
}

func (f *fakeSender) SendMagicLink(_ context.Context, email, link string) error {
	f.emails = append(f.emails, email)
	f.links = append(f.links, link)
	return nil
}

func newTestAuthService(sender *fakeSender) (*Service, *fakeSessionStore) {
	sessions := newFakeSessionStore()
	users := &fakeUserStore{users: map[string]org.User{
		"ana@example.com": {
			ID:     "user-1",
			OrgID:  "org-1",
			Name:   "Ana",
			Email:  "ana@example.com",
			Role:   org.RoleOwner,
			Active: true,
		},
		"gone@example.com": {
			ID:     "user-2",
			OrgID:  "org-1",
			Email:  "gone@example.com",
			Role:   org.RoleMember,
			Active: false,
		},
	}}
	return NewService(sessions, users, sender, testConfig, "https://frame.test"), sessions
}

func TestRequestMagicLinkSendsToKnownUser(t *testing.T) {
	sender := &fakeSender{}
	svc, _ := newTestAuthService(sender)

	if err := svc.RequestMagicLink(t.Context(), " Ana@Example.COM "); err != nil {
		t.Fatalf("RequestMagicLink() error = %v", err)
	}

	if len(sender.emails) != 1 || sender.emails[0] != "ana@example.com" {
		t.Fatalf("sent to %v, want [ana@example.com]", sender.emails)
	}
	if !strings.Contains(sender.links[0], "https://frame.test/auth/verify?token=") {
		t.Errorf("link = %q, want verify URL", sender.links[0])
	}
}

func TestRequestMagicLinkSilentForUnknownOrInactive(t *testing.T) {
	sender := &fakeSender{}
	svc, _ := newTestAuthService(sender)

	if err := svc.RequestMagicLink(t.Context(), "nobody@example.com"); err != nil {
		t.Errorf("unknown email error = %v, want nil", err)
	}
	if err := svc.RequestMagicLink(t.Context(), "gone@example.com"); err != nil {
		t.Errorf("inactive user error = %v, want nil", err)
	}
	if len(sender.emails) != 0 {
		t.Errorf("sent %v, want no emails", sender.emails)
	}
}

func TestVerifyMagicLinkCreatesSession(t *testing.T) {
	sender := &fakeSender{}
	svc, sessions := newTestAuthService(sender)

	token, err := IssueMagicLink("ana@example.com", testConfig)
	if err != nil {
		t.Fatalf("IssueMagicLink() error = %v", err)
	}

	session, user, err := svc.VerifyMagicLink(t.Context(), token)
	if err != nil {
		t.Fatalf("VerifyMagicLink() error = %v", err)
	}
	if user.ID != "user-1" {
		t.Errorf("user = %q, want user-1", user.ID)
	}
	if len(session.Token) != 64 {
		t.Errorf("token length = %d, want 64 hex chars", len(session.Token))
	}
	if _, ok := sessions.sessions[session.Token]; !ok {
		t.Error("session was not persisted")
	}
}

func TestAuthenticate(t *testing.T) {
	sender := &fakeSender{}
	svc, _ := newTestAuthService(sender)

	token, err := IssueMagicLink("ana@example.com", testConfig)
	if err != nil {
		t.Fatalf("IssueMagicLink() error = %v", err)
	}
	session, _, err := svc.VerifyMagicLink(t.Context(), token)
	if err != nil {
		t.Fatalf("VerifyMagicLink() error = %v", err)
	}

	user, err := svc.Authenticate(t.Context(), session.Token)
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if user.Email != "ana@example.com" {
		t.Errorf("Email = %q, want ana@example.com", user.Email)
	}

	_, err = svc.Authenticate(t.Context(), "bogus")
	if !errors.Is(err, apperrors.New(apperrors.CodeUnauthenticated, "")) {
		t.Errorf("Authenticate(bogus) error = %v, want UNAUTHENTICATED", err)
	}
}

func TestAuthenticateExpiredSessionIsDeleted(t *testing.T) {
	sender := &fakeSender{}
	svc, sessions := newTestAuthService(sender)

	expired := Session{
		ID:        "sess-1",
		Token:     "expired-token",
		UserID:    "user-1",
		OrgID:     "org-1",
		ExpiresAt: time.Now().UTC().Add(-time.Hour),
	}
	sessions.sessions[expired.Token] = expired

	_, err := svc.Authenticate(t.Context(), expired.Token)
	if !errors.Is(err, apperrors.New(apperrors.CodeSessionExpired, "")) {
		t.Fatalf("Authenticate() error = %v, want SESSION_EXPIRED", err)
	}
	if _, ok := sessions.sessions[expired.Token]; ok {
		t.Error("expired session should have been deleted")
	}
}

func TestLogout(t *testing.T) {
	sender := &fakeSender{}
	svc, sessions := newTestAuthService(sender)
	sessions.sessions["tok"] = Session{Token: "tok"}

	if err := svc.Logout(t.Context(), "tok"); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if _, ok := sessions.sessions["tok"]; ok {
		t.Error("session should be gone")
	}
	if err := svc.Logout(t.Context(), "unknown"); err != nil {
		t.Errorf("Logout(unknown) error = %v, want nil", err)
	}
}
