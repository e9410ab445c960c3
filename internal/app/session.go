package app

import (
	"context"
	"errors"

	"menufront/internal/domain"
)

// SessionService owns the sign-in/sign-out flows and the 401 discipline:
// any unauthorized answer from the backend clears the stored token so the
// next page load lands on sign-in.
type SessionService struct {
	api   domain.MenuAPI
	store domain.SessionStore
}

func NewSessionService(api domain.MenuAPI, store domain.SessionStore) *SessionService {
	return &SessionService{api: api, store: store}
}

func (s *SessionService) SignIn(ctx context.Context, sid, email, password string) (domain.User, error) {
	grant, err := s.api.Login(ctx, email, password)
	if err != nil {
		return domain.User{}, err
	}
	if err := s.store.Put(ctx, sid, grant.Token); err != nil {
		return domain.User{}, err
	}
	return grant.User, nil
}

// SignOut revokes the token best-effort and always drops the local copy.
func (s *SessionService) SignOut(ctx context.Context, sid string) error {
	token, err := s.store.Token(ctx, sid)
	if err == nil && token != "" {
		_ = s.api.Logout(ctx, token)
	}
	return s.store.Clear(ctx, sid)
}

func (s *SessionService) Token(ctx context.Context, sid string) (string, error) {
	return s.store.Token(ctx, sid)
}

// CurrentUser resolves the signed-in identity. An expired or revoked token is
// cleared on the spot and reported as ErrUnauthorized.
func (s *SessionService) CurrentUser(ctx context.Context, sid string) (domain.User, error) {
	token, err := s.store.Token(ctx, sid)
	if err != nil {
		return domain.User{}, err
	}
	if token == "" {
		return domain.User{}, domain.ErrUnauthorized
	}
	u, err := s.api.CurrentUser(ctx, token)
	if errors.Is(err, domain.ErrUnauthorized) {
		_ = s.store.Clear(ctx, sid)
	}
	return u, err
}

// DropIfUnauthorized clears the session token when err is a 401 from an
// authenticated call, and reports whether it did.
func (s *SessionService) DropIfUnauthorized(ctx context.Context, sid string, err error) bool {
	if errors.Is(err, domain.ErrUnauthorized) {
		_ = s.store.Clear(ctx, sid)
		return true
	}
	return false
}
