package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/konamall/storefront/internal/domain"
)

type backendAuth interface {
	Register(ctx context.Context, name, email, password string) (domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Me(ctx context.Context) (domain.User, error)
	UpdateMe(ctx context.Context, name, phone string) error
}

type cartAuthSink interface {
	SetAuthenticated(flag bool)
}

// AuthUC holds the process-wide session: the bearer token all backend calls
// attach, and who is signed in. On a successful login it flips the cart
// store's authenticated flag, which kicks off cart reconciliation.
type AuthUC struct {
	Backend backendAuth
	Cart    cartAuthSink

	mu    sync.RWMutex
	token string
	user  *domain.User
}

// Token is wired into the backend client as its token source.
func (uc *AuthUC) Token() string {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.token
}

func (uc *AuthUC) CurrentUser() *domain.User {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	if uc.user == nil {
		return nil
	}
	u := *uc.user
	return &u
}

func (uc *AuthUC) IsAuthenticated() bool {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.token != ""
}

func (uc *AuthUC) Login(ctx context.Context, email, password string) (domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return domain.User{}, errors.New("email and password required")
	}
	token, user, err := uc.Backend.Login(ctx, email, password)
	if err != nil {
		return domain.User{}, err
	}

	uc.mu.Lock()
	uc.token = token
	uc.mu.Unlock()

	if user == nil {
		me, err := uc.Backend.Me(ctx)
		if err != nil {
			uc.mu.Lock()
			uc.token = ""
			uc.mu.Unlock()
			return domain.User{}, err
		}
		user = &me
	}

	uc.mu.Lock()
	uc.user = user
	uc.mu.Unlock()

	if uc.Cart != nil {
		uc.Cart.SetAuthenticated(true)
	}
	return *user, nil
}

func (uc *AuthUC) Register(ctx context.Context, name, email, password string) (domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || len(password) < 8 {
		return domain.User{}, errors.New("name, email and a password of 8+ chars required")
	}
	return uc.Backend.Register(ctx, name, email, password)
}

func (uc *AuthUC) Logout() {
	uc.mu.Lock()
	uc.token = ""
	uc.user = nil
	uc.mu.Unlock()
	if uc.Cart != nil {
		uc.Cart.SetAuthenticated(false)
	}
}

// SetLocalUser records an identity that did not come from the backend (the
// Google sign-in path). No token, so cart mirroring stays off.
func (uc *AuthUC) SetLocalUser(u domain.User) {
	uc.mu.Lock()
	uc.user = &u
	uc.mu.Unlock()
}

func (uc *AuthUC) UpdateProfile(ctx context.Context, name, phone string) error {
	if !uc.IsAuthenticated() {
		return domain.ErrUnauthorized
	}
	if err := uc.Backend.UpdateMe(ctx, name, phone); err != nil {
		return err
	}
	me, err := uc.Backend.Me(ctx)
	if err != nil {
		return nil
	}
	uc.mu.Lock()
	uc.user = &me
	uc.mu.Unlock()
	return nil
}
