package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/niksmo/kvshop/internal/core/domain"
	"github.com/niksmo/kvshop/internal/core/port"
)

var _ port.SessionManager = (*SessionService)(nil)

// A SessionService records who is logged in. Credentials are not checked.
type SessionService struct {
	store port.Store
	carts port.CartManager
}

func NewSessionService(s port.Store, carts port.CartManager) SessionService {
	return SessionService{s, carts}
}

func (s SessionService) Identity(ctx context.Context) domain.Identity {
	return readIdentity(ctx, s.store)
}

// Login replaces the current session and moves the guest cart
// into the cart of the new identity.
func (s SessionService) Login(
	ctx context.Context, cred domain.Credentials,
) (domain.Identity, error) {
	const op = "SessionService.Login"
	log := slog.With("op", op)

	email := strings.TrimSpace(cred.Email)
	if email == "" {
		return domain.Identity{}, opErr(domain.ErrInvalid, op)
	}

	if err := s.Logout(ctx); err != nil {
		return domain.Identity{}, opErr(err, op)
	}

	var session map[string]any
	if cred.Admin {
		session = map[string]any{
			KeyIsAdminLoggedIn: true,
			KeyAdminEmail:      email,
		}
	} else {
		session = map[string]any{
			KeyIsUserLoggedIn: true,
			KeyUserEmail:      email,
			KeyUserName:       s.userName(ctx, email, cred.Name),
		}
	}
	if err := s.store.SetMany(ctx, session); err != nil {
		return domain.Identity{}, opErr(err, op)
	}

	if err := s.carts.MigrateGuestCart(ctx, email); err != nil {
		log.Warn("guest cart is not migrated", "email", email, "err", err)
	}

	log.Info("logged in", "email", email, "admin", cred.Admin)
	return s.Identity(ctx), nil
}

func (s SessionService) Logout(ctx context.Context) error {
	const op = "SessionService.Logout"

	var errs []error
	for _, key := range sessionKeys {
		if err := s.store.Remove(ctx, key); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return opErr(err, op)
	}
	return nil
}

func (s SessionService) userName(ctx context.Context, email, name string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	if u, ok := findUserByEmail(loadUsers(ctx, s.store), email); ok {
		return u.Name
	}
	name, _, _ = strings.Cut(email, "@")
	return name
}
