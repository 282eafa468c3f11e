package service

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/niksmo/kvshop/internal/core/domain"
	"github.com/niksmo/kvshop/internal/core/port"
)

var _ port.UserManager = (*UserService)(nil)

const newUserPeriod = 30 * 24 * time.Hour

type UserService struct {
	store port.Store
	opts  options
}

func NewUserService(s port.Store, opts ...Opt) UserService {
	return UserService{s, makeOptions(opts)}
}

// SeedAdmin adds the administrator account when there are no users.
func (s UserService) SeedAdmin(ctx context.Context, name, email string) error {
	const op = "UserService.SeedAdmin"

	if len(loadUsers(ctx, s.store)) != 0 {
		return nil
	}

	admin := domain.User{
		ID:           1,
		Name:         name,
		Email:        email,
		Role:         domain.RoleAdmin,
		Status:       domain.UserActive,
		RegisteredAt: s.opts.now(),
	}
	if err := admin.Validate(); err != nil {
		return opErr(err, op)
	}
	if err := s.store.Set(ctx, KeyUsers, []domain.User{admin}); err != nil {
		return opErr(err, op)
	}
	return nil
}

func (s UserService) ListUsers(ctx context.Context, search string) []domain.User {
	return slices.DeleteFunc(loadUsers(ctx, s.store), func(u domain.User) bool {
		return search != "" &&
			!containsFold(u.Name, search) &&
			!containsFold(u.Email, search) &&
			!containsFold(u.Phone, search)
	})
}

func (s UserService) User(ctx context.Context, id int64) (domain.User, error) {
	const op = "UserService.User"

	users := loadUsers(ctx, s.store)
	i := indexUser(users, id)
	if i == -1 {
		return domain.User{}, opErr(domain.ErrNotFound, op)
	}
	return users[i], nil
}

// CreateUser adds a user with a unique email. The id is the registration
// time in unix milliseconds.
func (s UserService) CreateUser(
	ctx context.Context, u domain.User,
) (domain.User, error) {
	const op = "UserService.CreateUser"

	u = trimUser(u)
	if err := u.Validate(); err != nil {
		return domain.User{}, opErr(err, op)
	}

	users := loadUsers(ctx, s.store)
	if _, ok := findUserByEmail(users, u.Email); ok {
		return domain.User{}, opErr(domain.ErrConflict, op)
	}

	u.RegisteredAt = s.opts.now()
	u.UpdatedAt = time.Time{}
	u.ID = u.RegisteredAt.UnixMilli()
	for indexUser(users, u.ID) != -1 {
		u.ID++
	}
	users = append(users, u)

	if err := s.store.Set(ctx, KeyUsers, users); err != nil {
		return domain.User{}, opErr(err, op)
	}
	return u, nil
}

func (s UserService) UpdateUser(
	ctx context.Context, id int64, u domain.User,
) (domain.User, error) {
	const op = "UserService.UpdateUser"

	u = trimUser(u)
	if err := u.Validate(); err != nil {
		return domain.User{}, opErr(err, op)
	}

	users := loadUsers(ctx, s.store)
	i := indexUser(users, id)
	if i == -1 {
		return domain.User{}, opErr(domain.ErrNotFound, op)
	}
	if other, ok := findUserByEmail(users, u.Email); ok && other.ID != id {
		return domain.User{}, opErr(domain.ErrConflict, op)
	}

	u.ID = id
	u.RegisteredAt = users[i].RegisteredAt
	u.UpdatedAt = s.opts.now()
	users[i] = u

	if err := s.store.Set(ctx, KeyUsers, users); err != nil {
		return domain.User{}, opErr(err, op)
	}
	return u, nil
}

func (s UserService) DeleteUser(ctx context.Context, id int64) error {
	const op = "UserService.DeleteUser"

	users := loadUsers(ctx, s.store)
	i := indexUser(users, id)
	if i == -1 {
		return opErr(domain.ErrNotFound, op)
	}

	users = slices.Delete(users, i, i+1)
	if err := s.store.Set(ctx, KeyUsers, users); err != nil {
		return opErr(err, op)
	}
	return nil
}

// UpdateProfile changes name and phone of the logged in user and the
// user name of the session. The admin profile is not editable here.
func (s UserService) UpdateProfile(
	ctx context.Context, name, phone string,
) (domain.User, error) {
	const op = "UserService.UpdateProfile"

	id := readIdentity(ctx, s.store)
	switch {
	case id.IsAdmin():
		return domain.User{}, opErr(domain.ErrForbidden, op)
	case id.IsGuest():
		return domain.User{}, opErr(domain.ErrNotIdentified, op)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return domain.User{}, opErr(domain.ErrInvalid, op)
	}

	users := loadUsers(ctx, s.store)
	u, ok := findUserByEmail(users, id.UserEmail)
	if !ok {
		return domain.User{}, opErr(domain.ErrNotFound, op)
	}
	i := indexUser(users, u.ID)
	users[i].Name = name
	users[i].Phone = strings.TrimSpace(phone)
	users[i].UpdatedAt = s.opts.now()

	err := s.store.SetMany(ctx, map[string]any{
		KeyUsers:    users,
		KeyUserName: name,
	})
	if err != nil {
		return domain.User{}, opErr(err, op)
	}
	return users[i], nil
}

func (s UserService) UserStats(ctx context.Context) (stats domain.UserStats) {
	since := s.opts.now().Add(-newUserPeriod)
	for _, u := range loadUsers(ctx, s.store) {
		stats.Total++
		if u.Status == domain.UserActive {
			stats.Active++
		}
		if u.RegisteredAt.After(since) {
			stats.New++
		}
	}
	return
}

func findUserByEmail(users []domain.User, email string) (domain.User, bool) {
	i := slices.IndexFunc(users, func(u domain.User) bool {
		return strings.EqualFold(u.Email, email)
	})
	if i == -1 {
		return domain.User{}, false
	}
	return users[i], true
}

func indexUser(users []domain.User, id int64) int {
	return slices.IndexFunc(users, func(u domain.User) bool { return u.ID == id })
}

func trimUser(u domain.User) domain.User {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.TrimSpace(u.Email)
	u.Phone = strings.TrimSpace(u.Phone)
	return u
}
