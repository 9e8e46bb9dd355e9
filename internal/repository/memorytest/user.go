package memorytest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/google/uuid"
)

type UserRepository struct {
	mu    sync.RWMutex
	users []user.User
}

func NewUserRepository(users ...user.User) *UserRepository {
	r := &UserRepository{}
	r.users = append(r.users, users...)
	return r
}

var _ user.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) find(match func(user.User) bool) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if match(u) {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	return r.find(func(u user.User) bool { return u.ID == id })
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.find(func(u user.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *UserRepository) GetByEmployeeID(ctx context.Context, employeeID string) (user.User, error) {
	return r.find(func(u user.User) bool { return u.EmployeeID == employeeID })
}

func (r *UserRepository) ListByRole(ctx context.Context, role user.Role) ([]user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []user.User{}
	for _, u := range r.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, nil
}

func (r *UserRepository) CountByRole(ctx context.Context, role user.Role) (int64, error) {
	list, err := r.ListByRole(ctx, role)
	return int64(len(list)), err
}

func (r *UserRepository) CountAll(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.users)), nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return err == nil, nil
}

func (r *UserRepository) ExistsByEmployeeID(ctx context.Context, employeeID string) (bool, error) {
	_, err := r.GetByEmployeeID(ctx, employeeID)
	return err == nil, nil
}

func (r *UserRepository) Create(ctx context.Context, u user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return user.User{}, user.ErrUserEmailExists
		}
		if existing.EmployeeID == u.EmployeeID {
			return user.User{}, user.ErrEmployeeIDExists
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.Email = strings.ToLower(u.Email)
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	r.users = append(r.users, u)
	return u, nil
}

func (r *UserRepository) LinkGoogleAccount(ctx context.Context, googleID string, email string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.users {
		if strings.EqualFold(r.users[i].Email, email) {
			provider := "google"
			r.users[i].OAuthProvider = &provider
			r.users[i].OAuthProviderID = &googleID
			r.users[i].UpdatedAt = time.Now()
			return r.users[i], nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}
