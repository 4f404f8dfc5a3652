package service

import (
	"context"
	"errors"
	"fmt"

	"pizza-store/internal/domain"
	"pizza-store/internal/logger"
	"pizza-store/internal/repository"
)

type UserService struct {
	users repository.UsersRepo
	lg    *logger.Logger
}

func NewUserService(users repository.UsersRepo, lg *logger.Logger) *UserService {
	return &UserService{users: users, lg: lg}
}

// Register creates a customer account. Role escalation only happens through
// a manager's UpdateUserRole.
func (s *UserService) Register(ctx context.Context, login, password, phoneNum string) error {
	if login == "" || password == "" || phoneNum == "" {
		return errors.New("login, password and phone number are required")
	}
	err := s.users.Create(ctx, domain.User{
		Login:    login,
		Password: password,
		Role:     domain.RoleCustomer,
		PhoneNum: phoneNum,
	})
	if err != nil {
		return err
	}
	s.lg.Info("user_registered", map[string]any{"login": login})
	return nil
}

// Login verifies credentials and returns the authenticated login. A missing
// user and a wrong password are reported identically.
func (s *UserService) Login(ctx context.Context, login, password string) (string, error) {
	u, err := s.users.GetByLogin(ctx, login)
	if errors.Is(err, domain.ErrUserNotFound) {
		return "", domain.ErrBadCredentials
	}
	if err != nil {
		return "", err
	}
	if u.Password != password {
		return "", domain.ErrBadCredentials
	}
	s.lg.Info("user_logged_in", map[string]any{"login": login})
	return u.Login, nil
}

func (s *UserService) Profile(ctx context.Context, login string) (domain.User, error) {
	return s.users.GetByLogin(ctx, login)
}

func (s *UserService) UpdatePassword(ctx context.Context, login, password string) error {
	if password == "" {
		return errors.New("password is required")
	}
	return s.users.UpdatePassword(ctx, login, password)
}

func (s *UserService) UpdatePhone(ctx context.Context, login, phone string) error {
	if phone == "" {
		return errors.New("phone number is required")
	}
	return s.users.UpdatePhone(ctx, login, phone)
}

func (s *UserService) UpdateFavorites(ctx context.Context, login, favorites string) error {
	return s.users.UpdateFavorites(ctx, login, favorites)
}

// RoleOf classifies a login. Any lookup failure maps to RoleUnknown so
// privileged paths fail closed.
func (s *UserService) RoleOf(ctx context.Context, login string) domain.Role {
	role, err := s.users.GetRole(ctx, login)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			s.lg.Error("role_lookup_failed", err, map[string]any{"login": login})
		}
		return domain.RoleUnknown
	}
	return role
}

func (s *UserService) IsRole(ctx context.Context, login string, want domain.Role) bool {
	return s.RoleOf(ctx, login) == want
}

// CanUpdateOrderStatus gates the driver/manager-only path.
func (s *UserService) CanUpdateOrderStatus(ctx context.Context, login string) bool {
	switch s.RoleOf(ctx, login) {
	case domain.RoleDriver, domain.RoleManager:
		return true
	default:
		return false
	}
}

// CanManage gates the manager-only paths (menu edits, user edits).
func (s *UserService) CanManage(ctx context.Context, login string) bool {
	return s.RoleOf(ctx, login) == domain.RoleManager
}

// UpdateUserRole lets a manager change another user's role.
func (s *UserService) UpdateUserRole(ctx context.Context, actor, target string, role domain.Role) error {
	if !s.CanManage(ctx, actor) {
		return domain.ErrNotAuthorized
	}
	switch role {
	case domain.RoleCustomer, domain.RoleDriver, domain.RoleManager:
	default:
		return fmt.Errorf("invalid role %q", role)
	}
	if err := s.users.UpdateRole(ctx, target, role); err != nil {
		return err
	}
	s.lg.Info("user_role_updated", map[string]any{"actor": actor, "target": target, "role": string(role)})
	return nil
}

// UpdateUserLogin lets a manager rename a user.
func (s *UserService) UpdateUserLogin(ctx context.Context, actor, target, newLogin string) error {
	if !s.CanManage(ctx, actor) {
		return domain.ErrNotAuthorized
	}
	if newLogin == "" {
		return errors.New("new login is required")
	}
	if err := s.users.UpdateLogin(ctx, target, newLogin); err != nil {
		return err
	}
	s.lg.Info("user_login_updated", map[string]any{"actor": actor, "target": target, "new_login": newLogin})
	return nil
}
