package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pizza-store/internal/domain"
)

type UsersRepo interface {
	Create(ctx context.Context, u domain.User) error
	GetByLogin(ctx context.Context, login string) (domain.User, error)
	GetRole(ctx context.Context, login string) (domain.Role, error)
	UpdatePassword(ctx context.Context, login, password string) error
	UpdatePhone(ctx context.Context, login, phone string) error
	UpdateFavorites(ctx context.Context, login, favorites string) error
	UpdateRole(ctx context.Context, login string, role domain.Role) error
	UpdateLogin(ctx context.Context, oldLogin, newLogin string) error
}

type usersRepo struct {
	db *sql.DB
}

func NewUsersRepo(db *sql.DB) UsersRepo {
	return &usersRepo{db: db}
}

func (r *usersRepo) Create(ctx context.Context, u domain.User) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO Users (login, password, role, favoriteItems, phoneNum)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (login) DO NOTHING
	`, u.Login, u.Password, string(u.Role), nullIfEmpty(u.FavoriteItems), u.PhoneNum)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	if n == 0 {
		return domain.ErrLoginTaken
	}
	return nil
}

func (r *usersRepo) GetByLogin(ctx context.Context, login string) (domain.User, error) {
	var (
		u    domain.User
		role string
		favs sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT login, password, role, favoriteItems, phoneNum
		FROM Users WHERE login = $1
	`, login).Scan(&u.Login, &u.Password, &role, &favs, &u.PhoneNum)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("select user: %w", err)
	}
	u.Role = domain.ParseRole(role)
	u.FavoriteItems = favs.String
	return u, nil
}

func (r *usersRepo) GetRole(ctx context.Context, login string) (domain.Role, error) {
	var role string
	err := r.db.QueryRowContext(ctx, `SELECT role FROM Users WHERE login = $1`, login).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.RoleUnknown, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.RoleUnknown, fmt.Errorf("select role: %w", err)
	}
	return domain.ParseRole(role), nil
}

func (r *usersRepo) UpdatePassword(ctx context.Context, login, password string) error {
	return r.updateColumn(ctx, `UPDATE Users SET password = $2 WHERE login = $1`, login, password)
}

func (r *usersRepo) UpdatePhone(ctx context.Context, login, phone string) error {
	return r.updateColumn(ctx, `UPDATE Users SET phoneNum = $2 WHERE login = $1`, login, phone)
}

func (r *usersRepo) UpdateFavorites(ctx context.Context, login, favorites string) error {
	return r.updateColumn(ctx, `UPDATE Users SET favoriteItems = $2 WHERE login = $1`, login, favorites)
}

func (r *usersRepo) UpdateRole(ctx context.Context, login string, role domain.Role) error {
	return r.updateColumn(ctx, `UPDATE Users SET role = $2 WHERE login = $1`, login, string(role))
}

func (r *usersRepo) UpdateLogin(ctx context.Context, oldLogin, newLogin string) error {
	return r.updateColumn(ctx, `UPDATE Users SET login = $2 WHERE login = $1`, oldLogin, newLogin)
}

func (r *usersRepo) updateColumn(ctx context.Context, query, login, value string) error {
	res, err := r.db.ExecContext(ctx, query, login, value)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
