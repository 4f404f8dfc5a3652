package service

import (
	"context"
	"errors"
	"testing"

	"pizza-store/internal/domain"
)

func seededUsers() *fakeUsers {
	return &fakeUsers{users: map[string]domain.User{
		"alice": {Login: "alice", Password: "pw", Role: domain.RoleCustomer, PhoneNum: "555-0101"},
		"dave":  {Login: "dave", Password: "pw", Role: domain.RoleDriver},
		"mary":  {Login: "mary", Password: "pw", Role: domain.RoleManager},
	}}
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	users := seededUsers()
	svc := NewUserService(users, testLogger())

	t.Run("register creates a customer", func(t *testing.T) {
		if err := svc.Register(ctx, "bob", "hunter2", "555-0102"); err != nil {
			t.Fatalf("Register: %v", err)
		}
		if users.users["bob"].Role != domain.RoleCustomer {
			t.Errorf("role = %q, want customer", users.users["bob"].Role)
		}
	})

	t.Run("duplicate login refused", func(t *testing.T) {
		if err := svc.Register(ctx, "alice", "x", "555"); !errors.Is(err, domain.ErrLoginTaken) {
			t.Errorf("err = %v, want ErrLoginTaken", err)
		}
	})

	t.Run("login succeeds with matching credentials", func(t *testing.T) {
		got, err := svc.Login(ctx, "alice", "pw")
		if err != nil || got != "alice" {
			t.Errorf("Login = %q, %v", got, err)
		}
	})

	t.Run("wrong password and missing user report the same", func(t *testing.T) {
		if _, err := svc.Login(ctx, "alice", "nope"); !errors.Is(err, domain.ErrBadCredentials) {
			t.Errorf("wrong password err = %v", err)
		}
		if _, err := svc.Login(ctx, "ghost", "pw"); !errors.Is(err, domain.ErrBadCredentials) {
			t.Errorf("missing user err = %v", err)
		}
	})
}

func TestRoleGate(t *testing.T) {
	ctx := context.Background()

	t.Run("classifies known roles exactly", func(t *testing.T) {
		svc := NewUserService(seededUsers(), testLogger())
		if got := svc.RoleOf(ctx, "alice"); got != domain.RoleCustomer {
			t.Errorf("RoleOf(alice) = %q", got)
		}
		if got := svc.RoleOf(ctx, "dave"); got != domain.RoleDriver {
			t.Errorf("RoleOf(dave) = %q", got)
		}
		if !svc.IsRole(ctx, "mary", domain.RoleManager) {
			t.Error("IsRole(mary, manager) = false")
		}
	})

	t.Run("missing user fails closed", func(t *testing.T) {
		svc := NewUserService(seededUsers(), testLogger())
		if got := svc.RoleOf(ctx, "ghost"); got != domain.RoleUnknown {
			t.Errorf("RoleOf(ghost) = %q, want unknown", got)
		}
		if svc.CanUpdateOrderStatus(ctx, "ghost") || svc.CanManage(ctx, "ghost") {
			t.Error("unknown login passed a privileged gate")
		}
	})

	t.Run("lookup failure fails closed", func(t *testing.T) {
		users := seededUsers()
		users.roleErr = errors.New("connection lost")
		svc := NewUserService(users, testLogger())
		if svc.CanManage(ctx, "mary") {
			t.Error("privileged gate passed despite lookup failure")
		}
	})
}

func TestManagerUserEdits(t *testing.T) {
	ctx := context.Background()
	users := seededUsers()
	svc := NewUserService(users, testLogger())

	t.Run("customer cannot edit users", func(t *testing.T) {
		if err := svc.UpdateUserRole(ctx, "alice", "dave", domain.RoleManager); !errors.Is(err, domain.ErrNotAuthorized) {
			t.Errorf("err = %v, want ErrNotAuthorized", err)
		}
	})

	t.Run("manager promotes a driver", func(t *testing.T) {
		if err := svc.UpdateUserRole(ctx, "mary", "dave", domain.RoleManager); err != nil {
			t.Fatalf("UpdateUserRole: %v", err)
		}
		if users.users["dave"].Role != domain.RoleManager {
			t.Errorf("role = %q", users.users["dave"].Role)
		}
	})

	t.Run("invalid role value refused", func(t *testing.T) {
		if err := svc.UpdateUserRole(ctx, "mary", "alice", domain.Role("root")); err == nil {
			t.Fatal("expected error for invalid role")
		}
	})

	t.Run("manager renames a user", func(t *testing.T) {
		if err := svc.UpdateUserLogin(ctx, "mary", "alice", "alice2"); err != nil {
			t.Fatalf("UpdateUserLogin: %v", err)
		}
		if _, ok := users.users["alice2"]; !ok {
			t.Error("renamed user missing")
		}
	})
}
