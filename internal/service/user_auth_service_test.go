package service

import (
	"context"
	"errors"
	"testing"

	"github.com/logiroute/internal/authz"
	"github.com/logiroute/internal/constants"
	"github.com/logiroute/internal/repository"
)

func signupInput(username string) AccountInput {
	return AccountInput{
		Username: username,
		Password: "secret123",
		FullName: "Test " + username,
		Email:    username + "@example.com",
		Phone:    "+254700000000",
	}
}

func TestSignupAlwaysCreatesClient(t *testing.T) {
	env := setupServiceTest(t)
	for _, requested := range []string{"", constants.RoleAdmin, constants.RolePersonnel, "superuser"} {
		input := signupInput("user_" + requested)
		input.Role = requested
		user, token, _, err := env.users.Signup(input)
		if err != nil {
			t.Fatalf("signup with role %q failed: %v", requested, err)
		}
		if user.Role != constants.RoleClient {
			t.Fatalf("requested %q, expected client, got %s", requested, user.Role)
		}
		if token == "" {
			t.Fatalf("expected token")
		}
	}
}

func TestSignupConflicts(t *testing.T) {
	env := setupServiceTest(t)
	if _, _, _, err := env.users.Signup(signupInput("alice")); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	dupName := signupInput("alice")
	dupName.Email = "other@example.com"
	if _, _, _, err := env.users.Signup(dupName); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected username taken, got %v", err)
	}

	dupEmail := signupInput("alice2")
	dupEmail.Email = "ALICE@example.com"
	if _, _, _, err := env.users.Signup(dupEmail); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected email taken, got %v", err)
	}
	if !errors.Is(ErrEmailTaken, ErrConflict) {
		t.Fatalf("email taken should be a conflict")
	}
}

func TestSignupValidation(t *testing.T) {
	env := setupServiceTest(t)
	_, _, _, err := env.users.Signup(AccountInput{
		Username: "a",
		Password: "short",
		Email:    "not-an-email",
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	got := map[string]string{}
	for _, field := range verr.Fields {
		got[field.Field] = field.Reason
	}
	if got["username"] != ReasonInvalid || got["full_name"] != ReasonRequired || got["email"] != ReasonInvalid {
		t.Fatalf("unexpected field errors: %v", got)
	}
	if got["password"] != "password_min_length" {
		t.Fatalf("expected password policy reason, got %q", got["password"])
	}
}

func TestLoginAndLogout(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	if _, _, _, err := env.users.Signup(signupInput("bob")); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	if _, _, _, err := env.users.Login("bob", "wrong-pass1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, _, _, err := env.users.Login("nobody", "secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown user, got %v", err)
	}

	user, token, _, err := env.users.Login("bob", "secret123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.LastLoginAt == nil {
		t.Fatalf("expected last_login_at to be set")
	}
	caller, err := env.users.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if caller.UserID != user.ID || caller.Role != constants.RoleClient {
		t.Fatalf("unexpected caller: %+v", caller)
	}
	current, err := env.users.CurrentUser(caller)
	if err != nil || current.Username != "bob" {
		t.Fatalf("current user failed: %v %+v", err, current)
	}

	if err := env.users.Logout(ctx, caller); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if _, err := env.users.Authenticate(ctx, token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected token revoked after logout, got %v", err)
	}
	if _, err := env.users.CurrentUser(authz.Anonymous()); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
}

func TestAuthenticateRejectsForeignToken(t *testing.T) {
	env := setupServiceTest(t)
	if _, err := env.users.Authenticate(context.Background(), "not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
}

func TestProvisionAndListUsersAdminOnly(t *testing.T) {
	env := setupServiceTest(t)
	admin := env.seedUser(t, "admin", constants.RoleAdmin)
	client := env.seedUser(t, "client1", constants.RoleClient)

	input := signupInput("driver1")
	input.Role = constants.RolePersonnel
	user, err := env.users.ProvisionUser(admin, input)
	if err != nil {
		t.Fatalf("provision failed: %v", err)
	}
	if user.Role != constants.RolePersonnel {
		t.Fatalf("expected personnel, got %s", user.Role)
	}
	if _, err := env.users.ProvisionUser(client, signupInput("x1")); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}

	users, total, err := env.users.ListUsers(admin, repository.UserListFilter{Role: "personnel"})
	if err != nil {
		t.Fatalf("list users failed: %v", err)
	}
	if total != 1 || len(users) != 1 || users[0].ID != user.ID {
		t.Fatalf("unexpected users: total=%d %+v", total, users)
	}
	if _, _, err := env.users.ListUsers(client, repository.UserListFilter{}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden for client, got %v", err)
	}
}
