package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	dom "taskman/internal/domain"
)

func TestCreateUserValidation(t *testing.T) {
	svc := NewUserService(newMemUserRepo(), nil)
	ctx := context.Background()

	cases := []struct {
		name string
		in   CreateUserInput
		msg  string
	}{
		{"missing username", CreateUserInput{Password: "secret1"}, "Username and password are required"},
		{"missing password", CreateUserInput{Username: "ann"}, "Username and password are required"},
		{"username too short", CreateUserInput{Username: "ab", Password: "secret1"}, "Username must be between 3 and 30 characters"},
		{"username too long", CreateUserInput{Username: strings.Repeat("a", 31), Password: "secret1"}, "Username must be between 3 and 30 characters"},
		{"multibyte username too short", CreateUserInput{Username: "日本", Password: "secret1"}, "Username must be between 3 and 30 characters"},
		{"multibyte username too long", CreateUserInput{Username: strings.Repeat("日", 31), Password: "secret1"}, "Username must be between 3 and 30 characters"},
		{"password too short", CreateUserInput{Username: "ann", Password: "short"}, "Password must be at least 6 characters long"},
		{"short password with bad username", CreateUserInput{Username: "x", Password: "abc"}, "Username must be between 3 and 30 characters"},
		{"bad role", CreateUserInput{Username: "ann", Password: "secret1", Role: "superuser"}, "Role must be one of: user, admin"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.in)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if ve.Msg != tc.msg {
				t.Fatalf("expected message %q, got %q", tc.msg, ve.Msg)
			}
		})
	}
}

func TestUsernameLengthCountsCharacters(t *testing.T) {
	svc := NewUserService(newMemUserRepo(), nil)
	ctx := context.Background()

	// 12 characters but 36 bytes; must pass the 3-30 character rule.
	name := strings.Repeat("日", 12)
	u, err := svc.Create(ctx, CreateUserInput{Username: name, Password: "secret1"})
	if err != nil {
		t.Fatalf("multibyte username rejected: %v", err)
	}

	// Same rule on rename.
	short := "日本"
	_, err = svc.Update(ctx, u.ID, UpdateUserInput{Username: &short})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error for 2-character rename, got %v", err)
	}
}

func TestCreateUserHashesPassword(t *testing.T) {
	svc := NewUserService(newMemUserRepo(), nil)
	ctx := context.Background()

	u, err := svc.Create(ctx, CreateUserInput{Username: "ann", Password: "secret1", Email: "  Ann@Example.COM "})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.PasswordHash == "secret1" || u.PasswordHash == "" {
		t.Fatal("password must be stored as an irreversible hash")
	}
	if u.Email != "ann@example.com" {
		t.Fatalf("expected normalized email, got %q", u.Email)
	}
	if u.Role != dom.RoleUser {
		t.Fatalf("expected default role user, got %q", u.Role)
	}

	if _, err := svc.ValidateCredentials(ctx, "ann", "secret1"); err != nil {
		t.Fatalf("valid credentials rejected: %v", err)
	}
}

func TestValidateCredentialsUndifferentiated(t *testing.T) {
	svc := NewUserService(newMemUserRepo(), nil)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateUserInput{Username: "ann", Password: "secret1"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Unknown user and wrong password must yield the exact same error.
	_, errUnknown := svc.ValidateCredentials(ctx, "nobody", "secret1")
	_, errWrongPw := svc.ValidateCredentials(ctx, "ann", "wrongpw")
	if !errors.Is(errUnknown, ErrInvalidCredentials) || !errors.Is(errWrongPw, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for both, got %v / %v", errUnknown, errWrongPw)
	}
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	svc := NewUserService(newMemUserRepo(), nil)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateUserInput{Username: "ann", Password: "secret1"}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.Create(ctx, CreateUserInput{Username: "ann", Password: "other-secret"})
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestUpdateUser(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewUserService(repo, nil)
	ctx := context.Background()

	ann, err := svc.Create(ctx, CreateUserInput{Username: "ann", Password: "secret1"})
	if err != nil {
		t.Fatalf("create ann: %v", err)
	}
	if _, err := svc.Create(ctx, CreateUserInput{Username: "bob", Password: "secret1"}); err != nil {
		t.Fatalf("create bob: %v", err)
	}

	t.Run("rename onto taken username conflicts", func(t *testing.T) {
		name := "bob"
		_, err := svc.Update(ctx, ann.ID, UpdateUserInput{Username: &name})
		if !errors.Is(err, ErrUsernameTaken) {
			t.Fatalf("expected ErrUsernameTaken, got %v", err)
		}
	})

	t.Run("same username excludes self", func(t *testing.T) {
		name := "ann"
		if _, err := svc.Update(ctx, ann.ID, UpdateUserInput{Username: &name}); err != nil {
			t.Fatalf("no-op rename must not conflict: %v", err)
		}
	})

	t.Run("non-empty password is rehashed", func(t *testing.T) {
		pw := "newsecret"
		if _, err := svc.Update(ctx, ann.ID, UpdateUserInput{Password: &pw}); err != nil {
			t.Fatalf("update: %v", err)
		}
		if _, err := svc.ValidateCredentials(ctx, "ann", "newsecret"); err != nil {
			t.Fatalf("new password rejected: %v", err)
		}
		if _, err := svc.ValidateCredentials(ctx, "ann", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("old password still accepted: %v", err)
		}
	})

	t.Run("short new password rejected", func(t *testing.T) {
		pw := "tiny"
		_, err := svc.Update(ctx, ann.ID, UpdateUserInput{Password: &pw})
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("missing user", func(t *testing.T) {
		name := "carol"
		_, err := svc.Update(ctx, "00000000-0000-0000-0000-000000000000", UpdateUserInput{Username: &name})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestDeleteUserTwice(t *testing.T) {
	svc := NewUserService(newMemUserRepo(), nil)
	ctx := context.Background()

	u, err := svc.Create(ctx, CreateUserInput{Username: "ann", Password: "secret1"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(ctx, u.ID); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := svc.Delete(ctx, u.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on repeat delete, got %v", err)
	}
}

func TestUserListNewestFirst(t *testing.T) {
	svc := NewUserService(newMemUserRepo(), nil)
	ctx := context.Background()

	for _, name := range []string{"ann", "bob", "carol"} {
		if _, err := svc.Create(ctx, CreateUserInput{Username: name, Password: "secret1"}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}
	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 || list[0].Username != "carol" || list[2].Username != "ann" {
		t.Fatalf("expected newest-first ordering, got %+v", list)
	}
}

func TestUserServiceStoreUnavailable(t *testing.T) {
	svc := NewUserService(newMemUserRepo(), staticHealth(false))
	ctx := context.Background()

	if _, err := svc.List(ctx); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if _, err := svc.Create(ctx, CreateUserInput{Username: "ann", Password: "secret1"}); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestEnsureAdminIdempotent(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewUserService(repo, nil)
	ctx := context.Background()

	if err := svc.EnsureAdmin(ctx, "admin", "changeme123"); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if err := svc.EnsureAdmin(ctx, "admin", "changeme123"); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	u, err := repo.GetByUsername(ctx, "admin")
	if err != nil {
		t.Fatalf("lookup admin: %v", err)
	}
	if u.Role != dom.RoleAdmin {
		t.Fatalf("expected admin role, got %q", u.Role)
	}
	list, _ := repo.List(ctx)
	if len(list) != 1 {
		t.Fatalf("expected exactly one admin account, got %d users", len(list))
	}
}
