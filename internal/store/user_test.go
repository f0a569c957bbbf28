package store

import (
	"testing"

	"github.com/tsumuapp/tsumu/internal/database"
)

func setupUserTestDB(t *testing.T) *UserStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewUserStore(db)
}

func TestUserCreateAndGet(t *testing.T) {
	us := setupUserTestDB(t)

	user, err := us.Create("mika@example.com", "$2a$10$fakehash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.ID == 0 {
		t.Error("expected non-zero id")
	}
	if user.Email != "mika@example.com" {
		t.Errorf("email = %q, want %q", user.Email, "mika@example.com")
	}

	got, err := us.GetByID(user.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.Email != user.Email {
		t.Errorf("got email = %q, want %q", got.Email, user.Email)
	}

	byEmail, err := us.GetByEmail("mika@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if byEmail.ID != user.ID {
		t.Errorf("by-email id = %d, want %d", byEmail.ID, user.ID)
	}
}

func TestUserGetNotFound(t *testing.T) {
	us := setupUserTestDB(t)

	got, err := us.GetByID(9999)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got != nil {
		t.Error("expected nil for nonexistent user")
	}

	got, err = us.GetByEmail("nobody@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if got != nil {
		t.Error("expected nil for unknown email")
	}
}

func TestUserDuplicateEmail(t *testing.T) {
	us := setupUserTestDB(t)

	if _, err := us.Create("dup@example.com", "h1"); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := us.Create("dup@example.com", "h2"); err == nil {
		t.Error("expected error for duplicate email")
	}
}

func TestUserDelete(t *testing.T) {
	us := setupUserTestDB(t)

	user, _ := us.Create("gone@example.com", "h")
	if err := us.Delete(user.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	got, err := us.GetByID(user.ID)
	if err != nil {
		t.Fatalf("get deleted user: %v", err)
	}
	if got != nil {
		t.Error("expected nil for deleted user")
	}
}
