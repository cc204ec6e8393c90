package store

import (
	"testing"

	"github.com/menucraft/menucraft/internal/database"
)

func setupOwnerTestDB(t *testing.T) *OwnerStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewOwnerStore(db)
}

func TestOwnerCreate(t *testing.T) {
	s := setupOwnerTestDB(t)

	o, err := s.Create(" Chef@Example.com ", "Somchai", "hash")
	if err != nil {
		t.Fatalf("create owner: %v", err)
	}
	if o.Email != "chef@example.com" {
		t.Errorf("email = %q, want %q", o.Email, "chef@example.com")
	}
	if o.Name != "Somchai" {
		t.Errorf("name = %q, want %q", o.Name, "Somchai")
	}
	if len(o.ID) != 36 {
		t.Errorf("id = %q, want a uuid", o.ID)
	}
	if o.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}
}

func TestOwnerCreateDuplicateEmail(t *testing.T) {
	s := setupOwnerTestDB(t)

	if _, err := s.Create("chef@example.com", "A", "hash"); err != nil {
		t.Fatalf("create owner: %v", err)
	}
	if _, err := s.Create("CHEF@example.com", "B", "hash"); err == nil {
		t.Fatal("expected error for duplicate email, got nil")
	}
}

func TestOwnerGetByEmail(t *testing.T) {
	s := setupOwnerTestDB(t)
	created, _ := s.Create("chef@example.com", "A", "hash")

	got, err := s.GetByEmail("Chef@Example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if got == nil || got.ID != created.ID {
		t.Errorf("got = %+v, want id %q", got, created.ID)
	}
	if got.PasswordHash != "hash" {
		t.Errorf("password hash = %q", got.PasswordHash)
	}

	missing, err := s.GetByEmail("nobody@example.com")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing owner, got %+v", missing)
	}
}
