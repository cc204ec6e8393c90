package auth

import (
	"context"
	"testing"
)

func TestWithOwnerAndFromContext(t *testing.T) {
	ctx := WithOwner(context.Background(), OwnerContext{OwnerID: "owner-1", Email: "chef@example.com"})
	got, ok := FromContext(ctx)
	if !ok {
		t.Fatal("expected OwnerContext in context")
	}
	if got.OwnerID != "owner-1" {
		t.Errorf("OwnerID = %q, want %q", got.OwnerID, "owner-1")
	}
	if got.Email != "chef@example.com" {
		t.Errorf("Email = %q, want %q", got.Email, "chef@example.com")
	}
	if OwnerID(ctx) != "owner-1" {
		t.Errorf("OwnerID(ctx) = %q", OwnerID(ctx))
	}
}

func TestFromContextMissing(t *testing.T) {
	_, ok := FromContext(context.Background())
	if ok {
		t.Error("expected false for missing OwnerContext")
	}
	if OwnerID(context.Background()) != "" {
		t.Error("expected empty owner id")
	}
}
