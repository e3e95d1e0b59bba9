package auth

import (
	"testing"
	"time"

	"campusnest/pkg/model"
)

func TestTokenRoundTrip(t *testing.T) {
	manager := NewTokenManager("test-secret", time.Hour)

	token, err := manager.GenerateToken("user123", model.RoleStudent)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	actor, err := manager.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken failed: %v", err)
	}
	if actor.ID != "user123" {
		t.Errorf("expected actor ID 'user123', got %q", actor.ID)
	}
	if actor.Role != model.RoleStudent {
		t.Errorf("expected role %q, got %q", model.RoleStudent, actor.Role)
	}
}

func TestVerifyToken_Expired(t *testing.T) {
	manager := NewTokenManager("test-secret", -time.Minute)

	token, err := manager.GenerateToken("user123", model.RoleHostelOwner)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := manager.VerifyToken(token); err == nil {
		t.Error("expected expired token to be rejected")
	}
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", time.Hour)
	verifier := NewTokenManager("secret-b", time.Hour)

	token, err := issuer.GenerateToken("user123", model.RoleGymOwner)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := verifier.VerifyToken(token); err == nil {
		t.Error("expected token signed with another secret to be rejected")
	}
}

func TestVerifyToken_Garbage(t *testing.T) {
	manager := NewTokenManager("test-secret", time.Hour)

	if _, err := manager.VerifyToken("not-a-token"); err == nil {
		t.Error("expected malformed token to be rejected")
	}
}
