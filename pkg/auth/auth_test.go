package auth

import (
	"testing"
	"time"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatalf("hash must not equal the plain credential")
	}
	if !CheckPassword("correct horse battery staple", hash) {
		t.Errorf("expected matching credential to verify")
	}
	if CheckPassword("wrong password!", hash) {
		t.Errorf("expected mismatching credential to fail")
	}
}

func TestTokenIssueAndVerify(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	token, err := issuer.Issue(Actor{Username: "admin", IsAdmin: true})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	actor, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if actor.Username != "admin" || !actor.IsAdmin {
		t.Errorf("unexpected actor %+v", actor)
	}
}

func TestTokenVerifyFailures(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	if _, err := issuer.Verify("not-a-token"); err == nil {
		t.Errorf("expected malformed token to fail verification")
	}

	other := NewTokenIssuer("different-secret", time.Hour)
	token, err := other.Issue(Actor{Username: "user123"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := issuer.Verify(token); err == nil {
		t.Errorf("expected token signed with another secret to fail")
	}

	expiredIssuer := NewTokenIssuer("test-secret", -time.Minute)
	expired, err := expiredIssuer.Issue(Actor{Username: "user123"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := issuer.Verify(expired); err != ErrExpiredToken {
		t.Errorf("expected ErrExpiredToken, got %v", err)
	}
}
