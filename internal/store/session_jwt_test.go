package store

import (
	"testing"
	"time"
)

func TestJWTSessionRoundTrip(t *testing.T) {
	s := NewJWTSessionStore("test-secret", time.Hour)
	token, err := s.NewSession("user-1")
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	uid, ok, err := s.GetUserIDByToken(token)
	if err != nil {
		t.Fatalf("resolve token: %v", err)
	}
	if !ok || uid != "user-1" {
		t.Fatalf("resolved (%q, %v), want (user-1, true)", uid, ok)
	}
}

func TestJWTSessionRejectsWrongSecret(t *testing.T) {
	issuer := NewJWTSessionStore("secret-a", time.Hour)
	verifier := NewJWTSessionStore("secret-b", time.Hour)
	token, err := issuer.NewSession("user-1")
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if _, ok, err := verifier.GetUserIDByToken(token); ok || err != nil {
		t.Fatalf("cross-secret token accepted: ok=%v err=%v", ok, err)
	}
}

func TestJWTSessionRejectsExpired(t *testing.T) {
	s := NewJWTSessionStore("test-secret", -2*time.Minute)
	token, err := s.NewSession("user-1")
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if _, ok, err := s.GetUserIDByToken(token); ok || err != nil {
		t.Fatalf("expired token accepted: ok=%v err=%v", ok, err)
	}
}

func TestJWTSessionRejectsGarbage(t *testing.T) {
	s := NewJWTSessionStore("test-secret", time.Hour)
	if _, ok, err := s.GetUserIDByToken("not.a.jwt"); ok || err != nil {
		t.Fatalf("garbage token accepted: ok=%v err=%v", ok, err)
	}
}
