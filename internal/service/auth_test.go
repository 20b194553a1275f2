package service

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/defios/defios"
	"github.com/defios/defios/internal/domain"
	"github.com/defios/defios/jwt"
)

const testPrivkey = "289c2857d4598e37fb9647507e47a309d6133539bf21a8b9cb6df88fd5232032"

func issueToken(t *testing.T, audience, subject string) (string, string) {
	t.Helper()
	addr, err := defios.PrivKeyToAddr(testPrivkey)
	if err != nil {
		t.Fatalf("PrivKeyToAddr failed: %v", err)
	}
	token, err := jwt.Create(jwt.Claims{
		Issuer:         addr,
		Audience:       audience,
		Subject:        subject,
		ExpirationTime: strconv.FormatInt(time.Now().Add(time.Minute).Unix(), 10),
	}, testPrivkey)
	if err != nil {
		t.Fatalf("jwt.Create failed: %v", err)
	}
	return token, addr
}

func TestAuthJwtResolvesWallet(t *testing.T) {
	auth := NewAuthService(&domain.Config{FQDN: "node.example.com"})

	token, addr := issueToken(t, "node.example.com", "defios")
	result, err := auth.AuthJwt(context.Background(), token)
	if err != nil {
		t.Fatalf("AuthJwt failed: %v", err)
	}
	if result.Address != addr {
		t.Fatalf("expected requester %s, got %s", addr, result.Address)
	}
}

func TestAuthJwtRejectsWrongAudience(t *testing.T) {
	auth := NewAuthService(&domain.Config{FQDN: "node.example.com"})

	token, _ := issueToken(t, "other.example.com", "defios")
	if _, err := auth.AuthJwt(context.Background(), token); err == nil {
		t.Fatalf("expected audience mismatch to be rejected")
	}
}

func TestAuthJwtRejectsWrongSubject(t *testing.T) {
	auth := NewAuthService(&domain.Config{FQDN: "node.example.com"})

	token, _ := issueToken(t, "node.example.com", "somethingelse")
	if _, err := auth.AuthJwt(context.Background(), token); err == nil {
		t.Fatalf("expected subject mismatch to be rejected")
	}
}
