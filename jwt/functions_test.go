package jwt

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/defios/defios"
)

const testPrivkey = "289c2857d4598e37fb9647507e47a309d6133539bf21a8b9cb6df88fd5232032"

func TestCreateValidateRoundTrip(t *testing.T) {
	addr, err := defios.PrivKeyToAddr(testPrivkey)
	if err != nil {
		t.Fatalf("PrivKeyToAddr failed: %v", err)
	}

	token, err := Create(Claims{
		Issuer:         addr,
		Audience:       "node.example.com",
		Subject:        "defios",
		ExpirationTime: strconv.FormatInt(time.Now().Add(time.Minute).Unix(), 10),
	}, testPrivkey)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	header, claims, err := Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if header.Algorithm != "DEFIOS" {
		t.Fatalf("unexpected algorithm: %s", header.Algorithm)
	}
	if claims.Issuer != addr || claims.Audience != "node.example.com" {
		t.Fatalf("claims mangled: %+v", claims)
	}
}

func TestValidateRejectsExpired(t *testing.T) {
	addr, _ := defios.PrivKeyToAddr(testPrivkey)
	token, err := Create(Claims{
		Issuer:         addr,
		Audience:       "node.example.com",
		Subject:        "defios",
		ExpirationTime: strconv.FormatInt(time.Now().Add(-time.Minute).Unix(), 10),
	}, testPrivkey)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, _, err := Validate(token); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestValidateRejectsTamperedPayload(t *testing.T) {
	addr, _ := defios.PrivKeyToAddr(testPrivkey)
	token, err := Create(Claims{
		Issuer:   addr,
		Audience: "node.example.com",
		Subject:  "defios",
	}, testPrivkey)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	parts := strings.Split(token, ".")
	forged, err := Create(Claims{
		Issuer:   addr,
		Audience: "evil.example.com",
		Subject:  "defios",
	}, testPrivkey)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	forgedParts := strings.Split(forged, ".")

	// Splice the forged payload under the original signature.
	spliced := parts[0] + "." + forgedParts[1] + "." + parts[2]
	if _, _, err := Validate(spliced); err == nil {
		t.Fatalf("expected spliced token to be rejected")
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	if _, _, err := Validate("not.a.token"); err == nil {
		t.Fatalf("expected garbage token to be rejected")
	}
	if _, _, err := Validate("onlytwoparts.here"); err == nil {
		t.Fatalf("expected malformed token to be rejected")
	}
}
