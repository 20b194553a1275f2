package usecase

import (
	"context"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/defios/defios"
	"github.com/defios/defios/internal/domain"
)

// --- mocks ---

type mockIdentityRepo struct {
	routers  map[string]domain.Router
	users    map[string]domain.VerifiedUser
	verified map[string]bool
}

func newMockIdentityRepo() *mockIdentityRepo {
	return &mockIdentityRepo{
		routers:  map[string]domain.Router{},
		users:    map[string]domain.VerifiedUser{},
		verified: map[string]bool{},
	}
}

func (m *mockIdentityRepo) CreateRouter(ctx context.Context, router domain.Router) error {
	if _, ok := m.routers[router.Address]; ok {
		return domain.AlreadyExistsError{Resource: "router"}
	}
	m.routers[router.Address] = router
	return nil
}

func (m *mockIdentityRepo) GetRouter(ctx context.Context, address string) (domain.Router, error) {
	router, ok := m.routers[address]
	if !ok {
		return domain.Router{}, domain.NotFoundError{Resource: "router"}
	}
	return router, nil
}

func (m *mockIdentityRepo) CreateVerifiedUser(ctx context.Context, user domain.VerifiedUser) error {
	if _, ok := m.users[user.Address]; ok {
		return domain.AlreadyExistsError{Resource: "verified user"}
	}
	m.users[user.Address] = user
	m.verified[user.Router+"/"+user.Pubkey] = true
	return nil
}

func (m *mockIdentityRepo) GetVerifiedUser(ctx context.Context, address string) (domain.VerifiedUser, error) {
	user, ok := m.users[address]
	if !ok {
		return domain.VerifiedUser{}, domain.NotFoundError{Resource: "verified user"}
	}
	return user, nil
}

func (m *mockIdentityRepo) IsVerified(ctx context.Context, router, pubkey string) (bool, error) {
	return m.verified[router+"/"+pubkey], nil
}

// --- tests ---

const (
	routerPrivkey = "289c2857d4598e37fb9647507e47a309d6133539bf21a8b9cb6df88fd5232032"
	otherPrivkey  = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"
)

func attest(t *testing.T, privkey, username, pubkey string) defios.AddVerifiedUserRequest {
	t.Helper()
	message := defios.AttestationMessage(username, pubkey)
	sig, err := defios.SignBytes([]byte(message), privkey)
	if err != nil {
		t.Fatalf("SignBytes failed: %v", err)
	}
	return defios.AddVerifiedUserRequest{
		Username:  username,
		Pubkey:    pubkey,
		Message:   message,
		Signature: hex.EncodeToString(sig),
	}
}

func setupRouter(t *testing.T) (*IdentityUsecase, *mockIdentityRepo, string, string) {
	t.Helper()
	repo := newMockIdentityRepo()
	uc := NewIdentityUsecase(repo)

	creator, err := defios.PrivKeyToAddr(routerPrivkey)
	if err != nil {
		t.Fatalf("PrivKeyToAddr failed: %v", err)
	}
	router, err := uc.CreateRouter(context.Background(), creator, "github.com", 1)
	if err != nil {
		t.Fatalf("CreateRouter failed: %v", err)
	}
	return uc, repo, creator, router.Address
}

func TestCreateRouterDuplicate(t *testing.T) {
	uc, _, creator, _ := setupRouter(t)

	_, err := uc.CreateRouter(context.Background(), creator, "github.com", 1)
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected AlreadyExists, got %v", err)
	}
}

func TestAddVerifiedUserAccepts(t *testing.T) {
	uc, repo, creator, router := setupRouter(t)

	userAddr, _ := defios.PrivKeyToAddr(otherPrivkey)
	req := attest(t, routerPrivkey, "alice", userAddr)

	user, err := uc.AddVerifiedUser(context.Background(), creator, router, req)
	if err != nil {
		t.Fatalf("AddVerifiedUser failed: %v", err)
	}
	if user.Username != "alice" || user.Pubkey != userAddr {
		t.Fatalf("unexpected user record: %+v", user)
	}

	ok, _ := repo.IsVerified(context.Background(), router, userAddr)
	if !ok {
		t.Fatalf("user should be verified after attestation")
	}
}

func TestAddVerifiedUserRejectsWrongRequester(t *testing.T) {
	uc, _, _, router := setupRouter(t)

	userAddr, _ := defios.PrivKeyToAddr(otherPrivkey)
	req := attest(t, routerPrivkey, "alice", userAddr)

	stranger, _ := defios.PrivKeyToAddr(otherPrivkey)
	_, err := uc.AddVerifiedUser(context.Background(), stranger, router, req)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected Unauthorized, got %v", err)
	}
}

func TestAddVerifiedUserRejectsWrongSigner(t *testing.T) {
	uc, _, creator, router := setupRouter(t)

	userAddr, _ := defios.PrivKeyToAddr(otherPrivkey)
	// Signed by a key other than the router creator's.
	req := attest(t, otherPrivkey, "alice", userAddr)

	_, err := uc.AddVerifiedUser(context.Background(), creator, router, req)
	if !errors.Is(err, domain.ErrSignature) {
		t.Fatalf("expected SignatureError, got %v", err)
	}
}

func TestAddVerifiedUserRejectsFlippedMessage(t *testing.T) {
	uc, _, creator, router := setupRouter(t)

	userAddr, _ := defios.PrivKeyToAddr(otherPrivkey)
	req := attest(t, routerPrivkey, "alice", userAddr)
	req.Message = defios.AttestationMessage("mallory", userAddr)

	_, err := uc.AddVerifiedUser(context.Background(), creator, router, req)
	if !errors.Is(err, domain.ErrSignature) {
		t.Fatalf("expected SignatureError, got %v", err)
	}
}

func TestAddVerifiedUserRejectsFlippedSignature(t *testing.T) {
	uc, _, creator, router := setupRouter(t)

	userAddr, _ := defios.PrivKeyToAddr(otherPrivkey)
	req := attest(t, routerPrivkey, "alice", userAddr)

	raw, _ := hex.DecodeString(req.Signature)
	raw[0] ^= 0x01
	req.Signature = hex.EncodeToString(raw)

	_, err := uc.AddVerifiedUser(context.Background(), creator, router, req)
	if !errors.Is(err, domain.ErrSignature) {
		t.Fatalf("expected SignatureError, got %v", err)
	}
}

func TestAddVerifiedUserDuplicate(t *testing.T) {
	uc, _, creator, router := setupRouter(t)

	userAddr, _ := defios.PrivKeyToAddr(otherPrivkey)
	req := attest(t, routerPrivkey, "alice", userAddr)

	if _, err := uc.AddVerifiedUser(context.Background(), creator, router, req); err != nil {
		t.Fatalf("first attestation failed: %v", err)
	}
	_, err := uc.AddVerifiedUser(context.Background(), creator, router, req)
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected AlreadyExists, got %v", err)
	}
}
