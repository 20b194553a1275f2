package usecase

import (
	"context"
	"encoding/hex"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/defios/defios"
	"github.com/defios/defios/internal/domain"
)

var tracer = otel.Tracer("usecase")

type IdentityUsecase struct {
	repo IdentityRepository
}

func NewIdentityUsecase(repo IdentityRepository) *IdentityUsecase {
	return &IdentityUsecase{repo: repo}
}

// CreateRouter initializes the identity router for
// (signingDomain, signatureVersion, requester). Re-creating an existing
// derivation fails with an AlreadyExists error.
func (uc *IdentityUsecase) CreateRouter(ctx context.Context, requester, signingDomain string, signatureVersion uint64) (domain.Router, error) {
	router := domain.Router{
		Address:          defios.RouterAddress(signingDomain, signatureVersion, requester),
		SigningDomain:    signingDomain,
		SignatureVersion: signatureVersion,
		Creator:          requester,
		CreatedAt:        time.Now(),
	}
	if err := uc.repo.CreateRouter(ctx, router); err != nil {
		return domain.Router{}, err
	}
	return router, nil
}

// AddVerifiedUser records an attested (username, pubkey) pair. The
// attestation signature is checked here, inline, against the router
// creator's key before any state is touched: this platform has no
// transaction-level instruction introspection, so the co-instruction
// verification collapses into the state transition itself.
func (uc *IdentityUsecase) AddVerifiedUser(ctx context.Context, requester, router string, req defios.AddVerifiedUserRequest) (domain.VerifiedUser, error) {
	ctx, span := tracer.Start(ctx, "Identity.Usecase.AddVerifiedUser")
	defer span.End()

	r, err := uc.repo.GetRouter(ctx, router)
	if err != nil {
		return domain.VerifiedUser{}, err
	}
	if r.Creator != requester {
		return domain.VerifiedUser{}, domain.AuthorizationError{Reason: "only the router creator can attest users"}
	}

	expected := defios.AttestationMessage(req.Username, req.Pubkey)
	if req.Message != expected {
		return domain.VerifiedUser{}, domain.SignatureError{Reason: "unexpected attestation message"}
	}

	signature, err := hex.DecodeString(req.Signature)
	if err != nil {
		return domain.VerifiedUser{}, domain.SignatureError{Reason: "malformed signature encoding"}
	}
	if err := defios.VerifySignature([]byte(req.Message), signature, r.Creator); err != nil {
		span.RecordError(err)
		return domain.VerifiedUser{}, domain.SignatureError{Reason: err.Error()}
	}

	user := domain.VerifiedUser{
		Address:   defios.VerifiedUserAddress(router, req.Username, req.Pubkey),
		Router:    router,
		Username:  req.Username,
		Pubkey:    req.Pubkey,
		CreatedAt: time.Now(),
	}
	if err := uc.repo.CreateVerifiedUser(ctx, user); err != nil {
		return domain.VerifiedUser{}, err
	}
	return user, nil
}

func (uc *IdentityUsecase) GetRouter(ctx context.Context, address string) (domain.Router, error) {
	return uc.repo.GetRouter(ctx, address)
}

func (uc *IdentityUsecase) GetVerifiedUser(ctx context.Context, address string) (domain.VerifiedUser, error) {
	return uc.repo.GetVerifiedUser(ctx, address)
}

// requireVerified is the shared "creator must be verified" gate.
func requireVerified(ctx context.Context, repo IdentityRepository, router, pubkey string) error {
	ok, err := repo.IsVerified(ctx, router, pubkey)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotVerified
	}
	return nil
}
