package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/defios/defios"
	"github.com/defios/defios/internal/domain"
)

type mockRepoRepo struct {
	defaultSchedule *domain.VestingSchedule

	createdRepo       domain.Repository
	createdMint       domain.Mint
	createdAllocation uint64
}

func (m *mockRepoRepo) Create(ctx context.Context, repo domain.Repository, mint domain.Mint, schedule domain.VestingSchedule, vesting domain.VestingAccount, allocation uint64) error {
	m.createdRepo = repo
	m.createdMint = mint
	m.createdAllocation = allocation
	return nil
}

func (m *mockRepoRepo) Get(ctx context.Context, address string) (domain.Repository, error) {
	return m.createdRepo, nil
}

func (m *mockRepoRepo) GetVesting(ctx context.Context, repository string) (domain.VestingAccount, error) {
	return domain.VestingAccount{}, domain.NotFoundError{Resource: "vesting account"}
}

func (m *mockRepoRepo) SetDefaultSchedule(ctx context.Context, schedule domain.VestingSchedule) error {
	m.defaultSchedule = &schedule
	return nil
}

func (m *mockRepoRepo) GetDefaultSchedule(ctx context.Context) (domain.VestingSchedule, error) {
	if m.defaultSchedule == nil {
		return domain.VestingSchedule{}, domain.NotFoundError{Resource: "vesting schedule"}
	}
	return *m.defaultSchedule, nil
}

func (m *mockRepoRepo) ChangeSchedule(ctx context.Context, repository, requester string, entries []domain.ScheduleEntry) error {
	return nil
}

func (m *mockRepoRepo) UnlockTokens(ctx context.Context, repository, requester string, now time.Time) (uint64, error) {
	return 0, domain.ErrNothingToRelease
}

type verifiedEveryone struct{ *mockIdentityRepo }

func (verifiedEveryone) IsVerified(ctx context.Context, router, pubkey string) (bool, error) {
	return true, nil
}

func allowAll() verifiedEveryone {
	return verifiedEveryone{newMockIdentityRepo()}
}

const testAuthority = "dosaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

func TestCreateRepositoryFreshMint(t *testing.T) {
	repo := &mockRepoRepo{}
	uc := NewRepositoryUsecase(repo, allowAll(), testAuthority)

	base := time.Now()
	repo.defaultSchedule = &domain.VestingSchedule{
		Address:   defios.DefaultScheduleAddress(),
		Authority: testAuthority,
		Entries: []domain.ScheduleEntry{
			{ReleaseTime: base, Amount: 400},
			{ReleaseTime: base.Add(time.Hour), Amount: 600},
		},
	}

	creator := "dosbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	created, err := uc.Create(context.Background(), creator, defios.CreateRepositoryRequest{
		Router: "dpa0000000000000000000000000000000000000000",
		ID:     "defios/core",
		Title:  "DefiOS Core",
		Token:  &defios.TokenParams{Name: "CORE"},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if repo.createdAllocation != 1000 {
		t.Fatalf("expected schedule total 1000 allocated, got %d", repo.createdAllocation)
	}
	if repo.createdMint.Address != defios.MintAddress(created.Address) {
		t.Fatalf("fresh mint should be derived from the repository address")
	}
	if repo.createdMint.Imported {
		t.Fatalf("fresh mint marked imported")
	}
	if created.Creator != creator {
		t.Fatalf("unexpected creator: %s", created.Creator)
	}
}

func TestCreateRepositoryImportedMint(t *testing.T) {
	repo := &mockRepoRepo{}
	uc := NewRepositoryUsecase(repo, allowAll(), testAuthority)

	mint := defios.Derive([]byte("external-mint"))
	_, err := uc.Create(context.Background(), "dosbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", defios.CreateRepositoryRequest{
		Router: "dpa0000000000000000000000000000000000000000",
		ID:     "defios/core",
		Mint:   mint,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if !repo.createdMint.Imported {
		t.Fatalf("imported mint not marked imported")
	}
	if repo.createdAllocation != 0 {
		t.Fatalf("imported mint should vest nothing, got %d", repo.createdAllocation)
	}
}

func TestCreateRepositoryRejectsMalformedMint(t *testing.T) {
	repo := &mockRepoRepo{}
	uc := NewRepositoryUsecase(repo, allowAll(), testAuthority)

	_, err := uc.Create(context.Background(), "dosbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", defios.CreateRepositoryRequest{
		Router: "dpa0000000000000000000000000000000000000000",
		ID:     "defios/core",
		Mint:   "not-an-address",
	})
	if !errors.Is(err, domain.ErrState) {
		t.Fatalf("expected StateError, got %v", err)
	}
}

func TestCreateRepositoryRequiresVerification(t *testing.T) {
	repo := &mockRepoRepo{}
	uc := NewRepositoryUsecase(repo, newMockIdentityRepo(), testAuthority)

	_, err := uc.Create(context.Background(), "dosbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", defios.CreateRepositoryRequest{
		Router: "dpa0000000000000000000000000000000000000000",
		ID:     "defios/core",
		Token:  &defios.TokenParams{Name: "CORE"},
	})
	if !errors.Is(err, domain.ErrNotVerified) {
		t.Fatalf("expected ErrNotVerified, got %v", err)
	}
}

func TestSetDefaultScheduleAuthorityGate(t *testing.T) {
	repo := &mockRepoRepo{}
	uc := NewRepositoryUsecase(repo, allowAll(), testAuthority)

	entries := []domain.ScheduleEntry{{ReleaseTime: time.Now(), Amount: 10}}

	err := uc.SetDefaultSchedule(context.Background(), "dosbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", entries)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected Unauthorized for non-authority, got %v", err)
	}

	if err := uc.SetDefaultSchedule(context.Background(), testAuthority, entries); err != nil {
		t.Fatalf("authority should be able to set the default schedule: %v", err)
	}
	if repo.defaultSchedule == nil || len(repo.defaultSchedule.Entries) != 1 {
		t.Fatalf("default schedule not persisted")
	}
}
