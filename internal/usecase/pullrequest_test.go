package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/defios/defios"
	"github.com/defios/defios/internal/domain"
)

type mockPullRepo struct {
	commits map[string]domain.Commit
	prs     map[string]domain.PullRequest
	stakes  map[string]uint64

	createdCommits []string
}

func newMockPullRepo() *mockPullRepo {
	return &mockPullRepo{
		commits: map[string]domain.Commit{},
		prs:     map[string]domain.PullRequest{},
		stakes:  map[string]uint64{},
	}
}

func (m *mockPullRepo) CreateCommit(ctx context.Context, commit domain.Commit) error {
	if _, ok := m.commits[commit.Address]; ok {
		return domain.AlreadyExistsError{Resource: "commit"}
	}
	m.commits[commit.Address] = commit
	return nil
}

func (m *mockPullRepo) GetCommit(ctx context.Context, address string) (domain.Commit, error) {
	commit, ok := m.commits[address]
	if !ok {
		return domain.Commit{}, domain.NotFoundError{Resource: "commit"}
	}
	return commit, nil
}

func (m *mockPullRepo) Create(ctx context.Context, pr domain.PullRequest, commits []string) error {
	if _, ok := m.prs[pr.Address]; ok {
		return domain.AlreadyExistsError{Resource: "pull request"}
	}
	m.prs[pr.Address] = pr
	m.createdCommits = commits
	return nil
}

func (m *mockPullRepo) Get(ctx context.Context, address string) (domain.PullRequest, error) {
	pr, ok := m.prs[address]
	if !ok {
		return domain.PullRequest{}, domain.NotFoundError{Resource: "pull request"}
	}
	return pr, nil
}

func (m *mockPullRepo) AttachCommit(ctx context.Context, pull, commit, requester string) error {
	found, ok := m.commits[commit]
	if !ok {
		return domain.NotFoundError{Resource: "commit"}
	}
	if found.Creator != requester {
		return domain.AuthorizationError{Reason: "only the commit creator can attach it"}
	}
	pr := m.prs[pull]
	pr.Commits = append(pr.Commits, commit)
	m.prs[pull] = pr
	return nil
}

func (m *mockPullRepo) Stake(ctx context.Context, pull, staker string, amount uint64) (domain.Staker, error) {
	m.stakes[pull+"/"+staker] += amount
	return domain.Staker{Target: pull, Staker: staker, Amount: m.stakes[pull+"/"+staker]}, nil
}

func (m *mockPullRepo) Unstake(ctx context.Context, pull, staker string) (uint64, error) {
	key := pull + "/" + staker
	amount, ok := m.stakes[key]
	if !ok {
		return 0, domain.ErrNoStakeFound
	}
	delete(m.stakes, key)
	return amount, nil
}

func (m *mockPullRepo) Accept(ctx context.Context, pull, repository, requester string) error {
	pr := m.prs[pull]
	if pr.Status != domain.PullRequestOpen {
		return domain.ErrAlreadyAccepted
	}
	pr.Status = domain.PullRequestAccepted
	m.prs[pull] = pr
	return nil
}

func (m *mockPullRepo) ClaimReward(ctx context.Context, pull, requester string) (domain.RewardBreakdown, error) {
	pr := m.prs[pull]
	if pr.Status != domain.PullRequestAccepted {
		return domain.RewardBreakdown{}, domain.ErrNotAccepted
	}
	if pr.Claimed {
		return domain.RewardBreakdown{}, domain.ErrAlreadyClaimed
	}
	pr.Claimed = true
	m.prs[pull] = pr
	return domain.RewardBreakdown{Principal: 500}, nil
}

func seedIssue(t *testing.T, issues *mockIssueRepo) domain.Issue {
	t.Helper()
	issue, err := issues.Create(context.Background(), "dpa1", testRequesterAddr, "ipfs://issue")
	if err != nil {
		t.Fatalf("seeding issue failed: %v", err)
	}
	return issue
}

func TestAddCommitRequiresVerification(t *testing.T) {
	issues := newMockIssueRepo()
	issue := seedIssue(t, issues)
	uc := NewPullRequestUsecase(newMockPullRepo(), issues, newMockIdentityRepo())

	_, err := uc.AddCommit(context.Background(), testRequesterAddr, "dpa0", issue.Address, defios.AddCommitRequest{
		CommitHash: "abc123",
	})
	if !errors.Is(err, domain.ErrNotVerified) {
		t.Fatalf("expected ErrNotVerified, got %v", err)
	}
}

func TestAddCommitUnknownIssue(t *testing.T) {
	uc := NewPullRequestUsecase(newMockPullRepo(), newMockIssueRepo(), allowAll())

	_, err := uc.AddCommit(context.Background(), testRequesterAddr, "dpa0", "dpa2222222222222222222222222222222222222222", defios.AddCommitRequest{
		CommitHash: "abc123",
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected NotFound for a commit against no issue, got %v", err)
	}
}

func TestAddCommitDuplicate(t *testing.T) {
	issues := newMockIssueRepo()
	issue := seedIssue(t, issues)
	uc := NewPullRequestUsecase(newMockPullRepo(), issues, allowAll())

	req := defios.AddCommitRequest{CommitHash: "abc123", TreeHash: "def456"}
	commit, err := uc.AddCommit(context.Background(), testRequesterAddr, "dpa0", issue.Address, req)
	if err != nil {
		t.Fatalf("AddCommit failed: %v", err)
	}
	if commit.Address != defios.CommitAddress("abc123", testRequesterAddr, issue.Address) {
		t.Fatalf("commit address should be derived from hash, creator, and issue")
	}

	_, err = uc.AddCommit(context.Background(), testRequesterAddr, "dpa0", issue.Address, req)
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected AlreadyExists on duplicate commit, got %v", err)
	}
}

func TestAddPullRequestCarriesCommits(t *testing.T) {
	repo := newMockPullRepo()
	issues := newMockIssueRepo()
	issue := seedIssue(t, issues)
	uc := NewPullRequestUsecase(repo, issues, allowAll())

	commit, err := uc.AddCommit(context.Background(), testRequesterAddr, "dpa0", issue.Address, defios.AddCommitRequest{CommitHash: "abc123"})
	if err != nil {
		t.Fatalf("AddCommit failed: %v", err)
	}

	pr, err := uc.Add(context.Background(), testRequesterAddr, "dpa0", issue.Address, defios.AddPullRequestRequest{
		MetadataURI: "ipfs://pr",
		Commits:     []string{commit.Address},
	})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if pr.Address != defios.PullRequestAddress(issue.Address, testRequesterAddr) {
		t.Fatalf("pull request address should be derived from issue and creator")
	}
	if pr.Pool != defios.PoolAddress(pr.Address) {
		t.Fatalf("pool should be derived from the pull request address")
	}
	if pr.Status != domain.PullRequestOpen {
		t.Fatalf("new pull request should be open, got %s", pr.Status)
	}
	if len(repo.createdCommits) != 1 || repo.createdCommits[0] != commit.Address {
		t.Fatalf("referenced commits not passed through: %v", repo.createdCommits)
	}
}

func TestAddPullRequestClosedIssue(t *testing.T) {
	issues := newMockIssueRepo()
	issue := seedIssue(t, issues)
	closed := issues.issues[issue.Address]
	closed.Closed = true
	issues.issues[issue.Address] = closed

	uc := NewPullRequestUsecase(newMockPullRepo(), issues, allowAll())
	_, err := uc.Add(context.Background(), testRequesterAddr, "dpa0", issue.Address, defios.AddPullRequestRequest{})
	if !errors.Is(err, domain.ErrIssueClosed) {
		t.Fatalf("expected ErrIssueClosed, got %v", err)
	}
}

func TestAttachCommitCreatorGate(t *testing.T) {
	repo := newMockPullRepo()
	issues := newMockIssueRepo()
	issue := seedIssue(t, issues)
	uc := NewPullRequestUsecase(repo, issues, allowAll())

	commit, err := uc.AddCommit(context.Background(), testRequesterAddr, "dpa0", issue.Address, defios.AddCommitRequest{CommitHash: "abc123"})
	if err != nil {
		t.Fatalf("AddCommit failed: %v", err)
	}
	pr, err := uc.Add(context.Background(), testRequesterAddr, "dpa0", issue.Address, defios.AddPullRequestRequest{})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	stranger := "doscccccccccccccccccccccccccccccccccccccccc"
	err = uc.AttachCommit(context.Background(), stranger, "dpa0", pr.Address, commit.Address)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected authorization error, got %v", err)
	}

	if err := uc.AttachCommit(context.Background(), testRequesterAddr, "dpa0", pr.Address, commit.Address); err != nil {
		t.Fatalf("AttachCommit by the creator failed: %v", err)
	}
}

func TestStakePullRequestZeroAmount(t *testing.T) {
	uc := NewPullRequestUsecase(newMockPullRepo(), newMockIssueRepo(), allowAll())

	_, err := uc.Stake(context.Background(), testRequesterAddr, "dpa3", 0)
	if !errors.Is(err, domain.ErrZeroAmount) {
		t.Fatalf("expected ErrZeroAmount, got %v", err)
	}
}

func TestClaimRewardLifecycle(t *testing.T) {
	repo := newMockPullRepo()
	issues := newMockIssueRepo()
	issue := seedIssue(t, issues)
	uc := NewPullRequestUsecase(repo, issues, allowAll())

	pr, err := uc.Add(context.Background(), testRequesterAddr, "dpa0", issue.Address, defios.AddPullRequestRequest{})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if _, err := uc.ClaimReward(context.Background(), testRequesterAddr, pr.Address); !errors.Is(err, domain.ErrNotAccepted) {
		t.Fatalf("expected ErrNotAccepted before acceptance, got %v", err)
	}

	if err := uc.Accept(context.Background(), testRequesterAddr, pr.Address, "dpa1"); err != nil {
		t.Fatalf("Accept failed: %v", err)
	}
	if err := uc.Accept(context.Background(), testRequesterAddr, pr.Address, "dpa1"); !errors.Is(err, domain.ErrAlreadyAccepted) {
		t.Fatalf("expected ErrAlreadyAccepted on second accept, got %v", err)
	}

	breakdown, err := uc.ClaimReward(context.Background(), testRequesterAddr, pr.Address)
	if err != nil {
		t.Fatalf("ClaimReward failed: %v", err)
	}
	if breakdown.Principal != 500 {
		t.Fatalf("unexpected principal: %d", breakdown.Principal)
	}

	if _, err := uc.ClaimReward(context.Background(), testRequesterAddr, pr.Address); !errors.Is(err, domain.ErrAlreadyClaimed) {
		t.Fatalf("expected ErrAlreadyClaimed on second claim, got %v", err)
	}
}
