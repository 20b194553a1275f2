package usecase

import (
	"context"
	"time"

	"github.com/defios/defios"
	"github.com/defios/defios/internal/domain"
)

type PullRequestUsecase struct {
	repo     PullRequestRepository
	issues   IssueRepository
	identity IdentityRepository
}

func NewPullRequestUsecase(repo PullRequestRepository, issues IssueRepository, identity IdentityRepository) *PullRequestUsecase {
	return &PullRequestUsecase{repo: repo, issues: issues, identity: identity}
}

// AddCommit records an immutable commit on an issue. The derivation over
// (hash, creator, issue) rejects duplicates with AlreadyExists.
func (uc *PullRequestUsecase) AddCommit(ctx context.Context, requester, router, issue string, req defios.AddCommitRequest) (domain.Commit, error) {
	if err := requireVerified(ctx, uc.identity, router, requester); err != nil {
		return domain.Commit{}, err
	}
	if _, err := uc.issues.Get(ctx, issue); err != nil {
		return domain.Commit{}, err
	}
	commit := domain.Commit{
		Address:     defios.CommitAddress(req.CommitHash, requester, issue),
		Issue:       issue,
		CommitHash:  req.CommitHash,
		TreeHash:    req.TreeHash,
		MetadataURI: req.MetadataURI,
		Creator:     requester,
		CreatedAt:   time.Now(),
	}
	if err := uc.repo.CreateCommit(ctx, commit); err != nil {
		return domain.Commit{}, err
	}
	return commit, nil
}

func (uc *PullRequestUsecase) GetCommit(ctx context.Context, address string) (domain.Commit, error) {
	return uc.repo.GetCommit(ctx, address)
}

// Add opens a pull request against an issue, optionally attaching existing
// commits. Each referenced commit must belong to the same issue.
func (uc *PullRequestUsecase) Add(ctx context.Context, requester, router, issue string, req defios.AddPullRequestRequest) (domain.PullRequest, error) {
	if err := requireVerified(ctx, uc.identity, router, requester); err != nil {
		return domain.PullRequest{}, err
	}
	found, err := uc.issues.Get(ctx, issue)
	if err != nil {
		return domain.PullRequest{}, err
	}
	if found.Closed {
		return domain.PullRequest{}, domain.ErrIssueClosed
	}
	address := defios.PullRequestAddress(issue, requester)
	pr := domain.PullRequest{
		Address:     address,
		Issue:       issue,
		Creator:     requester,
		MetadataURI: req.MetadataURI,
		Status:      domain.PullRequestOpen,
		Pool:        defios.PoolAddress(address),
		CreatedAt:   time.Now(),
	}
	if err := uc.repo.Create(ctx, pr, req.Commits); err != nil {
		return domain.PullRequest{}, err
	}
	pr.Commits = req.Commits
	return pr, nil
}

// AttachCommit appends a later commit to an open pull request. Only the
// commit's creator may attach it.
func (uc *PullRequestUsecase) AttachCommit(ctx context.Context, requester, router, pull, commit string) error {
	if err := requireVerified(ctx, uc.identity, router, requester); err != nil {
		return err
	}
	return uc.repo.AttachCommit(ctx, pull, commit, requester)
}

// Stake backs a specific pull request's chance of acceptance.
func (uc *PullRequestUsecase) Stake(ctx context.Context, requester, pull string, amount uint64) (domain.Staker, error) {
	if amount == 0 {
		return domain.Staker{}, domain.ErrZeroAmount
	}
	return uc.repo.Stake(ctx, pull, requester, amount)
}

func (uc *PullRequestUsecase) Unstake(ctx context.Context, requester, pull string) (uint64, error) {
	return uc.repo.Unstake(ctx, pull, requester)
}

// Accept transitions Open → Accepted. The sole authority gate is the
// repository creator's signature, matching a maintainer-merge model.
func (uc *PullRequestUsecase) Accept(ctx context.Context, requester, pull, repository string) error {
	return uc.repo.Accept(ctx, pull, repository, requester)
}

// ClaimReward distributes the issue pool to the pull request creator and
// refunds the winning PR's stakers, exactly once.
func (uc *PullRequestUsecase) ClaimReward(ctx context.Context, requester, pull string) (domain.RewardBreakdown, error) {
	ctx, span := tracer.Start(ctx, "PullRequest.Usecase.ClaimReward")
	defer span.End()

	breakdown, err := uc.repo.ClaimReward(ctx, pull, requester)
	if err != nil {
		span.RecordError(err)
		return domain.RewardBreakdown{}, err
	}
	return breakdown, nil
}

func (uc *PullRequestUsecase) Get(ctx context.Context, address string) (domain.PullRequest, error) {
	return uc.repo.Get(ctx, address)
}
