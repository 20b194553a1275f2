package usecase

import (
	"context"

	"github.com/defios/defios/internal/domain"
)

type IssueUsecase struct {
	repo     IssueRepository
	identity IdentityRepository
}

func NewIssueUsecase(repo IssueRepository, identity IdentityRepository) *IssueUsecase {
	return &IssueUsecase{repo: repo, identity: identity}
}

// Add allocates the next issue index on the repository and creates the
// issue with an empty token pool.
func (uc *IssueUsecase) Add(ctx context.Context, requester, router, repository, uri string) (domain.Issue, error) {
	if err := requireVerified(ctx, uc.identity, router, requester); err != nil {
		return domain.Issue{}, err
	}
	return uc.repo.Create(ctx, repository, requester, uri)
}

// Stake moves amount from the staker's token account into the issue pool.
func (uc *IssueUsecase) Stake(ctx context.Context, requester, issue string, amount uint64) (domain.Staker, error) {
	if amount == 0 {
		return domain.Staker{}, domain.ErrZeroAmount
	}
	return uc.repo.Stake(ctx, issue, requester, amount)
}

// Unstake returns the staker's full recorded stake from the issue pool.
func (uc *IssueUsecase) Unstake(ctx context.Context, requester, issue string) (uint64, error) {
	return uc.repo.Unstake(ctx, issue, requester)
}

func (uc *IssueUsecase) Get(ctx context.Context, address string) (domain.Issue, error) {
	return uc.repo.Get(ctx, address)
}
