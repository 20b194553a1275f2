package usecase

import (
	"context"
	"time"

	"github.com/defios/defios/internal/domain"
)

// IdentityRepository persists routers and verified users.
type IdentityRepository interface {
	CreateRouter(ctx context.Context, router domain.Router) error
	GetRouter(ctx context.Context, address string) (domain.Router, error)
	CreateVerifiedUser(ctx context.Context, user domain.VerifiedUser) error
	GetVerifiedUser(ctx context.Context, address string) (domain.VerifiedUser, error)
	IsVerified(ctx context.Context, router, pubkey string) (bool, error)
}

// RepoRepository persists repositories, mints, and vesting state.
type RepoRepository interface {
	Create(ctx context.Context, repo domain.Repository, mint domain.Mint, schedule domain.VestingSchedule, vesting domain.VestingAccount, allocation uint64) error
	Get(ctx context.Context, address string) (domain.Repository, error)
	GetVesting(ctx context.Context, repository string) (domain.VestingAccount, error)
	SetDefaultSchedule(ctx context.Context, schedule domain.VestingSchedule) error
	GetDefaultSchedule(ctx context.Context) (domain.VestingSchedule, error)
	ChangeSchedule(ctx context.Context, repository, requester string, entries []domain.ScheduleEntry) error
	UnlockTokens(ctx context.Context, repository, requester string, now time.Time) (uint64, error)
}

// IssueRepository persists issues and issue-level stakes.
type IssueRepository interface {
	Create(ctx context.Context, repository, creator, uri string) (domain.Issue, error)
	Get(ctx context.Context, address string) (domain.Issue, error)
	Stake(ctx context.Context, issue, staker string, amount uint64) (domain.Staker, error)
	Unstake(ctx context.Context, issue, staker string) (uint64, error)
}

// PullRequestRepository persists commits, pull requests, PR stakes, and the
// acceptance/claim lifecycle.
type PullRequestRepository interface {
	CreateCommit(ctx context.Context, commit domain.Commit) error
	GetCommit(ctx context.Context, address string) (domain.Commit, error)
	Create(ctx context.Context, pr domain.PullRequest, commits []string) error
	Get(ctx context.Context, address string) (domain.PullRequest, error)
	AttachCommit(ctx context.Context, pull, commit, requester string) error
	Stake(ctx context.Context, pull, staker string, amount uint64) (domain.Staker, error)
	Unstake(ctx context.Context, pull, staker string) (uint64, error)
	Accept(ctx context.Context, pull, repository, requester string) error
	ClaimReward(ctx context.Context, pull, requester string) (domain.RewardBreakdown, error)
}

// RoadmapRepository persists roadmaps, the objective tree, and grants.
type RoadmapRepository interface {
	CreateRoadmap(ctx context.Context, roadmap domain.Roadmap) error
	GetRoadmap(ctx context.Context, address string) (domain.Roadmap, error)
	CreateObjective(ctx context.Context, objective domain.Objective) error
	GetObjective(ctx context.Context, address string) (domain.Objective, error)
	LinkObjective(ctx context.Context, objective, parent, requester string) error
	Grant(ctx context.Context, objective, grantee string, amount uint64, uri string) (domain.Grant, error)
	Disperse(ctx context.Context, objective, grantee, requester string, amount uint64) error
}

// MarketRepository persists communal pools and executes swaps.
type MarketRepository interface {
	CreatePool(ctx context.Context, pool domain.CommunalPool) error
	GetPool(ctx context.Context, mint string) (domain.CommunalPool, error)
	Buy(ctx context.Context, mint, trader string, amountIn, minOut uint64) (uint64, error)
	Sell(ctx context.Context, mint, trader string, amountIn, minOut uint64) (uint64, error)
}

// TokenRepository reads the token ledger. Mutation happens only inside
// instruction transactions.
type TokenRepository interface {
	GetAccount(ctx context.Context, address string) (domain.TokenAccount, error)
	GetBalance(ctx context.Context, address string) (uint64, error)
}
