package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/defios/defios"
	"github.com/defios/defios/internal/domain"
	"github.com/defios/defios/internal/infra/database/models"
)

type PullRequestRepository struct {
	db *gorm.DB
}

func NewPullRequestRepository(db *gorm.DB) *PullRequestRepository {
	return &PullRequestRepository{db: db}
}

func (r *PullRequestRepository) CreateCommit(ctx context.Context, commit domain.Commit) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var issue models.Issue
		err := tx.Where("address = ?", commit.Issue).Take(&issue).Error
		if err != nil {
			return domain.NotFoundError{Resource: "issue"}
		}

		err = tx.Create(&models.Commit{
			Address:     commit.Address,
			Issue:       commit.Issue,
			CommitHash:  commit.CommitHash,
			TreeHash:    commit.TreeHash,
			MetadataURI: commit.MetadataURI,
			Creator:     commit.Creator,
		}).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.AlreadyExistsError{Resource: "commit"}
		}
		return err
	})
}

func (r *PullRequestRepository) GetCommit(ctx context.Context, address string) (domain.Commit, error) {
	var commit models.Commit
	err := r.db.WithContext(ctx).
		Where("address = ?", address).
		Take(&commit).Error
	if err != nil {
		return domain.Commit{}, domain.NotFoundError{Resource: "commit"}
	}
	return commitToDomain(commit), nil
}

// Create opens the pull request with its own empty pool, attaching any
// referenced commits. Order of the commit accounts is irrelevant; each must
// already exist and belong to the same issue.
func (r *PullRequestRepository) Create(ctx context.Context, pr domain.PullRequest, commits []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		issue, err := lockIssue(tx, pr.Issue)
		if err != nil {
			return err
		}
		if issue.Closed {
			return domain.ErrIssueClosed
		}

		mint, err := mintForRepository(tx, issue.Repository)
		if err != nil {
			return err
		}

		err = tx.Create(&models.PullRequest{
			Address:     pr.Address,
			Issue:       pr.Issue,
			Creator:     pr.Creator,
			MetadataURI: pr.MetadataURI,
			Status:      string(domain.PullRequestOpen),
			Pool:        pr.Pool,
		}).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.AlreadyExistsError{Resource: "pull request"}
		}
		if err != nil {
			return err
		}

		if err := tx.Create(&models.TokenAccount{
			Address: pr.Pool,
			Mint:    mint,
			Owner:   defios.AuthorityAddress(),
		}).Error; err != nil {
			return err
		}

		for _, commit := range commits {
			if err := attachCommitRow(tx, pr.Address, pr.Issue, commit, pr.Creator, false); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *PullRequestRepository) Get(ctx context.Context, address string) (domain.PullRequest, error) {
	var pr models.PullRequest
	err := r.db.WithContext(ctx).
		Where("address = ?", address).
		Take(&pr).Error
	if err != nil {
		return domain.PullRequest{}, domain.NotFoundError{Resource: "pull request"}
	}

	var joins []models.PullRequestCommit
	err = r.db.WithContext(ctx).
		Where("pull_request = ?", address).
		Find(&joins).Error
	if err != nil {
		return domain.PullRequest{}, err
	}

	result := prToDomain(pr)
	for _, join := range joins {
		result.Commits = append(result.Commits, join.Commit)
	}
	return result, nil
}

// AttachCommit appends a commit to an open pull request. Only the commit's
// own creator may attach it.
func (r *PullRequestRepository) AttachCommit(ctx context.Context, pull, commit, requester string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pr, err := lockPullRequest(tx, pull)
		if err != nil {
			return err
		}
		if pr.Status != string(domain.PullRequestOpen) {
			return domain.ErrAlreadyAccepted
		}
		return attachCommitRow(tx, pull, pr.Issue, commit, requester, true)
	})
}

func attachCommitRow(tx *gorm.DB, pull, issue, commit, requester string, checkCreator bool) error {
	var record models.Commit
	err := tx.Where("address = ?", commit).Take(&record).Error
	if err != nil {
		return domain.NotFoundError{Resource: "commit"}
	}
	if record.Issue != issue {
		return domain.StateError{Reason: "commit belongs to a different issue"}
	}
	if checkCreator && record.Creator != requester {
		return domain.AuthorizationError{Reason: "only the commit creator can attach it"}
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.PullRequestCommit{
		PullRequest: pull,
		Commit:      commit,
	}).Error
}

// Stake backs an open pull request from the staker's wallet.
func (r *PullRequestRepository) Stake(ctx context.Context, pull, staker string, amount uint64) (domain.Staker, error) {
	var record domain.Staker

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pr, err := lockPullRequest(tx, pull)
		if err != nil {
			return err
		}
		if pr.Status != string(domain.PullRequestOpen) {
			return domain.StateError{Reason: "cannot stake on a non-open pull request"}
		}

		issue, err := lockIssue(tx, pr.Issue)
		if err != nil {
			return err
		}
		mint, err := mintForRepository(tx, issue.Repository)
		if err != nil {
			return err
		}

		updated, err := stakeIntoPool(tx, pull, pr.Pool, mint, staker, amount)
		if err != nil {
			return err
		}
		record = updated
		return nil
	})
	if err != nil {
		return domain.Staker{}, err
	}
	return record, nil
}

// Unstake withdraws a PR stake. Permitted until the reward claim empties the
// records; afterwards there is nothing to find.
func (r *PullRequestRepository) Unstake(ctx context.Context, pull, staker string) (uint64, error) {
	var refunded uint64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pr, err := lockPullRequest(tx, pull)
		if err != nil {
			return err
		}

		issue, err := lockIssue(tx, pr.Issue)
		if err != nil {
			return err
		}
		mint, err := mintForRepository(tx, issue.Repository)
		if err != nil {
			return err
		}

		amount, err := unstakeFromPool(tx, pull, pr.Pool, mint, staker)
		if err != nil {
			return err
		}
		refunded = amount
		return nil
	})
	if err != nil {
		return 0, err
	}
	return refunded, nil
}

// Accept transitions Open → Accepted under the repository creator's sole
// authority.
func (r *PullRequestRepository) Accept(ctx context.Context, pull, repository, requester string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var repo models.Repository
		err := tx.Where("address = ?", repository).Take(&repo).Error
		if err != nil {
			return domain.NotFoundError{Resource: "repository"}
		}
		if repo.Creator != requester {
			return domain.ErrNotRepositoryCreator
		}

		pr, err := lockPullRequest(tx, pull)
		if err != nil {
			return err
		}
		if pr.Status != string(domain.PullRequestOpen) {
			return domain.ErrAlreadyAccepted
		}

		var issue models.Issue
		err = tx.Where("address = ?", pr.Issue).Take(&issue).Error
		if err != nil {
			return domain.NotFoundError{Resource: "issue"}
		}
		if issue.Repository != repository {
			return domain.StateError{Reason: "pull request does not belong to this repository"}
		}

		return tx.Model(&models.PullRequest{}).
			Where("address = ?", pull).
			Update("status", string(domain.PullRequestAccepted)).Error
	})
}

// ClaimReward distributes the issue pool once: the whole pool principal to
// the pull request creator, and every stake on the winning PR refunded to
// its staker. Closes the issue.
func (r *PullRequestRepository) ClaimReward(ctx context.Context, pull, requester string) (domain.RewardBreakdown, error) {
	var breakdown domain.RewardBreakdown

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pr, err := lockPullRequest(tx, pull)
		if err != nil {
			return err
		}
		if pr.Creator != requester {
			return domain.ErrNotPullRequestCreator
		}
		if pr.Status != string(domain.PullRequestAccepted) {
			return domain.ErrNotAccepted
		}
		if pr.Claimed {
			return domain.ErrAlreadyClaimed
		}

		issue, err := lockIssue(tx, pr.Issue)
		if err != nil {
			return err
		}
		mint, err := mintForRepository(tx, issue.Repository)
		if err != nil {
			return err
		}

		issuePool, err := lockTokenAccount(tx, issue.Pool)
		if err != nil {
			return err
		}

		var stakes []models.Staker
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("target = ?", pull).
			Find(&stakes).Error
		if err != nil {
			return err
		}
		recorded := make([]domain.Staker, 0, len(stakes))
		for _, stake := range stakes {
			recorded = append(recorded, domain.Staker{Staker: stake.Staker, Amount: stake.Amount})
		}

		prPool, err := lockTokenAccount(tx, pr.Pool)
		if err != nil {
			return err
		}

		breakdown, err = domain.SplitReward(issuePool.Balance, recorded, prPool.Balance)
		if err != nil {
			return err
		}

		// Principal: everything staked at the issue level.
		if breakdown.Principal > 0 {
			wallet, err := walletAccount(tx, mint, pr.Creator)
			if err != nil {
				return err
			}
			if err := transferTokens(tx, issuePool, wallet, breakdown.Principal); err != nil {
				return err
			}
		}

		// Refunds: stakes on the winning PR were bets on the correct
		// outcome and go back to their stakers.
		for staker, amount := range breakdown.Refunds {
			wallet, err := walletAccount(tx, mint, staker)
			if err != nil {
				return err
			}
			if err := transferTokens(tx, prPool, wallet, amount); err != nil {
				return err
			}
			prPool.Balance -= amount
		}
		if err := tx.Delete(&models.Staker{}, "target = ?", pull).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Issue{}).
			Where("address = ?", issue.Address).
			Update("closed", true).Error; err != nil {
			return err
		}
		return tx.Model(&models.PullRequest{}).
			Where("address = ?", pull).
			Update("claimed", true).Error
	})
	if err != nil {
		return domain.RewardBreakdown{}, err
	}
	return breakdown, nil
}

func lockPullRequest(tx *gorm.DB, address string) (models.PullRequest, error) {
	var pr models.PullRequest
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("address = ?", address).
		Take(&pr).Error
	if err != nil {
		return models.PullRequest{}, domain.NotFoundError{Resource: "pull request"}
	}
	return pr, nil
}

func commitToDomain(commit models.Commit) domain.Commit {
	return domain.Commit{
		Address:     commit.Address,
		Issue:       commit.Issue,
		CommitHash:  commit.CommitHash,
		TreeHash:    commit.TreeHash,
		MetadataURI: commit.MetadataURI,
		Creator:     commit.Creator,
		CreatedAt:   commit.CDate,
	}
}

func prToDomain(pr models.PullRequest) domain.PullRequest {
	return domain.PullRequest{
		Address:     pr.Address,
		Issue:       pr.Issue,
		Creator:     pr.Creator,
		MetadataURI: pr.MetadataURI,
		Status:      domain.PullRequestStatus(pr.Status),
		Claimed:     pr.Claimed,
		Pool:        pr.Pool,
		CreatedAt:   pr.CDate,
	}
}
