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

type IssueRepository struct {
	db *gorm.DB
}

func NewIssueRepository(db *gorm.DB) *IssueRepository {
	return &IssueRepository{db: db}
}

// Create allocates the issue at the repository's current index and
// increments the counter under the same row lock, so indexes are strictly
// increasing even under concurrent submission.
func (r *IssueRepository) Create(ctx context.Context, repository, creator, uri string) (domain.Issue, error) {
	var created domain.Issue

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var repo models.Repository
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("address = ?", repository).
			Take(&repo).Error
		if err != nil {
			return domain.NotFoundError{Resource: "repository"}
		}

		index := repo.IssueIndex
		address := defios.IssueAddress(index, repository, creator)
		pool := defios.PoolAddress(address)

		issue := models.Issue{
			Address:    address,
			Repository: repository,
			Index:      index,
			URI:        uri,
			Creator:    creator,
			Pool:       pool,
		}
		err = tx.Create(&issue).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.AlreadyExistsError{Resource: "issue"}
		}
		if err != nil {
			return err
		}

		if err := tx.Create(&models.TokenAccount{
			Address: pool,
			Mint:    repo.Mint,
			Owner:   defios.AuthorityAddress(),
		}).Error; err != nil {
			return err
		}

		next, err := domain.AddAmount(index, 1)
		if err != nil {
			return err
		}
		if err := tx.Model(&models.Repository{}).
			Where("address = ?", repository).
			Update("issue_index", next).Error; err != nil {
			return err
		}

		created = domain.Issue{
			Address:    address,
			Repository: repository,
			Index:      index,
			URI:        uri,
			Creator:    creator,
			Pool:       pool,
		}
		return nil
	})
	if err != nil {
		return domain.Issue{}, err
	}
	return created, nil
}

func (r *IssueRepository) Get(ctx context.Context, address string) (domain.Issue, error) {
	var issue models.Issue
	err := r.db.WithContext(ctx).
		Where("address = ?", address).
		Take(&issue).Error
	if err != nil {
		return domain.Issue{}, domain.NotFoundError{Resource: "issue"}
	}
	return issueToDomain(issue), nil
}

// Stake moves amount from the staker's wallet into the issue pool and
// upserts the stake record.
func (r *IssueRepository) Stake(ctx context.Context, issue, staker string, amount uint64) (domain.Staker, error) {
	var record domain.Staker

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		target, err := lockIssue(tx, issue)
		if err != nil {
			return err
		}
		if target.Closed {
			return domain.ErrIssueClosed
		}

		mint, err := mintForRepository(tx, target.Repository)
		if err != nil {
			return err
		}

		updated, err := stakeIntoPool(tx, issue, target.Pool, mint, staker, amount)
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

// Unstake returns the staker's full recorded stake and removes the record.
func (r *IssueRepository) Unstake(ctx context.Context, issue, staker string) (uint64, error) {
	var refunded uint64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		target, err := lockIssue(tx, issue)
		if err != nil {
			return err
		}
		if target.Closed {
			return domain.ErrIssueClosed
		}

		mint, err := mintForRepository(tx, target.Repository)
		if err != nil {
			return err
		}

		amount, err := unstakeFromPool(tx, issue, target.Pool, mint, staker)
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

func lockIssue(tx *gorm.DB, address string) (models.Issue, error) {
	var issue models.Issue
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("address = ?", address).
		Take(&issue).Error
	if err != nil {
		return models.Issue{}, domain.NotFoundError{Resource: "issue"}
	}
	return issue, nil
}

// stakeIntoPool is shared between issue and pull request staking: wallet →
// pool transfer plus stake-record upsert, all rows locked.
func stakeIntoPool(tx *gorm.DB, target, pool, mint, staker string, amount uint64) (domain.Staker, error) {
	wallet, err := lockTokenAccount(tx, defios.TokenAccountAddress(mint, staker))
	if err != nil {
		return domain.Staker{}, domain.ErrInsufficientFunds
	}
	if wallet.Balance < amount {
		return domain.Staker{}, domain.ErrInsufficientFunds
	}

	poolAccount, err := lockTokenAccount(tx, pool)
	if err != nil {
		return domain.Staker{}, err
	}
	if err := transferTokens(tx, wallet, poolAccount, amount); err != nil {
		return domain.Staker{}, err
	}

	address := defios.StakeAddress(target, staker)
	err = tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.Staker{
		Address: address,
		Target:  target,
		Staker:  staker,
	}).Error
	if err != nil {
		return domain.Staker{}, err
	}

	var record models.Staker
	err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("address = ?", address).
		Take(&record).Error
	if err != nil {
		return domain.Staker{}, err
	}

	total, err := domain.AddAmount(record.Amount, amount)
	if err != nil {
		return domain.Staker{}, err
	}
	err = tx.Model(&models.Staker{}).
		Where("address = ?", address).
		Update("amount", total).Error
	if err != nil {
		return domain.Staker{}, err
	}

	return domain.Staker{Address: address, Target: target, Staker: staker, Amount: total}, nil
}

// unstakeFromPool refunds the full recorded stake and deletes the record.
// Accounts are locked wallet first, then pool, the same order stakeIntoPool
// uses, so concurrent stake and unstake on one target cannot deadlock.
func unstakeFromPool(tx *gorm.DB, target, pool, mint, staker string) (uint64, error) {
	var record models.Staker
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("address = ?", defios.StakeAddress(target, staker)).
		Take(&record).Error
	if err != nil || record.Amount == 0 {
		return 0, domain.ErrNoStakeFound
	}

	wallet, err := walletAccount(tx, mint, staker)
	if err != nil {
		return 0, err
	}

	poolAccount, err := lockTokenAccount(tx, pool)
	if err != nil {
		return 0, err
	}
	if poolAccount.Balance < record.Amount {
		return 0, domain.InvariantError{Reason: "pool cannot cover recorded stake"}
	}
	if err := transferTokens(tx, poolAccount, wallet, record.Amount); err != nil {
		return 0, err
	}

	if err := tx.Delete(&models.Staker{}, "address = ?", record.Address).Error; err != nil {
		return 0, err
	}
	return record.Amount, nil
}

func issueToDomain(issue models.Issue) domain.Issue {
	return domain.Issue{
		Address:    issue.Address,
		Repository: issue.Repository,
		Index:      issue.Index,
		URI:        issue.URI,
		Creator:    issue.Creator,
		Pool:       issue.Pool,
		Closed:     issue.Closed,
		CreatedAt:  issue.CDate,
	}
}
