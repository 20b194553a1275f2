package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/defios/defios"
	"github.com/defios/defios/internal/domain"
	"github.com/defios/defios/internal/infra/database/models"
)

// TokenRepository exposes ledger reads. All mutation happens through the
// locked helpers below, inside instruction transactions.
type TokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) GetAccount(ctx context.Context, address string) (domain.TokenAccount, error) {
	var account models.TokenAccount
	err := r.db.WithContext(ctx).
		Where("address = ?", address).
		Take(&account).Error
	if err != nil {
		return domain.TokenAccount{}, domain.NotFoundError{Resource: "token account"}
	}
	return domain.TokenAccount{
		Address: account.Address,
		Mint:    account.Mint,
		Owner:   account.Owner,
		Balance: account.Balance,
	}, nil
}

func (r *TokenRepository) GetBalance(ctx context.Context, address string) (uint64, error) {
	account, err := r.GetAccount(ctx, address)
	if err != nil {
		return 0, err
	}
	return account.Balance, nil
}

// lockTokenAccount takes a row lock on a ledger account for the duration of
// the surrounding transaction.
func lockTokenAccount(tx *gorm.DB, address string) (models.TokenAccount, error) {
	var account models.TokenAccount
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("address = ?", address).
		Take(&account).Error
	if err != nil {
		return models.TokenAccount{}, domain.NotFoundError{Resource: "token account"}
	}
	return account, nil
}

// lockOrCreateTokenAccount locks the ledger account, creating an empty one
// first if the address has never held this mint.
func lockOrCreateTokenAccount(tx *gorm.DB, address, mint, owner string) (models.TokenAccount, error) {
	err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.TokenAccount{
		Address: address,
		Mint:    mint,
		Owner:   owner,
	}).Error
	if err != nil {
		return models.TokenAccount{}, err
	}
	return lockTokenAccount(tx, address)
}

func setBalance(tx *gorm.DB, address string, balance uint64) error {
	return tx.Model(&models.TokenAccount{}).
		Where("address = ?", address).
		Update("balance", balance).Error
}

// creditTokens adds amount to a locked account.
func creditTokens(tx *gorm.DB, account models.TokenAccount, amount uint64) error {
	balance, err := domain.AddAmount(account.Balance, amount)
	if err != nil {
		return err
	}
	return setBalance(tx, account.Address, balance)
}

// debitTokens removes amount from a locked account.
func debitTokens(tx *gorm.DB, account models.TokenAccount, amount uint64) error {
	balance, err := domain.SubAmount(account.Balance, amount)
	if err != nil {
		return err
	}
	return setBalance(tx, account.Address, balance)
}

// transferTokens moves amount between two locked accounts.
func transferTokens(tx *gorm.DB, from, to models.TokenAccount, amount uint64) error {
	if err := debitTokens(tx, from, amount); err != nil {
		return err
	}
	return creditTokens(tx, to, amount)
}

// walletAccount locks (creating if needed) the owner's wallet token account
// for a mint.
func walletAccount(tx *gorm.DB, mint, owner string) (models.TokenAccount, error) {
	return lockOrCreateTokenAccount(tx, defios.TokenAccountAddress(mint, owner), mint, owner)
}

// mintForRepository resolves the reward mint of a repository account.
func mintForRepository(tx *gorm.DB, repository string) (string, error) {
	var repo models.Repository
	err := tx.Where("address = ?", repository).Take(&repo).Error
	if err != nil {
		return "", domain.NotFoundError{Resource: "repository"}
	}
	return repo.Mint, nil
}
