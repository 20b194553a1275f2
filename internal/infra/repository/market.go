package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/defios/defios"
	"github.com/defios/defios/internal/domain"
	"github.com/defios/defios/internal/infra/database/models"
)

type MarketRepository struct {
	db *gorm.DB
}

func NewMarketRepository(db *gorm.DB) *MarketRepository {
	return &MarketRepository{db: db}
}

func (r *MarketRepository) CreatePool(ctx context.Context, pool domain.CommunalPool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var mint models.Mint
		err := tx.Where("address = ?", pool.Mint).Take(&mint).Error
		if err != nil {
			return domain.NotFoundError{Resource: "mint"}
		}

		err = tx.Create(&models.CommunalPool{
			Address:    pool.Address,
			Mint:       pool.Mint,
			QuoteMint:  pool.QuoteMint,
			RewardPool: pool.RewardPool,
			QuotePool:  pool.QuotePool,
			Authority:  pool.Authority,
		}).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.AlreadyExistsError{Resource: "communal pool"}
		}
		if err != nil {
			return err
		}

		if err := tx.Create(&models.TokenAccount{
			Address: pool.RewardPool,
			Mint:    pool.Mint,
			Owner:   pool.Authority,
		}).Error; err != nil {
			return err
		}
		return tx.Create(&models.TokenAccount{
			Address: pool.QuotePool,
			Mint:    pool.QuoteMint,
			Owner:   pool.Authority,
		}).Error
	})
}

func (r *MarketRepository) GetPool(ctx context.Context, mint string) (domain.CommunalPool, error) {
	var pool models.CommunalPool
	err := r.db.WithContext(ctx).
		Where("mint = ?", mint).
		Take(&pool).Error
	if err != nil {
		return domain.CommunalPool{}, domain.NotFoundError{Resource: "communal pool"}
	}
	return poolToDomain(pool), nil
}

// Buy takes the quote asset from the trader and pays out reward tokens at
// the curve price.
func (r *MarketRepository) Buy(ctx context.Context, mint, trader string, amountIn, minOut uint64) (uint64, error) {
	return r.swap(ctx, mint, trader, amountIn, minOut, true)
}

// Sell takes reward tokens from the trader and pays out the quote asset at
// the curve price.
func (r *MarketRepository) Sell(ctx context.Context, mint, trader string, amountIn, minOut uint64) (uint64, error) {
	return r.swap(ctx, mint, trader, amountIn, minOut, false)
}

// swap executes one trade: both reserve accounts stay locked while the quote
// is computed against the locked balances, so concurrent trades serialize on
// the pool.
func (r *MarketRepository) swap(ctx context.Context, mint, trader string, amountIn, minOut uint64, buy bool) (uint64, error) {
	var amountOut uint64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pool models.CommunalPool
		err := tx.Where("mint = ?", mint).Take(&pool).Error
		if err != nil {
			return domain.NotFoundError{Resource: "communal pool"}
		}

		// Lock order is fixed (reward then quote) so opposing trades
		// cannot deadlock.
		rewardReserve, err := lockTokenAccount(tx, pool.RewardPool)
		if err != nil {
			return err
		}
		quoteReserve, err := lockTokenAccount(tx, pool.QuotePool)
		if err != nil {
			return err
		}

		reserveIn, reserveOut := quoteReserve, rewardReserve
		mintIn, mintOut := pool.QuoteMint, pool.Mint
		if !buy {
			reserveIn, reserveOut = rewardReserve, quoteReserve
			mintIn, mintOut = pool.Mint, pool.QuoteMint
		}

		out, err := domain.SwapQuote(reserveIn.Balance, reserveOut.Balance, amountIn)
		if err != nil {
			return err
		}
		if out < minOut {
			return domain.ErrSlippageExceeded
		}

		source, err := lockTokenAccount(tx, defios.TokenAccountAddress(mintIn, trader))
		if err != nil {
			return domain.ErrInsufficientFunds
		}
		if source.Balance < amountIn {
			return domain.ErrInsufficientFunds
		}
		if err := transferTokens(tx, source, reserveIn, amountIn); err != nil {
			return err
		}

		destination, err := walletAccount(tx, mintOut, trader)
		if err != nil {
			return err
		}
		if err := transferTokens(tx, reserveOut, destination, out); err != nil {
			return err
		}

		amountOut = out
		return nil
	})
	if err != nil {
		return 0, err
	}
	return amountOut, nil
}

func poolToDomain(pool models.CommunalPool) domain.CommunalPool {
	return domain.CommunalPool{
		Address:    pool.Address,
		Mint:       pool.Mint,
		QuoteMint:  pool.QuoteMint,
		RewardPool: pool.RewardPool,
		QuotePool:  pool.QuotePool,
		Authority:  pool.Authority,
	}
}
