package usecase

import (
	"context"

	"github.com/defios/defios"
	"github.com/defios/defios/internal/domain"
)

type MarketUsecase struct {
	repo      MarketRepository
	quoteMint string
	authority string
}

// NewMarketUsecase wires the communal market. quoteMint is the deployment's
// reserve asset; authority is the node wallet allowed to initialize pools.
func NewMarketUsecase(repo MarketRepository, quoteMint, authority string) *MarketUsecase {
	return &MarketUsecase{repo: repo, quoteMint: quoteMint, authority: authority}
}

// CreatePool initializes, once per reward mint, the communal pool under
// fixed seed constants so its address is discoverable per mint.
func (uc *MarketUsecase) CreatePool(ctx context.Context, requester, mint string) (domain.CommunalPool, error) {
	if requester != uc.authority {
		return domain.CommunalPool{}, domain.AuthorizationError{Reason: "only the protocol authority can create communal pools"}
	}
	pool := domain.CommunalPool{
		Address:    defios.CommunalAddress(mint),
		Mint:       mint,
		QuoteMint:  uc.quoteMint,
		RewardPool: defios.CommunalPoolAddress(mint, "reward"),
		QuotePool:  defios.CommunalPoolAddress(mint, "quote"),
		Authority:  defios.AuthorityAddress(),
	}
	if err := uc.repo.CreatePool(ctx, pool); err != nil {
		return domain.CommunalPool{}, err
	}
	return pool, nil
}

// Buy swaps quote asset for reward tokens, enforcing the slippage floor.
func (uc *MarketUsecase) Buy(ctx context.Context, requester, mint string, amountIn, minOut uint64) (uint64, error) {
	if amountIn == 0 {
		return 0, domain.ErrZeroAmount
	}
	return uc.repo.Buy(ctx, mint, requester, amountIn, minOut)
}

// Sell swaps reward tokens for the quote asset, enforcing the slippage
// floor.
func (uc *MarketUsecase) Sell(ctx context.Context, requester, mint string, amountIn, minOut uint64) (uint64, error) {
	if amountIn == 0 {
		return 0, domain.ErrZeroAmount
	}
	return uc.repo.Sell(ctx, mint, requester, amountIn, minOut)
}

func (uc *MarketUsecase) GetPool(ctx context.Context, mint string) (domain.CommunalPool, error) {
	return uc.repo.GetPool(ctx, mint)
}
