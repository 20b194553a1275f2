package usecase

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/defios/defios"
	"github.com/defios/defios/internal/domain"
)

type RepositoryUsecase struct {
	repo      RepoRepository
	identity  IdentityRepository
	authority string
}

// NewRepositoryUsecase wires the repository component. authority is the node
// wallet address allowed to mutate the default vesting schedule.
func NewRepositoryUsecase(repo RepoRepository, identity IdentityRepository, authority string) *RepositoryUsecase {
	return &RepositoryUsecase{repo: repo, identity: identity, authority: authority}
}

// Create initializes a repository for a verified creator. Fresh-mint mode
// (req.Token set) mints the repository's reward token under the program
// authority and allocates the schedule total to the vesting pool; import
// mode attaches req.Mint and vests nothing until a schedule is set.
func (uc *RepositoryUsecase) Create(ctx context.Context, requester string, req defios.CreateRepositoryRequest) (domain.Repository, error) {
	if err := requireVerified(ctx, uc.identity, req.Router, requester); err != nil {
		return domain.Repository{}, err
	}

	address := defios.RepositoryAddress(req.ID, requester)

	var mint domain.Mint
	var entries []domain.ScheduleEntry
	var allocation uint64

	if req.Token != nil {
		def, err := uc.repo.GetDefaultSchedule(ctx)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return domain.Repository{}, err
		}
		entries = def.Entries

		allocation, err = domain.ScheduleTotal(entries)
		if err != nil {
			return domain.Repository{}, err
		}

		mint = domain.Mint{
			Address:   defios.MintAddress(address),
			Authority: defios.AuthorityAddress(),
			Supply:    allocation,
			Name:      req.Token.Name,
			Image:     req.Token.Image,
			Metadata:  req.Token.Metadata,
		}
	} else {
		if !defios.IsDerivedAddr(req.Mint) && !defios.IsWalletAddr(req.Mint) {
			return domain.Repository{}, domain.StateError{Reason: "imported mint address is malformed"}
		}
		mint = domain.Mint{
			Address:   req.Mint,
			Authority: "",
			Imported:  true,
		}
	}

	repo := domain.Repository{
		Address:   address,
		ID:        req.ID,
		Title:     req.Title,
		URI:       req.URI,
		Creator:   requester,
		Mint:      mint.Address,
		CreatedAt: time.Now(),
	}

	schedule := domain.VestingSchedule{
		Address:   defios.ScheduleAddress(address),
		Authority: requester,
		Entries:   entries,
	}

	vesting := domain.VestingAccount{
		Address:    defios.VestingAddress(address),
		Repository: address,
		Schedule:   schedule.Address,
		Pool:       defios.VestingPoolAddress(address),
	}

	if err := uc.repo.Create(ctx, repo, mint, schedule, vesting, allocation); err != nil {
		return domain.Repository{}, err
	}
	return repo, nil
}

// SetDefaultSchedule replaces the deployment-wide default vesting schedule.
func (uc *RepositoryUsecase) SetDefaultSchedule(ctx context.Context, requester string, entries []domain.ScheduleEntry) error {
	if requester != uc.authority {
		return domain.AuthorizationError{Reason: "only the protocol authority can set the default schedule"}
	}
	if err := domain.ValidateSchedule(entries); err != nil {
		return err
	}
	return uc.repo.SetDefaultSchedule(ctx, domain.VestingSchedule{
		Address:   defios.DefaultScheduleAddress(),
		Authority: requester,
		Entries:   entries,
	})
}

// ChangeSchedule replaces a repository's vesting schedule. Only the
// repository creator may mutate it.
func (uc *RepositoryUsecase) ChangeSchedule(ctx context.Context, requester, repository string, entries []domain.ScheduleEntry) error {
	if err := domain.ValidateSchedule(entries); err != nil {
		return err
	}
	return uc.repo.ChangeSchedule(ctx, repository, requester, entries)
}

// UnlockTokens releases everything vested and unreleased as of now to the
// repository creator. Idempotent within a vesting period.
func (uc *RepositoryUsecase) UnlockTokens(ctx context.Context, requester, repository string) (uint64, error) {
	return uc.repo.UnlockTokens(ctx, repository, requester, time.Now())
}

func (uc *RepositoryUsecase) Get(ctx context.Context, address string) (domain.Repository, error) {
	return uc.repo.Get(ctx, address)
}

func (uc *RepositoryUsecase) GetVesting(ctx context.Context, repository string) (domain.VestingAccount, error) {
	return uc.repo.GetVesting(ctx, repository)
}
