package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/defios/defios"
	"github.com/defios/defios/internal/domain"
	"github.com/defios/defios/internal/infra/database/models"
)

type RepoRepository struct {
	db *gorm.DB
}

func NewRepoRepository(db *gorm.DB) *RepoRepository {
	return &RepoRepository{db: db}
}

// Create initializes the repository, its mint, its vesting schedule and
// account, all atomically. In fresh-mint mode it also mints the allocation
// into the vesting pool.
func (r *RepoRepository) Create(ctx context.Context, repo domain.Repository, mint domain.Mint, schedule domain.VestingSchedule, vesting domain.VestingAccount, allocation uint64) error {
	entries, err := marshalEntries(schedule.Entries)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Create(&models.Repository{
			Address: repo.Address,
			RepoID:  repo.ID,
			Title:   repo.Title,
			URI:     repo.URI,
			Creator: repo.Creator,
			Mint:    repo.Mint,
		}).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.AlreadyExistsError{Resource: "repository"}
		}
		if err != nil {
			return err
		}

		// Imported mints may already be known to the ledger.
		err = tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.Mint{
			Address:   mint.Address,
			Authority: mint.Authority,
			Supply:    mint.Supply,
			Imported:  mint.Imported,
			Name:      mint.Name,
			Image:     mint.Image,
			Metadata:  mint.Metadata,
		}).Error
		if err != nil {
			return err
		}

		if err := tx.Create(&models.VestingSchedule{
			Address:   schedule.Address,
			Authority: schedule.Authority,
			Entries:   entries,
		}).Error; err != nil {
			return err
		}

		if err := tx.Create(&models.VestingAccount{
			Address:    vesting.Address,
			Repository: vesting.Repository,
			Schedule:   vesting.Schedule,
			Pool:       vesting.Pool,
		}).Error; err != nil {
			return err
		}

		return tx.Create(&models.TokenAccount{
			Address: vesting.Pool,
			Mint:    repo.Mint,
			Owner:   defios.AuthorityAddress(),
			Balance: allocation,
		}).Error
	})
}

func (r *RepoRepository) Get(ctx context.Context, address string) (domain.Repository, error) {
	var repo models.Repository
	err := r.db.WithContext(ctx).
		Where("address = ?", address).
		Take(&repo).Error
	if err != nil {
		return domain.Repository{}, domain.NotFoundError{Resource: "repository"}
	}
	return repoToDomain(repo), nil
}

func (r *RepoRepository) GetVesting(ctx context.Context, repository string) (domain.VestingAccount, error) {
	var vesting models.VestingAccount
	err := r.db.WithContext(ctx).
		Where("repository = ?", repository).
		Take(&vesting).Error
	if err != nil {
		return domain.VestingAccount{}, domain.NotFoundError{Resource: "vesting account"}
	}
	return domain.VestingAccount{
		Address:    vesting.Address,
		Repository: vesting.Repository,
		Schedule:   vesting.Schedule,
		Pool:       vesting.Pool,
		Released:   vesting.Released,
	}, nil
}

func (r *RepoRepository) SetDefaultSchedule(ctx context.Context, schedule domain.VestingSchedule) error {
	entries, err := marshalEntries(schedule.Entries)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "address"}},
		DoUpdates: clause.Assignments(map[string]any{"entries": entries, "authority": schedule.Authority}),
	}).Create(&models.VestingSchedule{
		Address:   schedule.Address,
		Authority: schedule.Authority,
		Entries:   entries,
	}).Error
}

func (r *RepoRepository) GetDefaultSchedule(ctx context.Context) (domain.VestingSchedule, error) {
	return r.getSchedule(ctx, r.db, defios.DefaultScheduleAddress())
}

func (r *RepoRepository) getSchedule(ctx context.Context, db *gorm.DB, address string) (domain.VestingSchedule, error) {
	var schedule models.VestingSchedule
	err := db.WithContext(ctx).
		Where("address = ?", address).
		Take(&schedule).Error
	if err != nil {
		return domain.VestingSchedule{}, domain.NotFoundError{Resource: "vesting schedule"}
	}
	entries, err := unmarshalEntries(schedule.Entries)
	if err != nil {
		return domain.VestingSchedule{}, err
	}
	return domain.VestingSchedule{
		Address:   schedule.Address,
		Authority: schedule.Authority,
		Entries:   entries,
	}, nil
}

// ChangeSchedule replaces a repository's release table. The replacement must
// still cover everything already released and stay within the allocation
// held by the vesting pool.
func (r *RepoRepository) ChangeSchedule(ctx context.Context, repository, requester string, entries []domain.ScheduleEntry) error {
	raw, err := marshalEntries(entries)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var vesting models.VestingAccount
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("repository = ?", repository).
			Take(&vesting).Error
		if err != nil {
			return domain.NotFoundError{Resource: "vesting account"}
		}

		var schedule models.VestingSchedule
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("address = ?", vesting.Schedule).
			Take(&schedule).Error
		if err != nil {
			return domain.NotFoundError{Resource: "vesting schedule"}
		}
		if schedule.Authority != requester {
			return domain.AuthorizationError{Reason: "only the schedule authority can change it"}
		}

		pool, err := lockTokenAccount(tx, vesting.Pool)
		if err != nil {
			return err
		}
		if err := domain.ValidateScheduleChange(entries, vesting.Released, pool.Balance); err != nil {
			return err
		}

		return tx.Model(&models.VestingSchedule{}).
			Where("address = ?", schedule.Address).
			Update("entries", raw).Error
	})
}

// UnlockTokens moves everything vested and unreleased as of now from the
// vesting pool to the creator's wallet account.
func (r *RepoRepository) UnlockTokens(ctx context.Context, repository, requester string, now time.Time) (uint64, error) {
	var released uint64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var repo models.Repository
		err := tx.Where("address = ?", repository).Take(&repo).Error
		if err != nil {
			return domain.NotFoundError{Resource: "repository"}
		}
		if repo.Creator != requester {
			return domain.ErrNotRepositoryCreator
		}

		var vesting models.VestingAccount
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("repository = ?", repository).
			Take(&vesting).Error
		if err != nil {
			return domain.NotFoundError{Resource: "vesting account"}
		}

		schedule, err := r.getSchedule(ctx, tx, vesting.Schedule)
		if err != nil {
			return err
		}

		releasable, err := domain.Releasable(schedule.Entries, vesting.Released, now)
		if err != nil {
			return err
		}
		if releasable == 0 {
			return domain.ErrNothingToRelease
		}

		pool, err := lockTokenAccount(tx, vesting.Pool)
		if err != nil {
			return err
		}
		if pool.Balance < releasable {
			return domain.ErrInsufficientVestedBalance
		}

		wallet, err := walletAccount(tx, repo.Mint, repo.Creator)
		if err != nil {
			return err
		}
		if err := transferTokens(tx, pool, wallet, releasable); err != nil {
			return err
		}

		total, err := domain.AddAmount(vesting.Released, releasable)
		if err != nil {
			return err
		}
		released = releasable
		return tx.Model(&models.VestingAccount{}).
			Where("address = ?", vesting.Address).
			Update("released", total).Error
	})
	if err != nil {
		return 0, err
	}
	return released, nil
}

func repoToDomain(repo models.Repository) domain.Repository {
	return domain.Repository{
		Address:    repo.Address,
		ID:         repo.RepoID,
		Title:      repo.Title,
		URI:        repo.URI,
		Creator:    repo.Creator,
		Mint:       repo.Mint,
		IssueIndex: repo.IssueIndex,
		CreatedAt:  repo.CDate,
	}
}

func marshalEntries(entries []domain.ScheduleEntry) (string, error) {
	if err := domain.ValidateSchedule(entries); err != nil {
		return "", err
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func unmarshalEntries(raw string) ([]domain.ScheduleEntry, error) {
	var entries []domain.ScheduleEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, domain.ErrMalformedSchedule
	}
	return entries, nil
}
