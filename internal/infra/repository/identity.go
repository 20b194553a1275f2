package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/defios/defios/internal/domain"
	"github.com/defios/defios/internal/infra/database/models"
)

type IdentityRepository struct {
	db *gorm.DB
}

func NewIdentityRepository(db *gorm.DB) *IdentityRepository {
	return &IdentityRepository{db: db}
}

func (r *IdentityRepository) CreateRouter(ctx context.Context, router domain.Router) error {
	err := r.db.WithContext(ctx).Create(&models.Router{
		Address:          router.Address,
		SigningDomain:    router.SigningDomain,
		SignatureVersion: router.SignatureVersion,
		Creator:          router.Creator,
	}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.AlreadyExistsError{Resource: "router"}
	}
	return err
}

func (r *IdentityRepository) GetRouter(ctx context.Context, address string) (domain.Router, error) {
	var router models.Router
	err := r.db.WithContext(ctx).
		Where("address = ?", address).
		Take(&router).Error
	if err != nil {
		return domain.Router{}, domain.NotFoundError{Resource: "router"}
	}
	return routerToDomain(router), nil
}

// CreateVerifiedUser inserts the attested record and bumps the router's
// counter in one transaction.
func (r *IdentityRepository) CreateVerifiedUser(ctx context.Context, user domain.VerifiedUser) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var router models.Router
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("address = ?", user.Router).
			Take(&router).Error
		if err != nil {
			return domain.NotFoundError{Resource: "router"}
		}

		err = tx.Create(&models.VerifiedUser{
			Address:  user.Address,
			Router:   user.Router,
			Username: user.Username,
			Pubkey:   user.Pubkey,
		}).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.AlreadyExistsError{Resource: "verified user"}
		}
		if err != nil {
			return err
		}

		count, err := domain.AddAmount(router.VerifiedUserCount, 1)
		if err != nil {
			return err
		}
		return tx.Model(&models.Router{}).
			Where("address = ?", user.Router).
			Update("verified_user_count", count).Error
	})
}

func (r *IdentityRepository) GetVerifiedUser(ctx context.Context, address string) (domain.VerifiedUser, error) {
	var user models.VerifiedUser
	err := r.db.WithContext(ctx).
		Where("address = ?", address).
		Take(&user).Error
	if err != nil {
		return domain.VerifiedUser{}, domain.NotFoundError{Resource: "verified user"}
	}
	return domain.VerifiedUser{
		Address:   user.Address,
		Router:    user.Router,
		Username:  user.Username,
		Pubkey:    user.Pubkey,
		CreatedAt: user.CDate,
	}, nil
}

func (r *IdentityRepository) IsVerified(ctx context.Context, router, pubkey string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.VerifiedUser{}).
		Where("router = ? AND pubkey = ?", router, pubkey).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func routerToDomain(router models.Router) domain.Router {
	return domain.Router{
		Address:           router.Address,
		SigningDomain:     router.SigningDomain,
		SignatureVersion:  router.SignatureVersion,
		Creator:           router.Creator,
		VerifiedUserCount: router.VerifiedUserCount,
		CreatedAt:         router.CDate,
	}
}
