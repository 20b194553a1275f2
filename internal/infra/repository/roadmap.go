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

type RoadmapRepository struct {
	db *gorm.DB
}

func NewRoadmapRepository(db *gorm.DB) *RoadmapRepository {
	return &RoadmapRepository{db: db}
}

func (r *RoadmapRepository) CreateRoadmap(ctx context.Context, roadmap domain.Roadmap) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var repo models.Repository
		err := tx.Where("address = ?", roadmap.Repository).Take(&repo).Error
		if err != nil {
			return domain.NotFoundError{Resource: "repository"}
		}

		err = tx.Create(&models.Roadmap{
			Address:     roadmap.Address,
			Repository:  roadmap.Repository,
			Adder:       roadmap.Adder,
			Title:       roadmap.Title,
			Description: roadmap.Description,
			Outlook:     roadmap.Outlook,
		}).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.AlreadyExistsError{Resource: "roadmap"}
		}
		return err
	})
}

func (r *RoadmapRepository) GetRoadmap(ctx context.Context, address string) (domain.Roadmap, error) {
	var roadmap models.Roadmap
	err := r.db.WithContext(ctx).
		Where("address = ?", address).
		Take(&roadmap).Error
	if err != nil {
		return domain.Roadmap{}, domain.NotFoundError{Resource: "roadmap"}
	}
	return roadmapToDomain(roadmap), nil
}

// CreateObjective inserts the node with its grant pool. A parent, when given,
// must sit on the same roadmap and leave the child within the depth cap.
func (r *RoadmapRepository) CreateObjective(ctx context.Context, objective domain.Objective) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var roadmap models.Roadmap
		err := tx.Where("address = ?", objective.Roadmap).Take(&roadmap).Error
		if err != nil {
			return domain.NotFoundError{Resource: "roadmap"}
		}

		depth := 0
		if objective.Parent != "" {
			parent, err := lockObjective(tx, objective.Parent)
			if err != nil {
				return err
			}
			if parent.Roadmap != objective.Roadmap {
				return domain.StateError{Reason: "parent belongs to a different roadmap"}
			}
			depth = parent.Depth + 1
			if depth > domain.MaxObjectiveDepth {
				return domain.ErrObjectiveTooDeep
			}
		}

		err = tx.Create(&models.Objective{
			Address:     objective.Address,
			Roadmap:     objective.Roadmap,
			Parent:      objective.Parent,
			ObjectiveID: objective.ID,
			Adder:       objective.Adder,
			Title:       objective.Title,
			Start:       objective.Start,
			Description: objective.Description,
			Deliverable: objective.Deliverable,
			Depth:       depth,
			Pool:        objective.Pool,
		}).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.AlreadyExistsError{Resource: "objective"}
		}
		if err != nil {
			return err
		}

		mint, err := mintForRepository(tx, roadmap.Repository)
		if err != nil {
			return err
		}
		return tx.Create(&models.TokenAccount{
			Address: objective.Pool,
			Mint:    mint,
			Owner:   defios.AuthorityAddress(),
		}).Error
	})
}

func (r *RoadmapRepository) GetObjective(ctx context.Context, address string) (domain.Objective, error) {
	var objective models.Objective
	err := r.db.WithContext(ctx).
		Where("address = ?", address).
		Take(&objective).Error
	if err != nil {
		return domain.Objective{}, domain.NotFoundError{Resource: "objective"}
	}
	return objectiveToDomain(objective), nil
}

// LinkObjective re-parents an objective after the fact. Only the adder can
// move their node; the move must not create a cycle or push any descendant
// past the depth cap.
func (r *RoadmapRepository) LinkObjective(ctx context.Context, objective, parent, requester string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		node, err := lockObjective(tx, objective)
		if err != nil {
			return err
		}
		if node.Adder != requester {
			return domain.AuthorizationError{Reason: "only the objective adder can link it"}
		}

		target, err := lockObjective(tx, parent)
		if err != nil {
			return err
		}
		if target.Roadmap != node.Roadmap {
			return domain.StateError{Reason: "parent belongs to a different roadmap"}
		}

		// Walk the new parent's ancestry; hitting the node means a cycle.
		for cursor := target; ; {
			if cursor.Address == node.Address {
				return domain.StateError{Reason: "linking would create a cycle"}
			}
			if cursor.Parent == "" {
				break
			}
			next, err := lockObjective(tx, cursor.Parent)
			if err != nil {
				return err
			}
			cursor = next
		}

		if err := tx.Model(&models.Objective{}).
			Where("address = ?", objective).
			Updates(map[string]any{"parent": parent, "depth": target.Depth + 1}).Error; err != nil {
			return err
		}
		return reindexDepth(tx, objective, target.Depth+1)
	})
}

// reindexDepth pushes a new depth down the subtree, enforcing the cap at
// every level. The tree is bounded by the cap so the recursion is shallow.
func reindexDepth(tx *gorm.DB, address string, depth int) error {
	if depth > domain.MaxObjectiveDepth {
		return domain.ErrObjectiveTooDeep
	}

	var children []models.Objective
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("parent = ?", address).
		Find(&children).Error
	if err != nil {
		return err
	}

	for _, child := range children {
		if err := tx.Model(&models.Objective{}).
			Where("address = ?", child.Address).
			Update("depth", depth+1).Error; err != nil {
			return err
		}
		if err := reindexDepth(tx, child.Address, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// Grant stakes the grantee's reward tokens into the objective pool and
// upserts the grant record.
func (r *RoadmapRepository) Grant(ctx context.Context, objective, grantee string, amount uint64, uri string) (domain.Grant, error) {
	var result domain.Grant

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		node, err := lockObjective(tx, objective)
		if err != nil {
			return err
		}
		mint, err := mintForObjective(tx, node)
		if err != nil {
			return err
		}

		wallet, err := lockTokenAccount(tx, defios.TokenAccountAddress(mint, grantee))
		if err != nil {
			return domain.ErrInsufficientFunds
		}
		if wallet.Balance < amount {
			return domain.ErrInsufficientFunds
		}
		pool, err := lockTokenAccount(tx, node.Pool)
		if err != nil {
			return err
		}
		if err := transferTokens(tx, wallet, pool, amount); err != nil {
			return err
		}

		address := defios.GrantAddress(objective, grantee)
		err = tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.Grant{
			Address:   address,
			Objective: objective,
			Grantee:   grantee,
			URI:       uri,
		}).Error
		if err != nil {
			return err
		}

		var record models.Grant
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("address = ?", address).
			Take(&record).Error
		if err != nil {
			return err
		}
		total, err := domain.AddAmount(record.Amount, amount)
		if err != nil {
			return err
		}
		err = tx.Model(&models.Grant{}).
			Where("address = ?", address).
			Updates(map[string]any{"amount": total, "uri": uri}).Error
		if err != nil {
			return err
		}

		result = domain.Grant{
			Address:   address,
			Objective: objective,
			Grantee:   grantee,
			Amount:    total,
			URI:       uri,
		}
		return nil
	})
	if err != nil {
		return domain.Grant{}, err
	}
	return result, nil
}

// Disperse releases part of a grantee's stake from the objective pool to the
// repository creator's wallet. Only the repository creator may call it.
func (r *RoadmapRepository) Disperse(ctx context.Context, objective, grantee, requester string, amount uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		node, err := lockObjective(tx, objective)
		if err != nil {
			return err
		}

		var roadmap models.Roadmap
		err = tx.Where("address = ?", node.Roadmap).Take(&roadmap).Error
		if err != nil {
			return domain.NotFoundError{Resource: "roadmap"}
		}
		var repo models.Repository
		err = tx.Where("address = ?", roadmap.Repository).Take(&repo).Error
		if err != nil {
			return domain.NotFoundError{Resource: "repository"}
		}
		if repo.Creator != requester {
			return domain.ErrNotRepositoryCreator
		}

		var grant models.Grant
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("address = ?", defios.GrantAddress(objective, grantee)).
			Take(&grant).Error
		if err != nil {
			return domain.NotFoundError{Resource: "grant"}
		}
		if grant.Amount < amount {
			return domain.ErrInsufficientGrantBalance
		}

		pool, err := lockTokenAccount(tx, node.Pool)
		if err != nil {
			return err
		}
		if pool.Balance < amount {
			return domain.InvariantError{Reason: "objective pool cannot cover recorded grants"}
		}
		wallet, err := walletAccount(tx, repo.Mint, repo.Creator)
		if err != nil {
			return err
		}
		if err := transferTokens(tx, pool, wallet, amount); err != nil {
			return err
		}

		remaining := grant.Amount - amount
		if remaining == 0 {
			return tx.Delete(&models.Grant{}, "address = ?", grant.Address).Error
		}
		return tx.Model(&models.Grant{}).
			Where("address = ?", grant.Address).
			Update("amount", remaining).Error
	})
}

func lockObjective(tx *gorm.DB, address string) (models.Objective, error) {
	var objective models.Objective
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("address = ?", address).
		Take(&objective).Error
	if err != nil {
		return models.Objective{}, domain.NotFoundError{Resource: "objective"}
	}
	return objective, nil
}

// mintForObjective resolves the reward mint through the objective's roadmap.
func mintForObjective(tx *gorm.DB, objective models.Objective) (string, error) {
	var roadmap models.Roadmap
	err := tx.Where("address = ?", objective.Roadmap).Take(&roadmap).Error
	if err != nil {
		return "", domain.NotFoundError{Resource: "roadmap"}
	}
	return mintForRepository(tx, roadmap.Repository)
}

func roadmapToDomain(roadmap models.Roadmap) domain.Roadmap {
	return domain.Roadmap{
		Address:     roadmap.Address,
		Repository:  roadmap.Repository,
		Adder:       roadmap.Adder,
		Title:       roadmap.Title,
		Description: roadmap.Description,
		Outlook:     roadmap.Outlook,
		CreatedAt:   roadmap.CDate,
	}
}

func objectiveToDomain(objective models.Objective) domain.Objective {
	return domain.Objective{
		Address:     objective.Address,
		Roadmap:     objective.Roadmap,
		Parent:      objective.Parent,
		ID:          objective.ObjectiveID,
		Adder:       objective.Adder,
		Title:       objective.Title,
		Start:       objective.Start,
		Description: objective.Description,
		Deliverable: objective.Deliverable,
		Depth:       objective.Depth,
		Pool:        objective.Pool,
		CreatedAt:   objective.CDate,
	}
}
