package usecase

import (
	"context"
	"time"

	"github.com/defios/defios"
	"github.com/defios/defios/internal/domain"
)

type RoadmapUsecase struct {
	repo     RoadmapRepository
	identity IdentityRepository
}

func NewRoadmapUsecase(repo RoadmapRepository, identity IdentityRepository) *RoadmapUsecase {
	return &RoadmapUsecase{repo: repo, identity: identity}
}

// AddRoadmap creates the one roadmap metadata root per (repository, adder).
func (uc *RoadmapUsecase) AddRoadmap(ctx context.Context, requester, repository string, req defios.AddRoadmapRequest) (domain.Roadmap, error) {
	if err := requireVerified(ctx, uc.identity, req.Router, requester); err != nil {
		return domain.Roadmap{}, err
	}
	roadmap := domain.Roadmap{
		Address:     defios.RoadmapAddress(repository, requester),
		Repository:  repository,
		Adder:       requester,
		Title:       req.Title,
		Description: req.Description,
		Outlook:     req.Outlook,
		CreatedAt:   time.Now(),
	}
	if err := uc.repo.CreateRoadmap(ctx, roadmap); err != nil {
		return domain.Roadmap{}, err
	}
	return roadmap, nil
}

func (uc *RoadmapUsecase) GetRoadmap(ctx context.Context, address string) (domain.Roadmap, error) {
	return uc.repo.GetRoadmap(ctx, address)
}

// AddObjective creates an objective, either as a root under the roadmap or
// as a child of req.Parent when supplied.
func (uc *RoadmapUsecase) AddObjective(ctx context.Context, requester, roadmap string, req defios.AddObjectiveRequest) (domain.Objective, error) {
	if err := requireVerified(ctx, uc.identity, req.Router, requester); err != nil {
		return domain.Objective{}, err
	}
	address := defios.ObjectiveAddress(req.ID, requester, roadmap)
	objective := domain.Objective{
		Address:     address,
		Roadmap:     roadmap,
		Parent:      req.Parent,
		ID:          req.ID,
		Adder:       requester,
		Title:       req.Title,
		Start:       time.Unix(req.Start, 0).UTC(),
		Description: req.Description,
		Deliverable: req.Deliverable,
		Pool:        defios.ObjectivePoolAddress(address),
		CreatedAt:   time.Now(),
	}
	if err := uc.repo.CreateObjective(ctx, objective); err != nil {
		return domain.Objective{}, err
	}
	return objective, nil
}

// LinkObjective attaches an already-created objective under a parent after
// the fact.
func (uc *RoadmapUsecase) LinkObjective(ctx context.Context, requester, objective, parent string) error {
	return uc.repo.LinkObjective(ctx, objective, parent, requester)
}

func (uc *RoadmapUsecase) GetObjective(ctx context.Context, address string) (domain.Objective, error) {
	return uc.repo.GetObjective(ctx, address)
}

// Grant stakes amount from a verified grantee into the objective's pool.
func (uc *RoadmapUsecase) Grant(ctx context.Context, requester, objective string, req defios.GrantRequest) (domain.Grant, error) {
	if err := requireVerified(ctx, uc.identity, req.Router, requester); err != nil {
		return domain.Grant{}, err
	}
	if req.Amount == 0 {
		return domain.Grant{}, domain.ErrZeroAmount
	}
	return uc.repo.Grant(ctx, objective, requester, req.Amount, req.URI)
}

// Disperse releases amount of a grantee's stake from the objective pool to
// the repository creator.
func (uc *RoadmapUsecase) Disperse(ctx context.Context, requester, objective, grantee string, amount uint64) error {
	if amount == 0 {
		return domain.ErrZeroAmount
	}
	return uc.repo.Disperse(ctx, objective, grantee, requester, amount)
}
