package application

import (
	"context"

	"github.com/pasta-science/marketd/internal/core/application/derivative"
	"github.com/pasta-science/marketd/internal/core/application/pubsub"
	"github.com/pasta-science/marketd/internal/core/domain"
	"github.com/pasta-science/marketd/internal/core/ports"
)

type DerivativeService interface {
	ContractAddress() string
	MintDerivative(
		ctx context.Context, caller, uri, name string,
	) (*domain.Derivative, error)
	GetDerivative(ctx context.Context, tokenID uint64) (*domain.Derivative, error)
	ListDerivatives(
		ctx context.Context, owner string, page *domain.Page,
	) ([]domain.Derivative, error)
}

func NewDerivativeService(
	repoManager ports.RepoManager, pubsubSvc PubSubService,
	contractAddress string,
) (DerivativeService, error) {
	p := pubsubSvc.(*pubsub.Service)
	return derivative.NewService(repoManager, p, contractAddress)
}
