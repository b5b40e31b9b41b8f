package derivative

import (
	"context"
	"fmt"

	"github.com/pasta-science/marketd/internal/core/application/pubsub"
	"github.com/pasta-science/marketd/internal/core/domain"
	"github.com/pasta-science/marketd/internal/core/ports"
	log "github.com/sirupsen/logrus"
)

// Service is the registry of the derivative tokens minted by the daemon for
// a single token contract.
type Service struct {
	repoManager     ports.RepoManager
	pubsub          *pubsub.Service
	contractAddress string
}

func NewService(
	repoManager ports.RepoManager, pubsubSvc *pubsub.Service,
	contractAddress string,
) (*Service, error) {
	if repoManager == nil {
		return nil, fmt.Errorf("missing repo manager")
	}
	if pubsubSvc == nil {
		return nil, fmt.Errorf("missing pubsub service")
	}
	if !domain.IsValidAddress(domain.NormalizeAddress(contractAddress)) {
		return nil, domain.ErrDerivativeInvalidContractAddress
	}
	return &Service{
		repoManager, pubsubSvc, domain.NormalizeAddress(contractAddress),
	}, nil
}

func (s *Service) ContractAddress() string {
	return s.contractAddress
}

// MintDerivative mints a new token bound to the given metadata uri, owned by
// the caller.
func (s *Service) MintDerivative(
	ctx context.Context, caller, uri, name string,
) (*domain.Derivative, error) {
	derivative, err := domain.NewDerivative(s.contractAddress, caller, uri, name)
	if err != nil {
		return nil, err
	}

	if _, err := s.repoManager.DerivativeRepository().MintDerivative(
		ctx, derivative,
	); err != nil {
		return nil, err
	}
	log.Debugf("minted derivative %d for %s", derivative.TokenID, derivative.Owner)

	go func(d domain.Derivative) {
		if err := s.pubsub.PublishDerivativeMintedEvent(d); err != nil {
			log.WithError(err).Warnf(
				"pubsub: failed to publish event for minted derivative %d", d.TokenID,
			)
		}
	}(*derivative)

	return derivative, nil
}

func (s *Service) GetDerivative(
	ctx context.Context, tokenID uint64,
) (*domain.Derivative, error) {
	return s.repoManager.DerivativeRepository().GetDerivative(ctx, tokenID)
}

func (s *Service) ListDerivatives(
	ctx context.Context, owner string, page *domain.Page,
) ([]domain.Derivative, error) {
	return s.repoManager.DerivativeRepository().GetDerivativesByOwner(
		ctx, owner, page,
	)
}
