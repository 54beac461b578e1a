package service

import (
	"context"
	"time"

	"github.com/ikkim/clientbook-backend/internal/app/repository"
	"github.com/ikkim/clientbook-backend/pkg/logger"
)

const summaryCacheKey = "summary"

// Summary is the dashboard overview of stored records.
type Summary struct {
	TotalClients             int64 `json:"total_clients"`
	TotalBenefits            int64 `json:"total_benefits"`
	TotalCommercial          int64 `json:"total_commercial"`
	ClientsWithoutBenefits   int64 `json:"clients_without_benefits"`
	ClientsWithoutCommercial int64 `json:"clients_without_commercial"`
}

// SummaryCache is satisfied by pkg/redis.JSONCache.
type SummaryCache interface {
	GetJSON(ctx context.Context, name string, dst interface{}) error
	SetJSON(ctx context.Context, name string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, names ...string) error
}

type SummaryService interface {
	Notifier
	Summary(ctx context.Context) (*Summary, error)
}

type summaryService struct {
	clientRepo     repository.ClientRepository
	benefitRepo    repository.BenefitRepository
	commercialRepo repository.CommercialRepository
	cache          SummaryCache
	ttl            time.Duration
}

// NewSummaryService builds the summary service. cache may be nil.
func NewSummaryService(
	clientRepo repository.ClientRepository,
	benefitRepo repository.BenefitRepository,
	commercialRepo repository.CommercialRepository,
	cache SummaryCache,
	ttl time.Duration,
) SummaryService {
	return &summaryService{
		clientRepo:     clientRepo,
		benefitRepo:    benefitRepo,
		commercialRepo: commercialRepo,
		cache:          cache,
		ttl:            ttl,
	}
}

func (s *summaryService) Summary(ctx context.Context) (*Summary, error) {
	if s.cache != nil {
		var cached Summary
		if err := s.cache.GetJSON(ctx, summaryCacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	var (
		out Summary
		err error
	)
	if out.TotalClients, err = s.clientRepo.Count(); err != nil {
		return nil, err
	}
	if out.TotalBenefits, err = s.benefitRepo.Count(); err != nil {
		return nil, err
	}
	if out.TotalCommercial, err = s.commercialRepo.Count(); err != nil {
		return nil, err
	}
	if out.ClientsWithoutBenefits, err = s.clientRepo.CountWithoutBenefits(); err != nil {
		return nil, err
	}
	if out.ClientsWithoutCommercial, err = s.clientRepo.CountWithoutCommercial(); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, summaryCacheKey, out, s.ttl); err != nil {
			logger.Warn("Failed to cache summary", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	return &out, nil
}

// Notify drops the cached summary after any change.
func (s *summaryService) Notify(entity, action string) {
	if s.cache == nil || entity == EntityFeedback {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, summaryCacheKey); err != nil {
		logger.Warn("Failed to invalidate summary cache", map[string]interface{}{
			"entity": entity,
			"action": action,
			"error":  err.Error(),
		})
	}
}
