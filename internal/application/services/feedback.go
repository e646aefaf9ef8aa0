package services

import (
	"context"
	"log/slog"

	"github.com/inferprompt/inferprompt/internal/adapters/metrics"
	"github.com/inferprompt/inferprompt/internal/cache"
	"github.com/inferprompt/inferprompt/internal/domain/models"
	"github.com/inferprompt/inferprompt/internal/efficacy"
	"github.com/inferprompt/inferprompt/internal/ports"
)

// FeedbackService routes effectiveness feedback into the efficacy store and
// keeps derived caches honest.
type FeedbackService struct {
	store   *efficacy.Store
	results *cache.ResultCache
}

var _ ports.FeedbackService = (*FeedbackService)(nil)

func NewFeedbackService(store *efficacy.Store, results *cache.ResultCache) *FeedbackService {
	return &FeedbackService{store: store, results: results}
}

// ProvideFeedback applies one update. The result cache is cleared whether or
// not the update succeeds.
func (s *FeedbackService) ProvideFeedback(ctx context.Context, component models.ComponentType, target models.Target, value float64) bool {
	err := s.store.Update(ctx, component, target, value)
	s.results.Clear()
	if err != nil {
		slog.Warn("feedback rejected",
			"component", component,
			"target", target.String(),
			"error", err)
		metrics.FeedbackTotal.WithLabelValues("rejected").Inc()
		return false
	}
	metrics.FeedbackTotal.WithLabelValues("applied").Inc()
	return true
}
