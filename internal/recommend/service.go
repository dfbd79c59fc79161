package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	build "github.com/buildforge/buildforge-backend/internal/builds"
	"github.com/buildforge/buildforge-backend/pkg/config"
	pkgerrors "github.com/buildforge/buildforge-backend/pkg/errors"
	"github.com/buildforge/buildforge-backend/pkg/logger"
	"github.com/buildforge/buildforge-backend/pkg/metrics"
)

const noValidBuildMessage = "AI could not create a valid build after multiple attempts."

// Service runs the full recommendation pipeline.
type Service interface {
	Recommend(ctx context.Context, userID *uuid.UUID, req RecommendRequest) (*RecommendResponse, error)
}

type buildPersister interface {
	PersistRecommended(ctx context.Context, input build.PersistRecommendedInput) (*build.PersistResult, error)
}

type service struct {
	allocator     *Allocator
	retriever     *Retriever
	composer      *Composer
	builds        buildPersister
	conversations *ConversationStore
	cfg           config.RecommendConfig
	logg          *logger.Logger
	metrics       *metrics.RecommendMetrics
}

// ServiceParams bundles the pipeline dependencies.
type ServiceParams struct {
	Allocator     *Allocator
	Retriever     *Retriever
	Composer      *Composer
	Builds        buildPersister
	Conversations *ConversationStore
	Config        config.RecommendConfig
	Logger        *logger.Logger
	Metrics       *metrics.RecommendMetrics
}

// NewService constructs the recommendation service.
func NewService(params ServiceParams) (Service, error) {
	if params.Allocator == nil {
		return nil, fmt.Errorf("allocator required")
	}
	if params.Retriever == nil {
		return nil, fmt.Errorf("retriever required")
	}
	if params.Composer == nil {
		return nil, fmt.Errorf("composer required")
	}
	if params.Builds == nil {
		return nil, fmt.Errorf("build persister required")
	}
	if params.Conversations == nil {
		return nil, fmt.Errorf("conversation store required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		allocator:     params.Allocator,
		retriever:     params.Retriever,
		composer:      params.Composer,
		builds:        params.Builds,
		conversations: params.Conversations,
		cfg:           params.Config,
		logg:          params.Logger,
		metrics:       params.Metrics,
	}, nil
}

// Recommend validates the request, allocates the budget, composes a build
// from freshly retrieved candidates, and persists the result.
func (s *service) Recommend(ctx context.Context, userID *uuid.UUID, req RecommendRequest) (*RecommendResponse, error) {
	start := time.Now()

	if req.Budget <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "budget must be positive")
	}
	requirements := strings.TrimSpace(req.Requirements)
	if requirements == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "requirements are required")
	}

	token := s.conversations.Token(req.ConversationToken)
	history, err := s.conversations.History(ctx, token)
	if err != nil {
		s.logg.Warn(ctx, "conversation history unavailable, continuing without it")
		history = nil
	}

	allocation, err := s.allocator.Allocate(ctx, req.Budget, requirements)
	if err != nil {
		s.metrics.ObserveDuration("allocation_error", time.Since(start))
		return nil, err
	}

	selection, err := s.composeWithRetries(ctx, req.Budget, requirements, allocation, history)
	if err != nil {
		if errors.Is(err, ErrNoValidBuild) {
			s.metrics.ObserveDuration("no_valid_build", time.Since(start))
			return nil, pkgerrors.New(pkgerrors.CodeNoValidBuild, noValidBuildMessage)
		}
		s.metrics.ObserveDuration("upstream_error", time.Since(start))
		return nil, err
	}

	parts := make([]build.RecommendedPart, 0, len(selection.Parts))
	for _, part := range selection.Parts {
		parts = append(parts, build.RecommendedPart{
			Name:  part.Name,
			Price: fmt.Sprintf("%.2f", part.Price),
		})
	}

	persisted, err := s.builds.PersistRecommended(ctx, build.PersistRecommendedInput{
		Name:        selection.Name,
		Description: selection.Justification,
		Parts:       parts,
		UserID:      userID,
	})
	if err != nil {
		s.metrics.ObserveDuration("persist_error", time.Since(start))
		return nil, err
	}
	s.metrics.IncPersisted()
	for range persisted.UnlinkedNames {
		s.metrics.IncLinkMiss()
	}

	entry := ConversationEntry{
		Requirements: requirements,
		BuildName:    persisted.Build.Name,
		TotalCost:    selection.TotalCost,
		At:           time.Now().UTC(),
	}
	if err := s.conversations.Append(ctx, token, entry); err != nil {
		// history is advisory, the recommendation already succeeded
		s.logg.Warn(ctx, "failed to record conversation history")
	}

	s.metrics.ObserveDuration("ok", time.Since(start))

	return &RecommendResponse{
		Build:             persisted.Build,
		Allocation:        allocation,
		TotalCost:         selection.TotalCost,
		Justification:     selection.Justification,
		LinkedCount:       persisted.LinkedCount,
		UnlinkedCount:     persisted.UnlinkedCount,
		UnlinkedNames:     persisted.UnlinkedNames,
		ConversationToken: token,
	}, nil
}

// composeWithRetries retrieves candidates and composes, retrying rejection
// rounds with freshly retrieved candidates.
func (s *service) composeWithRetries(ctx context.Context, budget float64, requirements string, allocation BudgetAllocation, history []ConversationEntry) (*BuildSelection, error) {
	attempts := s.cfg.ComposerAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		candidates, err := s.retriever.Retrieve(ctx, budget, allocation)
		if err != nil {
			return nil, err
		}

		selection, err := s.composer.Compose(ctx, budget, requirements, candidates, history)
		if err == nil {
			return selection, nil
		}
		lastErr = err
		if !errors.Is(err, ErrNoValidBuild) {
			return nil, err
		}
		s.logg.Warn(s.logg.WithField(ctx, "attempt", attempt+1), "composition round rejected, retrying with fresh candidates")
	}

	return nil, lastErr
}
