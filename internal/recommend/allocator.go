package recommend

import (
	"context"
	"encoding/json"
	"fmt"

	pkgerrors "github.com/buildforge/buildforge-backend/pkg/errors"
	"github.com/buildforge/buildforge-backend/pkg/llm"
	"github.com/buildforge/buildforge-backend/pkg/logger"
	"github.com/buildforge/buildforge-backend/pkg/metrics"
)

// allocationKeys is the fixed vocabulary the allocator must return.
var allocationKeys = []string{"cpu", "gpu", "ram", "ssd", "psu", "case", "motherboard", "cooler"}

const (
	// caseFloorPercent is the minimum share for the case; lower values are
	// repaired in place without re-normalizing the rest.
	caseFloorPercent = 5.0

	// sumToleranceMin/Max bound the accepted percentage total.
	sumToleranceMin = 90.0
	sumToleranceMax = 110.0
)

type completer interface {
	Complete(ctx context.Context, messages []llm.Message) (string, error)
}

// Allocator asks the LLM for a percentage budget split and validates it.
type Allocator struct {
	llm      completer
	attempts int
	retry    llm.RetryConfig
	logg     *logger.Logger
	metrics  *metrics.RecommendMetrics
}

// NewAllocator constructs an allocator with the provided attempt budget.
func NewAllocator(client completer, attempts int, retry llm.RetryConfig, logg *logger.Logger, m *metrics.RecommendMetrics) (*Allocator, error) {
	if client == nil {
		return nil, fmt.Errorf("llm client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if attempts <= 0 {
		attempts = 1
	}
	return &Allocator{llm: client, attempts: attempts, retry: retry, logg: logg, metrics: m}, nil
}

// Allocate requests a budget split, retrying on invalid responses. The second
// attempt carries a correction note about the prior summation failure.
func (a *Allocator) Allocate(ctx context.Context, budget float64, requirements string) (BudgetAllocation, error) {
	var lastErr error

	for attempt := 0; attempt < a.attempts; attempt++ {
		if attempt > 0 {
			// Sleep takes the 1-based attempt about to run, so every
			// retry backs off, the first one included.
			if err := a.retry.Sleep(ctx, attempt+1); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeAllocation, err, "allocation aborted")
			}
		}

		prompt := allocationPrompt(budget, requirements)
		if attempt == 1 {
			prompt += allocationCorrectionNote
		}

		content, err := a.llm.Complete(ctx, []llm.Message{
			{Role: llm.RoleSystem, Content: allocatorSystemPrompt},
			{Role: llm.RoleUser, Content: prompt},
		})
		if err != nil {
			a.metrics.IncLLMRequest("allocator", "error")
			lastErr = err
			a.logg.Warn(a.logg.WithField(ctx, "attempt", attempt+1), "allocator request failed")
			continue
		}

		allocation, err := parseAllocation(content)
		if err != nil {
			a.metrics.IncLLMRequest("allocator", "invalid")
			lastErr = err
			a.logg.Warn(a.logg.WithField(ctx, "attempt", attempt+1), "allocator returned invalid split")
			continue
		}

		a.metrics.IncLLMRequest("allocator", "ok")
		return allocation, nil
	}

	exhausted := pkgerrors.Wrap(pkgerrors.CodeAllocation, lastErr,
		fmt.Sprintf("budget allocation failed after %d attempts", a.attempts))
	if lastErr != nil {
		// clients see the final rejection reason through the details field
		exhausted = exhausted.WithDetails(map[string]any{"reason": lastErr.Error()})
	}
	return nil, exhausted
}

// parseAllocation extracts and validates the percentage split.
func parseAllocation(content string) (BudgetAllocation, error) {
	raw := llm.ExtractJSON(content)
	if raw == "" {
		return nil, fmt.Errorf("no JSON object in allocator response")
	}

	var parsed map[string]float64
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("parse allocation: %w", err)
	}

	allocation := BudgetAllocation{}
	for _, key := range allocationKeys {
		value, ok := parsed[key]
		if !ok {
			return nil, fmt.Errorf("allocation missing key %q", key)
		}
		allocation[key] = value
	}

	total := 0.0
	for _, value := range allocation {
		total += value
	}
	if total < sumToleranceMin || total > sumToleranceMax {
		return nil, fmt.Errorf("allocation sums to %.2f, want within [%.0f,%.0f]", total, sumToleranceMin, sumToleranceMax)
	}

	if allocation["case"] < caseFloorPercent {
		allocation["case"] = caseFloorPercent
	}

	for key, value := range allocation {
		if value <= 0 {
			return nil, fmt.Errorf("allocation key %q is not positive", key)
		}
	}

	return allocation, nil
}
