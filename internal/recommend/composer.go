package recommend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	pkgerrors "github.com/buildforge/buildforge-backend/pkg/errors"
	"github.com/buildforge/buildforge-backend/pkg/llm"
	"github.com/buildforge/buildforge-backend/pkg/logger"
	"github.com/buildforge/buildforge-backend/pkg/metrics"
)

// ErrNoValidBuild is returned when the LLM reports it cannot compose a valid
// build from the offered candidates, or its answer fails validation.
var ErrNoValidBuild = errors.New("no valid build from candidates")

// overBudgetFactor caps the accepted total_cost relative to the budget.
const overBudgetFactor = 1.05

// SelectedPart is one component picked by the composer.
type SelectedPart struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// BuildSelection is the validated composer output.
type BuildSelection struct {
	Name          string
	Parts         []SelectedPart
	TotalCost     float64
	Justification string
}

type composerReply struct {
	Error         string         `json:"error"`
	Name          string         `json:"name"`
	Components    []SelectedPart `json:"components"`
	TotalCost     float64        `json:"total_cost"`
	Justification string         `json:"justification"`
}

// Composer asks the LLM to pick one part per category from the candidates.
type Composer struct {
	llm     completer
	logg    *logger.Logger
	metrics *metrics.RecommendMetrics
}

// NewComposer constructs a composer.
func NewComposer(client completer, logg *logger.Logger, m *metrics.RecommendMetrics) (*Composer, error) {
	if client == nil {
		return nil, fmt.Errorf("llm client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Composer{llm: client, logg: logg, metrics: m}, nil
}

// Compose runs one composition round. ErrNoValidBuild signals the caller to
// retry with fresh candidates; other errors are upstream failures.
func (c *Composer) Compose(ctx context.Context, budget float64, requirements string, candidates CandidateSet, history []ConversationEntry) (*BuildSelection, error) {
	content, err := c.llm.Complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: composerSystemPrompt},
		{Role: llm.RoleUser, Content: composerPrompt(budget, requirements, candidates, history)},
	})
	if err != nil {
		c.metrics.IncLLMRequest("composer", "error")
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "composer request failed")
	}

	selection, err := parseSelection(content, budget)
	if err != nil {
		c.metrics.IncLLMRequest("composer", "invalid")
		c.logg.Warn(c.logg.WithField(ctx, "reason", err.Error()), "composer returned unusable build")
		return nil, ErrNoValidBuild
	}

	c.metrics.IncLLMRequest("composer", "ok")
	return selection, nil
}

func parseSelection(content string, budget float64) (*BuildSelection, error) {
	raw := llm.ExtractJSON(content)
	if raw == "" {
		return nil, fmt.Errorf("no JSON object in composer response")
	}

	var reply composerReply
	if err := json.Unmarshal([]byte(raw), &reply); err != nil {
		return nil, fmt.Errorf("parse composer response: %w", err)
	}

	if reply.Error != "" {
		return nil, fmt.Errorf("composer refused: %s", reply.Error)
	}
	if len(reply.Components) == 0 {
		return nil, fmt.Errorf("composer returned no components")
	}
	for _, part := range reply.Components {
		if part.Name == "" {
			return nil, fmt.Errorf("composer returned unnamed component")
		}
	}
	if reply.TotalCost > budget*overBudgetFactor {
		return nil, fmt.Errorf("composer exceeded budget: %.2f > %.2f", reply.TotalCost, budget*overBudgetFactor)
	}

	return &BuildSelection{
		Name:          reply.Name,
		Parts:         reply.Components,
		TotalCost:     reply.TotalCost,
		Justification: reply.Justification,
	}, nil
}
