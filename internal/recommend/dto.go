package recommend

import (
	build "github.com/buildforge/buildforge-backend/internal/builds"
)

// RecommendRequest is the payload for a build recommendation.
type RecommendRequest struct {
	Budget            float64 `json:"budget" validate:"required,gt=0"`
	Requirements      string  `json:"requirements" validate:"required"`
	ConversationToken string  `json:"conversation_token,omitempty"`
}

// BudgetAllocation maps allocation keys to budget percentages. Keys use the
// allocator vocabulary (ssd, psu), not the catalog category names.
type BudgetAllocation map[string]float64

// RecommendResponse carries the saved build plus pipeline context.
type RecommendResponse struct {
	Build             *build.BuildDTO  `json:"build"`
	Allocation        BudgetAllocation `json:"allocation"`
	TotalCost         float64          `json:"total_cost"`
	Justification     string           `json:"justification"`
	LinkedCount       int              `json:"linked_count"`
	UnlinkedCount     int              `json:"unlinked_count"`
	UnlinkedNames     []string         `json:"unlinked_names,omitempty"`
	ConversationToken string           `json:"conversation_token"`
}
