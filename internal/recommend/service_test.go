package recommend

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	build "github.com/buildforge/buildforge-backend/internal/builds"
	"github.com/buildforge/buildforge-backend/pkg/config"
	"github.com/buildforge/buildforge-backend/pkg/db/models"
	"github.com/buildforge/buildforge-backend/pkg/enums"
	pkgerrors "github.com/buildforge/buildforge-backend/pkg/errors"
)

type fakePersister struct {
	calls  int
	inputs []build.PersistRecommendedInput
	result *build.PersistResult
	err    error
}

func (f *fakePersister) PersistRecommended(_ context.Context, input build.PersistRecommendedInput) (*build.PersistResult, error) {
	f.calls++
	f.inputs = append(f.inputs, input)
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func fullCatalog() *fakeLister {
	rows := map[enums.ComponentCategory][]models.Component{}
	for key, category := range allocationCategories {
		rows[category] = []models.Component{
			{Name: key + " alpha", Manufacturer: "ACME", Price: decimal.RequireFromString("100.00")},
			{Name: key + " beta", Manufacturer: "ACME", Price: decimal.RequireFromString("120.00")},
		}
	}
	return &fakeLister{rows: rows}
}

func testRecommendConfig() config.RecommendConfig {
	return config.RecommendConfig{
		AllocatorAttempts: 6,
		ComposerAttempts:  3,
		MinCandidates:     2,
		BackoffBase:       time.Millisecond,
		ConversationTTL:   30 * time.Minute,
		HistoryLimit:      10,
	}
}

// pipeline wires a full service around scripted LLM clients and fakes.
func pipeline(t *testing.T, allocatorClient, composerClient completer, persister *fakePersister) Service {
	t.Helper()
	logg := testLogger()

	alloc, err := NewAllocator(allocatorClient, 6, fastRetry(), logg, nil)
	if err != nil {
		t.Fatalf("allocator: %v", err)
	}
	retriever, err := NewRetriever(fullCatalog(), 2)
	if err != nil {
		t.Fatalf("retriever: %v", err)
	}
	composer, err := NewComposer(composerClient, logg, nil)
	if err != nil {
		t.Fatalf("composer: %v", err)
	}
	conversations, _ := testConversationStore(t, 10)

	svc, err := NewService(ServiceParams{
		Allocator:     alloc,
		Retriever:     retriever,
		Composer:      composer,
		Builds:        persister,
		Conversations: conversations,
		Config:        testRecommendConfig(),
		Logger:        logg,
	})
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	return svc
}

func persistedResult(name string) *build.PersistResult {
	return &build.PersistResult{
		Build:       &build.BuildDTO{ID: uuid.New(), Name: name},
		LinkedCount: 2,
	}
}

func TestRecommendValidationSkipsLLM(t *testing.T) {
	allocClient := &fakeCompleter{responses: []string{validAllocationJSON}}
	composeClient := &fakeCompleter{responses: []string{validBuildJSON}}
	svc := pipeline(t, allocClient, composeClient, &fakePersister{})

	cases := map[string]RecommendRequest{
		"zeroBudget":     {Budget: 0, Requirements: "gaming"},
		"negativeBudget": {Budget: -100, Requirements: "gaming"},
		"blankRequs":     {Budget: 1500, Requirements: "   "},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Recommend(context.Background(), nil, req)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
	if allocClient.calls != 0 || composeClient.calls != 0 {
		t.Fatalf("validation failures must not reach the llm, saw %d/%d calls", allocClient.calls, composeClient.calls)
	}
}

func TestRecommendHappyPath(t *testing.T) {
	allocClient := &fakeCompleter{responses: []string{validAllocationJSON}}
	composeClient := &fakeCompleter{responses: []string{validBuildJSON}}
	persister := &fakePersister{result: persistedResult("Mid-Range Gaming Build")}
	svc := pipeline(t, allocClient, composeClient, persister)

	resp, err := svc.Recommend(context.Background(), nil, RecommendRequest{Budget: 600, Requirements: "1080p gaming"})
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if resp.Build == nil || resp.Build.Name != "Mid-Range Gaming Build" {
		t.Fatalf("unexpected build %+v", resp.Build)
	}
	if resp.TotalCost != 530.50 {
		t.Fatalf("unexpected total cost %v", resp.TotalCost)
	}
	if resp.Allocation["gpu"] != 30 {
		t.Fatalf("expected allocation surfaced, got %+v", resp.Allocation)
	}
	if resp.ConversationToken == "" {
		t.Fatal("expected a conversation token")
	}
	if persister.calls != 1 {
		t.Fatalf("expected one persist call, got %d", persister.calls)
	}
	if got := persister.inputs[0].Parts[0].Price; got != "220.50" {
		t.Fatalf("expected formatted part price, got %q", got)
	}
}

func TestRecommendExhaustsComposerRounds(t *testing.T) {
	allocClient := &fakeCompleter{responses: []string{validAllocationJSON}}
	composeClient := &fakeCompleter{responses: []string{`{"error": "NO_VALID_BUILD"}`}}
	persister := &fakePersister{}
	svc := pipeline(t, allocClient, composeClient, persister)

	_, err := svc.Recommend(context.Background(), nil, RecommendRequest{Budget: 600, Requirements: "gaming"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNoValidBuild {
		t.Fatalf("expected no-valid-build error, got %v", err)
	}
	if composeClient.calls != 3 {
		t.Fatalf("expected 3 composition rounds, got %d", composeClient.calls)
	}
	if persister.calls != 0 {
		t.Fatal("nothing should be persisted without a valid build")
	}
}

func TestRecommendRecoversOnSecondRound(t *testing.T) {
	allocClient := &fakeCompleter{responses: []string{validAllocationJSON}}
	composeClient := &fakeCompleter{responses: []string{`{"error": "NO_VALID_BUILD"}`, validBuildJSON}}
	persister := &fakePersister{result: persistedResult("Mid-Range Gaming Build")}
	svc := pipeline(t, allocClient, composeClient, persister)

	resp, err := svc.Recommend(context.Background(), nil, RecommendRequest{Budget: 600, Requirements: "gaming"})
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if composeClient.calls != 2 {
		t.Fatalf("expected recovery on round 2, got %d rounds", composeClient.calls)
	}
	if resp.Build == nil {
		t.Fatal("expected a build")
	}
}

func TestRecommendCarriesUserIntoPersistence(t *testing.T) {
	allocClient := &fakeCompleter{responses: []string{validAllocationJSON}}
	composeClient := &fakeCompleter{responses: []string{validBuildJSON}}
	persister := &fakePersister{result: persistedResult("Mid-Range Gaming Build")}
	svc := pipeline(t, allocClient, composeClient, persister)

	userID := uuid.New()
	if _, err := svc.Recommend(context.Background(), &userID, RecommendRequest{Budget: 600, Requirements: "gaming"}); err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if persister.inputs[0].UserID == nil || *persister.inputs[0].UserID != userID {
		t.Fatalf("expected user carried to persistence, got %v", persister.inputs[0].UserID)
	}
}
