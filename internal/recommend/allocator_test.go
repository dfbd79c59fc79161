package recommend

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	pkgerrors "github.com/buildforge/buildforge-backend/pkg/errors"
	"github.com/buildforge/buildforge-backend/pkg/llm"
	"github.com/buildforge/buildforge-backend/pkg/logger"
)

const validAllocationJSON = `{"cpu": 25, "gpu": 30, "ram": 15, "ssd": 10, "psu": 7, "case": 5, "motherboard": 5, "cooler": 3}`

// fakeCompleter replays canned responses and records the prompts it saw.
type fakeCompleter struct {
	responses []string
	err       error
	calls     int
	prompts   []string
}

func (f *fakeCompleter) Complete(_ context.Context, messages []llm.Message) (string, error) {
	f.calls++
	if len(messages) > 1 {
		f.prompts = append(f.prompts, messages[len(messages)-1].Content)
	}
	if f.err != nil {
		return "", f.err
	}
	idx := f.calls - 1
	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}
	return f.responses[idx], nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "recommend-test", Output: os.Stderr})
}

func fastRetry() llm.RetryConfig {
	return llm.RetryConfig{
		MaxAttempts:       6,
		BackoffBase:       time.Millisecond,
		BackoffMultiplier: 1,
		MaxBackoff:        time.Millisecond,
	}
}

func testAllocator(t *testing.T, client completer, attempts int) *Allocator {
	t.Helper()
	alloc, err := NewAllocator(client, attempts, fastRetry(), testLogger(), nil)
	if err != nil {
		t.Fatalf("build allocator: %v", err)
	}
	return alloc
}

func TestAllocateAcceptsValidSplit(t *testing.T) {
	client := &fakeCompleter{responses: []string{"```json\n" + validAllocationJSON + "\n```"}}
	alloc := testAllocator(t, client, 6)

	result, err := alloc.Allocate(context.Background(), 1500, "gaming")
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if client.calls != 1 {
		t.Fatalf("expected 1 llm call, got %d", client.calls)
	}
	if result["gpu"] != 30 {
		t.Fatalf("expected gpu share 30, got %v", result["gpu"])
	}
}

func TestAllocateExhaustsConfiguredAttempts(t *testing.T) {
	// sums to 130, outside tolerance on every attempt
	bad := `{"cpu": 40, "gpu": 40, "ram": 15, "ssd": 10, "psu": 10, "case": 5, "motherboard": 5, "cooler": 5}`
	client := &fakeCompleter{responses: []string{bad}}
	alloc := testAllocator(t, client, 6)

	_, err := alloc.Allocate(context.Background(), 1500, "gaming")
	if err == nil {
		t.Fatal("expected allocation error")
	}
	if client.calls != 6 {
		t.Fatalf("expected exactly 6 llm calls, got %d", client.calls)
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeAllocation {
		t.Fatalf("expected allocation error code, got %v", err)
	}
	details, ok := typed.Details().(map[string]any)
	if !ok {
		t.Fatalf("expected reason details, got %v", typed.Details())
	}
	reason, _ := details["reason"].(string)
	if !strings.Contains(reason, "sum") {
		t.Fatalf("expected last rejection reason in details, got %q", reason)
	}
}

func TestAllocateAddsCorrectionNoteOnSecondAttempt(t *testing.T) {
	bad := `{"cpu": 40, "gpu": 40, "ram": 15, "ssd": 10, "psu": 10, "case": 5, "motherboard": 5, "cooler": 5}`
	client := &fakeCompleter{responses: []string{bad, validAllocationJSON}}
	alloc := testAllocator(t, client, 6)

	if _, err := alloc.Allocate(context.Background(), 1500, "gaming"); err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if client.calls != 2 {
		t.Fatalf("expected 2 llm calls, got %d", client.calls)
	}
	if strings.Contains(client.prompts[0], "completely new approach") {
		t.Fatal("first prompt should not carry the correction note")
	}
	if !strings.Contains(client.prompts[1], "completely new approach") {
		t.Fatal("second prompt should carry the correction note")
	}
}

func TestParseAllocationRepairsCaseFloor(t *testing.T) {
	// sums to 100 with case below the floor
	content := `{"cpu": 27, "gpu": 30, "ram": 15, "ssd": 10, "psu": 7, "case": 3, "motherboard": 5, "cooler": 3}`
	allocation, err := parseAllocation(content)
	if err != nil {
		t.Fatalf("parse allocation: %v", err)
	}
	if allocation["case"] != caseFloorPercent {
		t.Fatalf("expected case repaired to %v, got %v", caseFloorPercent, allocation["case"])
	}
	// the rest stays untouched
	if allocation["cpu"] != 27 {
		t.Fatalf("expected cpu share unchanged, got %v", allocation["cpu"])
	}
}

func TestParseAllocationRejections(t *testing.T) {
	cases := map[string]string{
		"missingKey":    `{"cpu": 30, "gpu": 30, "ram": 15, "ssd": 10, "psu": 7, "case": 5, "motherboard": 3}`,
		"sumTooHigh":    `{"cpu": 40, "gpu": 40, "ram": 15, "ssd": 10, "psu": 10, "case": 5, "motherboard": 5, "cooler": 5}`,
		"sumTooLow":     `{"cpu": 10, "gpu": 10, "ram": 10, "ssd": 10, "psu": 10, "case": 10, "motherboard": 10, "cooler": 10}`,
		"negativeValue": `{"cpu": 35, "gpu": 35, "ram": 15, "ssd": 10, "psu": 7, "case": 5, "motherboard": -4, "cooler": 2}`,
		"notJSON":       `sorry, I cannot help with that`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := parseAllocation(content); err == nil {
				t.Fatalf("expected rejection for %s", name)
			}
		})
	}
}

func TestAllocateBacksOffBeforeFirstRetry(t *testing.T) {
	client := &fakeCompleter{responses: []string{"not json"}}
	retry := llm.RetryConfig{
		MaxAttempts:       6,
		BackoffBase:       time.Hour,
		BackoffMultiplier: 1,
		MaxBackoff:        time.Hour,
	}
	alloc, err := NewAllocator(client, 6, retry, testLogger(), nil)
	if err != nil {
		t.Fatalf("build allocator: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = alloc.Allocate(ctx, 1500, "gaming")
	if err == nil {
		t.Fatal("expected abort while waiting out the backoff")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeAllocation {
		t.Fatalf("expected allocation error code, got %v", err)
	}
	if !strings.Contains(err.Error(), "allocation aborted") {
		t.Fatalf("expected aborted allocation, got %v", err)
	}
	if client.calls != 1 {
		t.Fatalf("expected the deadline to cut off the retry, got %d calls", client.calls)
	}
}
