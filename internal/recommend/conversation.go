package recommend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/buildforge/buildforge-backend/pkg/redis"
)

// ConversationEntry is one prior recommendation within a conversation.
type ConversationEntry struct {
	Requirements string    `json:"requirements"`
	BuildName    string    `json:"build_name"`
	TotalCost    float64   `json:"total_cost"`
	At           time.Time `json:"at"`
}

// ConversationStore keeps bounded recommendation history in Redis, keyed by a
// client-held token.
type ConversationStore struct {
	redis *redis.Client
	ttl   time.Duration
	limit int
}

// NewConversationStore constructs the store.
func NewConversationStore(client *redis.Client, ttl time.Duration, limit int) (*ConversationStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("ttl must be positive")
	}
	if limit <= 0 {
		limit = 1
	}
	return &ConversationStore{redis: client, ttl: ttl, limit: limit}, nil
}

// Token returns the provided token when it parses as a UUID, otherwise a
// freshly minted one.
func (s *ConversationStore) Token(existing string) string {
	if _, err := uuid.Parse(existing); err == nil {
		return existing
	}
	return uuid.NewString()
}

// History loads the entries stored under the token. A missing key yields an
// empty history.
func (s *ConversationStore) History(ctx context.Context, token string) ([]ConversationEntry, error) {
	raw, err := s.redis.Get(ctx, redis.ConversationKey(token))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("load conversation: %w", err)
	}

	var entries []ConversationEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("decode conversation: %w", err)
	}
	return entries, nil
}

// Append adds an entry, trims the history to the configured bound, and
// refreshes the TTL.
func (s *ConversationStore) Append(ctx context.Context, token string, entry ConversationEntry) error {
	entries, err := s.History(ctx, token)
	if err != nil {
		return err
	}

	entries = append(entries, entry)
	if len(entries) > s.limit {
		entries = entries[len(entries)-s.limit:]
	}

	payload, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode conversation: %w", err)
	}
	if err := s.redis.Set(ctx, redis.ConversationKey(token), payload, s.ttl); err != nil {
		return fmt.Errorf("store conversation: %w", err)
	}
	return nil
}
