package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/beeplan-api/internal/models"
)

// Proposal is a generated timetable kept for later retrieval and export.
// Proposals are ephemeral by design; they expire with the store TTL and are
// never written to durable storage.
type Proposal struct {
	ID          string                `json:"id"`
	Config      models.Config         `json:"config"`
	Result      models.ScheduleResult `json:"result"`
	RequestedAt time.Time             `json:"requested_at"`
}

// ProposalStore keeps proposals for their TTL.
type ProposalStore interface {
	Save(ctx context.Context, proposal Proposal) error
	Get(ctx context.Context, id string) (Proposal, bool, error)
	Delete(ctx context.Context, id string) error
}

// memoryProposalStore is the default in-process store.
type memoryProposalStore struct {
	ttl   time.Duration
	mu    sync.RWMutex
	items map[string]Proposal
}

// NewMemoryProposalStore builds the in-process TTL store.
func NewMemoryProposalStore(ttl time.Duration) ProposalStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &memoryProposalStore{
		ttl:   ttl,
		items: make(map[string]Proposal),
	}
}

func (s *memoryProposalStore) Save(_ context.Context, proposal Proposal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[proposal.ID] = proposal
	return nil
}

func (s *memoryProposalStore) Get(_ context.Context, id string) (Proposal, bool, error) {
	s.mu.RLock()
	proposal, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return Proposal{}, false, nil
	}
	if time.Since(proposal.RequestedAt) > s.ttl {
		s.mu.Lock()
		delete(s.items, id)
		s.mu.Unlock()
		return Proposal{}, false, nil
	}
	return proposal, true, nil
}

func (s *memoryProposalStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
	return nil
}

// redisProposalStore keeps proposals in Redis so several API replicas can
// serve the same proposal. Expiry is delegated to the key TTL.
type redisProposalStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisProposalStore builds the Redis-backed store.
func NewRedisProposalStore(client *redis.Client, ttl time.Duration) ProposalStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &redisProposalStore{client: client, ttl: ttl}
}

func proposalKey(id string) string {
	return fmt.Sprintf("beeplan:proposal:%s", id)
}

func (s *redisProposalStore) Save(ctx context.Context, proposal Proposal) error {
	payload, err := json.Marshal(proposal)
	if err != nil {
		return fmt.Errorf("encode proposal: %w", err)
	}
	return s.client.Set(ctx, proposalKey(proposal.ID), payload, s.ttl).Err()
}

func (s *redisProposalStore) Get(ctx context.Context, id string) (Proposal, bool, error) {
	payload, err := s.client.Get(ctx, proposalKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Proposal{}, false, nil
	}
	if err != nil {
		return Proposal{}, false, err
	}
	var proposal Proposal
	if err := json.Unmarshal(payload, &proposal); err != nil {
		return Proposal{}, false, fmt.Errorf("decode proposal: %w", err)
	}
	return proposal, true, nil
}

func (s *redisProposalStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, proposalKey(id)).Err()
}
