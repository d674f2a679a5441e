// Copyright (C) 2026, MarketPulse Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package alert

import (
	"errors"
	"sort"
	"sync"
)

var (
	ErrRuleNotFound  = errors.New("alert rule not found")
	ErrEventNotFound = errors.New("alert event not found")
)

// RuleStore persists alert rules.
type RuleStore interface {
	CreateRule(r Rule) (Rule, error)
	GetRule(id int64) (Rule, error)
	// ListRules returns the campaign's rules in creation order.
	ListRules(campaignID int64) ([]Rule, error)
	UpdateRule(r Rule) error
	DeleteRule(id int64) error
}

// EventStore persists alert events. Events are append-only;
// acknowledgement is the only mutation.
type EventStore interface {
	AppendEvent(e Event) (Event, error)
	GetEvent(id int64) (Event, error)
	ListEvents(campaignID int64) ([]Event, error)
	UpdateEvent(e Event) error
}

// MemoryRuleStore is a mutex-guarded in-memory rule store.
type MemoryRuleStore struct {
	mu     sync.RWMutex
	rules  map[int64]Rule
	nextID int64
}

func NewMemoryRuleStore() *MemoryRuleStore {
	return &MemoryRuleStore{rules: make(map[int64]Rule), nextID: 1}
}

func (s *MemoryRuleStore) CreateRule(r Rule) (Rule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = s.nextID
	s.nextID++
	s.rules[r.ID] = r
	return r, nil
}

func (s *MemoryRuleStore) GetRule(id int64) (Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rules[id]
	if !ok {
		return Rule{}, ErrRuleNotFound
	}
	return r, nil
}

func (s *MemoryRuleStore) ListRules(campaignID int64) ([]Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Rule
	for _, r := range s.rules {
		if r.CampaignID == campaignID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryRuleStore) UpdateRule(r Rule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rules[r.ID]; !ok {
		return ErrRuleNotFound
	}
	s.rules[r.ID] = r
	return nil
}

func (s *MemoryRuleStore) DeleteRule(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rules[id]; !ok {
		return ErrRuleNotFound
	}
	delete(s.rules, id)
	return nil
}

// MemoryEventStore is a mutex-guarded in-memory event store.
type MemoryEventStore struct {
	mu     sync.RWMutex
	events map[int64]Event
	nextID int64
}

func NewMemoryEventStore() *MemoryEventStore {
	return &MemoryEventStore{events: make(map[int64]Event), nextID: 1}
}

func (s *MemoryEventStore) AppendEvent(e Event) (Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.nextID
	s.nextID++
	s.events[e.ID] = e
	return e, nil
}

func (s *MemoryEventStore) GetEvent(id int64) (Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.events[id]
	if !ok {
		return Event{}, ErrEventNotFound
	}
	return e, nil
}

func (s *MemoryEventStore) ListEvents(campaignID int64) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Event
	for _, e := range s.events {
		if e.CampaignID == campaignID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryEventStore) UpdateEvent(e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[e.ID]; !ok {
		return ErrEventNotFound
	}
	s.events[e.ID] = e
	return nil
}

var (
	_ RuleStore  = (*MemoryRuleStore)(nil)
	_ EventStore = (*MemoryEventStore)(nil)
)
