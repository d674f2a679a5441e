// Copyright (C) 2026, MarketPulse Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package optimize

import (
	"errors"
	"sort"
	"sync"
)

var (
	ErrRuleNotFound       = errors.New("optimize rule not found")
	ErrLogNotFound        = errors.New("action log not found")
	ErrSuggestionNotFound = errors.New("suggestion not found")
)

// RuleStore persists optimization rules.
type RuleStore interface {
	CreateRule(r Rule) (Rule, error)
	GetRule(id int64) (Rule, error)
	// ListRules returns the campaign's rules in creation order.
	ListRules(campaignID int64) ([]Rule, error)
	UpdateRule(r Rule) error
	DeleteRule(id int64) error
}

// ActionLogStore persists action logs. Logs are append-only; only the
// status may change after creation.
type ActionLogStore interface {
	AppendLog(l ActionLog) (ActionLog, error)
	GetLog(id int64) (ActionLog, error)
	ListLogs(campaignID int64) ([]ActionLog, error)
	SetLogStatus(id int64, status LogStatus) error
}

// SuggestionStore persists pending suggestions.
type SuggestionStore interface {
	PutSuggestion(s Suggestion) error
	GetSuggestion(id string) (Suggestion, error)
	ListSuggestions(campaignID int64) ([]Suggestion, error)
	SetSuggestionStatus(id string, status SuggestionStatus) error
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

// MemoryActionLogStore is a mutex-guarded in-memory log store.
type MemoryActionLogStore struct {
	mu     sync.RWMutex
	logs   map[int64]ActionLog
	nextID int64
}

func NewMemoryActionLogStore() *MemoryActionLogStore {
	return &MemoryActionLogStore{logs: make(map[int64]ActionLog), nextID: 1}
}

func (s *MemoryActionLogStore) AppendLog(l ActionLog) (ActionLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l.ID = s.nextID
	s.nextID++
	s.logs[l.ID] = l
	return l, nil
}

func (s *MemoryActionLogStore) GetLog(id int64) (ActionLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.logs[id]
	if !ok {
		return ActionLog{}, ErrLogNotFound
	}
	return l, nil
}

func (s *MemoryActionLogStore) ListLogs(campaignID int64) ([]ActionLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []ActionLog
	for _, l := range s.logs {
		if l.CampaignID == campaignID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryActionLogStore) SetLogStatus(id int64, status LogStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.logs[id]
	if !ok {
		return ErrLogNotFound
	}
	l.Status = status
	s.logs[id] = l
	return nil
}

// MemorySuggestionStore is a mutex-guarded in-memory suggestion store.
type MemorySuggestionStore struct {
	mu          sync.RWMutex
	suggestions map[string]Suggestion
	order       []string
}

func NewMemorySuggestionStore() *MemorySuggestionStore {
	return &MemorySuggestionStore{suggestions: make(map[string]Suggestion)}
}

func (s *MemorySuggestionStore) PutSuggestion(sg Suggestion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.suggestions[sg.ID]; !ok {
		s.order = append(s.order, sg.ID)
	}
	s.suggestions[sg.ID] = sg
	return nil
}

func (s *MemorySuggestionStore) GetSuggestion(id string) (Suggestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sg, ok := s.suggestions[id]
	if !ok {
		return Suggestion{}, ErrSuggestionNotFound
	}
	return sg, nil
}

func (s *MemorySuggestionStore) ListSuggestions(campaignID int64) ([]Suggestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Suggestion
	for _, id := range s.order {
		sg := s.suggestions[id]
		if sg.CampaignID == campaignID {
			out = append(out, sg)
		}
	}
	return out, nil
}

func (s *MemorySuggestionStore) SetSuggestionStatus(id string, status SuggestionStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sg, ok := s.suggestions[id]
	if !ok {
		return ErrSuggestionNotFound
	}
	sg.Status = status
	s.suggestions[id] = sg
	return nil
}

var (
	_ RuleStore       = (*MemoryRuleStore)(nil)
	_ ActionLogStore  = (*MemoryActionLogStore)(nil)
	_ SuggestionStore = (*MemorySuggestionStore)(nil)
)
