package profile

import (
	"context"
	"sync"

	"github.com/flaviengibs/chess-sub000/pkg/chessdto"
)

// Memory is a development-only in-memory provider used when no backend is
// configured.
type Memory struct {
	mu       sync.RWMutex
	profiles map[string]*chessdto.Profile
	results  []*Result
}

func NewMemory() *Memory {
	return &Memory{profiles: make(map[string]*chessdto.Profile)}
}

func (m *Memory) Fetch(ctx context.Context, identity, displayName string) (*chessdto.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.profiles[identity]; ok {
		cp := *p
		if displayName != "" {
			cp.DisplayName = displayName
		}
		return &cp, nil
	}
	p := &chessdto.Profile{Identity: identity, DisplayName: displayName, Rating: DefaultRating}
	m.profiles[identity] = p
	cp := *p
	return &cp, nil
}

func (m *Memory) SaveResult(ctx context.Context, res *Result) error {
	if res == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, res)
	m.setRating(res.WhiteID, res.WhiteName, res.WhiteElo.After)
	m.setRating(res.BlackID, res.BlackName, res.BlackElo.After)
	return nil
}

func (m *Memory) setRating(identity, name string, rating int) {
	p, ok := m.profiles[identity]
	if !ok {
		p = &chessdto.Profile{Identity: identity, DisplayName: name}
		m.profiles[identity] = p
	}
	p.Rating = rating
}

// Results returns the recorded games, newest last. Test helper.
func (m *Memory) Results() []*Result {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*Result(nil), m.results...)
}

func (m *Memory) Close() error { return nil }
