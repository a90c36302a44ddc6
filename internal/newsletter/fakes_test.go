package newsletter_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"SwiftCart/internal/models"
	"SwiftCart/internal/newsletter"
)

// memSubscribers is an in-memory subscriber repository for unit testing.
type memSubscribers struct {
	mu          sync.Mutex
	subs        map[string]*models.Subscriber
	nextID      int64
	snapshotErr error
}

func newMemSubscribers() *memSubscribers {
	return &memSubscribers{subs: make(map[string]*models.Subscriber)}
}

func (m *memSubscribers) GetByEmail(_ context.Context, email string) (*models.Subscriber, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub, ok := m.subs[email]
	if !ok {
		return nil, nil
	}
	cp := *sub
	return &cp, nil
}

func (m *memSubscribers) Create(_ context.Context, email string) (*models.Subscriber, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	sub := &models.Subscriber{
		ID:           m.nextID,
		Email:        email,
		IsActive:     true,
		SubscribedAt: time.Now().UTC(),
	}
	m.subs[email] = sub
	cp := *sub
	return &cp, nil
}

func (m *memSubscribers) SetActive(_ context.Context, email string, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub, ok := m.subs[email]
	if !ok {
		return errors.New("no such subscriber")
	}
	sub.IsActive = active
	if active {
		sub.UnsubscribedAt = nil
	} else {
		now := time.Now().UTC()
		sub.UnsubscribedAt = &now
	}
	return nil
}

func (m *memSubscribers) List(_ context.Context, activeOnly bool, limit, offset int) ([]models.Subscriber, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	all := m.sorted()
	var out []models.Subscriber
	for _, sub := range all {
		if activeOnly && !sub.IsActive {
			continue
		}
		out = append(out, sub)
	}

	total := len(out)
	if offset >= len(out) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], total, nil
}

func (m *memSubscribers) CountActive(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, sub := range m.subs {
		if sub.IsActive {
			n++
		}
	}
	return n, nil
}

func (m *memSubscribers) SnapshotActive(_ context.Context) ([]models.Subscriber, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snapshotErr != nil {
		return nil, m.snapshotErr
	}
	var out []models.Subscriber
	for _, sub := range m.sorted() {
		if sub.IsActive {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (m *memSubscribers) sorted() []models.Subscriber {
	out := make([]models.Subscriber, 0, len(m.subs))
	for _, sub := range m.subs {
		out = append(out, *sub)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// memCampaigns is an in-memory campaign repository that records every
// status a campaign passes through.
type memCampaigns struct {
	mu      sync.Mutex
	m       map[string]*models.Campaign
	history map[string][]models.CampaignStatus

	// afterGet, when set, runs after each Get returns its copy. Lets a
	// test slip a concurrent writer between a read and a transition.
	afterGet func()
}

func newMemCampaigns() *memCampaigns {
	return &memCampaigns{
		m:       make(map[string]*models.Campaign),
		history: make(map[string][]models.CampaignStatus),
	}
}

func (m *memCampaigns) Get(_ context.Context, id string) (*models.Campaign, error) {
	m.mu.Lock()
	c, ok := m.m[id]
	if !ok {
		m.mu.Unlock()
		return nil, newsletter.ErrNotFound
	}
	cp := *c
	m.mu.Unlock()

	if m.afterGet != nil {
		m.afterGet()
	}
	return &cp, nil
}

func (m *memCampaigns) Create(_ context.Context, c *models.Campaign) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.m[cp.ID] = &cp
	m.history[cp.ID] = append(m.history[cp.ID], cp.Status)
	return nil
}

func (m *memCampaigns) List(_ context.Context) ([]models.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Campaign
	for _, c := range m.m {
		out = append(out, *c)
	}
	return out, nil
}

func (m *memCampaigns) Transition(_ context.Context, id string, from, to models.CampaignStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.m[id]
	if !ok || c.Status != from {
		return newsletter.ErrNotFound
	}
	c.Status = to
	m.history[id] = append(m.history[id], to)
	return nil
}

func (m *memCampaigns) Finalize(_ context.Context, id string, status models.CampaignStatus, sentAt time.Time, sentCount int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.m[id]
	if !ok {
		return newsletter.ErrNotFound
	}
	c.Status = status
	c.SentAt = &sentAt
	c.SentCount = sentCount
	m.history[id] = append(m.history[id], status)
	return nil
}

func (m *memCampaigns) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.m[id]; !ok {
		return newsletter.ErrNotFound
	}
	delete(m.m, id)
	return nil
}

func (m *memCampaigns) statusHistory(id string) []models.CampaignStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.CampaignStatus(nil), m.history[id]...)
}

// fakeDispatcher records dispatch order and fails for selected addresses.
type fakeDispatcher struct {
	mu      sync.Mutex
	sent    []string
	failFor map[string]bool
	err     error
}

func newFakeDispatcher() *fakeDispatcher {
	return &fakeDispatcher{failFor: make(map[string]bool)}
}

func (f *fakeDispatcher) Dispatch(_ context.Context, to, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, to)
	if f.err != nil {
		return f.err
	}
	if f.failFor[to] {
		return errors.New("smtp: connection reset")
	}
	return nil
}

func (f *fakeDispatcher) dispatched() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}
