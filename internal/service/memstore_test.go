package service_test

import (
	"sort"
	"sync"
	"time"

	appErrors "github.com/growthlabs/xgrowth-backend/internal/errors"
	"github.com/growthlabs/xgrowth-backend/internal/model"
	"github.com/growthlabs/xgrowth-backend/internal/repository"
)

// memStore is an in-memory stand-in for the Postgres repositories, with the
// same transition semantics (notably the compare-and-swap in MarkPosted).
type memStore struct {
	mu        sync.Mutex
	campaigns map[int]*model.Campaign
	posts     map[int]*model.Post
	events    []*model.Event
	nextID    int
}

func newMemStore() *memStore {
	return &memStore{
		campaigns: map[int]*model.Campaign{},
		posts:     map[int]*model.Post{},
		nextID:    1,
	}
}

func (m *memStore) allocID() int {
	id := m.nextID
	m.nextID++
	return id
}

func (m *memStore) CreateWithPosts(c *model.Campaign, posts []*model.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = m.allocID()
	stored := *c
	m.campaigns[c.ID] = &stored
	for _, p := range posts {
		p.ID = m.allocID()
		p.CampaignID = c.ID
		cp := *p
		m.posts[p.ID] = &cp
	}
	return nil
}

func (m *memStore) GetByID(id int) (*model.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[id]
	if !ok {
		return nil, appErrors.NewCampaignNotFound(id)
	}
	cp := *c
	return &cp, nil
}

func (m *memStore) ListCampaigns(offset, limit int) ([]*model.Campaign, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]*model.Campaign, 0, len(m.campaigns))
	for _, c := range m.campaigns {
		cp := *c
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	total := len(all)
	if offset >= total {
		return []*model.Campaign{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (m *memStore) GetCampaignStats(campaignID int) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := map[string]int{
		model.PostStatusScheduled: 0,
		model.PostStatusPosted:    0,
	}
	for _, p := range m.posts {
		if p.CampaignID == campaignID {
			stats[p.Status]++
		}
	}
	return stats, nil
}

// ---- posts ----

func (m *memStore) GetPostByID(id int) (*model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return nil, appErrors.NewPostNotFound(id)
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) ListDue(now time.Time) ([]*model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	due := []*model.Post{}
	for _, p := range m.posts {
		if p.Status == model.PostStatusScheduled && !p.PublishAt.After(now) {
			cp := *p
			due = append(due, &cp)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].PublishAt.Before(due[j].PublishAt) })
	return due, nil
}

func (m *memStore) ListAll() ([]*model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := []*model.Post{}
	for _, p := range m.posts {
		cp := *p
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].PublishAt.Before(all[j].PublishAt) })
	return all, nil
}

func (m *memStore) MarkPosted(id int, externalID string, postedAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok || p.Status != model.PostStatusScheduled {
		return false, nil
	}
	p.Status = model.PostStatusPosted
	p.ExternalID = &externalID
	p.PostedAt = &postedAt
	return true, nil
}

// ---- events / analytics ----

func (m *memStore) Create(e *model.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.ID = m.allocID()
	cp := *e
	m.events = append(m.events, &cp)
	return nil
}

func (m *memStore) Snapshot() (*repository.AnalyticsSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := &repository.AnalyticsSnapshot{Totals: map[string]int{}}
	for _, e := range m.events {
		snap.Totals[e.EventType] += e.Value
	}
	for _, p := range m.posts {
		snap.PostsTotal++
		if p.Status == model.PostStatusPosted {
			snap.PostsPublished++
		}
	}
	return snap, nil
}

// postRepoView adapts memStore to the post repository interface, whose
// GetByID collides with the campaign repository's.
type postRepoView struct{ *memStore }

func (v postRepoView) GetByID(id int) (*model.Post, error) { return v.GetPostByID(id) }

var (
	_ repository.CampaignRepositoryInterface  = (*memStore)(nil)
	_ repository.PostRepositoryInterface      = postRepoView{}
	_ repository.EventRepositoryInterface     = (*memStore)(nil)
	_ repository.AnalyticsRepositoryInterface = (*memStore)(nil)
)
