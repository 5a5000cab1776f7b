package persistence

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/MoSamy004/Portfolio/internal/domain/portfolio"
)

// MemoryPortfolioRepo keeps the aggregate in process memory. Used by the
// "memory" store driver and by tests.
type MemoryPortfolioRepo struct {
	mu     sync.RWMutex
	exists bool
	data   portfolio.Portfolio
}

var _ portfolio.Repository = (*MemoryPortfolioRepo)(nil)

func NewMemoryPortfolioRepo() *MemoryPortfolioRepo {
	return &MemoryPortfolioRepo{}
}

// Exists reports whether any section has been written.
func (r *MemoryPortfolioRepo) Exists() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.exists
}

func (r *MemoryPortfolioRepo) Fetch(_ context.Context) (*portfolio.Portfolio, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.exists {
		return portfolio.Default(), nil
	}
	out := &portfolio.Portfolio{}
	if err := deepCopy(r.data, out); err != nil {
		return nil, err
	}
	return out.Normalize(), nil
}

func (r *MemoryPortfolioRepo) ReplaceProfile(_ context.Context, profile portfolio.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.initLocked()
	r.data.Profile = portfolio.Profile{}
	return deepCopy(profile, &r.data.Profile)
}

func (r *MemoryPortfolioRepo) ReplaceProjects(_ context.Context, projects []portfolio.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.initLocked()
	r.data.Projects = nil
	return deepCopy(projects, &r.data.Projects)
}

func (r *MemoryPortfolioRepo) ReplaceExperiences(_ context.Context, experiences []portfolio.Experience) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.initLocked()
	r.data.Experiences = nil
	return deepCopy(experiences, &r.data.Experiences)
}

func (r *MemoryPortfolioRepo) initLocked() {
	if !r.exists {
		r.data = *portfolio.Default()
		r.exists = true
	}
}

// deepCopy detaches stored values from caller-owned slices.
func deepCopy(src, dst any) error {
	b, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dst)
}
