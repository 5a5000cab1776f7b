package editor

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/MoSamy004/Portfolio/internal/domain/portfolio"
)

const (
	newProjectTitle    = "New Project"
	newExperienceTitle = "New Experience"
)

// Session holds the editor's drafts. Changes stay local until one of the
// Save methods sends the whole section.
type Session struct {
	client *Client

	mu          sync.Mutex
	profile     portfolio.Profile
	projects    []portfolio.Project
	experiences []portfolio.Experience
	lastID      int64
	now         func() time.Time
}

func NewSession(client *Client) *Session {
	return &Session{
		client:      client,
		profile:     portfolio.DefaultProfile(),
		projects:    []portfolio.Project{},
		experiences: []portfolio.Experience{},
		now:         time.Now,
	}
}

// Load replaces every draft with the server's current content.
func (s *Session) Load(ctx context.Context) error {
	p, err := s.client.FetchPortfolio(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = p.Profile
	s.projects = p.Projects
	s.experiences = p.Experiences
	return nil
}

func (s *Session) Profile() portfolio.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

func (s *Session) SetProfile(profile portfolio.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = profile
}

func (s *Session) Projects() []portfolio.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]portfolio.Project, len(s.projects))
	for i, p := range s.projects {
		p.Images = append([]string{}, p.Images...)
		out[i] = p
	}
	return out
}

func (s *Session) Experiences() []portfolio.Experience {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]portfolio.Experience{}, s.experiences...)
}

// nextID returns the current unix millis as a string, bumped when two
// items are added within the same millisecond.
func (s *Session) nextID() string {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return strconv.FormatInt(id, 10)
}

func (s *Session) AddProject() portfolio.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := portfolio.Project{ID: s.nextID(), Title: newProjectTitle, Images: []string{}}
	s.projects = append(s.projects, p)
	return p
}

func (s *Session) AddExperience() portfolio.Experience {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := portfolio.Experience{ID: s.nextID(), Title: newExperienceTitle}
	s.experiences = append(s.experiences, e)
	return e
}

// UpdateProject applies fn to the draft with the given id.
func (s *Session) UpdateProject(id string, fn func(*portfolio.Project)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.projects {
		if s.projects[i].ID == id {
			fn(&s.projects[i])
			return true
		}
	}
	return false
}

func (s *Session) UpdateExperience(id string, fn func(*portfolio.Experience)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.experiences {
		if s.experiences[i].ID == id {
			fn(&s.experiences[i])
			return true
		}
	}
	return false
}

// RemoveProject drops the draft only; its uploaded images stay in storage.
func (s *Session) RemoveProject(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.projects[:0]
	for _, p := range s.projects {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.projects = kept
}

func (s *Session) RemoveExperience(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.experiences[:0]
	for _, e := range s.experiences {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	s.experiences = kept
}

// UploadProjectImage uploads a file and appends its URL to the project draft.
func (s *Session) UploadProjectImage(ctx context.Context, projectID, filename string, r io.Reader) (string, error) {
	s.mu.Lock()
	found := s.indexOfProject(projectID) >= 0
	s.mu.Unlock()
	if !found {
		return "", fmt.Errorf("project %q not found", projectID)
	}

	u, err := s.client.Upload(ctx, filename, r)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOfProject(projectID)
	if i < 0 {
		return "", fmt.Errorf("project %q removed during upload", projectID)
	}
	s.projects[i].Images = append(s.projects[i].Images, u)
	return u, nil
}

// RemoveProjectImage drops the image reference at index from the draft.
// The stored object is left alone.
func (s *Session) RemoveProjectImage(projectID string, index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOfProject(projectID)
	if i < 0 || index < 0 || index >= len(s.projects[i].Images) {
		return false
	}
	imgs := s.projects[i].Images
	s.projects[i].Images = append(imgs[:index:index], imgs[index+1:]...)
	return true
}

func (s *Session) indexOfProject(id string) int {
	for i := range s.projects {
		if s.projects[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Session) SaveProfile(ctx context.Context) error {
	return s.client.SaveProfile(ctx, s.Profile())
}

func (s *Session) SaveProjects(ctx context.Context) error {
	return s.client.SaveProjects(ctx, s.Projects())
}

func (s *Session) SaveExperiences(ctx context.Context) error {
	return s.client.SaveExperiences(ctx, s.Experiences())
}
