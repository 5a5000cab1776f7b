package portfolio

import (
	"context"
	"fmt"
)

const (
	// DocumentID is the fixed identity of the single aggregate document.
	DocumentID = "main"
	// CollectionName names the Mongo collection and the Postgres table.
	CollectionName = "portfolio"
)

// Section is a top-level field of the aggregate that can be replaced on its own.
type Section string

const (
	SectionProfile     Section = "profile"
	SectionProjects    Section = "projects"
	SectionExperiences Section = "experiences"
)

func (s Section) Valid() bool {
	switch s {
	case SectionProfile, SectionProjects, SectionExperiences:
		return true
	}
	return false
}

func ParseSection(s string) (Section, error) {
	sec := Section(s)
	if !sec.Valid() {
		return "", fmt.Errorf("unknown portfolio section %q", s)
	}
	return sec, nil
}

type Portfolio struct {
	Profile     Profile      `json:"profile" bson:"profile"`
	Projects    []Project    `json:"projects" bson:"projects"`
	Experiences []Experience `json:"experiences" bson:"experiences"`
}

// Default is the implied state when nothing has been written yet.
func Default() *Portfolio {
	return &Portfolio{
		Profile:     DefaultProfile(),
		Projects:    []Project{},
		Experiences: []Experience{},
	}
}

// Normalize turns nil lists into empty ones so they render as [] in JSON.
func (p *Portfolio) Normalize() *Portfolio {
	if p.Projects == nil {
		p.Projects = []Project{}
	}
	for i := range p.Projects {
		if p.Projects[i].Images == nil {
			p.Projects[i].Images = []string{}
		}
	}
	if p.Experiences == nil {
		p.Experiences = []Experience{}
	}
	return p
}

// Repository persists the aggregate under DocumentID. Replace* upsert one
// section and leave the others untouched; Fetch never creates the document.
type Repository interface {
	Fetch(ctx context.Context) (*Portfolio, error)
	ReplaceProfile(ctx context.Context, profile Profile) error
	ReplaceProjects(ctx context.Context, projects []Project) error
	ReplaceExperiences(ctx context.Context, experiences []Experience) error
}
