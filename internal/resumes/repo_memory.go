package resumes

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo. It backs tests and
// DB-less development. Payloads are copied on the way in and out so callers
// never share backing arrays with the store.
type MemoryRepo struct {
	mu       sync.RWMutex
	resumes  map[string]Resume    // resumeId -> resume
	sections map[string][]Section // resumeId -> sections
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		resumes:  make(map[string]Resume),
		sections: make(map[string][]Section),
	}
}

func clonePayload(p json.RawMessage) json.RawMessage {
	if p == nil {
		return nil
	}
	out := make(json.RawMessage, len(p))
	copy(out, p)
	return out
}

// CreateResume stores a new resume row.
func (r *MemoryRepo) CreateResume(ctx context.Context, res Resume) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resumes[res.ID] = res
	return nil
}

// GetResume returns a resume by ID.
func (r *MemoryRepo) GetResume(ctx context.Context, resumeID string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.resumes[resumeID]
	if !ok {
		return Resume{}, ErrNotFound
	}
	return res, nil
}

// UpdateResumeMeta updates title, template choice, and edit timestamps.
func (r *MemoryRepo) UpdateResumeMeta(ctx context.Context, resumeID, title string, templateID int, editedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.resumes[resumeID]
	if !ok {
		return ErrNotFound
	}
	res.Title = title
	res.TemplateID = templateID
	res.UpdatedAt = editedAt
	res.LastEdited = editedAt
	r.resumes[resumeID] = res
	return nil
}

// SetVisibility toggles public sharing for a resume.
func (r *MemoryRepo) SetVisibility(ctx context.Context, resumeID string, isPublic bool, publicURL string, updatedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.resumes[resumeID]
	if !ok {
		return ErrNotFound
	}
	res.IsPublic = isPublic
	res.PublicURL = publicURL
	res.UpdatedAt = updatedAt
	r.resumes[resumeID] = res
	return nil
}

// ListByUser returns a user's resumes, most recently edited first.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]Resume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Resume
	for _, res := range r.resumes {
		if res.UserID == userID {
			out = append(out, res)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastEdited.After(out[j].LastEdited)
	})
	return out, nil
}

// DeleteResume removes a resume and its sections.
func (r *MemoryRepo) DeleteResume(ctx context.Context, resumeID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.resumes[resumeID]; !ok {
		return ErrNotFound
	}
	delete(r.resumes, resumeID)
	delete(r.sections, resumeID)
	return nil
}

// GetSection returns the section row for one kind of one resume.
func (r *MemoryRepo) GetSection(ctx context.Context, resumeID string, kind SectionKind) (Section, error) {
	if err := ctx.Err(); err != nil {
		return Section{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, sec := range r.sections[resumeID] {
		if sec.Kind == kind {
			sec.Payload = clonePayload(sec.Payload)
			return sec, nil
		}
	}
	return Section{}, ErrNotFound
}

// InsertSection stores a new section row.
func (r *MemoryRepo) InsertSection(ctx context.Context, sec Section) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	sec.Payload = clonePayload(sec.Payload)
	r.sections[sec.ResumeID] = append(r.sections[sec.ResumeID], sec)
	return nil
}

// UpdateSectionPayload replaces the payload of an existing section row.
func (r *MemoryRepo) UpdateSectionPayload(ctx context.Context, sectionID string, payload json.RawMessage, updatedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for resumeID, secs := range r.sections {
		for i := range secs {
			if secs[i].ID == sectionID {
				secs[i].Payload = clonePayload(payload)
				secs[i].UpdatedAt = updatedAt
				r.sections[resumeID] = secs
				return nil
			}
		}
	}
	return ErrNotFound
}

// ListSections returns all section rows of a resume.
func (r *MemoryRepo) ListSections(ctx context.Context, resumeID string) ([]Section, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	secs := r.sections[resumeID]
	out := make([]Section, len(secs))
	copy(out, secs)
	for i := range out {
		out[i].Payload = clonePayload(out[i].Payload)
	}
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)
