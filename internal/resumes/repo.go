package resumes

import (
	"context"
	"encoding/json"
	"time"
)

// Repo defines persistence operations for resumes and their sections.
// The store offers no atomic upsert; callers reconcile with read-then-write.
type Repo interface {
	CreateResume(ctx context.Context, res Resume) error
	GetResume(ctx context.Context, resumeID string) (Resume, error)
	UpdateResumeMeta(ctx context.Context, resumeID, title string, templateID int, editedAt time.Time) error
	SetVisibility(ctx context.Context, resumeID string, isPublic bool, publicURL string, updatedAt time.Time) error
	ListByUser(ctx context.Context, userID string) ([]Resume, error)
	DeleteResume(ctx context.Context, resumeID string) error

	GetSection(ctx context.Context, resumeID string, kind SectionKind) (Section, error)
	InsertSection(ctx context.Context, sec Section) error
	UpdateSectionPayload(ctx context.Context, sectionID string, payload json.RawMessage, updatedAt time.Time) error
	ListSections(ctx context.Context, resumeID string) ([]Section, error)
}
