package resumes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-builder/internal/users"
)

// Service implements resume persistence on top of Repo. Section writes are
// reconciled read-then-write because the store has no atomic upsert.
type Service struct {
	Repo  Repo
	Users *users.Service
}

// NewService constructs a Service.
func NewService(repo Repo, usersSvc *users.Service) *Service {
	return &Service{Repo: repo, Users: usersSvc}
}

// Save persists the full aggregate for the owner. An empty existingID creates
// a fresh resume; otherwise the existing row and its sections are updated in
// place. Saving the same aggregate twice leaves one row per section.
func (s *Service) Save(ctx context.Context, owner users.User, agg Aggregate, existingID string) (string, error) {
	if s == nil || s.Repo == nil {
		return "", errors.New("resumes service not configured")
	}
	if strings.TrimSpace(owner.ID) == "" {
		return "", ErrUnauthenticated
	}
	if strings.TrimSpace(agg.Title) == "" {
		agg.Title = DefaultTitle
	}
	if agg.TemplateID == 0 {
		agg.TemplateID = DefaultTemplateID
	}

	if err := s.Users.EnsureFromAuth(ctx, owner); err != nil {
		return "", fmt.Errorf("ensure owner: %w", err)
	}

	now := time.Now().UTC()
	resumeID := strings.TrimSpace(existingID)
	if resumeID == "" {
		resumeID = uuid.NewString()
		res := Resume{
			ID:         resumeID,
			UserID:     owner.ID,
			Title:      agg.Title,
			TemplateID: agg.TemplateID,
			CreatedAt:  now,
			UpdatedAt:  now,
			LastEdited: now,
		}
		if err := s.Repo.CreateResume(ctx, res); err != nil {
			return "", fmt.Errorf("create resume: %w", err)
		}
	} else {
		existing, err := s.Repo.GetResume(ctx, resumeID)
		if err != nil {
			return "", err
		}
		if existing.UserID != owner.ID {
			return "", ErrNotFound
		}
		if err := s.Repo.UpdateResumeMeta(ctx, resumeID, agg.Title, agg.TemplateID, now); err != nil {
			return "", fmt.Errorf("update resume: %w", err)
		}
	}

	for _, kind := range SectionKinds {
		payload, err := MarshalSection(agg, kind)
		if err != nil {
			return "", fmt.Errorf("marshal %s: %w", kind, err)
		}
		if err := s.reconcileSection(ctx, resumeID, kind, payload, agg.SectionEmpty(kind), now); err != nil {
			return "", fmt.Errorf("save %s: %w", kind, err)
		}
	}

	return resumeID, nil
}

// reconcileSection overwrites the stored row if one exists (including
// clearing it), and inserts a row only for sections with content. Sections
// that were never filled in leave no row behind.
func (s *Service) reconcileSection(ctx context.Context, resumeID string, kind SectionKind, payload []byte, empty bool, now time.Time) error {
	existing, err := s.Repo.GetSection(ctx, resumeID, kind)
	switch {
	case err == nil:
		return s.Repo.UpdateSectionPayload(ctx, existing.ID, payload, now)
	case errors.Is(err, ErrNotFound):
		if empty {
			return nil
		}
		return s.Repo.InsertSection(ctx, Section{
			ID:        uuid.NewString(),
			ResumeID:  resumeID,
			Kind:      kind,
			Payload:   payload,
			CreatedAt: now,
			UpdatedAt: now,
		})
	default:
		return err
	}
}

// Load reconstructs the aggregate from stored rows. Missing sections keep
// their defaults; rows with unrecognized kinds are ignored.
func (s *Service) Load(ctx context.Context, resumeID string) (Resume, Aggregate, error) {
	res, err := s.Repo.GetResume(ctx, resumeID)
	if err != nil {
		return Resume{}, Aggregate{}, err
	}

	sections, err := s.Repo.ListSections(ctx, resumeID)
	if err != nil {
		return Resume{}, Aggregate{}, fmt.Errorf("list sections: %w", err)
	}

	agg := NewAggregate()
	agg.Title = res.Title
	agg.TemplateID = res.TemplateID
	for _, sec := range sections {
		if err := AssignSection(&agg, sec.Kind, sec.Payload); err != nil {
			if errors.Is(err, ErrUnknownSection) {
				continue
			}
			return Resume{}, Aggregate{}, fmt.Errorf("decode %s: %w", sec.Kind, err)
		}
	}
	return res, agg, nil
}

// LoadForUser loads a resume the caller owns.
func (s *Service) LoadForUser(ctx context.Context, userID, resumeID string) (Resume, Aggregate, error) {
	if strings.TrimSpace(userID) == "" {
		return Resume{}, Aggregate{}, ErrUnauthenticated
	}
	res, agg, err := s.Load(ctx, resumeID)
	if err != nil {
		return Resume{}, Aggregate{}, err
	}
	if res.UserID != userID {
		return Resume{}, Aggregate{}, ErrNotFound
	}
	return res, agg, nil
}

// LoadPublic loads a resume by its share link. Unpublished resumes are
// indistinguishable from missing ones.
func (s *Service) LoadPublic(ctx context.Context, resumeID string) (Resume, Aggregate, error) {
	res, agg, err := s.Load(ctx, resumeID)
	if err != nil {
		return Resume{}, Aggregate{}, err
	}
	if !res.IsPublic {
		return Resume{}, Aggregate{}, ErrNotFound
	}
	return res, agg, nil
}

// List returns the caller's resumes, most recently edited first.
func (s *Service) List(ctx context.Context, userID string) ([]Resume, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrUnauthenticated
	}
	return s.Repo.ListByUser(ctx, userID)
}

// Delete removes a resume the caller owns, sections included.
func (s *Service) Delete(ctx context.Context, userID, resumeID string) error {
	if _, err := s.getOwned(ctx, userID, resumeID); err != nil {
		return err
	}
	return s.Repo.DeleteResume(ctx, resumeID)
}

// Duplicate copies a resume and all its sections under a fresh ID. The copy
// gets " (Copy)" appended to the title, is private, and is fully independent
// of the source.
func (s *Service) Duplicate(ctx context.Context, userID, resumeID string) (Resume, error) {
	src, err := s.getOwned(ctx, userID, resumeID)
	if err != nil {
		return Resume{}, err
	}

	now := time.Now().UTC()
	dup := Resume{
		ID:         uuid.NewString(),
		UserID:     userID,
		Title:      src.Title + " (Copy)",
		TemplateID: src.TemplateID,
		CreatedAt:  now,
		UpdatedAt:  now,
		LastEdited: now,
	}
	if err := s.Repo.CreateResume(ctx, dup); err != nil {
		return Resume{}, fmt.Errorf("create copy: %w", err)
	}

	sections, err := s.Repo.ListSections(ctx, resumeID)
	if err != nil {
		return Resume{}, fmt.Errorf("list sections: %w", err)
	}
	for _, sec := range sections {
		copySec := Section{
			ID:        uuid.NewString(),
			ResumeID:  dup.ID,
			Kind:      sec.Kind,
			Payload:   sec.Payload,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.Repo.InsertSection(ctx, copySec); err != nil {
			return Resume{}, fmt.Errorf("copy %s: %w", sec.Kind, err)
		}
	}

	return dup, nil
}

// Publish makes a resume reachable at its share path and returns the updated row.
func (s *Service) Publish(ctx context.Context, userID, resumeID string) (Resume, error) {
	res, err := s.getOwned(ctx, userID, resumeID)
	if err != nil {
		return Resume{}, err
	}
	now := time.Now().UTC()
	publicURL := "/resume/" + resumeID
	if err := s.Repo.SetVisibility(ctx, resumeID, true, publicURL, now); err != nil {
		return Resume{}, err
	}
	res.IsPublic = true
	res.PublicURL = publicURL
	res.UpdatedAt = now
	return res, nil
}

// Unpublish revokes the share link.
func (s *Service) Unpublish(ctx context.Context, userID, resumeID string) (Resume, error) {
	res, err := s.getOwned(ctx, userID, resumeID)
	if err != nil {
		return Resume{}, err
	}
	now := time.Now().UTC()
	if err := s.Repo.SetVisibility(ctx, resumeID, false, "", now); err != nil {
		return Resume{}, err
	}
	res.IsPublic = false
	res.PublicURL = ""
	res.UpdatedAt = now
	return res, nil
}

func (s *Service) getOwned(ctx context.Context, userID, resumeID string) (Resume, error) {
	if strings.TrimSpace(userID) == "" {
		return Resume{}, ErrUnauthenticated
	}
	res, err := s.Repo.GetResume(ctx, resumeID)
	if err != nil {
		return Resume{}, err
	}
	if res.UserID != userID {
		return Resume{}, ErrNotFound
	}
	return res, nil
}
